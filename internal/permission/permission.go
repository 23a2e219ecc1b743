// Package permission decides whether an actor may mutate a post or a comment.
package permission

import "github.com/Guyuepp/knowledge-base/domain"

// Resource is the ownership descriptor of a post or a comment.
// For comments DepartmentID is the department of the owning post.
type Resource struct {
	OwnerID      int64
	DepartmentID int64
}

// Decision is the outcome of Evaluate.
type Decision struct {
	Allowed bool
	// Moderated is set when the permission comes from the manager rule only,
	// in which case the action must leave a commit.
	Moderated bool
}

func IsOwner(actorID, ownerID int64) bool {
	return actorID != 0 && actorID == ownerID
}

func CanModerate(role domain.Role, actorDept, resourceDept int64) bool {
	return role == domain.RoleManager && actorDept != 0 && actorDept == resourceDept
}

// Evaluate allows the owner, or a manager of the resource's department.
func Evaluate(actor domain.Actor, res Resource) Decision {
	if IsOwner(actor.UserID, res.OwnerID) {
		return Decision{Allowed: true}
	}
	if CanModerate(actor.Role, actor.DepartmentID, res.DepartmentID) {
		return Decision{Allowed: true, Moderated: true}
	}
	return Decision{}
}

// Err returns domain.ErrForbidden for a denied decision.
func (d Decision) Err() error {
	if !d.Allowed {
		return domain.ErrForbidden
	}
	return nil
}
