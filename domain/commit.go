package domain

import (
	"context"
	"time"
)

// Commit is an immutable audit record of a manager's moderation action.
// It is never updated or deleted, and outlives the post it references.
type Commit struct {
	ID          int64
	PostID      int64
	ManagerID   int64
	ManagerName string
	Message     string
	CreatedAt   time.Time
}

type CommitRepository interface {
	Store(ctx context.Context, c *Commit) error
	// FetchByPost returns the commits of a post, newest first.
	FetchByPost(ctx context.Context, postID int64) ([]Commit, error)
	// FetchByManager returns the commits of a manager, newest first.
	FetchByManager(ctx context.Context, managerID int64) ([]Commit, error)
}

// ModerationEvent describes a manager edit or delete on somebody else's content.
type ModerationEvent struct {
	Type      NotificationType
	PostID    int64
	CommentID *int64
	Manager   Manager
	// AuthorID is the user who owns the moderated content
	AuthorID int64
	Message  string
}

type CommitUsecase interface {
	// ResolveManager returns the manager record of the actor if it moderates deptID,
	// otherwise ErrForbidden.
	ResolveManager(ctx context.Context, actor Actor, deptID int64) (Manager, error)

	// Record persists a commit.
	Record(ctx context.Context, postID, managerID int64, message string) (Commit, error)

	// Moderate records the commit and notifies the author when the event carries a message.
	// The notification is best-effort and never fails the call.
	Moderate(ctx context.Context, ev ModerationEvent) error

	ListForPost(ctx context.Context, postID int64) ([]Commit, error)
	ListForManager(ctx context.Context, actor Actor) ([]Commit, error)
}
