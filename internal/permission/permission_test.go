package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/permission"
)

func TestEvaluate(t *testing.T) {
	res := permission.Resource{OwnerID: 1, DepartmentID: 10}

	tests := []struct {
		name  string
		actor domain.Actor
		want  permission.Decision
	}{
		{
			name:  "owner employee",
			actor: domain.Actor{UserID: 1, Role: domain.RoleEmployee, DepartmentID: 10},
			want:  permission.Decision{Allowed: true},
		},
		{
			name:  "owner manager is not moderated",
			actor: domain.Actor{UserID: 1, Role: domain.RoleManager, DepartmentID: 10},
			want:  permission.Decision{Allowed: true},
		},
		{
			name:  "manager same department",
			actor: domain.Actor{UserID: 2, Role: domain.RoleManager, DepartmentID: 10},
			want:  permission.Decision{Allowed: true, Moderated: true},
		},
		{
			name:  "manager other department",
			actor: domain.Actor{UserID: 2, Role: domain.RoleManager, DepartmentID: 11},
			want:  permission.Decision{},
		},
		{
			name:  "employee same department",
			actor: domain.Actor{UserID: 3, Role: domain.RoleEmployee, DepartmentID: 10},
			want:  permission.Decision{},
		},
		{
			name:  "anonymous",
			actor: domain.Actor{},
			want:  permission.Decision{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, permission.Evaluate(tc.actor, res))
		})
	}
}

func TestDecisionErr(t *testing.T) {
	assert.ErrorIs(t, permission.Decision{}.Err(), domain.ErrForbidden)
	assert.NoError(t, permission.Decision{Allowed: true}.Err())
}

func TestCanModerateIgnoresZeroDepartment(t *testing.T) {
	assert.False(t, permission.CanModerate(domain.RoleManager, 0, 0))
	assert.True(t, permission.CanModerate(domain.RoleManager, 4, 4))
	assert.False(t, permission.CanModerate(domain.RoleEmployee, 4, 4))
}
