package domain

import "context"

// Department is static reference data owning posts, tags and managers.
type Department struct {
	ID   int64
	Name string
}

// Manager is a user specialised with the one department they moderate.
type Manager struct {
	ID           int64
	UserID       int64
	DepartmentID int64
	// Name is the display name of the underlying user
	Name string
}

type DepartmentRepository interface {
	Fetch(ctx context.Context) ([]Department, error)
	// GetByID returns ErrNotFound if the department doesn't exist.
	GetByID(ctx context.Context, id int64) (Department, error)
	// Store returns ErrConflict if the name is taken.
	Store(ctx context.Context, d *Department) error
}

type ManagerRepository interface {
	// GetByUserID returns ErrNotFound if the user is not a manager.
	GetByUserID(ctx context.Context, userID int64) (Manager, error)
	// Store returns ErrConflict if the user already has a manager record.
	Store(ctx context.Context, m *Manager) error
}
