package domain

import "context"

// Tag is a department-scoped label.
type Tag struct {
	ID           int64
	Name         string
	DepartmentID int64
}

type TagRepository interface {
	// FetchByDepartment lists tags, all of them when deptID is nil.
	FetchByDepartment(ctx context.Context, deptID *int64) ([]Tag, error)
	// GetByName matches case-insensitively; returns ErrNotFound if absent.
	GetByName(ctx context.Context, deptID int64, name string) (Tag, error)
	Store(ctx context.Context, t *Tag) error
	LinkPost(ctx context.Context, postID int64, tagIDs []int64) error
	FetchByPost(ctx context.Context, postID int64) ([]Tag, error)
}

type TagUsecase interface {
	Fetch(ctx context.Context, deptID *int64) ([]Tag, error)
	// FindOrCreate returns the tag of the actor's department, creating it if needed.
	// created reports whether a new tag was stored.
	FindOrCreate(ctx context.Context, actor Actor, name string) (tag Tag, created bool, err error)
	// Ensure normalises names and find-or-creates each of them in the department.
	Ensure(ctx context.Context, deptID int64, names []string) ([]Tag, error)
}
