package domain

import (
	"context"
	"time"
)

// Role is the coarse authorization role carried by every user.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// User represents a user entity in the system.
// A user belongs to exactly one department and can write posts and comments.
type User struct {
	ID       int64  // Unique identifier
	FullName string // Display name
	Email    string // Login email (unique)
	// PasswordHash is the bcrypt hash; it never leaves the process
	PasswordHash   string `json:"-"`
	Role           Role   // Employee or Manager
	DepartmentID   int64  // Owning department
	ProfilePicture string // Public path of the avatar, empty if none
	// CreatedAt is the account creation timestamp
	CreatedAt time.Time
}

// Actor is the verified identity behind a request.
// Every core operation takes it as an explicit argument.
type Actor struct {
	UserID       int64
	Role         Role
	DepartmentID int64
}

// UserStats summarises a user's activity.
type UserStats struct {
	TotalPosts            int64 `json:"totalPosts"`
	TotalUpvotes          int64 `json:"totalUpvotes"`
	TotalDownvotes        int64 `json:"totalDownvotes"`
	TotalCommentsReceived int64 `json:"totalCommentsReceived"`
	TotalCommitsMade      int64 `json:"totalCommitsMade"`
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByIDs retrieves every existing user among ids.
	GetByIDs(ctx context.Context, ids []int64) ([]User, error)

	// GetByEmail retrieves a user by their login email.
	// Used during login to verify credentials.
	GetByEmail(ctx context.Context, email string) (User, error)

	// Insert creates a new user account.
	// Backfills the ID in the provided User object upon success.
	// Returns ErrConflict if the email is already registered.
	Insert(ctx context.Context, u *User) error

	// Update modifies an existing user's information.
	Update(ctx context.Context, u *User) error

	// Delete removes a user that owns no content yet.
	// Returns ErrNotFound if the user doesn't exist.
	Delete(ctx context.Context, id int64) error

	// Stats aggregates the activity of a user across posts, votes, comments and commits.
	Stats(ctx context.Context, userID int64) (UserStats, error)
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	FullName       string
	Email          string
	Password       string
	Role           Role
	DepartmentID   int64
	ProfilePicture *FileUpload
}

// ProfileInput carries a partial profile update; empty fields are left untouched.
type ProfileInput struct {
	FullName             string
	Password             string
	ProfilePicture       *FileUpload
	RemoveProfilePicture bool
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string
	User  User
}

// UserUsecase defines the business logic contract for user operations.
// Handles authentication, registration, and profile management.
type UserUsecase interface {
	// Register creates a new user account and returns a bearer token.
	// Returns ErrConflict if the email already exists.
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)

	// Login verifies user credentials and returns a bearer token.
	// Returns ErrUnauthorized if the email or password is wrong.
	Login(ctx context.Context, email, password string) (AuthResult, error)

	GetByID(ctx context.Context, id int64) (User, error)
	UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (User, error)
	Stats(ctx context.Context, actor Actor) (UserStats, error)

	// Departments lists the static department reference data.
	Departments(ctx context.Context) ([]Department, error)
}
