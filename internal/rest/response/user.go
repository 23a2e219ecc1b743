package response

import "github.com/Guyuepp/knowledge-base/domain"

type User struct {
	ID             int64  `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	DepartmentID   int64  `json:"departmentId"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

func NewUserFromDomain(u domain.User) User {
	return User{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		Role:           string(u.Role),
		DepartmentID:   u.DepartmentID,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      formatTime(u.CreatedAt),
	}
}

// Auth is returned by register and login.
type Auth struct {
	Token          string `json:"token"`
	UserID         int64  `json:"userId"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	DepartmentID   int64  `json:"departmentId"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func NewAuthFromDomain(a domain.AuthResult) Auth {
	return Auth{
		Token:          a.Token,
		UserID:         a.User.ID,
		FullName:       a.User.FullName,
		Role:           string(a.User.Role),
		DepartmentID:   a.User.DepartmentID,
		ProfilePicture: a.User.ProfilePicture,
	}
}

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewDepartmentsFromDomain(ds []domain.Department) []Department {
	res := make([]Department, len(ds))
	for i, d := range ds {
		res[i] = Department{ID: d.ID, Name: d.Name}
	}
	return res
}
