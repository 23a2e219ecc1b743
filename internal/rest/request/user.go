package request

import "github.com/Guyuepp/knowledge-base/domain"

type Login struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register is bound from a multipart form; the avatar comes as the profilePicture file.
type Register struct {
	FullName     string `form:"fullName" binding:"required,notblank,max=100"`
	Email        string `form:"email" binding:"required,email"`
	Password     string `form:"password" binding:"required,min=6"`
	Role         string `form:"role" binding:"omitempty,oneof=Employee Manager"`
	DepartmentID int64  `form:"departmentId" binding:"required,gt=0"`
}

func (r *Register) ToDomain() domain.RegisterInput {
	return domain.RegisterInput{
		FullName:     r.FullName,
		Email:        r.Email,
		Password:     r.Password,
		Role:         domain.Role(r.Role),
		DepartmentID: r.DepartmentID,
	}
}

type Profile struct {
	FullName             string `form:"fullName" binding:"omitempty,max=100"`
	Password             string `form:"password" binding:"omitempty,min=6"`
	RemoveProfilePicture bool   `form:"removeProfilePicture"`
}

func (r *Profile) ToDomain() domain.ProfileInput {
	return domain.ProfileInput{
		FullName:             r.FullName,
		Password:             r.Password,
		RemoveProfilePicture: r.RemoveProfilePicture,
	}
}
