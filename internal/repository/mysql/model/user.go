package model

import (
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

type User struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	FullName       string `gorm:"type:varchar(100);not null"`
	Email          string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string `gorm:"type:varchar(255);not null"`
	Role           string `gorm:"type:varchar(20);not null;default:Employee"`
	DepartmentID   int64  `gorm:"column:department_id;not null;index"`
	ProfilePicture string `gorm:"type:varchar(255)"`
	CreatedAt      time.Time

	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (User) TableName() string {
	return "users"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:             m.ID,
		FullName:       m.FullName,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           domain.Role(m.Role),
		DepartmentID:   m.DepartmentID,
		ProfilePicture: m.ProfilePicture,
		CreatedAt:      m.CreatedAt,
	}
}

func NewUserFromDomain(u *domain.User) *User {
	return &User{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		DepartmentID:   u.DepartmentID,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}
