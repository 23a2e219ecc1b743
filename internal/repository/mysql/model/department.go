package model

import "github.com/Guyuepp/knowledge-base/domain"

type Department struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (Department) TableName() string {
	return "departments"
}

func (m *Department) ToDomain() domain.Department {
	return domain.Department{ID: m.ID, Name: m.Name}
}

type Manager struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	UserID       int64 `gorm:"column:user_id;not null;uniqueIndex"`
	DepartmentID int64 `gorm:"column:department_id;not null;index"`

	User       *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Manager) TableName() string {
	return "managers"
}

// ManagerWithName is a manager row joined with the user's display name.
type ManagerWithName struct {
	Manager
	FullName string
}

func (m *ManagerWithName) ToDomain() domain.Manager {
	return domain.Manager{
		ID:           m.ID,
		UserID:       m.UserID,
		DepartmentID: m.DepartmentID,
		Name:         m.FullName,
	}
}
