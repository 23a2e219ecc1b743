package model

import (
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

// Commit has no foreign key on post_id so the audit trail survives post deletion.
type Commit struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	PostID    int64  `gorm:"column:post_id;not null;index"`
	ManagerID int64  `gorm:"column:manager_id;not null;index"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt time.Time

	Manager *Manager `gorm:"foreignKey:ManagerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Commit) TableName() string {
	return "commits"
}

func NewCommitFromDomain(c *domain.Commit) *Commit {
	return &Commit{
		ID:        c.ID,
		PostID:    c.PostID,
		ManagerID: c.ManagerID,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

// CommitWithManager is a commit joined with the manager's display name.
type CommitWithManager struct {
	Commit
	FullName string
}

func (m *CommitWithManager) ToDomain() domain.Commit {
	return domain.Commit{
		ID:          m.ID,
		PostID:      m.PostID,
		ManagerID:   m.ManagerID,
		ManagerName: m.FullName,
		Message:     m.Message,
		CreatedAt:   m.CreatedAt,
	}
}
