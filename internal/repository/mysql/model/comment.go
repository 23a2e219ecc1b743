package model

import (
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

type Comment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	PostID    int64  `gorm:"column:post_id;not null;index"`
	UserID    int64  `gorm:"column:user_id;not null;index"`
	ParentID  *int64 `gorm:"column:parent_comment_id;index"`
	Text      string `gorm:"column:comment_text;type:text;not null"`
	CreatedAt time.Time
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`

	Post *Post `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Comment) TableName() string {
	return "comments"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	return &Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		ParentID:  c.ParentID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *Comment) ToDomain() domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		UserID:    m.UserID,
		ParentID:  m.ParentID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
