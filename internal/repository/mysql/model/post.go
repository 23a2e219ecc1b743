package model

import (
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

type Post struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	Title         string `gorm:"type:varchar(255);not null"`
	Body          string `gorm:"type:text;not null"`
	UserID        int64  `gorm:"column:user_id;not null;index"`
	DepartmentID  int64  `gorm:"column:department_id;not null;index"`
	UpvoteCount   int64  `gorm:"not null;default:0"`
	DownvoteCount int64  `gorm:"not null;default:0"`
	IsRepost      bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false"`

	User       *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Post) TableName() string {
	return "posts"
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:            m.ID,
		Title:         m.Title,
		Body:          m.Body,
		User:          domain.User{ID: m.UserID},
		DepartmentID:  m.DepartmentID,
		UpvoteCount:   m.UpvoteCount,
		DownvoteCount: m.DownvoteCount,
		IsRepost:      m.IsRepost,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		UserID:        p.User.ID,
		DepartmentID:  p.DepartmentID,
		UpvoteCount:   p.UpvoteCount,
		DownvoteCount: p.DownvoteCount,
		IsRepost:      p.IsRepost,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type Repost struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	PostID    int64 `gorm:"column:post_id;not null;uniqueIndex:idx_repost_post_user"`
	UserID    int64 `gorm:"column:user_id;not null;uniqueIndex:idx_repost_post_user"`
	CreatedAt time.Time
}

func (Repost) TableName() string {
	return "reposts"
}

// RepostWithName is a repost joined with the reposting user's name.
type RepostWithName struct {
	Repost
	FullName string
}

func (m *RepostWithName) ToDomain() domain.Repost {
	return domain.Repost{
		ID:        m.ID,
		PostID:    m.PostID,
		UserID:    m.UserID,
		UserName:  m.FullName,
		CreatedAt: m.CreatedAt,
	}
}
