package model

import (
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

type Attachment struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	PostID     *int64    `gorm:"column:post_id;index"`
	CommentID  *int64    `gorm:"column:comment_id;index"`
	FileName   string    `gorm:"type:varchar(255);not null"`
	FilePath   string    `gorm:"type:varchar(512);not null"`
	FileType   string    `gorm:"type:varchar(20);not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

func (Attachment) TableName() string {
	return "attachments"
}

func NewAttachmentFromDomain(a *domain.Attachment) *Attachment {
	return &Attachment{
		ID:         a.ID,
		PostID:     a.PostID,
		CommentID:  a.CommentID,
		FileName:   a.FileName,
		FilePath:   a.FilePath,
		FileType:   a.FileType,
		UploadedAt: a.UploadedAt,
	}
}

func (m *Attachment) ToDomain() domain.Attachment {
	return domain.Attachment{
		ID:         m.ID,
		PostID:     m.PostID,
		CommentID:  m.CommentID,
		FileName:   m.FileName,
		FilePath:   m.FilePath,
		FileType:   m.FileType,
		UploadedAt: m.UploadedAt,
	}
}
