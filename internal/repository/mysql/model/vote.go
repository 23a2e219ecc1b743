package model

import (
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

// Vote references exactly one of PostID or CommentID; NULLs stay out of the unique indexes.
type Vote struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UserID    int64  `gorm:"column:user_id;not null;uniqueIndex:idx_vote_user_post;uniqueIndex:idx_vote_user_comment"`
	PostID    *int64 `gorm:"column:post_id;index;uniqueIndex:idx_vote_user_post"`
	CommentID *int64 `gorm:"column:comment_id;index;uniqueIndex:idx_vote_user_comment"`
	VoteType  string `gorm:"column:vote_type;type:varchar(10);not null"`
	CreatedAt time.Time
}

func (Vote) TableName() string {
	return "votes"
}

func NewVoteFromDomain(v *domain.Vote) *Vote {
	return &Vote{
		ID:        v.ID,
		UserID:    v.UserID,
		PostID:    v.Target.PostID,
		CommentID: v.Target.CommentID,
		VoteType:  string(v.Type),
		CreatedAt: v.CreatedAt,
	}
}

func (m *Vote) ToDomain() domain.Vote {
	return domain.Vote{
		ID:        m.ID,
		UserID:    m.UserID,
		Target:    domain.VoteTarget{PostID: m.PostID, CommentID: m.CommentID},
		Type:      domain.VoteType(m.VoteType),
		CreatedAt: m.CreatedAt,
	}
}

// VoteCountRow is one row of a grouped vote count.
type VoteCountRow struct {
	TargetID int64
	VoteType string
	Total    int64
}
