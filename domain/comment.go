package domain

import (
	"context"
	"time"
)

// DeletedCommentText replaces the text of an owner-deleted comment that still has replies.
const DeletedCommentText = "[deleted]"

// Comment domain model
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	ParentID  *int64 // nil for root comments
	Text      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CommentNode is a comment decorated for display.
type CommentNode struct {
	Comment

	AuthorName string
	// DepartmentID and PostAuthorID belong to the owning post,
	// consumers use them for permission checks.
	DepartmentID int64
	PostAuthorID int64
	Upvotes      int64
	Downvotes    int64
	UserVote     VoteType

	// Replies holds child comments in creation order
	Replies []*CommentNode
}

// CommentRepository data access contract
type CommentRepository interface {
	// GetByID returns ErrNotFound if the comment doesn't exist.
	GetByID(ctx context.Context, id int64) (Comment, error)
	// FetchByPost returns every comment of the post in global creation order.
	FetchByPost(ctx context.Context, postID int64) ([]Comment, error)
	Store(ctx context.Context, c *Comment) error
	// Update writes text and updated_at.
	Update(ctx context.Context, c *Comment) error
	HasReplies(ctx context.Context, id int64) (bool, error)
	// Delete removes the comments together with their votes and attachments.
	Delete(ctx context.Context, ids []int64) error
}

type CreateCommentInput struct {
	PostID   int64
	ParentID *int64
	Text     string
}

// UpdateCommentInput carries a partial update; empty text is left untouched.
type UpdateCommentInput struct {
	Text          string
	CommitMessage string
}

// CommentUsecase business logic contract
type CommentUsecase interface {
	// ListForPost returns the decorated comments of a post, either as a
	// forest of replies or as a flat list in creation order.
	ListForPost(ctx context.Context, postID int64, viewerID *int64, hierarchical bool) ([]*CommentNode, error)
	GetByID(ctx context.Context, id int64, viewerID *int64) (*CommentNode, error)
	Create(ctx context.Context, actor Actor, in CreateCommentInput) (*CommentNode, error)
	Update(ctx context.Context, actor Actor, id int64, in UpdateCommentInput) (*CommentNode, error)
	Delete(ctx context.Context, actor Actor, id int64, commitMessage string) error
}
