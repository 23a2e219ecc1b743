package request

import "github.com/Guyuepp/knowledge-base/domain"

type Comment struct {
	PostID          int64  `json:"postId" binding:"required,gt=0"`
	ParentCommentID *int64 `json:"parentCommentId"`
	CommentText     string `json:"commentText" binding:"required,notblank,max=10000"`
}

// ToDomain: Request -> Domain
func (r *Comment) ToDomain() domain.CreateCommentInput {
	return domain.CreateCommentInput{
		PostID:   r.PostID,
		ParentID: r.ParentCommentID,
		Text:     r.CommentText,
	}
}

type UpdateComment struct {
	CommentText string `json:"commentText" binding:"omitempty,max=10000"`
}

func (r *UpdateComment) ToDomain(commitMessage string) domain.UpdateCommentInput {
	return domain.UpdateCommentInput{
		Text:          r.CommentText,
		CommitMessage: commitMessage,
	}
}
