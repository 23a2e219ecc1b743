package response

import "github.com/Guyuepp/knowledge-base/domain"

type Comment struct {
	ID              int64   `json:"id"`
	PostID          int64   `json:"postId"`
	UserID          int64   `json:"userId"`
	AuthorName      string  `json:"authorName"`
	ParentCommentID *int64  `json:"parentCommentId"`
	CommentText     string  `json:"commentText"`
	Upvotes         int64   `json:"upvotes"`
	Downvotes       int64   `json:"downvotes"`
	UserVote        string  `json:"userVote,omitempty"`
	DepartmentID    int64   `json:"departmentId"`
	PostAuthorID    int64   `json:"postAuthorId"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       *string `json:"updatedAt"`

	// Replies is empty outside hierarchical listings and on leaves
	Replies []*Comment `json:"replies"`
}

// NewCommentFromDomain converts a node and its replies.
func NewCommentFromDomain(n *domain.CommentNode) *Comment {
	if n == nil {
		return nil
	}
	res := &Comment{
		ID:              n.ID,
		PostID:          n.PostID,
		UserID:          n.UserID,
		AuthorName:      n.AuthorName,
		ParentCommentID: n.ParentID,
		CommentText:     n.Text,
		Upvotes:         n.Upvotes,
		Downvotes:       n.Downvotes,
		UserVote:        string(n.UserVote),
		DepartmentID:    n.DepartmentID,
		PostAuthorID:    n.PostAuthorID,
		CreatedAt:       formatTime(n.CreatedAt),
		UpdatedAt:       formatOptional(n.UpdatedAt),
		Replies:         make([]*Comment, 0, len(n.Replies)),
	}
	for _, r := range n.Replies {
		res.Replies = append(res.Replies, NewCommentFromDomain(r))
	}
	return res
}

func NewCommentsFromDomain(ns []*domain.CommentNode) []*Comment {
	res := make([]*Comment, len(ns))
	for i, n := range ns {
		res[i] = NewCommentFromDomain(n)
	}
	return res
}
