package request

import "github.com/Guyuepp/knowledge-base/domain"

type Vote struct {
	PostID    *int64 `json:"postId"`
	CommentID *int64 `json:"commentId"`
	VoteType  string `json:"voteType" binding:"required,oneof=upvote downvote"`
}

func (r *Vote) Target() domain.VoteTarget {
	return domain.VoteTarget{PostID: r.PostID, CommentID: r.CommentID}
}
