package domain

import (
	"context"
	"fmt"
	"time"
)

type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
	// NoVote is reported when the user has no vote on a target
	NoVote VoteType = "none"
)

func (v VoteType) Valid() bool {
	return v == Upvote || v == Downvote
}

// VoteTarget references exactly one of a post or a comment.
type VoteTarget struct {
	PostID    *int64
	CommentID *int64
}

func PostTarget(id int64) VoteTarget {
	return VoteTarget{PostID: &id}
}

func CommentTarget(id int64) VoteTarget {
	return VoteTarget{CommentID: &id}
}

// Validate checks that exactly one reference is set.
func (t VoteTarget) Validate() error {
	if (t.PostID == nil) == (t.CommentID == nil) {
		return fmt.Errorf("%w: a vote targets exactly one of post or comment", ErrBadParamInput)
	}
	return nil
}

func (t VoteTarget) String() string {
	if t.PostID != nil {
		return fmt.Sprintf("post:%d", *t.PostID)
	}
	if t.CommentID != nil {
		return fmt.Sprintf("comment:%d", *t.CommentID)
	}
	return "none"
}

// Vote is at most one per (user, target).
type Vote struct {
	ID        int64
	UserID    int64
	Target    VoteTarget
	Type      VoteType
	CreatedAt time.Time
}

type VoteCounts struct {
	Upvotes   int64
	Downvotes int64
}

// VoteResult is the state after a vote was cast.
type VoteResult struct {
	VoteCounts
	UserVote VoteType
}

type VoteRepository interface {
	// Get returns ErrNotFound if the user has not voted on the target.
	Get(ctx context.Context, userID int64, target VoteTarget) (Vote, error)
	// Store returns ErrConflict if the user already voted on the target.
	Store(ctx context.Context, v *Vote) error
	// UpdateType switches the vote type and refreshes its timestamp.
	UpdateType(ctx context.Context, v *Vote) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, target VoteTarget) (VoteCounts, error)
	CountByComments(ctx context.Context, commentIDs []int64) (map[int64]VoteCounts, error)
	UserVotesByComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]VoteType, error)
}

type VoteUsecase interface {
	// Cast inserts, retracts (same type) or switches (other type) the user's vote.
	Cast(ctx context.Context, userID int64, target VoteTarget, voteType VoteType) (VoteResult, error)
	Counts(ctx context.Context, target VoteTarget) (VoteCounts, error)
	// UserVote returns NoVote when the user has not voted.
	UserVote(ctx context.Context, userID int64, target VoteTarget) (VoteType, error)
	CountsForComments(ctx context.Context, commentIDs []int64) (map[int64]VoteCounts, error)
	UserVotesForComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]VoteType, error)
}
