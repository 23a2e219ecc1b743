package vote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/knowledge-base/domain"
)

type Service struct {
	voteRepo    domain.VoteRepository
	postRepo    domain.PostRepository
	commentRepo domain.CommentRepository
	postCache   domain.PostCache
}

var _ domain.VoteUsecase = (*Service)(nil)

// NewService will create a new vote service object
func NewService(v domain.VoteRepository, p domain.PostRepository, c domain.CommentRepository, pc domain.PostCache) *Service {
	return &Service{
		voteRepo:    v,
		postRepo:    p,
		commentRepo: c,
		postCache:   pc,
	}
}

func (s *Service) mustExist(ctx context.Context, target domain.VoteTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	var err error
	if target.PostID != nil {
		_, err = s.postRepo.GetByID(ctx, *target.PostID)
	} else {
		_, err = s.commentRepo.GetByID(ctx, *target.CommentID)
	}
	return err
}

// Cast applies the toggle rules: a first vote is stored, the same vote again
// retracts it and the other type switches it.
func (s *Service) Cast(ctx context.Context, userID int64, target domain.VoteTarget, voteType domain.VoteType) (domain.VoteResult, error) {
	if !voteType.Valid() {
		return domain.VoteResult{}, fmt.Errorf("%w: vote type must be upvote or downvote", domain.ErrBadParamInput)
	}
	if err := s.mustExist(ctx, target); err != nil {
		return domain.VoteResult{}, err
	}

	userVote := voteType
	existing, err := s.voteRepo.Get(ctx, userID, target)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		err = s.voteRepo.Store(ctx, &domain.Vote{UserID: userID, Target: target, Type: voteType})
	case err != nil:
		return domain.VoteResult{}, err
	case existing.Type == voteType:
		err = s.voteRepo.Delete(ctx, existing.ID)
		userVote = domain.NoVote
	default:
		existing.Type = voteType
		err = s.voteRepo.UpdateType(ctx, &existing)
	}
	if err != nil {
		return domain.VoteResult{}, err
	}

	counts, err := s.voteRepo.Count(ctx, target)
	if err != nil {
		return domain.VoteResult{}, err
	}

	if target.PostID != nil {
		s.refreshPostCounts(ctx, *target.PostID, counts)
	}

	return domain.VoteResult{VoteCounts: counts, UserVote: userVote}, nil
}

// refreshPostCounts stores the counters on the post row and drops the cached detail.
// Failures only leave stale counters behind, so they are logged.
func (s *Service) refreshPostCounts(ctx context.Context, postID int64, counts domain.VoteCounts) {
	if err := s.postRepo.SetVoteCounts(ctx, postID, counts); err != nil {
		logrus.Errorf("failed to store vote counts of post %d: %v", postID, err)
	}
	if err := s.postCache.DeletePost(ctx, postID); err != nil {
		logrus.Warnf("failed to invalidate post cache %d: %v", postID, err)
	}
}

func (s *Service) Counts(ctx context.Context, target domain.VoteTarget) (domain.VoteCounts, error) {
	if err := s.mustExist(ctx, target); err != nil {
		return domain.VoteCounts{}, err
	}
	return s.voteRepo.Count(ctx, target)
}

func (s *Service) UserVote(ctx context.Context, userID int64, target domain.VoteTarget) (domain.VoteType, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	v, err := s.voteRepo.Get(ctx, userID, target)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NoVote, nil
	}
	if err != nil {
		return "", err
	}
	return v.Type, nil
}

func (s *Service) CountsForComments(ctx context.Context, commentIDs []int64) (map[int64]domain.VoteCounts, error) {
	return s.voteRepo.CountByComments(ctx, commentIDs)
}

func (s *Service) UserVotesForComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]domain.VoteType, error) {
	return s.voteRepo.UserVotesByComments(ctx, userID, commentIDs)
}
