package memory

import (
	"context"

	"github.com/Guyuepp/knowledge-base/domain"
)

type voteRepo struct{ s *Store }

var _ domain.VoteRepository = (*voteRepo)(nil)

func sameTarget(a, b domain.VoteTarget) bool {
	switch {
	case a.PostID != nil && b.PostID != nil:
		return *a.PostID == *b.PostID
	case a.CommentID != nil && b.CommentID != nil:
		return *a.CommentID == *b.CommentID
	default:
		return false
	}
}

func (r *voteRepo) Get(ctx context.Context, userID int64, target domain.VoteTarget) (domain.Vote, error) {
	if err := target.Validate(); err != nil {
		return domain.Vote{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, v := range r.s.votes {
		if v.UserID == userID && sameTarget(v.Target, target) {
			return v, nil
		}
	}
	return domain.Vote{}, domain.ErrNotFound
}

func (r *voteRepo) Store(ctx context.Context, v *domain.Vote) error {
	if err := v.Target.Validate(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.votes {
		if existing.UserID == v.UserID && sameTarget(existing.Target, v.Target) {
			return domain.ErrConflict
		}
	}
	v.ID = r.s.nextID()
	v.CreatedAt = r.s.now()
	r.s.votes[v.ID] = *v
	return nil
}

func (r *voteRepo) UpdateType(ctx context.Context, v *domain.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.votes[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	v.CreatedAt = r.s.now()
	existing.Type = v.Type
	existing.CreatedAt = v.CreatedAt
	r.s.votes[v.ID] = existing
	return nil
}

func (r *voteRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.votes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.votes, id)
	return nil
}

func (r *voteRepo) Count(ctx context.Context, target domain.VoteTarget) (domain.VoteCounts, error) {
	if err := target.Validate(); err != nil {
		return domain.VoteCounts{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var res domain.VoteCounts
	for _, v := range r.s.votes {
		if sameTarget(v.Target, target) {
			tally(&res, v.Type)
		}
	}
	return res, nil
}

func (r *voteRepo) CountByComments(ctx context.Context, commentIDs []int64) (map[int64]domain.VoteCounts, error) {
	want := idSet(commentIDs)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make(map[int64]domain.VoteCounts, len(commentIDs))
	for _, v := range r.s.votes {
		if v.Target.CommentID == nil {
			continue
		}
		id := *v.Target.CommentID
		if _, ok := want[id]; !ok {
			continue
		}
		c := res[id]
		tally(&c, v.Type)
		res[id] = c
	}
	return res, nil
}

func (r *voteRepo) UserVotesByComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]domain.VoteType, error) {
	want := idSet(commentIDs)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make(map[int64]domain.VoteType)
	for _, v := range r.s.votes {
		if v.UserID != userID || v.Target.CommentID == nil {
			continue
		}
		if _, ok := want[*v.Target.CommentID]; ok {
			res[*v.Target.CommentID] = v.Type
		}
	}
	return res, nil
}

func tally(c *domain.VoteCounts, t domain.VoteType) {
	switch t {
	case domain.Upvote:
		c.Upvotes++
	case domain.Downvote:
		c.Downvotes++
	}
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
