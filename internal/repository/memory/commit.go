package memory

import (
	"context"
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

type commitRepo struct{ s *Store }

var _ domain.CommitRepository = (*commitRepo)(nil)

func (r *commitRepo) Store(ctx context.Context, c *domain.Commit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID()
	c.CreatedAt = r.s.now()
	stored := *c
	stored.ManagerName = ""
	r.s.commits[c.ID] = stored
	return nil
}

func (r *commitRepo) FetchByPost(ctx context.Context, postID int64) ([]domain.Commit, error) {
	return r.fetch(func(c domain.Commit) bool { return c.PostID == postID }), nil
}

func (r *commitRepo) FetchByManager(ctx context.Context, managerID int64) ([]domain.Commit, error) {
	return r.fetch(func(c domain.Commit) bool { return c.ManagerID == managerID }), nil
}

func (r *commitRepo) fetch(match func(domain.Commit) bool) []domain.Commit {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.Commit, 0)
	for _, c := range r.s.commits {
		if !match(c) {
			continue
		}
		if m, ok := r.s.managers[c.ManagerID]; ok {
			c.ManagerName = r.s.users[m.UserID].FullName
		}
		res = append(res, c)
	}
	sortByCreation(res, func(c domain.Commit) (time.Time, int64) { return c.CreatedAt, c.ID }, true)
	return res
}
