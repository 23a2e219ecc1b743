package memory

import (
	"context"
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

type commentRepo struct{ s *Store }

var _ domain.CommentRepository = (*commentRepo)(nil)

func (r *commentRepo) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *commentRepo) FetchByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.Comment, 0)
	for _, c := range r.s.comments {
		if c.PostID == postID {
			res = append(res, c)
		}
	}
	sortByCreation(res, func(c domain.Comment) (time.Time, int64) { return c.CreatedAt, c.ID }, false)
	return res, nil
}

func (r *commentRepo) Store(ctx context.Context, c *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID()
	c.CreatedAt = r.s.now()
	r.s.comments[c.ID] = *c
	return nil
}

func (r *commentRepo) Update(ctx context.Context, c *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.comments[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Text = c.Text
	existing.UpdatedAt = c.UpdatedAt
	r.s.comments[c.ID] = existing
	return nil
}

func (r *commentRepo) HasReplies(ctx context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *commentRepo) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	doomed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.s.comments[id]; ok {
			doomed[id] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return domain.ErrNotFound
	}
	for vid, v := range r.s.votes {
		if v.Target.CommentID == nil {
			continue
		}
		if _, ok := doomed[*v.Target.CommentID]; ok {
			delete(r.s.votes, vid)
		}
	}
	for aid, a := range r.s.attachments {
		if a.CommentID == nil {
			continue
		}
		if _, ok := doomed[*a.CommentID]; ok {
			delete(r.s.attachments, aid)
		}
	}
	for id := range doomed {
		delete(r.s.comments, id)
	}
	return nil
}
