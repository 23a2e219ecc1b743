package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/Guyuepp/knowledge-base/domain"
)

type tagRepo struct{ s *Store }

var _ domain.TagRepository = (*tagRepo)(nil)

func (r *tagRepo) FetchByDepartment(ctx context.Context, deptID *int64) ([]domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.Tag, 0)
	for _, t := range r.s.tags {
		if deptID == nil || t.DepartmentID == *deptID {
			res = append(res, t)
		}
	}
	sortTags(res)
	return res, nil
}

func (r *tagRepo) GetByName(ctx context.Context, deptID int64, name string) (domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tags {
		if t.DepartmentID == deptID && strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return domain.Tag{}, domain.ErrNotFound
}

func (r *tagRepo) Store(ctx context.Context, t *domain.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tags {
		if existing.DepartmentID == t.DepartmentID && existing.Name == t.Name {
			return domain.ErrConflict
		}
	}
	t.ID = r.s.nextID()
	r.s.tags[t.ID] = *t
	return nil
}

func (r *tagRepo) LinkPost(ctx context.Context, postID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	links, ok := r.s.postTags[postID]
	if !ok {
		links = make(map[int64]struct{})
		r.s.postTags[postID] = links
	}
	for _, id := range tagIDs {
		links[id] = struct{}{}
	}
	return nil
}

func (r *tagRepo) FetchByPost(ctx context.Context, postID int64) ([]domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.Tag, 0)
	for id := range r.s.postTags[postID] {
		if t, ok := r.s.tags[id]; ok {
			res = append(res, t)
		}
	}
	sortTags(res)
	return res, nil
}

func sortTags(tags []domain.Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}
