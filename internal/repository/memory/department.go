package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/Guyuepp/knowledge-base/domain"
)

type departmentRepo struct{ s *Store }

var _ domain.DepartmentRepository = (*departmentRepo)(nil)

func (r *departmentRepo) Fetch(ctx context.Context) ([]domain.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.Department, 0, len(r.s.departments))
	for _, d := range r.s.departments {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (r *departmentRepo) GetByID(ctx context.Context, id int64) (domain.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.departments[id]
	if !ok {
		return domain.Department{}, domain.ErrNotFound
	}
	return d, nil
}

func (r *departmentRepo) Store(ctx context.Context, d *domain.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.departments {
		if strings.EqualFold(existing.Name, d.Name) {
			return domain.ErrConflict
		}
	}
	d.ID = r.s.nextID()
	r.s.departments[d.ID] = *d
	return nil
}

type managerRepo struct{ s *Store }

var _ domain.ManagerRepository = (*managerRepo)(nil)

func (r *managerRepo) GetByUserID(ctx context.Context, userID int64) (domain.Manager, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.managers {
		if m.UserID == userID {
			m.Name = r.s.users[m.UserID].FullName
			return m, nil
		}
	}
	return domain.Manager{}, domain.ErrNotFound
}

func (r *managerRepo) Store(ctx context.Context, m *domain.Manager) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.managers {
		if existing.UserID == m.UserID {
			return domain.ErrConflict
		}
	}
	m.ID = r.s.nextID()
	r.s.managers[m.ID] = *m
	return nil
}
