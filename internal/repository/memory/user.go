package memory

import (
	"context"
	"strings"

	"github.com/Guyuepp/knowledge-base/domain"
)

type userRepo struct{ s *Store }

var _ domain.UserRepository = (*userRepo)(nil)

func (r *userRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *userRepo) Insert(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrConflict
		}
	}
	u.ID = r.s.nextID()
	u.CreatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.FullName = u.FullName
	existing.PasswordHash = u.PasswordHash
	existing.ProfilePicture = u.ProfilePicture
	r.s.users[u.ID] = existing
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *userRepo) Stats(ctx context.Context, userID int64) (domain.UserStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var res domain.UserStats
	owned := make(map[int64]struct{})
	for _, p := range r.s.posts {
		if p.User.ID != userID {
			continue
		}
		owned[p.ID] = struct{}{}
		res.TotalPosts++
		res.TotalUpvotes += p.UpvoteCount
		res.TotalDownvotes += p.DownvoteCount
	}
	for _, c := range r.s.comments {
		if _, ok := owned[c.PostID]; ok {
			res.TotalCommentsReceived++
		}
	}
	for _, c := range r.s.commits {
		if m, ok := r.s.managers[c.ManagerID]; ok && m.UserID == userID {
			res.TotalCommitsMade++
		}
	}
	return res, nil
}
