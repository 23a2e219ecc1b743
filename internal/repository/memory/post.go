package memory

import (
	"context"
	"strings"
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

type postRepo struct{ s *Store }

var _ domain.PostRepository = (*postRepo)(nil)

func postKey(p domain.Post) (time.Time, int64) { return p.CreatedAt, p.ID }

// bare strips the derived fields that the relational store does not keep on the row.
func bare(p domain.Post) domain.Post {
	p.User = domain.User{ID: p.User.ID}
	p.CommentCount = 0
	p.Tags = nil
	p.Attachments = nil
	p.Reposts = nil
	return p
}

func (r *postRepo) Fetch(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	f.Normalize()
	tag := strings.ToLower(strings.TrimSpace(f.Tag))

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res := make([]domain.Post, 0)
	for _, p := range r.s.posts {
		if f.DepartmentID != nil && p.DepartmentID != *f.DepartmentID {
			continue
		}
		if tag != "" && !r.hasTag(p.ID, tag) {
			continue
		}
		res = append(res, p)
	}
	sortByCreation(res, postKey, true)

	start := f.Offset()
	if start >= len(res) {
		return []domain.Post{}, nil
	}
	end := min(start+f.PageSize, len(res))
	return res[start:end], nil
}

// hasTag must be called with the read lock held.
func (r *postRepo) hasTag(postID int64, name string) bool {
	for tagID := range r.s.postTags[postID] {
		if t, ok := r.s.tags[tagID]; ok && t.Name == name {
			return true
		}
	}
	return false
}

func (r *postRepo) FetchByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	reposted := make(map[int64]struct{})
	for _, rp := range r.s.reposts {
		if rp.UserID == userID {
			reposted[rp.PostID] = struct{}{}
		}
	}

	res := make([]domain.Post, 0)
	for _, p := range r.s.posts {
		_, isRepost := reposted[p.ID]
		if p.User.ID != userID && !isRepost {
			continue
		}
		if p.User.ID != userID {
			p.IsRepost = true
		}
		res = append(res, p)
	}
	sortByCreation(res, postKey, true)
	return res, nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *postRepo) Store(ctx context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextID()
	p.CreatedAt = r.s.now()
	r.s.posts[p.ID] = bare(*p)
	return nil
}

func (r *postRepo) Update(ctx context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.posts[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Title = p.Title
	existing.Body = p.Body
	existing.UpdatedAt = p.UpdatedAt
	r.s.posts[p.ID] = existing
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrNotFound
	}

	commentIDs := make(map[int64]struct{})
	for cid, c := range r.s.comments {
		if c.PostID == id {
			commentIDs[cid] = struct{}{}
		}
	}
	for vid, v := range r.s.votes {
		if v.Target.PostID != nil && *v.Target.PostID == id {
			delete(r.s.votes, vid)
			continue
		}
		if v.Target.CommentID != nil {
			if _, ok := commentIDs[*v.Target.CommentID]; ok {
				delete(r.s.votes, vid)
			}
		}
	}
	for aid, a := range r.s.attachments {
		if a.PostID != nil && *a.PostID == id {
			delete(r.s.attachments, aid)
			continue
		}
		if a.CommentID != nil {
			if _, ok := commentIDs[*a.CommentID]; ok {
				delete(r.s.attachments, aid)
			}
		}
	}
	for cid := range commentIDs {
		delete(r.s.comments, cid)
	}
	for rid, rp := range r.s.reposts {
		if rp.PostID == id {
			delete(r.s.reposts, rid)
		}
	}
	delete(r.s.postTags, id)
	delete(r.s.posts, id)
	return nil
}

func (r *postRepo) SetVoteCounts(ctx context.Context, id int64, counts domain.VoteCounts) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil
	}
	p.UpvoteCount = counts.Upvotes
	p.DownvoteCount = counts.Downvotes
	r.s.posts[id] = p
	return nil
}

func (r *postRepo) AddRepost(ctx context.Context, rp *domain.Repost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reposts {
		if existing.PostID == rp.PostID && existing.UserID == rp.UserID {
			return nil
		}
	}
	rp.ID = r.s.nextID()
	rp.CreatedAt = r.s.now()
	r.s.reposts[rp.ID] = *rp
	return nil
}

func (r *postRepo) FetchReposts(ctx context.Context, postID int64) ([]domain.Repost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.Repost, 0)
	for _, rp := range r.s.reposts {
		if rp.PostID == postID {
			rp.UserName = r.s.users[rp.UserID].FullName
			res = append(res, rp)
		}
	}
	sortByCreation(res, func(rp domain.Repost) (time.Time, int64) { return rp.CreatedAt, rp.ID }, false)
	return res, nil
}

func (r *postRepo) CountComments(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	want := make(map[int64]struct{}, len(postIDs))
	for _, id := range postIDs {
		want[id] = struct{}{}
	}
	res := make(map[int64]int64, len(postIDs))
	for _, c := range r.s.comments {
		if _, ok := want[c.PostID]; ok {
			res[c.PostID]++
		}
	}
	return res, nil
}

func (r *postRepo) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]int64, 0)
	for id := range r.s.posts {
		if id > cursor {
			ids = append(ids, id)
		}
	}
	sortInt64(ids)
	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
