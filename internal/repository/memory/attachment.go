package memory

import (
	"context"
	"sort"

	"github.com/Guyuepp/knowledge-base/domain"
)

type attachmentRepo struct{ s *Store }

var _ domain.AttachmentRepository = (*attachmentRepo)(nil)

func (r *attachmentRepo) Store(ctx context.Context, a *domain.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.nextID()
	a.UploadedAt = r.s.now()
	r.s.attachments[a.ID] = *a
	return nil
}

func (r *attachmentRepo) FetchByPost(ctx context.Context, postID int64) ([]domain.Attachment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	res := make([]domain.Attachment, 0)
	for _, a := range r.s.attachments {
		if a.PostID != nil && *a.PostID == postID {
			res = append(res, a)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}
