package commit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/permission"
)

type Service struct {
	commitRepo  domain.CommitRepository
	managerRepo domain.ManagerRepository
	notifier    domain.NotificationWorker
	now         func() time.Time
}

var _ domain.CommitUsecase = (*Service)(nil)

// NewService will create a new commit service object
func NewService(c domain.CommitRepository, m domain.ManagerRepository, n domain.NotificationWorker) *Service {
	return &Service{
		commitRepo:  c,
		managerRepo: m,
		notifier:    n,
		now:         time.Now,
	}
}

func (s *Service) ResolveManager(ctx context.Context, actor domain.Actor, deptID int64) (domain.Manager, error) {
	if !permission.CanModerate(actor.Role, actor.DepartmentID, deptID) {
		return domain.Manager{}, domain.ErrForbidden
	}
	m, err := s.managerRepo.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Manager{}, fmt.Errorf("%w: user %d has no manager record", domain.ErrForbidden, actor.UserID)
	}
	if err != nil {
		return domain.Manager{}, err
	}
	if m.DepartmentID != deptID {
		return domain.Manager{}, domain.ErrForbidden
	}
	return m, nil
}

func (s *Service) Record(ctx context.Context, postID, managerID int64, message string) (domain.Commit, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Commit{}, fmt.Errorf("%w: commit message is required", domain.ErrBadParamInput)
	}
	c := domain.Commit{
		PostID:    postID,
		ManagerID: managerID,
		Message:   message,
	}
	if err := s.commitRepo.Store(ctx, &c); err != nil {
		return domain.Commit{}, err
	}
	return c, nil
}

// Moderate is a no-op for an empty message.
func (s *Service) Moderate(ctx context.Context, ev domain.ModerationEvent) error {
	if strings.TrimSpace(ev.Message) == "" {
		return nil
	}
	c, err := s.Record(ctx, ev.PostID, ev.Manager.ID, ev.Message)
	if err != nil {
		return err
	}

	ts := c.CreatedAt
	if ts.IsZero() {
		ts = s.now()
	}
	s.notifier.Send(domain.Notification{
		RecipientID:   ev.AuthorID,
		Type:          ev.Type,
		PostID:        ev.PostID,
		CommentID:     ev.CommentID,
		CommitMessage: c.Message,
		Manager:       ev.Manager.Name,
		Timestamp:     ts,
	})
	logrus.WithFields(logrus.Fields{
		"commit":    c.ID,
		"type":      ev.Type,
		"recipient": ev.AuthorID,
	}).Info("moderation recorded")
	return nil
}

func (s *Service) ListForPost(ctx context.Context, postID int64) ([]domain.Commit, error) {
	return s.commitRepo.FetchByPost(ctx, postID)
}

func (s *Service) ListForManager(ctx context.Context, actor domain.Actor) ([]domain.Commit, error) {
	if actor.Role != domain.RoleManager {
		return nil, domain.ErrForbidden
	}
	m, err := s.managerRepo.GetByUserID(ctx, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return s.commitRepo.FetchByManager(ctx, m.ID)
}
