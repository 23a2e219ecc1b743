package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Guyuepp/knowledge-base/domain"
)

// MaxNameLength bounds a tag name after normalisation.
const MaxNameLength = 50

type Service struct {
	tagRepo domain.TagRepository
}

var _ domain.TagUsecase = (*Service)(nil)

func NewService(t domain.TagRepository) *Service {
	return &Service{tagRepo: t}
}

// Normalize trims and lower-cases a tag name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeAll normalises names, dropping blanks and duplicates while keeping order.
func NormalizeAll(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	res := make([]string, 0, len(names))
	for _, n := range names {
		n = Normalize(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		res = append(res, n)
	}
	return res
}

func (s *Service) Fetch(ctx context.Context, deptID *int64) ([]domain.Tag, error) {
	return s.tagRepo.FetchByDepartment(ctx, deptID)
}

func (s *Service) FindOrCreate(ctx context.Context, actor domain.Actor, name string) (domain.Tag, bool, error) {
	name = Normalize(name)
	if name == "" {
		return domain.Tag{}, false, fmt.Errorf("%w: tag name is required", domain.ErrBadParamInput)
	}
	if len(name) > MaxNameLength {
		return domain.Tag{}, false, fmt.Errorf("%w: tag name is longer than %d characters", domain.ErrBadParamInput, MaxNameLength)
	}
	return s.findOrCreate(ctx, actor.DepartmentID, name)
}

func (s *Service) findOrCreate(ctx context.Context, deptID int64, name string) (domain.Tag, bool, error) {
	t, err := s.tagRepo.GetByName(ctx, deptID, name)
	if err == nil {
		return t, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Tag{}, false, err
	}

	t = domain.Tag{Name: name, DepartmentID: deptID}
	err = s.tagRepo.Store(ctx, &t)
	if errors.Is(err, domain.ErrConflict) {
		// created concurrently
		t, err = s.tagRepo.GetByName(ctx, deptID, name)
		return t, false, err
	}
	if err != nil {
		return domain.Tag{}, false, err
	}
	return t, true, nil
}

func (s *Service) Ensure(ctx context.Context, deptID int64, names []string) ([]domain.Tag, error) {
	names = NormalizeAll(names)
	res := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		if len(name) > MaxNameLength {
			return nil, fmt.Errorf("%w: tag %q is longer than %d characters", domain.ErrBadParamInput, name, MaxNameLength)
		}
		t, _, err := s.findOrCreate(ctx, deptID, name)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}
