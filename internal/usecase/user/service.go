package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/auth"
)

const MinPasswordLength = 6

type Service struct {
	userRepo    domain.UserRepository
	deptRepo    domain.DepartmentRepository
	managerRepo domain.ManagerRepository
	postRepo    domain.PostRepository
	postCache   domain.PostCache
	avatars     domain.FileStorage
	tokens      auth.TokenIssuer
}

var _ domain.UserUsecase = (*Service)(nil)

// Deps groups the collaborators of the user service.
type Deps struct {
	Users       domain.UserRepository
	Departments domain.DepartmentRepository
	Managers    domain.ManagerRepository
	Posts       domain.PostRepository
	Cache       domain.PostCache
	Avatars     domain.FileStorage
	Tokens      auth.TokenIssuer
}

// NewService will create a new user service object
func NewService(d Deps) *Service {
	return &Service{
		userRepo:    d.Users,
		deptRepo:    d.Departments,
		managerRepo: d.Managers,
		postRepo:    d.Posts,
		postCache:   d.Cache,
		avatars:     d.Avatars,
		tokens:      d.Tokens,
	}
}

func validPassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", domain.ErrBadParamInput, MinPasswordLength)
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in domain.RegisterInput) (domain.AuthResult, error) {
	u := domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Role:         in.Role,
		DepartmentID: in.DepartmentID,
	}
	if u.Role == "" {
		u.Role = domain.RoleEmployee
	}
	switch {
	case u.FullName == "":
		return domain.AuthResult{}, fmt.Errorf("%w: full name is required", domain.ErrBadParamInput)
	case u.Email == "":
		return domain.AuthResult{}, fmt.Errorf("%w: email is required", domain.ErrBadParamInput)
	case !u.Role.Valid():
		return domain.AuthResult{}, fmt.Errorf("%w: unknown role %q", domain.ErrBadParamInput, u.Role)
	}
	if err := validPassword(in.Password); err != nil {
		return domain.AuthResult{}, err
	}
	if _, err := s.deptRepo.GetByID(ctx, u.DepartmentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AuthResult{}, fmt.Errorf("%w: department %d does not exist", domain.ErrBadParamInput, u.DepartmentID)
		}
		return domain.AuthResult{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.AuthResult{}, err
	}
	u.PasswordHash = hash

	if in.ProfilePicture != nil {
		f, err := s.avatars.Save(ctx, in.ProfilePicture.Name, in.ProfilePicture.Content)
		if err != nil {
			return domain.AuthResult{}, err
		}
		u.ProfilePicture = f.Path
	}

	if err := s.userRepo.Insert(ctx, &u); err != nil {
		s.removeAvatar(ctx, u.ProfilePicture)
		return domain.AuthResult{}, err
	}

	if u.Role == domain.RoleManager {
		m := domain.Manager{UserID: u.ID, DepartmentID: u.DepartmentID}
		if err := s.managerRepo.Store(ctx, &m); err != nil {
			// a Manager account exists only together with its managers row
			if delErr := s.userRepo.Delete(ctx, u.ID); delErr != nil {
				logrus.Errorf("failed to roll back user %d after manager record failure: %v", u.ID, delErr)
			}
			s.removeAvatar(ctx, u.ProfilePicture)
			return domain.AuthResult{}, err
		}
	}
	return s.authResult(u)
}

func (s *Service) authResult(u domain.User) (domain.AuthResult, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{Token: token, User: u}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.AuthResult{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.AuthResult{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return domain.AuthResult{}, err
	}
	return s.authResult(u)
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, actor domain.Actor, in domain.ProfileInput) (domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return domain.User{}, err
	}

	oldName := u.FullName
	if name := strings.TrimSpace(in.FullName); name != "" {
		u.FullName = name
	}
	if in.Password != "" {
		if err := validPassword(in.Password); err != nil {
			return domain.User{}, err
		}
		if u.PasswordHash, err = auth.HashPassword(in.Password); err != nil {
			return domain.User{}, err
		}
	}

	old := u.ProfilePicture
	switch {
	case in.ProfilePicture != nil:
		f, err := s.avatars.Save(ctx, in.ProfilePicture.Name, in.ProfilePicture.Content)
		if err != nil {
			return domain.User{}, err
		}
		u.ProfilePicture = f.Path
	case in.RemoveProfilePicture:
		u.ProfilePicture = ""
	}

	if err := s.userRepo.Update(ctx, &u); err != nil {
		if u.ProfilePicture != old {
			s.removeAvatar(ctx, u.ProfilePicture)
		}
		return domain.User{}, err
	}
	if u.ProfilePicture != old {
		s.removeAvatar(ctx, old)
	}
	if u.FullName != oldName || u.ProfilePicture != old {
		s.invalidatePosts(ctx, u.ID)
	}
	return u, nil
}

// invalidatePosts drops cached details that embed the user's name or avatar.
func (s *Service) invalidatePosts(ctx context.Context, userID int64) {
	posts, err := s.postRepo.FetchByUser(ctx, userID)
	if err != nil {
		logrus.Warnf("failed to list posts of user %d for cache invalidation: %v", userID, err)
		return
	}
	for _, p := range posts {
		if err := s.postCache.DeletePost(ctx, p.ID); err != nil {
			logrus.Warnf("failed to invalidate cache of post %d: %v", p.ID, err)
		}
	}
}

func (s *Service) removeAvatar(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.avatars.Remove(ctx, path); err != nil {
		logrus.Warnf("failed to remove avatar %s: %v", path, err)
	}
}

func (s *Service) Stats(ctx context.Context, actor domain.Actor) (domain.UserStats, error) {
	return s.userRepo.Stats(ctx, actor.UserID)
}

func (s *Service) Departments(ctx context.Context) ([]domain.Department, error) {
	return s.deptRepo.Fetch(ctx)
}
