package post

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/permission"
)

const (
	MaxTitleLength = 200
	bloomPageSize  = 1000
)

type Service struct {
	postRepo       domain.PostRepository
	userRepo       domain.UserRepository
	deptRepo       domain.DepartmentRepository
	tagRepo        domain.TagRepository
	attachmentRepo domain.AttachmentRepository
	postCache      domain.PostCache
	bloomRepo      domain.BloomRepository
	files          domain.FileStorage
	tags           domain.TagUsecase
	commits        domain.CommitUsecase

	rebuildGroup singleflight.Group
	now          func() time.Time
}

var _ domain.PostUsecase = (*Service)(nil)

// Deps groups the collaborators of the post service.
type Deps struct {
	Posts       domain.PostRepository
	Users       domain.UserRepository
	Departments domain.DepartmentRepository
	Tags        domain.TagRepository
	Attachments domain.AttachmentRepository
	Cache       domain.PostCache
	Bloom       domain.BloomRepository
	Files       domain.FileStorage
	TagService  domain.TagUsecase
	Commits     domain.CommitUsecase
}

// NewService will create a new post service object
func NewService(d Deps) *Service {
	return &Service{
		postRepo:       d.Posts,
		userRepo:       d.Users,
		deptRepo:       d.Departments,
		tagRepo:        d.Tags,
		attachmentRepo: d.Attachments,
		postCache:      d.Cache,
		bloomRepo:      d.Bloom,
		files:          d.Files,
		tags:           d.TagService,
		commits:        d.Commits,
		now:            time.Now,
	}
}

/*
 * fillListDetails resolves authors and comment counts of a page of posts.
 * Both lookups are batched and run in an errgroup.
 */
func (s *Service) fillListDetails(ctx context.Context, data []domain.Post) ([]domain.Post, error) {
	if len(data) == 0 {
		return data, nil
	}
	userIDs := make([]int64, 0, len(data))
	seen := make(map[int64]struct{}, len(data))
	postIDs := make([]int64, len(data))
	for i, p := range data {
		postIDs[i] = p.ID
		if _, ok := seen[p.User.ID]; !ok {
			seen[p.User.ID] = struct{}{}
			userIDs = append(userIDs, p.User.ID)
		}
	}

	var (
		users    []domain.User
		comments map[int64]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.userRepo.GetByIDs(gctx, userIDs)
		return
	})
	g.Go(func() (err error) {
		comments, err = s.postRepo.CountComments(gctx, postIDs)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mapUsers := make(map[int64]domain.User, len(users))
	for _, u := range users {
		mapUsers[u.ID] = u
	}
	for i := range data {
		if u, ok := mapUsers[data[i].User.ID]; ok {
			data[i].User = u
		}
		data[i].CommentCount = comments[data[i].ID]
	}
	return data, nil
}

func (s *Service) Feed(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	f.Normalize()
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	res, err := s.postRepo.Fetch(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.fillListDetails(ctx, res)
}

func (s *Service) Mine(ctx context.Context, actor domain.Actor) ([]domain.Post, error) {
	res, err := s.postRepo.FetchByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.fillListDetails(ctx, res)
}

func (s *Service) mustExist(ctx context.Context, id int64) error {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err != nil {
		logrus.Warnf("bloom filter check failed: %v", err)
		return nil
	}
	if !exists {
		logrus.Warnf("bloom filter says post %d does not exist", id)
		return domain.ErrNotFound
	}
	return nil
}

// GetByID serves the decorated post from cache, rebuilding it once per key on a miss.
func (s *Service) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return domain.Post{}, err
	}

	res, err := s.postCache.GetPost(ctx, id)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("cache get error: %v", err)
	}

	v, err, _ := s.rebuildGroup.Do("post:"+strconv.FormatInt(id, 10), func() (any, error) {
		p, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		go func(p domain.Post) {
			if err := s.postCache.SetPost(context.Background(), &p); err != nil {
				logrus.Warnf("failed to set cache: %v", err)
			}
		}(p)
		return p, nil
	})
	if err != nil {
		return domain.Post{}, err
	}
	return v.(domain.Post), nil
}

// load reads a post with its author, tags, attachments, reposts and comment count.
func (s *Service) load(ctx context.Context, id int64) (domain.Post, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	var comments map[int64]int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.userRepo.GetByID(gctx, p.User.ID)
		if err != nil {
			return err
		}
		p.User = u
		return nil
	})
	g.Go(func() (err error) {
		p.Tags, err = s.tagRepo.FetchByPost(gctx, id)
		return
	})
	g.Go(func() (err error) {
		p.Attachments, err = s.attachmentRepo.FetchByPost(gctx, id)
		return
	})
	g.Go(func() (err error) {
		p.Reposts, err = s.postRepo.FetchReposts(gctx, id)
		return
	})
	g.Go(func() (err error) {
		comments, err = s.postRepo.CountComments(gctx, []int64{id})
		return
	})
	if err := g.Wait(); err != nil {
		return domain.Post{}, err
	}
	p.CommentCount = comments[id]
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if err := s.postCache.DeletePost(ctx, id); err != nil {
		logrus.Warnf("failed to invalidate post cache %d: %v", id, err)
	}
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrBadParamInput)
	}
	if len(title) > MaxTitleLength {
		return "", fmt.Errorf("%w: title is longer than %d characters", domain.ErrBadParamInput, MaxTitleLength)
	}
	return title, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in domain.CreatePostInput) (domain.Post, error) {
	title, err := validTitle(in.Title)
	if err != nil {
		return domain.Post{}, err
	}
	if strings.TrimSpace(in.Body) == "" {
		return domain.Post{}, fmt.Errorf("%w: body is required", domain.ErrBadParamInput)
	}
	for _, f := range in.Attachments {
		if f.Size > domain.MaxAttachmentSize {
			return domain.Post{}, fmt.Errorf("%w: %s exceeds the attachment size limit", domain.ErrBadParamInput, f.Name)
		}
	}
	if _, err := s.deptRepo.GetByID(ctx, actor.DepartmentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Post{}, fmt.Errorf("%w: department %d does not exist", domain.ErrBadParamInput, actor.DepartmentID)
		}
		return domain.Post{}, err
	}

	tags, err := s.tags.Ensure(ctx, actor.DepartmentID, in.Tags)
	if err != nil {
		return domain.Post{}, err
	}

	stored := make([]domain.StoredFile, 0, len(in.Attachments))
	for _, f := range in.Attachments {
		sf, err := s.files.Save(ctx, f.Name, f.Content)
		if err != nil {
			s.removeFiles(ctx, stored)
			return domain.Post{}, err
		}
		stored = append(stored, sf)
	}

	p := domain.Post{
		Title:        title,
		Body:         in.Body,
		User:         domain.User{ID: actor.UserID},
		DepartmentID: actor.DepartmentID,
	}
	if err := s.postRepo.Store(ctx, &p); err != nil {
		s.removeFiles(ctx, stored)
		return domain.Post{}, err
	}

	tagIDs := make([]int64, len(tags))
	for i, t := range tags {
		tagIDs[i] = t.ID
	}
	if err := s.tagRepo.LinkPost(ctx, p.ID, tagIDs); err != nil {
		return domain.Post{}, err
	}
	for _, sf := range stored {
		a := domain.Attachment{
			PostID:   &p.ID,
			FileName: sf.Name,
			FilePath: sf.Path,
			FileType: sf.Type,
		}
		if err := s.attachmentRepo.Store(ctx, &a); err != nil {
			return domain.Post{}, err
		}
	}

	if err := s.bloomRepo.Add(ctx, p.ID); err != nil {
		logrus.Errorf("failed to add post %d to bloom filter: %v", p.ID, err)
	}
	return s.load(ctx, p.ID)
}

func (s *Service) removeFiles(ctx context.Context, files []domain.StoredFile) {
	for _, f := range files {
		if err := s.files.Remove(ctx, f.Path); err != nil {
			logrus.Warnf("failed to remove file %s: %v", f.Path, err)
		}
	}
}

// authorize loads the post and checks the actor against it.
// The manager record is resolved only for moderated actions.
func (s *Service) authorize(ctx context.Context, actor domain.Actor, id int64) (domain.Post, *domain.Manager, error) {
	p, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, nil, err
	}
	decision := permission.Evaluate(actor, permission.Resource{OwnerID: p.User.ID, DepartmentID: p.DepartmentID})
	if err := decision.Err(); err != nil {
		return domain.Post{}, nil, err
	}
	if !decision.Moderated {
		return p, nil, nil
	}
	m, err := s.commits.ResolveManager(ctx, actor, p.DepartmentID)
	if err != nil {
		return domain.Post{}, nil, err
	}
	return p, &m, nil
}

func (s *Service) moderate(ctx context.Context, ev domain.ModerationEvent) {
	if err := s.commits.Moderate(ctx, ev); err != nil {
		logrus.Errorf("failed to record moderation of post %d: %v", ev.PostID, err)
	}
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, in domain.UpdatePostInput) (domain.Post, error) {
	p, manager, err := s.authorize(ctx, actor, id)
	if err != nil {
		return domain.Post{}, err
	}

	if strings.TrimSpace(in.Title) != "" {
		if p.Title, err = validTitle(in.Title); err != nil {
			return domain.Post{}, err
		}
	}
	if strings.TrimSpace(in.Body) != "" {
		p.Body = in.Body
	}
	now := s.now()
	p.UpdatedAt = &now
	if err := s.postRepo.Update(ctx, &p); err != nil {
		return domain.Post{}, err
	}
	s.invalidate(ctx, id)

	if manager != nil {
		s.moderate(ctx, domain.ModerationEvent{
			Type:     domain.PostUpdate,
			PostID:   p.ID,
			Manager:  *manager,
			AuthorID: p.User.ID,
			Message:  in.CommitMessage,
		})
	}
	return s.load(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64, commitMessage string) error {
	p, manager, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}

	attachments, err := s.attachmentRepo.FetchByPost(ctx, id)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	files := make([]domain.StoredFile, len(attachments))
	for i, a := range attachments {
		files[i] = domain.StoredFile{Name: a.FileName, Path: a.FilePath, Type: a.FileType}
	}
	s.removeFiles(ctx, files)

	if manager != nil {
		s.moderate(ctx, domain.ModerationEvent{
			Type:     domain.PostDeletion,
			PostID:   p.ID,
			Manager:  *manager,
			AuthorID: p.User.ID,
			Message:  commitMessage,
		})
	}
	return nil
}

func (s *Service) Repost(ctx context.Context, actor domain.Actor, id int64) error {
	if err := s.mustExist(ctx, id); err != nil {
		return err
	}
	if _, err := s.postRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.postRepo.AddRepost(ctx, &domain.Repost{PostID: id, UserID: actor.UserID}); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// InitBloomFilter loads every post id into the bloom filter, one page at a time.
func (s *Service) InitBloomFilter(ctx context.Context) error {
	var cursor, total int64
	for {
		ids, err := s.postRepo.FetchIDs(ctx, cursor, bloomPageSize)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		total += int64(len(ids))
		cursor = ids[len(ids)-1]
	}
	logrus.Infof("bloom filter warmed with %d posts", total)
	return nil
}
