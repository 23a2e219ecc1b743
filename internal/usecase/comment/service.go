package comment

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/permission"
)

// MaxTextLength bounds a comment body.
const MaxTextLength = 10000

type Service struct {
	commentRepo domain.CommentRepository
	postRepo    domain.PostRepository
	userRepo    domain.UserRepository
	bloomRepo   domain.BloomRepository
	postCache   domain.PostCache
	votes       domain.VoteUsecase
	commits     domain.CommitUsecase
	now         func() time.Time
}

var _ domain.CommentUsecase = (*Service)(nil)

// NewService will create a new comment service object
func NewService(
	c domain.CommentRepository,
	p domain.PostRepository,
	u domain.UserRepository,
	b domain.BloomRepository,
	pc domain.PostCache,
	v domain.VoteUsecase,
	cm domain.CommitUsecase,
) *Service {
	return &Service{
		commentRepo: c,
		postRepo:    p,
		userRepo:    u,
		bloomRepo:   b,
		postCache:   pc,
		votes:       v,
		commits:     cm,
		now:         time.Now,
	}
}

func (s *Service) getPost(ctx context.Context, id int64) (domain.Post, error) {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says post %d does not exist", id)
		return domain.Post{}, domain.ErrNotFound
	}
	if err != nil {
		logrus.Warnf("bloom filter check failed: %v", err)
	}
	return s.postRepo.GetByID(ctx, id)
}

// invalidatePost drops the cached details, they carry the comment count.
func (s *Service) invalidatePost(ctx context.Context, postID int64) {
	if err := s.postCache.DeletePost(ctx, postID); err != nil {
		logrus.Warnf("failed to invalidate cache of post %d: %v", postID, err)
	}
}

// decorate attaches author names, vote counts and the viewer's votes.
// The three lookups are independent and run concurrently.
func (s *Service) decorate(ctx context.Context, post domain.Post, comments []domain.Comment, viewerID *int64) ([]*domain.CommentNode, error) {
	nodes := make([]*domain.CommentNode, len(comments))
	if len(comments) == 0 {
		return nodes, nil
	}

	ids := make([]int64, len(comments))
	userSet := make(map[int64]struct{})
	userIDs := make([]int64, 0)
	for i, c := range comments {
		ids[i] = c.ID
		if _, ok := userSet[c.UserID]; !ok {
			userSet[c.UserID] = struct{}{}
			userIDs = append(userIDs, c.UserID)
		}
	}

	var (
		users  []domain.User
		counts map[int64]domain.VoteCounts
		mine   map[int64]domain.VoteType
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.userRepo.GetByIDs(gctx, userIDs)
		return
	})
	g.Go(func() (err error) {
		counts, err = s.votes.CountsForComments(gctx, ids)
		return
	})
	if viewerID != nil {
		g.Go(func() (err error) {
			mine, err = s.votes.UserVotesForComments(gctx, *viewerID, ids)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	for i, c := range comments {
		n := &domain.CommentNode{
			Comment:      c,
			AuthorName:   names[c.UserID],
			DepartmentID: post.DepartmentID,
			PostAuthorID: post.User.ID,
			Upvotes:      counts[c.ID].Upvotes,
			Downvotes:    counts[c.ID].Downvotes,
			Replies:      []*domain.CommentNode{},
		}
		if viewerID != nil {
			n.UserVote = domain.NoVote
			if v, ok := mine[c.ID]; ok {
				n.UserVote = v
			}
		}
		nodes[i] = n
	}
	return nodes, nil
}

func (s *Service) ListForPost(ctx context.Context, postID int64, viewerID *int64, hierarchical bool) ([]*domain.CommentNode, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FetchByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	nodes, err := s.decorate(ctx, post, comments, viewerID)
	if err != nil {
		return nil, err
	}
	if hierarchical {
		return BuildHierarchy(nodes), nil
	}
	return nodes, nil
}

func (s *Service) GetByID(ctx context.Context, id int64, viewerID *int64) (*domain.CommentNode, error) {
	c, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, c.PostID)
	if err != nil {
		return nil, err
	}
	return s.single(ctx, post, c, viewerID)
}

func (s *Service) single(ctx context.Context, post domain.Post, c domain.Comment, viewerID *int64) (*domain.CommentNode, error) {
	nodes, err := s.decorate(ctx, post, []domain.Comment{c}, viewerID)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

func validText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: comment text is required", domain.ErrBadParamInput)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", fmt.Errorf("%w: comment text is longer than %d characters", domain.ErrBadParamInput, MaxTextLength)
	}
	return text, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in domain.CreateCommentInput) (*domain.CommentNode, error) {
	text, err := validText(in.Text)
	if err != nil {
		return nil, err
	}
	post, err := s.getPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	parentID := in.ParentID
	if parentID != nil && *parentID == 0 {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, fmt.Errorf("%w: parent comment %d belongs to another post", domain.ErrBadParamInput, parent.ID)
		}
	}

	c := domain.Comment{
		PostID:   post.ID,
		UserID:   actor.UserID,
		ParentID: parentID,
		Text:     text,
	}
	if err := s.commentRepo.Store(ctx, &c); err != nil {
		return nil, err
	}
	s.invalidatePost(ctx, post.ID)
	return s.single(ctx, post, c, &actor.UserID)
}

// authorize loads the comment and its post, then checks the actor against them.
// The manager record is resolved only for moderated actions.
func (s *Service) authorize(ctx context.Context, actor domain.Actor, id int64) (domain.Comment, domain.Post, *domain.Manager, error) {
	c, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Comment{}, domain.Post{}, nil, err
	}
	post, err := s.postRepo.GetByID(ctx, c.PostID)
	if err != nil {
		return domain.Comment{}, domain.Post{}, nil, err
	}

	decision := permission.Evaluate(actor, permission.Resource{OwnerID: c.UserID, DepartmentID: post.DepartmentID})
	if err := decision.Err(); err != nil {
		return domain.Comment{}, domain.Post{}, nil, err
	}
	if !decision.Moderated {
		return c, post, nil, nil
	}
	m, err := s.commits.ResolveManager(ctx, actor, post.DepartmentID)
	if err != nil {
		return domain.Comment{}, domain.Post{}, nil, err
	}
	return c, post, &m, nil
}

func (s *Service) moderate(ctx context.Context, ev domain.ModerationEvent) {
	if err := s.commits.Moderate(ctx, ev); err != nil {
		logrus.Errorf("failed to record moderation of post %d: %v", ev.PostID, err)
	}
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, in domain.UpdateCommentInput) (*domain.CommentNode, error) {
	c, post, manager, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if c.Text == domain.DeletedCommentText {
		return nil, fmt.Errorf("%w: comment %d was deleted", domain.ErrConflict, c.ID)
	}

	if strings.TrimSpace(in.Text) != "" {
		if c.Text, err = validText(in.Text); err != nil {
			return nil, err
		}
	}
	now := s.now()
	c.UpdatedAt = &now
	if err := s.commentRepo.Update(ctx, &c); err != nil {
		return nil, err
	}

	if manager != nil {
		s.moderate(ctx, domain.ModerationEvent{
			Type:      domain.CommentUpdate,
			PostID:    post.ID,
			CommentID: &c.ID,
			Manager:   *manager,
			AuthorID:  c.UserID,
			Message:   in.CommitMessage,
		})
	}
	return s.single(ctx, post, c, &actor.UserID)
}

// Delete removes a comment. A moderated delete takes the whole subtree with it.
// An owner delete keeps a "[deleted]" placeholder while replies exist.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64, commitMessage string) error {
	c, post, manager, err := s.authorize(ctx, actor, id)
	if err != nil {
		return err
	}

	if manager != nil {
		all, err := s.commentRepo.FetchByPost(ctx, post.ID)
		if err != nil {
			return err
		}
		if err := s.commentRepo.Delete(ctx, descendants(all, c.ID)); err != nil {
			return err
		}
		s.invalidatePost(ctx, post.ID)
		s.moderate(ctx, domain.ModerationEvent{
			Type:      domain.CommentDeletion,
			PostID:    post.ID,
			CommentID: &c.ID,
			Manager:   *manager,
			AuthorID:  c.UserID,
			Message:   commitMessage,
		})
		return nil
	}

	hasReplies, err := s.commentRepo.HasReplies(ctx, c.ID)
	if err != nil {
		return err
	}
	if !hasReplies {
		if err := s.commentRepo.Delete(ctx, []int64{c.ID}); err != nil {
			return err
		}
		s.invalidatePost(ctx, post.ID)
		return nil
	}

	now := s.now()
	c.Text = domain.DeletedCommentText
	c.UpdatedAt = &now
	return s.commentRepo.Update(ctx, &c)
}
