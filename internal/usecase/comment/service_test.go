package comment_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/memory"
	"github.com/Guyuepp/knowledge-base/internal/usecase/comment"
	"github.com/Guyuepp/knowledge-base/internal/usecase/commit"
	"github.com/Guyuepp/knowledge-base/internal/usecase/vote"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Start(ctx context.Context) {}

func (m *mockNotifier) Send(n domain.Notification) {
	m.Called(n)
}

type fixture struct {
	svc      *comment.Service
	votes    *vote.Service
	commits  *commit.Service
	store    *memory.Store
	cache    *memory.PostCache
	notifier *mockNotifier
	post     domain.Post
	author   domain.Actor
	other    domain.Actor
	manager  domain.Actor
}

func newUser(t *testing.T, store *memory.Store, role domain.Role, dept int64) domain.Actor {
	t.Helper()
	u := domain.User{FullName: faker.Name(), Email: faker.Email(), Role: role, DepartmentID: dept}
	require.NoError(t, store.Users().Insert(context.Background(), &u))
	if role == domain.RoleManager {
		require.NoError(t, store.Managers().Store(context.Background(), &domain.Manager{UserID: u.ID, DepartmentID: dept}))
	}
	return domain.Actor{UserID: u.ID, Role: role, DepartmentID: dept}
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	tick := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})

	dept := domain.Department{Name: "Support"}
	require.NoError(t, store.Departments().Store(ctx, &dept))

	f := fixture{store: store, cache: memory.NewPostCache(), notifier: new(mockNotifier)}
	f.author = newUser(t, store, domain.RoleEmployee, dept.ID)
	f.other = newUser(t, store, domain.RoleEmployee, dept.ID)
	f.manager = newUser(t, store, domain.RoleManager, dept.ID)

	f.post = domain.Post{Title: "FAQ", Body: "answers", User: domain.User{ID: f.author.UserID}, DepartmentID: dept.ID}
	require.NoError(t, store.Posts().Store(ctx, &f.post))
	bloom := memory.NewBloom(1 << 16)
	require.NoError(t, bloom.Add(ctx, f.post.ID))

	f.votes = vote.NewService(store.Votes(), store.Posts(), store.Comments(), f.cache)
	f.commits = commit.NewService(store.Commits(), store.Managers(), f.notifier)
	f.svc = comment.NewService(store.Comments(), store.Posts(), store.Users(), bloom, f.cache, f.votes, f.commits)
	return f
}

func (f fixture) create(t *testing.T, actor domain.Actor, parent *int64, text string) *domain.CommentNode {
	t.Helper()
	n, err := f.svc.Create(context.Background(), actor, domain.CreateCommentInput{PostID: f.post.ID, ParentID: parent, Text: text})
	require.NoError(t, err)
	return n
}

func TestCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	root := f.create(t, f.author, nil, "  first ")
	assert.Equal(t, "first", root.Text)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, f.post.DepartmentID, root.DepartmentID)
	assert.Equal(t, f.author.UserID, root.PostAuthorID)
	assert.NotEmpty(t, root.AuthorName)

	zero := int64(0)
	top := f.create(t, f.other, &zero, "parent zero means root")
	assert.Nil(t, top.ParentID)

	reply := f.create(t, f.other, &root.ID, "reply")
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	missing := int64(9999)
	_, err := f.svc.Create(ctx, f.other, domain.CreateCommentInput{PostID: f.post.ID, ParentID: &missing, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Create(ctx, f.other, domain.CreateCommentInput{PostID: f.post.ID, Text: "   "})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = f.svc.Create(ctx, f.other, domain.CreateCommentInput{PostID: 4242, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_TextLengthCountsCharacters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	longest := strings.Repeat("é", comment.MaxTextLength)
	n, err := f.svc.Create(ctx, f.author, domain.CreateCommentInput{PostID: f.post.ID, Text: longest})
	require.NoError(t, err)
	assert.Equal(t, longest, n.Text)

	_, err = f.svc.Create(ctx, f.author, domain.CreateCommentInput{PostID: f.post.ID, Text: longest + "é"})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestMutations_DropCachedPost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	warm := func() {
		t.Helper()
		require.NoError(t, f.cache.SetPost(ctx, &f.post))
	}
	assertDropped := func() {
		t.Helper()
		_, err := f.cache.GetPost(ctx, f.post.ID)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	}

	warm()
	root := f.create(t, f.author, nil, "root")
	assertDropped()

	warm()
	leaf := f.create(t, f.other, &root.ID, "leaf")
	assertDropped()

	warm()
	require.NoError(t, f.svc.Delete(ctx, f.other, leaf.ID, ""))
	assertDropped()

	f.notifier.On("Send", mock.Anything).Return().Maybe()
	warm()
	require.NoError(t, f.svc.Delete(ctx, f.manager, root.ID, "cleanup"))
	assertDropped()
}

func TestCreate_ParentOnAnotherPost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	elsewhere := domain.Post{Title: "other", Body: "b", User: domain.User{ID: f.author.UserID}, DepartmentID: f.post.DepartmentID}
	require.NoError(t, f.store.Posts().Store(ctx, &elsewhere))
	foreign := domain.Comment{PostID: elsewhere.ID, UserID: f.author.UserID, Text: "foreign"}
	require.NoError(t, f.store.Comments().Store(ctx, &foreign))

	_, err := f.svc.Create(ctx, f.other, domain.CreateCommentInput{PostID: f.post.ID, ParentID: &foreign.ID, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestListForPost(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.create(t, f.author, nil, "a")
	b := f.create(t, f.other, &a.ID, "b")
	f.create(t, f.other, nil, "c")
	f.create(t, f.author, &b.ID, "d")

	forest, err := f.svc.ListForPost(ctx, f.post.ID, nil, true)
	require.NoError(t, err)
	require.Len(t, forest, 2)
	require.Len(t, forest[0].Replies, 1)
	require.Len(t, forest[0].Replies[0].Replies, 1)
	assert.Equal(t, "d", forest[0].Replies[0].Replies[0].Text)
	assert.Empty(t, forest[0].UserVote)

	flat, err := f.svc.ListForPost(ctx, f.post.ID, &f.other.UserID, false)
	require.NoError(t, err)
	require.Len(t, flat, 4)
	for i, text := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, text, flat[i].Text)
		assert.Equal(t, domain.NoVote, flat[i].UserVote)
	}
}

func TestCommentVoteSequence(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := f.create(t, f.author, nil, "vote on me")
	target := domain.CommentTarget(c.ID)

	expect := func(up, down int64, mine domain.VoteType) {
		t.Helper()
		got, err := f.svc.GetByID(ctx, c.ID, &f.other.UserID)
		require.NoError(t, err)
		assert.Equal(t, up, got.Upvotes)
		assert.Equal(t, down, got.Downvotes)
		assert.Equal(t, mine, got.UserVote)
	}

	_, err := f.votes.Cast(ctx, f.other.UserID, target, domain.Upvote)
	require.NoError(t, err)
	expect(1, 0, domain.Upvote)

	_, err = f.votes.Cast(ctx, f.other.UserID, target, domain.Upvote)
	require.NoError(t, err)
	expect(0, 0, domain.NoVote)

	_, err = f.votes.Cast(ctx, f.other.UserID, target, domain.Downvote)
	require.NoError(t, err)
	expect(0, 1, domain.Downvote)
}

func TestUpdate_Permissions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := f.create(t, f.author, nil, "original")

	_, err := f.svc.Update(ctx, f.other, c.ID, domain.UpdateCommentInput{Text: "hijack"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Update(ctx, f.other, 9999, domain.UpdateCommentInput{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := f.svc.Update(ctx, f.author, c.ID, domain.UpdateCommentInput{Text: "edited", CommitMessage: "ignored for owners"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.NotNil(t, updated.UpdatedAt)

	f.notifier.On("Send", mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.CommentUpdate && n.RecipientID == f.author.UserID && n.CommitMessage == "tone"
	})).Return().Once()

	moderated, err := f.svc.Update(ctx, f.manager, c.ID, domain.UpdateCommentInput{CommitMessage: "tone"})
	require.NoError(t, err)
	assert.Equal(t, "edited", moderated.Text)
	f.notifier.AssertExpectations(t)

	commits, err := f.commits.ListForPost(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Len(t, commits, 1)
}

func TestUpdate_SoftDeletedIsFinal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	root := f.create(t, f.author, nil, "root")
	f.create(t, f.other, &root.ID, "reply")
	require.NoError(t, f.svc.Delete(ctx, f.author, root.ID, ""))

	_, err := f.svc.Update(ctx, f.author, root.ID, domain.UpdateCommentInput{Text: "resurrected"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.svc.Update(ctx, f.manager, root.ID, domain.UpdateCommentInput{Text: "restored", CommitMessage: "undo"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.svc.GetByID(ctx, root.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DeletedCommentText, got.Text)

	commits, err := f.commits.ListForPost(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestDelete_SoftThenForce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	root := f.create(t, f.author, nil, "root")
	reply := f.create(t, f.other, &root.ID, "reply")
	leaf := f.create(t, f.author, &reply.ID, "leaf")
	unrelated := f.create(t, f.other, nil, "unrelated")
	_, err := f.votes.Cast(ctx, f.other.UserID, domain.CommentTarget(reply.ID), domain.Upvote)
	require.NoError(t, err)

	// owner delete with replies keeps a placeholder
	require.NoError(t, f.svc.Delete(ctx, f.author, root.ID, ""))
	got, err := f.svc.GetByID(ctx, root.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DeletedCommentText, got.Text)

	// owner delete of a leaf removes it
	require.NoError(t, f.svc.Delete(ctx, f.author, leaf.ID, ""))
	_, err = f.svc.GetByID(ctx, leaf.ID, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.other, root.ID, ""), domain.ErrForbidden)

	f.notifier.On("Send", mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.CommentDeletion &&
			n.RecipientID == f.author.UserID &&
			n.CommentID != nil && *n.CommentID == root.ID
	})).Return().Once()

	require.NoError(t, f.svc.Delete(ctx, f.manager, root.ID, "cleanup"))
	f.notifier.AssertExpectations(t)

	remaining, err := f.svc.ListForPost(ctx, f.post.ID, nil, false)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, unrelated.ID, remaining[0].ID)

	counts, err := f.votes.CountsForComments(ctx, []int64{reply.ID})
	require.NoError(t, err)
	assert.Zero(t, counts[reply.ID].Upvotes)

	commits, err := f.commits.ListForPost(ctx, f.post.ID)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "cleanup", commits[0].Message)
}
