package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/knowledge-base/domain"
)

// newTestStore creates a store with one department, one author and one post.
func newTestStore(t *testing.T) (*Store, domain.User, domain.Post) {
	t.Helper()
	ctx := context.Background()
	store := New()

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})

	dept := domain.Department{Name: "Engineering"}
	require.NoError(t, store.Departments().Store(ctx, &dept))
	author := domain.User{FullName: "Ada", Email: "ada@example.com", Role: domain.RoleEmployee, DepartmentID: dept.ID}
	require.NoError(t, store.Users().Insert(ctx, &author))
	post := domain.Post{Title: "Runbook", Body: "steps", User: author, DepartmentID: dept.ID}
	require.NoError(t, store.Posts().Store(ctx, &post))
	return store, author, post
}

func TestStore_UserEmailUnique(t *testing.T) {
	store, author, _ := newTestStore(t)
	dup := domain.User{FullName: "Other", Email: "ADA@example.com", DepartmentID: author.DepartmentID}
	assert.ErrorIs(t, store.Users().Insert(context.Background(), &dup), domain.ErrConflict)
}

func TestStore_PostStoredBare(t *testing.T) {
	store, _, post := newTestStore(t)
	got, err := store.Posts().GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Runbook", got.Title)
	assert.Empty(t, got.User.FullName)
}

func TestStore_FeedFiltersAndPages(t *testing.T) {
	store, author, first := newTestStore(t)
	ctx := context.Background()

	second := domain.Post{Title: "Second", Body: "b", User: author, DepartmentID: author.DepartmentID}
	require.NoError(t, store.Posts().Store(ctx, &second))
	tag := domain.Tag{Name: "ops", DepartmentID: author.DepartmentID}
	require.NoError(t, store.Tags().Store(ctx, &tag))
	require.NoError(t, store.Tags().LinkPost(ctx, first.ID, []int64{tag.ID}))

	all, err := store.Posts().Fetch(ctx, domain.PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	tagged, err := store.Posts().Fetch(ctx, domain.PostFilter{Tag: " Ops "})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, first.ID, tagged[0].ID)

	other := int64(999)
	none, err := store.Posts().Fetch(ctx, domain.PostFilter{DepartmentID: &other})
	require.NoError(t, err)
	assert.Empty(t, none)

	page2, err := store.Posts().Fetch(ctx, domain.PostFilter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, first.ID, page2[0].ID)
}

func TestStore_VoteUniquePerTarget(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	v := domain.Vote{UserID: author.ID, Target: domain.PostTarget(post.ID), Type: domain.Upvote}
	require.NoError(t, store.Votes().Store(ctx, &v))
	again := domain.Vote{UserID: author.ID, Target: domain.PostTarget(post.ID), Type: domain.Downvote}
	assert.ErrorIs(t, store.Votes().Store(ctx, &again), domain.ErrConflict)

	counts, err := store.Votes().Count(ctx, domain.PostTarget(post.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.VoteCounts{Upvotes: 1}, counts)
}

func TestStore_PostDeleteLeavesNoOrphans(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	c := domain.Comment{PostID: post.ID, UserID: author.ID, Text: "hi"}
	require.NoError(t, store.Comments().Store(ctx, &c))
	cv := domain.Vote{UserID: author.ID, Target: domain.CommentTarget(c.ID), Type: domain.Upvote}
	require.NoError(t, store.Votes().Store(ctx, &cv))
	require.NoError(t, store.Posts().AddRepost(ctx, &domain.Repost{PostID: post.ID, UserID: author.ID}))
	require.NoError(t, store.Attachments().Store(ctx, &domain.Attachment{PostID: &post.ID, FileName: "a.pdf"}))

	require.NoError(t, store.Posts().Delete(ctx, post.ID))

	comments, _ := store.Comments().FetchByPost(ctx, post.ID)
	assert.Empty(t, comments)
	counts, _ := store.Votes().Count(ctx, domain.CommentTarget(c.ID))
	assert.Zero(t, counts.Upvotes)
	reposts, _ := store.Posts().FetchReposts(ctx, post.ID)
	assert.Empty(t, reposts)
	attachments, _ := store.Attachments().FetchByPost(ctx, post.ID)
	assert.Empty(t, attachments)

	assert.ErrorIs(t, store.Posts().Delete(ctx, post.ID), domain.ErrNotFound)
}

func TestStore_CommitsNewestFirstWithManagerName(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	boss := domain.User{FullName: "Grace", Email: "grace@example.com", Role: domain.RoleManager, DepartmentID: author.DepartmentID}
	require.NoError(t, store.Users().Insert(ctx, &boss))
	mgr := domain.Manager{UserID: boss.ID, DepartmentID: boss.DepartmentID}
	require.NoError(t, store.Managers().Store(ctx, &mgr))

	require.NoError(t, store.Commits().Store(ctx, &domain.Commit{PostID: post.ID, ManagerID: mgr.ID, Message: "first"}))
	require.NoError(t, store.Commits().Store(ctx, &domain.Commit{PostID: post.ID, ManagerID: mgr.ID, Message: "second"}))

	commits, err := store.Commits().FetchByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "second", commits[0].Message)
	assert.Equal(t, "Grace", commits[0].ManagerName)

	stats, err := store.Users().Stats(ctx, boss.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCommitsMade)
}

func TestBloom(t *testing.T) {
	b := NewBloom(1 << 12)
	ctx := context.Background()
	require.NoError(t, b.BulkAdd(ctx, []int64{1, 2, 3}))
	for _, id := range []int64{1, 2, 3} {
		ok, err := b.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
