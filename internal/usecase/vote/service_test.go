package vote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/memory"
	"github.com/Guyuepp/knowledge-base/internal/usecase/vote"
)

type fixture struct {
	svc     *vote.Service
	store   *memory.Store
	cache   *memory.PostCache
	voter   domain.User
	post    domain.Post
	comment domain.Comment
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	cache := memory.NewPostCache()

	author := domain.User{FullName: "Author", Email: "author@example.com", Role: domain.RoleEmployee, DepartmentID: 1}
	voter := domain.User{FullName: "Voter", Email: "voter@example.com", Role: domain.RoleEmployee, DepartmentID: 1}
	require.NoError(t, store.Users().Insert(ctx, &author))
	require.NoError(t, store.Users().Insert(ctx, &voter))

	post := domain.Post{Title: "t", Body: "b", User: author, DepartmentID: 1}
	require.NoError(t, store.Posts().Store(ctx, &post))
	comment := domain.Comment{PostID: post.ID, UserID: author.ID, Text: "c"}
	require.NoError(t, store.Comments().Store(ctx, &comment))

	svc := vote.NewService(store.Votes(), store.Posts(), store.Comments(), cache)
	return fixture{svc: svc, store: store, cache: cache, voter: voter, post: post, comment: comment}
}

func TestCast_ToggleAndSwitch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	target := domain.PostTarget(f.post.ID)

	res, err := f.svc.Cast(ctx, f.voter.ID, target, domain.Upvote)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteCounts{Upvotes: 1}, res.VoteCounts)
	assert.Equal(t, domain.Upvote, res.UserVote)

	res, err = f.svc.Cast(ctx, f.voter.ID, target, domain.Upvote)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteCounts{}, res.VoteCounts)
	assert.Equal(t, domain.NoVote, res.UserVote)

	res, err = f.svc.Cast(ctx, f.voter.ID, target, domain.Downvote)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteCounts{Downvotes: 1}, res.VoteCounts)
	assert.Equal(t, domain.Downvote, res.UserVote)

	res, err = f.svc.Cast(ctx, f.voter.ID, target, domain.Upvote)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteCounts{Upvotes: 1}, res.VoteCounts)
	assert.Equal(t, domain.Upvote, res.UserVote)
}

func TestCast_PostCountersStoredAndCacheDropped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.cache.SetPost(ctx, &f.post))

	_, err := f.svc.Cast(ctx, f.voter.ID, domain.PostTarget(f.post.ID), domain.Downvote)
	require.NoError(t, err)

	stored, err := f.store.Posts().GetByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored.UpvoteCount)
	assert.EqualValues(t, 1, stored.DownvoteCount)

	_, err = f.cache.GetPost(ctx, f.post.ID)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCast_CommentTarget(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	target := domain.CommentTarget(f.comment.ID)

	_, err := f.svc.Cast(ctx, f.voter.ID, target, domain.Upvote)
	require.NoError(t, err)

	counts, err := f.svc.CountsForComments(ctx, []int64{f.comment.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[f.comment.ID].Upvotes)

	mine, err := f.svc.UserVotesForComments(ctx, f.voter.ID, []int64{f.comment.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.Upvote, mine[f.comment.ID])

	stored, err := f.store.Posts().GetByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.UpvoteCount)
}

func TestCast_Rejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Cast(ctx, f.voter.ID, domain.PostTarget(f.post.ID), domain.VoteType("sideways"))
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = f.svc.Cast(ctx, f.voter.ID, domain.VoteTarget{}, domain.Upvote)
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = f.svc.Cast(ctx, f.voter.ID, domain.PostTarget(9999), domain.Upvote)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserVote(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	target := domain.PostTarget(f.post.ID)

	v, err := f.svc.UserVote(ctx, f.voter.ID, target)
	require.NoError(t, err)
	assert.Equal(t, domain.NoVote, v)

	_, err = f.svc.Cast(ctx, f.voter.ID, target, domain.Downvote)
	require.NoError(t, err)

	v, err = f.svc.UserVote(ctx, f.voter.ID, target)
	require.NoError(t, err)
	assert.Equal(t, domain.Downvote, v)

	counts, err := f.svc.Counts(ctx, target)
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts.Downvotes)
}
