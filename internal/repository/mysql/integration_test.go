//go:build integration
// +build integration

package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("kb"),
		postgres.WithUsername("kb"),
		postgres.WithPassword("kb"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dialector, err := Dialector("postgres", dsn)
	require.NoError(t, err)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, db, []string{"Engineering", "Sales"}))
	// seeding twice is a no-op
	require.NoError(t, Migrate(ctx, db, []string{"Engineering"}))
	return db
}

func TestIntegrationPostLifecycle(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	depts, err := NewDepartmentRepository(db).Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	dept := depts[0].ID

	users := NewUserRepository(db)
	author := domain.User{FullName: "Ada", Email: "ada@example.com", PasswordHash: "x", Role: domain.RoleEmployee, DepartmentID: dept}
	require.NoError(t, users.Insert(ctx, &author))
	dup := author
	dup.ID = 0
	assert.ErrorIs(t, users.Insert(ctx, &dup), domain.ErrConflict)

	voter := domain.User{FullName: "Bob", Email: "bob@example.com", PasswordHash: "x", Role: domain.RoleEmployee, DepartmentID: dept}
	require.NoError(t, users.Insert(ctx, &voter))

	posts := NewPostRepository(db)
	post := domain.Post{Title: "Runbook", Body: "steps", User: author, DepartmentID: dept}
	require.NoError(t, posts.Store(ctx, &post))

	tags := NewTagRepository(db)
	tag := domain.Tag{Name: "ops", DepartmentID: dept}
	require.NoError(t, tags.Store(ctx, &tag))
	require.NoError(t, tags.LinkPost(ctx, post.ID, []int64{tag.ID}))

	comments := NewCommentRepository(db)
	root := domain.Comment{PostID: post.ID, UserID: voter.ID, Text: "thanks"}
	require.NoError(t, comments.Store(ctx, &root))
	reply := domain.Comment{PostID: post.ID, UserID: author.ID, ParentID: &root.ID, Text: "welcome"}
	require.NoError(t, comments.Store(ctx, &reply))

	votes := NewVoteRepository(db)
	v := domain.Vote{UserID: voter.ID, Target: domain.PostTarget(post.ID), Type: domain.Upvote}
	require.NoError(t, votes.Store(ctx, &v))
	again := domain.Vote{UserID: voter.ID, Target: domain.PostTarget(post.ID), Type: domain.Downvote}
	assert.ErrorIs(t, votes.Store(ctx, &again), domain.ErrConflict)
	cv := domain.Vote{UserID: voter.ID, Target: domain.CommentTarget(reply.ID), Type: domain.Downvote}
	require.NoError(t, votes.Store(ctx, &cv))

	require.NoError(t, posts.AddRepost(ctx, &domain.Repost{PostID: post.ID, UserID: voter.ID}))
	require.NoError(t, posts.AddRepost(ctx, &domain.Repost{PostID: post.ID, UserID: voter.ID}))
	reposts, err := posts.FetchReposts(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, reposts, 1)

	mine, err := posts.FetchByUser(ctx, voter.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsRepost)

	feed, err := posts.Fetch(ctx, domain.PostFilter{Tag: "OPS"})
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	require.NoError(t, posts.Delete(ctx, post.ID))

	_, err = posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	left, err := comments.FetchByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	counts, err := votes.Count(ctx, domain.CommentTarget(reply.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.VoteCounts{}, counts)
	linked, err := tags.FetchByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	assert.ErrorIs(t, posts.Delete(ctx, post.ID), domain.ErrNotFound)
}

func TestIntegrationForeignKeys(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	migrator := db.Migrator()
	for _, c := range []struct {
		model any
		name  string
	}{
		{&model.User{}, "Department"},
		{&model.Manager{}, "User"},
		{&model.Manager{}, "Department"},
		{&model.Post{}, "User"},
		{&model.Post{}, "Department"},
		{&model.Comment{}, "Post"},
		{&model.Comment{}, "User"},
		{&model.Commit{}, "Manager"},
	} {
		assert.True(t, migrator.HasConstraint(c.model, c.name), "%T.%s", c.model, c.name)
	}

	depts, err := NewDepartmentRepository(db).Fetch(ctx)
	require.NoError(t, err)
	dept := depts[0].ID

	users := NewUserRepository(db)
	stray := domain.User{FullName: "Eve", Email: "eve@example.com", PasswordHash: "x", Role: domain.RoleEmployee, DepartmentID: 9999}
	assert.ErrorIs(t, users.Insert(ctx, &stray), domain.ErrBadParamInput)

	boss := domain.User{FullName: "Grace", Email: "grace@example.com", PasswordHash: "x", Role: domain.RoleManager, DepartmentID: dept}
	require.NoError(t, users.Insert(ctx, &boss))
	manager := domain.Manager{UserID: boss.ID, DepartmentID: dept}
	require.NoError(t, NewManagerRepository(db).Store(ctx, &manager))

	posts := NewPostRepository(db)
	assert.ErrorIs(t, posts.Store(ctx, &domain.Post{Title: "t", Body: "b", User: domain.User{ID: 9999}, DepartmentID: dept}), domain.ErrBadParamInput)

	comments := NewCommentRepository(db)
	assert.ErrorIs(t, comments.Store(ctx, &domain.Comment{PostID: 9999, UserID: boss.ID, Text: "hi"}), domain.ErrBadParamInput)

	// commits keep pointing at deleted posts
	c := domain.Commit{PostID: 424242, ManagerID: manager.ID, Message: "removed"}
	require.NoError(t, NewCommitRepository(db).Store(ctx, &c))
	assert.ErrorIs(t, NewCommitRepository(db).Store(ctx, &domain.Commit{PostID: 1, ManagerID: 9999, Message: "x"}), domain.ErrBadParamInput)
}
