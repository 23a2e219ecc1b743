package tag_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/memory"
	"github.com/Guyuepp/knowledge-base/internal/usecase/tag"
)

func TestNormalizeAll(t *testing.T) {
	got := tag.NormalizeAll([]string{" Go ", "go", "", "  ", "Ops", "GO"})
	assert.Equal(t, []string{"go", "ops"}, got)
}

func TestFindOrCreate(t *testing.T) {
	store := memory.New()
	svc := tag.NewService(store.Tags())
	ctx := context.Background()
	actor := domain.Actor{UserID: 1, Role: domain.RoleEmployee, DepartmentID: 2}

	first, created, err := svc.FindOrCreate(ctx, actor, "  Onboarding ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "onboarding", first.Name)
	assert.EqualValues(t, 2, first.DepartmentID)

	again, created, err := svc.FindOrCreate(ctx, actor, "ONBOARDING")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	other := domain.Actor{UserID: 1, DepartmentID: 3}
	elsewhere, created, err := svc.FindOrCreate(ctx, other, "onboarding")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, elsewhere.ID)

	_, _, err = svc.FindOrCreate(ctx, actor, "   ")
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
	_, _, err = svc.FindOrCreate(ctx, actor, strings.Repeat("x", tag.MaxNameLength+1))
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestEnsure(t *testing.T) {
	store := memory.New()
	svc := tag.NewService(store.Tags())
	ctx := context.Background()

	tags, err := svc.Ensure(ctx, 5, []string{"Infra", "infra ", "oncall"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "infra", tags[0].Name)
	assert.Equal(t, "oncall", tags[1].Name)

	dept := int64(5)
	all, err := svc.Fetch(ctx, &dept)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
