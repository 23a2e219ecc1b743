package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository"
)

func TestPostCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewPostCache(client)

	mock.ExpectGet("post:1").RedisNil()

	_, err := cache.GetPost(context.TODO(), 1)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostCacheRoundTrip(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewPostCache(client)

	post := domain.Post{
		ID:          3,
		Title:       "Release checklist",
		Body:        "1. tag",
		User:        domain.User{ID: 8, FullName: "Ada"},
		UpvoteCount: 2,
		Tags:        []domain.Tag{{ID: 1, Name: "release", DepartmentID: 1}},
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(&post)
	require.NoError(t, err)

	mock.ExpectSet("post:3", data, postTTL).SetVal("OK")
	mock.ExpectGet("post:3").SetVal(string(data))
	mock.ExpectDel("post:3").SetVal(1)

	require.NoError(t, cache.SetPost(context.TODO(), &post))
	got, err := cache.GetPost(context.TODO(), 3)
	require.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Tags, got.Tags)
	assert.True(t, post.CreatedAt.Equal(got.CreatedAt))
	require.NoError(t, cache.DeletePost(context.TODO(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostCacheGetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewPostCache(client)

	mock.ExpectGet("post:4").SetErr(errors.New("connection refused"))

	_, err := cache.GetPost(context.TODO(), 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}

func TestBloomExists(t *testing.T) {
	const size = 1 << 16
	client, mock := redismock.NewClientMock()
	bloom := NewPostBloom(client, size)

	offsets := repository.BloomOffsets(7, size)
	for _, off := range offsets {
		mock.ExpectGetBit(KeyPostBloom, int64(off)).SetVal(1)
	}
	ok, err := bloom.Exists(context.TODO(), 7)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectGetBit(KeyPostBloom, int64(offsets[0])).SetVal(1)
	mock.ExpectGetBit(KeyPostBloom, int64(offsets[1])).SetVal(0)
	mock.ExpectGetBit(KeyPostBloom, int64(offsets[2])).SetVal(1)
	ok, err = bloom.Exists(context.TODO(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBloomBulkAdd(t *testing.T) {
	const size = 1 << 16
	client, mock := redismock.NewClientMock()
	bloom := NewPostBloom(client, size)

	for _, id := range []int64{1, 2} {
		for _, off := range repository.BloomOffsets(id, size) {
			mock.ExpectSetBit(KeyPostBloom, int64(off), 1).SetVal(0)
		}
	}
	require.NoError(t, bloom.BulkAdd(context.TODO(), []int64{1, 2}))
	require.NoError(t, bloom.BulkAdd(context.TODO(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
