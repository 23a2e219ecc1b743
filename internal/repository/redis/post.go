package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/knowledge-base/domain"
)

const (
	KeyPost = "post:%d"

	postTTL = 10 * time.Minute
)

type postCache struct {
	client *redis.Client
}

var _ domain.PostCache = (*postCache)(nil)

func NewPostCache(client *redis.Client) *postCache {
	return &postCache{
		client,
	}
}

func (c *postCache) GetPost(ctx context.Context, id int64) (res domain.Post, err error) {
	key := fmt.Sprintf(KeyPost, id)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Post{}, domain.ErrCacheMiss
	} else if err != nil {
		return domain.Post{}, err
	}
	if err = json.Unmarshal(data, &res); err != nil {
		return domain.Post{}, err
	}
	return
}

func (c *postCache) SetPost(ctx context.Context, p *domain.Post) (err error) {
	key := fmt.Sprintf(KeyPost, p.ID)
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	err = c.client.Set(ctx, key, data, postTTL).Err()
	return
}

func (c *postCache) DeletePost(ctx context.Context, id int64) error {
	key := fmt.Sprintf(KeyPost, id)
	return c.client.Del(ctx, key).Err()
}
