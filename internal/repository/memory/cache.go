package memory

import (
	"context"
	"sync"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository"
)

// PostCache is a process local domain.PostCache without expiry.
type PostCache struct {
	mu    sync.RWMutex
	posts map[int64]domain.Post
}

var _ domain.PostCache = (*PostCache)(nil)

func NewPostCache() *PostCache {
	return &PostCache{posts: make(map[int64]domain.Post)}
}

func (c *PostCache) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrCacheMiss
	}
	return p, nil
}

func (c *PostCache) SetPost(ctx context.Context, p *domain.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[p.ID] = *p
	return nil
}

func (c *PostCache) DeletePost(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.posts, id)
	return nil
}

// Bloom is a process local bitset using the same hashing as the redis filter.
type Bloom struct {
	mu   sync.RWMutex
	bits []uint64
	size uint64
}

var _ domain.BloomRepository = (*Bloom)(nil)

func NewBloom(size uint64) *Bloom {
	return &Bloom{bits: make([]uint64, (size+63)/64), size: size}
}

func (b *Bloom) Add(ctx context.Context, id int64) error {
	return b.BulkAdd(ctx, []int64{id})
}

func (b *Bloom) BulkAdd(ctx context.Context, ids []int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		for _, off := range repository.BloomOffsets(id, b.size) {
			b.bits[off/64] |= 1 << (off % 64)
		}
	}
	return nil
}

func (b *Bloom) Exists(ctx context.Context, id int64) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, off := range repository.BloomOffsets(id, b.size) {
		if b.bits[off/64]&(1<<(off%64)) == 0 {
			return false, nil
		}
	}
	return true, nil
}
