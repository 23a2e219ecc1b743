package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository"
)

const (
	KeyPostBloom = "bloom:post:ids"

	// bulkChunk bounds the number of ids sent in one pipeline
	bulkChunk = 1000
)

// postBloom is a bloom filter over post ids kept in one redis bitmap.
type postBloom struct {
	client  *redis.Client
	bitSize uint64
}

var _ domain.BloomRepository = (*postBloom)(nil)

func NewPostBloom(client *redis.Client, bitSize uint64) *postBloom {
	return &postBloom{
		client:  client,
		bitSize: bitSize,
	}
}

func (r *postBloom) Add(ctx context.Context, id int64) error {
	return r.BulkAdd(ctx, []int64{id})
}

func (r *postBloom) Exists(ctx context.Context, id int64) (bool, error) {
	offsets := repository.BloomOffsets(id, r.bitSize)
	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(offsets))
	for i, offset := range offsets {
		cmds[i] = pipe.GetBit(ctx, KeyPostBloom, int64(offset))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		if cmd.Val() == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (r *postBloom) BulkAdd(ctx context.Context, ids []int64) error {
	for start := 0; start < len(ids); start += bulkChunk {
		end := min(start+bulkChunk, len(ids))
		pipe := r.client.Pipeline()
		for _, id := range ids[start:end] {
			for _, offset := range repository.BloomOffsets(id, r.bitSize) {
				pipe.SetBit(ctx, KeyPostBloom, int64(offset), 1)
			}
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
