package domain

import "context"

// BloomRepository answers "may this post exist" without touching the database.
type BloomRepository interface {
	// Add puts the ID into the filter
	Add(ctx context.Context, id int64) error

	// Exists reports whether the ID may exist.
	// true: maybe (check cache/DB next)
	// false: definitely not (return 404 directly)
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd is used for warming the filter at startup
	BulkAdd(ctx context.Context, ids []int64) error
}
