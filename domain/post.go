package domain

import (
	"context"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Post is representing the Post data struct
type Post struct {
	ID            int64      // Unique identifier for the post
	Title         string     // Post title
	Body          string     // Opaque body, markdown or a JSON block list depending on the client
	User          User       // Author information
	DepartmentID  int64      // Owning department, inherited from the author
	UpvoteCount   int64      // Cached number of upvotes
	DownvoteCount int64      // Cached number of downvotes
	IsRepost      bool       // Repost flag
	CommentCount  int64      // Derived, filled on listing
	Tags          []Tag      // Filled on detail
	Attachments   []Attachment
	Reposts       []Repost
	CreatedAt     time.Time  // Creation timestamp
	UpdatedAt     *time.Time // Last update timestamp, nil if never edited
}

// Repost is a user sharing another user's post into their own view.
type Repost struct {
	ID        int64
	PostID    int64
	UserID    int64
	UserName  string
	CreatedAt time.Time
}

// PostFilter narrows the feed.
type PostFilter struct {
	DepartmentID *int64
	Tag          string
	Page         int
	PageSize     int
}

// Normalize clamps paging values to sane bounds.
func (f *PostFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Offset is the number of rows skipped for the current page.
func (f PostFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// PostRepository defines the contract for post data persistence
type PostRepository interface {
	// Fetch retrieves a page of posts, newest first.
	Fetch(ctx context.Context, f PostFilter) ([]Post, error)

	// FetchByUser retrieves posts written or reposted by the user, newest first.
	FetchByUser(ctx context.Context, userID int64) ([]Post, error)

	// GetByID retrieves a single post by its ID.
	// Returns ErrNotFound if the post doesn't exist.
	GetByID(ctx context.Context, id int64) (Post, error)

	// Store creates a new post in the repository.
	Store(ctx context.Context, p *Post) error

	// Update writes title, body and updated_at of an existing post.
	// Returns ErrNotFound if the post doesn't exist.
	Update(ctx context.Context, p *Post) error

	// Delete removes the post together with its votes, comments, reposts,
	// tag links and attachments.
	// Returns ErrNotFound if not exists
	Delete(ctx context.Context, id int64) error

	// SetVoteCounts overwrites the cached vote counters of a post.
	SetVoteCounts(ctx context.Context, id int64, counts VoteCounts) error

	// AddRepost records a repost; a repeated (post, user) pair is ignored.
	AddRepost(ctx context.Context, r *Repost) error

	FetchReposts(ctx context.Context, postID int64) ([]Repost, error)

	// CountComments returns the number of comments per post.
	CountComments(ctx context.Context, postIDs []int64) (map[int64]int64, error)

	// FetchIDs pages through post IDs greater than cursor in ascending order.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

// PostCache caches fully decorated post details.
type PostCache interface {
	// GetPost returns ErrCacheMiss if the post is not cached.
	GetPost(ctx context.Context, id int64) (Post, error)
	SetPost(ctx context.Context, p *Post) error
	DeletePost(ctx context.Context, id int64) error
}

type CreatePostInput struct {
	Title       string
	Body        string
	Tags        []string
	Attachments []FileUpload
}

// UpdatePostInput carries a partial update; empty fields are left untouched.
type UpdatePostInput struct {
	Title         string
	Body          string
	CommitMessage string
}

type PostUsecase interface {
	Feed(ctx context.Context, f PostFilter) ([]Post, error)
	GetByID(ctx context.Context, id int64) (Post, error)
	Mine(ctx context.Context, actor Actor) ([]Post, error)
	Create(ctx context.Context, actor Actor, in CreatePostInput) (Post, error)
	Update(ctx context.Context, actor Actor, id int64, in UpdatePostInput) (Post, error)
	Delete(ctx context.Context, actor Actor, id int64, commitMessage string) error
	Repost(ctx context.Context, actor Actor, id int64) error
	InitBloomFilter(ctx context.Context) error
}
