package domain

import (
	"context"
	"io"
	"time"
)

// MaxAttachmentSize is the largest accepted upload.
const MaxAttachmentSize = 5 << 20

// Attachment is file metadata attached to a post or a comment.
type Attachment struct {
	ID         int64
	PostID     *int64
	CommentID  *int64
	FileName   string
	FilePath   string
	FileType   string
	UploadedAt time.Time
}

// FileUpload is an inbound file; Content is owned by the caller.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// StoredFile describes a file persisted by a FileStorage.
type StoredFile struct {
	Name string
	Path string
	// Type is a coarse classification such as image, pdf or other
	Type string
}

type FileStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (StoredFile, error)
	Remove(ctx context.Context, path string) error
}

type AttachmentRepository interface {
	Store(ctx context.Context, a *Attachment) error
	FetchByPost(ctx context.Context, postID int64) ([]Attachment, error)
}
