// Package storage keeps uploaded files on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/knowledge-base/domain"
)

const (
	AttachmentsDir = "attachments"
	AvatarsDir     = "profile-pics"
)

// Local stores files under root/sub and exposes them under urlPrefix/sub.
type Local struct {
	root      string
	sub       string
	urlPrefix string
	maxSize   int64
}

var _ domain.FileStorage = (*Local)(nil)

func NewLocal(root, urlPrefix, sub string) *Local {
	return &Local{
		root:      root,
		sub:       sub,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		maxSize:   domain.MaxAttachmentSize,
	}
}

// Save copies r to a uniquely named file. Content over the size limit is rejected
// with domain.ErrBadParamInput and nothing is kept on disk.
func (l *Local) Save(ctx context.Context, name string, r io.Reader) (domain.StoredFile, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return domain.StoredFile{}, fmt.Errorf("%w: empty file name", domain.ErrBadParamInput)
	}

	dir := filepath.Join(l.root, l.sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StoredFile{}, err
	}

	stored := uuid.NewString() + "_" + base
	diskPath := filepath.Join(dir, stored)
	dst, err := os.Create(diskPath)
	if err != nil {
		return domain.StoredFile{}, err
	}

	n, err := io.Copy(dst, io.LimitReader(r, l.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > l.maxSize {
		err = fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrBadParamInput, base, l.maxSize)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(diskPath)
		return domain.StoredFile{}, err
	}

	return domain.StoredFile{
		Name: base,
		Path: path.Join(l.urlPrefix, l.sub, stored),
		Type: Classify(base),
	}, nil
}

// Remove deletes the file behind a public path; missing files are ignored.
func (l *Local) Remove(ctx context.Context, publicPath string) error {
	prefix := path.Join(l.urlPrefix, l.sub) + "/"
	if !strings.HasPrefix(publicPath, prefix) {
		return fmt.Errorf("%w: %s is not managed by this storage", domain.ErrBadParamInput, publicPath)
	}
	stored := path.Base(publicPath)
	err := os.Remove(filepath.Join(l.root, l.sub, stored))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err != nil {
		logrus.Debugf("file %s already gone", publicPath)
	}
	return nil
}

// Classify maps a file name to a coarse attachment type by extension.
func Classify(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return "image"
	case ".pdf":
		return "pdf"
	case ".doc", ".docx":
		return "word"
	case ".xls", ".xlsx":
		return "excel"
	case ".ppt", ".pptx":
		return "powerpoint"
	case ".txt":
		return "text"
	default:
		return "other"
	}
}
