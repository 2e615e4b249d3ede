package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("stored object not found")

// FileStorage keeps generated documents such as payslip PDFs.
type FileStorage interface {
	// Put writes the object under key, replacing any previous content.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Get opens the object; ErrObjectNotFound when absent.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
}
