package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDir stores blob bytes in a single flat directory, one entry per
// upload id. No subdirectories and no sidecar files: the directory listing
// is the complete inventory of stored uploads.
type LocalDir struct {
	root string
}

// NewLocalDir creates a flat blob directory rooted at root.
func NewLocalDir(root string) (*LocalDir, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalDir{root: abs}, nil
}

// Put writes blob bytes under id, truncating any prior content. Concurrent
// writers to the same id race last-writer-wins; that matches the consistency
// the rest of the system assumes.
func (d *LocalDir) Put(ctx context.Context, id string, r io.Reader) (int64, error) {
	if d == nil {
		return 0, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return 0, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	path, err := d.pathFor(id)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		return n, err
	}
	if err := f.Close(); err != nil {
		return n, err
	}
	return n, nil
}

// Open returns a reader over the blob stored under id along with its size.
// A missing blob reports os.ErrNotExist.
func (d *LocalDir) Open(ctx context.Context, id string) (io.ReadCloser, int64, error) {
	if d == nil {
		return nil, 0, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	path, err := d.pathFor(id)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Delete removes the blob stored under id. Missing blobs are ignored.
func (d *LocalDir) Delete(ctx context.Context, id string) error {
	if d == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := d.pathFor(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *LocalDir) pathFor(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("blob id is required")
	}
	if id != filepath.Base(id) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid blob id")
	}
	return filepath.Join(d.root, id), nil
}
