package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"moleculehub/internal/domain"
)

var _ domain.UploadArchiver = (*LocalArchiver)(nil)

// LocalArchiver writes uploads below a root directory.
type LocalArchiver struct {
	root string
}

// NewLocalArchiver creates root if needed.
func NewLocalArchiver(root string) (*LocalArchiver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve archive dir %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create archive dir %q: %w", abs, err)
	}
	return &LocalArchiver{root: abs}, nil
}

// Put writes data to root/key. The write goes through a temp file so a
// crashed upload never leaves a truncated archive behind.
func (a *LocalArchiver) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := a.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("create dir for %q: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename %q: %w", key, err)
	}
	return nil
}

// Location returns a file:// URI for key.
func (a *LocalArchiver) Location(key string) string {
	return "file://" + filepath.ToSlash(filepath.Join(a.root, filepath.FromSlash(key)))
}

func (a *LocalArchiver) resolve(key string) (string, error) {
	dst := filepath.Join(a.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(a.root, dst)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", domain.ErrValidation("archive key %q escapes the archive directory", key)
	}
	return dst, nil
}
