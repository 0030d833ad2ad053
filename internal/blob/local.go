package blob

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rjabhishek747474/ATS-Resume-Builder/internal/errors"
)

// Local stores objects as files below a root directory
type Local struct {
	root string
}

// NewLocal creates root if needed
func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "local blob directory is required", nil)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to create blob directory", err).
			WithContext("dir", root)
	}
	return &Local{root: root}, nil
}

func (l *Local) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	if err := validKey(key); err != nil {
		return err
	}
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "failed to create blob directory", err).WithContext("key", key)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "failed to write blob", err).WithContext("key", key)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return errors.NewIOError(errors.ErrCodeStoreFailed, "failed to write blob", err).WithContext("key", key)
	}
	return nil
}

func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path(key))
	if os.IsNotExist(err) {
		return nil, missing(key)
	}
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "failed to read blob", err).WithContext("key", key)
	}
	return data, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := os.Remove(l.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.NewIOError(errors.ErrCodeStoreFailed, "failed to delete blob", err).WithContext("key", key)
	}
	return nil
}
