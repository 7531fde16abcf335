package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	defaultFileMode fs.FileMode = 0o644
	defaultDirMode  fs.FileMode = 0o755
	secureFileMode  fs.FileMode = 0o600
	secureDirMode   fs.FileMode = 0o700
)

// File stores one file per key inside a directory. Writes go to a temp file
// that is renamed over the target, so readers never see a partial value.
type File struct {
	dir      string
	fileMode fs.FileMode
	dirMode  fs.FileMode
	mu       sync.Mutex
}

// FileOption configures a File store.
type FileOption func(*File)

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode fs.FileMode) FileOption {
	return func(f *File) {
		if mode != 0 {
			f.fileMode = mode
		}
	}
}

// WithDirMode sets the permission bits used when creating the directory.
func WithDirMode(mode fs.FileMode) FileOption {
	return func(f *File) {
		if mode != 0 {
			f.dirMode = mode
		}
	}
}

// Secure restricts files and the directory to the owner.
func Secure() FileOption {
	return func(f *File) {
		f.fileMode = secureFileMode
		f.dirMode = secureDirMode
	}
}

// NewFile creates dir if needed and returns a store rooted at it.
func NewFile(dir string, opts ...FileOption) (*File, error) {
	f := &File{dir: dir, fileMode: defaultFileMode, dirMode: defaultDirMode}
	for _, opt := range opts {
		opt(f)
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: empty directory", ErrUnavailable)
	}
	if err := os.MkdirAll(dir, f.dirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return f, nil
}

// Dir returns the root directory.
func (f *File) Dir() string { return f.dir }

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return b, true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Chmod(f.fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(name, f.path(key)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
