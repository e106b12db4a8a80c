package fs

import (
	"os"
	"path/filepath"

	"go.uber.org/fx"
)

//go:generate mockgen -source=fs.go -destination=fsmock/fs_mock.go -package=fsmock

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// FS wraps the filesystem operations used by the daemon.
type FS interface {
	MkdirAll(path string) error
	FileExists(path string) (bool, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	TempFile(dir, pattern string) (*os.File, error)
	Remove(name string) error
	Abs(path string) (string, error)
}

type fsImpl struct{}

// New creates a new FS.
func New() FS {
	return fsImpl{}
}

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile replaces the contents of name, creating it if needed.
func (fsImpl) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0644)
}

func (fsImpl) TempFile(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (fsImpl) Remove(name string) error {
	return os.Remove(name)
}

func (fsImpl) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
