package system

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"
)

// fakeSystem provides a System for unit tests. Files and env values are served
// from maps; everything else comes from the Func fields.
type fakeSystem struct {
	env   map[string]string
	files map[string]string

	KernelVersionFunc  func(ctx context.Context) (string, error)
	UnameFunc          func() (string, error)
	KernelArchFunc     func() (string, error)
	VirtualizationFunc func(ctx context.Context) (string, string, error)
}

func (s *fakeSystem) Getenv(key string) string {
	return s.env[key]
}

func (s *fakeSystem) Stat(name string) (os.FileInfo, error) {
	if _, ok := s.files[name]; ok {
		return fakeFileInfo{name: name}, nil
	}
	return nil, fs.ErrNotExist
}

func (s *fakeSystem) ReadFile(name string) ([]byte, error) {
	if data, ok := s.files[name]; ok {
		return []byte(data), nil
	}
	return nil, fs.ErrNotExist
}

func (s *fakeSystem) KernelVersion(ctx context.Context) (string, error) {
	if s.KernelVersionFunc != nil {
		return s.KernelVersionFunc(ctx)
	}
	return "", errors.New("kernel version not mocked")
}

func (s *fakeSystem) Uname() (string, error) {
	if s.UnameFunc != nil {
		return s.UnameFunc()
	}
	return "", errors.New("uname not mocked")
}

func (s *fakeSystem) KernelArch() (string, error) {
	if s.KernelArchFunc != nil {
		return s.KernelArchFunc()
	}
	return "x86_64", nil
}

func (s *fakeSystem) Virtualization(ctx context.Context) (string, string, error) {
	if s.VirtualizationFunc != nil {
		return s.VirtualizationFunc(ctx)
	}
	return "", "", nil
}

type fakeFileInfo struct {
	name string
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return 0 }
func (f fakeFileInfo) Mode() os.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return false }
func (f fakeFileInfo) Sys() any           { return nil }
