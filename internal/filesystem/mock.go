package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests
type MockFileSystem struct {
	mu          sync.RWMutex
	files       map[string][]byte
	dirs        map[string]bool
	filePerms   map[string]os.FileMode
	readErrors  map[string]error
	writeErrors map[string]error
	mkdirErrors map[string]error
}

// NewMockFileSystem creates a new MockFileSystem instance
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:       make(map[string][]byte),
		dirs:        make(map[string]bool),
		filePerms:   make(map[string]os.FileMode),
		readErrors:  make(map[string]error),
		writeErrors: make(map[string]error),
		mkdirErrors: make(map[string]error),
	}
}

// SetReadError makes ReadFile fail for path
func (m *MockFileSystem) SetReadError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrors[path] = err
}

// SetWriteError makes WriteFile fail for path
func (m *MockFileSystem) SetWriteError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrors[path] = err
}

// SetMkdirError makes MkdirAll fail for path
func (m *MockFileSystem) SetMkdirError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirErrors[path] = err
}

// AddFile seeds a file
func (m *MockFileSystem) AddFile(path string, data []byte, perm os.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	m.filePerms[path] = perm
}

// GetFile returns the content of a file, nil when missing
func (m *MockFileSystem) GetFile(path string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[path]
}

// FilesIn lists file paths directly under dir, sorted
func (m *MockFileSystem) FilesIn(dir string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir = filepath.Clean(dir)
	var out []string
	for path := range m.files {
		if filepath.Dir(path) == dir {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// HasDir reports whether MkdirAll created path or one of its children
func (m *MockFileSystem) HasDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	path = filepath.Clean(path)
	for dir := range m.dirs {
		if dir == path || strings.HasPrefix(dir, path+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.readErrors[path]; ok {
		return nil, err
	}
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.writeErrors[path]; ok {
		return err
	}
	m.files[path] = append([]byte(nil), data...)
	m.filePerms[path] = perm
	return nil
}

func (m *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if data, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(data)), mode: m.filePerms[path]}, nil
	}
	if m.dirs[filepath.Clean(path)] {
		return &mockFileInfo{name: filepath.Base(path), mode: os.ModeDir | 0755, isDir: true}, nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.mkdirErrors[path]; ok {
		return err
	}
	m.dirs[filepath.Clean(path)] = true
	return nil
}

type mockFileInfo struct {
	name  string
	size  int64
	mode  os.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }
