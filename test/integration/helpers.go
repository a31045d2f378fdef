package integration

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/danieljhkim/studiofold/internal/clock"
	"github.com/danieljhkim/studiofold/internal/engine"
	"github.com/danieljhkim/studiofold/internal/fsops"
	"github.com/danieljhkim/studiofold/internal/hash"
	"github.com/danieljhkim/studiofold/internal/history"
	"github.com/danieljhkim/studiofold/internal/template"
)

const templateDir = "/templates"

var errInjected = errors.New("injected write failure")

// testFS is a filesystem implementation that tracks files in memory for testing
type testFS struct {
	files      map[string][]byte
	dirs       map[string]bool
	failWrites map[string]bool
}

func newTestFS() *testFS {
	return &testFS{
		files:      make(map[string][]byte),
		dirs:       map[string]bool{"/": true},
		failWrites: make(map[string]bool),
	}
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) Stat(path string) (os.FileInfo, error) {
	if fs.dirs[path] {
		return &mockFileInfo{name: filepath.Base(path), isDir: true, mode: dirMode}, nil
	}
	if content, ok := fs.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(content)), mode: 0644}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	var missing []string
	for p := path; !fs.dirs[p]; p = filepath.Dir(p) {
		if _, isFile := fs.files[p]; isFile {
			return &os.PathError{Op: "mkdir", Path: p, Err: errors.New("not a directory")}
		}
		missing = append(missing, p)
		if p == filepath.Dir(p) {
			break
		}
	}
	for _, p := range missing {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	if fs.dirs[path] {
		return &os.PathError{Op: "write", Path: path, Err: errors.New("is a directory")}
	}
	if fs.failWrites[path] {
		return &os.PathError{Op: "write", Path: path, Err: errInjected}
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
}

func (fs *testFS) ReadDir(path string) ([]os.DirEntry, error) {
	if !fs.dirs[path] {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	var entries []os.DirEntry
	for p := range fs.dirs {
		if p != path && filepath.Dir(p) == path {
			info, _ := fs.Stat(p)
			entries = append(entries, fsDirEntry(info))
		}
	}
	for p := range fs.files {
		if filepath.Dir(p) == path {
			info, _ := fs.Stat(p)
			entries = append(entries, fsDirEntry(info))
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (fs *testFS) ValidateName(name string) error {
	return fsops.NewRealFS().ValidateName(name)
}

const dirMode = os.ModeDir | 0755

func fsDirEntry(info os.FileInfo) os.DirEntry {
	return fs.FileInfoToDirEntry(info)
}

// mockFileInfo implements os.FileInfo
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

// testHistory is an in-memory history store for testing
type testHistory struct {
	entries []history.Entry
	err     error
}

func (h *testHistory) Record(ctx context.Context, e history.Entry) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, e)
	return nil
}

func (h *testHistory) List(ctx context.Context, limit int) ([]history.Entry, error) {
	out := make([]history.Entry, 0, len(h.entries))
	for i := len(h.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, h.entries[i])
	}
	return out, nil
}

func (h *testHistory) Close() error { return nil }

// harness bundles an engine with the fakes behind it.
type harness struct {
	eng    *engine.Engine
	fs     *testFS
	hist   *testHistory
	clock  *clock.FakeClock
	hasher *hash.FakeHasher
}

func setupTestEngine(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		fs:     newTestFS(),
		hist:   &testHistory{},
		clock:  clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		hasher: hash.NewFakeHasher(),
	}

	if err := h.fs.MkdirAll(templateDir, 0755); err != nil {
		t.Fatalf("failed to create template dir: %v", err)
	}
	loader, err := template.NewLoader(templateDir, h.fs, h.hasher)
	if err != nil {
		t.Fatalf("failed to create loader: %v", err)
	}

	h.eng = engine.New(loader, h.hist, h.fs, h.clock, nil, "test")
	return h
}

// addTemplate writes a template document and pins a digest for its content,
// since the loader caches parsed documents by digest.
func (h *harness) addTemplate(t *testing.T, name, content string) {
	t.Helper()
	if err := h.fs.AtomicWrite(filepath.Join(templateDir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	h.hasher.SetHash(content, "digest-"+name)
}
