package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kadirpekel/deepagent-go/internal/pathutil"
)

// HostBackend maps the virtual filesystem onto a root directory on the
// real OS filesystem. Writes go straight through to disk, so
// WriteResult.FilesUpdate is always nil — executors must not expect a
// files_update mirror from this backend.
type HostBackend struct {
	root string
}

// NewHostBackend returns a backend rooted at root. root must already exist.
func NewHostBackend(root string) (*HostBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve host backend root: %w", err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("host backend root %q is not a directory", abs)
	}
	return &HostBackend{root: abs}, nil
}

func (b *HostBackend) real(p string) (string, error) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return "", newErr(KindPathTraversal, p, err)
	}
	return filepath.Join(b.root, filepath.FromSlash(np)), nil
}

func (b *HostBackend) Ls(p string) ([]FileInfo, error) {
	real, err := b.real(p)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(real)
	if err != nil {
		return nil, toBackendErr(p, err)
	}
	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		vp := joinVirtual(p, e.Name())
		if e.IsDir() {
			out = append(out, FileInfo{Path: vp, IsDir: true})
		} else {
			out = append(out, FileInfo{Path: vp, IsDir: false, Size: info.Size(), ModifiedAt: info.ModTime().UTC().Format("2006-01-02T15:04:05Z07:00")})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (b *HostBackend) Read(p string, offset, limit int) (string, error) {
	real, err := b.real(p)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(real)
	if err != nil {
		return "", toBackendErr(p, err)
	}
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	lines := strings.Split(string(content), "\n")
	if offset < 0 {
		offset = 0
	}
	if offset >= len(lines) {
		return "", nil
	}
	end := offset + limit
	if end > len(lines) {
		end = len(lines)
	}
	var sb strings.Builder
	for i := offset; i < end; i++ {
		fmt.Fprintf(&sb, "%d\t%s\n", i+1, lines[i])
	}
	return sb.String(), nil
}

func (b *HostBackend) Write(p, content string) (WriteResult, error) {
	real, err := b.real(p)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(real), 0o755); err != nil {
		return WriteResult{}, toBackendErr(p, err)
	}
	if err := os.WriteFile(real, []byte(content), 0o644); err != nil {
		return WriteResult{}, toBackendErr(p, err)
	}
	return WriteResult{}, nil
}

func (b *HostBackend) Edit(p, old, newStr string, replaceAll bool) (EditResult, error) {
	real, err := b.real(p)
	if err != nil {
		return EditResult{}, err
	}
	content, err := os.ReadFile(real)
	if err != nil {
		return EditResult{}, toBackendErr(p, err)
	}

	occurrences := strings.Count(string(content), old)
	if occurrences == 0 {
		return EditResult{}, newErr(KindPattern, p, fmt.Errorf("old string not found"))
	}
	if !replaceAll && occurrences != 1 {
		return EditResult{}, newErr(KindPattern, p, fmt.Errorf("old string occurs %d times, expected exactly 1", occurrences))
	}

	var updated string
	if replaceAll {
		updated = strings.ReplaceAll(string(content), old, newStr)
	} else {
		updated = strings.Replace(string(content), old, newStr, 1)
	}

	if err := os.WriteFile(real, []byte(updated), 0o644); err != nil {
		return EditResult{}, toBackendErr(p, err)
	}
	return EditResult{Occurrences: occurrences}, nil
}

func (b *HostBackend) Glob(pattern, basePath string) ([]FileInfo, error) {
	real, err := b.real(basePath)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(real, pattern))
	if err != nil {
		return nil, newErr(KindPattern, pattern, err)
	}
	out := make([]FileInfo, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		rel, _ := filepath.Rel(b.root, m)
		vp := "/" + filepath.ToSlash(rel)
		out = append(out, FileInfo{Path: vp, IsDir: info.IsDir(), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (b *HostBackend) Grep(pattern string, p, globFilter *string) ([]GrepMatch, error) {
	base := "/"
	if p != nil {
		base = *p
	}
	real, err := b.real(base)
	if err != nil {
		return nil, err
	}

	var out []GrepMatch
	err = filepath.WalkDir(real, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if globFilter != nil {
			if ok, _ := filepath.Match(*globFilter, d.Name()); !ok {
				return nil
			}
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(b.root, path)
		vp := "/" + filepath.ToSlash(rel)
		for i, line := range strings.Split(string(content), "\n") {
			if strings.Contains(line, pattern) {
				out = append(out, GrepMatch{Path: vp, Line: i + 1, Text: line})
			}
		}
		return nil
	})
	if err != nil {
		return nil, toBackendErr(base, err)
	}
	return out, nil
}

func (b *HostBackend) Exists(p string) (bool, error) {
	real, err := b.real(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(real)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, toBackendErr(p, err)
}

func (b *HostBackend) Delete(p string) error {
	real, err := b.real(p)
	if err != nil {
		return err
	}
	if err := os.Remove(real); err != nil {
		return toBackendErr(p, err)
	}
	return nil
}

// FileChangeOp describes what kind of change a Watch event reports.
type FileChangeOp int

const (
	FileChangeWrite FileChangeOp = iota
	FileChangeCreate
	FileChangeRemove
)

// FileEvent is one change reported by HostBackend.Watch, in virtual
// (backend-rooted) path form.
type FileEvent struct {
	Path string
	Op   FileChangeOp
}

// Watch is an optional HostBackend-only capability (not part of the
// Backend interface: MemoryBackend has no external state to watch, and
// CompositeBackend would have to fan a watch out across its mounts for
// no caller-identified need). It watches p itself when p is a directory,
// or the directory containing p (reporting only p's own changes) when p
// is an existing file, debouncing rapid-fire writes, and reports them in virtual
// path form on the returned channel until ctx is cancelled, at which
// point the channel is closed and the underlying fsnotify.Watcher is
// released.
func (b *HostBackend) Watch(ctx context.Context, p string) (<-chan FileEvent, error) {
	real, err := b.real(p)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	watchDir := real
	watchName := ""
	if info, statErr := os.Stat(real); statErr == nil && !info.IsDir() {
		watchDir = filepath.Dir(real)
		watchName = filepath.Base(real)
	}
	if err := watcher.Add(watchDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", watchDir, err)
	}

	out := make(chan FileEvent, 1)
	go b.watchLoop(ctx, watcher, watchName, out)
	return out, nil
}

const watchDebounce = 100 * time.Millisecond

// watchLoop debounces entirely within this one goroutine's select loop
// (a timer channel, not a timer callback) so pending never needs a lock.
func (b *HostBackend) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onlyName string, out chan<- FileEvent) {
	defer close(out)
	defer watcher.Close()

	pending := map[string]FileChangeOp{}
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	flush := func() {
		for name, op := range pending {
			rel, err := filepath.Rel(b.root, name)
			if err != nil {
				continue
			}
			select {
			case out <- FileEvent{Path: "/" + filepath.ToSlash(rel), Op: op}:
			default:
			}
		}
		pending = map[string]FileChangeOp{}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-timer.C:
			flush()

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if onlyName != "" && filepath.Base(event.Name) != onlyName {
				continue
			}

			var op FileChangeOp
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				op = FileChangeCreate
			case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
				op = FileChangeRemove
			case event.Op&fsnotify.Write == fsnotify.Write:
				op = FileChangeWrite
			default:
				continue
			}

			pending[event.Name] = op
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(watchDebounce)

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func joinVirtual(base, name string) string {
	if base == "" || base == "/" {
		return "/" + name
	}
	return strings.TrimSuffix(base, "/") + "/" + name
}

func toBackendErr(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return newErr(KindFileNotFound, path, err)
	case os.IsPermission(err):
		return newErr(KindPermissionDenied, path, err)
	default:
		if pe, ok := err.(*os.PathError); ok && pe.Err != nil && strings.Contains(pe.Err.Error(), "is a directory") {
			return newErr(KindIsDirectory, path, err)
		}
		return newErr(KindIO, path, err)
	}
}
