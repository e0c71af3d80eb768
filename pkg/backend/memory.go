package backend

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kadirpekel/deepagent-go/internal/pathutil"
)

// MemoryBackend stores files entirely in process memory. It is the
// checkpoint-friendly variant: Write and Edit return a FilesUpdate map so
// an executor can mirror the change into AgentState.Files.
type MemoryBackend struct {
	mu    sync.RWMutex
	files map[string]memFile
	now   func() string
}

type memFile struct {
	content    string
	modifiedAt string
}

// NewMemoryBackend returns an empty in-memory backend. now supplies the
// timestamp stamped on writes; pass a fixed clock in tests for determinism.
func NewMemoryBackend(now func() string) *MemoryBackend {
	if now == nil {
		now = func() string { return time.Now().UTC().Format(time.RFC3339) }
	}
	return &MemoryBackend{files: make(map[string]memFile), now: now}
}

// Seed pre-populates a path with content, bypassing normal write bookkeeping.
// Intended for test setup.
func (b *MemoryBackend) Seed(p, content string) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[np] = memFile{content: content, modifiedAt: b.now()}
}

func (b *MemoryBackend) Ls(p string) ([]FileInfo, error) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return nil, newErr(KindPathTraversal, p, err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[string]FileInfo)
	for fp, f := range b.files {
		if !pathutil.IsUnder(fp, np) {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(fp, np), "/")
		if rel == "" {
			continue
		}
		if idx := strings.Index(rel, "/"); idx >= 0 {
			dirName := path.Join(np, rel[:idx])
			seen[dirName] = FileInfo{Path: dirName, IsDir: true}
			continue
		}
		seen[fp] = FileInfo{Path: fp, IsDir: false, Size: int64(len(f.content)), ModifiedAt: f.modifiedAt}
	}

	out := make([]FileInfo, 0, len(seen))
	for _, fi := range seen {
		out = append(out, fi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (b *MemoryBackend) Read(p string, offset, limit int) (string, error) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return "", newErr(KindPathTraversal, p, err)
	}
	if limit <= 0 {
		limit = DefaultReadLimit
	}

	b.mu.RLock()
	f, ok := b.files[np]
	b.mu.RUnlock()
	if !ok {
		return "", newErr(KindFileNotFound, np, nil)
	}

	lines := strings.Split(f.content, "\n")
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

func (b *MemoryBackend) Write(p, content string) (WriteResult, error) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return WriteResult{}, newErr(KindPathTraversal, p, err)
	}

	b.mu.Lock()
	b.files[np] = memFile{content: content, modifiedAt: b.now()}
	b.mu.Unlock()

	return WriteResult{FilesUpdate: map[string]string{np: content}}, nil
}

func (b *MemoryBackend) Edit(p, old, newStr string, replaceAll bool) (EditResult, error) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return EditResult{}, newErr(KindPathTraversal, p, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.files[np]
	if !ok {
		return EditResult{}, newErr(KindFileNotFound, np, nil)
	}

	occurrences := strings.Count(f.content, old)
	if occurrences == 0 {
		return EditResult{}, newErr(KindPattern, np, fmt.Errorf("old string not found"))
	}
	if !replaceAll && occurrences != 1 {
		return EditResult{}, newErr(KindPattern, np, fmt.Errorf("old string occurs %d times, expected exactly 1", occurrences))
	}

	var updated string
	if replaceAll {
		updated = strings.ReplaceAll(f.content, old, newStr)
	} else {
		updated = strings.Replace(f.content, old, newStr, 1)
	}

	b.files[np] = memFile{content: updated, modifiedAt: b.now()}
	return EditResult{Occurrences: occurrences, FilesUpdate: map[string]string{np: updated}}, nil
}

func (b *MemoryBackend) Glob(pattern, basePath string) ([]FileInfo, error) {
	nb, err := pathutil.Normalize(basePath)
	if err != nil {
		return nil, newErr(KindPathTraversal, basePath, err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []FileInfo
	for fp, f := range b.files {
		if !pathutil.IsUnder(fp, nb) {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(fp, nb), "/")
		ok, err := path.Match(pattern, rel)
		if err != nil {
			return nil, newErr(KindPattern, pattern, err)
		}
		if !ok && strings.Contains(pattern, "**") {
			ok = matchDoubleStar(pattern, rel)
		}
		if ok {
			out = append(out, FileInfo{Path: fp, IsDir: false, Size: int64(len(f.content)), ModifiedAt: f.modifiedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// matchDoubleStar implements the "**" (any depth, including none) glob
// segment on top of path.Match, which only understands single-segment "*".
func matchDoubleStar(pattern, rel string) bool {
	parts := strings.SplitN(pattern, "**", 2)
	if len(parts) != 2 {
		return false
	}
	prefix := strings.TrimSuffix(parts[0], "/")
	suffix := strings.TrimPrefix(parts[1], "/")

	if prefix != "" && !strings.HasPrefix(rel, prefix) {
		return false
	}
	if suffix == "" {
		return true
	}
	trimmed := strings.TrimPrefix(rel, prefix)
	trimmed = strings.TrimPrefix(trimmed, "/")
	ok, _ := path.Match(suffix, path.Base(trimmed))
	if ok {
		return true
	}
	return strings.HasSuffix(trimmed, suffix)
}

func (b *MemoryBackend) Grep(pattern string, p, globFilter *string) ([]GrepMatch, error) {
	base := "/"
	if p != nil {
		np, err := pathutil.Normalize(*p)
		if err != nil {
			return nil, newErr(KindPathTraversal, *p, err)
		}
		base = np
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []GrepMatch
	paths := make([]string, 0, len(b.files))
	for fp := range b.files {
		paths = append(paths, fp)
	}
	sort.Strings(paths)

	for _, fp := range paths {
		if !pathutil.IsUnder(fp, base) {
			continue
		}
		if globFilter != nil {
			rel := strings.TrimPrefix(strings.TrimPrefix(fp, base), "/")
			if ok, _ := path.Match(*globFilter, path.Base(rel)); !ok {
				continue
			}
		}
		for i, line := range strings.Split(b.files[fp].content, "\n") {
			if strings.Contains(line, pattern) {
				out = append(out, GrepMatch{Path: fp, Line: i + 1, Text: line})
			}
		}
	}
	return out, nil
}

func (b *MemoryBackend) Exists(p string) (bool, error) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return false, newErr(KindPathTraversal, p, err)
	}
	b.mu.RLock()
	_, ok := b.files[np]
	b.mu.RUnlock()
	return ok, nil
}

func (b *MemoryBackend) Delete(p string) error {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return newErr(KindPathTraversal, p, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.files[np]; !ok {
		return newErr(KindFileNotFound, np, nil)
	}
	delete(b.files, np)
	return nil
}
