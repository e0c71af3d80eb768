package backend

import (
	"sort"
	"strings"

	"github.com/kadirpekel/deepagent-go/internal/pathutil"
)

// CompositeBackend routes operations to a sub-backend by longest matching
// path prefix (overlay pattern). A mount at "/" acts as the fallback for
// any path not claimed by a more specific mount.
type CompositeBackend struct {
	mounts []mount
}

type mount struct {
	prefix  string
	backend Backend
}

// NewCompositeBackend returns an empty composite backend. Call Mount to
// register sub-backends before use.
func NewCompositeBackend() *CompositeBackend {
	return &CompositeBackend{}
}

// Mount registers backend to handle every path under prefix. prefix is
// normalized before being stored.
func (c *CompositeBackend) Mount(prefix string, b Backend) error {
	np, err := pathutil.Normalize(prefix)
	if err != nil {
		return newErr(KindPathTraversal, prefix, err)
	}
	c.mounts = append(c.mounts, mount{prefix: np, backend: b})
	sort.Slice(c.mounts, func(i, j int) bool { return len(c.mounts[i].prefix) > len(c.mounts[j].prefix) })
	return nil
}

// resolve returns the sub-backend for p and the path relative to its mount
// point (still absolute, rooted at "/" from the sub-backend's perspective).
func (c *CompositeBackend) resolve(p string) (Backend, string, error) {
	np, err := pathutil.Normalize(p)
	if err != nil {
		return nil, "", newErr(KindPathTraversal, p, err)
	}
	for _, m := range c.mounts {
		if pathutil.IsUnder(np, m.prefix) {
			rel := np
			if m.prefix != "/" {
				rel = strings.TrimPrefix(np, m.prefix)
			}
			if rel == "" {
				rel = "/"
			}
			return m.backend, rel, nil
		}
	}
	return nil, "", newErr(KindInvalidPath, p, nil)
}

func (c *CompositeBackend) Ls(p string) ([]FileInfo, error) {
	b, rel, err := c.resolve(p)
	if err != nil {
		return nil, err
	}
	return b.Ls(rel)
}

func (c *CompositeBackend) Read(p string, offset, limit int) (string, error) {
	b, rel, err := c.resolve(p)
	if err != nil {
		return "", err
	}
	return b.Read(rel, offset, limit)
}

func (c *CompositeBackend) Write(p, content string) (WriteResult, error) {
	b, rel, err := c.resolve(p)
	if err != nil {
		return WriteResult{}, err
	}
	return b.Write(rel, content)
}

func (c *CompositeBackend) Edit(p, old, newStr string, replaceAll bool) (EditResult, error) {
	b, rel, err := c.resolve(p)
	if err != nil {
		return EditResult{}, err
	}
	return b.Edit(rel, old, newStr, replaceAll)
}

func (c *CompositeBackend) Glob(pattern, basePath string) ([]FileInfo, error) {
	b, rel, err := c.resolve(basePath)
	if err != nil {
		return nil, err
	}
	return b.Glob(pattern, rel)
}

func (c *CompositeBackend) Grep(pattern string, p, globFilter *string) ([]GrepMatch, error) {
	base := "/"
	if p != nil {
		base = *p
	}
	b, rel, err := c.resolve(base)
	if err != nil {
		return nil, err
	}
	return b.Grep(pattern, &rel, globFilter)
}

func (c *CompositeBackend) Exists(p string) (bool, error) {
	b, rel, err := c.resolve(p)
	if err != nil {
		return false, err
	}
	return b.Exists(rel)
}

func (c *CompositeBackend) Delete(p string) error {
	b, rel, err := c.resolve(p)
	if err != nil {
		return err
	}
	return b.Delete(rel)
}
