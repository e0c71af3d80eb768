// Package pathutil implements the path normalization and directory
// containment rules shared by every Backend implementation.
package pathutil

import "strings"

// ErrTraversal is returned (wrapped) by Normalize when the input path
// contains a traversal segment or a home-directory prefix.
type ErrTraversal struct {
	Path string
}

func (e *ErrTraversal) Error() string {
	return "path traversal rejected: " + e.Path
}

// Normalize enforces the mandatory path contract:
//  1. reject any path containing ".." anywhere, or starting with "~"
//  2. collapse runs of "/" and strip "." segments
//  3. ensure a single leading "/"; empty input maps to "/"
//  4. strip trailing "/" except for root
func Normalize(path string) (string, error) {
	if strings.Contains(path, "..") || strings.HasPrefix(path, "~") {
		return "", &ErrTraversal{Path: path}
	}

	if path == "" {
		return "/", nil
	}

	parts := make([]string, 0, strings.Count(path, "/")+1)
	for _, p := range strings.Split(path, "/") {
		if p == "" || p == "." {
			continue
		}
		parts = append(parts, p)
	}

	if len(parts) == 0 {
		return "/", nil
	}

	return "/" + strings.Join(parts, "/"), nil
}

// IsUnder reports whether path is contained within base:
//   - base "/" contains everything
//   - exact equality is containment
//   - otherwise path must start with base + "/"
//
// Both arguments are expected to already be normalized; IsUnder only
// trims a trailing slash off base for robustness.
func IsUnder(path, base string) bool {
	normBase := strings.TrimSuffix(base, "/")

	if normBase == "" || normBase == "/" {
		return true
	}

	if path == normBase {
		return true
	}

	return strings.HasPrefix(path, normBase+"/")
}
