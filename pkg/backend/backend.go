// Package backend defines the virtual filesystem contract used by file
// tools and sub-agents, along with its Memory, Host, and Composite
// implementations.
//
// Every operation normalizes its path argument through internal/pathutil
// before doing anything else, so traversal and malformed-path errors are
// uniform across backends.
package backend

// FileInfo describes one directory entry as produced by Ls or Glob.
type FileInfo struct {
	Path       string
	IsDir      bool
	Size       int64
	ModifiedAt string
}

// GrepMatch is one literal-substring match produced by Grep.
type GrepMatch struct {
	Path string
	Line int
	Text string
}

// WriteResult is returned by Write. FilesUpdate is populated by backends
// that keep their own copy of file state in a form an executor can mirror
// into AgentState.Files (the Memory backend); it is nil for backends that
// write straight through to external storage (the Host backend).
type WriteResult struct {
	FilesUpdate map[string]string // path -> full content, nil if not applicable
}

// EditResult is returned by Edit and reports how many occurrences of the
// old string were replaced.
type EditResult struct {
	Occurrences int
	FilesUpdate map[string]string
}

// Backend is the virtual filesystem contract. All operations fail with a
// *Error carrying one of the ErrorKind values.
type Backend interface {
	Ls(path string) ([]FileInfo, error)

	// Read returns cat-n-style numbered lines (1-indexed, tab separated).
	// offset is a 0-indexed line offset; limit caps the line count.
	Read(path string, offset, limit int) (string, error)

	// Write creates or overwrites path with content.
	Write(path, content string) (WriteResult, error)

	// Edit performs a literal-string replacement. If replaceAll is false,
	// it fails unless old occurs exactly once.
	Edit(path, old, newStr string, replaceAll bool) (EditResult, error)

	// Glob matches shell-style patterns ("**", "*", "?") rooted at basePath.
	Glob(pattern, basePath string) ([]FileInfo, error)

	// Grep performs a literal substring search, never a regex search.
	Grep(pattern string, path, globFilter *string) ([]GrepMatch, error)

	Exists(path string) (bool, error)
	Delete(path string) error
}

// DefaultReadLimit is the default line count cap for Read.
const DefaultReadLimit = 2000
