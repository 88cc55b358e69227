package extractor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/corex/internal/grammar"
)

// compiledPattern holds the compiled glob and, for "**/" patterns, a root
// variant so "**/x" also matches "x".
type compiledPattern struct {
	glob glob.Glob
	root glob.Glob
}

// FileDiscovery walks a directory for files with the given suffixes,
// honouring ignore globs.
type FileDiscovery struct {
	rootDir        string
	suffixes       map[string]bool
	ignorePatterns []compiledPattern
}

// NewFileDiscovery creates a new file discovery instance. Suffixes are
// compared case-insensitively and include the leading dot.
func NewFileDiscovery(rootDir string, suffixes, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{
		rootDir:  rootDir,
		suffixes: make(map[string]bool, len(suffixes)),
	}

	for _, suffix := range suffixes {
		fd.suffixes[strings.ToLower(suffix)] = true
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{glob: g}
		if trimmed, ok := strings.CutPrefix(pattern, "**/"); ok {
			if cp.root, err = glob.Compile(trimmed, '/'); err != nil {
				return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
			}
		}
		fd.ignorePatterns = append(fd.ignorePatterns, cp)
	}

	return fd, nil
}

// DiscoverFiles walks the tree in lexical order. Directories that cannot be
// read are reported as failures and the walk continues.
func (fd *FileDiscovery) DiscoverFiles() ([]string, []FileFailure, error) {
	files := []string{}
	var failures []FileFailure

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil && path == fd.rootDir {
				return err
			}
			failures = append(failures, readFailure(path, err))
			return nil
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}

		if fd.suffixes[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return files, failures, nil
}

// Ignored reports whether path, a file or directory under the root, matches
// an ignore pattern.
func (fd *FileDiscovery) Ignored(path string) bool {
	relPath, err := filepath.Rel(fd.rootDir, path)
	if err != nil || relPath == "." || strings.HasPrefix(relPath, "..") {
		return false
	}
	return fd.shouldIgnore(filepath.ToSlash(relPath))
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if fd.matchesAnyPattern(relPath) {
		return true
	}

	// A directory "vendor" should match the pattern "vendor/**".
	return fd.matchesAnyPattern(relPath + "/**")
}

func (fd *FileDiscovery) matchesAnyPattern(path string) bool {
	for _, cp := range fd.ignorePatterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.root != nil && cp.root.Match(path) {
			return true
		}
	}
	return false
}

// Enumerate returns the files an extraction over path covers. A file path is
// returned as is, whatever its suffix. A directory is walked for files whose
// extension is in suffixes. An empty suffix set is an unsupported language.
func Enumerate(path string, suffixes []string, ignore []string) ([]string, []FileFailure, error) {
	if len(suffixes) == 0 {
		return nil, nil, fmt.Errorf("%w: no file suffixes", grammar.ErrUnsupportedLanguage)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []string{path}, nil, nil
	}

	fd, err := NewFileDiscovery(path, suffixes, ignore)
	if err != nil {
		return nil, nil, err
	}
	return fd.DiscoverFiles()
}
