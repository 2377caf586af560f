// Package corpus discovers candidate documentation files under a content root.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/docsmith-io/docsmith/internal/domain"
	"github.com/docsmith-io/docsmith/internal/utils"
)

// DefaultMaxFileSize is the largest file the scanner will yield
const DefaultMaxFileSize = 10 * 1024 * 1024

// DocumentExtensions are file extensions treated as documentation sources
var DocumentExtensions = map[string]bool{
	".md":  true,
	".mdx": true,
}

// IgnoreDirs are directories skipped during discovery
var IgnoreDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
	".nuxt":        true,
}

// Scanner walks a content root and yields candidate documentation files
// in lexical traversal order.
type Scanner struct {
	logger      *utils.Logger
	extensions  map[string]bool
	excludes    []string
	maxFileSize int64
}

// ScannerOptions configures a Scanner
type ScannerOptions struct {
	Logger      *utils.Logger
	Extensions  []string // defaults to .md and .mdx
	Excludes    []string // doublestar patterns matched against root-relative paths
	MaxFileSize int64    // defaults to DefaultMaxFileSize
}

// NewScanner creates a new Scanner
func NewScanner(opts ScannerOptions) *Scanner {
	extensions := DocumentExtensions
	if len(opts.Extensions) > 0 {
		extensions = make(map[string]bool, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			extensions[ext] = true
		}
	}

	maxSize := opts.MaxFileSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}

	return &Scanner{
		logger:      opts.Logger,
		extensions:  extensions,
		excludes:    opts.Excludes,
		maxFileSize: maxSize,
	}
}

// Scan recursively discovers documentation files under root. Dotfiles and
// dot-directories are excluded, as are well-known build and dependency
// directories. An unreadable or missing root is an error; a readable root
// with no candidates returns an empty slice.
func (s *Scanner) Scan(root string) ([]domain.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to access content root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrRootNotDirectory, root)
	}

	files := []domain.SourceFile{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || IgnoreDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !s.extensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range s.excludes {
			matched, err := doublestar.Match(pattern, relPath)
			if err != nil {
				return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
			if matched {
				if s.logger != nil {
					s.logger.Debug().Str("path", relPath).Str("pattern", pattern).Msg("Excluded by pattern")
				}
				return nil
			}
		}

		if s.maxFileSize > 0 {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			if fi.Size() > s.maxFileSize {
				if s.logger != nil {
					s.logger.Warn().Str("path", relPath).Int64("size_bytes", fi.Size()).Msg("Skipping oversized file")
				}
				return nil
			}
		}

		files = append(files, domain.SourceFile{Path: path, RelPath: relPath})
		return nil
	})

	return files, err
}
