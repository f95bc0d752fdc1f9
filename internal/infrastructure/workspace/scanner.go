// Package workspace reads and writes the files an edit works on.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/ports"
)

// Scanner implements ports.FileScanner with doublestar globs rooted at Root.
type Scanner struct {
	Root string
}

// NewScanner creates a scanner rooted at dir (the working directory when empty).
func NewScanner(dir string) *Scanner {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Scanner{Root: dir}
}

// Scan matches pattern, drops excluded and hidden paths, sorts the rest and
// reads up to MaxFiles of them. Oversized and unreadable files are skipped
// with a warning.
func (s *Scanner) Scan(ctx context.Context, pattern string, opts domain.ScanOptions) (domain.ScanResult, error) {
	base, rel := s.split(pattern)
	if !doublestar.ValidatePattern(rel) {
		return domain.ScanResult{}, fmt.Errorf("invalid glob %q", pattern)
	}

	exclude := opts.Exclude
	if exclude == nil {
		exclude = defaultExcludes()
	}

	fsys := os.DirFS(base)
	matches, err := doublestar.Glob(fsys, rel, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var candidates []string
	for _, match := range matches {
		if excluded(match, exclude) || hiddenUnlessNamed(rel, match) {
			continue
		}
		candidates = append(candidates, match)
	}
	sort.Strings(candidates)

	var result domain.ScanResult
	if opts.MaxFiles > 0 && len(candidates) > opts.MaxFiles {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Limiting to %d of %d matched files", opts.MaxFiles, len(candidates)))
		candidates = candidates[:opts.MaxFiles]
	}

	for _, match := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		display := s.display(base, match)

		info, err := fs.Stat(fsys, match)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipping unreadable file: %s (%v)", display, err))
			continue
		}
		if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipping large file: %s (%d bytes)", display, info.Size()))
			continue
		}
		data, err := fs.ReadFile(fsys, match)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipping unreadable file: %s (%v)", display, err))
			continue
		}
		result.Files = append(result.Files, domain.SourceFile{
			Path:    display,
			Content: string(data),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return result, nil
}

// split turns pattern into a base directory and a slash-separated glob
// relative to it.
func (s *Scanner) split(pattern string) (string, string) {
	pattern = filepath.ToSlash(pattern)
	if path.IsAbs(pattern) {
		base, rel := doublestar.SplitPattern(pattern)
		return filepath.FromSlash(base), rel
	}
	return s.Root, strings.TrimPrefix(path.Clean(pattern), "./")
}

func (s *Scanner) display(base, match string) string {
	if base == s.Root {
		return match
	}
	return filepath.Join(base, filepath.FromSlash(match))
}

func defaultExcludes() []string {
	patterns := make([]string, 0, len(domain.ExcludedDirs))
	for _, dir := range domain.ExcludedDirs {
		patterns = append(patterns, "**/"+dir+"/**")
	}
	return patterns
}

func excluded(match string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, match); ok {
			return true
		}
	}
	return false
}

// hiddenUnlessNamed reports whether match passes through a dot-prefixed
// segment the pattern does not spell out.
func hiddenUnlessNamed(pattern, match string) bool {
	named := map[string]bool{}
	for _, segment := range strings.Split(pattern, "/") {
		named[segment] = true
	}
	for _, segment := range strings.Split(match, "/") {
		if strings.HasPrefix(segment, ".") && !named[segment] {
			return true
		}
	}
	return false
}

var _ ports.FileScanner = (*Scanner)(nil)
