package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MaxFileSize is the largest story file picked up (4 MB).
const MaxFileSize int64 = 4 << 20

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".storyreel":   true,
	"node_modules": true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
}

// File is a candidate story file found under the import root.
type File struct {
	Path    string // absolute path on disk
	RelPath string // slash-separated path relative to the root
	Size    int64
}

// Walk returns every regular file under root that matches include, does
// not match exclude and is not listed in root's .storyreelignore file.
// Results are in lexical order.
func Walk(root string, include, exclude []string) ([]File, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	ignored := loadIgnore(filepath.Join(abs, ".storyreelignore"))

	var files []File
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}
		if d.IsDir() {
			if path != abs && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(rel, ignored) || !matchesAny(rel, include) || matchesAny(rel, exclude) {
			return nil
		}

		fi, err := d.Info()
		if err != nil || fi.Size() > MaxFileSize {
			return nil
		}
		files = append(files, File{Path: path, RelPath: rel, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}

// matchesAny reports whether rel, or its base name, matches any of the
// doublestar patterns.
func matchesAny(rel string, patterns []string) bool {
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSuffix(pattern, "/"))
		if pattern == "" {
			continue
		}
		if ok, err := doublestar.PathMatch(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, base); err == nil && ok {
			return true
		}
		// A bare directory pattern excludes everything beneath it.
		if ok, err := doublestar.PathMatch(pattern+"/**", rel); err == nil && ok {
			return true
		}
	}
	return false
}

// loadIgnore reads an ignore file and returns its non-empty, non-comment
// lines as patterns.
func loadIgnore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
