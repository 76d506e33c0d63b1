package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cypar/internal/domain"

	"github.com/gobwas/glob"
)

// Scanner scans for spec files in a directory
type Scanner struct {
	pattern  glob.Glob
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner matching file names against pattern and
// skipping the given directory names.
func NewScanner(pattern string, skipDirs []string) (*Scanner, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, &domain.ConfigError{Field: "spec_pattern", Err: err}
	}

	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{pattern: g, skipDirs: skipMap}, nil
}

// Scan finds all spec files below root in lexical walk order
func (s *Scanner) Scan(root string) ([]string, error) {
	var specs []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, &domain.DiscoveryError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.DiscoveryError{Path: root, Err: fmt.Errorf("not a directory")}
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if s.pattern.Match(d.Name()) {
			specs = append(specs, path)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.DiscoveryError{Path: root, Err: err}
	}

	return specs, nil
}
