package discovery

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Filter filters spec files by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the specs whose file name matches pattern.
// Patterns with wildcards ("*login*", "admin_?.feature", "{cart,checkout}*")
// are glob matches; a plain pattern is a substring match.
func (f *Filter) FilterByName(specs []string, pattern string) []string {
	if pattern == "" {
		return specs
	}

	match := func(name string) bool { return strings.Contains(name, pattern) }
	if strings.ContainsAny(pattern, "*?[{") {
		if g, err := glob.Compile(pattern); err == nil {
			match = g.Match
		}
	}

	var filtered []string
	for _, spec := range specs {
		if match(filepath.Base(spec)) {
			filtered = append(filtered, spec)
		}
	}
	return filtered
}
