package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()
	specs := []string{"login.feature", "admin_login.feature", "checkout.feature", "cart_checkout.feature"}

	tests := []struct {
		name     string
		specs    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			specs:    specs,
			pattern:  "",
			expected: 4,
		},
		{
			name:     "wildcard pattern matches suffix",
			specs:    specs,
			pattern:  "*_login.feature",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			specs:    specs,
			pattern:  "*checkout*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			specs:    specs,
			pattern:  "login",
			expected: 2,
		},
		{
			name:     "alternatives",
			specs:    specs,
			pattern:  "{login,checkout}.feature",
			expected: 2,
		},
		{
			name:     "no matches",
			specs:    specs,
			pattern:  "*search*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			specs:    []string{"cypress/integration/admin/login.feature", "cypress/integration/cart.feature"},
			pattern:  "log*.feature",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.specs, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty spec list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*.feature")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("invalid glob falls back to substring", func(t *testing.T) {
		result := filter.FilterByName([]string{"a[b.feature", "ab.feature"}, "a[b")
		if len(result) != 1 || result[0] != "a[b.feature" {
			t.Errorf("expected only a[b.feature, got %v", result)
		}
	})

	t.Run("keeps discovery order", func(t *testing.T) {
		result := filter.FilterByName([]string{"z_login.feature", "a_login.feature"}, "*login*")
		if len(result) != 2 || result[0] != "z_login.feature" {
			t.Errorf("expected order to be preserved, got %v", result)
		}
	})
}
