package ui

import (
	"fmt"
	"strings"
	"testing"

	"cypar/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestToggleResolved(t *testing.T) {
	failures := []domain.TestFailure{{Title: "a"}, {Title: "b"}}

	assert.True(t, toggleResolved(failures, 1))
	assert.True(t, failures[1].Resolved)
	assert.Equal(t, 1, countUnresolved(failures))

	assert.True(t, toggleResolved(failures, 1))
	assert.False(t, failures[1].Resolved)
	assert.Equal(t, 2, countUnresolved(failures))

	assert.False(t, toggleResolved(failures, -1))
	assert.False(t, toggleResolved(failures, 2))
}

func TestHeaderText(t *testing.T) {
	failures := []domain.TestFailure{{Title: "a", Resolved: true}, {Title: "b"}, {Title: "c"}}
	assert.Contains(t, headerText(failures), "Test Failures (3 total, 2 unresolved)")
}

func TestListItemText(t *testing.T) {
	assert.Equal(t, "[yellow]1.[white] logs in", listItemText(domain.TestFailure{Title: "logs in"}, 0))
	assert.Equal(t, "[gray]✔ [yellow]3.[gray] logs in[white]", listItemText(domain.TestFailure{Title: "logs in", Resolved: true}, 2))
	assert.Equal(t, "[yellow]2.[white] Test 2", listItemText(domain.TestFailure{}, 1))
}

func TestFormatFailureDetails(t *testing.T) {
	var stack []string
	for i := 0; i < 12; i++ {
		stack = append(stack, fmt.Sprintf("    at frame%d (spec.js:%d)", i, i))
	}
	failure := domain.TestFailure{
		Title:     "rejects",
		FullTitle: "Login rejects",
		Error:     "expected 401",
		Stack:     strings.Join(stack, "\n"),
	}

	details := formatFailureDetails(failure)
	assert.Contains(t, details, "✖ Test: rejects")
	assert.Contains(t, details, "Full title: Login rejects")
	assert.Contains(t, details, "expected 401")
	assert.Contains(t, details, "  at frame9 (spec.js:9)\n")
	assert.NotContains(t, details, "frame10")
	assert.Contains(t, details, "... and 2 more lines")
}

func TestFormatFailureStats(t *testing.T) {
	stats := formatFailureStats(domain.RunMeta{RunID: "abc", Timestamp: "2026-01-02T03:04:05Z"}, domain.TestFailure{Worker: 3})
	assert.Contains(t, stats, "[yellow]abc[white]")
	assert.Contains(t, stats, "[yellow]3[white]")

	assert.Contains(t, formatFailureStats(domain.RunMeta{}, domain.TestFailure{}), "unknown run")
}
