package domain

// TestFailure represents a failed test reported by a worker
type TestFailure struct {
	Title     string `json:"title"`
	FullTitle string `json:"full_title,omitempty"`
	Error     string `json:"error"`
	Stack     string `json:"stack,omitempty"`
	Worker    int    `json:"worker"`
	Resolved  bool   `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}

// RunMeta contains metadata about a managed run
type RunMeta struct {
	RunID           string  `json:"run_id"`
	Specs           int     `json:"specs"`
	Workers         int     `json:"workers"`
	Suites          int     `json:"suites"`
	Tests           int     `json:"tests"`
	Passes          int     `json:"passes"`
	Failures        int     `json:"failures"`
	Pending         int     `json:"pending"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the complete content of the results file
type RunOutput struct {
	Meta    RunMeta       `json:"meta"`
	Details []TestFailure `json:"details"`
}
