// Package protocol decodes the line-oriented event stream written by the
// managed reporter. Every line is an independent JSON record of the form
// [kind, payload]. Lines that do not decode are dropped.
package protocol

import (
	"bytes"
	"encoding/json"
	"time"
)

// Kind identifies the type of an event record
type Kind string

// Event kinds emitted by the managed reporter
const (
	KindPass     Kind = "pass"
	KindFail     Kind = "fail"
	KindSuiteEnd Kind = "suiteEnd"
)

// Event is a decoded record. Exactly one of Pass, Fail and Suite is set,
// matching Kind.
type Event struct {
	Kind  Kind
	Pass  *Pass
	Fail  *Fail
	Suite *SuiteEnd
}

// Pass is a single passing test
type Pass struct {
	Title     string
	FullTitle string
	Duration  time.Duration
}

// Fail is a single failing test
type Fail struct {
	Title     string
	FullTitle string
	Err       string
	Stack     string
}

// SuiteEnd closes a suite.
// Title is nil when the reporter sent null or omitted the field.
type SuiteEnd struct {
	Title    *string
	Passes   int
	Failures int
	Pending  int
}

type passPayload struct {
	Title     string  `json:"title"`
	FullTitle string  `json:"fullTitle"`
	Duration  float64 `json:"duration"` // milliseconds
}

type failPayload struct {
	Title     string          `json:"title"`
	FullTitle string          `json:"fullTitle"`
	Err       json.RawMessage `json:"err"`
	Stack     string          `json:"stack"`
}

type suiteEndPayload struct {
	Title    *string `json:"title"`
	Passes   int     `json:"passes"`
	Failures int     `json:"failures"`
	Pending  int     `json:"pending"`
}

// Decode parses one line. It reports false for anything that is not a
// well-formed record of a known kind.
func Decode(line []byte) (Event, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '[' {
		return Event{}, false
	}

	var record []json.RawMessage
	if err := json.Unmarshal(line, &record); err != nil || len(record) < 2 {
		return Event{}, false
	}
	var kind Kind
	if err := json.Unmarshal(record[0], &kind); err != nil {
		return Event{}, false
	}

	switch kind {
	case KindPass:
		var p passPayload
		if err := json.Unmarshal(record[1], &p); err != nil {
			return Event{}, false
		}
		return Event{Kind: kind, Pass: &Pass{
			Title:     p.Title,
			FullTitle: p.FullTitle,
			Duration:  time.Duration(p.Duration * float64(time.Millisecond)),
		}}, true
	case KindFail:
		var f failPayload
		if err := json.Unmarshal(record[1], &f); err != nil {
			return Event{}, false
		}
		return Event{Kind: kind, Fail: &Fail{
			Title:     f.Title,
			FullTitle: f.FullTitle,
			Err:       errText(f.Err),
			Stack:     f.Stack,
		}}, true
	case KindSuiteEnd:
		var s suiteEndPayload
		if err := json.Unmarshal(record[1], &s); err != nil {
			return Event{}, false
		}
		return Event{Kind: kind, Suite: &SuiteEnd{
			Title:    s.Title,
			Passes:   s.Passes,
			Failures: s.Failures,
			Pending:  s.Pending,
		}}, true
	default:
		return Event{}, false
	}
}

// errText flattens the err field, which reporters send either as a string
// or as a serialized error object.
func errText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}
