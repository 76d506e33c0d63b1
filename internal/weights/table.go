// Package weights holds the persisted spec weight table and its JSON codec.
//
// The table keeps the key order of the file it was read from. Lookups are
// suffix based and the last matching key wins, so callers that store
// overlapping keys (e.g. "login.feature" and "admin/login.feature") get the
// one that appears later in the file.
package weights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"cypar/internal/domain"
)

// Record is the stored timing and weight of one spec key
type Record struct {
	Time   time.Duration
	Weight float64
}

// recordJSON is the on-disk shape; time is in milliseconds. Files written by
// other tools may carry fractional milliseconds, so time is read as a float
// and always written back as an integer.
type recordJSON struct {
	Time   float64 `json:"time"`
	Weight float64 `json:"weight"`
}

// Entry is a key and its record
type Entry struct {
	Key    string
	Record Record
}

// Table is an insertion-ordered mapping from spec key suffix to Record
type Table struct {
	index   map[string]int
	entries []Entry
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Set adds or replaces a record. Replacing keeps the original position.
func (t *Table) Set(key string, record Record) {
	if i, ok := t.index[key]; ok {
		t.entries[i].Record = record
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry{Key: key, Record: record})
}

// Get returns the record stored under exactly key
func (t *Table) Get(key string) (Record, bool) {
	i, ok := t.index[key]
	if !ok {
		return Record{}, false
	}
	return t.entries[i].Record, true
}

// Entries returns the entries in table order
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of keys
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the weight of the last key that is a suffix of specPath,
// or domain.DefaultWeight when nothing matches.
func (t *Table) Lookup(specPath string) float64 {
	weight := float64(domain.DefaultWeight)
	if t == nil {
		return weight
	}
	for _, e := range t.entries {
		if strings.HasSuffix(specPath, e.Key) {
			weight = e.Record.Weight
		}
	}
	return weight
}

// MarshalJSON writes the table as a JSON object in table order
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(toJSON(e.Record))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the order of its keys.
// Duplicate keys keep the position of the first occurrence and the value of
// the last one.
func (t *Table) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("weights: expected JSON object, got %v", tok)
	}

	table := NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("weights: expected key, got %v", tok)
		}
		var rec recordJSON
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("weights: record %q: %w", key, err)
		}
		if rec.Weight < 0 {
			return fmt.Errorf("weights: record %q: negative weight %v", key, rec.Weight)
		}
		table.Set(key, fromJSON(rec))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = *table
	return nil
}

// MarshalYAML exports the table as an ordered YAML mapping
func (t *Table) MarshalYAML() (interface{}, error) {
	return yamlNode(t), nil
}

func toJSON(r Record) recordJSON {
	return recordJSON{Time: float64(r.Time.Milliseconds()), Weight: r.Weight}
}

func fromJSON(r recordJSON) Record {
	return Record{Time: time.Duration(math.Round(r.Time * float64(time.Millisecond))), Weight: r.Weight}
}
