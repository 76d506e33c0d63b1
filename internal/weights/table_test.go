package weights

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTable_Lookup(t *testing.T) {
	table := NewTable()
	table.Set("login.feature", Record{Weight: 4})
	table.Set("admin/login.feature", Record{Weight: 9})
	table.Set("cart.feature", Record{Weight: 0})

	tests := []struct {
		name     string
		path     string
		expected float64
	}{
		{name: "no match uses default", path: "cypress/integration/search.feature", expected: 1},
		{name: "single suffix match", path: "cypress/integration/user/login.feature", expected: 4},
		{name: "last overlapping key wins", path: "cypress/integration/admin/login.feature", expected: 9},
		{name: "zero weight is kept", path: "cypress/integration/cart.feature", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.Lookup(tt.path))
		})
	}
}

func TestTable_LookupOrderMatters(t *testing.T) {
	table := NewTable()
	table.Set("admin/login.feature", Record{Weight: 9})
	table.Set("login.feature", Record{Weight: 4})

	assert.Equal(t, float64(4), table.Lookup("cypress/integration/admin/login.feature"))
}

func TestTable_LookupNil(t *testing.T) {
	var table *Table
	assert.Equal(t, float64(1), table.Lookup("a.feature"))
}

func TestTable_SetKeepsPosition(t *testing.T) {
	table := NewTable()
	table.Set("a", Record{Weight: 1})
	table.Set("b", Record{Weight: 2})
	table.Set("a", Record{Weight: 3})

	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Key)
	assert.Equal(t, float64(3), entries[0].Record.Weight)
	assert.Equal(t, "b", entries[1].Key)
}

func TestTable_UnmarshalJSON(t *testing.T) {
	data := []byte(`{"z.feature":{"time":1200,"weight":7},"a.feature":{"time":300,"weight":2}}`)

	table := NewTable()
	require.NoError(t, json.Unmarshal(data, table))

	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "z.feature", entries[0].Key)
	assert.Equal(t, 1200*time.Millisecond, entries[0].Record.Time)
	assert.Equal(t, float64(7), entries[0].Record.Weight)
	assert.Equal(t, "a.feature", entries[1].Key)

	out, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))
	assert.Equal(t, string(data), string(out), "key order must survive a rewrite")
}

func TestTable_UnmarshalJSONFractionalTime(t *testing.T) {
	data := []byte(`{"a.feature":{"time":1234.5,"weight":7},"b.feature":{"time":10,"weight":3}}`)

	table := NewTable()
	require.NoError(t, json.Unmarshal(data, table))

	rec, ok := table.Get("a.feature")
	require.True(t, ok)
	assert.Equal(t, 1234500*time.Microsecond, rec.Time)
	assert.Equal(t, float64(7), table.Lookup("cypress/integration/a.feature"))
	assert.Equal(t, float64(3), table.Lookup("cypress/integration/b.feature"))

	out, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"a.feature":{"time":1234,"weight":7},"b.feature":{"time":10,"weight":3}}`, string(out))
}

func TestTable_UnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "array", data: `[1,2]`},
		{name: "truncated", data: `{"a.feature":{"time":1`},
		{name: "bad record", data: `{"a.feature":"heavy"}`},
		{name: "negative weight", data: `{"a.feature":{"time":1,"weight":-2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable()
			assert.Error(t, json.Unmarshal([]byte(tt.data), table))
		})
	}
}

func TestTable_MarshalYAML(t *testing.T) {
	table := NewTable()
	table.Set("b.feature", Record{Time: 2500 * time.Millisecond, Weight: 12})
	table.Set("a.feature", Record{Time: 0, Weight: 0})

	out, err := yaml.Marshal(table)
	require.NoError(t, err)

	expected := "b.feature:\n    time: 2500\n    weight: 12\na.feature:\n    time: 0\n    weight: 0\n"
	assert.Equal(t, expected, string(out))
}
