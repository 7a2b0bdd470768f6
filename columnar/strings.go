package columnar

import (
	"errors"
	"fmt"
)

// ErrInvalidStringTable is returned when restoring a table whose values are not
// a valid interning result.
var ErrInvalidStringTable = errors.New("columnar: invalid string table")

// StringTable is an append-only pool that maps strings to stable handles.
// Handle 0 is always the empty string.
type StringTable struct {
	values []string
	index  map[string]uint32
}

// NewStringTable creates an empty table.
func NewStringTable() *StringTable {
	return &StringTable{
		values: []string{""},
		index:  map[string]uint32{"": 0},
	}
}

// StringTableFrom restores a table from Values of a previously built table.
func StringTableFrom(values []string) (*StringTable, error) {
	if len(values) == 0 || values[0] != "" {
		return nil, fmt.Errorf("%w: handle 0 must be the empty string", ErrInvalidStringTable)
	}
	t := &StringTable{
		values: values,
		index:  make(map[string]uint32, len(values)),
	}
	for i, s := range values {
		if _, dup := t.index[s]; dup {
			return nil, fmt.Errorf("%w: duplicate value at handle %d", ErrInvalidStringTable, i)
		}
		t.index[s] = uint32(i)
	}
	return t, nil
}

// Intern returns the handle of s, adding it if necessary.
func (t *StringTable) Intern(s string) uint32 {
	if h, ok := t.index[s]; ok {
		return h
	}
	h := uint32(len(t.values))
	t.values = append(t.values, s)
	t.index[s] = h
	return h
}

// Lookup returns the handle of s without adding it.
func (t *StringTable) Lookup(s string) (uint32, bool) {
	h, ok := t.index[s]
	return h, ok
}

// Get returns the string for handle h, or "" for an unknown handle.
func (t *StringTable) Get(h uint32) string {
	if int(h) >= len(t.values) {
		return ""
	}
	return t.values[h]
}

// Len returns the number of distinct strings, including the empty string.
func (t *StringTable) Len() int {
	return len(t.values)
}

// Values returns all strings in handle order. The slice must not be modified.
func (t *StringTable) Values() []string {
	return t.values
}
