package compiler

import "github.com/njchilds90/jsonquery/value"

// MatchRecord is the tagged union a compiled path produces per candidate:
// a match can be a slice of the source document (Slice, carrying both the
// borrowed value and its canonical path), a value synthesized by the
// engine itself with no corresponding document location (NewValue — e.g.
// a `length()` result), or the absence of a match (NoValue).
type MatchRecord struct {
	kind matchKind
	val  value.Value
	path string
}

type matchKind int

const (
	kindNoValue matchKind = iota
	kindSlice
	kindNewValue
)

// Slice builds a match referencing a location within the source document.
func Slice(v value.Value, path string) MatchRecord {
	return MatchRecord{kind: kindSlice, val: v, path: path}
}

// NewValue builds a match for a value the engine computed itself (it has
// no path within the source document, e.g. the result of `length()`).
func NewValue(v value.Value) MatchRecord {
	return MatchRecord{kind: kindNewValue, val: v}
}

// NoValueRecord is the record for "no match here".
var NoValueRecord = MatchRecord{kind: kindNoValue}

// HasValue reports whether this record carries a value (Slice or
// NewValue), as opposed to NoValue.
func (m MatchRecord) HasValue() bool { return m.kind != kindNoValue }

// Value returns the carried value and true, or the zero Value and false
// for a NoValue record.
func (m MatchRecord) Value() (value.Value, bool) {
	if m.kind == kindNoValue {
		return value.Value{}, false
	}
	return m.val, true
}

// Path returns the record's canonical path and true if it is a Slice
// (a reference into the source document); NewValue and NoValue records
// have no document path, so the second return is false.
func (m MatchRecord) Path() (string, bool) {
	if m.kind != kindSlice {
		return "", false
	}
	return m.path, true
}

// IsSlice reports whether m references a location in the source document.
func (m MatchRecord) IsSlice() bool { return m.kind == kindSlice }

// ValuesOf projects a slice of records down to the values of those that
// HasValue, dropping NoValue entries.
func ValuesOf(records []MatchRecord) []value.Value {
	out := make([]value.Value, 0, len(records))
	for _, r := range records {
		if v, ok := r.Value(); ok {
			out = append(out, v)
		}
	}
	return out
}

// PathsOf projects a slice of records down to the canonical paths of those
// that are Slice records, dropping NewValue and NoValue entries.
func PathsOf(records []MatchRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if p, ok := r.Path(); ok {
			out = append(out, p)
		}
	}
	return out
}

// collapseEmpty implements the find_slice collapsing rule: an empty result
// set collapses to a single NoValue record rather than an empty slice, so
// downstream consumers (notably Find, which maps a lone NoValue to JSON
// null) can distinguish "queried and found nothing" from "never ran".
func collapseEmpty(records []MatchRecord) []MatchRecord {
	if len(records) == 0 {
		return []MatchRecord{NoValueRecord}
	}
	return records
}
