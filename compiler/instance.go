package compiler

import (
	"github.com/njchilds90/jsonquery/value"
)

// instance is one compiled step of a path: it consumes the candidate set
// produced by the previous step and produces the candidate set for the
// next. The chain for a whole Path is
// just []instance; Compile walks the AST once to build it.
type instance interface {
	find(e *env, in []MatchRecord) ([]MatchRecord, error)
}

// fieldInstance implements `.name` / `['name']`: for each object candidate,
// emit its member if present.
type fieldInstance struct{ name string }

func (f fieldInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		obj, ok := v.Fields()
		if !ok {
			continue
		}
		child, ok := obj.Get(f.name)
		if !ok {
			continue
		}
		out = append(out, Slice(child, value.Field(recordPath(rec), f.name)))
	}
	return out, nil
}

// fieldsInstance implements `['a','b',...]`: an ordered union of members,
// preserving the selector's own key order (not the object's).
type fieldsInstance struct{ names []string }

func (f fieldsInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		obj, ok := v.Fields()
		if !ok {
			continue
		}
		for _, name := range f.names {
			child, ok := obj.Get(name)
			if !ok {
				continue
			}
			out = append(out, Slice(child, value.Field(recordPath(rec), name)))
		}
	}
	return out, nil
}

// indexInstance implements `[n]`. A bare index selector does not wrap
// negative values the way a slice does; a negative or out-of-range index
// simply matches nothing.
type indexInstance struct{ n int }

func (ix indexInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		arr, ok := v.Elements()
		if !ok || ix.n < 0 || ix.n >= len(arr) {
			continue
		}
		out = append(out, Slice(arr[ix.n], value.Index(recordPath(rec), ix.n)))
	}
	return out, nil
}

// indicesInstance implements `[n1,n2,...]`.
type indicesInstance struct{ ns []int }

func (ixs indicesInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		arr, ok := v.Elements()
		if !ok {
			continue
		}
		for _, n := range ixs.ns {
			if n < 0 || n >= len(arr) {
				continue
			}
			out = append(out, Slice(arr[n], value.Index(recordPath(rec), n)))
		}
	}
	return out, nil
}

// sliceInstance implements `[start:end:step]` with Python-style defaults
// and negative-index wrapping.
type sliceInstance struct{ start, end, step *int }

func (s sliceInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		arr, ok := v.Elements()
		if !ok {
			continue
		}
		for _, idx := range resolveSlice(len(arr), s.start, s.end, s.step) {
			out = append(out, Slice(arr[idx], value.Index(recordPath(rec), idx)))
		}
	}
	return out, nil
}

// resolveSlice computes the concrete, in-bounds indices a Python-style
// slice selects over a sequence of length n.
func resolveSlice(n int, start, end, step *int) []int {
	st := 1
	if step != nil {
		st = *step
	}
	if st == 0 {
		return nil
	}

	var lo, hi int
	if st > 0 {
		lo, hi = 0, n
	} else {
		lo, hi = n-1, -1
	}
	if start != nil {
		lo = normalizeIndex(*start, n)
		if st < 0 && *start < -n {
			lo = -1
		} else if st < 0 && lo >= n {
			lo = n - 1
		}
	}
	if end != nil {
		hi = normalizeIndex(*end, n)
		if st < 0 && *end < -n {
			hi = -1
		}
	}

	var out []int
	if st > 0 {
		for i := lo; i < hi && i < n; i += st {
			if i >= 0 {
				out = append(out, i)
			}
		}
	} else {
		for i := lo; i > hi; i += st {
			if i >= 0 && i < n {
				out = append(out, i)
			}
		}
	}
	return out
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// wildcardInstance implements `*` / `[*]`: every child of an array or
// object candidate, array elements in order then object members in
// insertion order.
type wildcardInstance struct{}

func (wildcardInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		if arr, ok := v.Elements(); ok {
			for i, el := range arr {
				out = append(out, Slice(el, value.Index(recordPath(rec), i)))
			}
			continue
		}
		if obj, ok := v.Fields(); ok {
			for _, k := range obj.Keys() {
				child, _ := obj.Get(k)
				out = append(out, Slice(child, value.Field(recordPath(rec), k)))
			}
		}
	}
	return out, nil
}

// descentInstance implements `..`: self plus all transitive descendants,
// visited pre-order, bounded by env.maxDepth.
type descentInstance struct{}

func (descentInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		if err := descendInto(e, v, recordPath(rec), 0, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func descendInto(e *env, v value.Value, path string, depth int, out *[]MatchRecord) error {
	if err := e.cancelled(); err != nil {
		return err
	}
	*out = append(*out, Slice(v, path))
	if depth >= e.maxDepth {
		return nil
	}
	if arr, ok := v.Elements(); ok {
		for i, el := range arr {
			if err := descendInto(e, el, value.Index(path, i), depth+1, out); err != nil {
				return err
			}
		}
		return nil
	}
	if obj, ok := v.Fields(); ok {
		for _, k := range obj.Keys() {
			child, _ := obj.Get(k)
			if err := descendInto(e, child, value.Field(path, k), depth+1, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// lengthInstance implements `length()`. In collection mode (the segment
// immediately preceded by a Filter) it collapses the whole candidate set to
// a single count; otherwise it maps each candidate to its own length,
// per-element — String/Array map to their own length, everything else
// yields NoValue rather than a real null.
type lengthInstance struct{ collectionMode bool }

func (l lengthInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	if l.collectionMode {
		count := 0
		for _, rec := range in {
			if rec.HasValue() {
				count++
			}
		}
		return []MatchRecord{NewValue(value.IntValue(int64(count)))}, nil
	}

	out := make([]MatchRecord, 0, len(in))
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			out = append(out, NoValueRecord)
			continue
		}
		switch v.Kind() {
		case value.String, value.Array:
			n, _ := v.Len()
			out = append(out, NewValue(value.IntValue(int64(n))))
		default:
			out = append(out, NoValueRecord)
		}
	}
	return out, nil
}

// recordPath returns a record's canonical path, or the document root path
// when it has none (a NewValue record being fed into a selector that needs
// a path prefix) — this only affects the path text attached to a
// synthesized child, never a real Slice result's own path.
func recordPath(rec MatchRecord) string {
	if p, ok := rec.Path(); ok {
		return p
	}
	return value.RootPath
}
