// Package jsonpath provides a complete JSONPath query engine for Go,
// operating over an order-preserving JSON document model.
//
// JSONPath is a query language for JSON, similar to XPath for XML. This
// package implements path selection (field/index/slice/wildcard/recursive
// descent) plus a filter-expression sub-language (`[?(...)]`) with
// comparison, regex and set operators.
//
// # Basic Usage
//
//	doc, err := value.FromJSON([]byte(`{"store":{"book":[{"title":"Go Programming","price":29.99}]}}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	titles, err := jsonpath.Find(doc, "$.store.book[*].title")
//
// # AI Agent Usage
//
// This package is designed to be safe for use in AI agent pipelines:
//   - All operations are deterministic
//   - No global state
//   - Structured error types (ParseError, CompileError)
//   - context.Context support for cancellation
package jsonpath

import (
	"context"
	"fmt"

	"github.com/njchilds90/jsonquery/compiler"
	"github.com/njchilds90/jsonquery/parser"
	"github.com/njchilds90/jsonquery/value"
)

// MatchRecord is a single result from FindSlice: either a reference into
// the queried document (with its canonical path) or a value the engine
// synthesized itself (e.g. a `length()` result), or the absence of a
// match. See compiler.MatchRecord for its projection methods.
type MatchRecord = compiler.MatchRecord

// CompiledPath is a parsed, validated JSONPath expression ready to be
// evaluated against any number of documents. It is safe for concurrent
// use by multiple goroutines.
//
// Compile it once and reuse it when the same path will be applied to many
// documents:
//
//	p, err := jsonpath.Compile("$.store.book[*].title")
//	titles1, _ := p.Find(doc1)
//	titles2, _ := p.Find(doc2)
type CompiledPath struct {
	raw      string
	compiled *compiler.CompiledPath
}

// String returns the original path expression.
func (p *CompiledPath) String() string { return p.raw }

// Compile parses and validates a JSONPath expression, returning a
// CompiledPath for repeated evaluation.
func Compile(path string, opts ...Option) (*CompiledPath, error) {
	parsed, perr := parser.Parse(path)
	if perr != nil {
		return nil, perr
	}
	compiled, cerr := compiler.Compile(parsed, opts...)
	if cerr != nil {
		return nil, cerr
	}
	return &CompiledPath{raw: path, compiled: compiled}, nil
}

// MustCompile compiles a JSONPath expression and panics if it is invalid.
// Use only for compile-time-constant paths.
func MustCompile(path string, opts ...Option) *CompiledPath {
	cp, err := Compile(path, opts...)
	if err != nil {
		panic(fmt.Sprintf("jsonpath.MustCompile: %v", err))
	}
	return cp
}

// Find evaluates the compiled path against doc and returns the matched
// values in document order: a query that matches nothing yields a single
// JSON null rather than an empty slice (see FindSlice for the underlying
// MatchRecord form). Because of that collapse, Find cannot tell "no
// match" apart from "one match whose value is itself JSON null" — both
// come back as a one-element []value.Value{value.NullValue}. Use
// FindSlice when that distinction matters: its MatchRecord.HasValue()
// is false for a NoValue record and true for a real null-valued Slice
// or NewValue record.
func (p *CompiledPath) Find(doc value.Value) ([]value.Value, error) {
	return p.FindContext(context.Background(), doc)
}

// FindContext is Find with context support for cancellation.
func (p *CompiledPath) FindContext(ctx context.Context, doc value.Value) ([]value.Value, error) {
	records, err := p.compiled.FindSlice(ctx, doc)
	if err != nil {
		return nil, err
	}
	return valuesFromSlice(records), nil
}

// FindSlice evaluates the compiled path and returns every MatchRecord,
// preserving the Slice/NewValue/NoValue distinction. An empty result
// collapses to a single NoValue record rather than an empty slice.
func (p *CompiledPath) FindSlice(doc value.Value) ([]MatchRecord, error) {
	return p.FindSliceContext(context.Background(), doc)
}

// FindSliceContext is FindSlice with context support for cancellation.
func (p *CompiledPath) FindSliceContext(ctx context.Context, doc value.Value) ([]MatchRecord, error) {
	return p.compiled.FindSlice(ctx, doc)
}

// FindAsPath evaluates the compiled path and returns the canonical path
// string of every Slice match, dropping NewValue and NoValue entries.
func (p *CompiledPath) FindAsPath(doc value.Value) ([]string, error) {
	return p.FindAsPathContext(context.Background(), doc)
}

// FindAsPathContext is FindAsPath with context support for cancellation.
func (p *CompiledPath) FindAsPathContext(ctx context.Context, doc value.Value) ([]string, error) {
	records, err := p.compiled.FindSlice(ctx, doc)
	if err != nil {
		return nil, err
	}
	return compiler.PathsOf(records), nil
}

// valuesFromSlice is the `find` projection: every record contributes a
// value, with a NoValue record mapping to JSON null rather than being
// dropped (unlike compiler.ValuesOf, which is used internally to resolve
// filter operands and drops NoValue entries instead). This mapping is
// lossy: a genuine Slice/NewValue record whose value happens to be JSON
// null produces the exact same value.NullValue as a NoValue record does,
// so this projection alone cannot be used to recover whether a match
// occurred at all. Callers that need to tell the two apart must work
// from the MatchRecord directly (FindSlice) instead of from []value.Value.
func valuesFromSlice(records []MatchRecord) []value.Value {
	out := make([]value.Value, 0, len(records))
	for _, r := range records {
		if v, ok := r.Value(); ok {
			out = append(out, v)
		} else {
			out = append(out, value.NullValue)
		}
	}
	return out
}

// Query parses path, compiles it, and evaluates it against doc in one
// call. Prefer Compile when the same path will be reused across many
// documents.
func Query(doc value.Value, path string, opts ...Option) ([]value.Value, error) {
	return QueryContext(context.Background(), doc, path, opts...)
}

// QueryContext is Query with context support for cancellation.
func QueryContext(ctx context.Context, doc value.Value, path string, opts ...Option) ([]value.Value, error) {
	cp, err := Compile(path, opts...)
	if err != nil {
		return nil, err
	}
	return cp.FindContext(ctx, doc)
}

// MustQuery is Query, panicking on error. Use only for compile-time
// constant paths against trusted documents.
func MustQuery(doc value.Value, path string, opts ...Option) []value.Value {
	results, err := Query(doc, path, opts...)
	if err != nil {
		panic(fmt.Sprintf("jsonpath.MustQuery: %v", err))
	}
	return results
}

// Find parses path, compiles it, and evaluates it against doc, returning
// just the matched values. It is the one-call convenience form of
// CompiledPath.Find.
func Find(doc value.Value, path string, opts ...Option) ([]value.Value, error) {
	return Query(doc, path, opts...)
}

// FindSlice parses path, compiles it, and evaluates it against doc,
// returning the MatchRecord set. As with CompiledPath.FindSlice, an empty
// result collapses to a single NoValue record.
func FindSlice(doc value.Value, path string, opts ...Option) ([]MatchRecord, error) {
	cp, err := Compile(path, opts...)
	if err != nil {
		return nil, err
	}
	return cp.FindSlice(doc)
}

// FindAsPath parses path, compiles it, and evaluates it against doc,
// returning the canonical path string of every match.
func FindAsPath(doc value.Value, path string, opts ...Option) ([]string, error) {
	cp, err := Compile(path, opts...)
	if err != nil {
		return nil, err
	}
	return cp.FindAsPath(doc)
}
