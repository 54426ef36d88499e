package compiler

import (
	"context"

	"github.com/njchilds90/jsonquery/value"
)

// defaultMaxDepth bounds recursive descent (`..`), guarding against
// pathological or cyclic-looking documents.
const defaultMaxDepth = 128

// defaultRegexCacheLimit caps how many literal regex patterns a single
// compiled path may embed across all of its filters. Every `~=` literal
// counts, so a pattern repeated in several places counts once per use.
const defaultRegexCacheLimit = 64

// Option configures a CompiledPath at Compile time, using the usual
// functional-options convention.
type Option func(*env)

// WithMaxDepth bounds how many levels a `..` descent will walk before
// stopping, preventing unbounded recursion over deeply nested documents.
func WithMaxDepth(n int) Option {
	return func(e *env) { e.maxDepth = n }
}

// WithRegexCache caps the number of literal regex patterns that may be
// compiled for a single path's filters (repeated patterns are not merged;
// each occurrence counts); compiling beyond the cap is a
// CompileError rather than a silent truncation.
func WithRegexCache(n int) Option {
	return func(e *env) { e.regexCacheLimit = n }
}

// env carries per-Find configuration and cancellation state through the
// instance tree. It is rebuilt fresh for each Find call; env.ctx is
// checked cooperatively during recursive descent via a non-blocking select.
type env struct {
	ctx             context.Context
	root            value.Value
	maxDepth        int
	regexCacheLimit int
}

func newEnv(ctx context.Context, root value.Value, opts []Option) *env {
	e := &env{ctx: ctx, root: root, maxDepth: defaultMaxDepth, regexCacheLimit: defaultRegexCacheLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// cancelled reports whether the Find's context has been cancelled, without
// blocking; callers check this at recursion points (descent, filter loops
// over large arrays) to fail fast on a cancelled query.
func (e *env) cancelled() error {
	if e.ctx == nil {
		return nil
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	default:
		return nil
	}
}
