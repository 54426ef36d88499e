package jsonpath

import "github.com/njchilds90/jsonquery/compiler"

// Option configures a compiled path's evaluation behavior, following the
// functional-options convention used throughout this package.
type Option = compiler.Option

// WithMaxDepth bounds how many levels a `..` descent will walk before
// stopping, guarding against unbounded recursion over deeply nested or
// pathological documents. The default is generous enough for any
// realistically-nested JSON document.
func WithMaxDepth(depth int) Option {
	return compiler.WithMaxDepth(depth)
}

// WithRegexCache caps the number of literal regex patterns a single
// compiled path's filters may embed, counting each occurrence (a repeated
// pattern is not merged with earlier ones); exceeding it is a CompileError
// raised at Compile time rather than a surprise at query time.
func WithRegexCache(n int) Option {
	return compiler.WithRegexCache(n)
}
