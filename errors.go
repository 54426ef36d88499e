package jsonpath

import (
	"github.com/pkg/errors"

	"github.com/njchilds90/jsonquery/compiler"
	"github.com/njchilds90/jsonquery/parser"
)

// ParseError reports a syntactic violation found while recognizing a
// JSONPath expression string — an unexpected character, an unterminated
// string literal, a missing closing bracket. Pos is a byte offset into
// the original path string.
type ParseError = parser.ParseError

// CompileError reports a structural problem with an otherwise
// syntactically valid path: `@` used outside a filter, `$` appearing
// past the first segment, a zero slice step, an invalid regex literal,
// or a path whose filters embed more literal regex patterns than
// WithRegexCache allows (each occurrence counts, repeats included).
type CompileError = compiler.CompileError

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsCompileError reports whether err is (or wraps) a CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
