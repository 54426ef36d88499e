// Package ast defines the algebraic description of a compiled JSONPath
// query: path segments and filter predicates. It is pure data — no
// evaluation logic lives here, only the shapes the parser produces and the
// compiler consumes.
package ast

import "github.com/njchilds90/jsonquery/value"

// Path is an ordered list of segments, e.g. `$.store.book[*].author`.
type Path struct {
	Segments []Segment
}

// Segment is one step of a path between separators. The concrete types
// below are the only implementations; Segment exists to give the compiler
// a closed sum type to switch over.
type Segment interface {
	segment()
}

// Root is `$`; valid only as the first segment of a top-level path or of a
// `$`-rooted filter sub-path.
type Root struct{}

// Current is `@`; valid only as the first segment inside a filter sub-path.
type Current struct{}

// Field is `.name` or `['name']`.
type Field struct {
	Name string
}

// Fields is `['a','b',...]`, an ordered union of object members.
type Fields struct {
	Names []string
}

// Index is `[n]`.
type Index struct {
	N int
}

// Indices is `[n1,n2,...]`, an ordered union of array indices.
type Indices struct {
	Ns []int
}

// Slice is `[start:end:step]`. Nil fields mean "omitted" and take the
// Python-style slicing default. Step must be non-zero; the parser
// accepts Step == 0 and the compiler rejects it at compile time.
type Slice struct {
	Start *int
	End   *int
	Step  *int
}

// Wildcard is `*` or `[*]`: all children of an array or object.
type Wildcard struct{}

// Descent is `..`: self and all transitive descendants, pre-order.
type Descent struct{}

// DescentField is `..name`, equivalent to Descent followed by Field(name).
type DescentField struct {
	Name string
}

// Filter is `[?(expr)]`.
type Filter struct {
	Expr FilterExpr
}

// Func identifies a supported path function.
type Func int

const (
	// Length computes the length of an array/string, or — when chained
	// directly after a Filter segment — the count of the Filter's
	// matches.
	Length Func = iota
)

// Fn is a function call segment, e.g. `length()`.
type Fn struct {
	Func Func
}

func (Root) segment()         {}
func (Current) segment()      {}
func (Field) segment()        {}
func (Fields) segment()       {}
func (Index) segment()        {}
func (Indices) segment()      {}
func (Slice) segment()        {}
func (Wildcard) segment()     {}
func (Descent) segment()      {}
func (DescentField) segment() {}
func (Filter) segment()       {}
func (Fn) segment()           {}

// FilterExpr is a boolean combination of atoms.
type FilterExpr interface {
	filterExpr()
}

// Or is a short-circuiting `||`.
type Or struct {
	Left, Right FilterExpr
}

// And is a short-circuiting `&&`.
type And struct {
	Left, Right FilterExpr
}

// Not is unary `!`. The grammar is `not_expr = ["!"] atom`: `!` wraps
// the entire atom production that follows it — an existence test, a full
// `operand op operand` comparison, or a `size N` test — rather than binding
// tighter than a trailing comparison operator. `!@.x >= 1` and
// `!(@.x >= 1)` are therefore the same expression.
type Not struct {
	Expr FilterExpr
}

// CompareOp enumerates the relational/set operators usable in a comparison.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
	RegexMatch
	In
	NotIn
	SubsetOf
	AnyOf
	NoneOf
)

// Compare is a two-operand comparison atom: `operand op operand`.
type Compare struct {
	Left  Operand
	Op    CompareOp
	Right Operand
}

// SizeTest is `operand size N`.
type SizeTest struct {
	Operand Operand
	N       int
}

// Existence is a bare operand used as a boolean existence test.
type Existence struct {
	Operand Operand
}

func (Or) filterExpr()        {}
func (And) filterExpr()       {}
func (Not) filterExpr()       {}
func (Compare) filterExpr()   {}
func (SizeTest) filterExpr()  {}
func (Existence) filterExpr() {}

// Operand is either a literal JSON value or a sub-path rooted at `$`/`@`.
type Operand interface {
	operand()
}

// Literal is a JSON scalar or array appearing directly in a filter, e.g.
// `10`, `'Moby Dick'`, `[1,2,3,4]`.
type Literal struct {
	Value value.Value
}

// SubPath is a filter operand rooted at `$` (document root) or `@`
// (current candidate), followed by zero or more segments. Segments[0] is
// always a Root or Current segment, mirroring the top-level Path's
// Segments[0] == Root invariant; the compiler rejects anything else.
type SubPath struct {
	Segments []Segment
}

// FromRoot reports whether this sub-path is rooted at the document root
// ($) as opposed to the current filter candidate (@).
func (p SubPath) FromRoot() bool {
	_, ok := p.Segments[0].(Root)
	return ok
}

func (Literal) operand() {}
func (SubPath) operand() {}
