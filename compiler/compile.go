// Package compiler turns a parsed ast.Path into a chain of path
// instances plus, for each embedded filter, a compiled predicate
// tree. Compile never runs the query; it only validates structure
// and precomputes everything evaluation shouldn't pay for twice (regex
// patterns, segment dispatch).
package compiler

import (
	"context"
	"regexp"
	"strconv"

	"github.com/pkg/errors"

	"github.com/njchilds90/jsonquery/ast"
	"github.com/njchilds90/jsonquery/value"
)

// CompileError reports a structural problem with a parsed path that only
// becomes visible once segments are examined together — `@` outside a
// filter, `$` past the first segment, a zero slice step, a regex pattern
// that fails to compile, or a path that over-runs WithRegexCache's budget.
type CompileError struct {
	Message string
	Cause   error
}

func (e *CompileError) Error() string {
	if e.Cause != nil {
		return "jsonpath: compile error: " + e.Message + ": " + e.Cause.Error()
	}
	return "jsonpath: compile error: " + e.Message
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *CompileError) Unwrap() error { return e.Cause }

func compileErrorf(format string, args ...interface{}) *CompileError {
	return &CompileError{Message: errors.Errorf(format, args...).Error()}
}

// CompiledPath is a path ready to be evaluated against one or more
// documents. It is safe for concurrent use by multiple goroutines, since
// Find builds a fresh env per call.
type CompiledPath struct {
	instances []instance
	opts      []Option
}

// Compile validates and compiles a parsed path. The path must start with
// ast.Root, matching the parser's own invariant.
func Compile(path *ast.Path, opts ...Option) (*CompiledPath, error) {
	if len(path.Segments) == 0 {
		return nil, &CompileError{Message: "path has no segments"}
	}
	if _, ok := path.Segments[0].(ast.Root); !ok {
		return nil, &CompileError{Message: "path must start with '$'"}
	}

	ce := newEnv(context.Background(), value.Value{}, opts)
	regexBudget := 0
	instances, err := compileSegments(path.Segments[1:], ce, &regexBudget)
	if err != nil {
		return nil, err
	}
	return &CompiledPath{instances: instances, opts: opts}, nil
}

// Find evaluates the compiled path against root, returning every matching
// record in document order. ctx is checked cooperatively during recursive
// descent and large filter scans.
func (c *CompiledPath) Find(ctx context.Context, root value.Value) ([]MatchRecord, error) {
	e := newEnv(ctx, root, c.opts)
	return runInstances(e, c.instances, root)
}

// FindSlice is Find with an empty-result collapsing rule applied: zero
// matches becomes a single NoValue record rather than an empty slice.
func (c *CompiledPath) FindSlice(ctx context.Context, root value.Value) ([]MatchRecord, error) {
	records, err := c.Find(ctx, root)
	if err != nil {
		return nil, err
	}
	return collapseEmpty(records), nil
}

// compileSegments compiles a sequence of segments that follow a Root or
// Current marker (the marker itself is never passed in) into an instance
// chain. regexBudget is shared across an entire Compile call so
// WithRegexCache bounds the whole path, not just one filter.
func compileSegments(segs []ast.Segment, ce *env, regexBudget *int) ([]instance, error) {
	var out []instance
	for i, seg := range segs {
		switch s := seg.(type) {
		case ast.Root:
			return nil, &CompileError{Message: "'$' is only valid as the first segment of a path"}
		case ast.Current:
			return nil, &CompileError{Message: "'@' is only valid as the first segment of a filter sub-path"}
		case ast.Field:
			out = append(out, fieldInstance{name: s.Name})
		case ast.Fields:
			out = append(out, fieldsInstance{names: s.Names})
		case ast.Index:
			out = append(out, indexInstance{n: s.N})
		case ast.Indices:
			out = append(out, indicesInstance{ns: s.Ns})
		case ast.Slice:
			if s.Step != nil && *s.Step == 0 {
				return nil, &CompileError{Message: "slice step must not be zero"}
			}
			out = append(out, sliceInstance{start: s.Start, end: s.End, step: s.Step})
		case ast.Wildcard:
			out = append(out, wildcardInstance{})
		case ast.Descent:
			out = append(out, descentInstance{})
		case ast.DescentField:
			out = append(out, descentInstance{}, fieldInstance{name: s.Name})
		case ast.Filter:
			pred, err := compileFilterExpr(s.Expr, ce, regexBudget)
			if err != nil {
				return nil, err
			}
			out = append(out, filterInstance{pred: pred})
		case ast.Fn:
			switch s.Func {
			case ast.Length:
				collectionMode := i > 0 && isFilter(segs[i-1])
				out = append(out, lengthInstance{collectionMode: collectionMode})
			default:
				return nil, compileErrorf("unsupported function %v", s.Func)
			}
		default:
			return nil, compileErrorf("unsupported segment %T", seg)
		}
	}
	return out, nil
}

func isFilter(seg ast.Segment) bool {
	_, ok := seg.(ast.Filter)
	return ok
}

func compileFilterExpr(expr ast.FilterExpr, ce *env, regexBudget *int) (predicate, error) {
	switch n := expr.(type) {
	case ast.Or:
		left, err := compileFilterExpr(n.Left, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		right, err := compileFilterExpr(n.Right, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		return predOr{left: left, right: right}, nil

	case ast.And:
		left, err := compileFilterExpr(n.Left, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		right, err := compileFilterExpr(n.Right, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		return predAnd{left: left, right: right}, nil

	case ast.Not:
		inner, err := compileFilterExpr(n.Expr, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		return predNot{inner: inner}, nil

	case ast.Existence:
		operand, err := compileOperand(n.Operand, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		return predExistence{operand: operand}, nil

	case ast.SizeTest:
		operand, err := compileOperand(n.Operand, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		return predSizeTest{operand: operand, n: n.N}, nil

	case ast.Compare:
		left, err := compileOperand(n.Left, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		right, err := compileOperand(n.Right, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		re, err := compileComparisonRegex(n, ce, regexBudget)
		if err != nil {
			return nil, err
		}
		return predCompare{left: left, right: right, op: n.Op, regex: re}, nil

	default:
		return nil, compileErrorf("unsupported filter expression %T", expr)
	}
}

// compileComparisonRegex precompiles a RegexMatch's pattern when the right
// operand is a literal string, counting it against the path's shared
// regex budget (WithRegexCache). A non-literal right operand (a sub-path)
// has no pattern known until evaluation and is left uncompiled here.
func compileComparisonRegex(n ast.Compare, ce *env, regexBudget *int) (*regexp.Regexp, error) {
	if n.Op != ast.RegexMatch {
		return nil, nil
	}
	lit, ok := n.Right.(ast.Literal)
	if !ok {
		return nil, nil
	}
	pattern, ok := lit.Value.Str()
	if !ok {
		return nil, nil
	}
	*regexBudget++
	if *regexBudget > ce.regexCacheLimit {
		return nil, &CompileError{Message: "path embeds more regex patterns than WithRegexCache allows"}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &CompileError{Message: "invalid regex pattern " + strconv.Quote(pattern), Cause: err}
	}
	return re, nil
}

func compileOperand(op ast.Operand, ce *env, regexBudget *int) (compiledOperand, error) {
	switch o := op.(type) {
	case ast.Literal:
		return compiledOperand{isLiteral: true, literal: o.Value}, nil
	case ast.SubPath:
		if len(o.Segments) == 0 {
			return compiledOperand{}, &CompileError{Message: "sub-path operand has no segments"}
		}
		fromRoot := o.FromRoot()
		switch o.Segments[0].(type) {
		case ast.Root, ast.Current:
			// valid
		default:
			return compiledOperand{}, &CompileError{Message: "sub-path operand must start with '$' or '@'"}
		}
		instances, err := compileSegments(o.Segments[1:], ce, regexBudget)
		if err != nil {
			return compiledOperand{}, err
		}
		return compiledOperand{instances: instances, fromRoot: fromRoot}, nil
	default:
		return compiledOperand{}, compileErrorf("unsupported operand %T", op)
	}
}
