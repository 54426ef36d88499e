package compiler

import (
	"regexp"

	"github.com/pkg/errors"

	"github.com/njchilds90/jsonquery/ast"
	"github.com/njchilds90/jsonquery/value"
)

// filterInstance implements `[?(expr)]`: for each array/object candidate,
// test every child against the compiled predicate and keep the ones that
// match.
type filterInstance struct {
	pred predicate
}

func (f filterInstance) find(e *env, in []MatchRecord) ([]MatchRecord, error) {
	var out []MatchRecord
	for _, rec := range in {
		v, ok := rec.Value()
		if !ok {
			continue
		}
		if err := e.cancelled(); err != nil {
			return nil, err
		}

		if arr, ok := v.Elements(); ok {
			for i, el := range arr {
				matched, err := f.pred.eval(e, el)
				if err != nil {
					return nil, err
				}
				if matched {
					out = append(out, Slice(el, value.Index(recordPath(rec), i)))
				}
			}
			continue
		}
		if obj, ok := v.Fields(); ok {
			for _, k := range obj.Keys() {
				child, _ := obj.Get(k)
				matched, err := f.pred.eval(e, child)
				if err != nil {
					return nil, err
				}
				if matched {
					out = append(out, Slice(child, value.Field(recordPath(rec), k)))
				}
			}
			continue
		}
		// A scalar candidate has no children to filter over.
	}
	return out, nil
}

// predicate is a compiled filter expression: ast.FilterExpr with its
// sub-path operands pre-compiled into instance chains and its regex
// literals pre-compiled, so evaluating a candidate never compiles
// anything itself. Built once in compile.go's compileFilterExpr.
type predicate interface {
	eval(e *env, candidate value.Value) (bool, error)
}

type predOr struct{ left, right predicate }

func (p predOr) eval(e *env, c value.Value) (bool, error) {
	left, err := p.left.eval(e, c)
	if err != nil || left {
		return left, err
	}
	return p.right.eval(e, c)
}

type predAnd struct{ left, right predicate }

func (p predAnd) eval(e *env, c value.Value) (bool, error) {
	left, err := p.left.eval(e, c)
	if err != nil || !left {
		return false, err
	}
	return p.right.eval(e, c)
}

type predNot struct{ inner predicate }

func (p predNot) eval(e *env, c value.Value) (bool, error) {
	ok, err := p.inner.eval(e, c)
	return !ok, err
}

type predExistence struct{ operand compiledOperand }

func (p predExistence) eval(e *env, c value.Value) (bool, error) {
	vals, err := p.operand.resolve(e, c)
	if err != nil {
		return false, err
	}
	return len(vals) > 0, nil
}

type predSizeTest struct {
	operand compiledOperand
	n       int
}

func (p predSizeTest) eval(e *env, c value.Value) (bool, error) {
	vals, err := p.operand.resolve(e, c)
	if err != nil {
		return false, err
	}
	for _, v := range vals {
		if matchesSize(v, p.n) {
			return true, nil
		}
	}
	return false, nil
}

// matchesSize implements `operand size N`. A number (or any other type
// without a length) never satisfies a size test.
func matchesSize(v value.Value, n int) bool {
	l, ok := v.Len()
	return ok && l == n
}

type predCompare struct {
	left, right compiledOperand
	op          ast.CompareOp
	// regex is the precompiled pattern when Op == ast.RegexMatch and the
	// right operand was a literal string; nil otherwise (the right
	// operand is itself a sub-path, so the pattern is only known at
	// evaluation time and is compiled there, uncached).
	regex *regexp.Regexp
}

func (p predCompare) eval(e *env, c value.Value) (bool, error) {
	lefts, err := p.left.resolve(e, c)
	if err != nil {
		return false, err
	}
	rights, err := p.right.resolve(e, c)
	if err != nil {
		return false, err
	}
	for _, l := range lefts {
		for _, r := range rights {
			ok, err := p.compare(l, r)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func (p predCompare) compare(l, r value.Value) (bool, error) {
	switch p.op {
	case ast.Eq:
		return value.Equal(l, r), nil
	case ast.Ne:
		return !value.Equal(l, r), nil
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return compareOrdered(p.op, l, r), nil
	case ast.RegexMatch:
		return p.matchRegex(l, r)
	case ast.In:
		return memberOf(l, r), nil
	case ast.NotIn:
		return !memberOf(l, r), nil
	case ast.SubsetOf:
		return isSubsetOf(l, r), nil
	case ast.AnyOf:
		return intersects(l, r), nil
	case ast.NoneOf:
		return !intersects(l, r), nil
	default:
		return false, errors.Errorf("compiler: unhandled compare op %v", p.op)
	}
}

func (p predCompare) matchRegex(l, r value.Value) (bool, error) {
	s, ok := l.Str()
	if !ok {
		return false, nil
	}
	if p.regex != nil {
		return p.regex.MatchString(s), nil
	}
	pattern, ok := r.Str()
	if !ok {
		return false, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, errors.Wrapf(err, "compiler: invalid regex %q", pattern)
	}
	return re.MatchString(s), nil
}

func compareOrdered(op ast.CompareOp, l, r value.Value) bool {
	if ln, ok := l.NumberVal(); ok {
		rn, ok := r.NumberVal()
		if !ok {
			return false
		}
		switch op {
		case ast.Lt:
			return ln.Less(rn)
		case ast.Le:
			return ln.Less(rn) || ln.Equal(rn)
		case ast.Gt:
			return rn.Less(ln)
		case ast.Ge:
			return rn.Less(ln) || ln.Equal(rn)
		}
		return false
	}
	if ls, ok := l.Str(); ok {
		rs, ok := r.Str()
		if !ok {
			return false
		}
		switch op {
		case ast.Lt:
			return ls < rs
		case ast.Le:
			return ls <= rs
		case ast.Gt:
			return ls > rs
		case ast.Ge:
			return ls >= rs
		}
		return false
	}
	if lb, ok := l.Bool(); ok {
		rb, ok := r.Bool()
		if !ok {
			return false
		}
		// false < true, as the only two values of an otherwise unordered type.
		switch op {
		case ast.Lt:
			return !lb && rb
		case ast.Le:
			return !lb || rb
		case ast.Gt:
			return lb && !rb
		case ast.Ge:
			return lb || !rb
		}
	}
	return false
}

func memberOf(needle, haystack value.Value) bool {
	arr, ok := haystack.Elements()
	if !ok {
		return false
	}
	for _, el := range arr {
		if value.Equal(needle, el) {
			return true
		}
	}
	return false
}

func isSubsetOf(left, right value.Value) bool {
	larr, ok := left.Elements()
	if !ok {
		return false
	}
	rarr, ok := right.Elements()
	if !ok {
		return false
	}
	for _, l := range larr {
		found := false
		for _, r := range rarr {
			if value.Equal(l, r) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func intersects(left, right value.Value) bool {
	larr, ok := left.Elements()
	if !ok {
		return false
	}
	rarr, ok := right.Elements()
	if !ok {
		return false
	}
	for _, l := range larr {
		for _, r := range rarr {
			if value.Equal(l, r) {
				return true
			}
		}
	}
	return false
}

// compiledOperand is ast.Operand with its sub-path, if any, pre-compiled
// into an instance chain.
type compiledOperand struct {
	isLiteral bool
	literal   value.Value
	instances []instance
	fromRoot  bool
}

// resolve evaluates the operand to zero or more values: a literal is
// exactly one value; a sub-path may yield any number (including zero),
// rooted either at the document root or at the filter's current candidate.
func (o compiledOperand) resolve(e *env, candidate value.Value) ([]value.Value, error) {
	if o.isLiteral {
		return []value.Value{o.literal}, nil
	}
	root := candidate
	if o.fromRoot {
		root = e.root
	}
	records, err := runInstances(e, o.instances, root)
	if err != nil {
		return nil, err
	}
	return ValuesOf(records), nil
}

func runInstances(e *env, instances []instance, seed value.Value) ([]MatchRecord, error) {
	in := []MatchRecord{Slice(seed, value.RootPath)}
	var err error
	for _, inst := range instances {
		in, err = inst.find(e, in)
		if err != nil {
			return nil, err
		}
	}
	return in, nil
}
