// Package parser turns a JSONPath expression string into an ast.Path:
// path segments, bracket selectors, and the filter-expression sub-grammar
// nested inside `?(...)`.
package parser

import (
	"strconv"
	"strings"

	"github.com/njchilds90/jsonquery/ast"
	"github.com/njchilds90/jsonquery/value"
)

// ParseError reports a syntactic violation found while recognizing a
// JSONPath expression. Pos is a byte offset into the original path string.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return "jsonpath: parse error at byte " + strconv.Itoa(e.Pos) + ": " + e.Message
}

// Parse compiles a JSONPath expression's grammar into an AST. It does not
// perform any semantic validation (e.g. slice step != 0) — that is the
// compiler's job, surfaced as a CompileError.
func Parse(src string) (*ast.Path, *ParseError) {
	p, err := newTokenParser(src)
	if err != nil {
		return nil, err
	}

	if p.peek().kind != tokDollar {
		return nil, &ParseError{Pos: p.peek().pos, Message: "path must start with '$'"}
	}
	p.advance()

	segments := []ast.Segment{ast.Root{}}
	for !p.atEOF() {
		more, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		segments = append(segments, more...)
	}
	return &ast.Path{Segments: segments}, nil
}

// tokenParser walks a pre-scanned token slice with one-token lookahead.
type tokenParser struct {
	toks []token
	pos  int
}

func newTokenParser(src string) (*tokenParser, *ParseError) {
	sc := newScanner(src)
	var toks []token
	for {
		t, err := sc.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	return &tokenParser{toks: toks}, nil
}

func (p *tokenParser) peek() token { return p.toks[p.pos] }

func (p *tokenParser) peekAt(n int) token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *tokenParser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *tokenParser) atEOF() bool { return p.peek().kind == tokEOF }

func (p *tokenParser) expect(k tokenKind, what string) (token, *ParseError) {
	if p.peek().kind != k {
		return token{}, &ParseError{Pos: p.peek().pos, Message: "expected " + what}
	}
	return p.advance(), nil
}

// parseSegment parses a single grammar `segment` production, possibly
// returning more than one ast.Segment (the ".. *" case decomposes into a
// Descent followed by a Wildcard).
func (p *tokenParser) parseSegment() ([]ast.Segment, *ParseError) {
	switch p.peek().kind {
	case tokDot:
		p.advance()
		return p.parseDotSegment()
	case tokDotDot:
		p.advance()
		return p.parseDescentSegment()
	case tokLBracket:
		p.advance()
		seg, err := p.parseBracketSelector()
		if err != nil {
			return nil, err
		}
		return []ast.Segment{seg}, nil
	default:
		return nil, &ParseError{Pos: p.peek().pos, Message: "expected '.', '..' or '[' "}
	}
}

func (p *tokenParser) parseDotSegment() ([]ast.Segment, *ParseError) {
	t := p.peek()
	switch t.kind {
	case tokStar:
		p.advance()
		return []ast.Segment{ast.Wildcard{}}, nil
	case tokIdent:
		if t.lit == "length" && p.peekAt(1).kind == tokLParen && p.peekAt(2).kind == tokRParen {
			p.advance()
			p.advance()
			p.advance()
			return []ast.Segment{ast.Fn{Func: ast.Length}}, nil
		}
		p.advance()
		return []ast.Segment{ast.Field{Name: t.lit}}, nil
	default:
		return nil, &ParseError{Pos: t.pos, Message: "expected field name, '*' or 'length()' after '.'"}
	}
}

func (p *tokenParser) parseDescentSegment() ([]ast.Segment, *ParseError) {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		p.advance()
		return []ast.Segment{ast.DescentField{Name: t.lit}}, nil
	case tokStar:
		p.advance()
		return []ast.Segment{ast.Descent{}, ast.Wildcard{}}, nil
	case tokLBracket:
		// Leave the bracket for the next loop iteration: ".. [selector]"
		// is Descent followed by whatever the bracket segment produces.
		return []ast.Segment{ast.Descent{}}, nil
	default:
		return nil, &ParseError{Pos: t.pos, Message: "expected identifier, '*' or '[' after '..'"}
	}
}

// parseBracketSelector parses the inside of "[...]" (the `selector`
// production) and consumes the closing ']'.
func (p *tokenParser) parseBracketSelector() (ast.Segment, *ParseError) {
	t := p.peek()
	switch {
	case t.kind == tokQuestion:
		p.advance()
		if _, err := p.expect(tokLParen, "'(' after '?'"); err != nil {
			return nil, err
		}
		expr, err := p.parseFilterExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')' to close filter expression"); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket, "']' to close filter selector"); err != nil {
			return nil, err
		}
		return ast.Filter{Expr: expr}, nil

	case t.kind == tokStar:
		p.advance()
		if _, err := p.expect(tokRBracket, "']' to close wildcard selector"); err != nil {
			return nil, err
		}
		return ast.Wildcard{}, nil

	case t.kind == tokString:
		names := []string{t.lit}
		p.advance()
		for p.peek().kind == tokComma {
			p.advance()
			nt, err := p.expect(tokString, "quoted key after ','")
			if err != nil {
				return nil, err
			}
			names = append(names, nt.lit)
		}
		if _, err := p.expect(tokRBracket, "']' to close key selector"); err != nil {
			return nil, err
		}
		if len(names) == 1 {
			return ast.Field{Name: names[0]}, nil
		}
		return ast.Fields{Names: names}, nil

	case t.kind == tokColon:
		return p.parseSliceFrom(nil)

	case t.kind == tokNumber:
		n, err := parseIntLiteral(t.lit)
		if err != nil {
			return nil, &ParseError{Pos: t.pos, Message: err.Error()}
		}
		p.advance()
		if p.peek().kind == tokColon {
			return p.parseSliceFrom(&n)
		}
		if p.peek().kind == tokComma {
			ns := []int{n}
			for p.peek().kind == tokComma {
				p.advance()
				nt, err := p.expect(tokNumber, "index after ','")
				if err != nil {
					return nil, err
				}
				v, err := parseIntLiteral(nt.lit)
				if err != nil {
					return nil, &ParseError{Pos: nt.pos, Message: err.Error()}
				}
				ns = append(ns, v)
			}
			if _, err := p.expect(tokRBracket, "']' to close index selector"); err != nil {
				return nil, err
			}
			return ast.Indices{Ns: ns}, nil
		}
		if _, err := p.expect(tokRBracket, "']' to close index selector"); err != nil {
			return nil, err
		}
		return ast.Index{N: n}, nil

	default:
		return nil, &ParseError{Pos: t.pos, Message: "expected selector inside '[...]'"}
	}
}

func (p *tokenParser) parseSliceFrom(start *int) (ast.Segment, *ParseError) {
	if _, err := p.expect(tokColon, "':' in slice selector"); err != nil {
		return nil, err
	}
	var end, step *int
	if p.peek().kind == tokNumber {
		n, err := parseIntLiteral(p.peek().lit)
		if err != nil {
			return nil, &ParseError{Pos: p.peek().pos, Message: err.Error()}
		}
		p.advance()
		end = &n
	}
	if p.peek().kind == tokColon {
		p.advance()
		if p.peek().kind == tokNumber {
			n, err := parseIntLiteral(p.peek().lit)
			if err != nil {
				return nil, &ParseError{Pos: p.peek().pos, Message: err.Error()}
			}
			p.advance()
			step = &n
		}
	}
	if _, err := p.expect(tokRBracket, "']' to close slice selector"); err != nil {
		return nil, err
	}
	return ast.Slice{Start: start, End: end, Step: step}, nil
}

func parseIntLiteral(lit string) (int, error) {
	n, err := strconv.Atoi(lit)
	if err != nil {
		return 0, &ParseError{Message: "invalid integer literal '" + lit + "'"}
	}
	return n, nil
}

// ---- filter expression grammar ----

func (p *tokenParser) parseFilterExpr() (ast.FilterExpr, *ParseError) {
	return p.parseOrExpr()
}

func (p *tokenParser) parseOrExpr() (ast.FilterExpr, *ParseError) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOrOr {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = ast.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *tokenParser) parseAndExpr() (ast.FilterExpr, *ParseError) {
	left, err := p.parseNotExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAndAnd {
		p.advance()
		right, err := p.parseNotExpr()
		if err != nil {
			return nil, err
		}
		left = ast.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *tokenParser) parseNotExpr() (ast.FilterExpr, *ParseError) {
	if p.peek().kind == tokBang {
		p.advance()
		inner, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return ast.Not{Expr: inner}, nil
	}
	return p.parseAtom()
}

func (p *tokenParser) parseAtom() (ast.FilterExpr, *ParseError) {
	if p.peek().kind == tokLParen {
		p.advance()
		inner, err := p.parseFilterExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')' to close parenthesized expression"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if p.peek().kind == tokIdent && p.peek().lit == "size" {
		p.advance()
		nt, err := p.expect(tokNumber, "integer after 'size'")
		if err != nil {
			return nil, err
		}
		n, convErr := parseIntLiteral(nt.lit)
		if convErr != nil {
			return nil, &ParseError{Pos: nt.pos, Message: convErr.Error()}
		}
		return ast.SizeTest{Operand: operand, N: n}, nil
	}

	if op, ok := p.tryParseCompareOp(); ok {
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return ast.Compare{Left: operand, Op: op, Right: right}, nil
	}

	return ast.Existence{Operand: operand}, nil
}

func (p *tokenParser) tryParseCompareOp() (ast.CompareOp, bool) {
	t := p.peek()
	switch t.kind {
	case tokEq:
		p.advance()
		return ast.Eq, true
	case tokNe:
		p.advance()
		return ast.Ne, true
	case tokLe:
		p.advance()
		return ast.Le, true
	case tokGe:
		p.advance()
		return ast.Ge, true
	case tokLt:
		p.advance()
		return ast.Lt, true
	case tokGt:
		p.advance()
		return ast.Gt, true
	case tokRegexMatch:
		p.advance()
		return ast.RegexMatch, true
	case tokIdent:
		switch t.lit {
		case "in":
			p.advance()
			return ast.In, true
		case "nin":
			p.advance()
			return ast.NotIn, true
		case "subsetOf":
			p.advance()
			return ast.SubsetOf, true
		case "anyOf":
			p.advance()
			return ast.AnyOf, true
		case "noneOf":
			p.advance()
			return ast.NoneOf, true
		}
	}
	return 0, false
}

func (p *tokenParser) parseOperand() (ast.Operand, *ParseError) {
	t := p.peek()
	switch t.kind {
	case tokDollar:
		p.advance()
		segs := []ast.Segment{ast.Root{}}
		for p.startsSegment() {
			more, err := p.parseSegment()
			if err != nil {
				return nil, err
			}
			segs = append(segs, more...)
		}
		return ast.SubPath{Segments: segs}, nil
	case tokAt:
		p.advance()
		segs := []ast.Segment{ast.Current{}}
		for p.startsSegment() {
			more, err := p.parseSegment()
			if err != nil {
				return nil, err
			}
			segs = append(segs, more...)
		}
		return ast.SubPath{Segments: segs}, nil
	default:
		v, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		return ast.Literal{Value: v}, nil
	}
}

// startsSegment reports whether the next token can begin a path segment,
// used to greedily consume a sub-path operand without a trailing marker.
func (p *tokenParser) startsSegment() bool {
	switch p.peek().kind {
	case tokDot, tokDotDot, tokLBracket:
		return true
	default:
		return false
	}
}

func (p *tokenParser) parseLiteralValue() (value.Value, *ParseError) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.advance()
		return value.StringValue(t.lit), nil
	case tokNumber:
		p.advance()
		return numberLiteral(t.lit), nil
	case tokIdent:
		switch t.lit {
		case "true":
			p.advance()
			return value.BoolValue(true), nil
		case "false":
			p.advance()
			return value.BoolValue(false), nil
		case "null":
			p.advance()
			return value.NullValue, nil
		}
		return value.Value{}, &ParseError{Pos: t.pos, Message: "expected literal, got identifier '" + t.lit + "'"}
	case tokLBracket:
		p.advance()
		var elems []value.Value
		if p.peek().kind != tokRBracket {
			for {
				v, err := p.parseLiteralValue()
				if err != nil {
					return value.Value{}, err
				}
				elems = append(elems, v)
				if p.peek().kind != tokComma {
					break
				}
				p.advance()
			}
		}
		if _, err := p.expect(tokRBracket, "']' to close literal array"); err != nil {
			return value.Value{}, err
		}
		return value.ArrayValue(elems), nil
	default:
		return value.Value{}, &ParseError{Pos: t.pos, Message: "expected a literal value"}
	}
}

func numberLiteral(lit string) value.Value {
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return value.IntValue(i)
		}
	}
	f, _ := strconv.ParseFloat(lit, 64)
	return value.FloatValue(f)
}
