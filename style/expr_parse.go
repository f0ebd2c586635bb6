package style

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Infix predicate grammar:
//
//	or      = and { "||" and }
//	and     = unary { "&&" unary }
//	unary   = "!" unary | "(" or ")" | operand [ cmp operand ]
//	operand = ident | number | string | true | false | null
//
// An identifier on the left of a comparison (or standing alone) is an attribute lookup; "$zoom"
// and "$level" read the zoom level. A bare word on the right of a comparison is a string literal,
// so "kind == road" and "kind == 'road'" are the same predicate.

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(src[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated string at %d", ErrInvalidExpr, i)
			}
			toks = append(toks, token{kind: tokString, text: src[i+1 : i+1+end]})
			i += end + 2
		case strings.ContainsRune("=!<>&|", rune(c)):
			op := src[i : i+1]
			if i+1 < len(src) {
				if two := src[i : i+2]; two == "==" || two == "!=" || two == "<=" || two == ">=" || two == "&&" || two == "||" {
					op = two
				}
			}
			if op == "=" || op == "&" || op == "|" {
				return nil, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidExpr, op, i)
			}
			toks = append(toks, token{kind: tokOp, text: op})
			i += len(op)
		case c == '-' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(src) && (src[j] == '.' || (src[j] >= '0' && src[j] <= '9')) {
				j++
			}
			n, err := strconv.ParseFloat(src[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidExpr, src[i:j])
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:j], num: n})
			i = j
		case isIdentRune(rune(c)):
			j := i + 1
			for j < len(src) && (isIdentRune(rune(src[j])) || unicode.IsDigit(rune(src[j])) || src[j] == '.' || src[j] == ':' || src[j] == '-') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidExpr, c, i)
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

type infixParser struct {
	toks []token
	pos  int
}

func parseInfix(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty predicate", ErrInvalidExpr)
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &infixParser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("%w: trailing %q in %q", ErrInvalidExpr, p.peek().text, src)
	}
	return e, nil
}

func (p *infixParser) peek() token { return p.toks[p.pos] }

func (p *infixParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *infixParser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := anyExpr{left}
	for p.peek().kind == tokOp && p.peek().text == "||" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return terms, nil
}

func (p *infixParser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	terms := allExpr{left}
	for p.peek().kind == tokOp && p.peek().text == "&&" {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return left, nil
	}
	return terms, nil
}

func (p *infixParser) parseUnary() (Expr, error) {
	t := p.peek()
	switch {
	case t.kind == tokOp && t.text == "!":
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{e}, nil
	case t.kind == tokLParen:
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, fmt.Errorf("%w: missing )", ErrInvalidExpr)
		}
		return e, nil
	}

	left, err := p.parseOperand(false)
	if err != nil {
		return nil, err
	}
	op := p.peek()
	if op.kind != tokOp || !isComparison(op.text) {
		return left, nil
	}
	p.next()
	right, err := p.parseOperand(true)
	if err != nil {
		return nil, err
	}
	return compareExpr{op: op.text, left: left, right: right}, nil
}

func (p *infixParser) parseOperand(rhs bool) (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return literalExpr{t.num}, nil
	case tokString:
		return literalExpr{t.text}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return literalExpr{true}, nil
		case "false":
			return literalExpr{false}, nil
		case "null", "nil":
			return literalExpr{nil}, nil
		case ZoomKey, LevelKey:
			return zoomExpr{}, nil
		}
		if rhs {
			return literalExpr{t.text}, nil
		}
		return getExpr{t.text}, nil
	case tokEOF:
		return nil, fmt.Errorf("%w: unexpected end of predicate", ErrInvalidExpr)
	}
	return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidExpr, t.text)
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}
