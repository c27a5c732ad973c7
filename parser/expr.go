package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosuda/erakit/ast"
	"golang.org/x/text/width"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokIdent
	tokLParen
	tokRParen
	tokColon
	tokOp
)

type token struct {
	kind tokenKind
	lit  string
	pos  int // byte offset into the normalized source
}

const maxExprDepth = 256

// ParseExpr parses a complete expression. Text left over after the
// expression is an error, never silently dropped.
func ParseExpr(raw string) (ast.Expr, error) {
	p, err := newExprParser(raw)
	if err != nil {
		return nil, err
	}
	expr, err := p.parse(1)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, exprError("unexpected token "+strconv.Quote(p.peek().lit), p.remainder())
	}
	return expr, nil
}

// ParseLValue parses an assignment target: an identifier followed by zero or
// more :subscript operands.
func ParseLValue(raw string) (ast.VarRef, error) {
	p, err := newExprParser(raw)
	if err != nil {
		return ast.VarRef{}, err
	}
	t := p.next()
	if t.kind != tokIdent {
		return ast.VarRef{}, exprError("assignment target must start with a variable name", p.src[t.pos:])
	}
	ref := ast.VarRef{Name: strings.ToUpper(t.lit)}
	for p.peek().kind == tokColon {
		p.next()
		idx, err := p.parseAtom()
		if err != nil {
			return ast.VarRef{}, err
		}
		ref.Index = append(ref.Index, idx)
	}
	if p.peek().kind != tokEOF {
		return ast.VarRef{}, exprError("invalid assignment target", p.remainder())
	}
	return ref, nil
}

func newExprParser(raw string) (*exprParser, error) {
	src := normalizeExprSyntax(strings.TrimSpace(raw))
	if src == "" {
		return nil, exprError("empty expression", "")
	}
	toks, err := tokenizeExpr(src)
	if err != nil {
		return nil, err
	}
	return &exprParser{src: src, tokens: toks}, nil
}

// normalizeExprSyntax folds full-width ASCII (IME digits, operators and the
// ideographic space) to its narrow form.
func normalizeExprSyntax(raw string) string {
	if raw == "" {
		return raw
	}
	return width.Narrow.String(raw)
}

type exprParser struct {
	src    string
	tokens []token
	pos    int
	depth  int
}

func (p *exprParser) peek() token {
	if p.pos >= len(p.tokens) {
		return token{kind: tokEOF, pos: len(p.src)}
	}
	return p.tokens[p.pos]
}

func (p *exprParser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *exprParser) remainder() string {
	return p.src[p.peek().pos:]
}

func (p *exprParser) parse(minPrec int) (ast.Expr, error) {
	p.depth++
	if p.depth > maxExprDepth {
		return nil, exprError("expression nesting too deep", p.remainder())
	}
	defer func() { p.depth-- }()

	left, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			break
		}
		prec := opPrecedence(tok.lit)
		if prec < minPrec {
			break
		}
		op := p.next().lit
		right, err := p.parse(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseChain parses the subscript level. A:B:C is read right-recursively as
// A:(B:C) and then flattened to the single chain [A, B, C].
func (p *exprParser) parseChain() (ast.Expr, error) {
	start := p.peek().pos
	tree, err := p.parseSubscript()
	if err != nil {
		return nil, err
	}
	operands := flattenChain(tree)
	if len(operands) == 1 {
		return operands[0], nil
	}
	base, ok := operands[0].(ast.VarRef)
	if !ok || len(base.Index) > 0 {
		return nil, exprError("subscript base must be a variable name", p.src[start:])
	}
	return ast.VarRef{Name: base.Name, Index: operands[1:]}, nil
}

func (p *exprParser) parseSubscript() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokColon {
		return left, nil
	}
	p.next()
	right, err := p.parseSubscript()
	if err != nil {
		return nil, err
	}
	return ast.BinaryExpr{Op: ":", Left: left, Right: right}, nil
}

func flattenChain(e ast.Expr) []ast.Expr {
	out := []ast.Expr{}
	for {
		bin, ok := e.(ast.BinaryExpr)
		if !ok || bin.Op != ":" {
			return append(out, e)
		}
		out = append(out, bin.Left)
		e = bin.Right
	}
}

func (p *exprParser) parseAtom() (ast.Expr, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		return parseIntLit(t.lit, p.src[t.pos:])
	case tokOp:
		// Only literals carry a sign: -5 but not -X.
		if t.lit == "-" || t.lit == "+" {
			n := p.peek()
			if n.kind == tokInt && n.pos == t.pos+1 {
				p.next()
				return parseIntLit(t.lit+n.lit, p.src[t.pos:])
			}
		}
	case tokIdent:
		return ast.VarRef{Name: strings.ToUpper(t.lit)}, nil
	case tokLParen:
		e, err := p.parse(1)
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, exprError("missing )", p.src[t.pos:])
		}
		p.next()
		return e, nil
	case tokEOF:
		return nil, exprError("unexpected end of expression", p.src[t.pos:])
	}
	return nil, exprError("expected integer literal or identifier", p.src[t.pos:])
}

func parseIntLit(lit, remainder string) (ast.Expr, error) {
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, exprError("invalid integer "+strconv.Quote(lit), remainder)
	}
	return ast.IntLit{Value: v}, nil
}

func opPrecedence(op string) int {
	switch op {
	case "||":
		return 1
	case "&&":
		return 2
	case "|":
		return 3
	case "&":
		return 4
	case "<", "<=", ">", ">=", "==", "!=":
		return 5
	case "+", "-":
		return 6
	case "*", "/", "%":
		return 7
	default:
		return 0
	}
}

func tokenizeExpr(src string) ([]token, error) {
	toks := make([]token, 0, len(src)/2+1)
	for i := 0; i < len(src); {
		ch, size := utf8.DecodeRuneInString(src[i:])
		if unicode.IsSpace(ch) {
			i += size
			continue
		}
		if ch >= '0' && ch <= '9' {
			j := i + 1
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			toks = append(toks, token{kind: tokInt, lit: src[i:j], pos: i})
			i = j
			continue
		}
		if isIdentStart(ch) {
			j := i + size
			for j < len(src) {
				r, n := utf8.DecodeRuneInString(src[j:])
				if !isIdentPart(r) {
					break
				}
				j += n
			}
			toks = append(toks, token{kind: tokIdent, lit: src[i:j], pos: i})
			i = j
			continue
		}
		switch ch {
		case '(':
			toks = append(toks, token{kind: tokLParen, lit: "(", pos: i})
			i++
			continue
		case ')':
			toks = append(toks, token{kind: tokRParen, lit: ")", pos: i})
			i++
			continue
		case ':':
			toks = append(toks, token{kind: tokColon, lit: ":", pos: i})
			i++
			continue
		}
		if i+1 < len(src) {
			switch two := src[i : i+2]; two {
			case "<=", ">=", "==", "!=", "&&", "||":
				toks = append(toks, token{kind: tokOp, lit: two, pos: i})
				i += 2
				continue
			}
		}
		switch ch {
		case '+', '-', '*', '/', '%', '<', '>', '&', '|':
			toks = append(toks, token{kind: tokOp, lit: string(ch), pos: i})
			i++
		default:
			return nil, exprError("unexpected character "+strconv.QuoteRune(ch), src[i:])
		}
	}
	return toks, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
