package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/gosuda/erakit/ast"
)

func TestParseExprPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 % 3", "((8 / 4) % 3)"},
		{"X || Y && Z", "(X || (Y && Z))"},
		{"A & B | C", "((A & B) | C)"},
		{"A | B && C", "((A | B) && C)"},
		{"1 == 2 < 3", "((1 == 2) < 3)"},
		{"A + 1 >= B * 2", "((A + 1) >= (B * 2))"},
		{"3 - -5", "(3 - -5)"},
		{"1 -2", "(1 - 2)"},
		{"a:b + 1", "(A:B + 1)"},
		{"A:(B+1)", "A:(B + 1)"},
		{"A:B:C * 2", "(A:B:C * 2)"},
		{"１＋２", "(1 + 2)"},
		{"((7))", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if got := ast.FormatExpr(expr); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseExprFlattensSubscriptChain(t *testing.T) {
	expr, err := ParseExpr("A:1:2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	ref, ok := expr.(ast.VarRef)
	if !ok {
		t.Fatalf("expected VarRef, got %T", expr)
	}
	if ref.Name != "A" || len(ref.Index) != 2 {
		t.Fatalf("unexpected chain: %+v", ref)
	}
	if ref.Index[0] != (ast.IntLit{Value: 1}) || ref.Index[1] != (ast.IntLit{Value: 2}) {
		t.Fatalf("unexpected subscripts: %+v", ref.Index)
	}
}

func TestParseExprSignedLiteral(t *testing.T) {
	expr, err := ParseExpr("-42")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if expr != (ast.IntLit{Value: -42}) {
		t.Fatalf("unexpected literal: %#v", expr)
	}
}

func TestParseExprErrorsNameRemainder(t *testing.T) {
	tests := []struct {
		src       string
		remainder string
		msg       string
	}{
		{"(1 + 2", "(1 + 2", "missing )"},
		{"2 * (1 + 2", "(1 + 2", "missing )"},
		{"1 + 2)", ")", "unexpected token"},
		{"1 2", "2", "unexpected token"},
		{"1 $ 2", "$ 2", "unexpected character"},
		{"1 +", "", "unexpected end of expression"},
		{"- 5", "- 5", "expected integer literal or identifier"},
		{"1:2", "1:2", "subscript base"},
		{"", "", "empty expression"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseExpr(tt.src)
			if err == nil {
				t.Fatal("expected parse error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Remainder != tt.remainder {
				t.Fatalf("remainder = %q, want %q", pe.Remainder, tt.remainder)
			}
			if !strings.Contains(pe.Msg, tt.msg) {
				t.Fatalf("message %q does not mention %q", pe.Msg, tt.msg)
			}
		})
	}
}

func TestParseExprDepthLimit(t *testing.T) {
	src := strings.Repeat("(", maxExprDepth+10) + "1" + strings.Repeat(")", maxExprDepth+10)
	_, err := ParseExpr(src)
	if err == nil || !strings.Contains(err.Error(), "too deep") {
		t.Fatalf("expected depth error, got %v", err)
	}
}

func TestParseLValue(t *testing.T) {
	ref, err := ParseLValue("flag:1:X")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ref.Name != "FLAG" || len(ref.Index) != 2 {
		t.Fatalf("unexpected lvalue: %+v", ref)
	}
	if !reflect.DeepEqual(ref.Index[1], ast.VarRef{Name: "X"}) {
		t.Fatalf("unexpected subscript: %#v", ref.Index[1])
	}

	for _, bad := range []string{"1", "A + 1", "A:", "(A)"} {
		if _, err := ParseLValue(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
