package ast

import (
	"strconv"
	"strings"
)

// FormatExpr renders e fully parenthesised, for tooling and diagnostics.
func FormatExpr(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch ex := e.(type) {
	case IntLit:
		b.WriteString(strconv.FormatInt(ex.Value, 10))
	case VarRef:
		b.WriteString(ex.Name)
		for _, idx := range ex.Index {
			b.WriteByte(':')
			if ref, ok := idx.(VarRef); ok && len(ref.Index) > 0 {
				b.WriteByte('(')
				writeExpr(b, idx)
				b.WriteByte(')')
				continue
			}
			writeExpr(b, idx)
		}
	case BinaryExpr:
		b.WriteByte('(')
		writeExpr(b, ex.Left)
		b.WriteByte(' ')
		b.WriteString(ex.Op)
		b.WriteByte(' ')
		writeExpr(b, ex.Right)
		b.WriteByte(')')
	case nil:
		b.WriteString("<nil>")
	default:
		b.WriteString("<?>")
	}
}
