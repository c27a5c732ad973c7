package ast

// Inspect visits the statements of t depth first in source order. depth is
// 0 for t's own statements and grows by one inside each IF branch, ELSE and
// REPEAT body. Returning false from fn skips the statement's children.
func Inspect(t *Thunk, fn func(s Statement, depth int) bool) {
	inspect(t, 0, fn)
}

func inspect(t *Thunk, depth int, fn func(Statement, int) bool) {
	if t == nil {
		return
	}
	for _, s := range t.Statements {
		if !fn(s, depth) {
			continue
		}
		switch s := s.(type) {
		case IfStmt:
			for _, br := range s.Branches {
				inspect(br.Body, depth+1, fn)
			}
			inspect(s.Else, depth+1, fn)
		case RepeatStmt:
			inspect(s.Body, depth+1, fn)
		}
	}
}
