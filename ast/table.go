package ast

import (
	"sort"
	"strings"
)

// FunctionTable maps an uppercase function name to every declaration of it,
// in declaration order until Reorder is called.
type FunctionTable struct {
	decls map[string][]*Function
	order []string
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{decls: map[string][]*Function{}}
}

// Add appends fn under its name. Earlier declarations are kept.
func (t *FunctionTable) Add(fn *Function) {
	name := strings.ToUpper(fn.Name)
	fn.Name = name
	if _, ok := t.decls[name]; !ok {
		t.order = append(t.order, name)
	}
	t.decls[name] = append(t.decls[name], fn)
}

func (t *FunctionTable) Lookup(name string) []*Function {
	if t == nil {
		return nil
	}
	return t.decls[strings.ToUpper(name)]
}

func (t *FunctionTable) Has(name string) bool {
	return len(t.Lookup(name)) > 0
}

// Last returns the declaration a plain CALL dispatches to.
func (t *FunctionTable) Last(name string) *Function {
	fns := t.Lookup(name)
	if len(fns) == 0 {
		return nil
	}
	return fns[len(fns)-1]
}

// Names returns function names in first-declaration order.
func (t *FunctionTable) Names() []string {
	return append([]string(nil), t.order...)
}

func (t *FunctionTable) Len() int {
	return len(t.order)
}

// Reorder stable-sorts every declaration list: PRI first, LAST last,
// everything else keeps its relative order.
func (t *FunctionTable) Reorder() {
	for _, fns := range t.decls {
		sort.SliceStable(fns, func(i, j int) bool {
			return priorityRank(fns[i].Priority) < priorityRank(fns[j].Priority)
		})
	}
}

func priorityRank(tag string) int {
	switch strings.ToUpper(tag) {
	case "PRI":
		return 0
	case "LAST":
		return 2
	default:
		return 1
	}
}
