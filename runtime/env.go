package eruntime

import (
	"slices"
	"strings"
)

// Cell is one variable slot. It carries a scalar and, once subscripted, a
// child cell per key. The two sides never interfere: X and X:3 are separate
// storage.
type Cell struct {
	value    Value
	children map[int64]*Cell
}

func (c *Cell) Value() Value {
	return c.value
}

func (c *Cell) child(key int64) *Cell {
	if c.children == nil {
		c.children = map[int64]*Cell{}
	}
	ch := c.children[key]
	if ch == nil {
		ch = &Cell{value: Int(0)}
		c.children[key] = ch
	}
	return ch
}

// Keys returns the subscripts that exist directly under c, ascending.
func (c *Cell) Keys() []int64 {
	keys := make([]int64, 0, len(c.children))
	for k := range c.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Env is the variable environment shared by one VM run. Every lookup
// creates what it touches, so reads of unset names or keys yield 0.
type Env struct {
	vars map[string]*Cell
}

func NewEnv() *Env {
	return &Env{vars: map[string]*Cell{}}
}

func (e *Env) cell(name string, path []int64) *Cell {
	name = strings.ToUpper(name)
	c := e.vars[name]
	if c == nil {
		c = &Cell{value: Int(0)}
		e.vars[name] = c
	}
	for _, key := range path {
		c = c.child(key)
	}
	return c
}

func (e *Env) Get(name string, path ...int64) Value {
	return e.cell(name, path).value
}

func (e *Env) Set(name string, v Value, path ...int64) {
	e.cell(name, path).value = v
}

// Keys lists the subscripts set under name:path, ascending.
func (e *Env) Keys(name string, path ...int64) []int64 {
	return e.cell(name, path).Keys()
}

// Names lists every variable created so far, sorted.
func (e *Env) Names() []string {
	out := make([]string, 0, len(e.vars))
	for name := range e.vars {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
