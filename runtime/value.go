package eruntime

import "strconv"

type ValueKind int

const (
	IntKind ValueKind = iota
	StringKind
)

// Value is what a variable cell holds. Scripts only compute integers; text
// arrives from INPUT and master data and converts on demand.
type Value struct {
	kind ValueKind
	i    int64
	s    string
}

func Int(v int64) Value {
	return Value{kind: IntKind, i: v}
}

func Str(v string) Value {
	return Value{kind: StringKind, s: v}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// Int64 returns the integer value; text that is not a decimal integer is 0.
func (v Value) Int64() int64 {
	if v.kind == IntKind {
		return v.i
	}
	if n, ok := parseIntInput(v.s); ok {
		return n
	}
	return 0
}

func (v Value) String() string {
	if v.kind == StringKind {
		return v.s
	}
	return strconv.FormatInt(v.i, 10)
}

func (v Value) Truthy() bool {
	if v.kind == StringKind {
		return v.s != ""
	}
	return v.i != 0
}

func boolValue(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}
