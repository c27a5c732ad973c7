package eruntime

import (
	"fmt"
	"strings"

	"github.com/gosuda/erakit/ast"
	"github.com/gosuda/erakit/parser"
)

func (vm *VM) evalExpr(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case ast.IntLit:
		return Int(ex.Value), nil
	case ast.VarRef:
		path, err := vm.evalIndex(ex.Index)
		if err != nil {
			return Value{}, err
		}
		return vm.env.Get(ex.Name, path...), nil
	case ast.BinaryExpr:
		switch ex.Op {
		case "&&":
			left, err := vm.evalExpr(ex.Left)
			if err != nil {
				return Value{}, err
			}
			if !left.Truthy() {
				return Int(0), nil
			}
			right, err := vm.evalExpr(ex.Right)
			if err != nil {
				return Value{}, err
			}
			return boolValue(right.Truthy()), nil
		case "||":
			left, err := vm.evalExpr(ex.Left)
			if err != nil {
				return Value{}, err
			}
			if left.Truthy() {
				return Int(1), nil
			}
			right, err := vm.evalExpr(ex.Right)
			if err != nil {
				return Value{}, err
			}
			return boolValue(right.Truthy()), nil
		default:
			left, err := vm.evalExpr(ex.Left)
			if err != nil {
				return Value{}, err
			}
			right, err := vm.evalExpr(ex.Right)
			if err != nil {
				return Value{}, err
			}
			v, err := evalBinary(ex.Op, left, right)
			if err != nil {
				return Value{}, &EvalError{Kind: err, Name: ast.FormatExpr(ex), Function: vm.currentFunction()}
			}
			return v, nil
		}
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", e)
	}
}

// evalIndex evaluates a subscript chain left to right into map keys.
func (vm *VM) evalIndex(index []ast.Expr) ([]int64, error) {
	if len(index) == 0 {
		return nil, nil
	}
	path := make([]int64, 0, len(index))
	for _, idx := range index {
		v, err := vm.evalExpr(idx)
		if err != nil {
			return nil, err
		}
		path = append(path, v.Int64())
	}
	return path, nil
}

func evalBinary(op string, left, right Value) (Value, error) {
	switch op {
	case "+":
		return Int(left.Int64() + right.Int64()), nil
	case "-":
		return Int(left.Int64() - right.Int64()), nil
	case "*":
		return Int(left.Int64() * right.Int64()), nil
	case "/":
		if right.Int64() == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Int(left.Int64() / right.Int64()), nil
	case "%":
		if right.Int64() == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Int(left.Int64() % right.Int64()), nil
	case "&":
		return Int(left.Int64() & right.Int64()), nil
	case "|":
		return Int(left.Int64() | right.Int64()), nil
	case "==":
		if left.Kind() == StringKind || right.Kind() == StringKind {
			return boolValue(left.String() == right.String()), nil
		}
		return boolValue(left.Int64() == right.Int64()), nil
	case "!=":
		if left.Kind() == StringKind || right.Kind() == StringKind {
			return boolValue(left.String() != right.String()), nil
		}
		return boolValue(left.Int64() != right.Int64()), nil
	case "<":
		return boolValue(left.Int64() < right.Int64()), nil
	case "<=":
		return boolValue(left.Int64() <= right.Int64()), nil
	case ">":
		return boolValue(left.Int64() > right.Int64()), nil
	case ">=":
		return boolValue(left.Int64() >= right.Int64()), nil
	default:
		return Value{}, fmt.Errorf("unsupported binary operator %q", op)
	}
}

// parseArg parses the expression argument of a built-in. Parsed
// expressions are cached by their source text.
func (vm *VM) parseArg(raw string) (ast.Expr, error) {
	raw = strings.TrimSpace(raw)
	if e, ok := vm.exprCache[raw]; ok {
		return e, nil
	}
	e, err := parser.ParseExpr(raw)
	if err != nil {
		return nil, err
	}
	vm.exprCache[raw] = e
	return e, nil
}

func (vm *VM) evalArg(cmd, raw string) (Value, error) {
	e, err := vm.parseArg(raw)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", cmd, err)
	}
	return vm.evalExpr(e)
}
