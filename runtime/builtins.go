package eruntime

import (
	"slices"
	"strings"
)

// builtin handles one engine command. arg is the raw text after the name.
type builtin func(vm *VM, arg string) (resultKind, error)

func defaultBuiltins() map[string]builtin {
	return map[string]builtin{
		"PRINT":          builtinPrint(false),
		"PRINTL":         builtinPrint(true),
		"PRINTV":         builtinPrintV(false),
		"PRINTVL":        builtinPrintV(true),
		"PRINTFORM":      builtinPrintForm(false, false),
		"PRINTFORML":     builtinPrintForm(true, false),
		"PRINTFORMW":     builtinPrintForm(true, true),
		"INPUT":          builtinInput,
		"CALL":           builtinCall,
		"GOTO":           builtinGoto,
		"RETURN":         builtinReturn,
		"QUIT":           builtinQuit,
		"DRAWLINE":       builtinDrawLine,
		"ADDCHARA":       builtinAddChara,
		"BEGIN":          builtinBegin,
		"PRINT_SHOPITEM": builtinPrintShopItem,
		"PRINT_ITEM":     builtinPrintItem,
		"RAND":           builtinStub("RAND"),
		"SAVEGAME":       builtinStub("SAVEGAME"),
		"LOADGAME":       builtinStub("LOADGAME"),
	}
}

// BuiltinNames lists the registered engine commands, sorted.
func BuiltinNames() []string {
	table := defaultBuiltins()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (vm *VM) emitOutput(out Output) {
	vm.outputs = append(vm.outputs, out)
	if vm.outputHook != nil {
		vm.outputHook(out)
	}
}

func builtinPrint(newline bool) builtin {
	return func(vm *VM, arg string) (resultKind, error) {
		vm.emitOutput(Output{Text: arg, NewLine: newline})
		return resultNone, nil
	}
}

func builtinPrintV(newline bool) builtin {
	return func(vm *VM, arg string) (resultKind, error) {
		v, err := vm.evalArg("PRINTV", arg)
		if err != nil {
			return resultNone, err
		}
		vm.emitOutput(Output{Text: v.String(), NewLine: newline})
		return resultNone, nil
	}
}

func builtinPrintForm(newline, wait bool) builtin {
	return func(vm *VM, arg string) (resultKind, error) {
		text, err := vm.expandForm(arg)
		if err != nil {
			return resultNone, err
		}
		vm.emitOutput(Output{Text: text, NewLine: newline})
		if wait {
			if _, err := vm.readInput(InputRequest{Command: "PRINTFORMW", Wait: true}); err != nil {
				return resultNone, err
			}
		}
		return resultNone, nil
	}
}

func builtinInput(vm *VM, _ string) (resultKind, error) {
	raw, err := vm.readInput(InputRequest{Command: "INPUT"})
	if err != nil {
		return resultNone, err
	}
	vm.env.Set("RESULT", Str(raw))
	return resultNone, nil
}

// CallTarget extracts the function name from a CALL argument, dropping
// anything from the first space, tab or parenthesis on.
func CallTarget(arg string) string {
	name := strings.TrimSpace(arg)
	if i := strings.IndexAny(name, " \t("); i >= 0 {
		name = name[:i]
	}
	return strings.ToUpper(name)
}

func builtinCall(vm *VM, arg string) (resultKind, error) {
	return vm.callUser(CallTarget(arg))
}

func builtinGoto(vm *VM, arg string) (resultKind, error) {
	return resultNone, vm.gotoLabel(arg)
}

func builtinReturn(vm *VM, arg string) (resultKind, error) {
	v := Int(0)
	if strings.TrimSpace(arg) != "" {
		var err error
		v, err = vm.evalArg("RETURN", arg)
		if err != nil {
			return resultNone, err
		}
	}
	vm.returnFromFunction(v)
	return resultNone, nil
}

func builtinQuit(*VM, string) (resultKind, error) {
	return resultNone, errQuit
}

func builtinDrawLine(vm *VM, _ string) (resultKind, error) {
	vm.emitOutput(Output{Text: strings.Repeat("-", vm.opts.LineWidth), NewLine: true})
	return resultNone, nil
}

func builtinStub(name string) builtin {
	return func(vm *VM, _ string) (resultKind, error) {
		return resultNone, vm.evalError(ErrNotImplemented, name)
	}
}
