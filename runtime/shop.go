package eruntime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const itemsPerLine = 3

func builtinBegin(vm *VM, arg string) (resultKind, error) {
	mode := strings.ToUpper(strings.TrimSpace(arg))
	switch mode {
	case "SHOP":
		return vm.runShop()
	default:
		return resultNone, vm.evalError(ErrUnsupportedMode, mode)
	}
}

// runShop loops showing the shop and reading a number. Ids below
// ShopItemLimit are purchases and fire EVENTBUY; any other number goes to
// USERSHOP. The loop ends through QUIT, a jump out, or closed input.
func (vm *VM) runShop() (resultKind, error) {
	for {
		if err := vm.ctx.Err(); err != nil {
			return resultNone, err
		}
		res, err := vm.callUser("SHOW_SHOP")
		if err != nil || res == resultUnwind {
			return res, err
		}
		raw, err := vm.readInput(InputRequest{Command: "BEGIN SHOP", Numeric: true})
		if err != nil {
			return resultNone, err
		}
		id, ok := parseIntInput(raw)
		if !ok {
			continue
		}
		vm.env.Set("RESULT", Int(id))
		if id >= 0 && id < vm.opts.ShopItemLimit {
			vm.env.Set("BOUGHT", Int(id))
			res, err = vm.runEvent("EVENTBUY")
		} else if vm.program.Functions.Has("USERSHOP") {
			res, err = vm.callUser("USERSHOP")
		}
		if err != nil || res == resultUnwind {
			return res, err
		}
	}
}

func builtinPrintShopItem(vm *VM, _ string) (resultKind, error) {
	vm.printItemTable("ITEMSALES", func(id int64, name string, fields []string, _ Value) string {
		price := int64(0)
		if len(fields) > 1 {
			price, _ = strconv.ParseInt(fields[1], 10, 64)
		}
		return fmt.Sprintf("[%d] %s(%dG)", id, name, price)
	})
	return resultNone, nil
}

func builtinPrintItem(vm *VM, _ string) (resultKind, error) {
	vm.printItemTable("ITEM", func(id int64, name string, _ []string, n Value) string {
		return fmt.Sprintf("[%d] %s(x%d)", id, name, n.Int64())
	})
	return resultNone, nil
}

// printItemTable lists every id with a non-zero source:id entry, ascending,
// three cells per line padded to a third of the line width by display
// width.
func (vm *VM) printItemTable(source string, format func(id int64, name string, fields []string, n Value) string) {
	cells := []string{}
	for _, id := range vm.env.Keys(source) {
		n := vm.env.Get(source, id)
		if n.Int64() == 0 {
			continue
		}
		name, fields, _ := vm.masterRow("ITEM", id)
		cells = append(cells, format(id, name, fields, n))
	}
	col := vm.opts.LineWidth / itemsPerLine
	for start := 0; start < len(cells); start += itemsPerLine {
		end := min(start+itemsPerLine, len(cells))
		var b strings.Builder
		for i, cell := range cells[start:end] {
			if start+i < end-1 {
				b.WriteString(runewidth.FillRight(cell, col))
				continue
			}
			b.WriteString(cell)
		}
		vm.emitOutput(Output{Text: b.String(), NewLine: true})
	}
}
