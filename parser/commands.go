package parser

import (
	"sort"
	"strings"
)

// knownCommands are the engine built-ins. A line starting with one of them
// is always a call, so "PRINTFORM X=%A%" never reads as an assignment.
var knownCommands = map[string]struct{}{
	"PRINT":          {},
	"PRINTL":         {},
	"PRINTV":         {},
	"PRINTVL":        {},
	"PRINTFORM":      {},
	"PRINTFORML":     {},
	"PRINTFORMW":     {},
	"INPUT":          {},
	"CALL":           {},
	"GOTO":           {},
	"RETURN":         {},
	"QUIT":           {},
	"DRAWLINE":       {},
	"ADDCHARA":       {},
	"BEGIN":          {},
	"PRINT_SHOPITEM": {},
	"PRINT_ITEM":     {},
	"RAND":           {},
	"SAVEGAME":       {},
	"LOADGAME":       {},
}

func IsKnownCommand(name string) bool {
	_, ok := knownCommands[strings.ToUpper(name)]
	return ok
}

// KnownCommands returns the built-in names in sorted order.
func KnownCommands() []string {
	out := make([]string, 0, len(knownCommands))
	for name := range knownCommands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
