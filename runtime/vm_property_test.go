package eruntime

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPropertyEvaluation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	arith := []struct {
		op string
		fn func(a, b int64) int64
	}{
		{"+", func(a, b int64) int64 { return a + b }},
		{"-", func(a, b int64) int64 { return a - b }},
		{"*", func(a, b int64) int64 { return a * b }},
		{"/", func(a, b int64) int64 { return a / b }},
		{"%", func(a, b int64) int64 { return a % b }},
	}

	properties.Property("arithmetic matches int64 semantics", prop.ForAll(
		func(a, b int64, i int) bool {
			src := fmt.Sprintf("@TITLE\nPRINTVL %d %s %d\n", a, arith[i].op, b)
			got := runScript(t, src)
			return got == strconv.FormatInt(arith[i].fn(a, b), 10)+"\n"
		},
		gen.Int64Range(-10000, 10000),
		gen.Int64Range(1, 1000),
		gen.IntRange(0, len(arith)-1),
	))

	properties.Property("REPEAT binds COUNT to each iteration", prop.ForAll(
		func(n int) bool {
			got := runScript(t, fmt.Sprintf("@TITLE\nREPEAT %d\n\tPRINTV COUNT\n\tPRINT ,\nREND\n", n))
			var want strings.Builder
			for i := range n {
				fmt.Fprintf(&want, "%d,", i)
			}
			return got == want.String()
		},
		gen.IntRange(0, 30),
	))

	properties.Property("subscripted stores read back", prop.ForAll(
		func(k1, k2, v int64) bool {
			src := fmt.Sprintf("@TITLE\nV:%d:%d = %d\nPRINTVL V:%d:%d\nPRINTVL V:%d\n", k1, k2, v, k1, k2, k1)
			return runScript(t, src) == fmt.Sprintf("%d\n0\n", v)
		},
		gen.Int64Range(-50, 50),
		gen.Int64Range(-50, 50),
		gen.Int64Range(-100000, 100000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
