package eruntime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosuda/erakit/ast"
	"github.com/gosuda/erakit/logger"
)

type Output struct {
	Text    string
	NewLine bool
}

// MasterData answers lookups into the tabular game data (characters, items).
// Fields exclude the id column.
type MasterData interface {
	Lookup(category string, id int64) ([]string, bool)
}

type Options struct {
	// Strict makes unknown statement kinds fail the run instead of being
	// logged and skipped.
	Strict bool
	Logger *slog.Logger
	// LineWidth is the DRAWLINE width and the shop table width. Default 40.
	LineWidth int
	// ShopItemLimit bounds the item ids BEGIN SHOP treats as purchases.
	// Default 100.
	ShopItemLimit int64
	// MasterData defaults to a CSVStore over the program's CSV files.
	MasterData MasterData
}

const (
	defaultLineWidth     = 40
	defaultShopItemLimit = 100
)

type VM struct {
	program *ast.Program
	opts    Options
	log     *slog.Logger
	ctx     context.Context

	env        *Env
	stack      []*frame
	builtins   map[string]builtin
	exprCache  map[string]ast.Expr
	master     MasterData
	characters []RuntimeCharacter

	outputs       []Output
	outputHook    func(Output)
	inputProvider func(InputRequest) (string, error)
	inputQueue    []string
}

type frameKind int

const (
	frameFunction frameKind = iota
	frameBlock
)

// frameDone is the terminal cursor: a frame holding it is finished no
// matter how much of its body is left.
const frameDone = -1

type frame struct {
	kind     frameKind
	name     string
	body     []ast.Statement
	cursor   int
	labels   map[string]int
	returned bool
}

func (f *frame) atEnd() bool {
	return f.cursor == frameDone || f.cursor >= len(f.body)
}

// resultKind is how a statement finished.
type resultKind int

const (
	resultNone resultKind = iota
	// resultContinue aborts the current REPEAT iteration.
	resultContinue
	// resultUnwind reports that the frame was terminated from outside by
	// GOTO or RETURN.
	resultUnwind
)

func New(program *ast.Program) (*VM, error) {
	return NewWithOptions(program, Options{})
}

func NewWithOptions(program *ast.Program, opts Options) (*VM, error) {
	if program == nil || program.Functions == nil {
		return nil, fmt.Errorf("program has no function table")
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = defaultLineWidth
	}
	if opts.ShopItemLimit <= 0 {
		opts.ShopItemLimit = defaultShopItemLimit
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	master := opts.MasterData
	if master == nil {
		master = NewCSVStore(program.CSVFiles)
	}
	vm := &VM{
		program:   program,
		opts:      opts,
		log:       log,
		ctx:       context.Background(),
		env:       NewEnv(),
		builtins:  defaultBuiltins(),
		exprCache: map[string]ast.Expr{},
		master:    master,
	}
	vm.seedMaster()
	return vm, nil
}

func (vm *VM) SetOutputHook(fn func(Output)) {
	vm.outputHook = fn
}

// Var reads a variable, creating it with 0 when unset.
func (vm *VM) Var(name string, index ...int64) Value {
	return vm.env.Get(name, index...)
}

func (vm *VM) Run(entry string) ([]Output, error) {
	return vm.RunContext(context.Background(), entry)
}

// RunContext runs every declaration of entry (TITLE when empty) and returns
// what was printed. ctx is checked before each statement. On error the
// output produced so far is returned with it.
func (vm *VM) RunContext(ctx context.Context, entry string) ([]Output, error) {
	vm.outputs = vm.outputs[:0]
	vm.stack = vm.stack[:0]
	vm.ctx = ctx
	defer func() {
		vm.ctx = context.Background()
		vm.stack = vm.stack[:0]
	}()

	name := strings.ToUpper(strings.TrimSpace(entry))
	if name == "" {
		name = "TITLE"
	}
	var err error
	if !vm.program.Functions.Has(name) {
		err = vm.evalError(ErrUndefinedFunction, name)
	} else {
		_, err = vm.runEvent(name)
	}
	if errors.Is(err, errQuit) {
		err = nil
	}
	out := append([]Output(nil), vm.outputs...)
	return out, err
}

// runEvent executes every declaration of name in table order, each in its
// own top-level function frame.
func (vm *VM) runEvent(name string) (resultKind, error) {
	fns := vm.program.Functions.Lookup(name)
	vm.log.Debug("dispatching event", "event", name, "declarations", len(fns))
	for _, fn := range fns {
		res, err := vm.callDecl(fn)
		if err != nil {
			return resultNone, err
		}
		if res == resultUnwind {
			return res, nil
		}
	}
	return resultNone, nil
}

// callUser invokes the last declaration of name.
func (vm *VM) callUser(name string) (resultKind, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	fn := vm.program.Functions.Last(name)
	if fn == nil {
		return resultNone, vm.evalError(ErrUndefinedFunction, name)
	}
	return vm.callDecl(fn)
}

func (vm *VM) callDecl(fn *ast.Function) (resultKind, error) {
	var body []ast.Statement
	if fn.Body != nil {
		body = fn.Body.Statements
	}
	fr := &frame{kind: frameFunction, name: fn.Name, body: body}
	vm.push(fr)
	res, err := vm.runFrame(fr)
	if err != nil {
		return resultNone, err
	}
	switch {
	case res == resultContinue:
		return resultNone, &EvalError{Kind: ErrContinueOutsideLoop, Name: "CONTINUE", Function: fn.Name}
	case fr.returned:
		return resultNone, nil
	}
	return res, nil
}

func (vm *VM) runBlock(body *ast.Thunk) (resultKind, error) {
	if body.Len() == 0 {
		return resultNone, nil
	}
	fr := &frame{kind: frameBlock, body: body.Statements}
	vm.push(fr)
	return vm.runFrame(fr)
}

// runFrame runs fr to completion. A frame finishing normally pops itself;
// one terminated by GOTO or RETURN reports resultUnwind to its parent. The
// pop is skipped when a jump already removed the frame.
func (vm *VM) runFrame(fr *frame) (resultKind, error) {
	res, err := vm.stepFrame(fr)
	if err != nil {
		return resultNone, err
	}
	vm.popIfTop(fr)
	return res, nil
}

// stepFrame executes fr from its cursor until the body ends, CONTINUE is
// hit, or the frame is finished from outside. fr stays on the stack.
func (vm *VM) stepFrame(fr *frame) (resultKind, error) {
	for !fr.atEnd() {
		if err := vm.ctx.Err(); err != nil {
			return resultNone, err
		}
		stmt := fr.body[fr.cursor]
		fr.cursor++
		res, err := vm.execStatement(fr, stmt)
		if err != nil {
			return resultNone, err
		}
		if res == resultContinue {
			return resultContinue, nil
		}
		if fr.cursor == frameDone {
			return resultUnwind, nil
		}
	}
	return resultNone, nil
}

func (vm *VM) push(fr *frame) {
	vm.stack = append(vm.stack, fr)
}

func (vm *VM) popIfTop(fr *frame) {
	if n := len(vm.stack); n > 0 && vm.stack[n-1] == fr {
		vm.stack[n-1] = nil
		vm.stack = vm.stack[:n-1]
	}
}

// gotoLabel resumes at label in the innermost frame that has recorded it.
// Frames searched on the way out are finished and dropped.
func (vm *VM) gotoLabel(label string) error {
	label = strings.ToUpper(strings.TrimSpace(label))
	from := vm.currentFunction()
	for len(vm.stack) > 0 {
		fr := vm.stack[len(vm.stack)-1]
		if idx, ok := fr.labels[label]; ok {
			fr.cursor = idx
			return nil
		}
		fr.cursor = frameDone
		vm.stack[len(vm.stack)-1] = nil
		vm.stack = vm.stack[:len(vm.stack)-1]
	}
	return &EvalError{Kind: ErrLabelNotFound, Name: label, Function: from}
}

// returnFromFunction stores v in RESULT and finishes the innermost function
// frame together with every block frame above it.
func (vm *VM) returnFromFunction(v Value) {
	vm.env.Set("RESULT", v)
	for i := len(vm.stack) - 1; i >= 0; i-- {
		fr := vm.stack[i]
		fr.cursor = frameDone
		if fr.kind == frameFunction {
			fr.returned = true
			return
		}
	}
}

func (vm *VM) currentFunction() string {
	for i := len(vm.stack) - 1; i >= 0; i-- {
		if vm.stack[i].kind == frameFunction {
			return vm.stack[i].name
		}
	}
	return ""
}

func (vm *VM) execStatement(fr *frame, stmt ast.Statement) (resultKind, error) {
	switch s := stmt.(type) {
	case ast.AssignStmt:
		v, err := vm.evalExpr(s.Expr)
		if err != nil {
			return resultNone, err
		}
		path, err := vm.evalIndex(s.Target.Index)
		if err != nil {
			return resultNone, err
		}
		vm.env.Set(s.Target.Name, v, path...)
		return resultNone, nil
	case ast.IfStmt:
		for _, br := range s.Branches {
			cond, err := vm.evalExpr(br.Cond)
			if err != nil {
				return resultNone, err
			}
			if cond.Truthy() {
				return vm.runBlock(br.Body)
			}
		}
		return vm.runBlock(s.Else)
	case ast.RepeatStmt:
		return vm.execRepeat(s)
	case ast.ContinueStmt:
		return resultContinue, nil
	case ast.LabelStmt:
		if fr.labels == nil {
			fr.labels = map[string]int{}
		}
		fr.labels[s.Name] = fr.cursor
		return resultNone, nil
	case ast.CallStmt:
		return vm.execCall(s)
	default:
		kind := fmt.Sprintf("%T", stmt)
		if vm.opts.Strict {
			return resultNone, vm.evalError(ErrUnknownStatement, kind)
		}
		vm.log.Warn("skipping unknown statement", "kind", kind, "function", vm.currentFunction())
		return resultNone, nil
	}
}

// execRepeat evaluates the count once and runs the body in a single frame
// that is rewound for each iteration, with COUNT bound to the iteration
// index. Labels passed in one iteration stay valid in the next.
func (vm *VM) execRepeat(s ast.RepeatStmt) (resultKind, error) {
	count, err := vm.evalExpr(s.Count)
	if err != nil {
		return resultNone, err
	}
	n := count.Int64()
	if n <= 0 {
		return resultNone, nil
	}
	var body []ast.Statement
	if s.Body != nil {
		body = s.Body.Statements
	}
	fr := &frame{kind: frameBlock, body: body}
	vm.push(fr)
	for i := int64(0); i < n; i++ {
		if err := vm.ctx.Err(); err != nil {
			return resultNone, err
		}
		vm.env.Set("COUNT", Int(i))
		fr.cursor = 0
		res, err := vm.stepFrame(fr)
		if err != nil {
			return resultNone, err
		}
		if res == resultUnwind {
			vm.popIfTop(fr)
			return resultUnwind, nil
		}
	}
	vm.popIfTop(fr)
	return resultNone, nil
}

func (vm *VM) execCall(s ast.CallStmt) (resultKind, error) {
	if fn, ok := vm.builtins[s.Name]; ok {
		return fn(vm, s.Arg)
	}
	return vm.callUser(s.Name)
}
