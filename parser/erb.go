package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosuda/erakit/ast"
)

type buildKind int

const (
	buildFunction buildKind = iota
	buildIfBranches
	buildElseBody
	buildRepeatBody
	buildSifPending
)

func (k buildKind) String() string {
	switch k {
	case buildFunction:
		return "function"
	case buildIfBranches, buildElseBody:
		return "IF"
	case buildRepeatBody:
		return "REPEAT"
	case buildSifPending:
		return "SIF"
	default:
		return "block"
	}
}

// blockBuilder is one open block. Statements go into target() until the
// block is closed and emitted into its parent.
type blockBuilder struct {
	kind   buildKind
	line   Line
	fn     *ast.Function
	ifStmt *ast.IfStmt
	repeat *ast.RepeatStmt
}

func (b *blockBuilder) target() *ast.Thunk {
	switch b.kind {
	case buildFunction:
		return b.fn.Body
	case buildIfBranches, buildSifPending:
		return b.ifStmt.Branches[len(b.ifStmt.Branches)-1].Body
	case buildElseBody:
		return b.ifStmt.Else
	case buildRepeatBody:
		return b.repeat.Body
	}
	return nil
}

type fileParser struct {
	file  string
	table *ast.FunctionTable
	stack []*blockBuilder
	log   *slog.Logger
}

// statementRules are tried in order; the first rule reporting handled wins.
var statementRules = []func(p *fileParser, l Line) (bool, error){
	(*fileParser).parseHeader,
	(*fileParser).parseTag,
	(*fileParser).parseIf,
	(*fileParser).parseElseIf,
	(*fileParser).parseElse,
	(*fileParser).parseEndIf,
	(*fileParser).parseSif,
	(*fileParser).parseRepeat,
	(*fileParser).parseRend,
	(*fileParser).parseContinue,
	(*fileParser).parseLabel,
	(*fileParser).parseAssign,
	(*fileParser).parseCall,
}

// parseFile feeds every line of one source file into table. Malformed lines
// are returned as lineErrs and parsing goes on; an unterminated block at the
// end of the file is returned as err.
func parseFile(table *ast.FunctionTable, file, source string, log *slog.Logger) (lineErrs []error, err error) {
	p := &fileParser{file: file, table: table, log: log}
	for _, l := range preprocess(toLines(file, source)) {
		if err := p.parseLine(l); err != nil {
			lineErrs = append(lineErrs, err)
		}
	}
	if len(p.stack) > 1 {
		open := p.top()
		return lineErrs, &ParseError{
			File:   file,
			Line:   open.line.Number,
			Source: open.line.Content,
			Msg:    fmt.Sprintf("unterminated %s block at end of file", open.kind),
		}
	}
	return lineErrs, nil
}

func (p *fileParser) parseLine(l Line) error {
	for _, rule := range statementRules {
		handled, err := rule(p, l)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return lineError(l, nil, "unrecognized statement %q", l.Content)
}

func (p *fileParser) top() *blockBuilder {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *fileParser) push(b *blockBuilder) {
	p.stack = append(p.stack, b)
}

func (p *fileParser) pop() *blockBuilder {
	b := p.top()
	p.stack = p.stack[:len(p.stack)-1]
	return b
}

// emit appends s to the innermost open block. A pending SIF takes exactly
// one statement and then closes itself into its parent.
func (p *fileParser) emit(l Line, s ast.Statement) error {
	top := p.top()
	if top == nil {
		return lineError(l, nil, "statement outside of a function")
	}
	top.target().Append(s)
	if top.kind == buildSifPending {
		p.pop()
		return p.emit(l, *top.ifStmt)
	}
	return nil
}

func (p *fileParser) requireFunction(l Line) error {
	if len(p.stack) == 0 {
		return lineError(l, nil, "statement outside of a function")
	}
	return nil
}

func (p *fileParser) parseHeader(l Line) (bool, error) {
	raw, ok := strings.CutPrefix(l.Content, "@")
	if !ok {
		return false, nil
	}
	name := strings.TrimSpace(raw)
	if !isIdentifier(name) {
		return true, lineError(l, nil, "invalid function name %q", name)
	}
	if len(p.stack) > 1 {
		for _, b := range p.stack[1:] {
			p.log.Debug("discarding unterminated block",
				"file", b.line.File, "line", b.line.Number, "block", b.kind.String())
		}
	}
	fn := &ast.Function{Name: name, Body: ast.NewThunk(), File: l.File, Line: l.Number}
	p.table.Add(fn)
	p.stack = []*blockBuilder{{kind: buildFunction, line: l, fn: fn}}
	return true, nil
}

func (p *fileParser) parseTag(l Line) (bool, error) {
	raw, ok := strings.CutPrefix(l.Content, "#")
	if !ok {
		return false, nil
	}
	tag := strings.TrimSpace(raw)
	if !isIdentifier(tag) {
		return true, lineError(l, nil, "invalid function tag %q", tag)
	}
	if err := p.requireFunction(l); err != nil {
		return true, err
	}
	p.stack[0].fn.Priority = strings.ToUpper(tag)
	return true, nil
}

// condition parses the expression of a block opener. A bad expression still
// opens the block, with a constant 0, so the rest of the file keeps its
// nesting.
func condition(l Line, keyword, raw string) (ast.Expr, error) {
	if strings.TrimSpace(raw) == "" {
		return ast.IntLit{Value: 0}, lineError(l, nil, "%s requires an expression", keyword)
	}
	expr, err := ParseExpr(raw)
	if err != nil {
		return ast.IntLit{Value: 0}, lineError(l, err, "invalid %s expression", keyword)
	}
	return expr, nil
}

func (p *fileParser) parseIf(l Line) (bool, error) {
	raw, ok := keywordArg(l.Content, "IF")
	if !ok {
		return false, nil
	}
	if err := p.requireFunction(l); err != nil {
		return true, err
	}
	cond, err := condition(l, "IF", raw)
	p.push(&blockBuilder{
		kind:   buildIfBranches,
		line:   l,
		ifStmt: &ast.IfStmt{Branches: []ast.IfBranch{{Cond: cond, Body: ast.NewThunk()}}},
	})
	return true, err
}

func (p *fileParser) parseElseIf(l Line) (bool, error) {
	raw, ok := keywordArg(l.Content, "ELSEIF")
	if !ok {
		return false, nil
	}
	top := p.top()
	if top == nil || top.kind != buildIfBranches {
		return true, lineError(l, nil, "ELSEIF without matching IF")
	}
	cond, err := condition(l, "ELSEIF", raw)
	top.ifStmt.Branches = append(top.ifStmt.Branches, ast.IfBranch{Cond: cond, Body: ast.NewThunk()})
	return true, err
}

func (p *fileParser) parseElse(l Line) (bool, error) {
	if !isBareKeyword(l.Content, "ELSE") {
		return false, nil
	}
	top := p.top()
	if top == nil || top.kind != buildIfBranches {
		return true, lineError(l, nil, "ELSE without matching IF")
	}
	top.ifStmt.Else = ast.NewThunk()
	top.kind = buildElseBody
	return true, nil
}

func (p *fileParser) parseEndIf(l Line) (bool, error) {
	if !isBareKeyword(l.Content, "ENDIF") {
		return false, nil
	}
	top := p.top()
	if top == nil || (top.kind != buildIfBranches && top.kind != buildElseBody) {
		return true, lineError(l, nil, "ENDIF without matching IF")
	}
	p.pop()
	return true, p.emit(l, *top.ifStmt)
}

func (p *fileParser) parseSif(l Line) (bool, error) {
	raw, ok := keywordArg(l.Content, "SIF")
	if !ok {
		return false, nil
	}
	if err := p.requireFunction(l); err != nil {
		return true, err
	}
	cond, err := condition(l, "SIF", raw)
	p.push(&blockBuilder{
		kind:   buildSifPending,
		line:   l,
		ifStmt: &ast.IfStmt{Branches: []ast.IfBranch{{Cond: cond, Body: ast.NewThunk()}}},
	})
	return true, err
}

func (p *fileParser) parseRepeat(l Line) (bool, error) {
	raw, ok := keywordArg(l.Content, "REPEAT")
	if !ok {
		return false, nil
	}
	if err := p.requireFunction(l); err != nil {
		return true, err
	}
	count, err := condition(l, "REPEAT", raw)
	p.push(&blockBuilder{
		kind:   buildRepeatBody,
		line:   l,
		repeat: &ast.RepeatStmt{Count: count, Body: ast.NewThunk()},
	})
	return true, err
}

func (p *fileParser) parseRend(l Line) (bool, error) {
	if !isBareKeyword(l.Content, "REND") {
		return false, nil
	}
	top := p.top()
	if top == nil || top.kind != buildRepeatBody {
		return true, lineError(l, nil, "REND without matching REPEAT")
	}
	p.pop()
	return true, p.emit(l, *top.repeat)
}

func (p *fileParser) parseContinue(l Line) (bool, error) {
	if !isBareKeyword(l.Content, "CONTINUE") {
		return false, nil
	}
	return true, p.emit(l, ast.ContinueStmt{})
}

func (p *fileParser) parseLabel(l Line) (bool, error) {
	raw, ok := strings.CutPrefix(l.Content, "$")
	if !ok {
		return false, nil
	}
	name := strings.TrimSpace(raw)
	if !isIdentifier(name) {
		return true, lineError(l, nil, "invalid label name %q", name)
	}
	return true, p.emit(l, ast.LabelStmt{Name: strings.ToUpper(name)})
}

// parseAssign handles "lvalue (op)= expr". Lines whose left side is not a
// valid lvalue fall through to the call rule.
func (p *fileParser) parseAssign(l Line) (bool, error) {
	word, _ := leadingWord(l.Content)
	if word == "" || IsKnownCommand(word) {
		return false, nil
	}
	lhs, op, rhs, ok := splitAssign(l.Content)
	if !ok {
		return false, nil
	}
	target, err := ParseLValue(lhs)
	if err != nil {
		return false, nil
	}
	if rhs == "" {
		return true, lineError(l, nil, "assignment to %s has no value", target.Name)
	}
	expr, err := ParseExpr(rhs)
	if err != nil {
		return true, lineError(l, err, "invalid assignment expression")
	}
	if op != "=" {
		expr = ast.BinaryExpr{Op: op[:1], Left: target, Right: expr}
	}
	return true, p.emit(l, ast.AssignStmt{Target: target, Op: op, Expr: expr})
}

func (p *fileParser) parseCall(l Line) (bool, error) {
	word, rest := leadingWord(l.Content)
	if word == "" {
		return false, nil
	}
	return true, p.emit(l, ast.CallStmt{Name: strings.ToUpper(word), Arg: rest})
}

func isBareKeyword(raw, keyword string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), keyword)
}
