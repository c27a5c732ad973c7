package ast

type Program struct {
	Functions   *FunctionTable
	CSVFiles    map[string]string
	Diagnostics []error
}

// Function is one @NAME block. A name may own several of them.
type Function struct {
	Name     string
	Priority string // PRI|LAST|other, empty when untagged
	Body     *Thunk
	File     string
	Line     int
}

func (*Function) isStatement() {}

type Thunk struct {
	Statements []Statement
}

func NewThunk() *Thunk {
	return &Thunk{Statements: nil}
}

func (t *Thunk) Append(s Statement) {
	t.Statements = append(t.Statements, s)
}

func (t *Thunk) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Statements)
}

type Statement interface {
	isStatement()
}

// AssignStmt stores Expr into Target. Compound operators are already folded
// into Expr; Op keeps the source spelling for tooling.
type AssignStmt struct {
	Target VarRef
	Op     string
	Expr   Expr
}

func (AssignStmt) isStatement() {}

type IfStmt struct {
	Branches []IfBranch
	Else     *Thunk
}

func (IfStmt) isStatement() {}

type IfBranch struct {
	Cond Expr
	Body *Thunk
}

type RepeatStmt struct {
	Count Expr
	Body  *Thunk
}

func (RepeatStmt) isStatement() {}

type ContinueStmt struct{}

func (ContinueStmt) isStatement() {}

type LabelStmt struct {
	Name string
}

func (LabelStmt) isStatement() {}

// CallStmt is a built-in command or user function call with its raw argument text.
type CallStmt struct {
	Name string
	Arg  string
}

func (CallStmt) isStatement() {}

type Expr interface {
	isExpr()
}

type IntLit struct {
	Value int64
}

func (IntLit) isExpr() {}

// VarRef is a variable with its flattened subscript chain: A:1:2 is
// VarRef{Name: "A", Index: [1, 2]}.
type VarRef struct {
	Name  string
	Index []Expr
}

func (VarRef) isExpr() {}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}
