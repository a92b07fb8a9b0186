package parser

// Node is the interface implemented by all Rill AST nodes.
type Node interface {
	// Line reports the node's 1-based source line, for diagnostics and
	// tooling. Statements record their leading token's line, binary
	// expressions their operator's.
	Line() int
	node()
}

// Stmt is the interface implemented by all statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Expr is the interface implemented by all expression nodes.
type Expr interface {
	Node
	expr()
}

type base struct {
	line int
}

func (b *base) Line() int { return b.line }
func (*base) node()       {}

type stmtBase struct{ base }

func (*stmtBase) stmt() {}

type exprBase struct{ base }

func (*exprBase) expr() {}

// Program is the root of a parsed source file.
type Program struct {
	base
	File  string
	Stmts []Stmt
}

// IfStmt represents an if/then/else/end statement. Else is nil when the
// else branch is absent.
type IfStmt struct {
	stmtBase
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// RepeatStmt represents a repeat/until statement. The body runs until the
// condition becomes true; there is no closing end.
type RepeatStmt struct {
	stmtBase
	Body []Stmt
	Cond Expr
}

// AssignStmt represents an assignment to a name or an indexed element.
// Dims holds the subscripts of an indexed target and is empty otherwise.
// Value is nil for a bare identifier statement.
type AssignStmt struct {
	stmtBase
	Name  string
	Dims  []*DimExpr
	Value *ValueExpr
}

// ReadStmt represents a read statement naming its target variable.
type ReadStmt struct {
	stmtBase
	Name string
}

// WriteStmt represents a write statement.
type WriteStmt struct {
	stmtBase
	Value Expr
}

// VarStmt represents a var declaration statement.
type VarStmt struct {
	stmtBase
	Decls []*Declarator
}

// WhileStmt represents a while statement with a parenthesized condition.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body []Stmt
}

// ForStmt represents a for statement. Init is the loop variable list,
// Post the assignment (or call) run after each iteration.
type ForStmt struct {
	stmtBase
	Init []*Declarator
	Cond Expr
	Post Stmt
	Body []Stmt
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	stmtBase
	Value Expr
}

// FuncStmt represents a func declaration. Name is empty for an anonymous
// function.
type FuncStmt struct {
	stmtBase
	Name   string
	Params *Params
	Body   []Stmt
}

// CallExpr represents a call. Calls occur both in statement position and
// inside expressions, so CallExpr implements Stmt and Expr alike.
type CallExpr struct {
	exprBase
	Name string
	Args []Expr
}

func (*CallExpr) stmt() {}

// BinaryExpr represents an infix operation. Op is the operator's token
// kind.
type BinaryExpr struct {
	exprBase
	Op    TokenKind
	Left  Expr
	Right Expr
}

// IntLit represents an integer literal.
type IntLit struct {
	exprBase
	Value int64
}

// Ident represents an identifier, optionally indexed. Dims holds one
// entry per subscript.
type Ident struct {
	exprBase
	Name string
	Dims []*DimExpr
}

// ValueExpr represents an initializer introduced by ":=". X is the
// initializing expression or lambda.
type ValueExpr struct {
	exprBase
	X Expr
}

// DimExpr represents one bracketed dimension: a size in declarations, a
// subscript in expressions. X is nil for a parameter annotation, where
// the size is elided.
type DimExpr struct {
	exprBase
	X Expr
}

// LambdaExpr represents an expression-bodied anonymous function.
type LambdaExpr struct {
	exprBase
	Params *Params
	Body   Expr
}

// Params represents a parenthesized parameter list.
type Params struct {
	base
	List []*Declarator
}

// Declarator represents one declared name. Value holds a single-value
// initializer, Values a parenthesized multi-value initializer list; at
// most one of the two is set.
type Declarator struct {
	base
	Name   string
	Dims   []*DimExpr
	Value  *ValueExpr
	Values []*ValueExpr
}
