package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rill-lang/rill/parser"
)

// TreeEncoder writes a program as an indented outline, one node per
// line. Branches that can hold several children (conditions, bodies,
// parameter lists) appear under a group label; empty groups are
// omitted.
type TreeEncoder struct {
	w     io.Writer
	prog  *parser.Program
	depth int
	buf   bytes.Buffer
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(prog *parser.Program) error {
	e.prog = prog
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	e.buf.Reset()
	e.depth = 0
	e.line("Program")
	if e.prog != nil {
		e.depth++
		e.stmts(e.prog.Stmts)
		e.depth--
	}
	return append([]byte(nil), e.buf.Bytes()...), nil
}

func (e *TreeEncoder) line(format string, args ...any) {
	for i := 0; i < e.depth; i++ {
		e.buf.WriteString("  ")
	}
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

// group prints a labeled branch holding the given statements, or
// nothing when the branch is empty.
func (e *TreeEncoder) group(label string, stmts []parser.Stmt) {
	if len(stmts) == 0 {
		return
	}
	e.line("%s", label)
	e.depth++
	e.stmts(stmts)
	e.depth--
}

func (e *TreeEncoder) exprGroup(label string, x parser.Expr) {
	if x == nil {
		return
	}
	e.line("%s", label)
	e.depth++
	e.expr(x)
	e.depth--
}

func (e *TreeEncoder) stmts(stmts []parser.Stmt) {
	for _, s := range stmts {
		e.stmt(s)
	}
}

func (e *TreeEncoder) stmt(s parser.Stmt) {
	switch s := s.(type) {
	case *parser.IfStmt:
		e.line("If")
		e.depth++
		e.exprGroup("Cond", s.Cond)
		e.group("Then", s.Then)
		e.group("Else", s.Else)
		e.depth--
	case *parser.RepeatStmt:
		e.line("Repeat")
		e.depth++
		e.group("Body", s.Body)
		e.exprGroup("Until", s.Cond)
		e.depth--
	case *parser.AssignStmt:
		e.line("Assign %s", s.Name)
		e.depth++
		e.dims(s.Dims)
		if s.Value != nil {
			e.expr(s.Value.X)
		}
		e.depth--
	case *parser.ReadStmt:
		e.line("Read %s", s.Name)
	case *parser.WriteStmt:
		e.line("Write")
		e.depth++
		e.expr(s.Value)
		e.depth--
	case *parser.VarStmt:
		e.line("Var")
		e.depth++
		e.decls(s.Decls)
		e.depth--
	case *parser.WhileStmt:
		e.line("While")
		e.depth++
		e.exprGroup("Cond", s.Cond)
		e.group("Body", s.Body)
		e.depth--
	case *parser.ForStmt:
		e.line("For")
		e.depth++
		if len(s.Init) > 0 {
			e.line("Init")
			e.depth++
			e.decls(s.Init)
			e.depth--
		}
		e.exprGroup("Cond", s.Cond)
		if s.Post != nil {
			e.line("Post")
			e.depth++
			e.stmt(s.Post)
			e.depth--
		}
		e.group("Body", s.Body)
		e.depth--
	case *parser.ReturnStmt:
		e.line("Return")
		e.depth++
		e.expr(s.Value)
		e.depth--
	case *parser.FuncStmt:
		if s.Name == "" {
			e.line("Func")
		} else {
			e.line("Func %s", s.Name)
		}
		e.depth++
		e.params(s.Params)
		e.group("Body", s.Body)
		e.depth--
	case *parser.CallExpr:
		e.expr(s)
	}
}

func (e *TreeEncoder) expr(x parser.Expr) {
	switch x := x.(type) {
	case *parser.BinaryExpr:
		e.line("Op %s", x.Op)
		e.depth++
		e.expr(x.Left)
		e.expr(x.Right)
		e.depth--
	case *parser.IntLit:
		e.line("Const %d", x.Value)
	case *parser.Ident:
		e.line("Id %s", x.Name)
		e.depth++
		e.dims(x.Dims)
		e.depth--
	case *parser.CallExpr:
		e.line("Call %s", x.Name)
		e.depth++
		for _, arg := range x.Args {
			e.expr(arg)
		}
		e.depth--
	case *parser.ValueExpr:
		e.expr(x.X)
	case *parser.DimExpr:
		e.line("Dim")
		e.depth++
		e.expr(x.X)
		e.depth--
	case *parser.LambdaExpr:
		e.line("Lambda")
		e.depth++
		e.params(x.Params)
		e.expr(x.Body)
		e.depth--
	case nil:
	}
}

func (e *TreeEncoder) dims(dims []*parser.DimExpr) {
	for _, d := range dims {
		e.expr(d)
	}
}

func (e *TreeEncoder) params(ps *parser.Params) {
	if ps == nil || len(ps.List) == 0 {
		return
	}
	e.line("Params")
	e.depth++
	e.decls(ps.List)
	e.depth--
}

func (e *TreeEncoder) decls(decls []*parser.Declarator) {
	for _, d := range decls {
		e.line("Decl %s", d.Name)
		e.depth++
		e.dims(d.Dims)
		if d.Value != nil {
			e.expr(d.Value.X)
		}
		if len(d.Values) > 0 {
			e.line("Values")
			e.depth++
			for _, v := range d.Values {
				e.expr(v.X)
			}
			e.depth--
		}
		e.depth--
	}
}
