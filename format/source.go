package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rill-lang/rill/parser"
)

// SourceEncoder writes a program back out as canonical source text:
// one statement per line, no semicolons, nested blocks indented, and
// only the parentheses required by operator precedence.
type SourceEncoder struct {
	w      io.Writer
	prog   *parser.Program
	indent string
	depth  int
	buf    bytes.Buffer
}

func NewSourceEncoder(w io.Writer) *SourceEncoder {
	return &SourceEncoder{w: w, indent: "  "}
}

// SetIndent changes the number of spaces used per nesting level.
func (e *SourceEncoder) SetIndent(width int) {
	if width < 0 {
		width = 0
	}
	e.indent = strings.Repeat(" ", width)
}

func (e *SourceEncoder) Encode(prog *parser.Program) error {
	e.prog = prog
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SourceEncoder) MarshalText() ([]byte, error) {
	e.buf.Reset()
	e.depth = 0
	if e.prog != nil {
		e.stmts(e.prog.Stmts)
	}
	return append([]byte(nil), e.buf.Bytes()...), nil
}

func (e *SourceEncoder) line(format string, args ...any) {
	for i := 0; i < e.depth; i++ {
		e.buf.WriteString(e.indent)
	}
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *SourceEncoder) stmts(stmts []parser.Stmt) {
	for _, s := range stmts {
		e.stmt(s)
	}
}

func (e *SourceEncoder) block(stmts []parser.Stmt) {
	e.depth++
	e.stmts(stmts)
	e.depth--
}

func (e *SourceEncoder) stmt(s parser.Stmt) {
	switch s := s.(type) {
	case *parser.IfStmt:
		e.line("if %s then", exprString(s.Cond))
		e.block(s.Then)
		if len(s.Else) > 0 {
			e.line("else")
			e.block(s.Else)
		}
		e.line("end")
	case *parser.RepeatStmt:
		e.line("repeat")
		e.block(s.Body)
		e.line("until %s", exprString(s.Cond))
	case *parser.AssignStmt:
		e.line("%s", assignString(s))
	case *parser.ReadStmt:
		e.line("read %s", s.Name)
	case *parser.WriteStmt:
		e.line("write %s", exprString(s.Value))
	case *parser.VarStmt:
		e.line("var %s", declListString(s.Decls))
	case *parser.WhileStmt:
		e.line("while (%s)", exprString(s.Cond))
		e.block(s.Body)
		e.line("end")
	case *parser.ForStmt:
		init := ""
		if len(s.Init) > 0 {
			init = "var " + declListString(s.Init)
		}
		e.line("for (%s; %s; %s)", init, exprString(s.Cond), inlineStmt(s.Post))
		e.block(s.Body)
		e.line("end")
	case *parser.ReturnStmt:
		if s.Value == nil {
			e.line("return")
		} else {
			e.line("return %s", exprString(s.Value))
		}
	case *parser.FuncStmt:
		if s.Name == "" {
			e.line("func %s", paramsString(s.Params))
		} else {
			e.line("func %s%s", s.Name, paramsString(s.Params))
		}
		e.block(s.Body)
		e.line("end")
	case *parser.CallExpr:
		e.line("%s", exprString(s))
	}
}

func inlineStmt(s parser.Stmt) string {
	switch s := s.(type) {
	case *parser.AssignStmt:
		return assignString(s)
	case *parser.CallExpr:
		return exprString(s)
	}
	return ""
}

func assignString(s *parser.AssignStmt) string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	for _, d := range s.Dims {
		sb.WriteString(dimString(d))
	}
	if s.Value != nil {
		sb.WriteString(" := ")
		sb.WriteString(exprString(s.Value.X))
	}
	return sb.String()
}

func declListString(decls []*parser.Declarator) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = declString(d)
	}
	return strings.Join(parts, ", ")
}

func declString(d *parser.Declarator) string {
	var sb strings.Builder
	sb.WriteString(d.Name)
	for _, dim := range d.Dims {
		sb.WriteString(dimString(dim))
	}
	switch {
	case d.Value != nil:
		sb.WriteString(" := ")
		sb.WriteString(exprString(d.Value.X))
	case len(d.Values) > 0:
		sb.WriteString(" := (")
		for i, v := range d.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(exprString(v.X))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func paramsString(ps *parser.Params) string {
	if ps == nil || len(ps.List) == 0 {
		return "()"
	}
	return "(" + declListString(ps.List) + ")"
}

func exprString(x parser.Expr) string {
	switch x := x.(type) {
	case *parser.BinaryExpr:
		left := operandString(x, x.Left, false)
		right := operandString(x, x.Right, true)
		return left + " " + x.Op.String() + " " + right
	case *parser.IntLit:
		return strconv.FormatInt(x.Value, 10)
	case *parser.Ident:
		var sb strings.Builder
		sb.WriteString(x.Name)
		for _, d := range x.Dims {
			sb.WriteString(dimString(d))
		}
		return sb.String()
	case *parser.CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = exprString(a)
		}
		return x.Name + "(" + strings.Join(args, ", ") + ")"
	case *parser.ValueExpr:
		return exprString(x.X)
	case *parser.DimExpr:
		return dimString(x)
	case *parser.LambdaExpr:
		return "lambda " + paramsString(x.Params) + ": " + exprString(x.Body)
	}
	return ""
}

// operandString wraps a child of a binary operator in parentheses when
// dropping them would change how the expression parses. Comparisons do
// not chain, so a comparison nested under another one always keeps its
// parentheses.
func operandString(parent *parser.BinaryExpr, x parser.Expr, right bool) string {
	s := exprString(x)
	child, ok := x.(*parser.BinaryExpr)
	if !ok {
		return s
	}
	pp := precedence(parent.Op)
	cp := precedence(child.Op)
	if cp < pp || (cp == pp && (right || pp == 1)) {
		return "(" + s + ")"
	}
	return s
}

func precedence(op parser.TokenKind) int {
	switch op {
	case parser.TokenLT, parser.TokenEQ, parser.TokenGT:
		return 1
	case parser.TokenPlus, parser.TokenMinus, parser.TokenAnd:
		return 2
	case parser.TokenStar, parser.TokenSlash:
		return 3
	}
	return 0
}

func dimString(d *parser.DimExpr) string {
	if d.X == nil {
		return "[]"
	}
	return "[" + exprString(d.X) + "]"
}
