package parser

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, diags := Parse([]byte(src), "test.rill")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, diags)
	}
	return prog
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	p := New(NewLexer([]byte(src), "test.rill"))
	p.next()
	e := p.exp()
	if p.HadError() {
		t.Fatalf("parse %q: unexpected diagnostics: %v", src, p.Diagnostics())
	}
	if p.tok.Kind != TokenEOF {
		t.Fatalf("parse %q: leftover token %v", src, p.tok.Kind)
	}
	return e
}

// exprString renders an expression with explicit grouping so tests can
// assert precedence and associativity in one string.
func exprString(e Expr) string {
	switch e := e.(type) {
	case *IntLit:
		return strconv.FormatInt(e.Value, 10)
	case *Ident:
		var sb strings.Builder
		sb.WriteString(e.Name)
		for _, d := range e.Dims {
			sb.WriteString(exprString(d))
		}
		return sb.String()
	case *BinaryExpr:
		return "(" + exprString(e.Left) + " " + e.Op.String() + " " + exprString(e.Right) + ")"
	case *CallExpr:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = exprString(a)
		}
		return e.Name + "(" + strings.Join(parts, ", ") + ")"
	case *ValueExpr:
		return exprString(e.X)
	case *DimExpr:
		if e.X == nil {
			return "[]"
		}
		return "[" + exprString(e.X) + "]"
	case *LambdaExpr:
		names := make([]string, len(e.Params.List))
		for i, d := range e.Params.List {
			names[i] = d.Name
		}
		return "lambda (" + strings.Join(names, ", ") + ") : " + exprString(e.Body)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"x", "x"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a < b + 1", "(a < (b + 1))"},
		{"x = y", "(x = y)"},
		{"a > b * 2", "(a > (b * 2))"},
		{"x + 1 and y", "((x + 1) and y)"},
		{"a and b and c", "((a and b) and c)"},
		{"a[i]", "a[i]"},
		{"m[i][j]", "m[i][j]"},
		{"a[2 + 1]", "a[(2 + 1)]"},
		{"f()", "f()"},
		{"f(1, x + 2)", "f(1, (x + 2))"},
		{"f(g(1))", "f(g(1))"},
		{"max(a, b) + 1", "(max(a, b) + 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := parseExpr(t, tt.input)
			if got := exprString(e); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatementKinds(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"if x then end", "*parser.IfStmt"},
		{"repeat x := 1 until x", "*parser.RepeatStmt"},
		{"x := 1", "*parser.AssignStmt"},
		{"x", "*parser.AssignStmt"},
		{"f(1)", "*parser.CallExpr"},
		{"read x", "*parser.ReadStmt"},
		{"write x", "*parser.WriteStmt"},
		{"var x := 1", "*parser.VarStmt"},
		{"func f () end", "*parser.FuncStmt"},
		{"while (x) end", "*parser.WhileStmt"},
		{"for (i := 0; i < 1; i := i + 1) write i end", "*parser.ForStmt"},
		{"return 0", "*parser.ReturnStmt"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)
			if len(prog.Stmts) != 1 {
				t.Fatalf("got %d statements, want 1", len(prog.Stmts))
			}
			if got := fmt.Sprintf("%T", prog.Stmts[0]); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseProgram(t *testing.T) {
	prog := mustParse(t, "read x;\nif 0 < x then\n  fact := 1;\n  repeat\n    fact := fact * x;\n    x := x - 1\n  until x = 0;\n  write fact\nend")
	if prog.File != "test.rill" {
		t.Errorf("got file %q, want %q", prog.File, "test.rill")
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	ifStmt, ok := prog.Stmts[1].(*IfStmt)
	if !ok {
		t.Fatalf("statement 1: got %T, want *IfStmt", prog.Stmts[1])
	}
	if got := exprString(ifStmt.Cond); got != "(0 < x)" {
		t.Errorf("condition: got %s, want (0 < x)", got)
	}
	if len(ifStmt.Then) != 3 {
		t.Errorf("then branch: got %d statements, want 3", len(ifStmt.Then))
	}
	if ifStmt.Else != nil {
		t.Errorf("else branch: got %d statements, want none", len(ifStmt.Else))
	}
	rep, ok := ifStmt.Then[1].(*RepeatStmt)
	if !ok {
		t.Fatalf("then[1]: got %T, want *RepeatStmt", ifStmt.Then[1])
	}
	if len(rep.Body) != 2 {
		t.Errorf("repeat body: got %d statements, want 2", len(rep.Body))
	}
	if got := exprString(rep.Cond); got != "(x = 0)" {
		t.Errorf("repeat condition: got %s, want (x = 0)", got)
	}
}

func TestSemicolonsOptional(t *testing.T) {
	tests := []struct {
		input string
		count int
	}{
		{"write 1; write 2", 2},
		{"write 1 write 2", 2},
		{"write 1;", 1},
		{"write 1\nwrite 2\nwrite 3", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)
			if len(prog.Stmts) != tt.count {
				t.Errorf("got %d statements, want %d", len(prog.Stmts), tt.count)
			}
		})
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "if x then write 1 else write 0 end")
	s := prog.Stmts[0].(*IfStmt)
	if len(s.Then) != 1 || len(s.Else) != 1 {
		t.Fatalf("got then=%d else=%d, want 1 and 1", len(s.Then), len(s.Else))
	}
}

func TestElseBindsToNearestIf(t *testing.T) {
	prog := mustParse(t, "if a then if b then write 1 else write 2 end end")
	outer := prog.Stmts[0].(*IfStmt)
	if outer.Else != nil {
		t.Fatalf("outer if has an else branch")
	}
	if len(outer.Then) != 1 {
		t.Fatalf("outer then: got %d statements, want 1", len(outer.Then))
	}
	inner, ok := outer.Then[0].(*IfStmt)
	if !ok {
		t.Fatalf("outer then[0]: got %T, want *IfStmt", outer.Then[0])
	}
	if inner.Else == nil {
		t.Errorf("inner if lost its else branch")
	}
}

func TestParseAssignStatements(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		dims     int
		hasValue bool
	}{
		{"x := 1", "x", 0, true},
		{"x", "x", 0, false},
		{"a[0] := 5", "a", 1, true},
		{"m[i][j] := 0", "m", 2, true},
		{"a[1]", "a", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog := mustParse(t, tt.input)
			s, ok := prog.Stmts[0].(*AssignStmt)
			if !ok {
				t.Fatalf("got %T, want *AssignStmt", prog.Stmts[0])
			}
			if s.Name != tt.name {
				t.Errorf("name: got %q, want %q", s.Name, tt.name)
			}
			if len(s.Dims) != tt.dims {
				t.Errorf("dims: got %d, want %d", len(s.Dims), tt.dims)
			}
			if (s.Value != nil) != tt.hasValue {
				t.Errorf("value present: got %v, want %v", s.Value != nil, tt.hasValue)
			}
		})
	}
}

func TestParseCallStatement(t *testing.T) {
	prog := mustParse(t, "setup(); process(1, x); log(done, 2 * n)")
	wantArgs := []int{0, 2, 2}
	wantNames := []string{"setup", "process", "log"}
	if len(prog.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Stmts))
	}
	for i, s := range prog.Stmts {
		c, ok := s.(*CallExpr)
		if !ok {
			t.Fatalf("statement %d: got %T, want *CallExpr", i, s)
		}
		if c.Name != wantNames[i] {
			t.Errorf("statement %d: got name %q, want %q", i, c.Name, wantNames[i])
		}
		if len(c.Args) != wantArgs[i] {
			t.Errorf("statement %d: got %d args, want %d", i, len(c.Args), wantArgs[i])
		}
	}
}

func TestParseReadWrite(t *testing.T) {
	prog := mustParse(t, "read x; write x * 2")
	r, ok := prog.Stmts[0].(*ReadStmt)
	if !ok {
		t.Fatalf("read: got %T, want *ReadStmt", prog.Stmts[0])
	}
	if r.Name != "x" {
		t.Errorf("read target: got %q, want x", r.Name)
	}
	w, ok := prog.Stmts[1].(*WriteStmt)
	if !ok {
		t.Fatalf("write: got %T, want *WriteStmt", prog.Stmts[1])
	}
	if got := exprString(w.Value); got != "(x * 2)" {
		t.Errorf("write value: got %s, want (x * 2)", got)
	}
}

func TestParseWhileStatement(t *testing.T) {
	prog := mustParse(t, "while (n > 0) n := n / 2; write n end")
	s := prog.Stmts[0].(*WhileStmt)
	if got := exprString(s.Cond); got != "(n > 0)" {
		t.Errorf("condition: got %s, want (n > 0)", got)
	}
	if len(s.Body) != 2 {
		t.Errorf("body: got %d statements, want 2", len(s.Body))
	}
}

func TestParseForStatement(t *testing.T) {
	prog := mustParse(t, "for (var i := 0; i < 10; i := i + 1) write i end")
	s := prog.Stmts[0].(*ForStmt)
	if len(s.Init) != 1 || s.Init[0].Name != "i" {
		t.Fatalf("init: got %v, want single declarator i", s.Init)
	}
	if s.Init[0].Value == nil {
		t.Errorf("init: declarator has no initializer")
	}
	if got := exprString(s.Cond); got != "(i < 10)" {
		t.Errorf("condition: got %s, want (i < 10)", got)
	}
	if _, ok := s.Post.(*AssignStmt); !ok {
		t.Errorf("post: got %T, want *AssignStmt", s.Post)
	}
	if len(s.Body) != 1 {
		t.Errorf("body: got %d statements, want 1", len(s.Body))
	}
}

func TestParseForWithoutVar(t *testing.T) {
	prog := mustParse(t, "for (i := 0; i < 2; bump(i)) write i end")
	s := prog.Stmts[0].(*ForStmt)
	if len(s.Init) != 1 {
		t.Fatalf("init: got %d declarators, want 1", len(s.Init))
	}
	if _, ok := s.Post.(*CallExpr); !ok {
		t.Errorf("post: got %T, want *CallExpr", s.Post)
	}
}

func TestParseFuncStatement(t *testing.T) {
	prog := mustParse(t, "func add (a, b) return a + b end")
	s := prog.Stmts[0].(*FuncStmt)
	if s.Name != "add" {
		t.Errorf("name: got %q, want add", s.Name)
	}
	if len(s.Params.List) != 2 {
		t.Fatalf("params: got %d, want 2", len(s.Params.List))
	}
	if s.Params.List[0].Name != "a" || s.Params.List[1].Name != "b" {
		t.Errorf("params: got %q, %q, want a, b", s.Params.List[0].Name, s.Params.List[1].Name)
	}
	if len(s.Body) != 1 {
		t.Fatalf("body: got %d statements, want 1", len(s.Body))
	}
	ret, ok := s.Body[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("body[0]: got %T, want *ReturnStmt", s.Body[0])
	}
	if got := exprString(ret.Value); got != "(a + b)" {
		t.Errorf("return value: got %s, want (a + b)", got)
	}
}

func TestParseAnonymousFunc(t *testing.T) {
	prog := mustParse(t, "func (a) write a end")
	s := prog.Stmts[0].(*FuncStmt)
	if s.Name != "" {
		t.Errorf("name: got %q, want empty", s.Name)
	}
	if len(s.Params.List) != 1 {
		t.Errorf("params: got %d, want 1", len(s.Params.List))
	}
}

func TestParamDimensionsElideSize(t *testing.T) {
	prog := mustParse(t, "func f (a[], b[10], c[n]) write a end")
	s := prog.Stmts[0].(*FuncStmt)
	if len(s.Params.List) != 3 {
		t.Fatalf("params: got %d, want 3", len(s.Params.List))
	}
	for i, d := range s.Params.List {
		if len(d.Dims) != 1 {
			t.Errorf("param %d: got %d dims, want 1", i, len(d.Dims))
			continue
		}
		if d.Dims[0].X != nil {
			t.Errorf("param %d: dimension size was retained", i)
		}
	}
}

func TestParamDefaultValue(t *testing.T) {
	prog := mustParse(t, "func f (a := 1, b) write b end")
	s := prog.Stmts[0].(*FuncStmt)
	if len(s.Params.List) != 2 {
		t.Fatalf("params: got %d, want 2", len(s.Params.List))
	}
	if s.Params.List[0].Value == nil {
		t.Errorf("param a: missing default value")
	}
	if s.Params.List[1].Value != nil {
		t.Errorf("param b: unexpected default value")
	}
}

func TestParseVarStatement(t *testing.T) {
	prog := mustParse(t, "var a := 1, b[2][3], c[2] := (1, 2)")
	s := prog.Stmts[0].(*VarStmt)
	if len(s.Decls) != 3 {
		t.Fatalf("got %d declarators, want 3", len(s.Decls))
	}

	a, b, c := s.Decls[0], s.Decls[1], s.Decls[2]
	if a.Value == nil || len(a.Dims) != 0 || a.Values != nil {
		t.Errorf("a: want single-value initializer only")
	}
	if got := exprString(a.Value); got != "1" {
		t.Errorf("a: initializer got %s, want 1", got)
	}
	if len(b.Dims) != 2 || b.Value != nil || b.Values != nil {
		t.Errorf("b: want two dimensions and no initializer")
	}
	if got := exprString(b.Dims[0]); got != "[2]" {
		t.Errorf("b: first dimension got %s, want [2]", got)
	}
	if len(c.Dims) != 1 || len(c.Values) != 2 {
		t.Errorf("c: got %d dims and %d values, want 1 and 2", len(c.Dims), len(c.Values))
	}
}

func TestParseLambdaInitializer(t *testing.T) {
	prog := mustParse(t, "var f := lambda (a, b) : a + b")
	s := prog.Stmts[0].(*VarStmt)
	if len(s.Decls) != 1 || s.Decls[0].Value == nil {
		t.Fatalf("want one initialized declarator, got %v", s.Decls)
	}
	if got := exprString(s.Decls[0].Value); got != "lambda (a, b) : (a + b)" {
		t.Errorf("got %s, want lambda (a, b) : (a + b)", got)
	}
	lam, ok := s.Decls[0].Value.X.(*LambdaExpr)
	if !ok {
		t.Fatalf("initializer: got %T, want *LambdaExpr", s.Decls[0].Value.X)
	}
	if _, ok := lam.Body.(*BinaryExpr); !ok {
		t.Errorf("lambda body: got %T, want *BinaryExpr", lam.Body)
	}
}

func TestStatementLines(t *testing.T) {
	prog := mustParse(t, "write 1\nwrite 2\n\nwrite 3")
	want := []int{1, 2, 4}
	if len(prog.Stmts) != len(want) {
		t.Fatalf("got %d statements, want %d", len(prog.Stmts), len(want))
	}
	for i, s := range prog.Stmts {
		if s.Line() != want[i] {
			t.Errorf("statement %d: got line %d, want %d", i, s.Line(), want[i])
		}
	}
}

func TestRecoveryDiagnosticCounts(t *testing.T) {
	tests := []struct {
		input string
		count int
	}{
		{"", 0},
		{"write )", 1},
		{"if x then write 1", 1},
		{"repeat write 1 until x = 0 end", 1},
		{"* write 2", 1},
		{"write 1;;", 1},
		{"return", 1},
		{"if x then else write 1 end", 1},
		{"x := := 3", 2},
		{"var a[2] := 5", 2},
		{"write a[i + 1]", 2},
		{"func (", 2},
		{"repeat until x", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog, diags := Parse([]byte(tt.input), "test.rill")
			if prog == nil {
				t.Fatalf("nil program")
			}
			if len(diags) != tt.count {
				t.Errorf("got %d diagnostics (%v), want %d", len(diags), diags, tt.count)
			}
		})
	}
}

func TestRecoveryKeepsParsing(t *testing.T) {
	// The error in the first statement must not prevent the rest of the
	// file from parsing.
	prog, diags := Parse([]byte("write )\nwrite 2\nwrite 3"), "test.rill")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if len(prog.Stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Stmts))
	}
	w := prog.Stmts[0].(*WriteStmt)
	if w.Value != nil {
		t.Errorf("first write: got value %s, want none", exprString(w.Value))
	}
}

func TestDiagnosticMessages(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"write )", `unexpected token ")" in expression`},
		{"if x then write 1", "unexpected token EOF, expected end"},
		{"repeat write 1 until x = 0 end", `unexpected token "end" after end of program`},
		{"* write 2", `unexpected token "*" at start of statement`},
		{"while x > 0 end", `unexpected token "x", expected (`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, diags := Parse([]byte(tt.input), "test.rill")
			if len(diags) == 0 {
				t.Fatalf("no diagnostics")
			}
			if diags[0].Message != tt.want {
				t.Errorf("got %q, want %q", diags[0].Message, tt.want)
			}
		})
	}
}

func TestDiagnosticPositions(t *testing.T) {
	_, diags := Parse([]byte("write 1\nwrite )"), "test.rill")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Pos.Line != 2 {
		t.Errorf("got line %d, want 2", diags[0].Pos.Line)
	}
	if got, want := diags[0].String(), `test.rill:2: unexpected token ")" in expression`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDiagnosticsAreOrdered(t *testing.T) {
	_, diags := Parse([]byte("write )\nwhile x > 0 end\nif y then write 1"), "test.rill")
	if len(diags) < 3 {
		t.Fatalf("got %d diagnostics, want at least 3", len(diags))
	}
	for i := 1; i < len(diags); i++ {
		if diags[i].Pos.Line < diags[i-1].Pos.Line {
			t.Errorf("diagnostic %d out of order: line %d after line %d", i, diags[i].Pos.Line, diags[i-1].Pos.Line)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	src := "write )\nif x then write 1\nrepeat until x"
	prog1, diags1 := Parse([]byte(src), "test.rill")
	prog2, diags2 := Parse([]byte(src), "test.rill")
	if !reflect.DeepEqual(diags1, diags2) {
		t.Errorf("diagnostics differ between runs:\n%v\n%v", diags1, diags2)
	}
	if !reflect.DeepEqual(prog1, prog2) {
		t.Errorf("programs differ between runs")
	}
}

func TestIntegerLiteralOverflow(t *testing.T) {
	prog, diags := Parse([]byte("write 9223372036854775808"), "test.rill")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if got, want := diags[0].Message, "integer literal 9223372036854775808 out of range"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	w := prog.Stmts[0].(*WriteStmt)
	lit, ok := w.Value.(*IntLit)
	if !ok {
		t.Fatalf("value: got %T, want *IntLit", w.Value)
	}
	if lit.Value != math.MaxInt64 {
		t.Errorf("got %d, want %d", lit.Value, int64(math.MaxInt64))
	}
}

func TestIntegerLiteralMax(t *testing.T) {
	prog := mustParse(t, "write 9223372036854775807")
	lit := prog.Stmts[0].(*WriteStmt).Value.(*IntLit)
	if lit.Value != math.MaxInt64 {
		t.Errorf("got %d, want %d", lit.Value, int64(math.MaxInt64))
	}
}

func TestParseEmptyInput(t *testing.T) {
	prog, diags := Parse(nil, "test.rill")
	if prog == nil {
		t.Fatalf("nil program")
	}
	if len(prog.Stmts) != 0 || len(diags) != 0 {
		t.Errorf("got %d statements and %d diagnostics, want none", len(prog.Stmts), len(diags))
	}
}

// sliceSource feeds a fixed token stream and then EOF forever, which is
// the TokenSource contract.
type sliceSource struct {
	toks []Token
	pos  int
}

func (s *sliceSource) NextToken() Token {
	if s.pos >= len(s.toks) {
		return Token{Kind: TokenEOF}
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok
}

func toks(kinds ...TokenKind) []Token {
	out := make([]Token, len(kinds))
	for i, k := range kinds {
		out[i] = Token{Kind: k}
	}
	return out
}

func TestParseSyntheticStreams(t *testing.T) {
	// Streams a lexer would never produce must still terminate with the
	// tree and diagnostics the recovery rules imply.
	streams := [][]Token{
		nil,
		toks(TokenEnd, TokenEnd, TokenElse, TokenUntil),
		toks(TokenAssign, TokenAssign, TokenAssign),
		toks(TokenLParen, TokenLParen, TokenLParen),
		toks(TokenFunc, TokenIdent, TokenLParen, TokenIdent),
		toks(TokenFor, TokenLParen, TokenSemicolon, TokenSemicolon),
		toks(TokenRBracket, TokenRParen, TokenComma, TokenColon),
		toks(TokenRepeat, TokenRepeat, TokenRepeat, TokenUntil),
		toks(TokenIf, TokenThen, TokenElse, TokenEnd),
	}
	for i, stream := range streams {
		p := New(&sliceSource{toks: stream})
		prog := p.Parse()
		if prog == nil {
			t.Errorf("stream %d: got nil program", i)
		}
	}
}

func TestParseTruncatedPrefixes(t *testing.T) {
	// Every prefix of a valid program must parse to completion.
	src := "func fib (n) if n < 2 then return n end return fib(n - 1) + fib(n - 2) end\nfor (var i := 0; i < 10; i := i + 1) write fib(i) end"
	for i := 0; i <= len(src); i++ {
		prog, _ := Parse([]byte(src[:i]), "test.rill")
		if prog == nil {
			t.Fatalf("prefix of length %d: nil program", i)
		}
	}
}
