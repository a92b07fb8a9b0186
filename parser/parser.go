package parser

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

// TokenSource supplies tokens one pull at a time. A source must keep
// returning EOF tokens once its input is exhausted.
type TokenSource interface {
	NextToken() Token
}

// Diagnostic is one recorded syntax error.
type Diagnostic struct {
	Pos     Position
	Message string
}

func (d Diagnostic) String() string {
	if d.Pos.File == "" {
		return fmt.Sprintf("%d: %s", d.Pos.Line, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s", d.Pos.File, d.Pos.Line, d.Message)
}

// Parser consumes a token stream and produces a Program. Errors are
// recorded as diagnostics and parsing continues; it never aborts. A
// Parser is single-use and not safe for concurrent use.
type Parser struct {
	src      TokenSource
	tok      Token
	diags    []Diagnostic
	hadError bool
}

func New(src TokenSource) *Parser {
	return &Parser{src: src}
}

// Parse parses input and returns the program along with all recorded
// diagnostics.
func Parse(input []byte, file string) (*Program, []Diagnostic) {
	p := New(NewLexer(input, file))
	prog := p.Parse()
	return prog, p.Diagnostics()
}

// ParseFile reads and parses the named file.
func ParseFile(path string) (*Program, []Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	prog, diags := Parse(data, path)
	return prog, diags, nil
}

// Parse runs the parser over the whole token stream. The returned
// Program is never nil; a program that was empty or fully erroneous has
// an empty statement list.
func (p *Parser) Parse() *Program {
	p.next()
	prog := new(Program)
	prog.line = p.tok.Span.Start.Line
	prog.File = p.tok.Span.Start.File
	prog.Stmts = p.stmtSequence()
	if p.tok.Kind != TokenEOF {
		p.errorf("unexpected token %s after end of program", describeToken(p.tok))
	}
	return prog
}

// Diagnostics returns the recorded syntax errors in source order.
func (p *Parser) Diagnostics() []Diagnostic { return p.diags }

// HadError reports whether any diagnostic was recorded.
func (p *Parser) HadError() bool { return p.hadError }

// next pulls the following significant token into the cursor, skipping
// whitespace and comment trivia.
func (p *Parser) next() {
	for {
		tok := p.src.NextToken()
		if tok.Kind == TokenWhitespace || tok.Kind == TokenComment {
			continue
		}
		p.tok = tok
		return
	}
}

// match consumes the current token when it has the expected kind. On a
// mismatch it records a diagnostic and leaves the cursor in place; the
// enclosing production decides how to resynchronize.
func (p *Parser) match(kind TokenKind) {
	if p.tok.Kind == kind {
		p.next()
		return
	}
	p.errorf("unexpected token %s, expected %s", describeToken(p.tok), kind)
}

func (p *Parser) line() int { return p.tok.Span.Start.Line }

func (p *Parser) errorf(format string, args ...any) {
	p.hadError = true
	p.diags = append(p.diags, Diagnostic{
		Pos:     p.tok.Span.Start,
		Message: fmt.Sprintf(format, args...),
	})
}

// describeToken renders a token for diagnostics: the quoted literal when
// there is one, the kind name otherwise (EOF has no literal).
func describeToken(tok Token) string {
	if tok.Literal == "" {
		return tok.Kind.String()
	}
	return fmt.Sprintf("%q", tok.Literal)
}

// stmtSequence parses statements until end of file or one of the block
// closers (end, else, until). Closers are never consumed here; the
// enclosing construct matches them. Semicolons between statements are
// optional.
func (p *Parser) stmtSequence() []Stmt {
	var stmts []Stmt
	if s := p.statement(); s != nil {
		stmts = append(stmts, s)
	}
	for !p.atSequenceEnd() {
		if p.tok.Kind == TokenSemicolon {
			p.match(TokenSemicolon)
		}
		if p.atSequenceEnd() {
			break
		}
		if s := p.statement(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *Parser) atSequenceEnd() bool {
	switch p.tok.Kind {
	case TokenEOF, TokenEnd, TokenElse, TokenUntil:
		return true
	}
	return false
}

// statement dispatches on the current token. An unknown leading token is
// reported and skipped unconditionally; that skip is what keeps the
// sequence loop progressing on malformed input.
func (p *Parser) statement() Stmt {
	switch p.tok.Kind {
	case TokenIf:
		return p.ifStmt()
	case TokenRepeat:
		return p.repeatStmt()
	case TokenIdent:
		return p.assignStmt()
	case TokenRead:
		return p.readStmt()
	case TokenWrite:
		return p.writeStmt()
	case TokenFunc:
		return p.funcStmt()
	case TokenVar:
		return p.varStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenFor:
		return p.forStmt()
	case TokenReturn:
		return p.returnStmt()
	case TokenEnd, TokenEOF:
		return nil
	default:
		p.errorf("unexpected token %s at start of statement", describeToken(p.tok))
		p.next()
		return nil
	}
}

func (p *Parser) ifStmt() Stmt {
	s := new(IfStmt)
	s.line = p.line()
	p.match(TokenIf)
	s.Cond = p.exp()
	p.match(TokenThen)
	s.Then = p.stmtSequence()
	if p.tok.Kind == TokenElse {
		p.match(TokenElse)
		s.Else = p.stmtSequence()
	}
	p.match(TokenEnd)
	return s
}

func (p *Parser) repeatStmt() Stmt {
	s := new(RepeatStmt)
	s.line = p.line()
	p.match(TokenRepeat)
	s.Body = p.stmtSequence()
	p.match(TokenUntil)
	s.Cond = p.exp()
	return s
}

// assignStmt parses a statement beginning with an identifier: a plain or
// indexed assignment, a call, or a bare identifier (which stays an
// assignment with no value).
func (p *Parser) assignStmt() Stmt {
	s := new(AssignStmt)
	s.line = p.line()
	if p.tok.Kind == TokenIdent {
		s.Name = p.tok.Literal
	}
	p.match(TokenIdent)
	switch p.tok.Kind {
	case TokenLBracket:
		s.Dims = p.dimExp(true)
		if p.tok.Kind == TokenAssign {
			s.Value = p.valueExp()
		}
	case TokenAssign:
		s.Value = p.valueExp()
	case TokenLParen:
		return p.callStmt(s.Name, s.Line())
	}
	return s
}

func (p *Parser) readStmt() Stmt {
	s := new(ReadStmt)
	s.line = p.line()
	p.match(TokenRead)
	if p.tok.Kind == TokenIdent {
		s.Name = p.tok.Literal
	}
	p.match(TokenIdent)
	return s
}

func (p *Parser) writeStmt() Stmt {
	s := new(WriteStmt)
	s.line = p.line()
	p.match(TokenWrite)
	s.Value = p.exp()
	return s
}

func (p *Parser) whileStmt() Stmt {
	s := new(WhileStmt)
	s.line = p.line()
	p.match(TokenWhile)
	p.match(TokenLParen)
	s.Cond = p.exp()
	p.match(TokenRParen)
	s.Body = p.stmtSequence()
	p.match(TokenEnd)
	return s
}

// returnStmt always parses an operand; a bare return is reported as an
// expression error at the following token.
func (p *Parser) returnStmt() Stmt {
	s := new(ReturnStmt)
	s.line = p.line()
	p.match(TokenReturn)
	s.Value = p.exp()
	return s
}

func (p *Parser) varStmt() Stmt {
	s := new(VarStmt)
	s.line = p.line()
	p.match(TokenVar)
	s.Decls = p.varList(true)
	return s
}

func (p *Parser) funcStmt() Stmt {
	s := new(FuncStmt)
	s.line = p.line()
	p.match(TokenFunc)
	if p.tok.Kind == TokenIdent {
		s.Name = p.tok.Literal
		p.match(TokenIdent)
	}
	s.Params = p.params()
	s.Body = p.stmtSequence()
	p.match(TokenEnd)
	return s
}

func (p *Parser) forStmt() Stmt {
	s := new(ForStmt)
	s.line = p.line()
	p.match(TokenFor)
	p.match(TokenLParen)
	if p.tok.Kind == TokenVar {
		p.match(TokenVar)
	}
	s.Init = p.varList(true)
	p.match(TokenSemicolon)
	s.Cond = p.exp()
	p.match(TokenSemicolon)
	s.Post = p.assignStmt()
	p.match(TokenRParen)
	s.Body = p.stmtSequence()
	p.match(TokenEnd)
	return s
}

func (p *Parser) callStmt(name string, line int) *CallExpr {
	c := new(CallExpr)
	c.line = line
	c.Name = name
	p.match(TokenLParen)
	for p.tok.Kind != TokenRParen {
		if arg := p.exp(); arg != nil {
			c.Args = append(c.Args, arg)
		}
		if p.tok.Kind == TokenComma {
			p.match(TokenComma)
		} else {
			break
		}
	}
	p.match(TokenRParen)
	return c
}

// varList parses a comma-separated declarator list. With explicitDim set
// (var statements and for headers) dimension sizes are kept and a
// parenthesized multi-value initializer may follow them; in parameter
// lists sizes are elided and no list initializer is allowed. Single-value
// initializers are accepted in both contexts.
func (p *Parser) varList(explicitDim bool) []*Declarator {
	var decls []*Declarator
	for p.tok.Kind == TokenIdent {
		d := new(Declarator)
		d.line = p.line()
		d.Name = p.tok.Literal
		p.match(TokenIdent)
		if p.tok.Kind == TokenAssign {
			d.Value = p.valueExp()
		} else if p.tok.Kind == TokenLBracket {
			d.Dims = p.dimExp(explicitDim)
			if p.tok.Kind == TokenAssign && explicitDim {
				d.Values = p.multiValueExp()
			}
		}
		decls = append(decls, d)
		if p.tok.Kind == TokenComma {
			p.match(TokenComma)
		} else {
			break
		}
	}
	return decls
}

func (p *Parser) valueExp() *ValueExpr {
	v := new(ValueExpr)
	v.line = p.line()
	p.match(TokenAssign)
	if p.tok.Kind == TokenLambda {
		v.X = p.lambdaExp()
	} else {
		v.X = p.exp()
	}
	return v
}

func (p *Parser) multiValueExp() []*ValueExpr {
	var values []*ValueExpr
	p.match(TokenAssign)
	p.match(TokenLParen)
	for {
		v := new(ValueExpr)
		v.line = p.line()
		v.X = p.exp()
		values = append(values, v)
		if p.tok.Kind == TokenComma {
			p.match(TokenComma)
		} else {
			break
		}
	}
	p.match(TokenRParen)
	return values
}

// dimExp parses one or more bracketed dimensions. With explicitDim set
// the bracket must hold a bare identifier or an additive expression;
// otherwise non-empty contents are parsed and dropped, since parameter
// annotations elide the size.
func (p *Parser) dimExp(explicitDim bool) []*DimExpr {
	var dims []*DimExpr
	for p.tok.Kind == TokenLBracket {
		d := new(DimExpr)
		d.line = p.line()
		p.match(TokenLBracket)
		if explicitDim {
			if p.tok.Kind == TokenIdent {
				d.X = p.identExp()
			} else {
				d.X = p.simpleExp()
			}
		} else if p.tok.Kind != TokenRBracket {
			if p.tok.Kind == TokenIdent {
				p.identExp()
			} else {
				p.simpleExp()
			}
		}
		p.match(TokenRBracket)
		dims = append(dims, d)
	}
	return dims
}

func (p *Parser) params() *Params {
	ps := new(Params)
	ps.line = p.line()
	p.match(TokenLParen)
	ps.List = p.varList(false)
	p.match(TokenRParen)
	return ps
}

func (p *Parser) lambdaExp() Expr {
	e := new(LambdaExpr)
	e.line = p.line()
	p.match(TokenLambda)
	e.Params = p.params()
	p.match(TokenColon)
	e.Body = p.exp()
	return e
}

// exp parses a comparison. At most one relational operator applies at
// this level; relations do not chain.
func (p *Parser) exp() Expr {
	t := p.simpleExp()
	if k := p.tok.Kind; k == TokenLT || k == TokenEQ || k == TokenGT {
		op := new(BinaryExpr)
		op.line = p.line()
		op.Op = k
		op.Left = t
		p.next()
		op.Right = p.simpleExp()
		return op
	}
	return t
}

// simpleExp parses additive expressions; plus, minus, and the logical
// and operator fold to the left.
func (p *Parser) simpleExp() Expr {
	t := p.term()
	for {
		k := p.tok.Kind
		if k != TokenPlus && k != TokenMinus && k != TokenAnd {
			break
		}
		op := new(BinaryExpr)
		op.line = p.line()
		op.Op = k
		op.Left = t
		p.next()
		op.Right = p.term()
		t = op
	}
	return t
}

func (p *Parser) term() Expr {
	t := p.factor()
	for {
		k := p.tok.Kind
		if k != TokenStar && k != TokenSlash {
			break
		}
		op := new(BinaryExpr)
		op.line = p.line()
		op.Op = k
		op.Left = t
		p.next()
		op.Right = p.factor()
		t = op
	}
	return t
}

// factor parses an atom: an integer literal, an identifier with optional
// subscripts or call arguments, or a parenthesized expression. Anything
// else is reported and skipped unconditionally, mirroring the statement
// dispatch; together those two skips guarantee forward progress.
func (p *Parser) factor() Expr {
	switch p.tok.Kind {
	case TokenIntLiteral:
		return p.intLit()
	case TokenIdent:
		id := new(Ident)
		id.line = p.line()
		id.Name = p.tok.Literal
		p.match(TokenIdent)
		if p.tok.Kind == TokenLBracket {
			id.Dims = p.dimExp(true)
		} else if p.tok.Kind == TokenLParen {
			return p.callStmt(id.Name, id.Line())
		}
		return id
	case TokenLParen:
		p.match(TokenLParen)
		t := p.exp()
		p.match(TokenRParen)
		return t
	default:
		p.errorf("unexpected token %s in expression", describeToken(p.tok))
		p.next()
		return nil
	}
}

// intLit converts the literal with 64-bit range checking. An
// out-of-range literal is reported and saturates to the maximum so the
// tree stays usable.
func (p *Parser) intLit() Expr {
	lit := new(IntLit)
	lit.line = p.line()
	v, err := strconv.ParseInt(p.tok.Literal, 10, 64)
	if err != nil {
		p.errorf("integer literal %s out of range", p.tok.Literal)
		v = math.MaxInt64
	}
	lit.Value = v
	p.match(TokenIntLiteral)
	return lit
}

func (p *Parser) identExp() *Ident {
	id := new(Ident)
	id.line = p.line()
	id.Name = p.tok.Literal
	p.match(TokenIdent)
	return id
}
