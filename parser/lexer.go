package parser

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(startPos)
	}

	if ch == '{' {
		return l.scanComment(startPos)
	}

	if isLetter(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
	end := l.Position()
	return Token{
		Kind:    TokenWhitespace,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

// scanComment consumes a brace comment. Comments do not nest; an
// unterminated comment runs to end of input.
func (l *Lexer) scanComment(start Position) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != '}' {
		l.advance()
	}
	if l.peek() == '}' {
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenComment,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	end := l.Position()
	return Token{
		Kind:    TokenIntLiteral,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '+':
		l.advance()
		return l.token(TokenPlus, start)
	case '-':
		l.advance()
		return l.token(TokenMinus, start)
	case '*':
		l.advance()
		return l.token(TokenStar, start)
	case '/':
		l.advance()
		return l.token(TokenSlash, start)
	case '<':
		l.advance()
		return l.token(TokenLT, start)
	case '=':
		l.advance()
		return l.token(TokenEQ, start)
	case '>':
		l.advance()
		return l.token(TokenGT, start)
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)

	case ':':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenAssign, start)
		}
		l.advance()
		return l.token(TokenColon, start)
	}

	l.advance()
	end := l.Position()
	return Token{
		Kind:    TokenError,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
