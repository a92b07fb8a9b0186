package parser

import "testing"

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"x", []TokenKind{TokenIdent, TokenEOF}},
		{"42", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"x := 42", []TokenKind{TokenIdent, TokenAssign, TokenIntLiteral, TokenEOF}},
		{"if x < 1 then end", []TokenKind{TokenIf, TokenIdent, TokenLT, TokenIntLiteral, TokenThen, TokenEnd, TokenEOF}},
		{"repeat until", []TokenKind{TokenRepeat, TokenUntil, TokenEOF}},
		{"read write var func", []TokenKind{TokenRead, TokenWrite, TokenVar, TokenFunc, TokenEOF}},
		{"while for return lambda and", []TokenKind{TokenWhile, TokenFor, TokenReturn, TokenLambda, TokenAnd, TokenEOF}},
		{"+ - * /", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenEOF}},
		{"< = >", []TokenKind{TokenLT, TokenEQ, TokenGT, TokenEOF}},
		{"( ) [ ] ; ,", []TokenKind{TokenLParen, TokenRParen, TokenLBracket, TokenRBracket, TokenSemicolon, TokenComma, TokenEOF}},
		{":= :", []TokenKind{TokenAssign, TokenColon, TokenEOF}},
		{":", []TokenKind{TokenColon, TokenEOF}},
		{"{ comment } x", []TokenKind{TokenIdent, TokenEOF}},
		{"{ spans\nlines } 1", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"ifx", []TokenKind{TokenIdent, TokenEOF}},
		{"_tmp x2", []TokenKind{TokenIdent, TokenIdent, TokenEOF}},
		{"a123b", []TokenKind{TokenIdent, TokenEOF}},
		{"1a", []TokenKind{TokenIntLiteral, TokenIdent, TokenEOF}},
		{"?", []TokenKind{TokenError, TokenEOF}},
		{"x ? y", []TokenKind{TokenIdent, TokenError, TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.rill")
			var got []TokenKind
			for {
				tok := lexer.NextToken()
				if tok.Kind != TokenWhitespace && tok.Kind != TokenComment {
					got = append(got, tok.Kind)
				}
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Errorf("got %d tokens (%v), want %d", len(got), got, len(tt.expected))
				return
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	lexer := NewLexer([]byte("total := counter + 10"), "test.rill")
	var got []string
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Kind == TokenWhitespace {
			continue
		}
		got = append(got, tok.Literal)
	}
	want := []string{"total", ":=", "counter", "+", "10"}
	if len(got) != len(want) {
		t.Fatalf("got %d literals (%v), want %d", len(got), got, len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("literal %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLexerPositions(t *testing.T) {
	input := "x := 1\nwrite x"
	lexer := NewLexer([]byte(input), "test.rill")

	type pos struct {
		line   int
		column int
		offset int
	}
	tests := []struct {
		kind TokenKind
		pos  pos
	}{
		{TokenIdent, pos{1, 1, 0}},
		{TokenAssign, pos{1, 3, 2}},
		{TokenIntLiteral, pos{1, 6, 5}},
		{TokenWrite, pos{2, 1, 7}},
		{TokenIdent, pos{2, 7, 13}},
	}

	i := 0
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if tok.Kind == TokenWhitespace {
			continue
		}
		if i >= len(tests) {
			t.Fatalf("unexpected extra token %v", tok.Kind)
		}
		tt := tests[i]
		if tok.Kind != tt.kind {
			t.Errorf("token %d: got kind %v, want %v", i, tok.Kind, tt.kind)
		}
		start := tok.Span.Start
		if start.Line != tt.pos.line || start.Column != tt.pos.column || start.Offset != tt.pos.offset {
			t.Errorf("token %d: got %d:%d offset %d, want %d:%d offset %d",
				i, start.Line, start.Column, start.Offset, tt.pos.line, tt.pos.column, tt.pos.offset)
		}
		if start.File != "test.rill" {
			t.Errorf("token %d: got file %q, want %q", i, start.File, "test.rill")
		}
		i++
	}
	if i != len(tests) {
		t.Errorf("got %d tokens, want %d", i, len(tests))
	}
}

func TestLexerCommentToken(t *testing.T) {
	lexer := NewLexer([]byte("{ a note }"), "test.rill")
	tok := lexer.NextToken()
	if tok.Kind != TokenComment {
		t.Fatalf("got kind %v, want %v", tok.Kind, TokenComment)
	}
	if tok.Literal != "{ a note }" {
		t.Errorf("got literal %q, want %q", tok.Literal, "{ a note }")
	}
}

func TestLexerUnterminatedComment(t *testing.T) {
	lexer := NewLexer([]byte("{ runs to the end"), "test.rill")
	tok := lexer.NextToken()
	if tok.Kind != TokenComment {
		t.Fatalf("got kind %v, want %v", tok.Kind, TokenComment)
	}
	if tok.Literal != "{ runs to the end" {
		t.Errorf("got literal %q, want %q", tok.Literal, "{ runs to the end")
	}
	if next := lexer.NextToken(); next.Kind != TokenEOF {
		t.Errorf("after comment: got %v, want EOF", next.Kind)
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	lexer := NewLexer([]byte("x"), "test.rill")
	lexer.NextToken()
	for i := 0; i < 3; i++ {
		if tok := lexer.NextToken(); tok.Kind != TokenEOF {
			t.Fatalf("pull %d: got %v, want EOF", i, tok.Kind)
		}
	}
}
