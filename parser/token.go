package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment

	// Literals
	TokenIdent
	TokenIntLiteral

	// Keywords
	TokenIf
	TokenThen
	TokenElse
	TokenEnd
	TokenRepeat
	TokenUntil
	TokenRead
	TokenWrite
	TokenVar
	TokenFunc
	TokenWhile
	TokenFor
	TokenReturn
	TokenLambda
	TokenAnd

	// Operators and punctuation
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenLT
	TokenEQ
	TokenGT
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenAssign
	TokenColon
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenError:      "Error",
	TokenWhitespace: "Whitespace",
	TokenComment:    "Comment",
	TokenIdent:      "Identifier",
	TokenIntLiteral: "IntLiteral",
	TokenIf:         "if",
	TokenThen:       "then",
	TokenElse:       "else",
	TokenEnd:        "end",
	TokenRepeat:     "repeat",
	TokenUntil:      "until",
	TokenRead:       "read",
	TokenWrite:      "write",
	TokenVar:        "var",
	TokenFunc:       "func",
	TokenWhile:      "while",
	TokenFor:        "for",
	TokenReturn:     "return",
	TokenLambda:     "lambda",
	TokenAnd:        "and",
	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenStar:       "*",
	TokenSlash:      "/",
	TokenLT:         "<",
	TokenEQ:         "=",
	TokenGT:         ">",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenSemicolon:  ";",
	TokenComma:      ",",
	TokenAssign:     ":=",
	TokenColon:      ":",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

var keywords = map[string]TokenKind{
	"if":     TokenIf,
	"then":   TokenThen,
	"else":   TokenElse,
	"end":    TokenEnd,
	"repeat": TokenRepeat,
	"until":  TokenUntil,
	"read":   TokenRead,
	"write":  TokenWrite,
	"var":    TokenVar,
	"func":   TokenFunc,
	"while":  TokenWhile,
	"for":    TokenFor,
	"return": TokenReturn,
	"lambda": TokenLambda,
	"and":    TokenAnd,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
