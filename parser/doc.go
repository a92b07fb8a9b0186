// Package parser provides the lexer, syntax analyzer, and AST for the
// Rill language.
//
// # Overview
//
// The parser is a recursive-descent analyzer with panic-mode recovery:
// every syntax error is recorded as a diagnostic and parsing continues,
// so one pass over a file yields both a best-effort tree and the full
// error list. It is built for tooling (CLI, formatter, LSP) where
// malformed input is the common case.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Position   │     │ Diagnostics │
//	                    │  Tracking   │     │  Recovery   │
//	                    └─────────────┘     └─────────────┘
//
// The parser pulls tokens through the TokenSource interface and keeps a
// single current token; there is no further lookahead and no pushback.
// *Lexer is the usual source, but tests and other front ends may supply
// their own.
//
// # Grammar
//
// Statements separate by optional semicolons; a sequence ends at end of
// file or at one of the closers end, else, until:
//
//	program   = stmt-seq
//	stmt-seq  = statement { [";"] statement }
//	statement = if-stmt | repeat-stmt | assign-stmt | read-stmt
//	          | write-stmt | func-stmt | var-stmt | while-stmt
//	          | for-stmt | return-stmt
//	if-stmt     = "if" exp "then" stmt-seq ["else" stmt-seq] "end"
//	repeat-stmt = "repeat" stmt-seq "until" exp
//	while-stmt  = "while" "(" exp ")" stmt-seq "end"
//	for-stmt    = "for" "(" ["var"] var-list ";" exp ";" assign-stmt ")"
//	              stmt-seq "end"
//	func-stmt   = "func" [ident] params stmt-seq "end"
//	assign-stmt = ident [ dims [":=" value] | ":=" value | call-args ]
//	read-stmt   = "read" ident
//	write-stmt  = "write" exp
//	var-stmt    = "var" var-list
//	return-stmt = "return" exp
//
// Expressions use a fixed three-level ladder. Comparisons do not chain;
// additive and multiplicative operators associate to the left:
//
//	exp        = simple-exp [ ("<" | "=" | ">") simple-exp ]
//	simple-exp = term { ("+" | "-" | "and") term }
//	term       = factor { ("*" | "/") factor }
//	factor     = number | ident [dims | call-args] | "(" exp ")"
//
// Initializers introduced by ":=" accept either an expression or an
// expression-bodied lambda; lambdas are not reachable from factor
// position:
//
//	value = ":=" ( exp | "lambda" params ":" exp )
//
// # Error Recovery
//
// The parser never panics and never stops early. Recovery is local:
//
//   - match records a diagnostic on mismatch and leaves the cursor in
//     place, so a missing token costs one message and nothing is skipped.
//   - The statement dispatcher and factor report an unexpected token and
//     skip it unconditionally. These two forced skips are what guarantee
//     the parser always reaches end of input.
//
// Diagnostics carry the position and message only; rendering and
// presentation live in the format package.
package parser
