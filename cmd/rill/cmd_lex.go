package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rill-lang/rill/parser"
)

func newLexCmd() *cobra.Command {
	var includeTrivia bool

	cmd := &cobra.Command{
		Use:   "lex <file>",
		Short: "Tokenize a .rill file and print one token per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			lex := parser.NewLexer(data, args[0])
			w := bufio.NewWriter(os.Stdout)
			defer w.Flush()

			for {
				tok := lex.NextToken()
				if tok.Kind == parser.TokenEOF {
					break
				}
				if !includeTrivia && (tok.Kind == parser.TokenWhitespace || tok.Kind == parser.TokenComment) {
					continue
				}
				start := tok.Span.Start
				fmt.Fprintf(w, "%d:%d\t%s\t%q\n", start.Line, start.Column, tok.Kind, tok.Literal)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeTrivia, "trivia", false, "include whitespace and comment tokens")

	return cmd
}
