package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rill-lang/rill/format"
	"github.com/rill-lang/rill/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .rill file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			prog, diags, err := parser.ParseFile(filename)
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewASTJSONEncoder(os.Stdout)
			case "tree":
				encoder = format.NewTreeEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s (expected json or tree)", outputFormat)
			}

			if err := encoder.Encode(prog); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			if len(diags) > 0 {
				format.WriteDiagnostics(os.Stderr, diags, !color.NoColor)
				noun := "errors"
				if len(diags) == 1 {
					noun = "error"
				}
				return fmt.Errorf("%d syntax %s in %s", len(diags), noun, filename)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")

	return cmd
}
