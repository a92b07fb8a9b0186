package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rill-lang/rill/format"
	"github.com/rill-lang/rill/parser"
	"github.com/rill-lang/rill/project"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Format a .rill file",
		Long: `Format a .rill file to stdout.

If no file is provided, reads Rill source from stdin.
Source with syntax errors is refused rather than rewritten.
The indent width comes from the nearest rill.toml, if any.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				ext := filepath.Ext(filename)
				if ext != ".rill" {
					return fmt.Errorf("expected .rill file, got %s", ext)
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			prog, diags := parser.Parse(source, filename)
			if len(diags) > 0 {
				format.WriteDiagnostics(os.Stderr, diags, !color.NoColor)
				return fmt.Errorf("refusing to format source with syntax errors")
			}

			startDir := "."
			if filename != "" {
				startDir = filepath.Dir(filename)
			}
			proj, err := project.LoadFrom(startDir)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			enc := format.NewSourceEncoder(&buf)
			enc.SetIndent(proj.Config.Fmt.Indent)
			if err := enc.Encode(prog); err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(filename, buf.Bytes(), 0644)
			}
			_, err = os.Stdout.Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
