package format

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/rill-lang/rill/parser"
)

// WriteDiagnostics prints one diagnostic per line in compiler style,
// "file:line: error: message". With colorize set the error label is
// written in red regardless of whether w is a terminal.
func WriteDiagnostics(w io.Writer, diags []parser.Diagnostic, colorize bool) error {
	label := "error:"
	if colorize {
		red := color.New(color.FgRed, color.Bold)
		red.EnableColor()
		label = red.Sprint("error:")
	}
	for _, d := range diags {
		prefix := strconv.Itoa(d.Pos.Line)
		if d.Pos.File != "" {
			prefix = d.Pos.File + ":" + prefix
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s\n", prefix, label, d.Message); err != nil {
			return err
		}
	}
	return nil
}
