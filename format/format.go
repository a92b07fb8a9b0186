// Package format renders parsed Rill programs: JSON for tooling, an
// indented tree dump for debugging, canonical source for the formatter,
// and diagnostic listings for the terminal.
package format

import (
	"encoding"

	"github.com/rill-lang/rill/parser"
)

// Encoder is implemented by all program encoders.
type Encoder interface {
	encoding.TextMarshaler
	Encode(prog *parser.Program) error
}
