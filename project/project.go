// Package project locates and loads rill.toml, the per-project
// configuration file. Tools walk upward from their working directory so
// they can run from anywhere inside a project tree.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the file that marks a project root.
const ConfigFileName = "rill.toml"

const (
	DefaultIndent         = 2
	DefaultMaxDiagnostics = 100
)

// Config holds the settings read from rill.toml. Keys absent from the
// file keep their defaults; unknown keys are ignored.
type Config struct {
	Fmt FmtConfig `toml:"fmt"`
	LSP LSPConfig `toml:"lsp"`
}

// FmtConfig configures the source formatter.
type FmtConfig struct {
	// Indent is the number of spaces per nesting level.
	Indent int `toml:"indent"`
}

// LSPConfig configures the language server.
type LSPConfig struct {
	// MaxDiagnostics caps how many diagnostics are published per file.
	MaxDiagnostics int `toml:"max-diagnostics"`
}

// Project is a directory tree rooted where rill.toml was found, or at
// the starting directory when no config file exists.
type Project struct {
	RootDir    string
	ConfigPath string // empty when running on defaults
	Config     Config
}

// Default returns the configuration used when no rill.toml exists.
func Default() Config {
	return Config{
		Fmt: FmtConfig{Indent: DefaultIndent},
		LSP: LSPConfig{MaxDiagnostics: DefaultMaxDiagnostics},
	}
}

// Load locates the project containing the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom walks upward from dir until it finds rill.toml. A missing
// config file is not an error; the project then runs on defaults rooted
// at dir. A config file that cannot be parsed is.
func LoadFrom(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	proj := &Project{RootDir: abs, Config: Default()}
	for d := abs; ; {
		path := filepath.Join(d, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &proj.Config); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
			proj.RootDir = d
			proj.ConfigPath = path
			break
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	normalize(&proj.Config)
	return proj, nil
}

// normalize replaces unusable values with defaults so callers never see
// a zero indent or diagnostic cap.
func normalize(cfg *Config) {
	if cfg.Fmt.Indent <= 0 {
		cfg.Fmt.Indent = DefaultIndent
	}
	if cfg.LSP.MaxDiagnostics <= 0 {
		cfg.LSP.MaxDiagnostics = DefaultMaxDiagnostics
	}
}
