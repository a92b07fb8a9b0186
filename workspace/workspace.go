// Package workspace tracks the parsed state of every Rill source file
// under a root directory. It backs the language server: files are
// re-parsed on every update and their diagnostics kept alongside the
// syntax tree.
package workspace

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rill-lang/rill/parser"
)

// FileExt is the extension of Rill source files.
const FileExt = ".rill"

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
}

// FileInfo is the parsed state of one file. A new FileInfo replaces the
// old one wholesale on every update; callers may read a returned
// FileInfo without holding any lock.
type FileInfo struct {
	Path    string
	Content []byte
	Program *parser.Program
	Diags   []parser.Diagnostic
}

func New(rootDir string) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every Rill file under the root directory.
func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == FileExt {
			w.ScanFile(path)
		}
		return nil
	})
}

// ScanFile reads the file from disk and parses it.
func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content and stores the result under path, replacing
// any previous state. Parsing never fails; syntax errors end up in the
// returned FileInfo's diagnostics.
func (w *Workspace) UpdateFile(path string, content []byte) *FileInfo {
	prog, diags := parser.Parse(content, path)
	info := &FileInfo{
		Path:    path,
		Content: content,
		Program: prog,
		Diags:   diags,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = info
	return info
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Len reports how many files the workspace currently tracks.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}

type SymbolKind int

const (
	SymbolFunc SymbolKind = iota
	SymbolVar
)

// Symbol is a named declaration found in a file: a function or a
// variable, at any nesting depth.
type Symbol struct {
	Name string
	Kind SymbolKind
	Line int
}

// Symbols lists the declarations in the given file in source order.
func (w *Workspace) Symbols(path string) []Symbol {
	f := w.GetFile(path)
	if f == nil || f.Program == nil {
		return nil
	}
	return collectSymbols(f.Program.Stmts, nil)
}

func collectSymbols(stmts []parser.Stmt, out []Symbol) []Symbol {
	for _, s := range stmts {
		switch s := s.(type) {
		case *parser.FuncStmt:
			if s.Name != "" {
				out = append(out, Symbol{Name: s.Name, Kind: SymbolFunc, Line: s.Line()})
			}
			out = collectSymbols(s.Body, out)
		case *parser.VarStmt:
			for _, d := range s.Decls {
				out = append(out, Symbol{Name: d.Name, Kind: SymbolVar, Line: d.Line()})
			}
		case *parser.IfStmt:
			out = collectSymbols(s.Then, out)
			out = collectSymbols(s.Else, out)
		case *parser.RepeatStmt:
			out = collectSymbols(s.Body, out)
		case *parser.WhileStmt:
			out = collectSymbols(s.Body, out)
		case *parser.ForStmt:
			out = collectSymbols(s.Body, out)
		}
	}
	return out
}
