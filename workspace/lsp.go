package workspace

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/rill-lang/rill/parser"
	"github.com/rill-lang/rill/project"
)

const lsName = "rill"

var log = commonlog.GetLogger("rill.workspace")

// LSPServer speaks the language server protocol over stdio or TCP. It
// keeps a Workspace of parsed files and publishes syntax diagnostics,
// capped per file by the project's max-diagnostics setting.
type LSPServer struct {
	workspace *Workspace
	watcher   *FileWatcher
	handler   protocol.Handler
	server    *server.Server
	maxDiags  int
	version   string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version:  version,
		maxDiags: project.DefaultMaxDiagnostics,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = New(rootDir)

	if proj, err := project.LoadFrom(rootDir); err != nil {
		log.Warningf("ignoring project config: %s", err.Error())
	} else {
		ls.maxDiags = proj.Config.LSP.MaxDiagnostics
	}

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		log.Warningf("initial scan: %s", err.Error())
	}
	ls.watcher = NewFileWatcher(ls.workspace)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	info := ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		info := ls.workspace.UpdateFile(path, []byte(whole.Text))
		ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var info *FileInfo
	if params.Text != nil {
		info = ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else {
		if err := ls.workspace.ScanFile(path); err != nil {
			return nil
		}
		info = ls.workspace.GetFile(path)
	}
	if info != nil {
		ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
	}
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	syms := ls.workspace.Symbols(path)
	if len(syms) == 0 {
		return nil, nil
	}

	items := make([]protocol.SymbolInformation, 0, len(syms))
	for _, s := range syms {
		items = append(items, protocol.SymbolInformation{
			Name: s.Name,
			Kind: toProtocolSymbolKind(s.Kind),
			Location: protocol.Location{
				URI: params.TextDocument.URI,
				Range: protocol.Range{
					Start: protocol.Position{Line: zeroBased(s.Line), Character: 0},
					End:   protocol.Position{Line: zeroBased(s.Line), Character: 0},
				},
			},
		})
	}
	return items, nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, info *FileInfo) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: protocolDiagnostics(info.Diags, ls.maxDiags),
	})
}

// protocolDiagnostics converts at most limit parser diagnostics. The
// result is never nil; publishing an empty list is how stale
// diagnostics get cleared on the client.
func protocolDiagnostics(diags []parser.Diagnostic, limit int) []protocol.Diagnostic {
	if limit <= 0 || limit > len(diags) {
		limit = len(diags)
	}
	out := make([]protocol.Diagnostic, 0, limit)
	for _, d := range diags[:limit] {
		severity := protocol.DiagnosticSeverityError
		source := lsName
		out = append(out, protocol.Diagnostic{
			Range:    toProtocolRange(d.Pos),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

// toProtocolRange converts a one-based source position to a zero-based
// protocol range one character wide.
func toProtocolRange(pos parser.Position) protocol.Range {
	line := zeroBased(pos.Line)
	char := zeroBased(pos.Column)
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: char},
		End:   protocol.Position{Line: line, Character: char + 1},
	}
}

func zeroBased(n int) protocol.UInteger {
	if n <= 0 {
		return 0
	}
	return protocol.UInteger(n - 1)
}

func toProtocolSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolFunc:
		return protocol.SymbolKindFunction
	case SymbolVar:
		return protocol.SymbolKindVariable
	default:
		return protocol.SymbolKindNull
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
