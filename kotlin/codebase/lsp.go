package codebase

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/kotlyzer/kotlin/parser"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "kotlyzer"

// LSPServer speaks the language server protocol over stdio. It publishes
// parse errors as diagnostics and serves the declaration outline as document
// symbols.
type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
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

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir)

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
	ls.codebase.ScanAll()
	ls.watcher = NewFileWatcher(ls.codebase)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
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
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
		}
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
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

// publishDiagnostics reports the file's parse error, or clears diagnostics
// when the file parses cleanly.
func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri, path string) {
	file := ls.codebase.GetFile(path)
	if file == nil {
		return
	}

	diagnostics := []protocol.Diagnostic{}
	var syntaxErr *parser.SyntaxError
	if errors.As(file.ParseErr, &syntaxErr) {
		severity := protocol.DiagnosticSeverityError
		source := lsName
		pos := toProtocolPosition(syntaxErr.Position)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{Start: pos, End: pos},
			Severity: &severity,
			Source:   &source,
			Message:  syntaxErr.Error(),
		})
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	file := ls.codebase.GetFile(path)
	if file == nil || file.File == nil {
		return nil, nil
	}

	var symbols []protocol.DocumentSymbol
	for _, decl := range file.File.Declarations {
		if symbol, ok := memberSymbol(decl); ok {
			symbols = append(symbols, symbol)
		}
	}
	return symbols, nil
}

func memberSymbol(member parser.ClassMember) (protocol.DocumentSymbol, bool) {
	pos := toProtocolPosition(member.Pos())
	symbol := protocol.DocumentSymbol{
		Range:          protocol.Range{Start: pos, End: pos},
		SelectionRange: protocol.Range{Start: pos, End: pos},
	}

	switch d := member.(type) {
	case *parser.ClassDeclaration:
		symbol.Name = d.Name
		symbol.Kind = classSymbolKind(d)
		symbol.Children = memberSymbols(classDeclarationMembers(d))
	case *parser.ObjectDeclaration:
		symbol.Name = d.Name
		symbol.Kind = protocol.SymbolKindObject
		if d.Body != nil {
			symbol.Children = memberSymbols(d.Body.Members)
		}
	case *parser.CompanionObject:
		symbol.Name = d.Name
		if symbol.Name == "" {
			symbol.Name = "Companion"
		}
		symbol.Kind = protocol.SymbolKindObject
		if d.Body != nil {
			symbol.Children = memberSymbols(d.Body.Members)
		}
	case *parser.FunctionDeclaration:
		symbol.Name = d.Name
		symbol.Kind = protocol.SymbolKindFunction
		detail := d.Parameters.String()
		symbol.Detail = &detail
	case *parser.PropertyDeclaration:
		variable, ok := d.Declaration.(*parser.VariableDeclaration)
		if !ok {
			return symbol, false
		}
		symbol.Name = variable.Name
		symbol.Kind = protocol.SymbolKindProperty
		if d.Mutability == "val" {
			symbol.Kind = protocol.SymbolKindConstant
		}
	case *parser.SecondaryConstructor:
		symbol.Name = "constructor"
		symbol.Kind = protocol.SymbolKindConstructor
		detail := d.Parameters.String()
		symbol.Detail = &detail
	case *parser.TypeAlias:
		symbol.Name = d.Name
		symbol.Kind = protocol.SymbolKindClass
	default:
		return symbol, false
	}

	return symbol, true
}

func memberSymbols(members []parser.ClassMember) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, member := range members {
		if symbol, ok := memberSymbol(member); ok {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

func classSymbolKind(decl *parser.ClassDeclaration) protocol.SymbolKind {
	switch decl.Kind {
	case parser.KindInterface, parser.KindFunInterface:
		return protocol.SymbolKindInterface
	case parser.KindEnum:
		return protocol.SymbolKindEnum
	default:
		return protocol.SymbolKindClass
	}
}

func classDeclarationMembers(decl *parser.ClassDeclaration) []parser.ClassMember {
	if decl.Body != nil {
		return decl.Body.Members
	}
	if decl.EnumBody != nil {
		return decl.EnumBody.Members
	}
	return nil
}

func toProtocolPosition(pos parser.Position) protocol.Position {
	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	column := pos.Column - 1
	if column < 0 {
		column = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(column),
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
