// Package lsp implements the MF2 language server over stdio JSON-RPC.
//
// The server keeps one document per open URI and rebuilds the full analysis
// (parse, scope, symbol table) on every edit. Position-based requests are
// answered from the analysis of exactly the version they arrived against;
// documents are immutable snapshots, so no locking is needed beyond the
// document map itself.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"mf2/internal/diag"
	"mf2/internal/format"
	"mf2/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	MaxDiagnostics int
	Trace          bool
}

// Server handles stdio JSON-RPC for the MF2 language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	mu     sync.Mutex

	docs              map[string]*document
	shutdownRequested bool
	maxDiagnostics    int
	trace             bool
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		docs:           make(map[string]*document),
		maxDiagnostics: maxDiagnostics,
		trace:          opts.Trace,
	}
}

// Run serves LSP requests until an "exit" notification, EOF, or an error.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	if s.trace {
		s.logf("<- %s", msg.Method)
	}
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		s.mu.Lock()
		s.shutdownRequested = true
		s.mu.Unlock()
		return s.sendResponse(msg.ID, nil)
	case "exit":
		if s.shutdownRequested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition", "textDocument/declaration":
		return s.handleDefinition(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/prepareRename":
		return s.handlePrepareRename(msg)
	case "textDocument/rename":
		return s.handleRename(msg)
	case "textDocument/semanticTokens/full":
		return s.handleSemanticTokensFull(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, -32601, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, -32602, "invalid params")
		}
	}
	if params.ClientInfo != nil {
		s.logf("connected to: %s %s", params.ClientInfo.Name, params.ClientInfo.Version)
	}

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
			},
			HoverProvider:       true,
			DefinitionProvider:  true,
			DeclarationProvider: true,
			CompletionProvider: &completionOptions{
				TriggerCharacters: []string{"$"},
			},
			RenameProvider: &renameOptions{PrepareProvider: true},
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semanticTokensLegend{
					TokenTypes:     tokenTypes,
					TokenModifiers: []string{},
				},
				Full: true,
			},
			DocumentFormattingProvider: true,
			CodeActionProvider:         true,
		},
		ServerInfo: serverInfo{Name: "mf2ls", Version: version.Plain()},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc := newDocument(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text, s.maxDiagnostics)
	s.mu.Lock()
	s.docs[params.TextDocument.URI] = doc
	s.mu.Unlock()
	return s.publishDiagnostics(doc)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.mu.Lock()
	text := ""
	if doc, ok := s.docs[params.TextDocument.URI]; ok {
		text = doc.file.Content
	}
	text = applyChanges(text, params.ContentChanges)
	doc := newDocument(params.TextDocument.URI, params.TextDocument.Version, text, s.maxDiagnostics)
	s.docs[params.TextDocument.URI] = doc
	s.mu.Unlock()
	return s.publishDiagnostics(doc)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	// clear stale squiggles on the client
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []lspDiagnostic{},
		},
	})
}

func (s *Server) document(uri string) (*document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *Server) publishDiagnostics(doc *document) error {
	diags := doc.diagnostics()
	list := make([]lspDiagnostic, 0, len(diags))
	for _, d := range diags {
		list = append(list, toLSPDiagnostic(doc, d))
	}
	version := doc.version
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         doc.uri,
			Version:     &version,
			Diagnostics: list,
		},
	})
}

func toLSPDiagnostic(doc *document, d diag.Diagnostic) lspDiagnostic {
	severity := 1 // error
	switch d.Severity {
	case diag.SevWarning:
		severity = 2
	case diag.SevInfo:
		severity = 3
	}
	return lspDiagnostic{
		Range:    rangeForSpan(doc.file, d.Primary),
		Severity: severity,
		Code:     d.Code.String(),
		Source:   "mf2",
		Message:  d.Message,
	}
}

func (s *Server) handleFormatting(msg *rpcMessage) error {
	var params documentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	printed, ok := format.Print(doc.message, doc.file, doc.parse)
	if !ok || printed == doc.file.Content {
		return s.sendResponse(msg.ID, nil)
	}
	edit := textEdit{
		Range:   rangeForSpan(doc.file, doc.file.Span()),
		NewText: printed,
	}
	return s.sendResponse(msg.ID, []textEdit{edit})
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	return s.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	})
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "mf2ls: "+format+"\n", args...)
}
