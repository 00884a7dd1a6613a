package lsp

import (
	"encoding/json"
	"errors"
	"fmt"

	"mf2/internal/ast"
	"mf2/internal/diag"
	"mf2/internal/diagfmt"
	"mf2/internal/sema"
	"mf2/internal/source"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	off := offsetFor(doc.file, params.Position)
	node := ast.NodeAt(doc.message, off)
	if node == nil {
		return s.sendResponse(msg.ID, nil)
	}
	rng := rangeForSpan(doc.file, node.GetSpan())
	return s.sendResponse(msg.ID, hover{
		Contents: markupContent{
			Kind:  "plaintext",
			Value: hoverText(doc, node),
		},
		Range: &rng,
	})
}

func hoverText(doc *document, node ast.Node) string {
	label := diagfmt.NodeLabel(node)
	if v, ok := node.(*ast.Variable); ok {
		if decl, found := doc.symbols.Lookup(v.Name); found {
			return fmt.Sprintf("%s (declared by .%s)", label, decl.Kind)
		}
		return fmt.Sprintf("%s (external input)", label)
	}
	return label
}

func (s *Server) handleDefinition(msg *rpcMessage) error {
	var params definitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	off := offsetFor(doc.file, params.Position)
	declSpan, ok := doc.symbols.Definition(off)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, location{
		URI:   params.TextDocument.URI,
		Range: rangeForSpan(doc.file, declSpan),
	})
}

func (s *Server) handleCompletion(msg *rpcMessage) error {
	var params completionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	off := offsetFor(doc.file, params.Position)
	completions := sema.Completions(doc.message, doc.symbols, off)
	items := make([]completionItem, 0, len(completions))
	for _, c := range completions {
		item := completionItem{Label: c.Text, Kind: completionKindVariable}
		if c.Replace != nil {
			item.TextEdit = &textEdit{
				Range:   rangeForSpan(doc.file, *c.Replace),
				NewText: c.Text,
			}
		}
		items = append(items, item)
	}
	return s.sendResponse(msg.ID, items)
}

func (s *Server) handlePrepareRename(msg *rpcMessage) error {
	var params textDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	off := offsetFor(doc.file, params.Position)
	sp, ok := doc.symbols.PrepareRename(off)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, rangeForSpan(doc.file, sp))
}

func (s *Server) handleRename(msg *rpcMessage) error {
	var params renameParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendError(msg.ID, codeRequestFailed, "Document not found.")
	}
	off := offsetFor(doc.file, params.Position)
	edits, err := doc.symbols.Rename(off, params.NewName)
	if err != nil {
		if errors.Is(err, sema.ErrNoVariableAtPosition) || errors.Is(err, sema.ErrInvalidVariableName) {
			return s.sendError(msg.ID, codeRequestFailed, err.Error())
		}
		return err
	}
	if edits == nil {
		return s.sendResponse(msg.ID, nil)
	}
	textEdits := make([]textEdit, 0, len(edits))
	for _, e := range edits {
		textEdits = append(textEdits, textEdit{
			Range:   rangeForSpan(doc.file, e.Span),
			NewText: e.NewText,
		})
	}
	return s.sendResponse(msg.ID, workspaceEdit{
		Changes: map[string][]textEdit{params.TextDocument.URI: textEdits},
	})
}

func (s *Server) handleCodeAction(msg *rpcMessage) error {
	var params codeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	requested := spanForRange(doc.file, params.Range)

	var actions []codeAction
	for _, d := range doc.diagnostics() {
		if d.Primary.End < requested.Start || d.Primary.Start > requested.End {
			continue
		}
		if action, ok := fixForDiagnostic(doc, d); ok {
			actions = append(actions, action)
		}
	}
	return s.sendResponse(msg.ID, actions)
}

// fixForDiagnostic builds a quick fix for diagnostics with an unambiguous
// edit.
func fixForDiagnostic(doc *document, d diag.Diagnostic) (codeAction, bool) {
	switch d.Code {
	case diag.SynUnescapedBrace:
		return quickFix(doc, d, "Escape the brace", d.Primary, "\\"+doc.file.Text(d.Primary)), true
	case diag.SynBadEscape:
		// the span covers the escaped character; include the backslash
		if d.Primary.Start == 0 || doc.file.Content[d.Primary.Start-1] != '\\' {
			return codeAction{}, false
		}
		edit := source.Span{Start: d.Primary.Start - 1, End: d.Primary.End}
		return quickFix(doc, d, "Remove the invalid escape", edit, doc.file.Text(d.Primary)), true
	}
	return codeAction{}, false
}

func quickFix(doc *document, d diag.Diagnostic, title string, sp source.Span, newText string) codeAction {
	return codeAction{
		Title: title,
		Kind:  "quickfix",
		Edit: &workspaceEdit{
			Changes: map[string][]textEdit{
				doc.uri: {{Range: rangeForSpan(doc.file, sp), NewText: newText}},
			},
		},
		Diagnostics: []lspDiagnostic{toLSPDiagnostic(doc, d)},
		IsPreferred: true,
	}
}
