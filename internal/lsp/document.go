package lsp

import (
	"mf2/internal/ast"
	"mf2/internal/diag"
	"mf2/internal/parser"
	"mf2/internal/sema"
	"mf2/internal/source"
)

// document is one open text document together with the analysis derived
// from exactly its current version. Every edit rebuilds the whole document;
// the parse, symbol table and diagnostics are immutable once built.
type document struct {
	uri     string
	version int
	file    *source.File
	message ast.Message
	parse   *diag.Bag
	scope   *diag.Bag
	symbols *sema.SymbolTable
}

func newDocument(uri string, version int, text string, maxDiagnostics int) *document {
	file := source.NewFile(uriToPath(uri), text)

	parseBag := diag.NewBag(maxDiagnostics)
	message := parser.Parse(file, parser.Options{Reporter: &diag.BagReporter{Bag: parseBag}})

	scopeBag := diag.NewBag(maxDiagnostics)
	symbols := sema.Analyze(message, &diag.BagReporter{Bag: scopeBag})

	return &document{
		uri:     uri,
		version: version,
		file:    file,
		message: message,
		parse:   parseBag,
		scope:   scopeBag,
		symbols: symbols,
	}
}

// diagnostics returns the parse and scope diagnostics in source order.
func (d *document) diagnostics() []diag.Diagnostic {
	all := diag.NewBag(d.parse.Len() + d.scope.Len())
	all.Merge(d.parse)
	all.Merge(d.scope)
	all.Sort()
	return all.Items()
}
