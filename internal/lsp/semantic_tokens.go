package lsp

import (
	"encoding/json"

	"mf2/internal/ast"
	"mf2/internal/source"
)

// Semantic token legend. The indices are part of the protocol surface.
const (
	tokenVariable uint32 = iota
	tokenProperty
	tokenFunction
	tokenKeyword
	tokenString
	tokenNumber
)

var tokenTypes = []string{"variable", "property", "function", "keyword", "string", "number"}

func (s *Server) handleSemanticTokensFull(msg *rpcMessage) error {
	var params semanticTokensParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, semanticTokensResult{
		Data: semanticTokens(doc.message, doc.file),
	})
}

// semanticTokens walks the tree in source order and produces the
// delta-encoded LSP token stream: (deltaLine, deltaStart, length, type,
// modifiers) per token, lengths and columns in UTF-16 code units.
// Multi-line tokens (quoted literals may span lines) emit one token per
// line.
func semanticTokens(msg ast.Message, file *source.File) []uint32 {
	enc := &tokenEncoder{file: file, data: []uint32{}}

	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Function:
			enc.emit(n.Identifier.Span, tokenFunction)
			for _, opt := range n.Options {
				enc.emit(opt.Key.Span, tokenProperty)
				ast.Inspect(opt.Value, visit)
			}
			return false
		case *ast.Variable:
			enc.emit(n.Span, tokenVariable)
		case *ast.QuotedLiteral:
			enc.emit(n.Span, tokenString)
			return false
		case *ast.NameLiteral:
			enc.emit(n.Span, tokenString)
		case *ast.NumberLiteral:
			enc.emit(n.Span, tokenNumber)
		case *ast.Matcher:
			enc.emit(keywordSpan(n.Span.Start, ".match"), tokenKeyword)
		case *ast.LocalDeclaration:
			enc.emit(keywordSpan(n.Span.Start, ".local"), tokenKeyword)
		case *ast.InputDeclaration:
			enc.emit(keywordSpan(n.Span.Start, ".input"), tokenKeyword)
		case *ast.ReservedStatement:
			enc.emit(n.KeywordSpan, tokenKeyword)
		}
		return true
	}
	ast.Inspect(msg, visit)
	return enc.data
}

func keywordSpan(start uint32, keyword string) source.Span {
	return source.Span{Start: start, End: start + uint32(len(keyword))} // #nosec G115 -- keyword literals are short
}

type tokenEncoder struct {
	file     *source.File
	data     []uint32
	lastLine uint32
	lastChar uint32
}

func (e *tokenEncoder) emit(sp source.Span, tokenType uint32) {
	if sp.Empty() {
		return
	}
	start := e.file.PositionOf(sp.Start)
	end := e.file.PositionOf(sp.End)

	for line := start.Line; line <= end.Line; line++ {
		char := uint32(0)
		if line == start.Line {
			char = start.Character
		}

		var length uint32
		if line == end.Line {
			length = end.Character - char
		} else {
			lineOff := e.file.OffsetOf(source.Position{Line: line, Character: char})
			nextLineOff := e.file.OffsetOf(source.Position{Line: line + 1})
			length = e.file.Utf16Len(source.Span{Start: lineOff, End: nextLineOff})
		}

		deltaLine := line - e.lastLine
		deltaStart := char
		if deltaLine == 0 {
			deltaStart = char - e.lastChar
		}
		e.data = append(e.data, deltaLine, deltaStart, length, tokenType, 0)

		e.lastLine = line
		e.lastChar = char
	}
}
