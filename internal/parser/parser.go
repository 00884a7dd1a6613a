// Package parser implements the error-recovering MF2 parser.
//
// The parser is a recursive-descent reader over scalar values with one
// scalar of lookahead. It is total: every input produces a complete syntax
// tree, with malformed or missing constructs represented by recovery nodes
// carrying zero-width spans, and one diagnostic reported per missing or
// illegal token. Every loop consumes at least one scalar value, so parsing
// always terminates.
package parser

import (
	"fmt"

	"mf2/internal/ast"
	"mf2/internal/chars"
	"mf2/internal/diag"
	"mf2/internal/source"
)

// Options configures a parse.
type Options struct {
	Reporter diag.Reporter
}

type parser struct {
	file *source.File
	cur  cursor
	rep  diag.Reporter
}

// Parse converts the file's text into a message tree, reporting malformed
// syntax to the reporter. It never fails.
func Parse(file *source.File, opts Options) ast.Message {
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	p := &parser{
		file: file,
		cur:  cursor{text: file.Content},
		rep:  rep,
	}
	return p.parseMessage()
}

func (p *parser) report(code diag.Code, sp source.Span, msg string) {
	diag.ReportError(p.rep, code, sp, msg)
}

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func (p *parser) skipSpaces() bool {
	any := false
	for {
		r, ok := p.cur.peek()
		if !ok || !chars.IsSpace(r) {
			return any
		}
		p.cur.next()
		any = true
	}
}

func (p *parser) textNode(start, end uint32) *ast.Text {
	return &ast.Text{Span: span(start, end), Value: p.cur.slice(start, end)}
}

func (p *parser) parseMessage() ast.Message {
	for {
		r, ok := p.cur.peek()
		if !ok {
			break
		}
		switch {
		case chars.IsSpace(r):
			p.cur.next()
		case r == '.':
			return p.parseComplexMessage()
		case r == '{':
			if r2, ok2 := p.cur.peek2(); ok2 && r2 == '{' {
				return p.parseComplexMessage()
			}
			return &ast.SimpleMessage{Pattern: p.parsePattern(0, false)}
		default:
			return &ast.SimpleMessage{Pattern: p.parsePattern(0, false)}
		}
	}

	// Nothing but whitespace; the whole text is one text run.
	sp := p.file.Span()
	return &ast.SimpleMessage{Pattern: &ast.Pattern{
		Span:  sp,
		Parts: []ast.PatternPart{&ast.Text{Span: sp, Value: p.file.Content}},
	}}
}

func (p *parser) parsePattern(start uint32, insideQuoted bool) *ast.Pattern {
	var parts []ast.PatternPart
	textStart := start

	flush := func(end uint32) {
		if end != textStart {
			parts = append(parts, p.textNode(textStart, end))
		}
	}

loop:
	for {
		loc := p.cur.pos()
		r, ok := p.cur.peek()
		if !ok {
			break
		}
		switch {
		case r == '\\':
			flush(loc)
			if esc := p.parseEscape(); esc != nil {
				parts = append(parts, esc)
			}
			textStart = p.cur.pos()
		case r == '{':
			flush(loc)
			parts = append(parts, p.parsePlaceholder())
			textStart = p.cur.pos()
		case r == '}':
			p.cur.next()
			if insideQuoted {
				if r2, ok2 := p.cur.peek(); ok2 && r2 == '}' {
					p.cur.resetTo(loc)
					break loop
				}
			}
			p.report(diag.SynUnescapedBrace, span(loc, p.cur.pos()),
				"The closing brace character ('}') is invalid inside of messages, and must be escaped as '\\}'.")
		case r == '.' || r == '@' || r == '|' || chars.IsContent(r) || chars.IsSpace(r):
			p.cur.next()
		default:
			p.cur.next()
			p.report(diag.SynUnexpectedCharacter, span(loc, p.cur.pos()),
				fmt.Sprintf("The character %q is not valid inside of messages.", r))
		}
	}

	end := p.cur.pos()
	flush(end)
	return &ast.Pattern{Span: span(start, end), Parts: parts}
}

func (p *parser) parseEscape() *ast.Escape {
	slash, _, _ := p.cur.next() // consume '\'

	loc, r, ok := p.cur.next()
	if !ok {
		p.report(diag.SynBadEscape, span(slash, p.cur.pos()),
			"Backslashes start an escape sequence, but no character to be escaped was found. A literal '\\' must be written as '\\\\'.")
		return nil
	}
	switch r {
	case '{', '}', '|', '\\':
	default:
		p.report(diag.SynBadEscape, span(loc, p.cur.pos()),
			fmt.Sprintf("The character '%c' can not be escaped as escape sequences can only escape '}', '{', '|', and '\\'.", r))
	}
	return &ast.Escape{Span: span(slash, p.cur.pos()), Char: r}
}

func (p *parser) parsePlaceholder() ast.Expression {
	open, _, _ := p.cur.next() // consume '{'
	p.skipSpaces()
	return p.parseExpression(open)
}
