// Package format implements the canonical MF2 formatter.
//
// The printer rewrites a parsed message into its canonical form: one
// declaration per line, single spaces between tokens, expressions without
// inner padding, and pattern text emitted verbatim. Runs of blank lines
// between declarations collapse to exactly one blank line.
package format

import (
	"strings"

	"mf2/internal/ast"
	"mf2/internal/diag"
	"mf2/internal/source"
)

// Print renders the message in canonical form. The file supplies the
// original text so that intentional blank lines between declarations are
// preserved; it may be nil. Printing refuses (ok == false) when the parse
// produced error diagnostics.
func Print(msg ast.Message, file *source.File, parseDiags *diag.Bag) (out string, ok bool) {
	if parseDiags != nil && parseDiags.HasErrors() {
		return "", false
	}
	p := &printer{file: file}
	p.printMessage(msg)
	out = p.b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, true
}

type printer struct {
	b    strings.Builder
	file *source.File
}

func (p *printer) push(s string) {
	p.b.WriteString(s)
}

func (p *printer) pushRune(r rune) {
	p.b.WriteRune(r)
}

func (p *printer) printMessage(msg ast.Message) {
	switch msg := msg.(type) {
	case *ast.SimpleMessage:
		p.printPattern(msg.Pattern)
	case *ast.ComplexMessage:
		p.printComplexMessage(msg)
	}
}

func (p *printer) printComplexMessage(msg *ast.ComplexMessage) {
	prevEnd := uint32(0)
	hasPrev := false
	for _, decl := range msg.Declarations {
		if hasPrev {
			p.separator(prevEnd, decl.GetSpan().Start)
		}
		p.printDeclaration(decl)
		prevEnd = decl.GetSpan().End
		hasPrev = true
	}
	if msg.Body != nil {
		if hasPrev {
			p.separator(prevEnd, msg.Body.GetSpan().Start)
		}
		p.printBody(msg.Body)
	}
	p.push("\n")
}

// separator emits the line break between two top-level elements, keeping one
// blank line when the source had one or more blank lines between them.
func (p *printer) separator(prevEnd, nextStart uint32) {
	if p.file != nil && p.file.NewlinesBetween(prevEnd, nextStart) >= 2 {
		p.push("\n\n")
		return
	}
	p.push("\n")
}

func (p *printer) printDeclaration(decl ast.Declaration) {
	switch decl := decl.(type) {
	case *ast.InputDeclaration:
		p.push(".input ")
		p.printExpression(decl.Expression)
	case *ast.LocalDeclaration:
		p.push(".local ")
		p.printVariable(decl.Variable)
		p.push(" = ")
		p.printExpression(decl.Expression)
	case *ast.ReservedStatement:
		p.push(".")
		p.push(decl.Keyword)
		if len(decl.Body) > 0 {
			p.push(" ")
			p.printReservedBody(decl.Body)
		}
		for _, expr := range decl.Expressions {
			p.push(" ")
			p.printExpression(expr)
		}
	}
}

func (p *printer) printBody(body ast.ComplexBody) {
	switch body := body.(type) {
	case *ast.QuotedPattern:
		p.printQuotedPattern(body)
	case *ast.Matcher:
		p.printMatcher(body)
	}
}

func (p *printer) printMatcher(m *ast.Matcher) {
	p.push(".match")
	for _, sel := range m.Selectors {
		p.push(" ")
		p.printSelector(sel)
	}
	for _, variant := range m.Variants {
		p.push("\n")
		for _, key := range variant.Keys {
			p.printKey(key)
			p.push(" ")
		}
		p.printQuotedPattern(variant.Pattern)
	}
}

// printSelector prints a matcher selector, using the bare `$name` form for a
// plain variable and the expression form otherwise.
func (p *printer) printSelector(sel ast.Expression) {
	if v, ok := sel.(*ast.VariableExpression); ok && v.Annotation == nil {
		p.printVariable(v.Variable)
		return
	}
	p.printExpression(sel)
}

func (p *printer) printKey(key ast.Key) {
	switch key := key.(type) {
	case *ast.CatchAllKey:
		p.push("*")
	case ast.Literal:
		p.printLiteral(key)
	}
}

func (p *printer) printQuotedPattern(q *ast.QuotedPattern) {
	p.push("{{")
	p.printPattern(q.Pattern)
	p.push("}}")
}

func (p *printer) printPattern(pattern *ast.Pattern) {
	for _, part := range pattern.Parts {
		switch part := part.(type) {
		case *ast.Text:
			p.push(part.Value)
		case *ast.Escape:
			p.printEscape(part)
		case ast.Expression:
			p.printExpression(part)
		}
	}
}

func (p *printer) printEscape(e *ast.Escape) {
	p.push("\\")
	p.pushRune(e.Char)
}

func (p *printer) printExpression(expr ast.Expression) {
	p.push("{")
	switch expr := expr.(type) {
	case *ast.VariableExpression:
		p.printVariable(expr.Variable)
		p.printAnnotationSuffix(expr.Annotation)
	case *ast.LiteralExpression:
		p.printLiteral(expr.Literal)
		p.printAnnotationSuffix(expr.Annotation)
	case *ast.AnnotationExpression:
		p.printAnnotation(expr.Annotation)
	}
	p.push("}")
}

func (p *printer) printAnnotationSuffix(ann ast.Annotation) {
	if ann == nil {
		return
	}
	p.push(" ")
	p.printAnnotation(ann)
}

func (p *printer) printAnnotation(ann ast.Annotation) {
	switch ann := ann.(type) {
	case *ast.Function:
		p.push(":")
		p.push(ann.Identifier.Full())
		for _, opt := range ann.Options {
			p.push(" ")
			p.push(opt.Key.Full())
			p.push("=")
			p.printOperand(opt.Value)
		}
	case *ast.PrivateUseAnnotation:
		p.pushRune(ann.Sigil)
		p.printReservedBody(ann.Body)
	case *ast.ReservedAnnotation:
		p.pushRune(ann.Sigil)
		p.printReservedBody(ann.Body)
	}
}

func (p *printer) printReservedBody(parts []ast.ReservedBodyPart) {
	for _, part := range parts {
		switch part := part.(type) {
		case *ast.Text:
			p.push(part.Value)
		case *ast.Escape:
			p.printEscape(part)
		case *ast.QuotedLiteral:
			p.printLiteral(part)
		}
	}
}

func (p *printer) printOperand(operand ast.Operand) {
	switch operand := operand.(type) {
	case *ast.Variable:
		p.printVariable(operand)
	case ast.Literal:
		p.printLiteral(operand)
	}
}

func (p *printer) printLiteral(lit ast.Literal) {
	switch lit := lit.(type) {
	case *ast.QuotedLiteral:
		p.push("|")
		for _, part := range lit.Parts {
			switch part := part.(type) {
			case *ast.Text:
				p.push(part.Value)
			case *ast.Escape:
				p.printEscape(part)
			}
		}
		p.push("|")
	case *ast.NameLiteral:
		p.push(lit.Value)
	case *ast.NumberLiteral:
		p.push(lit.Raw)
	}
}

func (p *printer) printVariable(v *ast.Variable) {
	p.push("$")
	p.push(v.Name)
}
