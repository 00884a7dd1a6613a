package parser

import (
	"fmt"

	"mf2/internal/ast"
	"mf2/internal/chars"
	"mf2/internal/diag"
	"mf2/internal/source"
)

// parseExpression parses the inside of a `{ ... }` form. The caller must
// already have consumed the opening brace (at offset open) and any spaces
// following it.
func (p *parser) parseExpression(open uint32) ast.Expression {
	operandStart := p.cur.pos()
	operand := p.parseLiteralOrVariable()

	mark := p.cur.pos()
	p.skipSpaces()
	annotation := p.maybeParseAnnotation()
	if annotation == nil {
		p.cur.resetTo(mark)
	}

	// Scan for the closing brace. Junk before the brace is reported once;
	// if the brace is missing, the next delimiter (a newline, an opening
	// brace, or the end of input) acts as the implicit close.
	var junk source.Span
	hasJunk := false
	closed := false
loop:
	for {
		loc := p.cur.pos()
		r, ok := p.cur.peek()
		if !ok {
			break
		}
		switch {
		case r == '}':
			p.cur.next()
			closed = true
			break loop
		case r == '\n' || r == '\r':
			if hasJunk {
				break loop
			}
			p.cur.next()
		case chars.IsSpace(r):
			p.cur.next()
		case r == '{':
			break loop
		case r == '|':
			p.parseQuotedLiteral()
			junk = extendJunk(junk, &hasJunk, loc, p.cur.pos())
		case r == '\\':
			p.parseEscape()
			junk = extendJunk(junk, &hasJunk, loc, p.cur.pos())
		default:
			p.cur.next()
			junk = extendJunk(junk, &hasJunk, loc, p.cur.pos())
		}
	}

	if hasJunk {
		p.report(diag.SynUnexpectedCharacter, junk, "Expression contains invalid content.")
	}
	if !closed {
		p.report(diag.SynUnclosedExpression, span(open, p.cur.pos()),
			"Expression is missing the closing brace.")
	}

	sp := span(open, p.cur.pos())
	switch op := operand.(type) {
	case *ast.Variable:
		return &ast.VariableExpression{Span: sp, Variable: op, Annotation: annotation}
	case ast.Literal:
		return &ast.LiteralExpression{Span: sp, Literal: op, Annotation: annotation}
	}
	if annotation != nil {
		return &ast.AnnotationExpression{Span: sp, Annotation: annotation}
	}

	p.report(diag.SynEmptyExpression, sp,
		"Expression is empty, but must have at least an operand or an annotation.")
	zw := span(operandStart, operandStart)
	return &ast.AnnotationExpression{
		Span:       sp,
		Annotation: &ast.Function{Span: zw, Identifier: ast.Identifier{Span: zw}},
	}
}

func extendJunk(junk source.Span, hasJunk *bool, start, end uint32) source.Span {
	if !*hasJunk {
		*hasJunk = true
		return span(start, end)
	}
	junk.End = end
	return junk
}

// parseLiteralOrVariable parses an operand, or returns nil when the next
// scalar value cannot start one.
func (p *parser) parseLiteralOrVariable() ast.Operand {
	r, ok := p.cur.peek()
	if !ok {
		return nil
	}
	switch {
	case r == '$':
		return p.parseVariable()
	case r == '|':
		return p.parseQuotedLiteral()
	case chars.IsNameStart(r):
		return p.parseNameLiteral()
	// '.' recovers a fractional number that is missing its integral part
	case r == '-' || r == '.' || (r >= '0' && r <= '9'):
		return p.parseNumber()
	}
	return nil
}

func (p *parser) parseVariable() *ast.Variable {
	start, _, _ := p.cur.next() // consume '$'
	name := p.parseName()
	sp := span(start, p.cur.pos())
	if name == "" {
		p.report(diag.SynMissingVariable, sp,
			"Variable is missing a name after the dollar sign ('$').")
	}
	return &ast.Variable{Span: sp, Name: name}
}

// parseName consumes a name production. Callers must handle an empty result.
func (p *parser) parseName() string {
	start := p.cur.pos()
	if r, ok := p.cur.peek(); ok && chars.IsNameStart(r) {
		p.cur.next()
		for {
			r, ok := p.cur.peek()
			if !ok || !chars.IsNameChar(r) {
				break
			}
			p.cur.next()
		}
	}
	return p.cur.slice(start, p.cur.pos())
}

func (p *parser) parseNameLiteral() *ast.NameLiteral {
	start := p.cur.pos()
	value := p.parseName()
	return &ast.NameLiteral{Span: span(start, p.cur.pos()), Value: value}
}

// parseIdentifier parses an optionally namespaced identifier, returning it
// together with a flag telling the caller it was completely empty.
func (p *parser) parseIdentifier() (ast.Identifier, bool) {
	start := p.cur.pos()
	first := p.parseName()

	if _, ok := p.cur.eat(':'); ok {
		name := p.parseName()
		id := ast.Identifier{
			Span:         span(start, p.cur.pos()),
			Namespace:    first,
			HasNamespace: true,
			Name:         name,
		}
		if name == "" {
			p.report(diag.SynMissingIdentifier, id.Span,
				"Namespaced identifier is missing a name after the colon.")
		}
		if first == "" {
			p.report(diag.SynMissingIdentifier, id.Span,
				"Namespaced identifier is missing a namespace before the colon.")
		}
		return id, false
	}

	id := ast.Identifier{Span: span(start, p.cur.pos()), Name: first}
	return id, first == ""
}

func (p *parser) maybeParseAnnotation() ast.Annotation {
	r, ok := p.cur.peek()
	if !ok {
		return nil
	}
	switch r {
	case ':':
		start, _, _ := p.cur.next()
		id, empty := p.parseIdentifier()

		var options []ast.Option
		for {
			mark := p.cur.pos()
			if !p.skipSpaces() {
				break
			}
			// ':' and '=' recover options with a missing key or namespace
			r, ok := p.cur.peek()
			if !ok || !(chars.IsNameStart(r) || r == ':' || r == '=') {
				p.cur.resetTo(mark)
				break
			}
			options = append(options, p.parseOption())
		}

		fn := &ast.Function{Span: span(start, p.cur.pos()), Identifier: id, Options: options}
		if empty {
			p.report(diag.SynMissingIdentifier, fn.Span, "Function is missing an identifier.")
		}
		return fn

	case '^', '&':
		start, sigil, _ := p.cur.next()
		body := p.parseReservedBody()
		return &ast.PrivateUseAnnotation{Span: span(start, p.cur.pos()), Sigil: sigil, Body: body}

	case '!', '%', '*', '+', '<', '>', '?', '~':
		start, sigil, _ := p.cur.next()
		body := p.parseReservedBody()
		return &ast.ReservedAnnotation{Span: span(start, p.cur.pos()), Sigil: sigil, Body: body}
	}
	return nil
}

func (p *parser) parseOption() ast.Option {
	start := p.cur.pos()
	key, keyEmpty := p.parseIdentifier()
	p.skipSpaces()

	var value ast.Operand
	if eqLoc, ok := p.cur.eat('='); ok {
		p.skipSpaces()
		value = p.parseLiteralOrVariable()
		if value == nil {
			p.cur.resetTo(eqLoc + 1) // un-eat the spaces after the equals
			p.report(diag.SynOptionMissingValue, span(start, p.cur.pos()),
				"Option is missing a value after the equals sign.")
			value = &ast.NameLiteral{Span: span(p.cur.pos(), p.cur.pos())}
		}
	} else {
		p.cur.resetTo(key.Span.End) // un-eat the spaces after the key
		p.report(diag.SynOptionMissingValue, span(start, p.cur.pos()),
			"Option is missing an equals sign and a value after the key.")
		value = &ast.NameLiteral{Span: span(p.cur.pos(), p.cur.pos())}
	}

	opt := ast.Option{Span: span(start, p.cur.pos()), Key: key, Value: value}
	if keyEmpty {
		p.report(diag.SynOptionMissingKey, opt.Span,
			"Option is missing a key before the equals sign.")
	}
	return opt
}

func (p *parser) parseReservedBody() []ast.ReservedBodyPart {
	var parts []ast.ReservedBodyPart
	textStart := p.cur.pos()
	var lastSpaceStart uint32
	inSpaceRun := false

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
		case chars.IsReserved(r):
			p.cur.next()
			inSpaceRun = false
		case chars.IsSpace(r):
			p.cur.next()
			if !inSpaceRun {
				inSpaceRun = true
				lastSpaceStart = loc
			}
		case r == '\\':
			flush(loc)
			if esc := p.parseEscape(); esc != nil {
				parts = append(parts, esc)
			}
			textStart = p.cur.pos()
			inSpaceRun = false
		case r == '|':
			flush(loc)
			parts = append(parts, p.parseQuotedLiteral())
			textStart = p.cur.pos()
			inSpaceRun = false
		default:
			break loop
		}
	}

	// Trailing spaces are not part of the body.
	if inSpaceRun {
		p.cur.resetTo(lastSpaceStart)
	}
	flush(p.cur.pos())
	return parts
}

func (p *parser) parseQuotedLiteral() *ast.QuotedLiteral {
	open, _, _ := p.cur.next() // consume '|'
	var parts []ast.QuotedPart
	textStart := p.cur.pos()

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
			flush(loc)
			break
		}
		switch {
		case r == '\\':
			flush(loc)
			if esc := p.parseEscape(); esc != nil {
				parts = append(parts, esc)
			}
			textStart = p.cur.pos()
		case r == '|':
			flush(loc)
			break loop
		case chars.IsQuoted(r):
			p.cur.next()
		default:
			p.cur.next()
			p.report(diag.SynUnexpectedCharacter, span(loc, p.cur.pos()),
				fmt.Sprintf("The character %q is not valid inside of a quoted literal.", r))
		}
	}

	_, closed := p.cur.eat('|')
	sp := span(open, p.cur.pos())
	if !closed {
		p.report(diag.SynUnclosedQuotedLiteral, sp, "Quoted literal is missing the closing quote.")
	}
	return &ast.QuotedLiteral{Span: sp, Parts: parts}
}

func (p *parser) parseNumber() *ast.NumberLiteral {
	start := p.cur.pos()
	p.cur.eat('-')

	integral := p.parseDigits()

	hasFraction := false
	fraction := ""
	if _, ok := p.cur.eat('.'); ok {
		hasFraction = true
		fraction = p.parseDigits()
	}

	hasExponent := false
	exponent := ""
	if r, ok := p.cur.peek(); ok && (r == 'e' || r == 'E') {
		p.cur.next()
		hasExponent = true
		if _, ok := p.cur.eat('-'); !ok {
			p.cur.eat('+')
		}
		exponent = p.parseDigits()
	}

	sp := span(start, p.cur.pos())
	num := &ast.NumberLiteral{Span: sp, Raw: p.cur.slice(start, p.cur.pos())}

	if len(integral) > 1 && integral[0] == '0' {
		p.report(diag.SynNumberLeadingZero, sp,
			"Number has a leading zero in the integral part, which is not allowed.")
	}
	if integral == "" {
		p.report(diag.SynNumberMissingIntegralPart, sp, "Number is missing an integral part.")
	}
	if hasFraction && fraction == "" {
		p.report(diag.SynNumberMissingFractionalPart, sp,
			"Number is missing a fractional part, which it must have because it has a decimal point.")
	}
	if hasExponent && exponent == "" {
		p.report(diag.SynNumberMissingExponentPart, sp,
			"Number is missing an exponent part, which it must have because it is written in scientific notation.")
	}
	return num
}

// parseDigits consumes a run of ASCII digits. Callers must handle an empty
// result and leading zeros.
func (p *parser) parseDigits() string {
	start := p.cur.pos()
	for {
		r, ok := p.cur.peek()
		if !ok || r < '0' || r > '9' {
			break
		}
		p.cur.next()
	}
	return p.cur.slice(start, p.cur.pos())
}
