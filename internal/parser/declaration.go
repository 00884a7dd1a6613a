package parser

import (
	"mf2/internal/ast"
	"mf2/internal/chars"
	"mf2/internal/diag"
)

func (p *parser) parseComplexMessage() ast.Message {
	var decls []ast.Declaration
	var body ast.ComplexBody

loop:
	for {
		loc := p.cur.pos()
		r, ok := p.cur.peek()
		if !ok {
			break
		}
		switch {
		case chars.IsSpace(r):
			p.cur.next()
		case r == '.':
			p.cur.next()
			name := p.parseName()
			switch name {
			case "input":
				decl := p.parseInputDeclaration(loc)
				if body != nil {
					p.report(diag.SynDeclarationAfterBody, decl.Span,
						"Declarations are not valid after the message body. Did you mean to put the declaration before the body?")
				}
				decls = append(decls, decl)
			case "local":
				decl := p.parseLocalDeclaration(loc)
				if body != nil {
					p.report(diag.SynDeclarationAfterBody, decl.Span,
						"Declarations are not valid after the message body. Did you mean to put the declaration before the body?")
				}
				decls = append(decls, decl)
			case "match":
				matcher := p.parseMatcher(loc)
				if body != nil {
					p.report(diag.SynMultipleBodies, matcher.Span,
						"Message has multiple bodies, but only one is allowed.")
				} else {
					body = matcher
				}
			default:
				stmt := p.parseReservedStatement(loc, name)
				if body != nil {
					p.report(diag.SynDeclarationAfterBody, stmt.Span,
						"Declarations are not valid after the message body. Did you mean to put the declaration before the body?")
				}
				decls = append(decls, stmt)
			}
		case r == '{':
			r2, ok2 := p.cur.peek2()
			if !ok2 || r2 != '{' {
				break loop
			}
			p.cur.next() // consume the first '{'
			quoted := p.parseQuotedPattern(loc)
			if body != nil {
				p.report(diag.SynMultipleBodies, quoted.Span,
					"Message has multiple bodies, but only one is allowed.")
			} else {
				body = quoted
			}
		default:
			break loop
		}
	}

	// Error recovery for leftover content: an unquoted pattern when there is
	// no body yet, trailing garbage otherwise.
	if !p.cur.eof() {
		if body != nil {
			p.report(diag.SynTrailingContent, span(p.cur.pos(), p.file.Len()),
				"Message has additional invalid content after the body.")
			p.cur.resetTo(p.file.Len())
		} else {
			pattern := p.parsePattern(p.cur.pos(), false)
			p.report(diag.SynBodyNotQuoted, pattern.Span,
				"A message with declarations must have its pattern wrapped in double braces ('{{' and '}}').")
			body = &ast.QuotedPattern{Span: pattern.Span, Pattern: pattern}
		}
	}

	if body == nil {
		zw := span(p.cur.pos(), p.cur.pos())
		p.report(diag.SynMatcherMissingBody, zw,
			"Message is missing a body (a matcher or quoted pattern).")
		body = &ast.QuotedPattern{Span: zw, Pattern: &ast.Pattern{
			Span:  zw,
			Parts: []ast.PatternPart{&ast.Text{Span: zw}},
		}}
	}

	msgSpan := body.GetSpan()
	for _, d := range decls {
		msgSpan = msgSpan.Cover(d.GetSpan())
	}
	return &ast.ComplexMessage{Span: msgSpan, Declarations: decls, Body: body}
}

// parseInputDeclaration parses the remainder of an `.input` statement. The
// keyword has already been consumed; start is the offset of the dot.
func (p *parser) parseInputDeclaration(start uint32) *ast.InputDeclaration {
	p.skipSpaces()

	var expr ast.Expression
	if open, ok := p.cur.eat('{'); ok {
		p.skipSpaces()
		expr = p.parseExpression(open)
		if _, isVar := expr.(*ast.VariableExpression); !isVar {
			p.report(diag.SynMissingVariable, expr.GetSpan(),
				"Input declaration must contain a variable expression. Did you mean to use a local declaration?")
		}
	} else {
		zw := span(p.cur.pos(), p.cur.pos())
		p.report(diag.SynMissingExpression, zw, "Input declaration is missing an expression.")
		expr = &ast.LiteralExpression{Span: zw, Literal: &ast.NameLiteral{Span: zw}}
	}
	return &ast.InputDeclaration{Span: span(start, expr.GetSpan().End), Expression: expr}
}

// parseLocalDeclaration parses the remainder of a `.local` statement. The
// keyword has already been consumed; start is the offset of the dot.
func (p *parser) parseLocalDeclaration(start uint32) *ast.LocalDeclaration {
	p.skipSpaces()

	var variable *ast.Variable
	r, ok := p.cur.peek()
	switch {
	case ok && r == '$':
		variable = p.parseVariable()
	case ok && chars.IsNameStart(r):
		nameStart := p.cur.pos()
		name := p.parseName()
		sp := span(nameStart, p.cur.pos())
		p.report(diag.SynMissingVariable, sp, "Variable is not prefixed with a dollar sign ('$').")
		variable = &ast.Variable{Span: sp, Name: name}
	default:
		zw := span(p.cur.pos(), p.cur.pos())
		p.report(diag.SynMissingVariable, zw, "Local declaration is missing a variable.")
		variable = &ast.Variable{Span: zw}
	}

	p.skipSpaces()
	if _, ok := p.cur.eat('='); !ok {
		zw := span(p.cur.pos(), p.cur.pos())
		p.report(diag.SynMissingEquals, zw,
			"Local declaration is missing an equals sign after the variable.")
	}
	p.skipSpaces()

	var expr ast.Expression
	if open, ok := p.cur.eat('{'); ok {
		p.skipSpaces()
		expr = p.parseExpression(open)
	} else if operand := p.parseLiteralOrVariable(); operand != nil {
		sp := operand.GetSpan()
		p.report(diag.SynExpressionNotWrapped, sp,
			"Value of a local declaration must be an expression. Did you mean to wrap the value in braces?")
		expr = operandExpression(operand)
	} else {
		zw := span(p.cur.pos(), p.cur.pos())
		p.report(diag.SynMissingExpression, zw,
			"Local declaration is missing an expression as its value.")
		expr = &ast.LiteralExpression{Span: zw, Literal: &ast.NameLiteral{Span: zw}}
	}

	return &ast.LocalDeclaration{
		Span:       span(start, expr.GetSpan().End),
		Variable:   variable,
		Expression: expr,
	}
}

func operandExpression(operand ast.Operand) ast.Expression {
	if v, ok := operand.(*ast.Variable); ok {
		return &ast.VariableExpression{Span: v.Span, Variable: v}
	}
	lit := operand.(ast.Literal)
	return &ast.LiteralExpression{Span: lit.GetSpan(), Literal: lit}
}

// parseReservedStatement parses a `.keyword` statement that is not input,
// local, or match. The keyword has already been consumed; start is the
// offset of the dot.
func (p *parser) parseReservedStatement(start uint32, keyword string) *ast.ReservedStatement {
	kwSpan := span(start, p.cur.pos())
	p.skipSpaces()
	body := p.parseReservedBody()

	var exprs []ast.Expression
	for {
		mark := p.cur.pos()
		p.skipSpaces()
		loc, ok := p.cur.eat('{')
		if !ok {
			p.cur.resetTo(mark)
			break
		}
		if r2, ok2 := p.cur.peek(); ok2 && r2 == '{' {
			// a quoted pattern: the statement is over
			p.cur.resetTo(mark)
			break
		}
		p.skipSpaces()
		exprs = append(exprs, p.parseExpression(loc))
	}

	if len(exprs) == 0 {
		p.report(diag.SynMissingExpression, span(start, p.cur.pos()),
			"Reserved statement does not end with an expression, but it must.")
	}
	return &ast.ReservedStatement{
		Span:        span(start, p.cur.pos()),
		Keyword:     keyword,
		KeywordSpan: kwSpan,
		Body:        body,
		Expressions: exprs,
	}
}
