package parser

import (
	"fmt"

	"mf2/internal/ast"
	"mf2/internal/chars"
	"mf2/internal/diag"
)

// parseMatcher parses the remainder of a `.match` body. The keyword has
// already been consumed; start is the offset of the dot.
func (p *parser) parseMatcher(start uint32) *ast.Matcher {
	var selectors []ast.Expression

	p.skipSpaces()
	end := p.cur.pos()
	for {
		r, ok := p.cur.peek()
		if !ok {
			break
		}
		if r == '{' {
			if r2, ok2 := p.cur.peek2(); ok2 && r2 == '{' {
				break
			}
			loc, _, _ := p.cur.next()
			p.skipSpaces()
			selectors = append(selectors, p.parseExpression(loc))
		} else if r == '$' {
			v := p.parseVariable()
			selectors = append(selectors, &ast.VariableExpression{Span: v.Span, Variable: v})
		} else {
			break
		}
		end = p.cur.pos()
		p.skipSpaces()
	}

	if len(selectors) == 0 {
		p.report(diag.SynMatcherMissingSelectors, span(start, end),
			"Matcher is missing a selector, but at least one is required.")
	}

	var variants []*ast.Variant
	var keys []ast.Key
	var keysStart uint32

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
		case r == '*':
			p.cur.next()
			if len(keys) == 0 {
				keysStart = loc
			}
			keys = append(keys, &ast.CatchAllKey{Span: span(loc, p.cur.pos())})
			end = p.cur.pos()
		case r == '{':
			p.cur.next()
			var quoted *ast.QuotedPattern
			if r2, ok2 := p.cur.peek(); ok2 && r2 == '{' {
				quoted = p.parseQuotedPattern(loc)
			} else {
				// an expression in body position; keep it, but flag it
				p.skipSpaces()
				expr := p.parseExpression(loc)
				p.report(diag.SynBodyNotQuoted, expr.GetSpan(),
					"Matcher variant has an expression as its body, but only quoted patterns are allowed.")
				quoted = &ast.QuotedPattern{Span: expr.GetSpan(), Pattern: &ast.Pattern{
					Span:  expr.GetSpan(),
					Parts: []ast.PatternPart{expr},
				}}
			}
			variants = append(variants, p.finishVariant(keys, keysStart, quoted, len(selectors)))
			keys = nil
			end = p.cur.pos()
		case r == '.':
			break loop
		default:
			operand := p.parseLiteralOrVariable()
			if operand == nil {
				p.cur.next()
				p.report(diag.SynUnexpectedCharacter, span(loc, p.cur.pos()),
					fmt.Sprintf("The character %q is not valid as a matcher key.", r))
				continue
			}
			var key ast.Key
			if v, isVar := operand.(*ast.Variable); isVar {
				p.report(diag.SynMatcherKeyIsVariable, v.Span,
					"Matcher key is a variable, which is not allowed. Matcher keys must be literal values, or the wildcard ('*').")
				key = &ast.NameLiteral{Span: v.Span, Value: p.cur.slice(v.Span.Start, v.Span.End)}
			} else {
				key = operand.(ast.Key)
			}
			if len(keys) == 0 {
				keysStart = loc
			}
			keys = append(keys, key)
			end = p.cur.pos()
		}
	}

	if len(keys) > 0 {
		zw := span(p.cur.pos(), p.cur.pos())
		p.report(diag.SynMatcherMissingBody, zw, "Matcher variant is missing a body.")
		quoted := &ast.QuotedPattern{Span: zw, Pattern: &ast.Pattern{
			Span:  zw,
			Parts: []ast.PatternPart{&ast.Text{Span: zw}},
		}}
		variants = append(variants, p.finishVariant(keys, keysStart, quoted, len(selectors)))
		end = p.cur.pos()
	}

	return &ast.Matcher{Span: span(start, end), Selectors: selectors, Variants: variants}
}

func (p *parser) finishVariant(keys []ast.Key, keysStart uint32, quoted *ast.QuotedPattern, selectorCount int) *ast.Variant {
	sp := quoted.Span
	if len(keys) > 0 {
		sp = span(keysStart, quoted.Span.End)
	}
	if len(keys) != selectorCount {
		p.report(diag.SynVariantKeyCountMismatch, sp,
			fmt.Sprintf("Matcher variant has %d key(s), but the matcher has %d selector(s).", len(keys), selectorCount))
	}
	return &ast.Variant{Span: sp, Keys: keys, Pattern: quoted}
}

// parseQuotedPattern parses a `{{ ... }}` pattern. The caller has consumed
// the first brace (at offset start) and verified the second is present.
func (p *parser) parseQuotedPattern(start uint32) *ast.QuotedPattern {
	p.cur.next() // consume the second '{'
	pattern := p.parsePattern(p.cur.pos(), true)

	if _, ok := p.cur.eat('}'); ok {
		p.cur.eat('}') // parsePattern guarantees the second brace
	} else {
		p.report(diag.SynUnclosedQuotedPattern, span(start, p.cur.pos()),
			"Quoted pattern is missing the closing braces ('}}').")
	}
	return &ast.QuotedPattern{Span: span(start, p.cur.pos()), Pattern: pattern}
}
