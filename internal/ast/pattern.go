package ast

import "mf2/internal/source"

// Pattern is an ordered sequence of text runs, escapes and expressions.
type Pattern struct {
	Span  source.Span
	Parts []PatternPart
}

func (p *Pattern) GetSpan() source.Span { return p.Span }

// PatternPart is one element of a pattern.
type PatternPart interface {
	Node
	patternPartNode()
}

// Text is a verbatim run of source text.
type Text struct {
	Span  source.Span
	Value string
}

func (*Text) patternPartNode()      {}
func (*Text) quotedPartNode()       {}
func (*Text) reservedBodyPartNode() {}

func (t *Text) GetSpan() source.Span { return t.Span }

// Escape is a backslash escape sequence. The span covers the backslash and
// the escaped character.
type Escape struct {
	Span source.Span
	Char rune
}

func (*Escape) patternPartNode()      {}
func (*Escape) quotedPartNode()       {}
func (*Escape) reservedBodyPartNode() {}

func (e *Escape) GetSpan() source.Span { return e.Span }

// QuotedPart is an element of a quoted literal: text or an escape.
type QuotedPart interface {
	Node
	quotedPartNode()
}

// ReservedBodyPart is an element of a reserved or private-use body: text, an
// escape, or a quoted literal.
type ReservedBodyPart interface {
	Node
	reservedBodyPartNode()
}
