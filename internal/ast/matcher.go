package ast

import "mf2/internal/source"

// Matcher is a `.match` body: selectors followed by variants.
type Matcher struct {
	Span      source.Span
	Selectors []Expression
	Variants  []*Variant
}

func (*Matcher) bodyNode() {}

func (m *Matcher) GetSpan() source.Span { return m.Span }

// Variant is one arm of a matcher: keys followed by a quoted pattern.
type Variant struct {
	Span    source.Span
	Keys    []Key
	Pattern *QuotedPattern
}

func (v *Variant) GetSpan() source.Span { return v.Span }

// Key is a variant key: a literal or the catch-all `*`.
type Key interface {
	Node
	keyNode()
}

// CatchAllKey is the `*` wildcard key.
type CatchAllKey struct {
	Span source.Span
}

func (*CatchAllKey) keyNode() {}

func (k *CatchAllKey) GetSpan() source.Span { return k.Span }
