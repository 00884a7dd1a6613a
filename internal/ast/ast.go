// Package ast defines the concrete-syntax tree for MF2 messages.
//
// Every node carries the span of the source text it covers; parent/child
// relations are expressed purely by span containment, and cross references
// (such as variable usages) live outside the tree in the symbol table. The
// tree is total: the parser always produces one, using zero-width spans for
// recovered or missing constructs.
package ast

import "mf2/internal/source"

// Node is implemented by every syntax-tree node.
type Node interface {
	GetSpan() source.Span
}

// Message is the root of a document: either a SimpleMessage (a bare pattern)
// or a ComplexMessage (declarations plus a quoted pattern or matcher).
type Message interface {
	Node
	msgNode()
}

// SimpleMessage is a message that consists of a single unquoted pattern.
type SimpleMessage struct {
	Pattern *Pattern
}

func (*SimpleMessage) msgNode() {}

func (m *SimpleMessage) GetSpan() source.Span { return m.Pattern.Span }

// ComplexMessage is a message with declarations and a complex body.
type ComplexMessage struct {
	Span         source.Span
	Declarations []Declaration
	Body         ComplexBody
}

func (*ComplexMessage) msgNode() {}

func (m *ComplexMessage) GetSpan() source.Span { return m.Span }

// ComplexBody is the body of a complex message: a quoted pattern or matcher.
type ComplexBody interface {
	Node
	bodyNode()
}

// QuotedPattern is a pattern wrapped in double braces: {{ ... }}.
type QuotedPattern struct {
	Span    source.Span
	Pattern *Pattern
}

func (*QuotedPattern) bodyNode() {}

func (p *QuotedPattern) GetSpan() source.Span { return p.Span }

// Identifier is an optionally namespaced name, e.g. `number` or `icu:number`.
// HasNamespace distinguishes `:name` written with an (empty) namespace from a
// plain name during error recovery.
type Identifier struct {
	Span         source.Span
	Namespace    string
	HasNamespace bool
	Name         string
}

func (i Identifier) GetSpan() source.Span { return i.Span }

// Full returns the identifier in its source form.
func (i Identifier) Full() string {
	if i.HasNamespace {
		return i.Namespace + ":" + i.Name
	}
	return i.Name
}

// Variable is a `$name` reference. The span includes the leading dollar sign.
type Variable struct {
	Span source.Span
	Name string
}

func (*Variable) operandNode() {}

func (v *Variable) GetSpan() source.Span { return v.Span }
