package ast

import "mf2/internal/source"

// Children returns the direct children of a node in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *SimpleMessage:
		return []Node{n.Pattern}
	case *ComplexMessage:
		out := make([]Node, 0, len(n.Declarations)+1)
		for _, d := range n.Declarations {
			out = append(out, d)
		}
		if n.Body != nil {
			out = append(out, n.Body)
		}
		return out
	case *Pattern:
		out := make([]Node, len(n.Parts))
		for i, p := range n.Parts {
			out[i] = p
		}
		return out
	case *QuotedPattern:
		return []Node{n.Pattern}
	case *LiteralExpression:
		out := []Node{n.Literal}
		if n.Annotation != nil {
			out = append(out, n.Annotation)
		}
		return out
	case *VariableExpression:
		out := []Node{n.Variable}
		if n.Annotation != nil {
			out = append(out, n.Annotation)
		}
		return out
	case *AnnotationExpression:
		return []Node{n.Annotation}
	case *Function:
		out := []Node{n.Identifier}
		for _, opt := range n.Options {
			out = append(out, opt)
		}
		return out
	case Option:
		return []Node{n.Key, n.Value}
	case *PrivateUseAnnotation:
		return reservedBodyChildren(n.Body)
	case *ReservedAnnotation:
		return reservedBodyChildren(n.Body)
	case *QuotedLiteral:
		out := make([]Node, len(n.Parts))
		for i, p := range n.Parts {
			out[i] = p
		}
		return out
	case *InputDeclaration:
		return []Node{n.Expression}
	case *LocalDeclaration:
		return []Node{n.Variable, n.Expression}
	case *ReservedStatement:
		out := reservedBodyChildren(n.Body)
		for _, e := range n.Expressions {
			out = append(out, e)
		}
		return out
	case *Matcher:
		out := make([]Node, 0, len(n.Selectors)+len(n.Variants))
		for _, s := range n.Selectors {
			out = append(out, s)
		}
		for _, v := range n.Variants {
			out = append(out, v)
		}
		return out
	case *Variant:
		out := make([]Node, 0, len(n.Keys)+1)
		for _, k := range n.Keys {
			out = append(out, k)
		}
		out = append(out, n.Pattern)
		return out
	}
	// Text, Escape, Variable, Identifier, literals, CatchAllKey
	return nil
}

func reservedBodyChildren(parts []ReservedBodyPart) []Node {
	out := make([]Node, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

// Inspect traverses the tree depth-first in source order, calling f for each
// node. If f returns false for a node, its children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil {
		return
	}
	if !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// NodeAt returns the smallest node whose span contains the byte offset,
// preferring deeper nodes. Returns nil when no node contains the offset.
func NodeAt(root Node, off uint32) Node {
	var result Node
	Inspect(root, func(n Node) bool {
		if n.GetSpan().Contains(off) {
			result = n
		}
		return true
	})
	return result
}

// spanTouches is the containment rule used for cursor positions: the offset
// may sit just past the span's end, so that a cursor at the end of `$foo`
// still refers to the variable. Empty spans match their own position.
func spanTouches(sp source.Span, off uint32) bool {
	if sp.Empty() {
		return sp.Start == off
	}
	return sp.Start < off && off <= sp.End
}

// NodeAtCursor returns the smallest node whose span contains or touches the
// cursor offset. Used by position-based queries where the cursor sits
// between characters.
func NodeAtCursor(root Node, off uint32) Node {
	var result Node
	Inspect(root, func(n Node) bool {
		if spanTouches(n.GetSpan(), off) {
			result = n
		}
		return true
	})
	return result
}
