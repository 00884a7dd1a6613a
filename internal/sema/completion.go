package sema

import (
	"mf2/internal/ast"
	"mf2/internal/source"
)

// Completion is one completion item: the text to insert (including the
// dollar sign) and, when the cursor is on a partially typed variable, the
// span to replace.
type Completion struct {
	Text    string
	Replace *source.Span // nil means plain insertion at the cursor
}

// Completions returns the variable completions available at a cursor offset.
// Variables can be completed wherever an expression operand is legal: on a
// variable being typed, or in the operand position of an expression.
// Positions inside pattern text yield nothing.
func Completions(msg ast.Message, table *SymbolTable, off uint32) []Completion {
	chain := containingChain(msg, off)
	if len(chain) == 0 {
		return nil
	}
	deepest := chain[len(chain)-1]

	switch n := deepest.(type) {
	case *ast.Variable:
		return table.variableCompletions(n)
	case *ast.LiteralExpression, *ast.VariableExpression, *ast.AnnotationExpression:
		return table.insertCompletions()
	case *ast.Function:
		// the zero-width recovery annotation of an empty expression marks an
		// operand slot; a real function does not
		if n.Span.Empty() {
			return table.insertCompletions()
		}
	case ast.Identifier:
		if n.Span.Empty() {
			return table.insertCompletions()
		}
	}
	return nil
}

// containingChain returns the nodes whose spans contain (or touch) the
// cursor offset, from the root down to the deepest.
func containingChain(msg ast.Message, off uint32) []ast.Node {
	var chain []ast.Node
	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		sp := n.GetSpan()
		touches := sp.Start < off && off <= sp.End || sp.Empty() && sp.Start == off
		if _, isMsg := n.(ast.Message); !touches && !isMsg {
			return
		}
		if touches {
			chain = append(chain, n)
		}
		for _, c := range ast.Children(n) {
			visit(c)
		}
	}
	visit(msg)
	return chain
}

func (t *SymbolTable) variableCompletions(v *ast.Variable) []Completion {
	replace := v.Span
	includeSelf := len(v.Name) > 1 && t.spanCount(v.Name) > 1
	var out []Completion
	for _, name := range t.Names() {
		if !includeSelf && name == v.Name {
			continue
		}
		sp := replace
		out = append(out, Completion{Text: "$" + name, Replace: &sp})
	}
	return out
}

func (t *SymbolTable) insertCompletions() []Completion {
	var out []Completion
	for _, name := range t.Names() {
		out = append(out, Completion{Text: "$" + name})
	}
	return out
}

// spanCount returns how many `$name` spans exist for the given name,
// counting the declaration itself.
func (t *SymbolTable) spanCount(name string) int {
	e, ok := t.byName[name]
	if !ok {
		return 0
	}
	if e.decl != nil {
		return 1 + len(e.decl.Usages)
	}
	return len(e.pending)
}
