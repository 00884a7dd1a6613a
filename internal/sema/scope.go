// Package sema implements scope analysis for MF2 messages: it resolves
// variable references against `.input` and `.local` declarations, reports
// duplicate declarations and uses before declaration, and builds the symbol
// table that powers rename, go-to-definition and completion.
package sema

import (
	"fmt"

	"mf2/internal/ast"
	"mf2/internal/diag"
	"mf2/internal/source"
)

// DeclarationKind distinguishes the statement that introduced a variable.
type DeclarationKind uint8

const (
	DeclInput DeclarationKind = iota
	DeclLocal
)

func (k DeclarationKind) String() string {
	if k == DeclInput {
		return "input"
	}
	return "local"
}

// Declaration is one entry of the symbol table: a declared variable together
// with every reference that resolved to it. Span is the `$name` occurrence
// that introduced the variable.
type Declaration struct {
	Name   string
	Span   source.Span
	Kind   DeclarationKind
	Usages []source.Span
}

// SymbolTable lists the message's declarations in source order.
type SymbolTable struct {
	decls  []*Declaration
	byName map[string]*entry
	order  []string
}

type entry struct {
	decl    *Declaration
	pending []source.Span // references seen before any declaration
}

// Declarations returns the declarations in source order.
func (t *SymbolTable) Declarations() []*Declaration {
	return t.decls
}

// Lookup returns the declaration for a variable name, if any.
func (t *SymbolTable) Lookup(name string) (*Declaration, bool) {
	e, ok := t.byName[name]
	if !ok || e.decl == nil {
		return nil, false
	}
	return e.decl, true
}

// Names returns every known variable name, declared or external, in order
// of first appearance.
func (t *SymbolTable) Names() []string {
	return t.order
}

type analyzer struct {
	table *SymbolTable
	rep   diag.Reporter
}

// Analyze walks the message and produces its symbol table, reporting scope
// diagnostics along the way.
func Analyze(msg ast.Message, rep diag.Reporter) *SymbolTable {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	a := &analyzer{
		table: &SymbolTable{byName: map[string]*entry{}},
		rep:   rep,
	}
	a.analyze(msg)
	return a.table
}

func (a *analyzer) analyze(msg ast.Message) {
	complexMsg, ok := msg.(*ast.ComplexMessage)
	if !ok {
		a.collectReferences(msg)
		return
	}

	for _, decl := range complexMsg.Declarations {
		switch decl := decl.(type) {
		case *ast.LocalDeclaration:
			// The declared variable is not in scope inside its own value.
			a.collectReferences(decl.Expression)
			a.declare(decl.Variable, DeclLocal)
		case *ast.InputDeclaration:
			if varExpr, ok := decl.Expression.(*ast.VariableExpression); ok {
				if varExpr.Annotation != nil {
					a.collectReferences(varExpr.Annotation)
				}
				a.declare(varExpr.Variable, DeclInput)
			} else {
				a.collectReferences(decl.Expression)
			}
		case *ast.ReservedStatement:
			for _, expr := range decl.Expressions {
				a.collectReferences(expr)
			}
		}
	}

	if complexMsg.Body != nil {
		a.collectReferences(complexMsg.Body)
	}
}

// collectReferences records every `$name` under the node as a reference.
func (a *analyzer) collectReferences(n ast.Node) {
	ast.Inspect(n, func(n ast.Node) bool {
		if v, ok := n.(*ast.Variable); ok {
			a.reference(v)
		}
		return true
	})
}

func (a *analyzer) entryFor(name string) *entry {
	e, ok := a.table.byName[name]
	if !ok {
		e = &entry{}
		a.table.byName[name] = e
		a.table.order = append(a.table.order, name)
	}
	return e
}

func (a *analyzer) declare(v *ast.Variable, kind DeclarationKind) {
	if v.Name == "" {
		// recovery node; nothing to register
		return
	}
	e := a.entryFor(v.Name)

	if e.decl != nil {
		diag.ReportError(a.rep, diag.ScopeDuplicateDeclaration, v.Span,
			fmt.Sprintf("$%s has already been declared.", v.Name))
		return
	}

	// References recorded before this point sit inside the declaration's own
	// value (or an earlier declaration's): they are uses before declaration
	// and stay unlinked.
	for _, ref := range e.pending {
		diag.ReportError(a.rep, diag.ScopeUsedBeforeDeclaration, ref,
			fmt.Sprintf("$%s is used before it is declared.", v.Name))
	}
	e.pending = nil

	e.decl = &Declaration{Name: v.Name, Span: v.Span, Kind: kind}
	a.table.decls = append(a.table.decls, e.decl)
}

func (a *analyzer) reference(v *ast.Variable) {
	if v.Name == "" {
		return
	}
	e := a.entryFor(v.Name)
	if e.decl != nil {
		e.decl.Usages = append(e.decl.Usages, v.Span)
	} else {
		e.pending = append(e.pending, v.Span)
	}
}
