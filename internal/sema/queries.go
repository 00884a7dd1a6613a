package sema

import (
	"errors"

	"mf2/internal/chars"
	"mf2/internal/source"
)

// Request-level failures surfaced to the transport layer. The messages are
// part of the protocol surface and must stay stable.
var (
	ErrNoVariableAtPosition = errors.New("No variable to rename at the given position.")
	ErrInvalidVariableName  = errors.New("Invalid variable name.")
)

// spanTouchesCursor reports whether a cursor offset refers to the span: the
// cursor may sit anywhere inside it, including directly after its last
// character.
func spanTouchesCursor(sp source.Span, off uint32) bool {
	return sp.Contains(off) || off == sp.End && !sp.Empty()
}

// DeclarationAt returns the declaration whose `$name` span contains the
// offset.
func (t *SymbolTable) DeclarationAt(off uint32) (*Declaration, bool) {
	for _, d := range t.decls {
		if spanTouchesCursor(d.Span, off) {
			return d, true
		}
	}
	return nil, false
}

// UsageAt returns the declaration owning the usage whose span contains the
// offset, together with that usage span.
func (t *SymbolTable) UsageAt(off uint32) (*Declaration, source.Span, bool) {
	for _, d := range t.decls {
		for _, u := range d.Usages {
			if spanTouchesCursor(u, off) {
				return d, u, true
			}
		}
	}
	return nil, source.Span{}, false
}

// Definition resolves the position of a usage to its declaration span. A
// position on the declaration itself yields no result.
func (t *SymbolTable) Definition(off uint32) (source.Span, bool) {
	if d, _, ok := t.UsageAt(off); ok {
		return d.Span, true
	}
	return source.Span{}, false
}

// PrepareRename returns the `$name` span under the offset, whether it is a
// declaration or a usage. The leading dollar sign is part of the span.
func (t *SymbolTable) PrepareRename(off uint32) (source.Span, bool) {
	if d, ok := t.DeclarationAt(off); ok {
		return d.Span, true
	}
	if _, sp, ok := t.UsageAt(off); ok {
		return sp, true
	}
	return source.Span{}, false
}

// RenameEdit is one text replacement produced by Rename.
type RenameEdit struct {
	Span    source.Span
	NewText string
}

// Rename validates the new name and produces an edit for the declaration and
// every usage of the variable under the offset. Each edit replaces a `$name`
// span, so the replacement text carries the dollar sign.
func (t *SymbolTable) Rename(off uint32, newName string) ([]RenameEdit, error) {
	if !chars.IsName(newName) {
		return nil, ErrInvalidVariableName
	}

	decl, ok := t.DeclarationAt(off)
	if !ok {
		if d, _, okUsage := t.UsageAt(off); okUsage {
			decl = d
		} else {
			return nil, ErrNoVariableAtPosition
		}
	}
	if decl.Name == newName {
		return nil, nil
	}

	edits := make([]RenameEdit, 0, len(decl.Usages)+1)
	edits = append(edits, RenameEdit{Span: decl.Span, NewText: "$" + newName})
	for _, u := range decl.Usages {
		edits = append(edits, RenameEdit{Span: u, NewText: "$" + newName})
	}
	return edits, nil
}
