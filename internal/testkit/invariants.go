// Package testkit holds invariant checkers shared by tests.
package testkit

import (
	"fmt"

	"mf2/internal/ast"
	"mf2/internal/source"
)

// CheckSpanInvariants verifies the structural span invariants of a parsed
// message:
//  1. every span lies within the document bounds and has Start <= End
//  2. every child span is contained in its parent's span
//  3. sibling spans are weakly ordered (monotonically non-decreasing)
func CheckSpanInvariants(msg ast.Message, file *source.File) error {
	if msg == nil || file == nil {
		return fmt.Errorf("nil message or file")
	}
	return checkNode(msg, file, true)
}

// CheckSpanBounds verifies bounds and containment only. Recovery trees may
// legitimately hold out-of-order siblings (a declaration written after the
// message body keeps its source position), so ordering is not enforced.
func CheckSpanBounds(msg ast.Message, file *source.File) error {
	if msg == nil || file == nil {
		return fmt.Errorf("nil message or file")
	}
	return checkNode(msg, file, false)
}

func checkNode(n ast.Node, file *source.File, ordered bool) error {
	sp := n.GetSpan()
	if sp.Start > sp.End {
		return fmt.Errorf("inverted span %s on %T", sp, n)
	}
	if sp.End > file.Len() {
		return fmt.Errorf("span %s on %T is beyond the document end %d", sp, n, file.Len())
	}

	prevStart := sp.Start
	for _, child := range ast.Children(n) {
		csp := child.GetSpan()
		if !sp.ContainsSpan(csp) {
			return fmt.Errorf("child span %s on %T is outside parent span %s on %T", csp, child, sp, n)
		}
		if ordered {
			if csp.Start < prevStart {
				return fmt.Errorf("sibling span %s on %T starts before its predecessor at %d", csp, child, prevStart)
			}
			prevStart = csp.Start
		}
		if err := checkNode(child, file, ordered); err != nil {
			return err
		}
	}
	return nil
}
