package diag

import (
	"testing"

	"mf2/internal/source"
)

func mkDiag(code Code, sev Severity, start, end uint32) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  code.String(),
		Primary:  source.Span{Start: start, End: end},
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(mkDiag(SynBadEscape, SevError, 0, 1)) {
		t.Fatal("first add rejected")
	}
	if !bag.Add(mkDiag(SynBadEscape, SevError, 1, 2)) {
		t.Fatal("second add rejected")
	}
	if bag.Add(mkDiag(SynBadEscape, SevError, 2, 3)) {
		t.Fatal("third add accepted beyond the limit")
	}
	if bag.Len() != 2 {
		t.Errorf("len = %d", bag.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag(10)
	bag.Add(mkDiag(SynReservedAnnotation, SevInfo, 0, 1))
	if bag.HasErrors() {
		t.Error("info diagnostic counted as error")
	}
	bag.Add(mkDiag(SynBadEscape, SevError, 0, 1))
	if !bag.HasErrors() {
		t.Error("error diagnostic not detected")
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(10)
	bag.Add(mkDiag(SynUnescapedBrace, SevError, 5, 6))
	bag.Add(mkDiag(SynBadEscape, SevError, 1, 2))
	bag.Add(mkDiag(ScopeUsedBeforeDeclaration, SevError, 5, 6))
	bag.Sort()

	items := bag.Items()
	if items[0].Primary.Start != 1 {
		t.Errorf("first diagnostic at %d", items[0].Primary.Start)
	}
	// same span: ordered by code
	if items[1].Code != SynUnescapedBrace || items[2].Code != ScopeUsedBeforeDeclaration {
		t.Errorf("order = %v, %v", items[1].Code, items[2].Code)
	}
}

func TestCodeNames(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{SynBadEscape, "BadEscape"},
		{SynUnescapedBrace, "UnescapedBrace"},
		{SynUnclosedExpression, "UnclosedExpression"},
		{SynVariantKeyCountMismatch, "VariantKeyCountMismatch"},
		{ScopeDuplicateDeclaration, "DuplicateDeclaration"},
		{ScopeUsedBeforeDeclaration, "UsedBeforeDeclaration"},
		{ReqInvalidVariableName, "InvalidVariableName"},
		{ReqNoVariableAtPosition, "NoVariableAtPosition"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if !SynBadEscape.IsParse() || SynBadEscape.IsScope() {
		t.Error("SynBadEscape phase misclassified")
	}
	if !ScopeDuplicateDeclaration.IsScope() {
		t.Error("ScopeDuplicateDeclaration phase misclassified")
	}
}
