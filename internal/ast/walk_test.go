package ast

import (
	"testing"

	"mf2/internal/source"
)

func sampleMessage() *SimpleMessage {
	// represents: "Hi {$user :fn opt=1}!"
	return &SimpleMessage{
		Pattern: &Pattern{
			Span: source.Span{Start: 0, End: 21},
			Parts: []PatternPart{
				&Text{Span: source.Span{Start: 0, End: 3}, Value: "Hi "},
				&VariableExpression{
					Span:     source.Span{Start: 3, End: 20},
					Variable: &Variable{Span: source.Span{Start: 4, End: 9}, Name: "user"},
					Annotation: &Function{
						Span:       source.Span{Start: 10, End: 19},
						Identifier: Identifier{Span: source.Span{Start: 11, End: 13}, Name: "fn"},
						Options: []Option{{
							Span:  source.Span{Start: 14, End: 19},
							Key:   Identifier{Span: source.Span{Start: 14, End: 17}, Name: "opt"},
							Value: &NumberLiteral{Span: source.Span{Start: 18, End: 19}, Raw: "1"},
						}},
					},
				},
				&Text{Span: source.Span{Start: 20, End: 21}, Value: "!"},
			},
		},
	}
}

func TestInspectOrder(t *testing.T) {
	var kinds []string
	Inspect(sampleMessage(), func(n Node) bool {
		switch n.(type) {
		case *Text:
			kinds = append(kinds, "text")
		case *VariableExpression:
			kinds = append(kinds, "expr")
		case *Variable:
			kinds = append(kinds, "var")
		case *Function:
			kinds = append(kinds, "fn")
		case *NumberLiteral:
			kinds = append(kinds, "num")
		}
		return true
	})
	want := []string{"text", "expr", "var", "fn", "num", "text"}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
}

func TestInspectStopsDescent(t *testing.T) {
	sawVariable := false
	Inspect(sampleMessage(), func(n Node) bool {
		if _, ok := n.(*VariableExpression); ok {
			return false
		}
		if _, ok := n.(*Variable); ok {
			sawVariable = true
		}
		return true
	})
	if sawVariable {
		t.Error("Inspect descended into a skipped subtree")
	}
}

func TestNodeAt(t *testing.T) {
	msg := sampleMessage()
	tests := []struct {
		off  uint32
		want string
	}{
		{0, "*ast.Text"},
		{5, "*ast.Variable"},
		{3, "*ast.VariableExpression"},
		{12, "ast.Identifier"},
		{18, "*ast.NumberLiteral"},
		{20, "*ast.Text"},
	}
	for _, tt := range tests {
		got := NodeAt(msg, tt.off)
		if got == nil {
			t.Errorf("NodeAt(%d) = nil", tt.off)
			continue
		}
		if name := typeName(got); name != tt.want {
			t.Errorf("NodeAt(%d) = %s, want %s", tt.off, name, tt.want)
		}
	}
	if got := NodeAt(msg, 21); got != nil {
		t.Errorf("NodeAt past end = %T", got)
	}
}

func typeName(n Node) string {
	switch n.(type) {
	case *Text:
		return "*ast.Text"
	case *Variable:
		return "*ast.Variable"
	case *VariableExpression:
		return "*ast.VariableExpression"
	case *Function:
		return "*ast.Function"
	case *NumberLiteral:
		return "*ast.NumberLiteral"
	case Identifier:
		return "ast.Identifier"
	case Option:
		return "ast.Option"
	}
	return "other"
}
