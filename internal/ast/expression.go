package ast

import "mf2/internal/source"

// Expression is a `{ ... }` substitution form. Its operand is a literal or a
// variable, or absent when only an annotation is present.
type Expression interface {
	PatternPart
	exprNode()
}

// LiteralExpression is an expression with a literal operand: {|quoted| :fn}.
type LiteralExpression struct {
	Span       source.Span
	Literal    Literal
	Annotation Annotation // nil when absent
}

func (*LiteralExpression) patternPartNode() {}
func (*LiteralExpression) exprNode()        {}

func (e *LiteralExpression) GetSpan() source.Span { return e.Span }

// VariableExpression is an expression with a variable operand: {$var :fn}.
type VariableExpression struct {
	Span       source.Span
	Variable   *Variable
	Annotation Annotation // nil when absent
}

func (*VariableExpression) patternPartNode() {}
func (*VariableExpression) exprNode()        {}

func (e *VariableExpression) GetSpan() source.Span { return e.Span }

// AnnotationExpression is an expression without an operand: {:fn opt=1}.
type AnnotationExpression struct {
	Span       source.Span
	Annotation Annotation
}

func (*AnnotationExpression) patternPartNode() {}
func (*AnnotationExpression) exprNode()        {}

func (e *AnnotationExpression) GetSpan() source.Span { return e.Span }

// AnnotationOf returns an expression's annotation, or nil.
func AnnotationOf(e Expression) Annotation {
	switch e := e.(type) {
	case *LiteralExpression:
		return e.Annotation
	case *VariableExpression:
		return e.Annotation
	case *AnnotationExpression:
		return e.Annotation
	}
	return nil
}

// Annotation is a function call or a reserved/private-use form.
type Annotation interface {
	Node
	annotationNode()
}

// Function is a `:identifier` annotation with options.
type Function struct {
	Span       source.Span
	Identifier Identifier
	Options    []Option
}

func (*Function) annotationNode() {}

func (f *Function) GetSpan() source.Span { return f.Span }

// Option is one `key=value` pair of a function annotation.
type Option struct {
	Span  source.Span
	Key   Identifier
	Value Operand
}

func (o Option) GetSpan() source.Span { return o.Span }

// Operand is a value position: a literal or a variable.
type Operand interface {
	Node
	operandNode()
}

// PrivateUseAnnotation is an annotation introduced by '^' or '&'.
type PrivateUseAnnotation struct {
	Span  source.Span
	Sigil rune
	Body  []ReservedBodyPart
}

func (*PrivateUseAnnotation) annotationNode() {}

func (a *PrivateUseAnnotation) GetSpan() source.Span { return a.Span }

// ReservedAnnotation is an annotation introduced by one of the reserved
// sigils ('!', '%', '*', '+', '<', '>', '?', '~').
type ReservedAnnotation struct {
	Span  source.Span
	Sigil rune
	Body  []ReservedBodyPart
}

func (*ReservedAnnotation) annotationNode() {}

func (a *ReservedAnnotation) GetSpan() source.Span { return a.Span }

// Literal is a quoted or unquoted literal value.
type Literal interface {
	Node
	literalNode()
}

// QuotedLiteral is a `|...|` literal.
type QuotedLiteral struct {
	Span  source.Span
	Parts []QuotedPart
}

func (*QuotedLiteral) literalNode()          {}
func (*QuotedLiteral) operandNode()          {}
func (*QuotedLiteral) keyNode()              {}
func (*QuotedLiteral) reservedBodyPartNode() {}

func (l *QuotedLiteral) GetSpan() source.Span { return l.Span }

// NameLiteral is an unquoted name-like literal.
type NameLiteral struct {
	Span  source.Span
	Value string
}

func (*NameLiteral) literalNode() {}
func (*NameLiteral) operandNode() {}
func (*NameLiteral) keyNode()     {}

func (l *NameLiteral) GetSpan() source.Span { return l.Span }

// NumberLiteral is an unquoted number-like literal, kept in raw source form.
type NumberLiteral struct {
	Span source.Span
	Raw  string
}

func (*NumberLiteral) literalNode() {}
func (*NumberLiteral) operandNode() {}
func (*NumberLiteral) keyNode()     {}

func (l *NumberLiteral) GetSpan() source.Span { return l.Span }
