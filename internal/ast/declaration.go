package ast

import "mf2/internal/source"

// Declaration is an `.input`, `.local`, or reserved statement.
type Declaration interface {
	Node
	declNode()
}

// InputDeclaration declares an external input: `.input {$var}`. The
// expression is a *VariableExpression in well-formed messages, but error
// recovery may leave any expression here.
type InputDeclaration struct {
	Span       source.Span
	Expression Expression
}

func (*InputDeclaration) declNode() {}

func (d *InputDeclaration) GetSpan() source.Span { return d.Span }

// LocalDeclaration declares a local variable: `.local $var = {expr}`.
type LocalDeclaration struct {
	Span       source.Span
	Variable   *Variable
	Expression Expression
}

func (*LocalDeclaration) declNode() {}

func (d *LocalDeclaration) GetSpan() source.Span { return d.Span }

// ReservedStatement is any other `.keyword` statement, kept for forward
// compatibility: `.keyword body {expr} ...`.
type ReservedStatement struct {
	Span        source.Span
	Keyword     string
	KeywordSpan source.Span // covers the dot and the keyword
	Body        []ReservedBodyPart
	Expressions []Expression
}

func (*ReservedStatement) declNode() {}

func (d *ReservedStatement) GetSpan() source.Span { return d.Span }
