package diag

import "fmt"

// Code identifies the kind of a diagnostic. Codes are grouped in numeric
// blocks per pipeline phase; the string form is stable and user visible.
type Code uint16

const (
	UnknownCode Code = 0

	// Parse diagnostics.
	SynBadEscape                   Code = 2001
	SynUnescapedBrace              Code = 2002
	SynUnclosedExpression          Code = 2003
	SynUnclosedQuotedLiteral       Code = 2004
	SynUnclosedQuotedPattern       Code = 2005
	SynEmptyExpression             Code = 2006
	SynUnexpectedCharacter         Code = 2007
	SynMissingEquals               Code = 2008
	SynMissingVariable             Code = 2009
	SynMissingIdentifier           Code = 2010
	SynVariantKeyCountMismatch     Code = 2011
	SynMatcherMissingBody          Code = 2012
	SynReservedAnnotation          Code = 2013
	SynOptionMissingKey            Code = 2014
	SynOptionMissingValue          Code = 2015
	SynNumberLeadingZero           Code = 2016
	SynNumberMissingIntegralPart   Code = 2017
	SynNumberMissingFractionalPart Code = 2018
	SynNumberMissingExponentPart   Code = 2019
	SynMissingExpression           Code = 2020
	SynExpressionNotWrapped        Code = 2021
	SynMatcherMissingSelectors     Code = 2022
	SynMatcherKeyIsVariable        Code = 2023
	SynMultipleBodies              Code = 2024
	SynDeclarationAfterBody        Code = 2025
	SynBodyNotQuoted               Code = 2026
	SynTrailingContent             Code = 2027

	// Scope diagnostics.
	ScopeDuplicateDeclaration  Code = 3001
	ScopeUsedBeforeDeclaration Code = 3002

	// Request diagnostics.
	ReqInvalidVariableName  Code = 4001
	ReqNoVariableAtPosition Code = 4002
)

var codeNames = map[Code]string{
	SynBadEscape:                   "BadEscape",
	SynUnescapedBrace:              "UnescapedBrace",
	SynUnclosedExpression:          "UnclosedExpression",
	SynUnclosedQuotedLiteral:       "UnclosedQuotedLiteral",
	SynUnclosedQuotedPattern:       "UnclosedQuotedPattern",
	SynEmptyExpression:             "EmptyExpression",
	SynUnexpectedCharacter:         "UnexpectedCharacter",
	SynMissingEquals:               "MissingEquals",
	SynMissingVariable:             "MissingVariable",
	SynMissingIdentifier:           "MissingIdentifier",
	SynVariantKeyCountMismatch:     "VariantKeyCountMismatch",
	SynMatcherMissingBody:          "MatcherMissingBody",
	SynReservedAnnotation:          "ReservedAnnotation",
	SynOptionMissingKey:            "OptionMissingKey",
	SynOptionMissingValue:          "OptionMissingValue",
	SynNumberLeadingZero:           "NumberLeadingZero",
	SynNumberMissingIntegralPart:   "NumberMissingIntegralPart",
	SynNumberMissingFractionalPart: "NumberMissingFractionalPart",
	SynNumberMissingExponentPart:   "NumberMissingExponentPart",
	SynMissingExpression:           "MissingExpression",
	SynExpressionNotWrapped:        "ExpressionNotWrapped",
	SynMatcherMissingSelectors:     "MatcherMissingSelectors",
	SynMatcherKeyIsVariable:        "MatcherKeyIsVariable",
	SynMultipleBodies:              "MultipleBodies",
	SynDeclarationAfterBody:        "DeclarationAfterBody",
	SynBodyNotQuoted:               "BodyNotQuoted",
	SynTrailingContent:             "TrailingContent",
	ScopeDuplicateDeclaration:      "DuplicateDeclaration",
	ScopeUsedBeforeDeclaration:     "UsedBeforeDeclaration",
	ReqInvalidVariableName:         "InvalidVariableName",
	ReqNoVariableAtPosition:        "NoVariableAtPosition",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(c))
}

// IsParse reports whether the code belongs to the parse phase.
func (c Code) IsParse() bool {
	return c >= 2000 && c < 3000
}

// IsScope reports whether the code belongs to the scope-analysis phase.
func (c Code) IsScope() bool {
	return c >= 3000 && c < 4000
}
