package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mf2/internal/ast"
)

// NodeLabel returns a short description of a node: its kind plus the fields
// that identify it.
func NodeLabel(n ast.Node) string {
	switch n := n.(type) {
	case *ast.SimpleMessage:
		return "SimpleMessage"
	case *ast.ComplexMessage:
		return "ComplexMessage"
	case *ast.Pattern:
		return "Pattern"
	case *ast.Text:
		return fmt.Sprintf("Text %q", n.Value)
	case *ast.Escape:
		return fmt.Sprintf("Escape '\\%c'", n.Char)
	case *ast.LiteralExpression:
		return "LiteralExpression"
	case *ast.VariableExpression:
		return "VariableExpression"
	case *ast.AnnotationExpression:
		return "AnnotationExpression"
	case *ast.Variable:
		return fmt.Sprintf("Variable $%s", n.Name)
	case *ast.Function:
		return fmt.Sprintf("Function :%s", n.Identifier.Full())
	case ast.Identifier:
		return fmt.Sprintf("Identifier %s", n.Full())
	case ast.Option:
		return fmt.Sprintf("Option %s", n.Key.Full())
	case *ast.PrivateUseAnnotation:
		return fmt.Sprintf("PrivateUseAnnotation '%c'", n.Sigil)
	case *ast.ReservedAnnotation:
		return fmt.Sprintf("ReservedAnnotation '%c'", n.Sigil)
	case *ast.QuotedLiteral:
		return "QuotedLiteral"
	case *ast.NameLiteral:
		return fmt.Sprintf("NameLiteral %q", n.Value)
	case *ast.NumberLiteral:
		return fmt.Sprintf("NumberLiteral %s", n.Raw)
	case *ast.InputDeclaration:
		return "InputDeclaration"
	case *ast.LocalDeclaration:
		return "LocalDeclaration"
	case *ast.ReservedStatement:
		return fmt.Sprintf("ReservedStatement .%s", n.Keyword)
	case *ast.QuotedPattern:
		return "QuotedPattern"
	case *ast.Matcher:
		return "Matcher"
	case *ast.Variant:
		return "Variant"
	case *ast.CatchAllKey:
		return "CatchAllKey"
	}
	return fmt.Sprintf("%T", n)
}

// FormatASTPretty writes the syntax tree as an indented tree with spans.
func FormatASTPretty(w io.Writer, msg ast.Message) {
	fmt.Fprintf(w, "%s (span: %s)\n", NodeLabel(msg), msg.GetSpan())
	children := ast.Children(msg)
	for i, child := range children {
		writeTreeNode(w, child, "", i == len(children)-1)
	}
}

func writeTreeNode(w io.Writer, n ast.Node, prefix string, last bool) {
	connector := "├─ "
	childPrefix := prefix + "│  "
	if last {
		connector = "└─ "
		childPrefix = prefix + "   "
	}
	fmt.Fprintf(w, "%s%s%s (span: %s)\n", prefix, connector, NodeLabel(n), n.GetSpan())
	children := ast.Children(n)
	for i, child := range children {
		writeTreeNode(w, child, childPrefix, i == len(children)-1)
	}
}

// ASTNodeOutput is the JSON shape of one syntax-tree node.
type ASTNodeOutput struct {
	Kind     string          `json:"kind"`
	Span     SpanOutput      `json:"span"`
	Label    string          `json:"label,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTJSON writes the syntax tree as JSON.
func FormatASTJSON(w io.Writer, msg ast.Message) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonNode(msg))
}

func jsonNode(n ast.Node) ASTNodeOutput {
	sp := n.GetSpan()
	out := ASTNodeOutput{
		Kind:  kindName(n),
		Label: NodeLabel(n),
		Span:  SpanOutput{Start: sp.Start, End: sp.End},
	}
	for _, child := range ast.Children(n) {
		out.Children = append(out.Children, jsonNode(child))
	}
	return out
}

func kindName(n ast.Node) string {
	label := NodeLabel(n)
	if i := strings.IndexByte(label, ' '); i > 0 {
		return label[:i]
	}
	return label
}

// Fingerprint returns a structural dump of the tree without spans. Two trees
// with the same fingerprint have the same shape and contents; tests use it
// to compare reparsed trees.
func Fingerprint(msg ast.Message) string {
	var b strings.Builder
	fingerprintNode(&b, msg, 0)
	return b.String()
}

func fingerprintNode(b *strings.Builder, n ast.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(NodeLabel(n))
	b.WriteByte('\n')
	for _, child := range ast.Children(n) {
		fingerprintNode(b, child, depth+1)
	}
}
