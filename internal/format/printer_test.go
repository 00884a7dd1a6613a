package format

import (
	"testing"

	"mf2/internal/ast"
	"mf2/internal/diag"
	"mf2/internal/diagfmt"
	"mf2/internal/parser"
	"mf2/internal/source"
)

func parseForPrint(t *testing.T, input string) (ast.Message, *source.File, *diag.Bag) {
	t.Helper()
	file := source.NewFile("test.mf2", input)
	bag := diag.NewBag(100)
	msg := parser.Parse(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return msg, file, bag
}

func mustPrint(t *testing.T, input string) string {
	t.Helper()
	msg, file, bag := parseForPrint(t, input)
	out, ok := Print(msg, file, bag)
	if !ok {
		t.Fatalf("Print refused %q: %v", input, bag.Items())
	}
	return out
}

// Spec scenario: declarations are placed one per line in canonical form.
func TestPrintDeclarations(t *testing.T) {
	got := mustPrint(t, ".local $foo = {1} .input {$bar}\n{{Hello {$foo} and {$bar}!}}")
	want := ".local $foo = {1}\n.input {$bar}\n{{Hello {$foo} and {$bar}!}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Spec scenario: inputs with syntax errors are not formatted.
func TestPrintRefusesOnParseErrors(t *testing.T) {
	msg, file, bag := parseForPrint(t, ".hello world {    .4 }}")
	if !bag.HasErrors() {
		t.Fatal("expected parse errors")
	}
	if out, ok := Print(msg, file, bag); ok {
		t.Errorf("Print accepted broken input, returned %q", out)
	}
}

func TestPrintCanonicalizesWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"expression spacing",
			"Hello, {   name  }!",
			"Hello, {name}!\n",
		},
		{
			"annotation spacing",
			"{ $x   :fn   opt=1 }",
			"{$x :fn opt=1}\n",
		},
		{
			"declaration spacing",
			".local   $foo   =   {  1  }\n{{x}}",
			".local $foo = {1}\n{{x}}\n",
		},
		{
			"quoted literal kept verbatim",
			"{|  spaced   out  |}",
			"{|  spaced   out  |}\n",
		},
		{
			"text kept verbatim",
			"  leading and trailing  ",
			"  leading and trailing  \n",
		},
		{
			"escapes kept",
			"a \\{ b \\} c",
			"a \\{ b \\} c\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustPrint(t, tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintBlankLinePreservation(t *testing.T) {
	// a run of blank lines collapses to exactly one
	got := mustPrint(t, ".local $a = {1}\n\n\n\n.local $b = {2}\n{{x}}")
	want := ".local $a = {1}\n\n.local $b = {2}\n{{x}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// no blank line in the source, none in the output
	got = mustPrint(t, ".local $a = {1}\n.local $b = {2}\n{{x}}")
	want = ".local $a = {1}\n.local $b = {2}\n{{x}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// a blank line before the body is kept
	got = mustPrint(t, ".local $a = {1}\n\n{{x}}")
	want = ".local $a = {1}\n\n{{x}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintMatcher(t *testing.T) {
	got := mustPrint(t, ".match {$count :number}   1 {{one}}    * {{other {$count}}}")
	want := ".match {$count :number}\n1 {{one}}\n* {{other {$count}}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// bare variable selectors print bare
	got = mustPrint(t, ".match $a $b 1 2 {{x}} * * {{y}}")
	want = ".match $a $b\n1 2 {{x}}\n* * {{y}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// expression selectors without annotations collapse to bare form
	got = mustPrint(t, ".match {$a} * {{x}}")
	want = ".match $a\n* {{x}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintReservedStatement(t *testing.T) {
	got := mustPrint(t, ".always   body.text   {$x}\n{{y}}")
	want := ".always body.text {$x}\n{{y}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintEndsWithSingleNewline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hello", "hello\n"},
		{"hello\n", "hello\n"},
		{".local $a = {1}\n{{x}}\n", ".local $a = {1}\n{{x}}\n"},
	}
	for _, tt := range tests {
		if got := mustPrint(t, tt.input); got != tt.want {
			t.Errorf("print of %q = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// Printing is idempotent: print(parse(print(x))) == print(x), and the
// reparsed tree has the same structure.
func TestPrintIdempotence(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"Hello, {   name  }!",
		"Hi {$user :upper}!",
		".local $foo = {1} .input {$bar}\n{{Hello {$foo} and {$bar}!}}",
		".local $a = {1}\n\n\n.local $b = {|two|}\n{{x {$a} y {$b}}}",
		".match {$count :number} 1 {{one}} * {{other}}",
		".match $a $b 1 2 {{x}} * * {{y}}",
		".always body {$x}\n{{y}}",
		"a \\{ b \\} c {|quo\\|ted|}",
		"{$x ^private use}",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := mustPrint(t, input)
			msg2, file2, bag2 := parseForPrint(t, first)
			if bag2.HasErrors() {
				t.Fatalf("printed output does not reparse: %q -> %v", first, bag2.Items())
			}
			second, ok := Print(msg2, file2, bag2)
			if !ok {
				t.Fatalf("second print refused %q", first)
			}
			if first != second {
				t.Errorf("not idempotent:\nfirst:  %q\nsecond: %q", first, second)
			}

			msg1, _, _ := parseForPrint(t, input)
			if input == first {
				if diagfmt.Fingerprint(msg1) != diagfmt.Fingerprint(msg2) {
					t.Errorf("structure changed for already-canonical input")
				}
			}
		})
	}
}
