package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mf2/internal/diag"
	"mf2/internal/parser"
	"mf2/internal/source"
)

func diagnose(t *testing.T, input string) ([]diag.Diagnostic, *source.File) {
	t.Helper()
	file := source.NewFile("test.mf2", input)
	bag := diag.NewBag(100)
	parser.Parse(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	bag.Sort()
	return bag.Items(), file
}

func TestPretty(t *testing.T) {
	diags, file := diagnose(t, "Hello \\a")
	var buf bytes.Buffer
	Pretty(&buf, diags, file, PrettyOpts{Color: false})
	out := buf.String()

	if !strings.Contains(out, "test.mf2:1:8: ERROR BadEscape:") {
		t.Errorf("missing header in output:\n%s", out)
	}
	if !strings.Contains(out, "Hello \\a") {
		t.Errorf("missing source line in output:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret in output:\n%s", out)
	}
}

func TestPrettyCaretAlignment(t *testing.T) {
	diags, file := diagnose(t, "a\nb }")
	var buf bytes.Buffer
	Pretty(&buf, diags, file, PrettyOpts{Color: false})
	out := buf.String()

	if !strings.Contains(out, "test.mf2:2:3:") {
		t.Errorf("wrong position in output:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.HasSuffix(line, "b }") && i+1 < len(lines) {
			if lines[i+1] != "    ^" {
				t.Errorf("caret line = %q", lines[i+1])
			}
		}
	}
}

func TestJSONOutput(t *testing.T) {
	diags, file := diagnose(t, "Hello \\a")
	var buf bytes.Buffer
	if err := JSON(&buf, diags, file); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out []DiagnosticOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("out = %+v", out)
	}
	if out[0].Code != "BadEscape" || out[0].Range.Start.Character != 7 {
		t.Errorf("diagnostic = %+v", out[0])
	}
}

func TestFingerprintIgnoresSpans(t *testing.T) {
	file1 := source.NewFile("a.mf2", "Hi {$x}")
	msg1 := parser.Parse(file1, parser.Options{})
	file2 := source.NewFile("b.mf2", "Hi   {$x}")
	msg2 := parser.Parse(file2, parser.Options{})

	fp1, fp2 := Fingerprint(msg1), Fingerprint(msg2)
	if fp1 == fp2 {
		t.Error("different text runs must fingerprint differently")
	}

	file3 := source.NewFile("c.mf2", "Hi {  $x  }")
	msg3 := parser.Parse(file3, parser.Options{})
	if Fingerprint(msg1) != Fingerprint(msg3) {
		t.Error("messages differing only in spans must fingerprint identically")
	}
}

func TestFormatASTPretty(t *testing.T) {
	file := source.NewFile("t.mf2", ".local $x = {1}\n{{a {$x}}}")
	msg := parser.Parse(file, parser.Options{})
	var buf bytes.Buffer
	FormatASTPretty(&buf, msg)
	out := buf.String()

	for _, want := range []string{"ComplexMessage", "LocalDeclaration", "Variable $x", "NumberLiteral 1", "QuotedPattern"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in tree:\n%s", want, out)
		}
	}
}
