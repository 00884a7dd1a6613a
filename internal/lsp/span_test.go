package lsp

import (
	"testing"

	"mf2/internal/source"
)

func TestOffsetForPositionClamps(t *testing.T) {
	file := source.NewFile("t.mf2", "ab\ncd")
	tests := []struct {
		pos  position
		want uint32
	}{
		{position{Line: 0, Character: 0}, 0},
		{position{Line: 0, Character: 2}, 2},
		{position{Line: 1, Character: 1}, 4},
		{position{Line: 5, Character: 0}, 5},
		{position{Line: -1, Character: -3}, 0},
	}
	for _, tt := range tests {
		if got := offsetFor(file, tt.pos); got != tt.want {
			t.Errorf("offsetFor(%+v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestRangeForSpanRoundTrip(t *testing.T) {
	file := source.NewFile("t.mf2", "ab\n🍊cd")
	sp := source.Span{Start: 3, End: 8} // 🍊c
	rng := rangeForSpan(file, sp)
	if rng.Start != (position{Line: 1, Character: 0}) || rng.End != (position{Line: 1, Character: 3}) {
		t.Errorf("range = %+v", rng)
	}
	if back := spanForRange(file, rng); back != sp {
		t.Errorf("span round trip = %v, want %v", back, sp)
	}
}

func TestApplyChanges(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		changes []textDocumentContentChangeEvent
		want    string
	}{
		{
			"full replace",
			"old",
			[]textDocumentContentChangeEvent{{Text: "new"}},
			"new",
		},
		{
			"insert",
			"helloworld",
			[]textDocumentContentChangeEvent{{
				Range: &lspRange{Start: position{0, 5}, End: position{0, 5}},
				Text:  " ",
			}},
			"hello world",
		},
		{
			"replace range",
			"hello world",
			[]textDocumentContentChangeEvent{{
				Range: &lspRange{Start: position{0, 6}, End: position{0, 11}},
				Text:  "mf2",
			}},
			"hello mf2",
		},
		{
			"multiline",
			"a\nb\nc",
			[]textDocumentContentChangeEvent{{
				Range: &lspRange{Start: position{1, 0}, End: position{2, 0}},
				Text:  "",
			}},
			"a\nc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyChanges(tt.text, tt.changes); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestURIToPath(t *testing.T) {
	if got := uriToPath("file:///tmp/test.mf2"); got != "/tmp/test.mf2" {
		t.Errorf("uriToPath = %q", got)
	}
	if got := uriToPath("https://example.com/x"); got != "" {
		t.Errorf("non-file scheme should yield empty, got %q", got)
	}
}
