package source

import "testing"

const fixture = "a\nbc\r\nf\r🍊😅🎃\r\nasd🍊a"

func TestPositionOf(t *testing.T) {
	f := NewFile("fixture.mf2", fixture)

	tests := []struct {
		off  uint32
		want Position
	}{
		{0, Position{0, 0}},
		{1, Position{0, 1}},
		{2, Position{1, 0}},
		{3, Position{1, 1}},
		{4, Position{1, 2}},
		{5, Position{1, 3}},
		{6, Position{2, 0}},
		{7, Position{2, 1}},
		{8, Position{3, 0}},
		// 9, 10, 11 are in the middle of the multi-byte character 🍊
		{12, Position{3, 2}},
		{16, Position{3, 4}},
		{20, Position{3, 6}},
		{21, Position{3, 7}},
		{22, Position{4, 0}},
		{23, Position{4, 1}},
		{24, Position{4, 2}},
		{25, Position{4, 3}},
		{29, Position{4, 5}},
		{30, Position{4, 6}},
		// past end of text clamps to end
		{99, Position{4, 6}},
	}
	for _, tt := range tests {
		if got := f.PositionOf(tt.off); got != tt.want {
			t.Errorf("PositionOf(%d) = %v, want %v", tt.off, got, tt.want)
		}
	}
}

func TestOffsetOf(t *testing.T) {
	f := NewFile("fixture.mf2", fixture)

	tests := []struct {
		pos  Position
		want uint32
	}{
		{Position{0, 0}, 0},
		{Position{0, 1}, 1},
		{Position{1, 0}, 2},
		{Position{1, 3}, 5},
		{Position{2, 0}, 6},
		{Position{2, 1}, 7},
		{Position{3, 0}, 8},
		// column pointing into the middle of 🍊 resolves to its start
		{Position{3, 1}, 8},
		{Position{3, 2}, 12},
		{Position{3, 3}, 12},
		{Position{3, 4}, 16},
		{Position{3, 6}, 20},
		{Position{3, 7}, 21},
		{Position{4, 0}, 22},
		{Position{4, 3}, 25},
		{Position{4, 5}, 29},
		{Position{4, 6}, 30},
		// out of bounds line index
		{Position{5, 0}, 30},
		// out of bounds column index clamps to the line length
		{Position{0, 10}, 2},
	}
	for _, tt := range tests {
		if got := f.OffsetOf(tt.pos); got != tt.want {
			t.Errorf("OffsetOf(%v) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	f := NewFile("fixture.mf2", fixture)
	for off := uint32(0); off <= f.Len(); off++ {
		// offsets inside a multi-byte character resolve to its start, so
		// only offsets on a character boundary invert exactly
		if !isBoundary(fixture, int(off)) {
			continue
		}
		if back := f.OffsetOf(f.PositionOf(off)); back != off {
			t.Errorf("OffsetOf(PositionOf(%d)) = %d", off, back)
		}
	}
}

func isBoundary(s string, i int) bool {
	return i >= len(s) || (s[i]&0xC0) != 0x80
}

func TestLineStarts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []uint32
	}{
		{"empty", "", []uint32{0}},
		{"no newline", "abc", []uint32{0}},
		{"lf", "a\nb", []uint32{0, 2}},
		{"crlf is one break", "a\r\nb", []uint32{0, 3}},
		{"lone cr", "a\rb", []uint32{0, 2}},
		{"trailing lf", "a\n", []uint32{0, 2}},
		{"two lone cr", "a\r\rb", []uint32{0, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile("t.mf2", tt.content)
			if len(f.lineStarts) != len(tt.want) {
				t.Fatalf("lineStarts = %v, want %v", f.lineStarts, tt.want)
			}
			for i := range tt.want {
				if f.lineStarts[i] != tt.want[i] {
					t.Fatalf("lineStarts = %v, want %v", f.lineStarts, tt.want)
				}
			}
		})
	}
}

func TestUtf16Len(t *testing.T) {
	f := NewFile("fixture.mf2", fixture)
	tests := []struct {
		span Span
		want uint32
	}{
		{Span{0, 0}, 0},
		{Span{0, 1}, 1},
		{Span{0, 2}, 2},
		{Span{8, 12}, 2},
	}
	for _, tt := range tests {
		if got := f.Utf16Len(tt.span); got != tt.want {
			t.Errorf("Utf16Len(%v) = %d, want %d", tt.span, got, tt.want)
		}
	}
}

func TestSpanHelpers(t *testing.T) {
	s := Span{Start: 2, End: 5}
	if s.Empty() || s.Len() != 3 {
		t.Fatalf("unexpected span %v", s)
	}
	if !s.Contains(2) || !s.Contains(4) || s.Contains(5) {
		t.Errorf("Contains misbehaves for %v", s)
	}
	if !s.ContainsSpan(Span{3, 4}) || !s.ContainsSpan(s) || s.ContainsSpan(Span{1, 3}) {
		t.Errorf("ContainsSpan misbehaves for %v", s)
	}
	if got := s.Cover(Span{4, 9}); got != (Span{2, 9}) {
		t.Errorf("Cover = %v", got)
	}
}
