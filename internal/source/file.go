package source

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Position is a location in a document following the LSP convention:
// Line is a 0-based line index, Character counts UTF-16 code units from the
// start of the line.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a pair of Positions, start inclusive and end exclusive.
type Range struct {
	Start Position
	End   Position
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// File is one MF2 document together with the line-start index derived from
// its text. It converts between byte offsets (used internally for spans) and
// UTF-16 line/character positions (used at the protocol boundary).
type File struct {
	Name       string
	Content    string
	lineStarts []uint32
}

// NewFile builds a File by scanning the text once and recording the byte
// offset of each line's first character. A line break is "\n", "\r\n", or a
// lone "\r"; "\r\n" counts as a single break.
func NewFile(name, content string) *File {
	return &File{
		Name:       name,
		Content:    content,
		lineStarts: buildLineStarts(content),
	}
}

func buildLineStarts(content string) []uint32 {
	starts := []uint32{0}
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			starts = append(starts, mustUint32(i+1))
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				starts = append(starts, mustUint32(i+2))
				i++
			} else {
				starts = append(starts, mustUint32(i+1))
			}
		}
	}
	return starts
}

func mustUint32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}

// Len returns the length of the document in bytes.
func (f *File) Len() uint32 {
	return mustUint32(len(f.Content))
}

// Text returns the source text covered by the span.
func (f *File) Text(sp Span) string {
	return f.Content[sp.Start:sp.End]
}

// Span returns the span covering the whole document.
func (f *File) Span() Span {
	return Span{Start: 0, End: f.Len()}
}

// line returns the index of the line containing the offset, i.e. the largest
// i such that lineStarts[i] <= off.
func (f *File) line(off uint32) int {
	lo, hi := 0, len(f.lineStarts)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if f.lineStarts[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return hi
}

// PositionOf converts a byte offset into a Position. Offsets past the end of
// the text clamp to the end of the text.
func (f *File) PositionOf(off uint32) Position {
	if off > f.Len() {
		off = f.Len()
	}
	line := f.line(off)
	start := f.lineStarts[line]
	return Position{
		Line:      mustUint32(line),
		Character: utf16Len(f.Content[start:off]),
	}
}

// OffsetOf converts a Position back into a byte offset. Out-of-bounds lines
// resolve to the end of the text; characters beyond the line length clamp to
// the line length. A character that points into the middle of a surrogate
// pair resolves to the start of that character.
func (f *File) OffsetOf(pos Position) uint32 {
	line := int(pos.Line)
	if line >= len(f.lineStarts) {
		return f.Len()
	}
	lineStart := f.lineStarts[line]
	lineEnd := f.Len()
	if line+1 < len(f.lineStarts) {
		lineEnd = f.lineStarts[line+1]
	}

	remaining := int(pos.Character)
	off := lineStart
	for off < lineEnd {
		r, size := utf8.DecodeRuneInString(f.Content[off:lineEnd])
		remaining -= utf16RuneLen(r)
		if remaining < 0 {
			break
		}
		off += mustUint32(size)
		if remaining == 0 {
			break
		}
	}
	return off
}

// RangeOf converts a span into a Range of UTF-16 positions.
func (f *File) RangeOf(sp Span) Range {
	return Range{
		Start: f.PositionOf(sp.Start),
		End:   f.PositionOf(sp.End),
	}
}

// Utf16Len returns the length of the span in UTF-16 code units.
func (f *File) Utf16Len(sp Span) uint32 {
	return utf16Len(f.Text(sp))
}

// NewlinesBetween counts the line breaks in the text between two offsets.
func (f *File) NewlinesBetween(start, end uint32) int {
	if end < start {
		return 0
	}
	return f.line(end) - f.line(start)
}

func utf16RuneLen(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}

func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(utf16RuneLen(r)) // #nosec G115 -- always 1 or 2
	}
	return n
}
