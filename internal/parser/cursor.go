package parser

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// cursor is a position in the document text that reads one scalar value at a
// time. Offsets are byte offsets; resetTo allows backtracking to a previously
// observed offset.
type cursor struct {
	text string
	off  uint32
}

func (c *cursor) eof() bool {
	return c.off >= c.limit()
}

func (c *cursor) limit() uint32 {
	v, err := safecast.Conv[uint32](len(c.text))
	if err != nil {
		panic(fmt.Errorf("document length overflow: %w", err))
	}
	return v
}

// pos returns the byte offset of the next scalar value to be read.
func (c *cursor) pos() uint32 {
	return c.off
}

// peek returns the next scalar value without consuming it.
func (c *cursor) peek() (rune, bool) {
	if c.eof() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.text[c.off:])
	return r, true
}

// peek2 returns the scalar value after the next one without consuming
// anything.
func (c *cursor) peek2() (rune, bool) {
	if c.eof() {
		return 0, false
	}
	_, size := utf8.DecodeRuneInString(c.text[c.off:])
	next := c.off + uint32(size) // #nosec G115 -- size is at most 4
	if next >= c.limit() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.text[next:])
	return r, true
}

// next consumes one scalar value and returns its starting offset.
func (c *cursor) next() (uint32, rune, bool) {
	if c.eof() {
		return c.off, 0, false
	}
	loc := c.off
	r, size := utf8.DecodeRuneInString(c.text[c.off:])
	c.off += uint32(size) // #nosec G115 -- size is at most 4
	return loc, r, true
}

// eat consumes the next scalar value if it equals r, returning its offset.
func (c *cursor) eat(r rune) (uint32, bool) {
	if got, ok := c.peek(); ok && got == r {
		loc, _, _ := c.next()
		return loc, true
	}
	return 0, false
}

// resetTo moves the cursor to the given byte offset. The offset must lie on
// a scalar-value boundary previously returned by pos or next.
func (c *cursor) resetTo(off uint32) {
	c.off = off
}

// slice returns the text between two byte offsets.
func (c *cursor) slice(start, end uint32) string {
	return c.text[start:end]
}
