package vgaconsole

import "golang.org/x/text/encoding/charmap"

// CellSize is the number of bytes one cell occupies in text mode memory.
const CellSize = 2

// Cell is one character position: a glyph byte and its attribute.
// In memory the glyph comes first, then the attribute.
type Cell struct {
	Char  byte
	Color ColorCode
}

// NewCell returns a blank cell (space) drawn with color.
func NewCell(color ColorCode) Cell {
	return Cell{Char: ' ', Color: color}
}

// IsBlank returns true for spaces and NUL glyphs.
func (c Cell) IsBlank() bool {
	return c.Char == ' ' || c.Char == 0
}

// Rune returns the glyph as a rune for host-side text extraction.
// NUL renders as a space and bytes from 0x80 up are read as code page 437,
// the character set of the text mode font.
func (c Cell) Rune() rune {
	switch {
	case c.Char == 0:
		return ' '
	case c.Char < 0x80:
		return rune(c.Char)
	}
	return charmap.CodePage437.DecodeByte(c.Char)
}

func (c Cell) encode(dst []byte) {
	dst[0] = c.Char
	dst[1] = byte(c.Color)
}

func decodeCell(src []byte) Cell {
	return Cell{Char: src[0], Color: ColorCode(src[1])}
}
