package vgaconsole

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRegionTooSmall is returned when the memory handed to a Buffer cannot hold the grid.
	ErrRegionTooSmall = errors.New("vgaconsole: memory region too small for grid")
	// ErrInvalidSize is returned for grids with a non-positive dimension.
	ErrInvalidSize = errors.New("vgaconsole: invalid grid size")
)

// Buffer is a fixed rows x cols grid of cells laid over a byte region,
// row-major, with (0, 0) at the top-left. It never allocates the region
// itself: the bytes usually are the hardware text surface.
type Buffer struct {
	rows int
	cols int
	mem  []byte
}

// NewBuffer lays a rows x cols grid over mem. Extra bytes past the grid are
// left untouched.
func NewBuffer(rows, cols int, mem []byte) (*Buffer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	size := rows * cols * CellSize
	if len(mem) < size {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrRegionTooSmall, size, len(mem))
	}
	return &Buffer{
		rows: rows,
		cols: cols,
		mem:  mem[:size:size],
	}, nil
}

// Rows returns the buffer height in character rows.
func (b *Buffer) Rows() int {
	return b.rows
}

// Cols returns the buffer width in character columns.
func (b *Buffer) Cols() int {
	return b.cols
}

func (b *Buffer) offset(row, col int) int {
	return (row*b.cols + col) * CellSize
}

func (b *Buffer) inBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Cell returns the cell at (row, col).
// The second result is false if coordinates are out of bounds.
func (b *Buffer) Cell(row, col int) (Cell, bool) {
	if !b.inBounds(row, col) {
		return Cell{}, false
	}
	off := b.offset(row, col)
	return decodeCell(b.mem[off : off+CellSize]), true
}

// SetCell writes cell at (row, col).
// Does nothing if coordinates are out of bounds.
func (b *Buffer) SetCell(row, col int, cell Cell) {
	if !b.inBounds(row, col) {
		return
	}
	off := b.offset(row, col)
	cell.encode(b.mem[off : off+CellSize])
}

// Fill writes cell into every position of the grid.
func (b *Buffer) Fill(cell Cell) {
	for off := 0; off < len(b.mem); off += CellSize {
		cell.encode(b.mem[off : off+CellSize])
	}
}

// ClearRows resets rows [from, to) to cell. The range is clipped to the grid.
func (b *Buffer) ClearRows(from, to int, cell Cell) {
	from = clamp(from, 0, b.rows)
	to = clamp(to, 0, b.rows)
	for off := b.offset(from, 0); off < b.offset(to, 0); off += CellSize {
		cell.encode(b.mem[off : off+CellSize])
	}
}

// Row returns a copy of the cells in row, or nil if row is out of bounds.
func (b *Buffer) Row(row int) []Cell {
	if row < 0 || row >= b.rows {
		return nil
	}
	line := make([]Cell, b.cols)
	for col := range line {
		off := b.offset(row, col)
		line[col] = decodeCell(b.mem[off : off+CellSize])
	}
	return line
}

// ScrollUp moves rows [n, rows) to [0, rows-n) in one bulk copy.
// The bottom n rows keep whatever they held before; callers that want them
// blank use ClearRows. Does nothing if n <= 0 or n > rows.
func (b *Buffer) ScrollUp(n int) {
	if n <= 0 || n > b.rows {
		return
	}
	src := b.mem[b.offset(n, 0):]
	dst := b.mem[:len(src)]
	copy(dst, src)
}

// LineContent returns the text of a row with trailing blanks trimmed.
// Returns empty string if the row is blank or out of bounds.
func (b *Buffer) LineContent(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}

	lastNonBlank := -1
	for col := b.cols - 1; col >= 0; col-- {
		if cell, _ := b.Cell(row, col); !cell.IsBlank() {
			lastNonBlank = col
			break
		}
	}
	if lastNonBlank < 0 {
		return ""
	}

	var sb strings.Builder
	for col := 0; col <= lastNonBlank; col++ {
		cell, _ := b.Cell(row, col)
		sb.WriteRune(cell.Rune())
	}
	return sb.String()
}

// String returns the grid as newline-separated lines, omitting trailing empty lines.
func (b *Buffer) String() string {
	lines := make([]string, b.rows)
	lastNonEmpty := -1
	for row := range lines {
		lines[row] = b.LineContent(row)
		if lines[row] != "" {
			lastNonEmpty = row
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}
	return strings.Join(lines[:lastNonEmpty+1], "\n")
}

// Position identifies a cell location in the grid (0-based).
type Position struct {
	Row int
	Col int
}

// clamp ensures the value is within the given range.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
