package vgaconsole

import "errors"

const (
	// DefaultRows is the height of the standard text mode.
	DefaultRows = 25
	// DefaultCols is the width of the standard text mode.
	DefaultCols = 80
)

var (
	// ErrNotBound is returned when output reaches a console whose grid has not
	// been bound to memory yet.
	ErrNotBound = errors.New("vgaconsole: grid not bound")
	// ErrBackspaceAtLineStart is returned for a backspace with the cursor in column 0.
	// The console is left unchanged.
	ErrBackspaceAtLineStart = errors.New("vgaconsole: backspace at column 0")
)

const backspace = 0x08

// textConsole is the cursor, color and interpreter state driving one grid.
// It does no locking; Device serializes access to it.
type textConsole struct {
	rows int
	cols int

	x     int
	y     int
	color ColorCode

	parser Parser
	buffer *Buffer

	scrollback    ScrollbackProvider
	clearOnScroll bool
}

func newConsole(rows, cols int) *textConsole {
	return &textConsole{
		rows:       rows,
		cols:       cols,
		color:      DefaultColorCode,
		scrollback: NoopScrollback{},
	}
}

// bind attaches the console to a grid laid over mem. Cursor, color and parser
// state carry over; the grid contents are whatever mem holds.
func (c *textConsole) bind(mem []byte) error {
	buf, err := NewBuffer(c.rows, c.cols, mem)
	if err != nil {
		return err
	}
	c.buffer = buf
	return nil
}

func (c *textConsole) bound() bool {
	return c.buffer != nil
}

// clear blanks every cell with the current color.
func (c *textConsole) clear() {
	c.buffer.Fill(NewCell(c.color))
}

// setColor replaces the current color.
func (c *textConsole) setColor(color ColorCode) {
	c.color = color
}

// putChar feeds b through the interpreter and, if it is a character, draws it.
func (c *textConsole) putChar(b byte) error {
	if c.buffer == nil {
		return ErrNotBound
	}
	prev := c.parser
	action := c.parser.Advance(b)
	switch action.Kind {
	case ActionSwallow:
		return nil
	case ActionSetColor:
		c.setColor(action.Color)
		return nil
	}

	if b == backspace && c.x == 0 {
		// A rejected backspace must not even abort a pending sequence.
		c.parser = prev
		return ErrBackspaceAtLineStart
	}
	c.draw(b)
	return nil
}

// draw applies carriage semantics for b, then wraps and scrolls.
func (c *textConsole) draw(b byte) {
	switch b {
	case '\r':
		c.x = 0
	case '\n':
		c.x = 0
		c.y++
	case backspace:
		c.x--
		c.buffer.SetCell(c.y, c.x, NewCell(c.color))
	default:
		c.buffer.SetCell(c.y, c.x, Cell{Char: b, Color: c.color})
		c.x++
	}

	if c.x >= c.cols {
		c.x = 0
		c.y++
	}
	if c.y >= c.rows {
		c.scrollUp(c.y - c.rows + 1)
	}
}

// scrollUp shifts the grid up by n rows and moves the cursor with it.
func (c *textConsole) scrollUp(n int) {
	if n <= 0 || n > c.rows {
		return
	}
	for row := 0; row < n; row++ {
		c.scrollback.Push(c.buffer.Row(row))
	}
	c.buffer.ScrollUp(n)
	if c.clearOnScroll {
		c.buffer.ClearRows(c.rows-n, c.rows, NewCell(c.color))
	}
	c.y -= n
}

// write feeds every byte of p through putChar. Backspaces at column 0 are
// dropped; the only error is ErrNotBound.
func (c *textConsole) write(p []byte) (int, error) {
	for i, b := range p {
		if err := c.putChar(b); err != nil && !errors.Is(err, ErrBackspaceAtLineStart) {
			return i, err
		}
	}
	return len(p), nil
}

// writeString is write without the []byte conversion.
func (c *textConsole) writeString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if err := c.putChar(s[i]); err != nil && !errors.Is(err, ErrBackspaceAtLineStart) {
			return i, err
		}
	}
	return len(s), nil
}
