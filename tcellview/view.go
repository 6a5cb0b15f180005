// Package tcellview shows a vgaconsole.Device on a host terminal through tcell
// and feeds host key presses into the device's input buffer, standing in for
// the display adapter and the keyboard interrupt.
package tcellview

import (
	"github.com/gdamore/tcell/v2"

	vgaconsole "github.com/danielgatis/go-vga-console"
)

// View mirrors one device onto one screen.
type View struct {
	screen  tcell.Screen
	dev     *vgaconsole.Device
	palette [16]tcell.Color
	quitKey tcell.Key
}

// Option configures a View.
type Option func(*View)

// WithQuitKey sets the key that ends the session instead of reaching the device.
// Defaults to Ctrl+C.
func WithQuitKey(k tcell.Key) Option {
	return func(v *View) {
		v.quitKey = k
	}
}

// New creates a view of dev on an initialized screen.
func New(screen tcell.Screen, dev *vgaconsole.Device, opts ...Option) *View {
	v := &View{
		screen:  screen,
		dev:     dev,
		quitKey: tcell.KeyCtrlC,
	}
	for i, rgba := range vgaconsole.VGAPalette {
		v.palette[i] = tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Style returns the tcell style for a VGA attribute byte.
func (v *View) Style(code vgaconsole.ColorCode) tcell.Style {
	return tcell.StyleDefault.
		Foreground(v.palette[code.Foreground()]).
		Background(v.palette[code.Background()])
}

// Draw copies the current frame to the screen and shows it.
// Cells outside the screen are clipped.
func (v *View) Draw() {
	frame := v.dev.Frame()
	width, height := v.screen.Size()

	for row := 0; row < frame.Rows && row < height; row++ {
		for col := 0; col < frame.Cols && col < width; col++ {
			cell := frame.At(row, col)
			v.screen.SetContent(col, row, glyph(cell), nil, v.Style(cell.Color))
		}
	}
	v.screen.ShowCursor(frame.Cursor.Col, frame.Cursor.Row)
	v.screen.Show()
}

// glyph maps a cell byte to something a host terminal can draw.
func glyph(c vgaconsole.Cell) rune {
	if c.Char < 0x20 || c.Char == 0x7f {
		return ' '
	}
	return c.Rune()
}

// HandleEvent turns a key press into input bytes on the device.
// Returns false when the quit key was pressed.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == v.quitKey {
			return false
		}
		for _, b := range KeyBytes(ev) {
			v.dev.PushInput(b)
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// KeyBytes returns the bytes a key press produces on a PC keyboard.
// Enter becomes '\n', both backspace codes become 0x08, other control keys
// map to their ASCII code and keys without one (arrows, function keys) yield
// nothing.
func KeyBytes(ev *tcell.EventKey) []byte {
	switch key := ev.Key(); {
	case key == tcell.KeyRune:
		return vgaconsole.EncodeString(string(ev.Rune()))
	case key == tcell.KeyEnter:
		return []byte{'\n'}
	case key == tcell.KeyBackspace || key == tcell.KeyBackspace2:
		return []byte{0x08}
	case key >= 0 && key < 0x80:
		return []byte{byte(key)}
	}
	return nil
}
