package vgaconsole

import "testing"

func TestFrameRender_Dimensions(t *testing.T) {
	dev := newBoundDevice(t, 3, 4)

	img := dev.Screenshot()

	// basicfont.Face7x13 cells
	if got := img.Bounds().Dx(); got != 4*7 {
		t.Errorf("width = %d, want %d", got, 4*7)
	}
	if got := img.Bounds().Dy(); got != 3*13 {
		t.Errorf("height = %d, want %d", got, 3*13)
	}
}

func TestFrameRender_Background(t *testing.T) {
	f := &Frame{
		Rows:  1,
		Cols:  1,
		Cells: []Cell{{Char: ' ', Color: Pack(NativeGray, NativeBlue)}},
	}

	img := f.Render(&ScreenshotConfig{})

	if got := img.RGBAAt(3, 3); got != VGAPalette[NativeBlue] {
		t.Errorf("pixel = %v, want %v", got, VGAPalette[NativeBlue])
	}
}

func TestFrameRender_Glyph(t *testing.T) {
	f := &Frame{
		Rows:  1,
		Cols:  1,
		Cells: []Cell{{Char: 'A', Color: Pack(NativeYellow, NativeBlack)}},
	}

	img := f.Render(&ScreenshotConfig{})

	lit := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == VGAPalette[NativeYellow] {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("glyph drew no foreground pixels")
	}
}

func TestFrameRender_Cursor(t *testing.T) {
	f := &Frame{
		Rows:   1,
		Cols:   2,
		Cells:  []Cell{NewCell(DefaultColorCode), NewCell(DefaultColorCode)},
		Cursor: Position{Row: 0, Col: 1},
	}

	img := f.Render(&ScreenshotConfig{ShowCursor: true})

	if got := img.RGBAAt(7+3, 12); got != VGAPalette[NativeWhite] {
		t.Errorf("cursor pixel = %v, want %v", got, VGAPalette[NativeWhite])
	}
	if got := img.RGBAAt(3, 12); got != VGAPalette[NativeBlack] {
		t.Errorf("non-cursor pixel = %v, want %v", got, VGAPalette[NativeBlack])
	}
}

func TestFrameRender_CustomPalette(t *testing.T) {
	palette := VGAPalette
	palette[NativeBlack].R = 1
	f := &Frame{Rows: 1, Cols: 1, Cells: []Cell{NewCell(DefaultColorCode)}}

	img := f.Render(&ScreenshotConfig{Palette: &palette, CellWidth: 2, CellHeight: 2})

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v, want 2x2", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != palette[NativeBlack] {
		t.Errorf("pixel = %v, want %v", got, palette[NativeBlack])
	}
}
