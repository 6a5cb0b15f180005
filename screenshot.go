package vgaconsole

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ScreenshotConfig controls how a frame is rendered to an image.
// The zero value renders with basicfont.Face7x13, VGAPalette and no cursor.
type ScreenshotConfig struct {
	// Font draws the glyphs. Defaults to basicfont.Face7x13.
	Font font.Face

	// CellWidth and CellHeight override the cell size in pixels.
	// Zero means derive it from the font.
	CellWidth  int
	CellHeight int

	// Palette maps the 16 native colors to RGB. Defaults to VGAPalette.
	Palette *[16]color.RGBA

	// ShowCursor underlines the cursor cell in its foreground color.
	ShowCursor bool
}

// LoadFont reads a TrueType or OpenType font file and returns a face at size points.
func LoadFont(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFace(data, size)
}

// LoadFontFromReader is LoadFont for fonts that are not on disk.
func LoadFontFromReader(r io.Reader, size float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseFace(data, size)
}

func parseFace(data []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Screenshot renders the screen with basicfont, the VGA palette and the cursor.
func (d *Device) Screenshot() *image.RGBA {
	return d.Frame().Render(&ScreenshotConfig{ShowCursor: true})
}

// ScreenshotWithConfig renders the screen with cfg.
func (d *Device) ScreenshotWithConfig(cfg *ScreenshotConfig) *image.RGBA {
	return d.Frame().Render(cfg)
}

// renderer holds the resolved settings for one Render call.
type renderer struct {
	face    font.Face
	palette *[16]color.RGBA
	width   int
	height  int
	ascent  int
}

func newRenderer(cfg *ScreenshotConfig) *renderer {
	r := &renderer{
		face:    cfg.Font,
		palette: cfg.Palette,
		width:   cfg.CellWidth,
		height:  cfg.CellHeight,
	}
	if r.face == nil {
		r.face = basicfont.Face7x13
	}
	if r.palette == nil {
		r.palette = &VGAPalette
	}

	metrics := r.face.Metrics()
	if r.width == 0 {
		adv, _ := r.face.GlyphAdvance('M')
		r.width = max(adv.Ceil(), 1)
	}
	if r.height == 0 {
		r.height = max(metrics.Height.Ceil(), 1)
	}
	r.ascent = metrics.Ascent.Ceil()
	return r
}

func (r *renderer) fill(img *image.RGBA, rect image.Rectangle, native NativeColor) {
	draw.Draw(img, rect, image.NewUniform(r.palette[native&0x0f]), image.Point{}, draw.Src)
}

// drawCell paints the background of the cell at pixel origin (x, y), then
// its glyph.
func (r *renderer) drawCell(img *image.RGBA, x, y int, cell Cell) {
	r.fill(img, image.Rect(x, y, x+r.width, y+r.height), cell.Color.Background())
	if cell.IsBlank() {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.palette[cell.Color.Foreground()]),
		Face: r.face,
		Dot:  fixed.P(x, y+r.ascent),
	}
	d.DrawString(string(cell.Rune()))
}

// drawCursor underlines the cell at pixel origin (x, y) with its foreground.
func (r *renderer) drawCursor(img *image.RGBA, x, y int, cell Cell) {
	thickness := min(2, r.height)
	r.fill(img, image.Rect(x, y+r.height-thickness, x+r.width, y+r.height), cell.Color.Foreground())
}

// Render draws the frame into a new RGBA image, one cell per font cell.
func (f *Frame) Render(cfg *ScreenshotConfig) *image.RGBA {
	if cfg == nil {
		cfg = &ScreenshotConfig{}
	}
	r := newRenderer(cfg)
	img := image.NewRGBA(image.Rect(0, 0, f.Cols*r.width, f.Rows*r.height))

	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			r.drawCell(img, col*r.width, row*r.height, f.At(row, col))
		}
	}
	if cfg.ShowCursor {
		cell := f.At(f.Cursor.Row, f.Cursor.Col)
		r.drawCursor(img, f.Cursor.Col*r.width, f.Cursor.Row*r.height, cell)
	}
	return img
}
