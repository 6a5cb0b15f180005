package vgaconsole

import "image/color"

// Color is the portable 16-color set used by callers, in ANSI order.
type Color uint8

const (
	ColorBlack Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

var colorNames = [16]string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright-black", "bright-red", "bright-green", "bright-yellow",
	"bright-blue", "bright-magenta", "bright-cyan", "bright-white",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// NativeColor is an index into the VGA text mode palette.
type NativeColor uint8

const (
	NativeBlack NativeColor = iota
	NativeBlue
	NativeGreen
	NativeCyan
	NativeRed
	NativePurple
	NativeBrown
	NativeGray
	NativeDarkGray
	NativeLightBlue
	NativeLightGreen
	NativeLightCyan
	NativeLightRed
	NativeLightPurple
	NativeYellow
	NativeWhite
)

var nativeNames = [16]string{
	"black", "blue", "green", "cyan", "red", "purple", "brown", "gray",
	"dark-gray", "light-blue", "light-green", "light-cyan",
	"light-red", "light-purple", "yellow", "white",
}

func (c NativeColor) String() string {
	if int(c) < len(nativeNames) {
		return nativeNames[c]
	}
	return "unknown"
}

// nativePalette maps portable colors to VGA palette slots.
// Yellow lands on brown and both White and BrightBlack land on gray, as on
// the original hardware.
var nativePalette = [16]NativeColor{
	ColorBlack:         NativeBlack,
	ColorRed:           NativeRed,
	ColorGreen:         NativeGreen,
	ColorYellow:        NativeBrown,
	ColorBlue:          NativeBlue,
	ColorMagenta:       NativePurple,
	ColorCyan:          NativeCyan,
	ColorWhite:         NativeGray,
	ColorBrightBlack:   NativeGray,
	ColorBrightRed:     NativeLightRed,
	ColorBrightGreen:   NativeLightGreen,
	ColorBrightYellow:  NativeYellow,
	ColorBrightBlue:    NativeLightBlue,
	ColorBrightMagenta: NativeLightPurple,
	ColorBrightCyan:    NativeLightCyan,
	ColorBrightWhite:   NativeWhite,
}

// ToNative returns the VGA palette slot for c. Only the low 4 bits of c are used.
func ToNative(c Color) NativeColor {
	return nativePalette[c&0x0f]
}

// ColorFromSGR resolves an SGR foreground parameter (30-37, 90-97) to a Color.
// Any other value is reported as unrecognised.
func ColorFromSGR(v uint8) (Color, bool) {
	switch {
	case v >= 30 && v <= 37:
		return Color(v - 30), true
	case v >= 90 && v <= 97:
		return Color(v-90) + ColorBrightBlack, true
	}
	return 0, false
}

// ColorCode packs a foreground and background palette index into one attribute byte:
// background in the high nibble, foreground in the low nibble.
type ColorCode uint8

// DefaultColorCode is white text on a black background. It differs from the
// "ESC [ 37 m" color, which is gray.
const DefaultColorCode = ColorCode(uint8(NativeBlack)<<4 | uint8(NativeWhite))

// Pack combines fg and bg into a ColorCode.
func Pack(fg, bg NativeColor) ColorCode {
	return ColorCode((uint8(bg)&0x0f)<<4 | uint8(fg)&0x0f)
}

// Foreground returns the foreground palette index.
func (c ColorCode) Foreground() NativeColor {
	return NativeColor(c & 0x0f)
}

// Background returns the background palette index.
func (c ColorCode) Background() NativeColor {
	return NativeColor(c >> 4)
}

// VGAPalette holds the default DAC values of the 16 text mode colors.
var VGAPalette = [16]color.RGBA{
	{0, 0, 0, 255},       // black
	{0, 0, 170, 255},     // blue
	{0, 170, 0, 255},     // green
	{0, 170, 170, 255},   // cyan
	{170, 0, 0, 255},     // red
	{170, 0, 170, 255},   // purple
	{170, 85, 0, 255},    // brown
	{170, 170, 170, 255}, // gray
	{85, 85, 85, 255},    // dark gray
	{85, 85, 255, 255},   // light blue
	{85, 255, 85, 255},   // light green
	{85, 255, 255, 255},  // light cyan
	{255, 85, 85, 255},   // light red
	{255, 85, 255, 255},  // light purple
	{255, 255, 85, 255},  // yellow
	{255, 255, 255, 255}, // white
}

// ToRGBA returns the default DAC color of c.
func (c NativeColor) ToRGBA() color.RGBA {
	return VGAPalette[c&0x0f]
}
