package vgaconsole

import "github.com/unilibs/uniwidth"

// Replacement is drawn for characters a text mode cell cannot hold.
const Replacement = '?'

// EncodeString converts s to bytes a text mode grid can show, one byte per cell.
// ASCII passes through unchanged. Other runes become Replacement repeated over
// their display width, so wide characters keep their columns; zero-width runes
// are dropped.
func EncodeString(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		for n := uniwidth.RuneWidth(r); n > 0; n-- {
			out = append(out, Replacement)
		}
	}
	return out
}

// StringWidth returns the number of cells s occupies after EncodeString.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
