package vgaconsole

import (
	"fmt"
	"strings"
)

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with color segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot represents a complete screen capture.
type Snapshot struct {
	Size   SnapshotSize   `json:"size"`
	Cursor SnapshotCursor `json:"cursor"`
	Lines  []SnapshotLine `json:"lines"`
}

// SnapshotSize holds grid dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SnapshotLine represents a single row in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment is a run of cells sharing one attribute byte.
type SnapshotSegment struct {
	Text string `json:"text"`
	Fg   string `json:"fg"`
	Bg   string `json:"bg"`
}

// SnapshotCell represents a single cell.
type SnapshotCell struct {
	Char string `json:"char"`
	Code byte   `json:"code"`
	Attr string `json:"attr"`
	Fg   string `json:"fg"`
	Bg   string `json:"bg"`
}

// Snapshot captures the current screen.
// The detail parameter controls how much information is included.
func (d *Device) Snapshot(detail SnapshotDetail) *Snapshot {
	return d.Frame().Snapshot(detail)
}

// Snapshot converts the frame into a Snapshot.
func (f *Frame) Snapshot(detail SnapshotDetail) *Snapshot {
	snap := &Snapshot{
		Size:   SnapshotSize{Rows: f.Rows, Cols: f.Cols},
		Cursor: SnapshotCursor{Row: f.Cursor.Row, Col: f.Cursor.Col},
		Lines:  make([]SnapshotLine, f.Rows),
	}

	for row := 0; row < f.Rows; row++ {
		cells := f.Cells[row*f.Cols : (row+1)*f.Cols]
		line := SnapshotLine{Text: lineText(cells)}

		switch detail {
		case SnapshotDetailStyled:
			line.Segments = lineToSegments(cells)
		case SnapshotDetailFull:
			line.Cells = lineToCells(cells)
		}
		snap.Lines[row] = line
	}

	return snap
}

// lineText returns the text of cells with trailing blanks trimmed.
func lineText(cells []Cell) string {
	last := len(cells) - 1
	for last >= 0 && cells[last].IsBlank() {
		last--
	}
	var sb strings.Builder
	for _, c := range cells[:last+1] {
		sb.WriteRune(c.Rune())
	}
	return sb.String()
}

// lineToSegments groups a row into runs of the same attribute.
func lineToSegments(cells []Cell) []SnapshotSegment {
	var segments []SnapshotSegment
	var sb strings.Builder

	for i, c := range cells {
		if i > 0 && c.Color != cells[i-1].Color {
			segments = append(segments, newSegment(sb.String(), cells[i-1].Color))
			sb.Reset()
		}
		sb.WriteRune(c.Rune())
	}
	if len(cells) > 0 {
		segments = append(segments, newSegment(sb.String(), cells[len(cells)-1].Color))
	}

	return segments
}

func newSegment(text string, code ColorCode) SnapshotSegment {
	return SnapshotSegment{
		Text: text,
		Fg:   code.Foreground().String(),
		Bg:   code.Background().String(),
	}
}

// lineToCells converts a row to full cell data.
func lineToCells(cells []Cell) []SnapshotCell {
	out := make([]SnapshotCell, len(cells))
	for i, c := range cells {
		out[i] = SnapshotCell{
			Char: string(c.Rune()),
			Code: c.Char,
			Attr: fmt.Sprintf("0x%02x", byte(c.Color)),
			Fg:   c.Color.Foreground().String(),
			Bg:   c.Color.Background().String(),
		}
	}
	return out
}
