package vgaconsole

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestUnboundDeviceRefusesOutput(t *testing.T) {
	dev := New()

	if dev.IsBound() {
		t.Fatal("new device is bound")
	}
	if err := dev.PutChar('x'); !errors.Is(err, ErrNotBound) {
		t.Errorf("PutChar err = %v, want ErrNotBound", err)
	}
	if n, err := dev.WriteString("abc"); n != 0 || !errors.Is(err, ErrNotBound) {
		t.Errorf("WriteString = (%d, %v), want (0, ErrNotBound)", n, err)
	}
	if err := dev.PrintAtLevel(LevelInfo, "x"); !errors.Is(err, ErrNotBound) {
		t.Errorf("PrintAtLevel err = %v, want ErrNotBound", err)
	}
	if err := dev.Init(); !errors.Is(err, ErrNotBound) {
		t.Errorf("Init err = %v, want ErrNotBound", err)
	}
	if _, ok := dev.Cell(0, 0); ok {
		t.Error("Cell on unbound device reported ok")
	}
}

func TestUnboundFrameIsBlank(t *testing.T) {
	dev := New(WithSize(2, 3))

	f := dev.Frame()

	if f.Rows != 2 || f.Cols != 3 || len(f.Cells) != 6 {
		t.Fatalf("frame %dx%d with %d cells", f.Rows, f.Cols, len(f.Cells))
	}
	for _, c := range f.Cells {
		if c != NewCell(DefaultColorCode) {
			t.Errorf("cell = %+v, want blank default", c)
		}
	}
}

func TestInitEarlyClearsGrid(t *testing.T) {
	mem := NewHostMemory()
	garbage := mem.Map(DefaultBaseAddress, 5*10*CellSize)
	for i := range garbage {
		garbage[i] = 0xAA
	}

	dev := New(WithMemory(mem), WithSize(5, 10))
	if err := dev.InitEarly(); err != nil {
		t.Fatalf("InitEarly: %v", err)
	}

	for i := 0; i < len(garbage); i += CellSize {
		if garbage[i] != ' ' || garbage[i+1] != 0x0f {
			t.Fatalf("byte %d = %#x %#x, want blank default cell", i, garbage[i], garbage[i+1])
		}
	}
	assertCursor(t, dev, 0, 0)
	if dev.Color() != DefaultColorCode {
		t.Errorf("color = %#x, want %#x", dev.Color(), DefaultColorCode)
	}
}

func TestInitEarlyTwice(t *testing.T) {
	dev := newBoundDevice(t, 5, 10)
	dev.WriteString("keep")

	if err := dev.InitEarly(); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("second InitEarly err = %v, want ErrAlreadyBound", err)
	}
	if got := dev.LineContent(0); got != "keep" {
		t.Errorf("grid changed: %q", got)
	}
}

func TestInitEarlyUnmappedWindow(t *testing.T) {
	dev := New(WithMemory(NewStrictHostMemory()))

	err := dev.InitEarly()

	if !errors.Is(err, ErrUnmapped) {
		t.Fatalf("err = %v, want ErrUnmapped", err)
	}
	if dev.IsBound() {
		t.Error("device bound after failed InitEarly")
	}
}

func TestInitEarlyWindowTooSmall(t *testing.T) {
	mem := NewStrictHostMemory()
	mem.Map(DefaultBaseAddress, 16)
	dev := New(WithMemory(mem))

	if err := dev.InitEarly(); !errors.Is(err, ErrRegionTooSmall) {
		t.Fatalf("err = %v, want ErrRegionTooSmall", err)
	}
}

func TestInitWithoutTranslatorKeepsBinding(t *testing.T) {
	mem := NewHostMemory()
	dev := New(WithMemory(mem), WithSize(5, 10))
	dev.InitEarly()
	dev.WriteString("abc")

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	dev.WriteString("d")

	window, _ := mem.Region(DefaultBaseAddress, 5*10*CellSize)
	if window[6] != 'd' {
		t.Errorf("write after Init missed the physical window: %#x", window[6])
	}
}

func TestInitRebindsThroughAlias(t *testing.T) {
	const offset = OffsetTranslator(0xffff_8000_0000_0000)
	mem := NewHostMemory()
	mem.Alias(offset.PhysToVirt(DefaultBaseAddress), DefaultBaseAddress)

	dev := New(WithMemory(mem), WithSize(5, 10), WithTranslator(offset))
	dev.InitEarly()
	dev.WriteString("\x1b[91mboot\n")

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// Same memory behind both addresses: earlier output stays visible and
	// cursor and color carry over.
	if got := dev.LineContent(0); got != "boot" {
		t.Errorf("line 0 = %q, want %q", got, "boot")
	}
	assertCursor(t, dev, 1, 0)
	if dev.Color() != Pack(NativeLightRed, NativeBlack) {
		t.Errorf("color = %#x", dev.Color())
	}
	dev.WriteString("paged")
	if got := dev.LineContent(1); got != "paged" {
		t.Errorf("line 1 = %q, want %q", got, "paged")
	}
}

func TestInitRebindDoesNotCopy(t *testing.T) {
	const offset = OffsetTranslator(0x1000_0000)
	mem := NewHostMemory()

	dev := New(WithMemory(mem), WithSize(5, 10), WithTranslator(offset))
	dev.InitEarly()
	dev.WriteString("early")

	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := dev.String(); got != "" {
		t.Errorf("unaliased virtual window shows %q, want nothing copied", got)
	}
	assertCursor(t, dev, 0, 5)
}

func TestInitStrictVirtualWindowMissing(t *testing.T) {
	mem := NewStrictHostMemory()
	mem.Map(DefaultBaseAddress, DefaultRows*DefaultCols*CellSize)
	dev := New(WithMemory(mem), WithTranslator(OffsetTranslator(0x1000)))
	dev.InitEarly()
	dev.WriteString("x")

	if err := dev.Init(); !errors.Is(err, ErrUnmapped) {
		t.Fatalf("err = %v, want ErrUnmapped", err)
	}
	dev.WriteString("y")
	if got := dev.LineContent(0); got != "xy" {
		t.Errorf("failed Init lost the binding: %q", got)
	}
}

func TestWithSizeDefaults(t *testing.T) {
	dev := New(WithSize(0, -1))

	if dev.Rows() != DefaultRows || dev.Cols() != DefaultCols {
		t.Errorf("size = %dx%d, want %dx%d", dev.Rows(), dev.Cols(), DefaultRows, DefaultCols)
	}
}

func TestWithBaseAddress(t *testing.T) {
	mem := NewStrictHostMemory()
	window := mem.Map(0xa0000, 2*4*CellSize)
	dev := New(WithMemory(mem), WithSize(2, 4), WithBaseAddress(0xa0000))

	if err := dev.InitEarly(); err != nil {
		t.Fatalf("InitEarly: %v", err)
	}
	dev.PutChar('Z')

	if window[0] != 'Z' {
		t.Errorf("window[0] = %#x, want 'Z'", window[0])
	}
}

func TestConcurrentWritesDoNotInterleave(t *testing.T) {
	dev := newBoundDevice(t, 25, 80)

	const writers = 8
	const perWriter = 20

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			line := strings.Repeat(string('a'+id), 10) + "\n"
			for i := 0; i < perWriter; i++ {
				dev.WriteString(line)
			}
		}(byte(w))
	}
	for i := 0; i < 100; i++ {
		dev.PushInput(byte(i))
		dev.PopInput()
	}
	wg.Wait()

	for row := 0; row < 24; row++ {
		line := dev.LineContent(row)
		if len(line) != 10 || strings.Count(line, line[:1]) != 10 {
			t.Errorf("row %d = %q, want one writer's run of 10", row, line)
		}
	}
}

func TestFrameIsCopy(t *testing.T) {
	dev := newBoundDevice(t, 2, 4)
	dev.WriteString("ab")

	f := dev.Frame()
	dev.WriteString("\rzz")

	if f.At(0, 0).Char != 'a' {
		t.Errorf("frame changed after write: %q", f.At(0, 0).Char)
	}
	if f.Cursor != (Position{Row: 0, Col: 2}) {
		t.Errorf("frame cursor = %+v", f.Cursor)
	}
	if f.At(5, 5) != (Cell{}) {
		t.Error("out of range At returned a non-zero cell")
	}
}

func TestUnboundOutputIsNotRecorded(t *testing.T) {
	rec := NewMemoryRecording()
	dev := New(WithRecording(rec))

	dev.WriteString("lost")
	dev.InitEarly()
	dev.WriteString("kept")

	if got := string(rec.Data()); got != "kept" {
		t.Errorf("recorded %q, want %q", got, "kept")
	}
}
