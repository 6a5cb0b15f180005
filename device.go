package vgaconsole

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// DefaultBaseAddress is the physical address of the color text mode window.
const DefaultBaseAddress uintptr = 0xb8000

// ErrAlreadyBound is returned by InitEarly on a device that is already bound.
var ErrAlreadyBound = errors.New("vgaconsole: grid already bound")

// Ensure Device implements io.Writer
var _ io.Writer = (*Device)(nil)

// Device is the text console of one machine: the grid with its cursor, color
// and escape interpreter, plus the keyboard input buffer.
//
// A Device is created unbound. InitEarly binds the grid to the text mode
// window; until then every output call returns ErrNotBound. Init optionally
// rebinds the grid to its virtual address once paging is up.
//
// The console and the input buffer each have their own lock, held for exactly
// one call: one PutChar, one Write, one PrintAtLevel, one PushInput or
// PopInput. A whole Write or PrintAtLevel therefore never interleaves with
// another writer. No method calls back into a locked method, so a producer
// such as a keyboard handler can push input while output is in progress.
type Device struct {
	mu      sync.Mutex
	console *textConsole

	inputMu sync.Mutex
	input   *RingBuffer

	maxLevel atomic.Uint32

	rows          int
	cols          int
	baseAddr      uintptr
	memory        Memory
	translator    AddressTranslator
	inputCapacity int
	recording     RecordingProvider
}

// Option configures a Device during construction.
type Option func(*Device)

// WithSize sets the grid dimensions.
// Values <= 0 are replaced with defaults (25x80).
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	return func(d *Device) {
		d.rows = rows
		d.cols = cols
	}
}

// WithMemory sets the provider that resolves the text window address.
// Defaults to a fresh HostMemory.
func WithMemory(m Memory) Option {
	return func(d *Device) {
		d.memory = m
	}
}

// WithBaseAddress sets the physical address of the text window.
// Defaults to DefaultBaseAddress.
func WithBaseAddress(addr uintptr) Option {
	return func(d *Device) {
		d.baseAddr = addr
	}
}

// WithTranslator enables the Init rebinding step.
// Without a translator Init is a no-op.
func WithTranslator(t AddressTranslator) Option {
	return func(d *Device) {
		d.translator = t
	}
}

// WithInputCapacity sets the size of the keyboard input buffer.
// Values <= 0 fall back to DefaultInputCapacity.
func WithInputCapacity(n int) Option {
	return func(d *Device) {
		d.inputCapacity = n
	}
}

// WithScrollback sets the storage for rows scrolled off the top of the grid.
// Defaults to discarding them.
func WithScrollback(storage ScrollbackProvider) Option {
	return func(d *Device) {
		if storage == nil {
			storage = NoopScrollback{}
		}
		d.console.scrollback = storage
	}
}

// WithRecording sets the handler capturing raw output bytes before interpretation.
func WithRecording(p RecordingProvider) Option {
	return func(d *Device) {
		if p == nil {
			p = NoopRecording{}
		}
		d.recording = p
	}
}

// WithClearOnScroll blanks the rows uncovered by a scroll.
// By default they keep their previous glyphs until overwritten.
func WithClearOnScroll() Option {
	return func(d *Device) {
		d.console.clearOnScroll = true
	}
}

// New creates an unbound device with the given options.
// Defaults to a 25x80 grid at DefaultBaseAddress, max level LevelDebug.
func New(opts ...Option) *Device {
	d := &Device{
		console:   newConsole(DefaultRows, DefaultCols),
		rows:      DefaultRows,
		cols:      DefaultCols,
		baseAddr:  DefaultBaseAddress,
		recording: NoopRecording{},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.memory == nil {
		d.memory = NewHostMemory()
	}
	d.console.rows = d.rows
	d.console.cols = d.cols
	d.input = NewRingBuffer(d.inputCapacity)
	d.maxLevel.Store(uint32(MaxLevel))

	return d
}

func (d *Device) gridSize() int {
	return d.rows * d.cols * CellSize
}

// InitEarly binds the grid to the text window at the base address and blanks
// every cell with the current color. It must run before any output.
func (d *Device) InitEarly() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.console.bound() {
		return ErrAlreadyBound
	}
	mem, err := d.memory.Region(d.baseAddr, d.gridSize())
	if err != nil {
		return fmt.Errorf("map text window %#x: %w", d.baseAddr, err)
	}
	if err := d.console.bind(mem); err != nil {
		return err
	}
	d.console.clear()
	return nil
}

// Init rebinds the grid to the virtual address of the text window.
// Cursor, color and interpreter state are kept; cells are not copied, so
// output from before the rebind is only visible if both addresses reach the
// same memory. Does nothing without a translator.
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.console.bound() {
		return ErrNotBound
	}
	if d.translator == nil {
		return nil
	}
	virt := d.translator.PhysToVirt(d.baseAddr)
	mem, err := d.memory.Region(virt, d.gridSize())
	if err != nil {
		return fmt.Errorf("map text window %#x: %w", virt, err)
	}
	return d.console.bind(mem)
}

// IsBound returns true once InitEarly has succeeded.
func (d *Device) IsBound() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.console.bound()
}

// PutChar writes one byte through the escape interpreter.
// Returns ErrNotBound before InitEarly and ErrBackspaceAtLineStart for a
// backspace in column 0; in both cases nothing changes.
func (d *Device) PutChar(b byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record([]byte{b})
	return d.console.putChar(b)
}

// Write processes raw bytes under one lock acquisition. Implements io.Writer.
// Backspaces in column 0 are dropped; the only error is ErrNotBound.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record(p)
	return d.console.write(p)
}

// WriteString is Write for strings.
func (d *Device) WriteString(s string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record([]byte(s))
	return d.console.writeString(s)
}

// record passes output to the recording provider. Output refused because the
// grid is unbound is not recorded. Callers hold d.mu.
func (d *Device) record(p []byte) {
	if d.console.bound() {
		d.recording.Record(p)
	}
}

// SetMaxLevel sets the most verbose level PrintAtLevel lets through.
// A level above MaxLevel is a programming error and panics.
func (d *Device) SetMaxLevel(level Level) {
	if level > MaxLevel {
		panic(fmt.Sprintf("vgaconsole: max level %d out of range 0..%d", level, MaxLevel))
	}
	d.maxLevel.Store(uint32(level))
}

// MaxLevel returns the current maximum level.
func (d *Device) MaxLevel() Level {
	return Level(d.maxLevel.Load())
}

// PrintAtLevel formats a message and draws it behind the level tag, e.g.
// "[INFO]  ". The tag uses the level color; the message starts in the
// default color and may carry its own color sequences.
//
// Returns ErrFiltered, with nothing drawn, when level is above the maximum,
// is LevelOff, or is not a known level.
func (d *Device) PrintAtLevel(level Level, format string, args ...any) error {
	if uint32(level) > d.maxLevel.Load() {
		return ErrFiltered
	}
	if _, ok := levelTags[level]; !ok {
		return ErrFiltered
	}
	msg := fmt.Sprintf(format, args...)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.record([]byte(level.recordedForm(msg)))
	return d.console.printTagged(level, msg)
}

// PushInput queues one input byte. When the buffer is full the byte is dropped.
func (d *Device) PushInput(b byte) {
	d.inputMu.Lock()
	defer d.inputMu.Unlock()
	d.input.Push(b)
}

// PopInput removes the oldest input byte.
// The second result is false if no input is pending.
func (d *Device) PopInput() (byte, bool) {
	d.inputMu.Lock()
	defer d.inputMu.Unlock()
	return d.input.Pop()
}

// InputLen returns the number of pending input bytes.
func (d *Device) InputLen() int {
	d.inputMu.Lock()
	defer d.inputMu.Unlock()
	return d.input.Len()
}

// Rows returns the grid height in character rows.
func (d *Device) Rows() int {
	return d.rows
}

// Cols returns the grid width in character columns.
func (d *Device) Cols() int {
	return d.cols
}

// CursorPos returns the cursor position (0-based).
func (d *Device) CursorPos() (row, col int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.console.y, d.console.x
}

// Color returns the color applied to the next character.
func (d *Device) Color() ColorCode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.console.color
}

// ParserState returns the escape interpreter state.
func (d *Device) ParserState() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.console.parser.State()
}

// Cell returns the cell at (row, col).
// The second result is false when out of bounds or unbound.
func (d *Device) Cell(row, col int) (Cell, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.console.bound() {
		return Cell{}, false
	}
	return d.console.buffer.Cell(row, col)
}

// LineContent returns the text of a row, trimming trailing blanks.
func (d *Device) LineContent(row int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.console.bound() {
		return ""
	}
	return d.console.buffer.LineContent(row)
}

// String returns the visible text as newline-separated lines.
// Trailing empty lines are omitted. Implements fmt.Stringer.
func (d *Device) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.console.bound() {
		return ""
	}
	return d.console.buffer.String()
}

// Frame is a consistent copy of the grid and cursor.
type Frame struct {
	Rows   int
	Cols   int
	Cells  []Cell // row-major
	Cursor Position
}

// At returns the cell at (row, col); out of range yields a zero Cell.
func (f *Frame) At(row, col int) Cell {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		return Cell{}
	}
	return f.Cells[row*f.Cols+col]
}

// Frame captures the grid and cursor under one lock acquisition.
// An unbound device yields a frame of blank default cells.
func (d *Device) Frame() *Frame {
	d.mu.Lock()
	defer d.mu.Unlock()

	f := &Frame{
		Rows:   d.rows,
		Cols:   d.cols,
		Cells:  make([]Cell, 0, d.rows*d.cols),
		Cursor: Position{Row: d.console.y, Col: d.console.x},
	}
	for row := 0; row < d.rows; row++ {
		if d.console.bound() {
			f.Cells = append(f.Cells, d.console.buffer.Row(row)...)
			continue
		}
		for col := 0; col < d.cols; col++ {
			f.Cells = append(f.Cells, NewCell(DefaultColorCode))
		}
	}
	return f
}

// RecordedData returns all raw output bytes captured by the recording provider.
func (d *Device) RecordedData() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recording.Data()
}

// ScrollbackLen returns the number of rows held by the scrollback provider.
func (d *Device) ScrollbackLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.console.scrollback.Len()
}

// ScrollbackLine returns a scrolled-off row, where 0 is the oldest.
func (d *Device) ScrollbackLine(index int) []Cell {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.console.scrollback.Line(index)
}
