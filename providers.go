package vgaconsole

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
)

// ErrUnmapped is returned by HostMemory for addresses outside any mapping.
var ErrUnmapped = errors.New("vgaconsole: address not mapped")

// --- Memory Provider ---

// Memory resolves a platform address to the bytes behind it.
// On bare metal this wraps the mapped text mode window; hosted builds use HostMemory.
type Memory interface {
	// Region returns size writable bytes starting at addr.
	Region(addr uintptr, size int) ([]byte, error)
}

// AddressTranslator converts a physical address to the virtual address that
// maps it once paging is active.
type AddressTranslator interface {
	PhysToVirt(phys uintptr) uintptr
}

// OffsetTranslator maps physical addresses into a linear window at a fixed offset,
// the usual "physical memory at KERNEL_BASE" layout.
type OffsetTranslator uintptr

// PhysToVirt returns phys + offset.
func (o OffsetTranslator) PhysToVirt(phys uintptr) uintptr {
	return phys + uintptr(o)
}

// HostMemory is a sparse address space backed by Go slices.
// Regions are created on first access and zero-filled. Alias makes two
// addresses share one backing region, modelling a page table mapping.
//
// Example:
//
//	mem := vgaconsole.NewHostMemory()
//	mem.Alias(0xffff_8000_000b_8000, 0xb8000)
//	dev := vgaconsole.New(
//	    vgaconsole.WithMemory(mem),
//	    vgaconsole.WithTranslator(vgaconsole.OffsetTranslator(0xffff_8000_0000_0000)),
//	)
type HostMemory struct {
	mu      sync.Mutex
	regions map[uintptr][]byte
	aliases map[uintptr]uintptr
	strict  bool
}

// NewHostMemory creates an empty address space that maps regions on demand.
func NewHostMemory() *HostMemory {
	return &HostMemory{
		regions: make(map[uintptr][]byte),
		aliases: make(map[uintptr]uintptr),
	}
}

// NewStrictHostMemory creates an address space where only regions created
// with Map (or reached through Alias) resolve.
func NewStrictHostMemory() *HostMemory {
	m := NewHostMemory()
	m.strict = true
	return m
}

// Map creates a zero-filled region of size bytes at addr, replacing any previous one.
func (m *HostMemory) Map(addr uintptr, size int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	region := make([]byte, size)
	m.regions[addr] = region
	return region
}

// Alias makes alias resolve to the same bytes as target.
func (m *HostMemory) Alias(alias, target uintptr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aliases[alias] = target
}

// Region returns the bytes at addr, growing or creating the region as needed
// unless the address space is strict.
func (m *HostMemory) Region(addr uintptr, size int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if target, ok := m.aliases[addr]; ok {
		addr = target
	}
	region, ok := m.regions[addr]
	switch {
	case ok && len(region) >= size:
		return region[:size], nil
	case m.strict && !ok:
		return nil, fmt.Errorf("%w: %#x", ErrUnmapped, addr)
	case m.strict:
		return nil, fmt.Errorf("%w: %#x has %d bytes, need %d", ErrRegionTooSmall, addr, len(region), size)
	}

	grown := make([]byte, size)
	copy(grown, region)
	m.regions[addr] = grown
	return grown, nil
}

// --- Scrollback Provider ---

// ScrollbackProvider receives rows scrolled off the top of the grid, oldest
// first. The grid itself keeps no history.
type ScrollbackProvider interface {
	// Push stores a row. The slice is owned by the caller.
	Push(line []Cell)
	Len() int
	// Line returns the row at index, 0 being the oldest, or nil if out of range.
	Line(index int) []Cell
	Clear()
	// MaxLines returns the row limit, 0 meaning unlimited.
	MaxLines() int
}

// NoopScrollback drops scrolled-off rows.
type NoopScrollback struct{}

func (NoopScrollback) Push(line []Cell)      {}
func (NoopScrollback) Len() int              { return 0 }
func (NoopScrollback) Line(index int) []Cell { return nil }
func (NoopScrollback) Clear()                {}
func (NoopScrollback) MaxLines() int         { return 0 }

// MemoryScrollback keeps scrolled-off rows in memory. With a limit it is a
// ring: once full, each new row overwrites the oldest.
type MemoryScrollback struct {
	lines    [][]Cell
	start    int
	maxLines int
}

// NewMemoryScrollback creates an in-memory scrollback holding up to maxLines rows.
// A maxLines of 0 keeps every row.
func NewMemoryScrollback(maxLines int) *MemoryScrollback {
	if maxLines < 0 {
		maxLines = 0
	}
	return &MemoryScrollback{maxLines: maxLines}
}

// Push stores a copy of line.
func (m *MemoryScrollback) Push(line []Cell) {
	row := append([]Cell(nil), line...)
	if m.maxLines == 0 || len(m.lines) < m.maxLines {
		m.lines = append(m.lines, row)
		return
	}
	m.lines[m.start] = row
	m.start = (m.start + 1) % m.maxLines
}

// Len returns the number of stored rows.
func (m *MemoryScrollback) Len() int {
	return len(m.lines)
}

// Line returns the row at index, where 0 is the oldest.
func (m *MemoryScrollback) Line(index int) []Cell {
	if index < 0 || index >= len(m.lines) {
		return nil
	}
	return m.lines[(m.start+index)%len(m.lines)]
}

// Clear drops every stored row.
func (m *MemoryScrollback) Clear() {
	m.lines = nil
	m.start = 0
}

// MaxLines returns the row limit, 0 meaning unlimited.
func (m *MemoryScrollback) MaxLines() int {
	return m.maxLines
}

// --- Recording Provider ---

// RecordingProvider sees every output byte before the escape interpreter does.
type RecordingProvider interface {
	Record(data []byte)
	// Data returns the bytes recorded since the last Clear.
	Data() []byte
	Clear()
}

// NoopRecording records nothing.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

// MemoryRecording keeps every byte written to the device, escape sequences
// included, so a session can be replayed into a fresh device.
type MemoryRecording struct {
	buf bytes.Buffer
}

// NewMemoryRecording creates an empty recording.
func NewMemoryRecording() *MemoryRecording {
	return &MemoryRecording{}
}

// Record appends data.
func (r *MemoryRecording) Record(data []byte) {
	r.buf.Write(data)
}

// Data returns a copy of the recorded bytes.
func (r *MemoryRecording) Data() []byte {
	return bytes.Clone(r.buf.Bytes())
}

// Clear discards the recording.
func (r *MemoryRecording) Clear() {
	r.buf.Reset()
}

var (
	_ Memory             = (*HostMemory)(nil)
	_ AddressTranslator  = OffsetTranslator(0)
	_ ScrollbackProvider = NoopScrollback{}
	_ ScrollbackProvider = (*MemoryScrollback)(nil)
	_ RecordingProvider  = NoopRecording{}
	_ RecordingProvider  = (*MemoryRecording)(nil)
)
