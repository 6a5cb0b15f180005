// Package vgaconsole implements a VGA text mode console: a fixed grid of
// (glyph, attribute) cells living in memory-mapped text mode memory, driven by
// a byte stream with embedded color escape sequences, plus a keyboard input
// buffer.
//
// # Quick Start
//
// Create a device, bind it to memory and write to it:
//
//	dev := vgaconsole.New()
//	if err := dev.InitEarly(); err != nil {
//	    return err
//	}
//	dev.WriteString("\x1b[91mpanic:\x1b[m out of frames\n")
//	fmt.Println(dev.String()) // "panic: out of frames"
//
// # Architecture
//
//   - [Device]: the lock-guarded console handle passed to whoever prints
//   - [Buffer]: rows x cols cells over a byte region
//   - [Parser]: the color escape sequence state machine
//   - [RingBuffer]: the fixed-size keyboard input queue
//
// # Binding
//
// A Device starts unbound. [Device.InitEarly] asks its [Memory] provider for
// the text window at the base address (0xb8000 by default), lays the grid over
// it and blanks the screen. Output before that returns [ErrNotBound].
//
// Once paging is active, [Device.Init] rebinds the grid to the virtual address
// returned by the configured [AddressTranslator]. Nothing is copied: cursor
// and color survive, the cells are whatever the new mapping shows.
//
// On a host, [HostMemory] stands in for physical memory:
//
//	mem := vgaconsole.NewHostMemory()
//	dev := vgaconsole.New(
//	    vgaconsole.WithMemory(mem),
//	    vgaconsole.WithSize(25, 80),
//	)
//
// # Escape Sequences
//
// Only "ESC [ n m" is understood. n is an SGR foreground code: 30-37 select
// the normal colors, 90-97 the bright ones, always on black. "ESC [ m" and any
// other n select the default white on black.
//
// A sequence broken by an unexpected byte is dropped silently and that byte is
// printed, so binary noise can never wedge the console:
//
//	dev.WriteString("\x1bX")   // prints "X"
//	dev.WriteString("\x1b[4q") // prints "q"
//
// All other bytes are glyphs except '\r' (column 0), '\n' (column 0, next row)
// and backspace (erase previous cell). Writing past the last column wraps;
// moving past the last row scrolls the grid up.
//
// # Scrolling
//
// Scrolling copies rows up in one bulk copy. The rows it uncovers keep their
// old glyphs until overwritten, as on the hardware this models; pass
// [WithClearOnScroll] to blank them, and [WithScrollback] to keep rows that
// leave the top.
//
// # Levels
//
// [Device.PrintAtLevel] prefixes a message with a colored tag and drops it
// when its level is above [Device.MaxLevel]:
//
//	dev.SetMaxLevel(vgaconsole.LevelInfo)
//	dev.PrintAtLevel(vgaconsole.LevelInfo, "mapped %d pages\n", n) // "[INFO]  mapped ..."
//	dev.PrintAtLevel(vgaconsole.LevelDebug, "detail\n")            // ErrFiltered
//
// [NewSlogHandler] exposes the same path as a log/slog handler.
//
// # Input
//
// Keyboard producers call [Device.PushInput]; readers call [Device.PopInput].
// The queue holds [DefaultInputCapacity] bytes and drops new bytes when full.
//
// # Concurrency
//
// All Device methods are safe for concurrent use. Output and input have
// separate locks, each held for one call.
//
// # Capturing
//
//   - [Device.Frame]: consistent copy of cells and cursor
//   - [Device.Snapshot]: JSON-friendly text and color capture
//   - [Device.Screenshot]: RGBA rendering with the VGA palette
package vgaconsole
