// Command vgaconsole runs a text mode console on the host.
//
// With a terminal on stdin it opens an interactive session: keys go through the
// console's input buffer and are echoed back like a shell would. Otherwise it
// pipes stdin through the console and prints the resulting screen as text,
// JSON or PNG.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	vgaconsole "github.com/danielgatis/go-vga-console"
	"github.com/danielgatis/go-vga-console/tcellview"
)

var (
	rowsFlag       = flag.Int("rows", vgaconsole.DefaultRows, "grid height")
	colsFlag       = flag.Int("cols", vgaconsole.DefaultCols, "grid width")
	levelFlag      = flag.Uint("level", uint(vgaconsole.MaxLevel), "max print level (0-3)")
	formatFlag     = flag.String("format", "text", "pipe mode output: text, json, png")
	clearFlag      = flag.Bool("clear-on-scroll", false, "blank rows uncovered by scrolling")
	scrollbackFlag = flag.Int("scrollback", 0, "rows of scrollback to keep in pipe mode (0 disables)")
	pipeFlag       = flag.Bool("pipe", false, "force pipe mode even on a terminal")
)

func main() {
	flag.Parse()

	if *levelFlag > uint(vgaconsole.MaxLevel) {
		fmt.Fprintf(os.Stderr, "invalid -level %d: want 0-%d\n", *levelFlag, vgaconsole.MaxLevel)
		os.Exit(2)
	}

	opts := []vgaconsole.Option{vgaconsole.WithSize(*rowsFlag, *colsFlag)}
	if *clearFlag {
		opts = append(opts, vgaconsole.WithClearOnScroll())
	}
	var scrollback *vgaconsole.MemoryScrollback
	if *scrollbackFlag > 0 {
		scrollback = vgaconsole.NewMemoryScrollback(*scrollbackFlag)
		opts = append(opts, vgaconsole.WithScrollback(scrollback))
	}

	dev := vgaconsole.New(opts...)
	if err := dev.InitEarly(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind console: %v\n", err)
		os.Exit(1)
	}
	dev.SetMaxLevel(vgaconsole.Level(*levelFlag))

	var err error
	if *pipeFlag || !term.IsTerminal(int(os.Stdin.Fd())) {
		err = runPipe(dev, os.Stdin, os.Stdout, *formatFlag, scrollback)
	} else {
		err = runInteractive(dev)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vgaconsole: %v\n", err)
		os.Exit(1)
	}
}

// runPipe feeds r through the console and writes the final screen to w.
func runPipe(dev *vgaconsole.Device, r io.Reader, w io.Writer, format string, scrollback *vgaconsole.MemoryScrollback) error {
	if _, err := io.Copy(dev, r); err != nil {
		return fmt.Errorf("write console: %w", err)
	}

	switch format {
	case "text":
		if scrollback != nil {
			for i := 0; i < scrollback.Len(); i++ {
				fmt.Fprintln(w, lineString(scrollback.Line(i)))
			}
		}
		_, err := fmt.Fprintln(w, dev.String())
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dev.Snapshot(vgaconsole.SnapshotDetailStyled))
	case "png":
		return png.Encode(w, dev.Screenshot())
	}
	return fmt.Errorf("unknown format %q", format)
}

func lineString(cells []vgaconsole.Cell) string {
	runes := make([]rune, len(cells))
	for i, c := range cells {
		runes[i] = c.Rune()
	}
	return string(runes)
}

// runInteractive shows the console in the host terminal until Ctrl+C.
func runInteractive(dev *vgaconsole.Device) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	view := tcellview.New(screen, dev)
	logger := slog.New(vgaconsole.NewSlogHandler(dev))
	logger.Info("console bound", "rows", dev.Rows(), "cols", dev.Cols())
	logger.Log(context.Background(), vgaconsole.LevelDevSlog, "input buffer ready", "capacity", vgaconsole.DefaultInputCapacity)
	logger.Debug("max level", "level", dev.MaxLevel())
	dev.WriteString("\x1b[92mvgaconsole\x1b[m: type away, Ctrl+C quits\n> ")

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	view.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !view.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
		}
		if err := echo(dev); err != nil {
			return err
		}
		view.Draw()
	}
}

// echo drains pending input back to the screen, prompting after each line.
// A backspace at the prompt start is refused by the console and skipped.
func echo(dev *vgaconsole.Device) error {
	for {
		b, ok := dev.PopInput()
		if !ok {
			return nil
		}
		if err := dev.PutChar(b); err != nil && !errors.Is(err, vgaconsole.ErrBackspaceAtLineStart) {
			return fmt.Errorf("echo input: %w", err)
		}
		if b == '\n' {
			if _, err := dev.WriteString("> "); err != nil {
				return fmt.Errorf("echo prompt: %w", err)
			}
		}
	}
}
