package vgaconsole

import (
	"errors"
	"os"
	"os/exec"
	"testing"
)

func TestPrintAtLevelTags(t *testing.T) {
	tests := []struct {
		level Level
		tag   string
		color ColorCode
	}{
		{LevelInfo, "[INFO]  ", Pack(NativeLightGreen, NativeBlack)},
		{LevelDev, "[DEV]   ", Pack(NativeLightBlue, NativeBlack)},
		{LevelDebug, "[DEBUG] ", Pack(NativeYellow, NativeBlack)},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			dev := newBoundDevice(t, 5, 40)

			if err := dev.PrintAtLevel(tt.level, "up %d", 42); err != nil {
				t.Fatalf("PrintAtLevel: %v", err)
			}

			if got, want := dev.LineContent(0), tt.tag+"up 42"; got != want {
				t.Errorf("line 0 = %q, want %q", got, want)
			}
			for col := 0; col < len(tt.tag); col++ {
				if cell := cellAt(t, dev, 0, col); cell.Color != tt.color {
					t.Errorf("tag col %d color = %#x, want %#x", col, cell.Color, tt.color)
				}
			}
			if cell := cellAt(t, dev, 0, len(tt.tag)); cell.Color != 0x0f {
				t.Errorf("message color = %#x, want 0x0f", cell.Color)
			}
			if dev.Color() != DefaultColorCode {
				t.Errorf("color after message = %#x", dev.Color())
			}
		})
	}
}

func TestPrintAtLevelInfoColorValue(t *testing.T) {
	dev := newBoundDevice(t, 5, 40)
	dev.PrintAtLevel(LevelInfo, "x")

	if cell := cellAt(t, dev, 0, 0); cell.Char != '[' || cell.Color != 0x0A {
		t.Errorf("cell (0,0) = %+v, want '[' in 0x0A", cell)
	}
}

func TestPrintAtLevelMessageCarriesColor(t *testing.T) {
	dev := newBoundDevice(t, 5, 40)

	dev.PrintAtLevel(LevelInfo, "\x1b[91mfail")

	if got := dev.LineContent(0); got != "[INFO]  fail" {
		t.Fatalf("line 0 = %q", got)
	}
	if cell := cellAt(t, dev, 0, 8); cell.Color != Pack(NativeLightRed, NativeBlack) {
		t.Errorf("message color = %#x", cell.Color)
	}
}

func TestPrintAtLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		maxLevel Level
		level    Level
		wantErr  error
	}{
		{"info under info", LevelInfo, LevelInfo, nil},
		{"dev under info", LevelInfo, LevelDev, ErrFiltered},
		{"debug under dev", LevelDev, LevelDebug, ErrFiltered},
		{"dev under debug", LevelDebug, LevelDev, nil},
		{"info when off", LevelOff, LevelInfo, ErrFiltered},
		{"level zero", LevelDebug, LevelOff, ErrFiltered},
		{"level four", LevelDebug, Level(4), ErrFiltered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newBoundDevice(t, 5, 40)
			dev.SetMaxLevel(tt.maxLevel)

			err := dev.PrintAtLevel(tt.level, "message")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if got := dev.String(); got != "" {
					t.Errorf("filtered message drew %q", got)
				}
				assertCursor(t, dev, 0, 0)
			}
		})
	}
}

func TestDefaultMaxLevel(t *testing.T) {
	if got := New().MaxLevel(); got != LevelDebug {
		t.Errorf("MaxLevel() = %v, want %v", got, LevelDebug)
	}
}

func TestLevelTag(t *testing.T) {
	if LevelOff.Tag() != "" {
		t.Errorf("LevelOff.Tag() = %q, want empty", LevelOff.Tag())
	}
	if Level(9).String() != "level(9)" {
		t.Errorf("Level(9).String() = %q", Level(9).String())
	}
}

func TestSetMaxLevelOutOfRangePanics(t *testing.T) {
	dev := New()
	defer func() {
		if recover() == nil {
			t.Fatal("SetMaxLevel(4) did not panic")
		}
		if dev.MaxLevel() != LevelDebug {
			t.Errorf("max level changed to %v", dev.MaxLevel())
		}
	}()
	dev.SetMaxLevel(Level(4))
}

// The out of range level must take the process down when nothing recovers.
func TestSetMaxLevelOutOfRangeAborts(t *testing.T) {
	if os.Getenv("VGACONSOLE_ABORT_CHILD") == "1" {
		New().SetMaxLevel(Level(4))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestSetMaxLevelOutOfRangeAborts$")
	cmd.Env = append(os.Environ(), "VGACONSOLE_ABORT_CHILD=1")
	err := cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.Success() {
		t.Fatalf("child err = %v, want non-zero exit", err)
	}
}
