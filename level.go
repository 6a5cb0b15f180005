package vgaconsole

import (
	"errors"
	"fmt"
)

// Level is the verbosity of a PrintAtLevel message. Higher is chattier.
type Level uint8

const (
	// LevelOff as a maximum suppresses every leveled message.
	LevelOff Level = iota
	LevelInfo
	LevelDev
	LevelDebug
)

// MaxLevel is the largest valid level.
const MaxLevel = LevelDebug

// ErrFiltered is returned by PrintAtLevel when the message was skipped because
// its level is above the configured maximum or has no tag. Nothing was drawn.
var ErrFiltered = errors.New("vgaconsole: message filtered by level")

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelInfo:
		return "info"
	case LevelDev:
		return "dev"
	case LevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

type levelTag struct {
	text  string
	color ColorCode
	sgr   string // sequence selecting color, for recordings
}

// Tags are padded to one width so message text lines up.
var levelTags = map[Level]levelTag{
	LevelInfo:  {"[INFO]  ", Pack(NativeLightGreen, NativeBlack), "\x1b[92m"},
	LevelDev:   {"[DEV]   ", Pack(NativeLightBlue, NativeBlack), "\x1b[94m"},
	LevelDebug: {"[DEBUG] ", Pack(NativeYellow, NativeBlack), "\x1b[93m"},
}

// Tag returns the prefix drawn before messages at l, or "" for untagged levels.
func (l Level) Tag() string {
	return levelTags[l].text
}

// recordedForm returns the byte stream that draws msg at l when replayed
// through PutChar.
func (l Level) recordedForm(msg string) string {
	tag := levelTags[l]
	return tag.sgr + tag.text + "\x1b[m" + msg
}

// printTagged draws the tag for level in its color, switches to the default
// color and draws msg.
func (c *textConsole) printTagged(level Level, msg string) error {
	tag, ok := levelTags[level]
	if !ok {
		return ErrFiltered
	}
	if !c.bound() {
		return ErrNotBound
	}
	c.setColor(tag.color)
	if _, err := c.writeString(tag.text); err != nil {
		return err
	}
	c.setColor(DefaultColorCode)
	_, err := c.writeString(msg)
	return err
}
