package vgaconsole

// State is the position of the interpreter inside an escape sequence.
type State uint8

const (
	// StateNormal prints every byte except ESC.
	StateNormal State = iota
	// StateSawEscape follows an ESC byte.
	StateSawEscape
	// StateSawBracket follows "ESC [".
	StateSawBracket
	// StateDigits accumulates the decimal parameter.
	StateDigits
	// StateDone follows the terminating 'm'.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateSawEscape:
		return "saw-escape"
	case StateSawBracket:
		return "saw-bracket"
	case StateDigits:
		return "digits"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// ActionKind tells the caller what to do with the byte just fed to the Parser.
type ActionKind uint8

const (
	// ActionPrint means the byte is a character and goes to the grid.
	ActionPrint ActionKind = iota
	// ActionSwallow means the byte was consumed as part of a sequence.
	ActionSwallow
	// ActionSetColor means a sequence completed; the byte is consumed and
	// Action.Color becomes the current color.
	ActionSetColor
)

// Action is the outcome of feeding one byte to the Parser.
type Action struct {
	Kind  ActionKind
	Color ColorCode
}

const escape = 0x1b

// Parser recognises "ESC [ digits? m" color sequences in a byte stream.
//
// It never fails. A sequence interrupted by an unexpected byte is dropped,
// the parser returns to StateNormal and that byte is printed. A completed
// sequence whose parameter is not a known SGR color selects DefaultColorCode.
//
// The zero value is ready to use.
type Parser struct {
	state State
	value uint8
}

// State returns the current interpreter state.
func (p *Parser) State() State {
	return p.state
}

// Reset returns the parser to StateNormal, dropping any partial sequence.
func (p *Parser) Reset() {
	p.state = StateNormal
	p.value = 0
}

// Advance consumes one byte and reports what the caller should do with it.
func (p *Parser) Advance(b byte) Action {
	switch p.state {
	case StateNormal:
		if b == escape {
			p.state = StateSawEscape
			return Action{Kind: ActionSwallow}
		}
		return Action{Kind: ActionPrint}

	case StateSawEscape:
		if b == '[' {
			p.state = StateSawBracket
			return Action{Kind: ActionSwallow}
		}
		return p.abort()

	case StateSawBracket:
		switch {
		case b == 'm':
			p.state = StateDone
			return Action{Kind: ActionSetColor, Color: DefaultColorCode}
		case isDigit(b):
			p.state = StateDigits
			p.value = b - '0'
			return Action{Kind: ActionSwallow}
		}
		return p.abort()

	case StateDigits:
		switch {
		case b == 'm':
			p.state = StateDone
			return Action{Kind: ActionSetColor, Color: sgrColorCode(p.value)}
		case isDigit(b):
			p.value = accumulate(p.value, b-'0')
			return Action{Kind: ActionSwallow}
		}
		return p.abort()

	case StateDone:
		if b == escape {
			p.state = StateSawEscape
			return Action{Kind: ActionSwallow}
		}
		p.state = StateNormal
		return Action{Kind: ActionPrint}
	}

	// Unreachable with a well-formed state; recover rather than wedge.
	return p.abort()
}

func (p *Parser) abort() Action {
	p.Reset()
	return Action{Kind: ActionPrint}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// accumulate computes v*10+d, saturating at 255 so oversized parameters stay
// unrecognised instead of wrapping onto a valid color.
func accumulate(v, d uint8) uint8 {
	n := uint16(v)*10 + uint16(d)
	if n > 0xff {
		return 0xff
	}
	return uint8(n)
}

// sgrColorCode resolves an SGR parameter to a color on black, falling back to
// the default color.
func sgrColorCode(v uint8) ColorCode {
	c, ok := ColorFromSGR(v)
	if !ok {
		return DefaultColorCode
	}
	return Pack(ToNative(c), NativeBlack)
}
