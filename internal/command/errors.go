package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTrailingGarbage is matched (via errors.Is) by a *ParseError whose line
// held a complete command followed by unparsed input.
var ErrTrailingGarbage = errors.New("trailing garbage after command")

// Kind classifies a single frame of a ParseError.
type Kind int

const (
	// KindContext marks a grammar rule that enclosed the failure.
	KindContext Kind = iota
	// KindLiteral means a keyword or separator was expected.
	KindLiteral
	// KindName means a name made of lowercase letters, digits, '-' and '.' was expected.
	KindName
	// KindDigits means one or more decimal digits were expected.
	KindDigits
	// KindOverflow means the digits do not fit an unsigned 32-bit integer.
	KindOverflow
	// KindToken means one or more uppercase letters were expected.
	KindToken
	// KindData means one or more printable non-space characters were expected.
	KindData
	// KindTrailing means input was left over after a complete command.
	KindTrailing
)

func (k Kind) String() string {
	switch k {
	case KindContext:
		return "context"
	case KindLiteral:
		return "literal"
	case KindName:
		return "name"
	case KindDigits:
		return "digits"
	case KindOverflow:
		return "overflow"
	case KindToken:
		return "token"
	case KindData:
		return "data"
	case KindTrailing:
		return "trailing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Frame is one entry of the error stack. Offset is a byte offset into the
// parsed line.
type Frame struct {
	Kind     Kind
	Offset   int
	Context  string // rule name, set for KindContext frames
	Expected string // literal text, set for KindLiteral frames
}

func (f Frame) describe() string {
	switch f.Kind {
	case KindContext:
		return "in " + f.Context
	case KindLiteral:
		return fmt.Sprintf("expected %q", f.Expected)
	case KindName:
		return "expected a lowercase domain name"
	case KindDigits:
		return "expected digits"
	case KindOverflow:
		return "number does not fit in 32 bits"
	case KindToken:
		return "expected uppercase letters"
	case KindData:
		return "expected printable data"
	case KindTrailing:
		return ErrTrailingGarbage.Error()
	default:
		return f.Kind.String()
	}
}

// ParseError describes why a line could not be parsed. Frames are ordered
// innermost first: Frames[0] is the point of failure and the following
// frames name the rules that enclosed it.
type ParseError struct {
	Input  string
	Frames []Frame
}

func newParseError(input string, f Frame) *ParseError {
	return &ParseError{Input: input, Frames: []Frame{f}}
}

// within records that the failure happened inside the named rule starting
// at offset.
func (e *ParseError) within(rule string, offset int) *ParseError {
	e.Frames = append(e.Frames, Frame{Kind: KindContext, Offset: offset, Context: rule})
	return e
}

// Offset is the byte offset of the innermost failure.
func (e *ParseError) Offset() int {
	if len(e.Frames) == 0 {
		return 0
	}
	return e.Frames[0].Offset
}

// Contexts lists the enclosing rule names, innermost first.
func (e *ParseError) Contexts() []string {
	var out []string
	for _, f := range e.Frames {
		if f.Kind == KindContext {
			out = append(out, f.Context)
		}
	}
	return out
}

// Trailing reports whether the line held a complete command followed by garbage.
func (e *ParseError) Trailing() bool {
	return len(e.Frames) > 0 && e.Frames[0].Kind == KindTrailing
}

func (e *ParseError) Is(target error) bool {
	return target == ErrTrailingGarbage && e.Trailing()
}

func (e *ParseError) Error() string {
	if len(e.Frames) == 0 {
		return "invalid command"
	}
	msg := fmt.Sprintf("invalid command: %s at column %d", e.Frames[0].describe(), e.Offset()+1)
	if ctx := e.Contexts(); len(ctx) > 0 {
		msg += " (in " + strings.Join(ctx, ", ") + ")"
	}
	return msg
}

// Describe renders a multi-line diagnostic that points at the offending
// column of the input for every frame.
func (e *ParseError) Describe() string {
	var b strings.Builder
	for i, f := range e.Frames {
		fmt.Fprintf(&b, "%d: at column %d, %s:\n", i, f.Offset+1, f.describe())
		b.WriteString(e.Input)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", f.Offset))
		b.WriteString("^\n")
		if i < len(e.Frames)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
