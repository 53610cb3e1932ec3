package command

import (
	"strconv"
	"strings"
)

// Parse turns one line (without its newline) into a Command. The whole line
// must be consumed; a trailing space is an error.
func Parse(line string) (Command, error) {
	p := &parser{input: line}
	cmd, err := p.command()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.input) {
		return nil, newParseError(p.input, Frame{Kind: KindTrailing, Offset: p.pos}).within("command", 0)
	}
	return cmd, nil
}

type rule func() (Command, *ParseError)

type parser struct {
	input string
	pos   int
}

func (p *parser) command() (Command, *ParseError) {
	start := p.pos
	cmd, err := p.alt(p.help, p.send, p.quit, p.drop, p.update, p.add, p.delete)
	if err != nil {
		return nil, err.within("command", start)
	}
	return cmd, nil
}

// alt tries each rule from the same position and returns the first match.
// When all fail, the error that got furthest into the line wins; ties go to
// the later rule.
func (p *parser) alt(rules ...rule) (Command, *ParseError) {
	start := p.pos
	var best *ParseError
	for _, r := range rules {
		p.pos = start
		cmd, err := r()
		if err == nil {
			return cmd, nil
		}
		if best == nil || err.Offset() >= best.Offset() {
			best = err
		}
	}
	p.pos = start
	return nil, best
}

func (p *parser) help() (Command, *ParseError) { return p.keyword("help", Help{}) }
func (p *parser) send() (Command, *ParseError) { return p.keyword("send", Send{}) }
func (p *parser) quit() (Command, *ParseError) { return p.keyword("quit", Quit{}) }
func (p *parser) drop() (Command, *ParseError) { return p.keyword("drop", Drop{}) }

func (p *parser) keyword(word string, cmd Command) (Command, *ParseError) {
	start := p.pos
	if err := p.literal(word); err != nil {
		return nil, err.within(word, start)
	}
	return cmd, nil
}

func (p *parser) update() (Command, *ParseError) {
	start := p.pos
	if err := p.literal("update"); err != nil {
		return nil, err.within("update", start)
	}
	if err := p.literal(" "); err != nil {
		return nil, err.within("update", start)
	}
	inner := p.pos
	cmd, err := p.alt(p.add, p.delete)
	if err != nil {
		return nil, err.within("add or delete", inner).within("update", start)
	}
	return cmd, nil
}

func (p *parser) add() (Command, *ParseError) {
	start := p.pos
	fail := func(err *ParseError) (Command, *ParseError) {
		return nil, err.within("add", start)
	}

	var a Add
	var err *ParseError
	if err = p.literal("add"); err != nil {
		return fail(err)
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if a.Name, err = p.name(); err != nil {
		return fail(err)
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if a.TTL, err = p.ttl(); err != nil {
		return fail(err)
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if a.Class, err = p.token("class"); err != nil {
		return fail(err)
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if a.Type, err = p.token("type"); err != nil {
		return fail(err)
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if a.Data, err = p.data(); err != nil {
		return fail(err)
	}
	return a, nil
}

func (p *parser) delete() (Command, *ParseError) {
	start := p.pos
	fail := func(err *ParseError) (Command, *ParseError) {
		return nil, err.within("delete", start)
	}

	var d Delete
	var err *ParseError
	if err = p.literal("delete"); err != nil {
		p.pos = start
		if err = p.literal("del"); err != nil {
			return fail(err)
		}
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if d.Name, err = p.name(); err != nil {
		return fail(err)
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if d.Class, err = p.token("class"); err != nil {
		return fail(err)
	}
	if err = p.literal(" "); err != nil {
		return fail(err)
	}
	if d.Type, err = p.token("type"); err != nil {
		return fail(err)
	}
	return d, nil
}

func (p *parser) ttl() (uint32, *ParseError) {
	start := p.pos
	digits, ok := p.takeWhile1(isDigit)
	if !ok {
		return 0, newParseError(p.input, Frame{Kind: KindDigits, Offset: start}).within("ttl", start)
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, newParseError(p.input, Frame{Kind: KindOverflow, Offset: start}).within("ttl", start)
	}
	return uint32(n), nil
}

func (p *parser) name() (string, *ParseError) {
	return p.field("name", KindName, isNameChar)
}

func (p *parser) token(rule string) (string, *ParseError) {
	return p.field(rule, KindToken, isUpper)
}

func (p *parser) data() (string, *ParseError) {
	return p.field("data", KindData, isGraphic)
}

func (p *parser) field(rule string, kind Kind, pred func(byte) bool) (string, *ParseError) {
	start := p.pos
	s, ok := p.takeWhile1(pred)
	if !ok {
		return "", newParseError(p.input, Frame{Kind: kind, Offset: start}).within(rule, start)
	}
	return s, nil
}

func (p *parser) literal(lit string) *ParseError {
	if !strings.HasPrefix(p.input[p.pos:], lit) {
		return newParseError(p.input, Frame{Kind: KindLiteral, Offset: p.pos, Expected: lit})
	}
	p.pos += len(lit)
	return nil
}

func (p *parser) takeWhile1(pred func(byte) bool) (string, bool) {
	start := p.pos
	for p.pos < len(p.input) && pred(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", false
	}
	return p.input[start:p.pos], true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isNameChar(c byte) bool {
	return isLower(c) || isDigit(c) || c == '-' || c == '.'
}

// isGraphic matches printable ASCII excluding space.
func isGraphic(c byte) bool { return c > ' ' && c < 0x7f }
