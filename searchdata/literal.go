package searchdata

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// parser reads the subset of JavaScript literal syntax that search data
// files use: arrays, single or double quoted strings, integers and booleans.
type parser struct {
	src []byte
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrMalformed, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		case 0xEF:
			// UTF-8 byte order mark at the start of the file.
			if p.pos == 0 && bytes.HasPrefix(p.src, bom) {
				p.pos += 3
				continue
			}
			return
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.pos >= len(p.src) {
			return p.errorf("expected %q, got end of input", c)
		}
		return p.errorf("expected %q, got %q", c, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (p.pos > start && c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return string(p.src[start:p.pos])
}

// header consumes "var searchData =".
func (p *parser) header() error {
	if kw := p.ident(); kw != "var" {
		return p.errorf("expected \"var\", got %q", kw)
	}
	if name := p.ident(); name != "searchData" {
		return p.errorf("expected \"searchData\", got %q", name)
	}
	return p.expect('=')
}

// trailer consumes an optional semicolon and requires end of input.
func (p *parser) trailer() error {
	p.skipSpace()
	if p.peek() == ';' {
		p.pos++
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("unexpected trailing content")
	}
	return nil
}

// value parses one literal into string, int, bool or []any.
func (p *parser) value() (any, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '[':
		return p.array()
	case c == '\'' || c == '"':
		return p.str()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	case c == 't' || c == 'f':
		switch word := p.ident(); word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return nil, p.errorf("unexpected identifier %q", word)
		}
	case c == 0 && p.pos >= len(p.src):
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) array() ([]any, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	out := []any{}
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return out, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return out, nil
		default:
			if p.pos >= len(p.src) {
				return nil, p.errorf("unterminated array")
			}
			return nil, p.errorf("expected ',' or ']', got %q", p.src[p.pos])
		}
	}
}

func (p *parser) number() (int, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(string(p.src[start:p.pos]))
	if err != nil {
		p.pos = start
		return 0, p.errorf("invalid number")
	}
	return n, nil
}

func (p *parser) str() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return "", p.errorf("newline in string")
		case c == '\\':
			p.pos++
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRune(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	if p.pos >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case 'x':
		r, err := p.hex(2)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		r, err := p.hex(4)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case '\n':
		// line continuation
	default:
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) hex(n int) (rune, error) {
	if p.pos+n > len(p.src) {
		return 0, p.errorf("short hex escape")
	}
	v, err := strconv.ParseUint(string(p.src[p.pos:p.pos+n]), 16, 32)
	if err != nil {
		return 0, p.errorf("invalid hex escape")
	}
	p.pos += n
	return rune(v), nil
}
