package step

import (
	"strconv"
	"strings"
)

// Decode decodes the record located by ref. It returns false if the bytes do
// not match the record grammar or disagree with ref's id or type.
//
// Decode is a pure function of its inputs; results are not cached.
func Decode(src []byte, ref EntityRef) (*Entity, bool) {
	attrs, ok := decode(src, ref, -1)
	if !ok {
		return nil, false
	}
	return &Entity{ExpressID: ref.ExpressID, Type: ref.Type, Attributes: attrs}, true
}

// DecodePrefix decodes at most n leading attributes of the record. Trailing
// attributes are skipped without being materialized, which keeps bulk passes
// that only need e.g. the name of an entity cheap for geometry-heavy records.
func DecodePrefix(src []byte, ref EntityRef, n int) ([]Value, bool) {
	if n < 0 {
		n = 0
	}
	return decode(src, ref, n)
}

func decode(src []byte, ref EntityRef, limit int) ([]Value, bool) {
	b := ref.Bytes(src)
	if b == nil {
		return nil, false
	}
	p := parser{b: b}
	if !p.consume('#') {
		return nil, false
	}
	id, ok := p.parseUint()
	if !ok || id != ref.ExpressID {
		return nil, false
	}
	p.skipSpace()
	if !p.consume('=') {
		return nil, false
	}
	p.skipSpace()
	if !equalFoldASCII(p.parseIdent(), ref.Type) {
		return nil, false
	}
	p.skipSpace()
	return p.parseList(limit)
}

// parser is a single-pass recursive scanner over one record or header statement.
type parser struct {
	b   []byte
	pos int
}

func (p *parser) peek() byte {
	if p.pos >= len(p.b) {
		return 0
	}
	return p.b[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() != c || p.pos >= len(p.b) {
		return false
	}
	p.pos++
	return true
}

func (p *parser) skipSpace() {
	for p.pos < len(p.b) {
		switch p.b[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		case '/':
			if p.pos+1 < len(p.b) && p.b[p.pos+1] == '*' {
				end := strings.Index(string(p.b[p.pos+2:]), "*/")
				if end < 0 {
					p.pos = len(p.b)
					return
				}
				p.pos += end + 4
				continue
			}
			return
		default:
			return
		}
	}
}

func (p *parser) parseUint() (uint32, bool) {
	start := p.pos
	var v uint64
	for p.pos < len(p.b) && isDigit(p.b[p.pos]) {
		v = v*10 + uint64(p.b[p.pos]-'0')
		if v > 1<<32-1 {
			return 0, false
		}
		p.pos++
	}
	return uint32(v), p.pos > start
}

func (p *parser) parseIdent() []byte {
	start := p.pos
	for p.pos < len(p.b) && isIdentByte(p.b[p.pos], p.pos == start) {
		p.pos++
	}
	return p.b[start:p.pos]
}

// parseList parses a parenthesized, comma separated list starting at '('.
// If limit >= 0 only the first limit elements are decoded; the remainder is
// skipped by bounds only.
func (p *parser) parseList(limit int) ([]Value, bool) {
	if !p.consume('(') {
		return nil, false
	}
	items := []Value{}
	p.skipSpace()
	if p.consume(')') {
		return items, true
	}
	for {
		if limit >= 0 && len(items) >= limit {
			return items, p.skipRest()
		}
		v, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		items = append(items, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
		case ')':
			p.pos++
			return items, true
		default:
			return nil, false
		}
	}
}

// skipRest advances past the close parenthesis of the list being parsed.
func (p *parser) skipRest() bool {
	depth := 1
	for p.pos < len(p.b) {
		switch p.b[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				return true
			}
		case '\'':
			if _, ok := p.parseString(); !ok {
				return false
			}
			continue
		}
		p.pos++
	}
	return false
}

func (p *parser) parseValue() (Value, bool) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '$' || c == '*':
		p.pos++
		return Value{}, true
	case c == '#':
		p.pos++
		id, ok := p.parseUint()
		if !ok {
			return Value{}, false
		}
		return Ref(id), true
	case c == '\'':
		s, ok := p.parseString()
		if !ok {
			return Value{}, false
		}
		return String(s), true
	case c == '"':
		return p.parseBinary()
	case c == '(':
		items, ok := p.parseList(-1)
		if !ok {
			return Value{}, false
		}
		return Value{Kind: KindList, List: items}, true
	case c == '.':
		return p.parseEnum()
	case isIdentByte(c, true):
		name := p.parseIdent()
		p.skipSpace()
		if p.peek() == '(' {
			items, ok := p.parseList(-1)
			if !ok {
				return Value{}, false
			}
			return Value{Kind: KindList, Type: strings.ToUpper(string(name)), List: items}, true
		}
		return Enum(string(name)), true
	case c == '-' || c == '+' || isDigit(c):
		return p.parseNumber()
	case c == 0 || c == ',' || c == ')':
		return Value{}, false
	default:
		return p.parseBareToken(), true
	}
}

func (p *parser) parseEnum() (Value, bool) {
	start := p.pos
	p.pos++
	for p.pos < len(p.b) && p.b[p.pos] != '.' {
		if c := p.b[p.pos]; c == ',' || c == ')' {
			// Not an enumeration after all, e.g. a REAL written as ".5".
			p.pos = start
			return p.parseNumber()
		}
		p.pos++
	}
	if p.pos >= len(p.b) {
		return Value{}, false
	}
	token := string(p.b[start+1 : p.pos])
	p.pos++
	switch strings.ToUpper(token) {
	case "T":
		return Bool(true), true
	case "F":
		return Bool(false), true
	case "U":
		return Value{}, true
	}
	return Enum(token), true
}

func (p *parser) parseNumber() (Value, bool) {
	start := p.pos
	integer := true
	for p.pos < len(p.b) {
		c := p.b[p.pos]
		if isDigit(c) || c == '-' || c == '+' {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			integer = false
			p.pos++
			continue
		}
		break
	}
	text := string(p.b[start:p.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Fall back to the raw token, mirroring how unknown identifiers are kept.
		p.pos = start
		return p.parseBareToken(), true
	}
	return Value{Kind: KindNumber, Num: f, Integer: integer}, true
}

// parseBareToken consumes anything up to the next top-level delimiter.
func (p *parser) parseBareToken() Value {
	start := p.pos
	for p.pos < len(p.b) {
		c := p.b[p.pos]
		if c == ',' || c == ')' || c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			break
		}
		p.pos++
	}
	return Enum(string(p.b[start:p.pos]))
}

func (p *parser) parseBinary() (Value, bool) {
	p.pos++
	start := p.pos
	for p.pos < len(p.b) && p.b[p.pos] != '"' {
		p.pos++
	}
	if p.pos >= len(p.b) {
		return Value{}, false
	}
	s := string(p.b[start:p.pos])
	p.pos++
	return String(s), true
}

// parseString parses a quoted string starting at the opening quote.
func (p *parser) parseString() (string, bool) {
	p.pos++
	start := p.pos
	escaped := false
	for p.pos < len(p.b) {
		switch p.b[p.pos] {
		case '\\':
			escaped = true
			p.pos += escapeLen(p.b, p.pos)
		case '\'':
			if p.pos+1 < len(p.b) && p.b[p.pos+1] == '\'' {
				escaped = true
				p.pos += 2
				continue
			}
			raw := p.b[start:p.pos]
			p.pos++
			if !escaped {
				return string(raw), true
			}
			return unescape(raw), true
		default:
			p.pos++
		}
	}
	return "", false
}

func equalFoldASCII(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := 0; i < len(b); i++ {
		x, y := b[i], s[i]
		if x >= 'a' && x <= 'z' {
			x -= 'a' - 'A'
		}
		if y >= 'a' && y <= 'z' {
			y -= 'a' - 'A'
		}
		if x != y {
			return false
		}
	}
	return true
}
