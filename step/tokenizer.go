package step

import (
	"iter"
	"log/slog"
	"strings"
)

// Tokenizer scans a STEP buffer for data records of the form
//
//	#<digits> = <TYPENAME>( ... );
//
// It only determines record bounds. Attribute contents are never decoded, but
// string literals and comments are tracked so that parentheses or semicolons
// inside them do not confuse the scan.
//
// A Tokenizer is a one-shot iterator; scanning again requires a new Tokenizer.
type Tokenizer struct {
	src     []byte
	pos     int
	line    int
	skipped int
	types   map[string]string
	logger  *slog.Logger
}

// NewTokenizer creates a tokenizer over src. src is never modified.
func NewTokenizer(src []byte, optFns ...func(*Options)) *Tokenizer {
	o := buildOptions(optFns)
	return &Tokenizer{
		src:    src,
		line:   1,
		types:  make(map[string]string, 256),
		logger: o.Logger,
	}
}

// Next returns the next record reference. The second result is false once the
// buffer is exhausted.
func (t *Tokenizer) Next() (EntityRef, bool) {
	src := t.src
	for t.pos < len(src) {
		switch c := src[t.pos]; c {
		case '\n':
			t.line++
			t.pos++
		case '/':
			if t.pos+1 < len(src) && src[t.pos+1] == '*' {
				t.skipComment()
			} else {
				t.pos++
			}
		case '\'':
			t.skipString()
		case '#':
			if ref, ok := t.record(); ok {
				return ref, true
			}
		default:
			t.pos++
		}
	}
	return EntityRef{}, false
}

// All returns an iterator over the remaining records.
func (t *Tokenizer) All() iter.Seq[EntityRef] {
	return func(yield func(EntityRef) bool) {
		for {
			ref, ok := t.Next()
			if !ok || !yield(ref) {
				return
			}
		}
	}
}

// Skipped returns the number of malformed records skipped so far.
func (t *Tokenizer) Skipped() int {
	return t.skipped
}

// Offset returns the current byte offset of the scan.
func (t *Tokenizer) Offset() int {
	return t.pos
}

// Line returns the current 1-based line number of the scan.
func (t *Tokenizer) Line() int {
	return t.line
}

// record parses a record starting at the '#' under the cursor.
func (t *Tokenizer) record() (EntityRef, bool) {
	src := t.src
	start, startLine := t.pos, t.line
	t.pos++

	id, digits := uint64(0), 0
	for t.pos < len(src) && isDigit(src[t.pos]) {
		id = id*10 + uint64(src[t.pos]-'0')
		if id > 1<<32-1 {
			t.malformed(startLine, "express id overflows uint32")
			t.skipToSemicolon()
			return EntityRef{}, false
		}
		t.pos++
		digits++
	}
	if digits == 0 {
		// A lone '#' outside of a record is noise, not a record.
		return EntityRef{}, false
	}

	t.skipSpace()
	if t.pos >= len(src) || src[t.pos] != '=' {
		t.malformed(startLine, "missing '=' after express id")
		t.skipToSemicolon()
		return EntityRef{}, false
	}
	t.pos++
	t.skipSpace()

	nameStart := t.pos
	for t.pos < len(src) && isIdentByte(src[t.pos], t.pos == nameStart) {
		t.pos++
	}
	name := src[nameStart:t.pos]
	t.skipSpace()

	if len(name) == 0 {
		if t.pos < len(src) && src[t.pos] == '(' {
			// Complex (multi-type) instances carry no single type name.
			t.skipped++
			t.logger.Debug("skipping complex entity instance", "line", startLine, "express_id", id)
		} else {
			t.malformed(startLine, "missing entity type name")
		}
		t.skipToSemicolon()
		return EntityRef{}, false
	}
	if t.pos >= len(src) || src[t.pos] != '(' {
		t.malformed(startLine, "missing attribute list")
		t.skipToSemicolon()
		return EntityRef{}, false
	}

	end, ok := t.matchParen()
	if !ok {
		t.malformed(startLine, "unbalanced attribute list")
		return EntityRef{}, false
	}
	t.skipToSemicolon()

	return EntityRef{
		ExpressID: uint32(id),
		Type:      t.typeName(name),
		Offset:    start,
		Length:    end - start,
		Line:      startLine,
	}, true
}

// matchParen advances past the parenthesis under the cursor and its matching
// close parenthesis. It returns the offset one past the close parenthesis. A
// semicolon at non-zero depth ends the record early and reports failure, with
// the cursor placed after the semicolon.
func (t *Tokenizer) matchParen() (int, bool) {
	src := t.src
	depth := 0
	for t.pos < len(src) {
		switch src[t.pos] {
		case '(':
			depth++
			t.pos++
		case ')':
			depth--
			t.pos++
			if depth == 0 {
				return t.pos, true
			}
		case '\'':
			t.skipString()
		case '\n':
			t.line++
			t.pos++
		case ';':
			t.pos++
			return 0, false
		case '/':
			if t.pos+1 < len(src) && src[t.pos+1] == '*' {
				t.skipComment()
			} else {
				t.pos++
			}
		default:
			t.pos++
		}
	}
	return 0, false
}

// skipString advances past the string literal under the cursor. Both doubled
// quotes and backslash escapes are honoured.
func (t *Tokenizer) skipString() {
	src := t.src
	t.pos++
	for t.pos < len(src) {
		switch src[t.pos] {
		case '\\':
			t.pos += escapeLen(src, t.pos)
		case '\'':
			if t.pos+1 < len(src) && src[t.pos+1] == '\'' {
				t.pos += 2
				continue
			}
			t.pos++
			return
		case '\n':
			t.line++
			t.pos++
		default:
			t.pos++
		}
	}
	if t.pos > len(src) {
		t.pos = len(src)
	}
}

func (t *Tokenizer) skipComment() {
	src := t.src
	t.pos += 2
	for t.pos < len(src) {
		if src[t.pos] == '*' && t.pos+1 < len(src) && src[t.pos+1] == '/' {
			t.pos += 2
			return
		}
		if src[t.pos] == '\n' {
			t.line++
		}
		t.pos++
	}
}

func (t *Tokenizer) skipSpace() {
	src := t.src
	for t.pos < len(src) {
		switch src[t.pos] {
		case ' ', '\t', '\r':
			t.pos++
		case '\n':
			t.line++
			t.pos++
		default:
			return
		}
	}
}

// skipToSemicolon advances past the next top-level ';'.
func (t *Tokenizer) skipToSemicolon() {
	src := t.src
	for t.pos < len(src) {
		switch src[t.pos] {
		case ';':
			t.pos++
			return
		case '\'':
			t.skipString()
		case '\n':
			t.line++
			t.pos++
		default:
			t.pos++
		}
	}
}

func (t *Tokenizer) malformed(line int, reason string) {
	t.skipped++
	t.logger.Warn("skipping malformed entity", "line", line, "reason", reason)
}

// typeName interns the upper-cased type name so that each distinct type is
// allocated once per scan.
func (t *Tokenizer) typeName(b []byte) string {
	if s, ok := t.types[string(b)]; ok {
		return s
	}
	s := strings.ToUpper(string(b))
	t.types[string(b)] = s
	return s
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}
