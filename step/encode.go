package step

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Encode serializes attribute values as a comma separated STEP parameter list
// without the enclosing parentheses.
func Encode(values []Value) string {
	var b []byte
	for i, v := range values {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendValue(b, v)
	}
	return string(b)
}

// String returns the value in STEP syntax.
func (v Value) String() string {
	return string(appendValue(nil, v))
}

// String returns the entity as a STEP data record without the trailing semicolon.
func (e *Entity) String() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("#%d=%s(%s)", e.ExpressID, e.Type, Encode(e.Attributes))
}

func appendValue(b []byte, v Value) []byte {
	switch v.Kind {
	case KindNull:
		return append(b, '$')
	case KindNumber:
		return appendNumber(b, v)
	case KindBool:
		if v.Bool {
			return append(b, ".T."...)
		}
		return append(b, ".F."...)
	case KindString:
		return appendString(b, v.Str)
	case KindRef:
		b = append(b, '#')
		return strconv.AppendUint(b, uint64(v.Ref), 10)
	case KindEnum:
		b = append(b, '.')
		b = append(b, v.Str...)
		return append(b, '.')
	case KindList:
		b = append(b, v.Type...)
		b = append(b, '(')
		for i, item := range v.List {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendValue(b, item)
		}
		return append(b, ')')
	default:
		return append(b, '$')
	}
}

func appendNumber(b []byte, v Value) []byte {
	if v.Integer {
		return strconv.AppendInt(b, int64(v.Num), 10)
	}
	s := strconv.FormatFloat(v.Num, 'G', -1, 64)
	// REAL literals always carry a decimal point, e.g. 3. or 1.E-05.
	if !strings.ContainsRune(s, '.') {
		if i := strings.IndexByte(s, 'E'); i >= 0 {
			s = s[:i] + "." + s[i:]
		} else {
			s += "."
		}
	}
	return append(b, s...)
}

// appendString writes a quoted string. Quotes are doubled, backslashes are
// escaped and non-ASCII characters use the \X2\ directive.
func appendString(b []byte, s string) []byte {
	b = append(b, '\'')
	var wide []rune
	flush := func() {
		if len(wide) == 0 {
			return
		}
		b = append(b, `\X2\`...)
		for _, u := range utf16.Encode(wide) {
			b = append(b, fmt.Sprintf("%04X", u)...)
		}
		b = append(b, `\X0\`...)
		wide = wide[:0]
	}
	for _, r := range s {
		if r > 0x7e || (r < 0x20 && r != '\t') {
			wide = append(wide, r)
			continue
		}
		flush()
		switch r {
		case '\'':
			b = append(b, "''"...)
		case '\\':
			b = append(b, `\\`...)
		default:
			b = append(b, byte(r))
		}
	}
	flush()
	return append(b, '\'')
}
