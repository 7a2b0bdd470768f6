package step

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// escapeLen returns the number of bytes to skip for the escape sequence
// starting at the backslash b[i]. Control directives are consumed as a whole
// so that a directive terminator directly before the closing quote, as in
// 'x\X0\', is not mistaken for an escaped quote.
func escapeLen(b []byte, i int) int {
	rest := b[i+1:]
	switch {
	case len(rest) == 0:
		return 1
	case rest[0] == '\\' || rest[0] == '\'':
		return 2
	case len(rest) >= 3 && rest[0] == 'X' && (rest[1] == '0' || rest[1] == '2' || rest[1] == '4') && rest[2] == '\\':
		return 4
	case len(rest) >= 2 && (rest[0] == 'X' || rest[0] == 'S') && rest[1] == '\\':
		return 3
	case len(rest) >= 3 && rest[0] == 'P' && rest[2] == '\\':
		return 4
	default:
		return 1
	}
}

// unescape resolves doubled quotes, backslash escapes and the ISO 10303-21
// control directives \X\hh, \X2\...\X0\, \X4\...\X0\, \S\c and \P?\.
func unescape(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\'' {
			// Doubled quote; the second one is skipped.
			sb.WriteByte('\'')
			if i+1 < len(raw) && raw[i+1] == '\'' {
				i++
			}
			continue
		}
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		next := raw[i+1]
		switch {
		case next == '\\' || next == '\'':
			sb.WriteByte(next)
			i++
		case next == 'X' && i+3 < len(raw) && raw[i+2] == '2' && raw[i+3] == '\\':
			n := decodeWide(&sb, raw[i+4:], 4)
			i += 3 + n
		case next == 'X' && i+3 < len(raw) && raw[i+2] == '4' && raw[i+3] == '\\':
			n := decodeWide(&sb, raw[i+4:], 8)
			i += 3 + n
		case next == 'X' && i+4 < len(raw) && raw[i+2] == '\\':
			if v, err := strconv.ParseUint(string(raw[i+3:i+5]), 16, 8); err == nil {
				sb.WriteRune(rune(v))
				i += 4
			} else {
				sb.WriteByte(c)
			}
		case next == 'S' && i+3 < len(raw) && raw[i+2] == '\\':
			sb.WriteRune(rune(raw[i+3]) + 128)
			i += 3
		case next == 'P' && i+3 < len(raw) && raw[i+3] == '\\':
			i += 3
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// decodeWide decodes hex groups of width digits (4 = UTF-16, 8 = UCS-4) up to
// the \X0\ terminator. It returns the number of bytes consumed including the
// terminator.
func decodeWide(sb *strings.Builder, b []byte, width int) int {
	end := strings.Index(string(b), `\X0\`)
	if end < 0 {
		end = len(b)
	}
	hex := b[:end]
	if width == 4 {
		units := make([]uint16, 0, len(hex)/4)
		for j := 0; j+4 <= len(hex); j += 4 {
			v, err := strconv.ParseUint(string(hex[j:j+4]), 16, 16)
			if err != nil {
				break
			}
			units = append(units, uint16(v))
		}
		for _, r := range utf16.Decode(units) {
			sb.WriteRune(r)
		}
	} else {
		for j := 0; j+8 <= len(hex); j += 8 {
			v, err := strconv.ParseUint(string(hex[j:j+8]), 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				break
			}
			sb.WriteRune(rune(v))
		}
	}
	if end == len(b) {
		return end
	}
	return end + 4
}

