package step

import (
	"bytes"
	"errors"
	"strings"
)

// ErrNoHeader is returned by ParseHeader when the buffer has no HEADER section.
var ErrNoHeader = errors.New("step: no header section")

// headerWindow bounds the search for the HEADER section so that a headerless
// multi-gigabyte buffer is not scanned in full.
const headerWindow = 1 << 20

// Header holds the contents of the HEADER section.
type Header struct {
	Description         []string
	ImplementationLevel string
	Name                string
	TimeStamp           string
	Author              []string
	Organization        []string
	PreprocessorVersion string
	OriginatingSystem   string
	Authorization       string
	Schemas             []string
}

// Schema returns the first schema identifier in upper case, e.g. IFC4, or ""
// if the header declares none.
func (h Header) Schema() string {
	if len(h.Schemas) == 0 {
		return ""
	}
	return strings.ToUpper(h.Schemas[0])
}

// ParseHeader parses the FILE_DESCRIPTION, FILE_NAME and FILE_SCHEMA
// statements. Unknown statements are ignored.
func ParseHeader(src []byte) (Header, error) {
	window := src
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	start := bytes.Index(window, []byte("HEADER;"))
	if start < 0 {
		return Header{}, ErrNoHeader
	}
	start += len("HEADER;")
	end := bytes.Index(window[start:], []byte("ENDSEC;"))
	if end < 0 {
		return Header{}, ErrNoHeader
	}

	var h Header
	p := parser{b: window[start : start+end]}
	for {
		p.skipSpace()
		if p.pos >= len(p.b) {
			return h, nil
		}
		name := strings.ToUpper(string(p.parseIdent()))
		p.skipSpace()
		if name == "" {
			return h, ErrNoHeader
		}
		args, ok := p.parseList(-1)
		if !ok {
			return h, ErrNoHeader
		}
		p.skipSpace()
		p.consume(';')

		switch name {
		case "FILE_DESCRIPTION":
			h.Description = stringList(arg(args, 0))
			h.ImplementationLevel, _ = arg(args, 1).AsString()
		case "FILE_NAME":
			h.Name, _ = arg(args, 0).AsString()
			h.TimeStamp, _ = arg(args, 1).AsString()
			h.Author = stringList(arg(args, 2))
			h.Organization = stringList(arg(args, 3))
			h.PreprocessorVersion, _ = arg(args, 4).AsString()
			h.OriginatingSystem, _ = arg(args, 5).AsString()
			h.Authorization, _ = arg(args, 6).AsString()
		case "FILE_SCHEMA":
			h.Schemas = stringList(arg(args, 0))
		}
	}
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Value{}
}

func stringList(v Value) []string {
	items, ok := v.AsList()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}
