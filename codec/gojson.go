package codec

import gojson "github.com/goccy/go-json"

// GoJSON writes documents with github.com/goccy/go-json. For the document
// types in this package its output decodes identically to JSON's.
type GoJSON struct{}

// Marshal encodes a document.
func (GoJSON) Marshal(v any) ([]byte, error) { return gojson.Marshal(v) }

// Unmarshal decodes a document previously written by either codec.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name is the key ByName resolves to this codec.
func (GoJSON) Name() string { return "go-json" }
