package codec

import (
	"encoding/json"
)

// JSON writes entity, node and property documents with encoding/json.
// Tests use it as the reference output for GoJSON.
type JSON struct{}

// Marshal encodes a document.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes a document previously written by either codec.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name is the key ByName resolves to this codec.
func (JSON) Name() string { return "json" }

// Default is the codec the CLI uses for query and dump output.
var Default Codec = GoJSON{}
