package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is byte-for-byte interchangeable with GoJSON for artifact documents and
// exists for environments that want the lowest-dependency decoder.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
