// Package codec centralizes encoding of persisted catalog artifacts.
//
// Artifacts are written once by the catalog builder and read many times by
// the matching service, so the codec is chosen by stable name on both sides.
// Switching codecs is a breaking change for previously published artifacts.
package codec

// Codec converts a category artifact document (template names plus their
// base64 descriptor lists) to and from its stored bytes.
// Implementations must be safe for concurrent use by parallel loads.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Names lists the codec names that ByName resolves, default first.
func Names() []string {
	return []string{GoJSON{}.Name(), JSON{}.Name()}
}

// ByName resolves the codec named in the storage configuration or on the
// catalog builder command line. The empty name selects Default.
func ByName(name string) (Codec, bool) {
	switch name {
	case "":
		return Default, true
	case GoJSON{}.Name():
		return GoJSON{}, true
	case JSON{}.Name():
		return JSON{}, true
	}
	return nil, false
}
