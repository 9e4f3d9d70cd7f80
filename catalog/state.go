package catalog

import (
	"fmt"
	"time"
)

// State is the load state of a category.
type State int32

const (
	// StateUnloaded means no successful or terminal load has happened yet.
	StateUnloaded State = iota
	// StateLoading means a load is in flight.
	StateLoading
	// StateLoaded means the reference set is resident and immutable.
	StateLoaded
	// StateLoadFailed means the artifact is missing or malformed.
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load-failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a point-in-time snapshot of one category.
type Status struct {
	Name      string
	State     State
	Templates int
	SizeBytes int64
	LoadedAt  time.Time
	// Err is the terminal error of a failed load, or the last transient
	// error of an unloaded category.
	Err error
}
