package server

import (
	"time"

	json "github.com/goccy/go-json"
)

// MatchRequest is the body of POST /match/{category}.
type MatchRequest struct {
	// Contents holds one base64 descriptor blob per query.
	Contents json.RawMessage `json:"contents"`
	// EarlyReturn enables early exit when set to "true".
	EarlyReturn json.RawMessage `json:"earlyReturn,omitempty"`
}

// ErrorResponse reports a request-level or per-blob failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CategoryResponse describes one category in GET /categories.
type CategoryResponse struct {
	Name      string     `json:"name"`
	State     string     `json:"state"`
	Templates int        `json:"templates"`
	SizeBytes int64      `json:"size_bytes"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}
