package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/hupe1980/orbmatch"
)

var errNotString = errors.New("content is not a string")

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	var req MatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var contents []json.RawMessage
	if raw := bytes.TrimSpace(req.Contents); len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &contents) != nil {
		writeError(w, http.StatusBadRequest, "contents must be an array")
		return
	}

	opts, err := matchOptions(r, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Non-string elements fail at their position; the rest are matched.
	blobs := make([]string, 0, len(contents))
	positions := make([]int, len(contents))
	for i, c := range contents {
		var blob string
		if err := json.Unmarshal(c, &blob); err != nil {
			positions[i] = -1
			continue
		}
		positions[i] = len(blobs)
		blobs = append(blobs, blob)
	}

	batch, err := s.engine.MatchEncoded(r.Context(), category, blobs, opts...)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	out := make([]any, len(contents))
	for i, p := range positions {
		switch {
		case p < 0:
			out[i] = ErrorResponse{Error: errNotString.Error()}
		case batch[p].Err != nil:
			out[i] = ErrorResponse{Error: s.blobError(r, i, batch[p].Err)}
		default:
			out[i] = batch[p].Matches
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func matchOptions(r *http.Request, req MatchRequest) ([]orbmatch.MatchOption, error) {
	var opts []orbmatch.MatchOption

	q := r.URL.Query()
	if v := q.Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q", v)
		}
		opts = append(opts, orbmatch.WithThreshold(n))
	}
	if v := q.Get("topN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid topN %q", v)
		}
		opts = append(opts, orbmatch.WithTopN(n))
	}
	if earlyReturn(req.EarlyReturn) {
		opts = append(opts, orbmatch.WithEarlyExit(true))
	}
	return opts, nil
}

// earlyReturn accepts the string "true" and, leniently, the JSON literal true.
func earlyReturn(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case `"true"`, `true`:
		return true
	default:
		return false
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, orbmatch.ErrUnknownCategory):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orbmatch.ErrInvalidThreshold), errors.Is(err, orbmatch.ErrInvalidRatio):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orbmatch.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "engine closed")
	default:
		s.logger.ErrorContext(r.Context(), "match failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// blobError returns the message reported for a failed batch position.
// Only client faults carry detail.
func (s *Server) blobError(r *http.Request, pos int, err error) string {
	switch {
	case errors.Is(err, orbmatch.ErrMalformedDescriptor):
		return err.Error()
	case errors.Is(err, orbmatch.ErrClosed):
		return "engine closed"
	default:
		s.logger.ErrorContext(r.Context(), "batch item failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"position", pos,
			"error", err,
		)
		return "internal server error"
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	statuses := s.engine.Categories()
	out := make([]CategoryResponse, len(statuses))
	for i, st := range statuses {
		out[i] = CategoryResponse{
			Name:      st.Name,
			State:     st.State.String(),
			Templates: st.Templates,
			SizeBytes: st.SizeBytes,
		}
		if !st.LoadedAt.IsZero() {
			loadedAt := st.LoadedAt
			out[i].LoadedAt = &loadedAt
		}
		if st.Err != nil {
			out[i].Error = st.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	select {
	case <-s.ready:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "warming up"})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}
