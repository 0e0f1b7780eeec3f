package middleware

import (
	"net/http"
)

// DefaultMaxBodySize is the request body limit used when none is configured.
const DefaultMaxBodySize int64 = 1 << 20 // 1MB

// MaxBodySize returns a middleware that limits request body size.
// Requests that declare a larger Content-Length are rejected with 413 up
// front; bodies of unknown length are cut off by http.MaxBytesReader, and
// the handler's read fails with *http.MaxBytesError.
// A non-positive maxBytes falls back to DefaultMaxBodySize.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":"Request body too large","code":"PAYLOAD_TOO_LARGE"}` + "\n"))
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}

			next.ServeHTTP(w, r)
		})
	}
}
