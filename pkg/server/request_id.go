package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-Id"

// RequestID tags the request logger with the ID sent by the client, or a new
// one, and returns it in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)

		if id == "" {
			id = uuid.NewString()
		}

		logger := zerolog.Ctx(r.Context())
		logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("requestId", id)
		})

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
