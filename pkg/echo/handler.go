package echo

import (
	"io"
	"net/http"

	"github.com/ansel1/merry"
	"github.com/rs/zerolog"
	"github.com/tommy351/reqecho/pkg/payload"
)

const DefaultMaxBodySize = 10 << 20

var errBodyTooLarge = merry.New("request body too large")

type Handler struct {
	// MaxBodySize caps the bytes read from a request body. Zero means
	// DefaultMaxBodySize.
	MaxBodySize int64
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	body, err := h.readBody(r)

	if err != nil {
		logger.Warn().Err(err).Int("size", len(body)).Msg("Failed to read the request body")
	}

	rec := Record{
		Method:  r.Method,
		URL:     FullURL(r),
		Payload: payload.Decode(r.Header.Get("Content-Type"), body),
	}
	line := rec.String()

	logger.Info().Str("payload", rec.Payload.Kind.String()).Msg(line)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := io.WriteString(w, line); err != nil {
		logger.Debug().Err(err).Msg("Failed to write the response")
	}
}

func (h *Handler) readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	limit := h.MaxBodySize

	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	// Read one extra byte to tell a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))

	if err != nil {
		return body, merry.Wrap(err)
	}

	if int64(len(body)) > limit {
		return body[:limit], errBodyTooLarge.Here()
	}

	return body, nil
}
