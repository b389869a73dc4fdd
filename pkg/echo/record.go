package echo

import (
	"crypto/tls"
	"net"
	"net/http"

	"github.com/tommy351/reqecho/pkg/payload"
)

// Record is what the server understood of a request.
type Record struct {
	Method  string
	URL     string
	Payload payload.Payload
}

func (r Record) String() string {
	return r.Method + " " + r.URL + " data: " + r.Payload.String()
}

// FullURL rebuilds the absolute URL of a server request.
func FullURL(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}

	target := r.RequestURI

	if target == "" {
		target = r.URL.RequestURI()
	}

	return scheme(r.TLS) + "://" + host(r) + target
}

// host falls back to the address the request was received on when the
// client sent no Host header, as HTTP/1.0 clients may.
func host(r *http.Request) string {
	if r.Host != "" {
		return r.Host
	}

	if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
		return addr.String()
	}

	return ""
}

func scheme(state *tls.ConnectionState) string {
	if state != nil {
		return "https"
	}

	return "http"
}
