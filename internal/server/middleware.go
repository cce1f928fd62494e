package server

import (
	"bufio"
	"net"
	"net/http"
	"strings"
	"time"
)

// cspDirective is one Content-Security-Policy directive and its sources.
type cspDirective struct {
	name    string
	sources []string
}

// Cards color banners, title rows and buttons with style attributes, so
// inline styles must be allowed.
var contentSecurityPolicy = buildCSPHeader([]cspDirective{
	{"default-src", []string{"'self'"}},
	{"img-src", []string{"'self'", "data:", "http:", "https:"}},
	{"style-src", []string{"'self'", "'unsafe-inline'"}},
	{"script-src", []string{"'self'", "'unsafe-inline'"}},
	{"connect-src", []string{"'self'", "ws:", "wss:"}},
	{"frame-ancestors", []string{"'none'"}},
})

func buildCSPHeader(directives []cspDirective) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		if len(d.sources) > 0 {
			parts = append(parts, d.name+" "+strings.Join(d.sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack is required by the websocket upgrade on /ws.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	r.status = http.StatusSwitchingProtocols
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func (s *PreviewServer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		applySecurityHeaders(w)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func applySecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Security-Policy", contentSecurityPolicy)
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
}
