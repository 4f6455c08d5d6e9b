package mw

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/TwigBush/indexgate/internal/httpx"
	"github.com/TwigBush/indexgate/internal/trace"
)

type LogOpts struct {
	Logger        *slog.Logger // default slog.Default()
	SkipPaths     []string
	RedactHeaders []string // Authorization and X-Authorization are always redacted
}

var alwaysRedact = []string{httpx.HeaderAuthorization, httpx.HeaderXAuthorization}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions
}

func redacted(k string, extra []string) bool {
	match := func(h string) bool { return strings.EqualFold(h, k) }
	return slices.ContainsFunc(alwaysRedact, match) || slices.ContainsFunc(extra, match)
}

// Logger writes one "req" line per request, plus a "req_detail" line with
// redacted headers when the response is an error.
func Logger(opts LogOpts) func(http.Handler) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPreflight(r) || slices.Contains(opts.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := httpx.NewRecorder(w)
			next.ServeHTTP(rec, r)
			dur := time.Since(start)
			status := rec.StatusOrOK()

			log.Info("req",
				"trace", trace.From(r.Context()),
				"m", r.Method,
				"path", r.URL.Path,
				"status", status,
				"ms", dur.Milliseconds(),
				"bytes", rec.Bytes,
			)

			if status >= 400 {
				h := map[string]string{}
				for k, vv := range r.Header {
					if len(vv) == 0 {
						continue
					}
					vl := vv[0]
					if redacted(k, opts.RedactHeaders) {
						vl = "***redacted***"
					}
					h[k] = vl
				}
				log.Warn("req_detail",
					"trace", trace.From(r.Context()),
					"m", r.Method, "path", r.URL.Path,
					"status", status, "ms", dur.Milliseconds(),
					"headers", h,
				)
			}
		})
	}
}
