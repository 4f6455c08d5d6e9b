package server

import (
	"net/http"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/dispatch"
	"github.com/TwigBush/indexgate/internal/httpx"
)

// endpoint describes one API route and what it requires.
type endpoint struct {
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Operation  dispatch.Kind     `json:"operation"`
	Header     string            `json:"credential_header,omitempty"`
	Permission *authz.Permission `json:"permission,omitempty"`
}

type operationsResp struct {
	Endpoints []endpoint `json:"endpoints"`
}

// OperationsHandler lists every route with the permission the gate checks
// for it. Unguarded routes carry no permission and no credential header.
func OperationsHandler(table dispatch.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := httpx.BaseURL(r)
		out := operationsResp{Endpoints: make([]endpoint, 0, len(routes))}
		for _, rt := range routes {
			e := endpoint{Method: rt.Method, URL: base + rt.Path, Operation: rt.Kind}
			if op, ok := table.Lookup(rt.Kind); ok && op.Guarded() {
				e.Header = rt.Header
				e.Permission = op.Permission
			}
			out.Endpoints = append(out.Endpoints, e)
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
