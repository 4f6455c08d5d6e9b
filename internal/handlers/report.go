package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/TwigBush/indexgate/internal/dispatch"
	"github.com/TwigBush/indexgate/internal/httpx"
)

const reportDateLayout = "2006-01-02"

// Envelope is the response shape of the system report endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Reports serves /api/system-report. Guarded routes read the caller's
// token from Authorization.
type Reports struct {
	pipeline *dispatch.Pipeline
}

func NewReports(p *dispatch.Pipeline) *Reports {
	return &Reports{pipeline: p}
}

func (h *Reports) OverviewByReportDate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	date, err := time.Parse(reportDateLayout, raw)
	if err != nil {
		writeFailure(w, r, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", httpx.ErrBadRequest, raw))
		return
	}

	cred := httpx.Credential(r, httpx.HeaderAuthorization)
	res, _, err := h.pipeline.Run(r.Context(), cred, dispatch.Call{Kind: dispatch.KindFindOverviewReportByDate, Payload: date})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: res.Value})
}
