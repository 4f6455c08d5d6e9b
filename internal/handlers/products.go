package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TwigBush/indexgate/internal/dispatch"
	"github.com/TwigBush/indexgate/internal/httpx"
	"github.com/TwigBush/indexgate/internal/types"
)

// Products serves /api/products. Guarded routes read the caller's token
// from X-Authorization.
type Products struct {
	pipeline *dispatch.Pipeline
}

func NewProducts(p *dispatch.Pipeline) *Products {
	return &Products{pipeline: p}
}

type countResponse struct {
	TotalCount int64 `json:"total_count"`
}

func (h *Products) run(r *http.Request, c dispatch.Call) (dispatch.Result, error) {
	res, _, err := h.pipeline.Run(r.Context(), httpx.Credential(r, httpx.HeaderXAuthorization), c)
	return res, err
}

func (h *Products) Search(w http.ResponseWriter, r *http.Request) {
	var req types.VerificationIndexSearchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := h.run(r, dispatch.Call{Kind: dispatch.KindSearch, Payload: req})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Value)
}

func (h *Products) Count(w http.ResponseWriter, r *http.Request) {
	var req types.VerificationIndexSearchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := h.run(r, dispatch.Call{Kind: dispatch.KindCount, Payload: req})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	n, _ := res.Value.(int64)
	httpx.WriteJSON(w, http.StatusOK, countResponse{TotalCount: n})
}

func (h *Products) CreateIndex(w http.ResponseWriter, r *http.Request) {
	var doc types.VerificationIndexRequest
	if err := httpx.DecodeJSON(w, r, &doc); err != nil {
		writeFailure(w, r, err)
		return
	}
	if _, err := h.run(r, dispatch.Call{Kind: dispatch.KindCreateIndex, Payload: doc}); err != nil {
		writeFailure(w, r, err)
		return
	}
	httpx.WriteOK(w)
}

func (h *Products) CreateIndexBulk(w http.ResponseWriter, r *http.Request) {
	var docs []types.VerificationIndexRequest
	if err := httpx.DecodeJSON(w, r, &docs); err != nil {
		writeFailure(w, r, err)
		return
	}
	if _, err := h.run(r, dispatch.Call{Kind: dispatch.KindCreateIndexBulk, Payload: docs}); err != nil {
		writeFailure(w, r, err)
		return
	}
	httpx.WriteOK(w)
}

func (h *Products) FindByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := h.run(r, dispatch.Call{Kind: dispatch.KindFindByID, Payload: id})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res.Value)
}

func (h *Products) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.run(r, dispatch.Call{Kind: dispatch.KindDeleteIndex, Payload: id}); err != nil {
		writeFailure(w, r, err)
		return
	}
	httpx.WriteOK(w)
}

func (h *Products) Sync(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "master_product_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeFailure(w, r, fmt.Errorf("%w: master_product_id %q is not an integer", httpx.ErrBadRequest, raw))
		return
	}
	if _, err := h.run(r, dispatch.Call{Kind: dispatch.KindSync, Payload: id}); err != nil {
		writeFailure(w, r, err)
		return
	}
	httpx.WriteOK(w)
}
