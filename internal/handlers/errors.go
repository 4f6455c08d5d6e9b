package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/httpx"
	"github.com/TwigBush/indexgate/internal/trace"
	"github.com/TwigBush/indexgate/internal/types"
)

// statusFor is the single error-to-status table for the API.
func statusFor(err error) int {
	switch {
	case errors.Is(err, httpx.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, authz.ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, authz.ErrAuthorizationUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrInternal):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func messageFor(status int, err error) string {
	switch status {
	case http.StatusUnauthorized:
		return "missing credential"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusServiceUnavailable:
		return "authorization unavailable"
	case http.StatusBadGateway:
		return "downstream error"
	case http.StatusInternalServerError:
		return "internal error"
	}
	return err.Error()
}

func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		slog.Error("request failed", "trace", trace.From(r.Context()), "status", status, "err", err.Error())
	}
	httpx.WriteError(w, status, messageFor(status, err))
}
