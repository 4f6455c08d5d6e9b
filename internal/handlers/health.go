package handlers

import (
	"net/http"

	"github.com/TwigBush/indexgate/internal/httpx"
	"github.com/TwigBush/indexgate/internal/version"
)

func Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

func Version(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, version.Get())
}
