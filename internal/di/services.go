package di

import (
	"fmt"

	"github.com/TwigBush/indexgate/internal/config"
	"github.com/TwigBush/indexgate/internal/dispatch"
	"github.com/TwigBush/indexgate/internal/downstream"
	"github.com/TwigBush/indexgate/internal/index"
)

// ProvideServices builds the downstream collaborators named by
// services.backend. One value serves all three roles.
func ProvideServices(cfg config.ServicesConfig) (dispatch.Services, error) {
	switch cfg.Backend {
	case "memory":
		s := index.NewMemoryStore()
		return dispatch.Services{Index: s, Stream: s, Reports: s}, nil
	case "fs":
		s, err := index.NewFileStore(cfg.DataDir)
		if err != nil {
			return dispatch.Services{}, err
		}
		return dispatch.Services{Index: s, Stream: s, Reports: s}, nil
	case "remote", "":
		c, err := downstream.New(downstream.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
		if err != nil {
			return dispatch.Services{}, err
		}
		return dispatch.Services{Index: c, Stream: c, Reports: c}, nil
	}
	return dispatch.Services{}, fmt.Errorf("unknown services backend %q", cfg.Backend)
}
