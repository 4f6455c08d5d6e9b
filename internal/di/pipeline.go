package di

import (
	"context"
	"log/slog"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/config"
	"github.com/TwigBush/indexgate/internal/dispatch"
)

func ProvidePipeline(ctx context.Context, cfg *config.Config, log *slog.Logger) (*dispatch.Pipeline, error) {
	a, err := ProvideAuthorizer(ctx, cfg.Authz)
	if err != nil {
		return nil, err
	}
	svc, err := ProvideServices(cfg.Services)
	if err != nil {
		return nil, err
	}
	return NewPipeline(a, svc, cfg.Authz, log), nil
}

// NewPipeline assembles gate, dispatcher and operation table around
// already built backends.
func NewPipeline(a authz.Authorizer, svc dispatch.Services, cfg config.AuthzConfig, log *slog.Logger) *dispatch.Pipeline {
	gate := authz.NewGate(a, authz.WithTimeout(cfg.Timeout), authz.WithLogger(log))
	d := dispatch.NewDispatcher(svc, log)
	return dispatch.NewPipeline(dispatch.DefaultTable(cfg.GuardDelete), gate, d, log)
}
