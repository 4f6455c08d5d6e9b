package di

import (
	"context"
	"fmt"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/config"
	"github.com/TwigBush/indexgate/internal/jwks"
)

// ProvideAuthorizer builds the oracle named by authz.backend, wrapped in the
// decision cache when authz.cache_ttl is positive.
func ProvideAuthorizer(ctx context.Context, cfg config.AuthzConfig) (authz.Authorizer, error) {
	var (
		a   authz.Authorizer
		err error
	)
	switch cfg.Backend {
	case "fga":
		a, err = provideOpenFGA(ctx, cfg.FGA)
	case "static":
		a, err = provideStatic(cfg.Static)
	case "remote", "":
		a, err = authz.NewRemote(authz.RemoteConfig{
			BaseURL: cfg.Remote.BaseURL,
			Path:    cfg.Remote.Path,
			Timeout: cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown authz backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return authz.NewCached(a, cfg.CacheTTL), nil
}

func provideOpenFGA(ctx context.Context, cfg config.FGAConfig) (authz.Authorizer, error) {
	set, err := jwks.Load(ctx, cfg.JWKS)
	if err != nil {
		return nil, err
	}
	var opts []jwks.Option
	if cfg.Issuer != "" {
		opts = append(opts, jwks.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwks.WithAudience(cfg.Audience))
	}
	return authz.NewOpenFGA(authz.OpenFGAConfig{
		APIURL:   cfg.APIURL,
		StoreID:  cfg.StoreID,
		APIToken: cfg.APIToken,
		ModelID:  cfg.ModelID,
	}, jwks.NewResolver(set, opts...))
}

func provideStatic(cfg config.StaticConfig) (authz.Authorizer, error) {
	grants := make(map[string][]string, len(cfg.Grants))
	for _, g := range cfg.Grants {
		grants[g.Credential] = append(grants[g.Credential], g.Permissions...)
	}
	return authz.NewStatic(cfg.AllowAll, grants)
}
