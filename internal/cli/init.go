package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/config"
)

func cmdInit() *cobra.Command {
	var authzURL string
	var servicesURL string
	var dev bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{
				Listen:        ":8080",
				MetricsListen: ":9090",
				Log:           config.LogConfig{Level: "info"},
				Authz: config.AuthzConfig{
					Backend: "remote",
					Timeout: authz.DefaultTimeout,
					Remote:  config.RemoteConfig{BaseURL: authzURL, Path: "/v1/authorize"},
				},
				Services: config.ServicesConfig{Backend: "remote", BaseURL: servicesURL},
			}
			if dev {
				// local oracle and index; tok-dev holds every permission
				cfg.Authz.Backend = "static"
				cfg.Authz.Static.Grants = []config.StaticGrant{
					{Credential: "tok-dev", Permissions: authz.PermissionNames()},
				}
				cfg.Services.Backend = "fs"
				if dir, err := config.Dir(); err == nil {
					cfg.Services.DataDir = filepath.Join(dir, "data")
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config: %s\n", cfgPath)
			return nil
		},
	}
	c.Flags().StringVar(&authzURL, "authz-url", "http://localhost:8081", "permission service base URL")
	c.Flags().StringVar(&servicesURL, "services-url", "http://localhost:8082", "verification index service base URL")
	c.Flags().BoolVar(&dev, "dev", false, "use the static oracle and a file-backed index")
	return c
}
