package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TwigBush/indexgate/internal/config"
	"github.com/TwigBush/indexgate/internal/dispatch"
)

func cmdOps() *cobra.Command {
	var remote bool

	c := &cobra.Command{
		Use:   "ops",
		Short: "List operations and the permission each one requires",
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				url := strings.TrimRight(gatewayURL, "/") + "/api/operations"
				resp, code, err := httpDoJSON(cmd.OutOrStdout(), "GET", url, nil, map[string]string{"Accept": "application/json"})
				if err != nil {
					return err
				}
				if code != 200 {
					return fmt.Errorf("GET %s: HTTP %d", url, code)
				}
				return printJSON(cmd.OutOrStdout(), resp)
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			ops := dispatch.DefaultTable(cfg.Authz.GuardDelete).Operations()
			if output != "table" {
				return writeJSON(cmd.OutOrStdout(), ops)
			}
			for _, op := range ops {
				perm := "(unguarded)"
				if op.Guarded() {
					perm = op.Permission.String()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", op.Kind, perm)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&remote, "remote", false, "ask the running gateway at --gateway-url instead of reading config")
	return c
}
