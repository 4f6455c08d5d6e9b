package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TwigBush/indexgate/internal/authz"
	"github.com/TwigBush/indexgate/internal/config"
	"github.com/TwigBush/indexgate/internal/di"
)

type checkResult struct {
	Permission authz.Permission `json:"permission"`
	Allowed    bool             `json:"allowed"`
	Outcome    string           `json:"outcome"`
	Reason     string           `json:"reason,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// cmdCheck asks the configured oracle one question, through the same gate
// the API uses.
func cmdCheck() *cobra.Command {
	var credential string
	var permission string
	var action string
	var resource string

	c := &cobra.Command{
		Use:   "check",
		Short: "Ask the configured oracle whether a credential holds a permission",
		Example: `  indexgate check --credential "$TOKEN" --permission pricing:list
  indexgate check --credential "$TOKEN" --action RetailVerification:View --resource trn:tiki:RetailVerification:report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePermission(permission, action, resource)
			if err != nil {
				return err
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			ctx := contextOrBackground(cmd)
			a, err := di.ProvideAuthorizer(ctx, cfg.Authz)
			if err != nil {
				return err
			}

			gate := authz.NewGate(a, authz.WithTimeout(cfg.Authz.Timeout))
			d, err := gate.Check(ctx, credential, p)
			res := checkResult{Permission: p, Allowed: err == nil, Outcome: "allowed", Reason: d.Reason}
			var denied *authz.DeniedError
			switch {
			case errors.As(err, &denied):
				res.Outcome, res.Reason = "forbidden", denied.Reason
			case errors.Is(err, authz.ErrMissingCredential):
				res.Outcome, res.Error = "unauthenticated", err.Error()
			case err != nil:
				res.Outcome, res.Error = "authorization_unavailable", err.Error()
			}

			if output == "table" {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-18s %s\n", p.String(), res.Outcome, res.Reason+res.Error)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	c.Flags().StringVar(&credential, "credential", "", "caller token, sent as is")
	c.Flags().StringVar(&permission, "permission", "", "short permission name, e.g. pricing:list")
	c.Flags().StringVar(&action, "action", "", "raw action, with --resource")
	c.Flags().StringVar(&resource, "resource", "", "raw resource, with --action")
	return c
}

func resolvePermission(name, action, resource string) (authz.Permission, error) {
	if name != "" {
		p, ok := authz.LookupPermission(name)
		if !ok {
			return authz.Permission{}, fmt.Errorf("unknown permission %q, known: %v", name, authz.PermissionNames())
		}
		return p, nil
	}
	if action == "" || resource == "" {
		return authz.Permission{}, errors.New("--permission or both --action and --resource are required")
	}
	return authz.Permission{Action: action, Resource: resource}, nil
}
