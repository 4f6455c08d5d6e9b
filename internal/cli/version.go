package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TwigBush/indexgate/internal/version"
)

func cmdVersion() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case output == "json" && verbose:
				return writeJSON(cmd.OutOrStdout(), version.Get())
			case verbose:
				fmt.Fprintln(cmd.OutOrStdout(), version.Verbose())
			default:
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed version information")

	return cmd
}
