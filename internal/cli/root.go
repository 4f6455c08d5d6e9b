package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TwigBush/indexgate/internal/config"
)

var (
	output     string
	showCurl   bool
	gatewayURL string
	cfgPath    string
)

var rootCmd = &cobra.Command{
	Use:   "indexgate",
	Short: "Authorization gateway for the retail verification index",
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format: json|table")
	rootCmd.PersistentFlags().BoolVar(&showCurl, "show-curl", false, "print equivalent curl for networked commands")
	rootCmd.PersistentFlags().StringVar(&gatewayURL, "gateway-url", "http://localhost:8080", "running gateway base URL")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")

	rootCmd.AddCommand(cmdInit(), cmdServe(), cmdCheck(), cmdOps(), cmdVersion())

	// Friendly hint on no args
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "Show help",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().Help()
		},
	})
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "Use -h for help, for example: indexgate serve --config ./indexgate.yaml")
	}
}
