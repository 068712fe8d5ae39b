package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "purl_tools",
	Short:         "Translate and verify persistent-URL redirect namespaces",
	Long:          "purl_tools turns per-namespace redirect mapping files into Apache RedirectMatch configuration and verifies deployed redirects over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Any failure exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
