package cmd

import (
	"io"
	"os"

	"go_purl_tools/internal/migrate"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <prefix> [xml_file] [yaml_file]",
	Short: "Migrate a legacy PURL.org XML export into a mapping file",
	Long:  "Reads a PURL.org XML export (or stdin) and writes a mapping file (or stdout). The generated mapping usually needs manual cleanup.",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) >= 2 {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var out io.Writer = os.Stdout
		if len(args) >= 3 {
			f, err := os.Create(args[2])
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		return migrate.Migrate(args[0], in, out)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
