package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go_purl_tools/internal/domain/services"
	configs "go_purl_tools/internal/infra/config"

	"github.com/spf13/cobra"
)

var (
	translateInputFiles []string
	translateInputDir   string
	translateOutputDir  string
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate mapping files into redirect configuration units",
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := collectMappings(translateInputFiles, translateInputDir)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no mapping files given; use --input_files or --input_dir")
		}

		config, err := configs.LoadPurlConfig()
		if err != nil {
			return err
		}

		svc := services.NewTranslateService(config.TranslateConfig.PoolSize)
		summary, err := svc.TranslateAll(cmd.Context(), inputs, translateOutputDir)
		if err != nil {
			return err
		}

		for _, w := range summary.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		for _, e := range summary.Errors {
			fmt.Fprintf(os.Stderr, "%s: %v\n", e.File, e.Err)
		}

		fmt.Printf("translated %d namespace(s) into %s\n", summary.Translated, translateOutputDir)
		if !summary.OK() {
			return fmt.Errorf("%d namespace(s) failed to translate", len(summary.Errors))
		}
		return nil
	},
}

func init() {
	translateCmd.Flags().StringSliceVar(&translateInputFiles, "input_files", nil, "mapping files to translate")
	translateCmd.Flags().StringVar(&translateInputDir, "input_dir", "", "directory of mapping files (*.yml, *.yaml)")
	translateCmd.Flags().StringVar(&translateOutputDir, "output_dir", "", "directory for generated configuration units")
	_ = translateCmd.MarkFlagRequired("output_dir")
	rootCmd.AddCommand(translateCmd)
}

// collectMappings merges explicit files with a directory scan, sorted for a
// stable processing order.
func collectMappings(files []string, dir string) ([]string, error) {
	inputs := append([]string(nil), files...)
	if dir != "" {
		for _, pattern := range []string{"*.yml", "*.yaml"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
			}
			inputs = append(inputs, matches...)
		}
	}
	sort.Strings(inputs)
	return inputs, nil
}
