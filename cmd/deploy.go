package cmd

import (
	"fmt"

	"go_purl_tools/internal/deploy"

	"github.com/spf13/cobra"
)

var (
	deployBuildDir   string
	deployPublishDir string
	deployBackupDir  string
	deployKeep       int
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Swap a built configuration tree into place, rotating the previous one",
	RunE: func(cmd *cobra.Command, args []string) error {
		backup, err := deploy.Publish(deployBuildDir, deployPublishDir, deployBackupDir, nil)
		if err != nil {
			return err
		}
		if backup != "" {
			fmt.Printf("previous tree backed up to %s\n", backup)
		}
		fmt.Printf("published %s\n", deployPublishDir)

		return deploy.PruneBackups(deployBackupDir, deployKeep)
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployBuildDir, "build_dir", "", "freshly built configuration tree")
	deployCmd.Flags().StringVar(&deployPublishDir, "publish_dir", "", "live configuration directory to swap into")
	deployCmd.Flags().StringVar(&deployBackupDir, "backup_dir", "", "directory receiving timestamped backups")
	deployCmd.Flags().IntVar(&deployKeep, "keep", 5, "number of backups to keep")
	_ = deployCmd.MarkFlagRequired("build_dir")
	_ = deployCmd.MarkFlagRequired("publish_dir")
	_ = deployCmd.MarkFlagRequired("backup_dir")
	rootCmd.AddCommand(deployCmd)
}
