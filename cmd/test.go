package cmd

import (
	"fmt"
	"os"
	"time"

	"go_purl_tools/internal/domain/services"
	"go_purl_tools/internal/infra/checker"
	configs "go_purl_tools/internal/infra/config"
	"go_purl_tools/internal/infra/repo"
	"go_purl_tools/internal/infra/storage"

	"github.com/spf13/cobra"
)

var (
	testDelay     float64
	testOutputDir string
	testDomain    string
	testEnv       string
)

var testCmd = &cobra.Command{
	Use:   "test [mapping files...]",
	Short: "Verify deployed redirects against a target host",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.LoadPurlConfig()
		if err != nil {
			return err
		}

		target := config.Targets.Select(testEnv)
		domain := testDomain
		if domain == "" {
			domain = target.Host
		}
		if domain == "" {
			return fmt.Errorf("no target host; use --domain or configure targets.%s.host", testEnv)
		}

		delay := target.Delay
		if cmd.Flags().Changed("delay") {
			delay = time.Duration(testDelay * float64(time.Second))
		}

		// 归档库是可选的：未配置数据库时报告只落盘
		var archive storage.MySQLReportStorageIface
		if config.DatabaseConfig != nil {
			archive = storage.NewMysqlReportStorage(storage.NewMySQLClient(config))
		}
		reportRepo := repo.NewReportRepoImpl(archive, repo.NewReportRepoConfig(config))
		defer reportRepo.Close()

		svc := services.NewVerifyService(checker.NewHTTPChecker(30*time.Second), reportRepo, delay)
		summary, err := svc.VerifyAll(cmd.Context(), args, domain, testOutputDir)
		if err != nil {
			return err
		}

		for _, e := range summary.Errors {
			fmt.Fprintf(os.Stderr, "%s: %v\n", e.File, e.Err)
		}

		totalPass, totalFail, totalErr := 0, 0, 0
		for _, r := range summary.Reports {
			fmt.Printf("%s: %d passed, %d failed, %d errors\n", r.Namespace, r.Passed, r.Failed, r.Errored)
			totalPass += r.Passed
			totalFail += r.Failed
			totalErr += r.Errored
		}
		fmt.Printf("total: %d passed, %d failed, %d errors\n", totalPass, totalFail, totalErr)

		if !summary.AllPassed() {
			return fmt.Errorf("verification failed")
		}
		return nil
	},
}

func init() {
	testCmd.Flags().Float64Var(&testDelay, "delay", 0, "seconds to wait between requests (overrides the target's configured delay)")
	testCmd.Flags().StringVar(&testOutputDir, "output", "reports", "directory for per-namespace report files")
	testCmd.Flags().StringVar(&testDomain, "domain", "", "target host to verify against (overrides the configured target)")
	testCmd.Flags().StringVar(&testEnv, "env", "development", "target environment: development or production")
	rootCmd.AddCommand(testCmd)
}
