package cmd

import (
	"context"
	"fmt"
	"time"

	"go_purl_tools/internal/domain/services"
	configs "go_purl_tools/internal/infra/config"
	"go_purl_tools/internal/infra/storage"
	"go_purl_tools/internal/watch"

	"github.com/spf13/cobra"
)

var (
	watchUpstream  string
	watchInterval  time.Duration
	watchStateFile string
	watchInputDir  string
	watchOutputDir string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll an upstream revision endpoint and retranslate on change",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.LoadPurlConfig()
		if err != nil {
			return err
		}

		watchConfig := config.WatchConfig
		if watchUpstream != "" {
			watchConfig.UpstreamURL = watchUpstream
		}
		if cmd.Flags().Changed("interval") {
			watchConfig.Interval = watchInterval
		}
		if watchStateFile != "" {
			watchConfig.StatePath = watchStateFile
		}
		if watchConfig.UpstreamURL == "" {
			return fmt.Errorf("no upstream URL; use --upstream or configure watch.upstreamUrl")
		}

		// 状态存储：配置了 Redis 用 Redis，否则本地文件
		var state storage.WatchStateStorageIface
		if config.RedisConfig != nil {
			state = storage.NewRedisStateStorage(storage.NewRedisClient(config))
		} else {
			state = storage.NewFileStateStorage(watchConfig.StatePath)
		}

		svc := services.NewTranslateService(config.TranslateConfig.PoolSize)
		onChange := func(ctx context.Context, revision string) error {
			inputs, err := collectMappings(nil, watchInputDir)
			if err != nil {
				return err
			}
			summary, err := svc.TranslateAll(ctx, inputs, watchOutputDir)
			if err != nil {
				return err
			}
			if !summary.OK() {
				return fmt.Errorf("%d namespace(s) failed to translate", len(summary.Errors))
			}
			return nil
		}

		return watch.NewWatcher(state, &watchConfig, onChange).Run(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchUpstream, "upstream", "", "URL returning the current upstream revision")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "poll interval")
	watchCmd.Flags().StringVar(&watchStateFile, "state_file", "", "local file recording the last processed revision")
	watchCmd.Flags().StringVar(&watchInputDir, "input_dir", "", "directory of mapping files to retranslate")
	watchCmd.Flags().StringVar(&watchOutputDir, "output_dir", "", "directory for generated configuration units")
	_ = watchCmd.MarkFlagRequired("input_dir")
	_ = watchCmd.MarkFlagRequired("output_dir")
	rootCmd.AddCommand(watchCmd)
}
