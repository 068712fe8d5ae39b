package configs

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PurlConfig 工具整体配置
type PurlConfig struct {
	Targets              TargetsConfig         `yaml:"targets"`
	TranslateConfig      TranslateConfig       `yaml:"translate"`
	ReportRepoConfig     ReportRepoConfig      `yaml:"reportRepo"`
	WatchConfig          WatchConfig           `yaml:"watch"`
	DatabaseConfig       *DatabaseConfig       `yaml:"database"`       // 可选：配置后开启报告归档
	DatabaseOptionConfig *DatabaseOptionConfig `yaml:"databaseConfig"` // 可选：连接池参数
	RedisConfig          *RedisConfig          `yaml:"redis"`          // 可选：配置后 watch 状态存 Redis
}

// TargetConfig 一个校验目标环境
type TargetConfig struct {
	Host  string        `yaml:"host"`
	Delay time.Duration `yaml:"delay"` // 请求之间的间隔，仅在两次请求之间生效
}

type TargetsConfig struct {
	Development TargetConfig `yaml:"development"`
	Production  TargetConfig `yaml:"production"`
}

// Select 按环境名取目标配置，默认 development
func (t TargetsConfig) Select(env string) TargetConfig {
	if env == "production" {
		return t.Production
	}
	return t.Development
}

// TranslateConfig 翻译流水线参数
type TranslateConfig struct {
	PoolSize int `yaml:"poolSize"` // 命名空间并行翻译的协程池大小
}

// ReportRepoConfig 封装 reportRepoImpl 的配置参数
type ReportRepoConfig struct {
	ArchiveRetryCount int           `yaml:"archiveRetryCount"`
	ArchiveRetryDelay time.Duration `yaml:"archiveRetryDelay"`
	ArchivePoolSize   int           `yaml:"archivePoolSize"`
}

// WatchConfig 安全更新轮询配置
type WatchConfig struct {
	UpstreamURL string        `yaml:"upstreamUrl"` // 返回当前上游版本号的地址
	Interval    time.Duration `yaml:"interval"`
	RetryCount  int           `yaml:"retryCount"`
	RetryDelay  time.Duration `yaml:"retryDelay"`
	StatePath   string        `yaml:"statePath"` // Redis 未配置时的本地状态文件
}

// DefaultConfig 无配置文件运行时的缺省值
func DefaultConfig() *PurlConfig {
	return &PurlConfig{
		Targets: TargetsConfig{
			Development: TargetConfig{Host: "localhost:8080", Delay: 0},
			Production:  TargetConfig{Delay: time.Second},
		},
		TranslateConfig: TranslateConfig{PoolSize: 4},
		ReportRepoConfig: ReportRepoConfig{
			ArchiveRetryCount: 3,
			ArchiveRetryDelay: 500 * time.Millisecond,
			ArchivePoolSize:   2,
		},
		WatchConfig: WatchConfig{
			Interval:   time.Minute,
			RetryCount: 3,
			RetryDelay: 2 * time.Second,
			StatePath:  "purl_watch.state",
		},
	}
}

// LoadPurlConfig 加载配置。配置文件不存在时返回缺省配置。
func LoadPurlConfig() (*PurlConfig, error) {
	configPath := getConfigPath()

	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(configFile, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// getConfigPath 获取配置文件路径
func getConfigPath() string {
	// 优先使用环境变量
	if path := os.Getenv("PURL_CONFIG_PATH"); path != "" {
		return path
	}

	env := os.Getenv("PURL_ENV")
	if env == "" {
		env = "local"
	}

	return fmt.Sprintf("purl.%s.yaml", env)
}

// validate 验证配置
func (c *PurlConfig) validate() error {
	// 生产环境强制不小于 1s 的请求间隔，避免压垮线上目标
	if c.Targets.Production.Host != "" && c.Targets.Production.Delay < time.Second {
		return fmt.Errorf("production target delay must be at least 1s, got %s", c.Targets.Production.Delay)
	}
	if c.TranslateConfig.PoolSize <= 0 {
		return fmt.Errorf("translate poolSize must be positive")
	}

	if c.DatabaseConfig != nil {
		db := c.DatabaseConfig
		if db.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if db.Port == 0 {
			return fmt.Errorf("database port is required")
		}
		if db.Username == "" {
			return fmt.Errorf("database username is required")
		}
		if db.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.ReportRepoConfig.ArchivePoolSize <= 0 {
		return fmt.Errorf("reportRepo archivePoolSize must be positive")
	}

	return nil
}
