package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "purl.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PURL_CONFIG_PATH", path)
}

func TestLoadPurlConfigDefaultsWhenFileAbsent(t *testing.T) {
	t.Setenv("PURL_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	config, err := LoadPurlConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", config.Targets.Development.Host)
	assert.Equal(t, time.Duration(0), config.Targets.Development.Delay)
	assert.Equal(t, time.Second, config.Targets.Production.Delay)
	assert.Equal(t, 4, config.TranslateConfig.PoolSize)
	assert.Equal(t, 2, config.ReportRepoConfig.ArchivePoolSize)
	assert.Nil(t, config.DatabaseConfig)
	assert.Nil(t, config.RedisConfig)
}

func TestLoadPurlConfigOverridesDefaults(t *testing.T) {
	writeConfig(t, `
targets:
  production:
    host: purl.example.org
    delay: 2s
translate:
  poolSize: 8
`)

	config, err := LoadPurlConfig()
	require.NoError(t, err)

	assert.Equal(t, "purl.example.org", config.Targets.Production.Host)
	assert.Equal(t, 2*time.Second, config.Targets.Production.Delay)
	assert.Equal(t, 8, config.TranslateConfig.PoolSize)
	// 未覆盖的字段保留缺省值
	assert.Equal(t, "localhost:8080", config.Targets.Development.Host)
}

func TestLoadPurlConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "production delay below minimum",
			content: `
targets:
  production:
    host: purl.example.org
    delay: 100ms
`,
			wantErr: "production target delay must be at least 1s",
		},
		{
			name: "zero pool size",
			content: `
translate:
  poolSize: 0
`,
			wantErr: "poolSize must be positive",
		},
		{
			name: "database missing host",
			content: `
database:
  port: 3306
  username: purl
  database: purl_reports
`,
			wantErr: "database host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)

			_, err := LoadPurlConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTargetsSelect(t *testing.T) {
	targets := TargetsConfig{
		Development: TargetConfig{Host: "localhost:8080"},
		Production:  TargetConfig{Host: "purl.example.org", Delay: time.Second},
	}

	assert.Equal(t, "purl.example.org", targets.Select("production").Host)
	assert.Equal(t, "localhost:8080", targets.Select("development").Host)
	// 未知环境名回落到 development
	assert.Equal(t, "localhost:8080", targets.Select("staging").Host)
}
