package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectMappings(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.yml", "alpha.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	inputs, err := collectMappings([]string{"extra.yml"}, dir)
	require.NoError(t, err)

	// 显式文件与目录扫描合并后排序，忽略非 YAML 文件；
	// 临时目录是绝对路径，排在相对路径 extra.yml 前面
	assert.Equal(t, []string{
		filepath.Join(dir, "alpha.yaml"),
		filepath.Join(dir, "zeta.yml"),
		"extra.yml",
	}, inputs)
}

func TestCollectMappingsNoDir(t *testing.T) {
	inputs, err := collectMappings([]string{"b.yml", "a.yml"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yml", "b.yml"}, inputs)
}
