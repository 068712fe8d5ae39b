package deploy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func fixedClock(stamp string) func() time.Time {
	ts, err := time.Parse(backupStampLayout, stamp)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

func TestPublishFirstDeploy(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	publishDir := filepath.Join(root, "live")
	backupRoot := filepath.Join(root, "backups")
	writeTree(t, buildDir, map[string]string{"go.htaccess": "new"})

	backup, err := Publish(buildDir, publishDir, backupRoot, fixedClock("20260101-120000"))
	require.NoError(t, err)

	// 首次发布没有旧目录可备份
	assert.Empty(t, backup)
	data, err := os.ReadFile(filepath.Join(publishDir, "go.htaccess"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	// 构建目录被整体换入，原位置不再存在
	_, err = os.Stat(buildDir)
	assert.True(t, os.IsNotExist(err))
}

func TestPublishRotatesPreviousTree(t *testing.T) {
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	publishDir := filepath.Join(root, "live")
	backupRoot := filepath.Join(root, "backups")
	writeTree(t, buildDir, map[string]string{"go.htaccess": "new"})
	writeTree(t, publishDir, map[string]string{"go.htaccess": "old"})

	backup, err := Publish(buildDir, publishDir, backupRoot, fixedClock("20260101-120000"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(backupRoot, "live-20260101-120000"), backup)

	old, err := os.ReadFile(filepath.Join(backup, "go.htaccess"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))

	live, err := os.ReadFile(filepath.Join(publishDir, "go.htaccess"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(live))
}

func TestPublishMissingBuildDir(t *testing.T) {
	root := t.TempDir()

	_, err := Publish(filepath.Join(root, "nope"), filepath.Join(root, "live"), filepath.Join(root, "backups"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build dir not usable")
}

func TestPruneBackups(t *testing.T) {
	backupRoot := t.TempDir()
	for _, stamp := range []string{"20260101-090000", "20260101-100000", "20260101-110000", "20260101-120000"} {
		writeTree(t, filepath.Join(backupRoot, "live-"+stamp), map[string]string{"go.htaccess": stamp})
	}

	require.NoError(t, PruneBackups(backupRoot, 2))

	entries, err := os.ReadDir(backupRoot)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// 时间戳后缀保证字典序即时间序，留下的是最新的两个
	assert.Equal(t, "live-20260101-110000", entries[0].Name())
	assert.Equal(t, "live-20260101-120000", entries[1].Name())
}

func TestPruneBackupsKeepAll(t *testing.T) {
	backupRoot := t.TempDir()
	writeTree(t, filepath.Join(backupRoot, "live-20260101-090000"), map[string]string{"f": "x"})

	require.NoError(t, PruneBackups(backupRoot, 5))

	entries, err := os.ReadDir(backupRoot)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPruneBackupsMissingRoot(t *testing.T) {
	assert.NoError(t, PruneBackups(filepath.Join(t.TempDir(), "absent"), 3))
}
