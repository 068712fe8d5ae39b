package deploy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go_purl_tools/utils"
)

const backupStampLayout = "20060102-150405"

// Publish swaps buildDir into place at publishDir.
//
// The previous publish tree, if any, is moved into backupRoot under a
// timestamped name before the swap. The final step is a single os.Rename of
// buildDir onto publishDir, which is atomic as long as both live on the same
// filesystem: readers either see the old tree or the new one, never a partial
// copy. Returns the backup path, or "" when there was nothing to back up.
func Publish(buildDir, publishDir, backupRoot string, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}

	if _, err := os.Stat(buildDir); err != nil {
		return "", fmt.Errorf("build dir not usable: %w", err)
	}

	backupPath := ""
	if _, err := os.Stat(publishDir); err == nil {
		if err := os.MkdirAll(backupRoot, 0755); err != nil {
			return "", fmt.Errorf("failed to create backup root: %w", err)
		}
		stamp := now().UTC().Format(backupStampLayout)
		backupPath = filepath.Join(backupRoot, filepath.Base(publishDir)+"-"+stamp)
		if err := os.Rename(publishDir, backupPath); err != nil {
			return "", fmt.Errorf("failed to rotate previous publish dir: %w", err)
		}
		utils.GetLogger().Infof("rotated previous publish dir to %s", backupPath)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("publish dir not usable: %w", err)
	}

	if err := os.Rename(buildDir, publishDir); err != nil {
		// 换入失败时尽量把旧目录放回去，避免窗口期没有可用配置
		if backupPath != "" {
			if restoreErr := os.Rename(backupPath, publishDir); restoreErr != nil {
				return backupPath, fmt.Errorf("failed to publish (%v) and failed to restore backup: %w", err, restoreErr)
			}
		}
		return "", fmt.Errorf("failed to publish build dir: %w", err)
	}

	return backupPath, nil
}

// PruneBackups keeps only the newest keep backups under backupRoot.
// Backup names sort chronologically because of the timestamp suffix.
func PruneBackups(backupRoot string, keep int) error {
	if keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(backupRoot)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read backup root: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		path := filepath.Join(backupRoot, name)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to prune backup %s: %w", path, err)
		}
		utils.GetLogger().Infof("pruned backup %s", path)
	}

	return nil
}
