package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileStateStorageImpl Redis 未配置时的本地状态文件实现
type fileStateStorageImpl struct {
	path string
}

func NewFileStateStorage(path string) WatchStateStorageIface {
	return &fileStateStorageImpl{path: path}
}

var _ WatchStateStorageIface = (*fileStateStorageImpl)(nil)

func (f *fileStateStorageImpl) GetLastRevision(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil // 尚未记录过版本
	}
	if err != nil {
		return "", fmt.Errorf("failed to read state file %s: %w", f.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *fileStateStorageImpl) SetLastRevision(ctx context.Context, revision string) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, []byte(revision+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", f.path, err)
	}
	return nil
}
