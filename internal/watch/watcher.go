// Package watch implements the safe-update poller: it watches an upstream
// revision endpoint and triggers a rebuild whenever the revision changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	configs "go_purl_tools/internal/infra/config"
	"go_purl_tools/internal/infra/storage"
	"go_purl_tools/utils"

	"github.com/avast/retry-go/v4"
)

// Watcher 轮询上游版本，与状态存储中记录的版本比较，
// 变化时执行 onChange 并推进水位。onChange 失败时不推进，下轮重试。
type Watcher struct {
	state    storage.WatchStateStorageIface
	client   *http.Client
	config   *configs.WatchConfig
	onChange func(ctx context.Context, revision string) error
}

func NewWatcher(state storage.WatchStateStorageIface, config *configs.WatchConfig, onChange func(ctx context.Context, revision string) error) *Watcher {
	return &Watcher{
		state:    state,
		client:   &http.Client{Timeout: 30 * time.Second},
		config:   config,
		onChange: onChange,
	}
}

// Poll performs one poll cycle. Returns the upstream revision and whether a
// rebuild was triggered.
func (w *Watcher) Poll(ctx context.Context) (revision string, changed bool, err error) {
	revision, err = w.fetchRevision(ctx)
	if err != nil {
		return "", false, err
	}

	last, err := w.state.GetLastRevision(ctx)
	if err != nil {
		return revision, false, err
	}
	if revision == last {
		return revision, false, nil
	}

	utils.GetLogger().Infof("upstream revision changed: %q -> %q", last, revision)
	if err := w.onChange(ctx, revision); err != nil {
		return revision, false, fmt.Errorf("rebuild for revision %s failed: %w", revision, err)
	}

	if err := w.state.SetLastRevision(ctx, revision); err != nil {
		return revision, true, err
	}
	return revision, true, nil
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	log := utils.GetLogger()
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		if _, _, err := w.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// 单轮失败只记日志，轮询继续
			log.Warnf("poll failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// fetchRevision 拉取上游版本号，带重试退避
func (w *Watcher) fetchRevision(ctx context.Context) (string, error) {
	var revision string
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.config.UpstreamURL, nil)
			if err != nil {
				return err
			}
			resp, err := w.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("upstream returned status %d", resp.StatusCode)
			}
			body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
			if err != nil {
				return err
			}
			revision = strings.TrimSpace(string(body))
			if revision == "" {
				return fmt.Errorf("upstream returned empty revision")
			}
			return nil
		},
		retry.Attempts(uint(w.config.RetryCount)),
		retry.Delay(w.config.RetryDelay),
		retry.Context(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("failed to fetch upstream revision: %w", err)
	}
	return revision, nil
}
