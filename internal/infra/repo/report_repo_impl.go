package repo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	model "go_purl_tools/internal/domain/model/purl_rule"
	configs "go_purl_tools/internal/infra/config"
	"go_purl_tools/internal/infra/storage"
	"go_purl_tools/utils"

	"github.com/avast/retry-go/v4"
	"github.com/panjf2000/ants/v2"
	"gopkg.in/yaml.v3"
)

// reportRepoImpl 实现 ReportRepositoryIface：报告文件是权威输出，
// MySQL 归档是可选的、异步的，归档失败只记日志不影响本次运行
type reportRepoImpl struct {
	archiveStorage storage.MySQLReportStorageIface // 可为 nil：未配置归档库
	config         *configs.ReportRepoConfig
	taskPool       *ants.Pool
	wg             sync.WaitGroup
}

// 确保 reportRepoImpl 实现了 ReportRepositoryIface (编译时检查)
var _ ReportRepositoryIface = (*reportRepoImpl)(nil)

func NewReportRepoConfig(c *configs.PurlConfig) *configs.ReportRepoConfig {
	return &c.ReportRepoConfig
}

func NewReportRepoImpl(archiveStorage storage.MySQLReportStorageIface, config *configs.ReportRepoConfig) ReportRepositoryIface {
	taskPool, err := ants.NewPool(config.ArchivePoolSize)
	if err != nil {
		panic(fmt.Errorf("failed to create ants pool: %w", err))
	}

	return &reportRepoImpl{
		archiveStorage: archiveStorage,
		config:         config,
		taskPool:       taskPool,
	}
}

func (r *reportRepoImpl) SaveReport(ctx context.Context, report *model.Report, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report for %s: %w", report.Namespace, err)
	}

	path := filepath.Join(outputDir, report.Namespace+".yml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}

	if r.archiveStorage != nil {
		r.submitArchive(ctx, report)
	}

	return nil
}

// submitArchive 通过协程池异步归档，带重试
func (r *reportRepoImpl) submitArchive(ctx context.Context, report *model.Report) {
	record, err := model.NewReportRecord(report)
	if err != nil {
		utils.GetLogger().Warnf("failed to build archive record for %s: %v", report.Namespace, err)
		return
	}

	r.wg.Add(1)
	if err := r.taskPool.Submit(func() {
		defer r.wg.Done()
		err := retry.Do(
			func() error {
				return r.archiveStorage.SaveReportToDB(ctx, record)
			},
			retry.Attempts(uint(r.config.ArchiveRetryCount)),
			retry.Delay(r.config.ArchiveRetryDelay),
			retry.Context(ctx),
		)
		if err != nil {
			utils.GetLogger().Warnf("failed to archive report for %s: %v", report.Namespace, err)
		}
	}); err != nil {
		r.wg.Done()
		utils.GetLogger().Warnf("failed to submit archive task: %v", err)
	}
}

func (r *reportRepoImpl) Close() {
	r.wg.Wait()
	r.taskPool.Release()
}
