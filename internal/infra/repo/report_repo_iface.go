package repo

import (
	"context"
	model "go_purl_tools/internal/domain/model/purl_rule"
)

// ReportRepositoryIface 校验报告的落盘与归档
type ReportRepositoryIface interface {
	// SaveReport 写出一个命名空间的报告文件，并在配置了归档库时异步归档
	SaveReport(ctx context.Context, report *model.Report, outputDir string) error
	// Close 等待异步归档完成并释放协程池
	Close()
}
