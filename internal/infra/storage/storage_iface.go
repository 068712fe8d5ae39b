package storage

import (
	"context"
	model "go_purl_tools/internal/domain/model/purl_rule"
)

// MySQLReportStorageIface 校验报告归档存储接口
type MySQLReportStorageIface interface {
	SaveReportToDB(ctx context.Context, record *model.ReportRecord) error
	ListReportsFromDB(ctx context.Context, namespace string, limit int) ([]*model.ReportRecord, error)
}

// WatchStateStorageIface 安全更新轮询的状态存储：记录最近一次处理过的上游版本
type WatchStateStorageIface interface {
	GetLastRevision(ctx context.Context) (string, error)
	SetLastRevision(ctx context.Context, revision string) error
}
