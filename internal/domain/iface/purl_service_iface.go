package iface

import (
	"context"
	model "go_purl_tools/internal/domain/model/purl_rule"
)

// TranslateServiceIface 翻译服务接口
type TranslateServiceIface interface {
	// TranslateAll 将映射文件翻译为配置单元并写入 outputDir，最后组装索引单元
	TranslateAll(ctx context.Context, inputs []string, outputDir string) (*model.TranslateSummary, error)
}

// VerifyServiceIface 校验服务接口
type VerifyServiceIface interface {
	// VerifyMapping 对单个命名空间回放规则并分类每个用例
	VerifyMapping(ctx context.Context, m *model.RuleModel, domain string) *model.Report
	// VerifyAll 校验多个映射文件并为每个命名空间写出报告
	VerifyAll(ctx context.Context, files []string, domain, outputDir string) (*model.VerifySummary, error)
}
