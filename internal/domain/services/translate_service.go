package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go_purl_tools/internal/domain/iface"
	model "go_purl_tools/internal/domain/model/purl_rule"
	"go_purl_tools/utils"

	"golang.org/x/sync/errgroup"
)

// TranslateService 翻译流水线：解析 → 解析规则 → 序列化，逐命名空间独立。
// 命名空间之间无共享可变状态，可以安全并行；唯一的共享产物是
// 组合索引单元，必须等所有单元就绪后再组装。
type TranslateService struct {
	poolSize int
}

// 确保 TranslateService 实现了 TranslateServiceIface (编译时检查)
var _ iface.TranslateServiceIface = (*TranslateService)(nil)

func NewTranslateService(poolSize int) *TranslateService {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &TranslateService{poolSize: poolSize}
}

type translateResult struct {
	m    *model.RuleModel
	unit string
	err  error
}

// TranslateAll translates every mapping file into a per-namespace unit under
// outputDir plus one combined index unit. A failing namespace is recorded and
// skipped; the others continue. The returned summary carries all per-namespace
// errors; the error return is reserved for infrastructure failures.
func (s *TranslateService) TranslateAll(ctx context.Context, inputs []string, outputDir string) (*model.TranslateSummary, error) {
	log := utils.GetLogger()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	results := make([]translateResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.poolSize)
	for i, file := range inputs {
		i, file := i, file
		g.Go(func() error {
			results[i] = s.translateOne(ctx, file)
			return nil
		})
	}
	// join point：所有命名空间单元就绪后才能组装索引
	_ = g.Wait()

	summary := &model.TranslateSummary{}
	var models []*model.RuleModel

	for i, r := range results {
		if r.err != nil {
			namespace := ""
			if r.m != nil {
				namespace = r.m.Namespace
			}
			summary.Errors = append(summary.Errors, model.NamespaceError{
				Namespace: namespace,
				File:      inputs[i],
				Err:       r.err,
			})
			continue
		}

		if r.m.IsDegenerate() {
			warning := fmt.Sprintf("namespace %q has no entries and no base_url; emitting empty unit", r.m.Namespace)
			log.Warn(warning)
			summary.Warnings = append(summary.Warnings, warning)
		}

		unitPath := filepath.Join(outputDir, r.m.Namespace+".htaccess")
		if err := os.WriteFile(unitPath, []byte(r.unit), 0644); err != nil {
			return nil, fmt.Errorf("failed to write unit for %s: %w", r.m.Namespace, err)
		}

		summary.Translated++
		models = append(models, r.m)
	}

	// 索引按命名空间名排序，保证与上次构建可 diff
	sort.Slice(models, func(i, j int) bool { return models[i].Namespace < models[j].Namespace })

	indexPath := filepath.Join(outputDir, "index.htaccess")
	if err := os.WriteFile(indexPath, []byte(model.RenderIndex(models)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write index unit: %w", err)
	}

	return summary, nil
}

func (s *TranslateService) translateOne(ctx context.Context, file string) translateResult {
	if err := ctx.Err(); err != nil {
		return translateResult{err: err}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return translateResult{err: fmt.Errorf("failed to read mapping: %w", err)}
	}

	m, err := model.ParseMapping(file, data)
	if err != nil {
		return translateResult{err: err}
	}

	directives, err := m.Resolve()
	if err != nil {
		return translateResult{m: m, err: err}
	}

	return translateResult{m: m, unit: model.RenderUnit(m, directives)}
}
