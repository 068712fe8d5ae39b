package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"go_purl_tools/internal/domain/iface"
	model "go_purl_tools/internal/domain/model/purl_rule"
	"go_purl_tools/internal/infra/checker"
	"go_purl_tools/internal/infra/repo"
	"go_purl_tools/utils"
)

// VerifyService 校验引擎：对每个用例发出一次探测并分类结果。
// 刻意串行执行并在请求之间阻塞等待，避免压垮目标主机；
// 不做自动重试，重跑整个套件就是重试机制。
type VerifyService struct {
	checker    checker.RedirectCheckerIface
	reportRepo repo.ReportRepositoryIface
	delay      time.Duration
	sleep      func(time.Duration) // 注入以便测试
}

// 确保 VerifyService 实现了 VerifyServiceIface (编译时检查)
var _ iface.VerifyServiceIface = (*VerifyService)(nil)

func NewVerifyService(ch checker.RedirectCheckerIface, reportRepo repo.ReportRepositoryIface, delay time.Duration) *VerifyService {
	return &VerifyService{
		checker:    ch,
		reportRepo: reportRepo,
		delay:      delay,
		sleep:      time.Sleep,
	}
}

// VerifyMapping replays one namespace's rules against domain.
// Transport failures become ERROR results, never an aborted run.
func (s *VerifyService) VerifyMapping(ctx context.Context, m *model.RuleModel, domain string) *model.Report {
	primed := false
	return s.verifyMapping(ctx, m, domain, &primed)
}

// primed 记录本轮运行是否已经发出过请求，跨命名空间共享：
// 延时约束的是相邻两次请求，不管它们属不属于同一个命名空间
func (s *VerifyService) verifyMapping(ctx context.Context, m *model.RuleModel, domain string, primed *bool) *model.Report {
	log := utils.GetLogger()
	report := &model.Report{Namespace: m.Namespace, Domain: domain}

	for _, tc := range m.TestCases() {
		// 延时严格加在两次请求之间，首个请求之前不等
		if *primed && s.delay > 0 {
			s.sleep(s.delay)
		}
		*primed = true

		res := model.TestResult{Case: tc}
		obs, err := s.checker.Check(ctx, domain, tc.Path)
		switch {
		case err != nil:
			res.Verdict = model.VerdictError
			res.Reason = err.Error()
		default:
			res.ObservedStatus = obs.StatusCode
			res.ObservedURL = obs.Location
			switch {
			case obs.StatusCode != tc.ExpectedStatus.Code():
				res.Verdict = model.VerdictFail
				res.Reason = fmt.Sprintf("expected status %d, got %d", tc.ExpectedStatus.Code(), obs.StatusCode)
			case obs.Location != tc.ExpectedURL:
				res.Verdict = model.VerdictFail
				res.Reason = fmt.Sprintf("expected target %q, got %q", tc.ExpectedURL, obs.Location)
			default:
				res.Verdict = model.VerdictPass
			}
		}

		log.Debugf("checked %s%s: %s", domain, tc.Path, res.Verdict)
		report.Add(res)
	}

	return report
}

// VerifyAll verifies every supplied mapping file and writes one report per
// namespace. Parse failures are recorded per namespace; the run continues.
func (s *VerifyService) VerifyAll(ctx context.Context, files []string, domain, outputDir string) (*model.VerifySummary, error) {
	summary := &model.VerifySummary{}
	primed := false

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		data, err := os.ReadFile(file)
		if err != nil {
			summary.Errors = append(summary.Errors, model.NamespaceError{File: file, Err: err})
			continue
		}

		m, err := model.ParseMapping(file, data)
		if err != nil {
			summary.Errors = append(summary.Errors, model.NamespaceError{File: file, Err: err})
			continue
		}

		report := s.verifyMapping(ctx, m, domain, &primed)
		if err := s.reportRepo.SaveReport(ctx, report, outputDir); err != nil {
			return summary, fmt.Errorf("failed to save report for %s: %w", m.Namespace, err)
		}

		summary.Reports = append(summary.Reports, report)
	}

	return summary, nil
}
