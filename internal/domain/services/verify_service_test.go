package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	model "go_purl_tools/internal/domain/model/purl_rule"
	"go_purl_tools/internal/infra/checker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChecker 按路径返回预置的探测结果
type fakeChecker struct {
	responses map[string]*checker.Observation
	errs      map[string]error
	paths     []string
}

func (f *fakeChecker) Check(_ context.Context, _ string, path string) (*checker.Observation, error) {
	f.paths = append(f.paths, path)
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	if obs := f.responses[path]; obs != nil {
		return obs, nil
	}
	return &checker.Observation{StatusCode: 404}, nil
}

// fakeReportRepo 把报告留在内存里
type fakeReportRepo struct {
	saved   []*model.Report
	saveErr error
}

func (f *fakeReportRepo) SaveReport(_ context.Context, report *model.Report, _ string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, report)
	return nil
}

func (f *fakeReportRepo) Close() {}

func verifyModel() *model.RuleModel {
	return &model.RuleModel{
		Namespace: "go",
		Prefix:    "go",
		Entries: []model.Entry{
			{Match: "go/pass", Target: "http://example.org/pass", Kind: model.MatchKindExact, Status: model.StatusPermanent},
			{Match: "go/wrong-status", Target: "http://example.org/ws", Kind: model.MatchKindExact, Status: model.StatusPermanent},
			{Match: "go/wrong-target", Target: "http://example.org/wt", Kind: model.MatchKindExact, Status: model.StatusPermanent},
			{Match: "go/down", Target: "http://example.org/down", Kind: model.MatchKindExact, Status: model.StatusPermanent},
		},
	}
}

func TestVerifyMappingClassification(t *testing.T) {
	ch := &fakeChecker{
		responses: map[string]*checker.Observation{
			"/go/pass":         {StatusCode: 301, Location: "http://example.org/pass"},
			"/go/wrong-status": {StatusCode: 302, Location: "http://example.org/ws"},
			"/go/wrong-target": {StatusCode: 301, Location: "http://example.org/elsewhere"},
		},
		errs: map[string]error{
			"/go/down": &model.TransportError{URL: "http://x/go/down", Err: errors.New("connection refused")},
		},
	}
	svc := NewVerifyService(ch, &fakeReportRepo{}, 0)

	report := svc.VerifyMapping(context.Background(), verifyModel(), "example.net")

	require.Len(t, report.Results, 4)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 1, report.Errored)
	assert.False(t, report.Clean())

	assert.Equal(t, model.VerdictPass, report.Results[0].Verdict)
	assert.Equal(t, model.VerdictFail, report.Results[1].Verdict)
	assert.Contains(t, report.Results[1].Reason, "expected status 301, got 302")
	assert.Equal(t, model.VerdictFail, report.Results[2].Verdict)
	assert.Contains(t, report.Results[2].Reason, `"http://example.org/elsewhere"`)
	assert.Equal(t, model.VerdictError, report.Results[3].Verdict)
	assert.Contains(t, report.Results[3].Reason, "connection refused")
}

func TestVerifyMappingDelayBetweenRequests(t *testing.T) {
	ch := &fakeChecker{responses: map[string]*checker.Observation{}}
	svc := NewVerifyService(ch, &fakeReportRepo{}, time.Second)

	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }

	svc.VerifyMapping(context.Background(), verifyModel(), "example.net")

	// 4 个用例只等 3 次：延时加在两次请求之间，首个请求之前不等
	require.Len(t, ch.paths, 4)
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, slept)
}

func TestVerifyAllDelaySpansNamespaces(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "go.yml")
	require.NoError(t, os.WriteFile(first, []byte(`
prefix: go
entries:
- match: go/foo
  target: http://example.org/foo
`), 0644))
	second := filepath.Join(dir, "obo.yml")
	require.NoError(t, os.WriteFile(second, []byte(`
prefix: obo
entries:
- match: obo/bar
  target: http://example.org/bar
`), 0644))

	ch := &fakeChecker{responses: map[string]*checker.Observation{}}
	svc := NewVerifyService(ch, &fakeReportRepo{}, time.Second)

	var slept int
	svc.sleep = func(time.Duration) { slept++ }

	_, err := svc.VerifyAll(context.Background(), []string{first, second}, "example.net", dir)
	require.NoError(t, err)

	// 两个命名空间各一个用例：唯一的延时落在跨命名空间的两次请求之间
	require.Len(t, ch.paths, 2)
	assert.Equal(t, 1, slept)
}

func TestVerifyMappingZeroDelayNeverSleeps(t *testing.T) {
	ch := &fakeChecker{responses: map[string]*checker.Observation{}}
	svc := NewVerifyService(ch, &fakeReportRepo{}, 0)

	svc.sleep = func(time.Duration) { t.Fatal("sleep must not be called with zero delay") }

	svc.VerifyMapping(context.Background(), verifyModel(), "example.net")
}

func TestVerifyAll(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "go.yml")
	require.NoError(t, os.WriteFile(good, []byte(`
prefix: go
entries:
- match: go/foo
  target: http://example.org/foo
`), 0644))
	bad := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(bad, []byte("entries: []\n"), 0644))

	ch := &fakeChecker{
		responses: map[string]*checker.Observation{},
	}
	repo := &fakeReportRepo{}
	svc := NewVerifyService(ch, repo, 0)

	summary, err := svc.VerifyAll(context.Background(), []string{good, bad}, "example.net", dir)
	require.NoError(t, err)

	require.Len(t, summary.Reports, 1)
	assert.Equal(t, "go", summary.Reports[0].Namespace)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, bad, summary.Errors[0].File)
	assert.False(t, summary.AllPassed())
	require.Len(t, repo.saved, 1)
}

func TestVerifyAllSaveFailureAborts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "go.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
prefix: go
base_url: http://example.org/$1
`), 0644))

	repo := &fakeReportRepo{saveErr: errors.New("disk full")}
	svc := NewVerifyService(&fakeChecker{}, repo, 0)

	_, err := svc.VerifyAll(context.Background(), []string{file}, "example.net", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
