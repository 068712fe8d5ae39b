package model

import "strings"

// wildcardProbe 为通配条目生成探测路径所用的剩余部分样本
const wildcardProbe = "test"

// TestCase 由一条规则派生出的校验用例。
// 每次校验运行都从当前映射文件重新生成，从不跨运行持久化。
type TestCase struct {
	Namespace      string         `yaml:"namespace"`
	Path           string         `yaml:"path"`
	ExpectedURL    string         `yaml:"expected_url"`
	ExpectedStatus RedirectStatus `yaml:"expected_status"`
}

// TestResult 单个用例的终态：PENDING → {PASS, FAIL, ERROR}
type TestResult struct {
	Case           TestCase `yaml:"case"`
	ObservedStatus int      `yaml:"observed_status,omitempty"`
	ObservedURL    string   `yaml:"observed_url,omitempty"`
	Verdict        Verdict  `yaml:"verdict"`
	Reason         string   `yaml:"reason,omitempty"`
}

// Report 一个命名空间一次校验运行的结果集
type Report struct {
	Namespace string       `yaml:"namespace"`
	Domain    string       `yaml:"domain"`
	Passed    int          `yaml:"passed"`
	Failed    int          `yaml:"failed"`
	Errored   int          `yaml:"errored"`
	Results   []TestResult `yaml:"results"`
}

// Add appends a result and updates the verdict counters.
func (r *Report) Add(res TestResult) {
	switch res.Verdict {
	case VerdictPass:
		r.Passed++
	case VerdictFail:
		r.Failed++
	default:
		r.Errored++
	}
	r.Results = append(r.Results, res)
}

// Clean reports whether every case passed.
func (r *Report) Clean() bool {
	return r.Failed == 0 && r.Errored == 0
}

// TestCases derives the verification cases for this mapping.
//
// Explicit tests from the mapping file come first and win over derived cases
// for the same request path, followed by example-term probes through the
// namespace default rule. Exact entries probe their own path; wildcard
// entries probe their literal prefix plus a sample remainder, substituted into
// the target. Regex entries cannot yield a concrete probe and are skipped.
func (m *RuleModel) TestCases() []TestCase {
	var cases []TestCase
	covered := make(map[string]bool)

	for _, t := range m.Tests {
		cases = append(cases, TestCase{
			Namespace:      m.Namespace,
			Path:           t.Path,
			ExpectedURL:    t.URL,
			ExpectedStatus: t.Status,
		})
		covered[t.Path] = true
	}

	exactPaths := make(map[string]bool)
	for _, e := range m.Entries {
		if e.Kind == MatchKindExact {
			exactPaths["/"+e.Match] = true
		}
	}

	// 样例词条走兜底规则：词条即捕获的剩余部分；无 base_url 时无从派生。
	// 路径被某条 exact 覆盖的词条交给该条目自己的探测，避免期望错配
	if m.BaseURL != "" {
		for _, term := range m.ExampleTerms {
			path := "/" + m.Prefix + "/" + term
			if covered[path] || exactPaths[path] {
				continue
			}
			covered[path] = true
			cases = append(cases, TestCase{
				Namespace:      m.Namespace,
				Path:           path,
				ExpectedURL:    ExpandTarget(captureTarget(m.BaseURL), term),
				ExpectedStatus: StatusPermanent,
			})
		}
	}

	for _, e := range m.Entries {
		var tc TestCase
		switch e.Kind {
		case MatchKindExact:
			tc = TestCase{
				Namespace:      m.Namespace,
				Path:           "/" + e.Match,
				ExpectedURL:    ExpandTarget(e.Target, e.Remainder(m.Prefix)),
				ExpectedStatus: e.Status,
			}
		case MatchKindWildcard:
			lit := e.WildcardLiteral()
			path := "/" + lit + wildcardProbe
			if !strings.HasSuffix(lit, "/") {
				path = "/" + lit + "/" + wildcardProbe
			}
			// the serialized pattern is ^/<literal>(.*)$ so the captured
			// remainder keeps any separator slash the literal lacks
			remainder := strings.TrimPrefix(path, "/"+lit)
			tc = TestCase{
				Namespace:      m.Namespace,
				Path:           path,
				ExpectedURL:    ExpandTarget(captureTarget(e.Target), remainder),
				ExpectedStatus: e.Status,
			}
		default:
			continue
		}
		if covered[tc.Path] {
			continue
		}
		covered[tc.Path] = true
		cases = append(cases, tc)
	}

	return cases
}
