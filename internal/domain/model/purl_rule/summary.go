package model

// NamespaceError 某个命名空间处理失败的记录。
// 单个命名空间失败不阻断其余命名空间，最终汇总为非零退出。
type NamespaceError struct {
	Namespace string
	File      string
	Err       error
}

// TranslateSummary 一次翻译运行的汇总
type TranslateSummary struct {
	Translated int      // 成功产出配置单元的命名空间数
	Warnings   []string // 退化命名空间等非致命问题
	Errors     []NamespaceError
}

func (s *TranslateSummary) OK() bool {
	return len(s.Errors) == 0
}

// VerifySummary 一次校验运行的汇总
type VerifySummary struct {
	Reports []*Report
	Errors  []NamespaceError // 解析失败、读取失败等
}

// AllPassed reports whether every namespace parsed and every case passed.
func (s *VerifySummary) AllPassed() bool {
	if len(s.Errors) > 0 {
		return false
	}
	for _, r := range s.Reports {
		if !r.Clean() {
			return false
		}
	}
	return true
}
