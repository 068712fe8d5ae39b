package model

import "strings"

// RuleModel 单个命名空间的重定向规则聚合根。
// 由一个映射文件加载得到，加载后不可变，命名空间之间不共享。
type RuleModel struct {
	Namespace  string // 小写命名空间标识，取自映射文件名
	SourceFile string // 来源映射文件路径，用于生成文件头和错误信息
	Prefix     string // 路径前缀（不含前导斜杠），如 "go"
	BaseURL    string // 兜底目标模板，可含一个 $1 占位符；可为空
	Entries      []Entry
	Tests        []ExplicitTest // 映射文件中显式声明的校验用例
	ExampleTerms []string       // 样例词条 id，经兜底规则派生额外的校验探测
}

// Entry 映射中的一条规则，覆盖或扩展命名空间的默认重定向
type Entry struct {
	Match  string         // 完整子路径（含前缀，不含前导斜杠）、通配模式或正则
	Target string         // 绝对或模板化的目标 URL
	Status RedirectStatus // 重定向类型，默认 permanent
	Kind   MatchKind      // 匹配类型，默认 exact
}

// ExplicitTest 映射文件 tests 字段声明的校验用例
type ExplicitTest struct {
	Path   string         // 请求路径（含前导斜杠）
	URL    string         // 期望的重定向目标
	Status RedirectStatus // 期望的重定向类型，默认 permanent
}

// IsDegenerate reports whether the model can produce no directives at all.
// Such a namespace is surfaced as a warning, not a hard failure.
func (m *RuleModel) IsDegenerate() bool {
	return len(m.Entries) == 0 && m.BaseURL == ""
}

// WildcardLiteral 通配模式中第一个 * 之前的字面前缀；
// 模式不含 * 时整个 match 即字面前缀
func (e Entry) WildcardLiteral() string {
	if i := strings.IndexByte(e.Match, '*'); i >= 0 {
		return e.Match[:i]
	}
	return e.Match
}

// Remainder strips the namespace prefix from an exact match path.
// A match equal to the prefix itself collapses to the empty remainder.
func (e Entry) Remainder(prefix string) string {
	if e.Match == prefix {
		return ""
	}
	return strings.TrimPrefix(e.Match, prefix+"/")
}

// ExpandTarget 将捕获的剩余部分代入目标模板。
// 模板不含 $1 时原样返回；剩余为空时 $1 替换为空串，而不是保留字面量。
func ExpandTarget(target, remainder string) string {
	return strings.ReplaceAll(target, "$1", remainder)
}
