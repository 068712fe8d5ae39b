package model

import (
	"fmt"
	"regexp"
	"strings"
)

// 指令序列化为 Apache mod_alias 的 RedirectMatch 方言。
// 参见 https://httpd.apache.org/docs/2.4/mod/mod_alias.html
//
// exact/wildcard 的路径会被转义为锚定的大小写不敏感正则；
// regex 条目被认为已是合法正则，原样输出，不做检查或修改。

const unitHeader = `# DO NOT EDIT THIS FILE!
# Automatically generated from "%s".
# Edit that source file then regenerate this file.

`

const indexHeader = `# Combined namespace index.
# Automatically generated. Do not edit.
`

// escapeSource 将 URL 路径转义为匹配该字符串的正则，只保留斜杠不转义
func escapeSource(s string) string {
	r := regexp.QuoteMeta(strings.TrimSpace(s))
	return strings.ReplaceAll(r, `\/`, "/")
}

// Render one directive as a RedirectMatch line.
func (d Directive) Render() string {
	status := d.Status.ApacheName()
	switch d.Kind {
	case MatchKindExact:
		return fmt.Sprintf(`RedirectMatch %s "(?i)^/%s$" "%s"`, status, escapeSource(d.Pattern), d.Target)
	case MatchKindWildcard:
		lit := wildcardLiteral(d.Pattern)
		return fmt.Sprintf(`RedirectMatch %s "(?i)^/%s(.*)$" "%s"`, status, escapeSource(lit), captureTarget(d.Target))
	case MatchKindRegex:
		return fmt.Sprintf(`RedirectMatch %s "%s" "%s"`, status, d.Pattern, d.Target)
	default:
		// 兜底指令：/prefix 与 /prefix/... 都命中，剩余部分（可为空）代入 $1
		prefix := strings.TrimSuffix(d.Pattern, "/$1")
		return fmt.Sprintf(`RedirectMatch %s "(?i)^/%s/?(.*)$" "%s"`, status, escapeSource(prefix), captureTarget(d.Target))
	}
}

// captureTarget 目标不含 $1 占位符时追加 $1，保证捕获的剩余部分总会传递
func captureTarget(target string) string {
	if strings.Contains(target, "$1") {
		return target
	}
	return target + "$1"
}

// RenderUnit renders one namespace's configuration unit.
// Output is deterministic for identical input: the directive order is fully
// determined by Resolve and nothing here iterates a map.
func RenderUnit(m *RuleModel, directives []Directive) string {
	var b strings.Builder
	fmt.Fprintf(&b, unitHeader, m.SourceFile)
	for _, d := range directives {
		b.WriteString(d.Render())
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderIndex renders the combined index unit: one block per namespace in the
// given order, holding the namespace reference and its default directive so a
// top-level server file can route bare prefixes. Rebuilt wholesale on every
// run and diffed against previous builds, so ordering must be stable.
func RenderIndex(models []*RuleModel) string {
	var b strings.Builder
	b.WriteString(indexHeader)
	for _, m := range models {
		fmt.Fprintf(&b, "\n# Namespace: %s (prefix: /%s, %d entries)\n", m.Namespace, m.Prefix, len(m.Entries))
		if m.BaseURL == "" {
			continue
		}
		d := Directive{
			Kind:    MatchKindDefault,
			Pattern: m.Prefix + "/$1",
			Target:  m.BaseURL,
			Status:  StatusPermanent,
		}
		b.WriteString(d.Render())
		b.WriteByte('\n')
	}
	return b.String()
}
