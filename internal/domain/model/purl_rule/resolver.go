package model

import (
	"sort"
	"strings"
)

// Directive 可直接序列化的单条重定向指令。
// 输出顺序保证最具体的规则在前：exact → wildcard → regex → 命名空间兜底，
// 服务器按第一条命中的指令生效。
type Directive struct {
	Kind    MatchKind
	Pattern string // exact/wildcard 为带前缀的子路径，regex 为原始正则，default 为 "<prefix>/$1"
	Target  string
	Status  RedirectStatus
}

// Resolve produces the ordered directive sequence for this namespace.
//
// Ordering:
//  1. exact entries, in file order (stable, never sorted)
//  2. wildcard entries, by decreasing literal-prefix length (longer literal wins),
//     ties broken by file order
//  3. regex entries, in file order
//  4. one trailing default directive from base_url, if present
//
// A degenerate model (no entries, no base_url) resolves to zero directives;
// the caller decides whether to warn.
func (m *RuleModel) Resolve() ([]Directive, error) {
	if err := m.checkConflicts(); err != nil {
		return nil, err
	}

	var out []Directive

	for _, e := range m.Entries {
		if e.Kind == MatchKindExact {
			// exact 的模式没有捕获组，$1 在这里展开为已知的剩余路径，
			// 不能原样留给服务器（会被替换成空串）
			out = append(out, Directive{
				Kind:    MatchKindExact,
				Pattern: e.Match,
				Target:  ExpandTarget(e.Target, e.Remainder(m.Prefix)),
				Status:  e.Status,
			})
		}
	}

	wildcards := make([]Directive, 0)
	for _, e := range m.Entries {
		if e.Kind == MatchKindWildcard {
			wildcards = append(wildcards, Directive{Kind: MatchKindWildcard, Pattern: e.Match, Target: e.Target, Status: e.Status})
		}
	}
	sort.SliceStable(wildcards, func(i, j int) bool {
		return len(wildcardLiteral(wildcards[i].Pattern)) > len(wildcardLiteral(wildcards[j].Pattern))
	})
	out = append(out, wildcards...)

	for _, e := range m.Entries {
		if e.Kind == MatchKindRegex {
			out = append(out, Directive{Kind: MatchKindRegex, Pattern: e.Match, Target: e.Target, Status: e.Status})
		}
	}

	if m.BaseURL != "" {
		out = append(out, Directive{
			Kind:    MatchKindDefault,
			Pattern: m.Prefix + "/$1",
			Target:  m.BaseURL,
			Status:  StatusPermanent,
		})
	}

	return out, nil
}

// checkConflicts 检测与 exact 条目覆盖同一字面路径的歧义规则。
// wildcard 的字面前缀与某条 exact 完全相同，或正则只是某条 exact 的
// 字面拼写时，报 ConflictError 而不是静默按优先级处理。
func (m *RuleModel) checkConflicts() error {
	exact := make(map[string]bool)
	for _, e := range m.Entries {
		if e.Kind == MatchKindExact {
			exact[e.Match] = true
		}
	}
	if len(exact) == 0 {
		return nil
	}

	for _, e := range m.Entries {
		switch e.Kind {
		case MatchKindWildcard:
			// ^/<literal>(.*)$ 会以空捕获命中与 literal 完全相同的路径，
			// 与同路径的 exact 条目构成歧义；literal 更长时不冲突
			if lit := e.WildcardLiteral(); exact[lit] {
				return &ConflictError{Namespace: m.Namespace, Match: lit, Kind: MatchKindWildcard}
			}
		case MatchKindRegex:
			lit, ok := regexLiteral(e.Match)
			if ok && exact[strings.TrimPrefix(lit, "/")] {
				return &ConflictError{Namespace: m.Namespace, Match: strings.TrimPrefix(lit, "/"), Kind: MatchKindRegex}
			}
		}
	}
	return nil
}

func wildcardLiteral(pattern string) string {
	if i := strings.IndexByte(pattern, '*'); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

// regexLiteral reports whether the pattern is merely a literal path spelling:
// optional (?i) and ^...$ anchors around a (possibly escaped) literal with no
// live metacharacters. The candidate literal is recovered by unescaping and
// verified by re-quoting: a pattern that round-trips is a literal spelling.
func regexLiteral(pattern string) (string, bool) {
	p := strings.TrimPrefix(pattern, "(?i)")
	p = strings.TrimPrefix(p, "^")
	p = strings.TrimSuffix(p, "$")

	var b strings.Builder
	for i := 0; i < len(p); i++ {
		if p[i] == '\\' && i+1 < len(p) {
			i++
		}
		b.WriteByte(p[i])
	}
	candidate := b.String()

	if escapeSource(candidate) != strings.ReplaceAll(p, `\/`, "/") {
		return "", false
	}
	return candidate, true
}
