package model

import "net/http"

// MatchKind 匹配类型
type MatchKind string

const (
	MatchKindExact    MatchKind = "exact"    // 精确路径匹配
	MatchKindWildcard MatchKind = "wildcard" // 前缀通配匹配，捕获剩余部分
	MatchKindRegex    MatchKind = "regex"    // 原样使用的正则规则

	// MatchKindDefault marks the trailing namespace fall-through directive.
	// It is never a valid Entry kind, only a Directive kind.
	MatchKindDefault MatchKind = "default"
)

func (k MatchKind) IsValid() bool {
	switch k {
	case MatchKindExact, MatchKindWildcard, MatchKindRegex:
		return true
	default:
		return false
	}
}

func (k MatchKind) String() string {
	return string(k)
}

// RedirectStatus 重定向类型
type RedirectStatus string

const (
	StatusPermanent RedirectStatus = "permanent"
	StatusTemporary RedirectStatus = "temporary"
	StatusSeeOther  RedirectStatus = "see other"
)

func (s RedirectStatus) IsValid() bool {
	switch s {
	case StatusPermanent, StatusTemporary, StatusSeeOther:
		return true
	default:
		return false
	}
}

// Code HTTP 状态码
func (s RedirectStatus) Code() int {
	switch s {
	case StatusTemporary:
		return http.StatusFound
	case StatusSeeOther:
		return http.StatusSeeOther
	default:
		return http.StatusMovedPermanently
	}
}

// ApacheName mod_alias 使用的状态名
func (s RedirectStatus) ApacheName() string {
	switch s {
	case StatusTemporary:
		return "temp"
	case StatusSeeOther:
		return "seeother"
	default:
		return "permanent"
	}
}

func (s RedirectStatus) String() string {
	return string(s)
}

// Verdict is the terminal classification of one verification case.
// PENDING is implicit: a case without a result has not been checked yet.
type Verdict string

const (
	VerdictPass  Verdict = "PASS"
	VerdictFail  Verdict = "FAIL"  // 响应正常但目标或状态码不符
	VerdictError Verdict = "ERROR" // 传输层失败（连接、超时等）
)

func (v Verdict) String() string {
	return string(v)
}
