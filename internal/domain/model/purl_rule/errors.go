package model

import "fmt"

// FormatError 表示映射文件格式非法，定位到具体文件和字段
type FormatError struct {
	File   string
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", e.File, e.Field, e.Reason)
}

// MissingFieldError 缺少必填字段
type MissingFieldError struct {
	File  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.File, e.Field)
}

// DuplicateMatchError 两条 exact 条目共享同一 match
type DuplicateMatchError struct {
	Namespace string
	Match     string
}

func (e *DuplicateMatchError) Error() string {
	return fmt.Sprintf("namespace %q: duplicate exact match %q", e.Namespace, e.Match)
}

// ConflictError 规则歧义：wildcard 或字面正则与 exact 条目覆盖同一路径。
// 这种歧义必须显式解决，不做静默优先级处理。
type ConflictError struct {
	Namespace string
	Match     string
	Kind      MatchKind // the non-exact kind that shadows the exact entry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("namespace %q: %s entry shadows exact match %q", e.Namespace, e.Kind, e.Match)
}

// TransportError 校验期间的网络层失败，区别于语义上的 FAIL
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
