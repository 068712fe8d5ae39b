package model

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// mappingFile 映射文件的 YAML 结构。未知的顶层键忽略，保证向前兼容。
type mappingFile struct {
	Prefix       string     `yaml:"prefix"`
	BaseURL      string     `yaml:"base_url"`
	Entries      []entryDTO `yaml:"entries"`
	Tests        []testDTO  `yaml:"tests"`
	ExampleTerms []string   `yaml:"example_terms"`
}

type entryDTO struct {
	Match     string `yaml:"match" validate:"required"`
	Target    string `yaml:"target" validate:"required"`
	Status    string `yaml:"status"`
	MatchKind string `yaml:"match_kind"`
}

type testDTO struct {
	Path   string `yaml:"path" validate:"required"`
	URL    string `yaml:"url" validate:"required"`
	Status string `yaml:"status"`
}

// prefixRegex 命名空间前缀必须是小写 token
var prefixRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ParseMapping parses one namespace mapping file into a RuleModel.
// The parse is pure: no side effects beyond the returned model.
// The namespace identifier is the mapping file's base name, lowercased.
func ParseMapping(file string, data []byte) (*RuleModel, error) {
	var mf mappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, &FormatError{File: file, Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}

	if strings.TrimSpace(mf.Prefix) == "" {
		return nil, &MissingFieldError{File: file, Field: "prefix"}
	}

	namespace := strings.ToLower(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	prefix := strings.Trim(strings.TrimSpace(mf.Prefix), "/")
	if !prefixRegex.MatchString(prefix) {
		return nil, &FormatError{File: file, Field: "prefix", Reason: fmt.Sprintf("%q is not a lowercase token", prefix)}
	}

	if mf.BaseURL == "" && len(mf.Entries) == 0 {
		return nil, &FormatError{File: file, Field: "base_url", Reason: "at least one of base_url or entries is required"}
	}
	if strings.Count(mf.BaseURL, "$1") > 1 {
		return nil, &FormatError{File: file, Field: "base_url", Reason: "at most one $1 placeholder is allowed"}
	}

	m := &RuleModel{
		Namespace:  namespace,
		SourceFile: file,
		Prefix:     prefix,
		BaseURL:    strings.TrimSpace(mf.BaseURL),
	}

	validate := validator.New()
	seenExact := make(map[string]bool)

	for i, dto := range mf.Entries {
		if err := validate.Struct(&dto); err != nil {
			return nil, &FormatError{File: file, Field: fmt.Sprintf("entries[%d]", i), Reason: err.Error()}
		}

		entry, err := buildEntry(file, i, dto)
		if err != nil {
			return nil, err
		}

		if err := checkOwnership(file, i, prefix, entry); err != nil {
			return nil, err
		}

		if entry.Kind == MatchKindExact {
			if seenExact[entry.Match] {
				return nil, &DuplicateMatchError{Namespace: namespace, Match: entry.Match}
			}
			seenExact[entry.Match] = true
		}

		m.Entries = append(m.Entries, entry)
	}

	for i, dto := range mf.Tests {
		if err := validate.Struct(&dto); err != nil {
			return nil, &FormatError{File: file, Field: fmt.Sprintf("tests[%d]", i), Reason: err.Error()}
		}
		status, err := parseStatus(file, fmt.Sprintf("tests[%d].status", i), dto.Status)
		if err != nil {
			return nil, err
		}
		m.Tests = append(m.Tests, ExplicitTest{
			Path:   ensureLeadingSlash(dto.Path),
			URL:    dto.URL,
			Status: status,
		})
	}

	for i, term := range mf.ExampleTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			return nil, &FormatError{File: file, Field: fmt.Sprintf("example_terms[%d]", i), Reason: "term must not be empty"}
		}
		m.ExampleTerms = append(m.ExampleTerms, strings.TrimPrefix(term, "/"))
	}

	return m, nil
}

func buildEntry(file string, idx int, dto entryDTO) (Entry, error) {
	kind := MatchKindExact
	if dto.MatchKind != "" {
		kind = MatchKind(strings.ToLower(dto.MatchKind))
		if !kind.IsValid() {
			return Entry{}, &FormatError{
				File:   file,
				Field:  fmt.Sprintf("entries[%d].match_kind", idx),
				Reason: fmt.Sprintf("unknown match_kind %q", dto.MatchKind),
			}
		}
	}

	status, err := parseStatus(file, fmt.Sprintf("entries[%d].status", idx), dto.Status)
	if err != nil {
		return Entry{}, err
	}

	match := strings.TrimSpace(dto.Match)
	switch kind {
	case MatchKindRegex:
		// 正则条目原样进入输出，加载时只验证其可编译
		if _, err := regexp.Compile(match); err != nil {
			return Entry{}, &FormatError{
				File:   file,
				Field:  fmt.Sprintf("entries[%d].match", idx),
				Reason: fmt.Sprintf("invalid regex: %v", err),
			}
		}
	default:
		match = strings.TrimPrefix(match, "/")
	}

	return Entry{
		Match:  match,
		Target: strings.TrimSpace(dto.Target),
		Status: status,
		Kind:   kind,
	}, nil
}

// checkOwnership 确保 exact/wildcard 条目落在本命名空间前缀下。
// 正则条目无法静态检查，跳过。
func checkOwnership(file string, idx int, prefix string, e Entry) error {
	if e.Kind == MatchKindRegex {
		return nil
	}
	probe := e.Match
	if e.Kind == MatchKindWildcard {
		probe = e.WildcardLiteral()
	}
	if probe == prefix || strings.HasPrefix(probe, prefix+"/") {
		return nil
	}
	return &FormatError{
		File:   file,
		Field:  fmt.Sprintf("entries[%d].match", idx),
		Reason: fmt.Sprintf("match %q is outside namespace prefix %q", e.Match, prefix),
	}
}

func parseStatus(file, field, raw string) (RedirectStatus, error) {
	if raw == "" {
		return StatusPermanent, nil
	}
	status := RedirectStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", &FormatError{
			File:   file,
			Field:  field,
			Reason: fmt.Sprintf("status must be one of permanent, temporary, see other; got %q", raw),
		}
	}
	return status, nil
}

func ensureLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
