// Package migrate converts legacy PURL.org XML exports into mapping files.
// The conversion is a helpful starting point; manual cleanup of the generated
// mapping is expected.
package migrate

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	model "go_purl_tools/internal/domain/model/purl_rule"

	"gopkg.in/yaml.v3"
)

// 每条 PURL 形如：
//
//	<purl status="1">
//	  <id>/obo/obi/branches/</id>
//	  <type>partial</type>
//	  <target><url>http://.../branches/</url></target>
//	</purl>
//
// type "302" 迁移为 exact 条目，type "partial" 迁移为 wildcard 条目。
// 为了复现 PURL.org 的默认行为，exact 条目按文件序在前，
// partial 条目按 id 长度降序排在后面。

var absoluteURLRegex = regexp.MustCompile(`^(https?|ftp)://.+`)

type purlRecord struct {
	ID   string
	Type string
	URL  string
}

type mappingEntry struct {
	Match     string `yaml:"match"`
	Target    string `yaml:"target"`
	Status    string `yaml:"status"`
	MatchKind string `yaml:"match_kind,omitempty"`
}

type mappingDoc struct {
	Prefix  string         `yaml:"prefix"`
	BaseURL string         `yaml:"base_url,omitempty"`
	Entries []mappingEntry `yaml:"entries"`
}

// Migrate reads a PURL.org XML export and writes a mapping file for the given
// namespace prefix. The generated mapping is validated by re-parsing it before
// anything is written to w.
func Migrate(prefix string, r io.Reader, w io.Writer) error {
	prefix = strings.Trim(strings.ToLower(strings.TrimSpace(prefix)), "/")
	if prefix == "" {
		return fmt.Errorf("namespace prefix is required")
	}
	basePath := "/" + prefix

	records, err := readRecords(r)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no entries to migrate")
	}

	var exact, partial []mappingEntry
	for i, rec := range records {
		entry, isPartial, err := convertRecord(i+1, basePath, prefix, rec)
		if err != nil {
			return err
		}
		if isPartial {
			partial = append(partial, entry)
		} else {
			exact = append(exact, entry)
		}
	}

	// partial 条目按匹配长度降序，长前缀先命中
	sort.SliceStable(partial, func(i, j int) bool {
		return len(partial[i].Match) > len(partial[j].Match)
	})

	doc := mappingDoc{Prefix: prefix, Entries: append(exact, partial...)}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	// 迁移产物必须能被映射解析器原样接受
	if _, err := model.ParseMapping(prefix+".yml", out); err != nil {
		return fmt.Errorf("migrated mapping failed validation: %w", err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}
	return nil
}

// readRecords streams the XML and collects id/type/url per <purl> element.
func readRecords(r io.Reader) ([]purlRecord, error) {
	decoder := xml.NewDecoder(r)

	var records []purlRecord
	var current purlRecord
	var field string
	var content strings.Builder
	count := 0

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			content.Reset()
			switch t.Name.Local {
			case "purl":
				count++
				current = purlRecord{}
			case "id", "type", "url":
				field = t.Name.Local
			}
		case xml.CharData:
			content.Write(t)
		case xml.EndElement:
			switch t.Name.Local {
			case "id", "type", "url":
				text := strings.TrimSpace(content.String())
				if text == "" {
					return nil, fmt.Errorf("empty <%s> for <purl> %d", t.Name.Local, count)
				}
				// 只取第一个出现的值
				switch {
				case field == "id" && current.ID == "":
					current.ID = text
				case field == "type" && current.Type == "":
					current.Type = text
				case field == "url" && current.URL == "":
					current.URL = text
				}
				field = ""
			case "purl":
				records = append(records, current)
			}
		}
	}

	return records, nil
}

func convertRecord(n int, basePath, prefix string, rec purlRecord) (mappingEntry, bool, error) {
	if rec.ID == "" {
		return mappingEntry{}, false, fmt.Errorf("no <id> for <purl> %d", n)
	}
	if !strings.HasPrefix(strings.ToLower(rec.ID), basePath) {
		return mappingEntry{}, false, fmt.Errorf("in <purl> %d the <id> %q does not begin with base path %q", n, rec.ID, basePath)
	}
	if rec.URL == "" {
		return mappingEntry{}, false, fmt.Errorf("no <url> for <purl> %d", n)
	}
	if !absoluteURLRegex.MatchString(rec.URL) {
		return mappingEntry{}, false, fmt.Errorf("in <purl> %d the <url> %q is not an absolute HTTP or FTP URL", n, rec.URL)
	}

	match := prefix + rec.ID[len(basePath):]

	switch rec.Type {
	case "302":
		// PURL.org 的 302 类型是临时精确重定向
		return mappingEntry{Match: match, Target: rec.URL, Status: string(model.StatusTemporary)}, false, nil
	case "partial":
		return mappingEntry{
			Match:     match + "*",
			Target:    rec.URL,
			Status:    string(model.StatusTemporary),
			MatchKind: string(model.MatchKindWildcard),
		}, true, nil
	case "":
		return mappingEntry{}, false, fmt.Errorf("no <type> for <purl> %d", n)
	default:
		return mappingEntry{}, false, fmt.Errorf("unknown type %q for <purl> %d", rec.Type, n)
	}
}
