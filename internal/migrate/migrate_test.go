package migrate

import (
	"bytes"
	"strings"
	"testing"

	model "go_purl_tools/internal/domain/model/purl_rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<purls>
  <purl status="1">
    <id>/obo/obi/branches/</id>
    <type>partial</type>
    <target><url>http://example.org/obi/branches/</url></target>
  </purl>
  <purl status="1">
    <id>/obo/foo</id>
    <type>302</type>
    <target><url>http://example.org/foo</url></target>
  </purl>
  <purl status="1">
    <id>/obo/obi/</id>
    <type>partial</type>
    <target><url>http://example.org/obi/</url></target>
  </purl>
</purls>`

func TestMigrate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Migrate("obo", strings.NewReader(sampleXML), &out))

	m, err := model.ParseMapping("obo.yml", out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "obo", m.Prefix)
	require.Len(t, m.Entries, 3)

	// exact 条目保持文件序在前，partial 按匹配长度降序在后
	assert.Equal(t, "obo/foo", m.Entries[0].Match)
	assert.Equal(t, model.MatchKindExact, m.Entries[0].Kind)
	assert.Equal(t, model.StatusTemporary, m.Entries[0].Status)

	assert.Equal(t, "obo/obi/branches/*", m.Entries[1].Match)
	assert.Equal(t, model.MatchKindWildcard, m.Entries[1].Kind)

	assert.Equal(t, "obo/obi/*", m.Entries[2].Match)
	assert.Equal(t, model.MatchKindWildcard, m.Entries[2].Kind)
}

func TestMigratePrefixNormalization(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Migrate("/OBO/", strings.NewReader(sampleXML), &out))

	m, err := model.ParseMapping("obo.yml", out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "obo", m.Prefix)
}

func TestMigrateErrors(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		xml     string
		wantErr string
	}{
		{
			name:    "empty prefix",
			prefix:  "  ",
			xml:     sampleXML,
			wantErr: "namespace prefix is required",
		},
		{
			name:    "no entries",
			prefix:  "obo",
			xml:     "<purls></purls>",
			wantErr: "no entries to migrate",
		},
		{
			name:   "id outside base path",
			prefix: "obo",
			xml: `<purls><purl><id>/other/foo</id><type>302</type>
				<target><url>http://example.org/x</url></target></purl></purls>`,
			wantErr: `does not begin with base path "/obo"`,
		},
		{
			name:   "relative target url",
			prefix: "obo",
			xml: `<purls><purl><id>/obo/foo</id><type>302</type>
				<target><url>../relative</url></target></purl></purls>`,
			wantErr: "is not an absolute HTTP or FTP URL",
		},
		{
			name:   "unknown type",
			prefix: "obo",
			xml: `<purls><purl><id>/obo/foo</id><type>chained</type>
				<target><url>http://example.org/x</url></target></purl></purls>`,
			wantErr: `unknown type "chained"`,
		},
		{
			name:   "missing type",
			prefix: "obo",
			xml: `<purls><purl><id>/obo/foo</id>
				<target><url>http://example.org/x</url></target></purl></purls>`,
			wantErr: "no <type> for <purl> 1",
		},
		{
			name:    "malformed xml",
			prefix:  "obo",
			xml:     "<purls><purl>",
			wantErr: "failed to parse XML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Migrate(tt.prefix, strings.NewReader(tt.xml), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			// 校验失败时不得产生任何输出
			assert.Zero(t, out.Len())
		})
	}
}

func TestMigrateCaseInsensitiveBasePath(t *testing.T) {
	xml := `<purls><purl><id>/OBO/Foo</id><type>302</type>
		<target><url>http://example.org/foo</url></target></purl></purls>`

	var out bytes.Buffer
	require.NoError(t, Migrate("obo", strings.NewReader(xml), &out))

	m, err := model.ParseMapping("obo.yml", out.Bytes())
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "obo/Foo", m.Entries[0].Match)
}
