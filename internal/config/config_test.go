package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, 80, cfg.LineLength)
	assert.Equal(t, 1, cfg.Margin)
	assert.Empty(t, cfg.Exclude)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse([]byte("indent = 2\nline_length = 100\nmargin = 2\nexclude = [\"vendor/**\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, 100, cfg.LineLength)
	assert.Equal(t, 2, cfg.Margin)
	assert.Equal(t, []string{"vendor/**"}, cfg.Exclude)
}

func TestParseLimitAlias(t *testing.T) {
	cfg, err := Parse([]byte("limit = 120\n"))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.LineLength)

	_, err = Parse([]byte("limit = 120\nline_length = 80\n"))
	require.Error(t, err)

	cfg, err = Parse([]byte("limit = 90\nline_length = 90\n"))
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.LineLength)
}

func TestParseUnknownKeyFails(t *testing.T) {
	_, err := Parse([]byte("tab_width = 4\n"))
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Reason, "tab_width")
}

func TestParseInvalidValues(t *testing.T) {
	for _, src := range []string{
		"indent = 0\n",
		"indent = -2\n",
		"line_length = 0\n",
		"margin = -1\n",
		"indent = \"four\"\n",
	} {
		_, err := Parse([]byte(src))
		assert.Error(t, err, "source %q", src)
	}
}

func TestParseBadExcludePattern(t *testing.T) {
	_, err := Parse([]byte("exclude = [\"[\"]\n"))
	require.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nufmt.toml")
	require.NoError(t, os.WriteFile(path, []byte("indent = 8\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Indent)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestExcluded(t *testing.T) {
	cfg := Default()
	cfg.Exclude = []string{"vendor/**", "**/*_gen.nu"}

	assert.True(t, cfg.Excluded("vendor/lib/mod.nu"))
	assert.True(t, cfg.Excluded("scripts/out_gen.nu"))
	assert.False(t, cfg.Excluded("scripts/main.nu"))
}
