package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nushell/nufmt/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunRewritesInPlace(t *testing.T) {
	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.nu", "let x  =  1\n")
	clean := writeFile(t, dir, "clean.nu", "let y = 2\n")

	results, err := Run(context.Background(), []string{dir}, Options{Config: config.Default()})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byPath := map[string]Result{}
	for _, r := range results {
		byPath[r.Path] = r
	}
	assert.True(t, byPath[messy].Changed)
	assert.False(t, byPath[clean].Changed)

	got, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1\n", string(got))
}

func TestRunDryRunLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "messy.nu", "let x  =  1\n")

	results, err := Run(context.Background(), []string{path}, Options{
		Config: config.Default(),
		DryRun: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "let x  =  1\n", string(got))
}

func TestRunIsolatesPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.nu", "let = oops\n")
	good := writeFile(t, dir, "good.nu", "let x  =  1\n")

	results, err := Run(context.Background(), []string{dir}, Options{Config: config.Default()})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var badErr error
	for _, r := range results {
		if r.Path != good {
			badErr = r.Err
		}
	}
	assert.Error(t, badErr)

	got, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1\n", string(got))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.nu", "")
	b := writeFile(t, dir, "sub/b.nu", "")
	writeFile(t, dir, "sub/notes.txt", "")

	files, err := CollectFiles([]string{dir}, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestCollectFilesDeduplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.nu", "")

	files, err := CollectFiles([]string{a, a, dir}, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestCollectFilesHonorsExcludes(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "main.nu", "")
	writeFile(t, dir, "vendor/dep.nu", "")

	cfg := config.Default()
	cfg.Exclude = []string{"**/vendor/**"}

	files, err := CollectFiles([]string{dir}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)
}

func TestCollectFilesMissingPath(t *testing.T) {
	_, err := CollectFiles([]string{filepath.Join(t.TempDir(), "nope")}, config.Default())
	assert.Error(t, err)
}

func TestRunNoFilesFound(t *testing.T) {
	results, err := Run(context.Background(), []string{t.TempDir()}, Options{Config: config.Default()})
	require.NoError(t, err)
	assert.Empty(t, results)
}
