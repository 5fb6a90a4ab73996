package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/intertext"
	"github.com/hupe1980/intertext/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTexts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	texts := map[string]string{
		"a.tess": "<a 1> Arma virumque cano,\n<a 2> Troiae qui primus ab oris\n",
		"b.tess": "<b 1> cano arma virum\n<b 2> qui primus venit.\n",
		"c.tess": "<c 1> arma cano et virum\n",
	}
	for name, body := range texts {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"NoArgs", nil},
		{"UnknownCommand", []string{"compare"}},
		{"SearchMissingTarget", []string{"search", "-source", "a"}},
		{"BadFlag", []string{"search", "-nope"}},
		{"BadFormat", []string{"search", "-source", "a", "-target", "b", "-format", "pdf"}},
		{"ExportMissingID", []string{"export", "-db", "x.db"}},
		{"ListMissingDB", []string{"list"}},
		{"ListNegativePage", []string{"list", "-db", "x.db", "-id", "x", "-page", "-1"}},
		{"ListZeroPerPage", []string{"list", "-db", "x.db", "-id", "x", "-per-page", "0"}},
		{"BatchNoTargets", []string{"batch", "-source", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			assert.ErrorIs(t, err, errUsage)
		})
	}

	out, err := runCmd(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "commands:")
}

func TestSearch(t *testing.T) {
	dir := writeTexts(t)
	outDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "intertext.db")

	out, err := runCmd(t, "search",
		"-texts", dir, "-source", "a", "-target", "b",
		"-feature", "form", "-n-stopwords", "0",
		"-db", dbPath, "-export", outDir, "-format", "csv", "-compress", "zstd",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "a vs b: 2 matches")
	assert.Contains(t, out, "qui, primus")
	assert.Contains(t, out, "exported a-b.csv.zst")

	_, err = os.Stat(filepath.Join(outDir, "a-b.csv.zst"))
	assert.NoError(t, err)

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	sets, err := db.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 2, sets[0].Matches)
}

func TestSearchConfig(t *testing.T) {
	dir := writeTexts(t)
	cfg := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("feature_type: form\nstopwords: 0\nmin_score: 100\n"), 0o600))

	out, err := runCmd(t, "search", "-texts", dir, "-source", "a", "-target", "b", "-config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "0 matches")

	out, err = runCmd(t, "search", "-texts", dir, "-source", "a", "-target", "b", "-config", cfg, "-min-score", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "2 matches")
}

func TestSearchErrors(t *testing.T) {
	dir := writeTexts(t)

	_, err := runCmd(t, "search", "-texts", dir, "-source", "a", "-target", "b", "-unit", "word")
	assert.ErrorIs(t, err, intertext.ErrConfiguration)

	_, err = runCmd(t, "search", "-texts", dir, "-source", "a", "-target", "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = runCmd(t, "search", "-texts", dir, "-source", "a", "-target", "b", "-language", "klingon")
	assert.Error(t, err)
}

func TestExportAndList(t *testing.T) {
	dir := writeTexts(t)
	dbPath := filepath.Join(t.TempDir(), "intertext.db")

	_, err := runCmd(t, "search", "-texts", dir, "-source", "a", "-target", "b",
		"-feature", "form", "-n-stopwords", "0", "-db", dbPath, "-top", "0")
	require.NoError(t, err)

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	sets, err := db.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Len(t, sets, 1)
	id := sets[0].ID

	out, err := runCmd(t, "export", "-db", dbPath, "-id", id, "-texts", dir, "-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "*qui* *primus* venit")

	out, err = runCmd(t, "export", "-db", dbPath, "-id", id, "-with-texts=false", "-format", "xml")
	require.NoError(t, err)
	assert.Contains(t, out, "<results")

	outDir := t.TempDir()
	out, err = runCmd(t, "export", "-db", dbPath, "-id", id, "-texts", dir, "-export", outDir, "-compress", "brotli")
	require.NoError(t, err)
	assert.Contains(t, out, "exported a-b.csv.br")

	_, err = runCmd(t, "export", "-db", dbPath, "-id", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	out, err = runCmd(t, "list", "-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	pages := []struct {
		name    string
		args    []string
		header  string
		ranks   []string
		noMatch bool
	}{
		{"FirstPage", []string{"-per-page", "1"}, "2 matches, page 1 of 2", []string{"\n1 "}, false},
		{"LastPage", []string{"-per-page", "1", "-page", "1"}, "2 matches, page 2 of 2", []string{"\n2 "}, false},
		{"PastEnd", []string{"-per-page", "1", "-page", "2"}, "2 matches, page 3 of 2", nil, true},
		{"SingleFullPage", nil, "2 matches, page 1 of 1", []string{"\n1 ", "\n2 "}, false},
	}
	for _, tt := range pages {
		t.Run("List"+tt.name, func(t *testing.T) {
			args := append([]string{"list", "-db", dbPath, "-id", id}, tt.args...)
			out, err := runCmd(t, args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.header)
			for _, r := range tt.ranks {
				assert.Contains(t, out, r)
			}
			if tt.noMatch {
				assert.NotContains(t, out, "RANK")
			}
		})
	}

	out, err = runCmd(t, "list", "-db", dbPath, "-id", id, "-sort", "source", "-desc")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "2", strings.Fields(lines[2])[2])
	assert.Equal(t, "1", strings.Fields(lines[3])[2])

	_, err = runCmd(t, "list", "-db", dbPath, "-id", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBatch(t *testing.T) {
	dir := writeTexts(t)
	dbPath := filepath.Join(t.TempDir(), "intertext.db")

	out, err := runCmd(t, "batch", "-texts", dir, "-source", "a",
		"-feature", "form", "-n-stopwords", "0", "-workers", "2", "-db", dbPath,
		"b", "c")
	require.NoError(t, err)
	assert.Contains(t, out, "a vs b: 2 matches")
	assert.Contains(t, out, "a vs c: 1 matches")

	out, err = runCmd(t, "list", "-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "done")
}
