package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	configPath string
	showDir    string
	home       string
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func setupEnv(t *testing.T) cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("OMDB_API_KEY", "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"Response":"False","Error":"Invalid API key!"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Title":    "Test Show",
			"Season":   r.URL.Query().Get("Season"),
			"Response": "True",
			"Episodes": []map[string]string{
				{"Title": "Pilot", "Episode": "1", "imdbID": "tt0000001"},
				{"Title": "Second Chance", "Episode": "2", "imdbID": "tt0000002"},
			},
		})
	}))
	t.Cleanup(srv.Close)

	configPath := filepath.Join(home, "config.toml")
	content := fmt.Sprintf(`[catalog]
api_key = "test-key"
base_url = %q
timeout_seconds = 5

[rename]
journal = true

[log]
level = "quiet"
`, srv.URL)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))

	showDir := filepath.Join(home, "show")
	require.NoError(t, os.MkdirAll(showDir, 0755))
	for _, name := range []string{"show.s01e01.mkv", "second.chance.720p.mkv", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(showDir, name), []byte("x"), 0644))
	}

	return cliEnv{configPath: configPath, showDir: showDir, home: home}
}

func (e cliEnv) renameArgs(extra ...string) []string {
	args := []string{"--config", e.configPath, "rename",
		"--link", "https://www.imdb.com/title/tt0903747/",
		"--dir", e.showDir,
		"--season", "1",
	}
	return append(args, extra...)
}

func journalID(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "Undo with: seriesrenamer undo "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no journal id in output:\n%s", out)
	return ""
}

func TestRenameCommand(t *testing.T) {
	env := setupEnv(t)

	out, _, err := runCLI(t, env.renameArgs()...)
	require.NoError(t, err)

	assert.Contains(t, out, "Fetched 2 episodes and 3 local files")
	assert.Contains(t, out, "2 renamed, 0 failed")
	assert.Contains(t, out, "1 unmatched file(s) left untouched")
	assert.FileExists(t, filepath.Join(env.showDir, "S01E01 - Pilot.mkv"))
	assert.FileExists(t, filepath.Join(env.showDir, "S01E02 - Second Chance.mkv"))
	assert.FileExists(t, filepath.Join(env.showDir, "notes.txt"))
	assert.NotEmpty(t, journalID(t, out))
}

func TestRenameCommandDryRun(t *testing.T) {
	env := setupEnv(t)

	out, _, err := runCLI(t, env.renameArgs("--dry-run")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Dry run: no files were changed")
	assert.NotContains(t, out, "Undo with")
	assert.FileExists(t, filepath.Join(env.showDir, "show.s01e01.mkv"))
	assert.NoFileExists(t, filepath.Join(env.showDir, "S01E01 - Pilot.mkv"))
}

func TestRenameCommandWritesReport(t *testing.T) {
	env := setupEnv(t)

	out, _, err := runCLI(t, env.renameArgs("--report")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Report saved to "+filepath.Join(env.home, ".local/share/seriesrenamer/reports"))
}

func TestRenameCommandRejectsLinkWithoutID(t *testing.T) {
	env := setupEnv(t)

	_, _, err := runCLI(t, "--config", env.configPath, "rename",
		"--link", "https://example.com/show", "--dir", env.showDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMDb id")
}

func TestRenameCommandReportsAPIError(t *testing.T) {
	env := setupEnv(t)
	t.Setenv("OMDB_API_KEY", "wrong-key")

	_, _, err := runCLI(t, env.renameArgs()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.FileExists(t, filepath.Join(env.showDir, "show.s01e01.mkv"))
}

func TestHistoryAndUndo(t *testing.T) {
	env := setupEnv(t)

	out, _, err := runCLI(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No rename history")

	out, _, err = runCLI(t, env.renameArgs()...)
	require.NoError(t, err)
	id := journalID(t, out)

	out, _, err = runCLI(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "completed")

	out, _, err = runCLI(t, "undo", id)
	require.NoError(t, err)
	assert.Contains(t, out, "2 renamed, 0 failed")
	assert.FileExists(t, filepath.Join(env.showDir, "show.s01e01.mkv"))
	assert.FileExists(t, filepath.Join(env.showDir, "second.chance.720p.mkv"))

	_, _, err = runCLI(t, "undo", id)
	assert.Error(t, err, "a reverted batch cannot be undone twice")
}

func TestConfigCommandMasksKey(t *testing.T) {
	env := setupEnv(t)
	t.Setenv("OMDB_API_KEY", "abcdef123456")

	out, _, err := runCLI(t, "--config", env.configPath, "config")
	require.NoError(t, err)

	assert.Contains(t, out, "Config file: "+env.configPath)
	assert.Contains(t, out, "********3456")
	assert.NotContains(t, out, "abcdef123456")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "seriesrenamer dev")
}

func TestInteractiveRequiresTerminal(t *testing.T) {
	setupEnv(t)

	_, _, err := runCLI(t)
	assert.ErrorIs(t, err, errNotTerminal)

	_, _, err = runCLI(t, "tui")
	assert.ErrorIs(t, err, errNotTerminal)
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":                  "",
		"abc":               "***",
		"abcdefgh":          "****efgh",
		"YOUR_API_KEY_HERE": "YOUR_API_KEY_HERE",
	}
	for in, want := range tests {
		assert.Equal(t, want, maskKey(in), in)
	}
}
