package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "github.com/esologic/folio/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Me\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "Me", cfg.Site.Title)
	require.Equal(t, "./content", cfg.Content.Directory)
	require.Equal(t, "./site", cfg.Output.Directory)
	require.Equal(t, 1316, cfg.Serve.Port)
	require.Equal(t, "/metrics", cfg.Serve.MetricsPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.IsCategory(err, ferrors.CategoryConfig))
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("FOLIO_TEST_TITLE", "From Env")
	path := writeConfig(t, "site:\n  title: ${FOLIO_TEST_TITLE}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
}

func TestInvalidRebuildIntervalRejected(t *testing.T) {
	path := writeConfig(t, "serve:\n  rebuild_every: sometimes\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rebuild_every")
}

func TestContentAndOutputMustDiffer(t *testing.T) {
	path := writeConfig(t, "content:\n  directory: ./x\noutput:\n  directory: ./x\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must differ")
}

func TestPortRangeValidated(t *testing.T) {
	path := writeConfig(t, "serve:\n  port: 70000\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "port out of range")
}

func TestRebuildInterval(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, time.Duration(0), cfg.RebuildInterval())

	cfg.Serve.RebuildEvery = "30m"
	require.Equal(t, 30*time.Minute, cfg.RebuildInterval())
}

func TestHistoryPathDefaultOnlyWhenEnabled(t *testing.T) {
	path := writeConfig(t, "history:\n  enabled: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ".folio/history.db", cfg.History.Path)
}

func TestInitRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	// The generated file must load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "My Portfolio", cfg.Site.Title)
}
