package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwhitby/metabrowse/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "metabrowse.db", cfg.DB.Path)
	require.Equal(t, 300, cfg.Debounce.SearchMS)
	require.Equal(t, 120, cfg.Debounce.ViewportMS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("METABROWSE_TRANSPORT_MODE", "http")
	t.Setenv("METABROWSE_SERVER_PORT", "9090")
	t.Setenv("METABROWSE_BACKEND_COMMAND", "sf-bridge --json")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, []string{"sf-bridge", "--json"}, cfg.Backend.Command)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "db:\n  path: /tmp/panel.db\ndebounce:\n  search_ms: 150\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("METABROWSE_CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/panel.db", cfg.DB.Path)
	require.Equal(t, 150, cfg.Debounce.SearchMS)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("METABROWSE_TRANSPORT_MODE", "carrier-pigeon")
	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("METABROWSE_SERVER_PORT", "not-a-port")
	_, err := config.Load()
	require.Error(t, err)
}
