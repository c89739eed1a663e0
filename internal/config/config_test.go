package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "INFO", cfg.LogLevel)
	require.Equal(t, "chat", cfg.DefaultActionSource)
	require.Equal(t, "BRL", cfg.DefaultCurrency)
	require.Equal(t, "v20.0", cfg.Sink.APIVersion)
	require.Equal(t, "https://graph.facebook.com", cfg.Sink.BaseURL)
	require.Equal(t, "10s", cfg.Sink.Timeout)
	require.Zero(t, cfg.Sink.RetryMax)
	require.Empty(t, cfg.Sink.PixelID)
	require.Empty(t, cfg.Sink.AccessToken)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONVGATE_ADDR", ":9090")
	t.Setenv("CONVGATE_LOG_LEVEL", "DEBUG")
	t.Setenv("CONVGATE_DEFAULT_ACTION_SOURCE", "website")
	t.Setenv("CONVGATE_SINK__PIXEL_ID", "px-42")
	t.Setenv("CONVGATE_SINK__ACCESS_TOKEN", "tok-42")
	t.Setenv("CONVGATE_SINK__RETRY_MAX", "2")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "DEBUG", cfg.LogLevel)
	require.Equal(t, "website", cfg.DefaultActionSource)
	require.Equal(t, "px-42", cfg.Sink.PixelID)
	require.Equal(t, "tok-42", cfg.Sink.AccessToken)
	require.Equal(t, 2, cfg.Sink.RetryMax)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":7070"
registry_path: /etc/convgate/events.yaml
sink:
  pixel_id: px-file
  api_version: v21.0
`), 0o600))
	t.Setenv("CONVGATE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, "/etc/convgate/events.yaml", cfg.RegistryPath)
	require.Equal(t, "px-file", cfg.Sink.PixelID)
	require.Equal(t, "v21.0", cfg.Sink.APIVersion)
	// untouched defaults survive the file
	require.Equal(t, "BRL", cfg.DefaultCurrency)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600))
	t.Setenv("CONVGATE_CONFIG", path)
	t.Setenv("CONVGATE_ADDR", ":6060")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":6060", cfg.Addr)
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Setenv("CONVGATE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}
