package configuration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneakwatch/internal/logger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGetConfig_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server_address = "localhost:9999"
scraper_address = "http://localhost:3000"
store_path = "/tmp/sneakwatch/store.json"
log_level = "DEBUG"
log_to_file = true
`)

	config, err := GetConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9999", config.ServerAddress)
	assert.Equal(t, "http://localhost:3000", config.ScraperAddress)
	assert.Equal(t, "/tmp/sneakwatch/store.json", config.StorePath)
	assert.Equal(t, logger.LevelDebug, config.LogLevel)
	assert.True(t, config.LogToFile)
}

func TestGetConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeConfig(t, `scraper_address = "http://localhost:3000"`)

	config, err := GetConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8787", config.ServerAddress)
	assert.Equal(t, logger.LevelInfo, config.LogLevel)
	assert.False(t, config.LogToFile)
	assert.True(t, strings.HasSuffix(config.StorePath, filepath.Join("sneakwatch", "store.json")),
		"unexpected default store path: %s", config.StorePath)
}

func TestGetConfig_MissingScraperAddress(t *testing.T) {
	path := writeConfig(t, `server_address = "localhost:9999"`)

	_, err := GetConfig(path)
	assert.Error(t, err)
}

func TestGetConfig_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
scraper_address = "http://localhost:3000"
log_level = "LOUD"
`)

	_, err := GetConfig(path)
	assert.Error(t, err)
}

func TestGetConfig_MissingFile(t *testing.T) {
	_, err := GetConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
