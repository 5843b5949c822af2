package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.Source.URL)
	assert.Equal(t, 30, cfg.Source.Timeout)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, "cleaned.parquet", cfg.Output.CleanedFile)
	assert.Equal(t, "agg1_daily_avg_close_price.parquet", cfg.Output.DailyCloseFile)
	assert.Equal(t, "agg2_avg_volume_by_sector.parquet", cfg.Output.VolumeFile)
	assert.Equal(t, "agg3_simple_daily_return.parquet", cfg.Output.ReturnFile)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 100, cfg.Server.PreviewRows)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
source:
  url: http://example.test/data.csv
output:
  dir: /tmp/snapshots
  cleaned_file: clean.parquet
server:
  addr: ":9000"
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("STOCKDASH_SERVER_ADDR", ":9100")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/data.csv", cfg.Source.URL)
	assert.Equal(t, "/tmp/snapshots", cfg.Output.Dir)
	assert.Equal(t, filepath.Join("/tmp/snapshots", "clean.parquet"), cfg.Output.CleanedPath())
	assert.Equal(t, filepath.Join("/tmp/snapshots", "agg3_simple_daily_return.parquet"), cfg.Output.ReturnPath())
	assert.Equal(t, ":9100", cfg.Server.Addr, "environment overrides file")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
