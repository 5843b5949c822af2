package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSourceURL is the CSV fetched when no source URL is configured.
const DefaultSourceURL = "https://raw.githubusercontent.com/gchandra10/filestorage/refs/heads/main/stock_market.csv"

// Config defines the application configuration structure
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Output  OutputConfig  `mapstructure:"output"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig defines where the raw CSV comes from
type SourceConfig struct {
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// OutputConfig defines the snapshot directory and file names
type OutputConfig struct {
	Dir            string `mapstructure:"dir"`
	CleanedFile    string `mapstructure:"cleaned_file"`
	DailyCloseFile string `mapstructure:"daily_close_file"`
	VolumeFile     string `mapstructure:"volume_file"`
	ReturnFile     string `mapstructure:"return_file"`
}

// ServerConfig defines the dashboard server configuration
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	PreviewRows int    `mapstructure:"preview_rows"`
}

// LoggingConfig defines the logger level and output format
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CleanedPath returns the full path of the cleaned snapshot.
func (o OutputConfig) CleanedPath() string { return filepath.Join(o.Dir, o.CleanedFile) }

// DailyClosePath returns the full path of the daily average close snapshot.
func (o OutputConfig) DailyClosePath() string { return filepath.Join(o.Dir, o.DailyCloseFile) }

// VolumePath returns the full path of the sector volume snapshot.
func (o OutputConfig) VolumePath() string { return filepath.Join(o.Dir, o.VolumeFile) }

// ReturnPath returns the full path of the daily return snapshot.
func (o OutputConfig) ReturnPath() string { return filepath.Join(o.Dir, o.ReturnFile) }

// LoadConfig loads configuration from file and overrides with environment variables.
// A missing config file is not an error; defaults and environment apply.
func LoadConfig(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	// Source mappings
	v.BindEnv("source.url", "STOCKDASH_SOURCE_URL")
	v.BindEnv("source.timeout", "STOCKDASH_SOURCE_TIMEOUT")

	// Output mappings
	v.BindEnv("output.dir", "STOCKDASH_OUTPUT_DIR")
	v.BindEnv("output.cleaned_file", "STOCKDASH_CLEANED_FILE")
	v.BindEnv("output.daily_close_file", "STOCKDASH_DAILY_CLOSE_FILE")
	v.BindEnv("output.volume_file", "STOCKDASH_VOLUME_FILE")
	v.BindEnv("output.return_file", "STOCKDASH_RETURN_FILE")

	// Server mappings
	v.BindEnv("server.addr", "STOCKDASH_SERVER_ADDR")
	v.BindEnv("server.preview_rows", "STOCKDASH_PREVIEW_ROWS")

	// Logging mappings
	v.BindEnv("logging.level", "STOCKDASH_LOG_LEVEL")
	v.BindEnv("logging.format", "STOCKDASH_LOG_FORMAT")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error accessing config file %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyDefaults(&config)
	return config, nil
}

// Default returns a configuration with every default applied.
func Default() Config {
	var config Config
	applyDefaults(&config)
	return config
}

// applyDefaults sets default values for any config values not set from file or environment
func applyDefaults(config *Config) {
	if config.Source.URL == "" {
		config.Source.URL = DefaultSourceURL
	}
	if config.Source.Timeout == 0 {
		config.Source.Timeout = 30
	}

	if config.Output.Dir == "" {
		config.Output.Dir = "."
	}
	if config.Output.CleanedFile == "" {
		config.Output.CleanedFile = "cleaned.parquet"
	}
	if config.Output.DailyCloseFile == "" {
		config.Output.DailyCloseFile = "agg1_daily_avg_close_price.parquet"
	}
	if config.Output.VolumeFile == "" {
		config.Output.VolumeFile = "agg2_avg_volume_by_sector.parquet"
	}
	if config.Output.ReturnFile == "" {
		config.Output.ReturnFile = "agg3_simple_daily_return.parquet"
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.PreviewRows == 0 {
		config.Server.PreviewRows = 100
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}
