package configuration

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"sneakwatch/internal/logger"
)

type Config struct {
	ServerAddress  string
	ScraperAddress string
	StorePath      string
	LogLevel       logger.Level
	LogToFile      bool
}

type tomlConfig struct {
	ServerAddress  string `toml:"server_address"`
	ScraperAddress string `toml:"scraper_address"`
	StorePath      string `toml:"store_path"`
	LogLevel       string `toml:"log_level"`
	LogToFile      bool   `toml:"log_to_file"`
}

func GetConfig(path string) (*Config, error) {
	var tc tomlConfig
	_, err := toml.DecodeFile(path, &tc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode toml file with path: %s", path)
	}

	if tc.ServerAddress == "" {
		tc.ServerAddress = "localhost:8787"
	}

	if tc.ScraperAddress == "" {
		return nil, errors.New("scraper_address is not set")
	}

	if tc.StorePath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to determine user config dir for store_path")
		}
		tc.StorePath = filepath.Join(configDir, "sneakwatch", "store.json")
	}

	if tc.LogLevel == "" {
		tc.LogLevel = "INFO"
	}
	logLevel, err := logger.ParseLevel(tc.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse log_level: %s", tc.LogLevel)
	}

	return &Config{
		ServerAddress:  tc.ServerAddress,
		ScraperAddress: tc.ScraperAddress,
		StorePath:      tc.StorePath,
		LogLevel:       logLevel,
		LogToFile:      tc.LogToFile,
	}, nil
}
