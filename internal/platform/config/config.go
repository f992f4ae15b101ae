package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	dataDir    = ".spacedrep"
	configFile = "config.yaml"
)

type Config struct {
	VaultPath          string
	DBPath             string
	LogMode            string
	Journal            bool
	CategoryMinReviews int
	CategoryLimit      int
	HistoryDays        int
}

type fileConfig struct {
	LogMode            string `yaml:"log_mode"`
	DBPath             string `yaml:"db_path"`
	Journal            *bool  `yaml:"journal"`
	CategoryMinReviews int    `yaml:"category_min_reviews"`
	CategoryLimit      int    `yaml:"category_limit"`
	HistoryDays        int    `yaml:"history_days"`
}

// New returns the defaults for a vault without touching the filesystem.
func New(vaultPath string) (Config, error) {
	if strings.TrimSpace(vaultPath) == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	return Config{
		VaultPath:          vaultPath,
		DBPath:             filepath.Join(vaultPath, dataDir, "spacedrep.db"),
		LogMode:            "dev",
		Journal:            true,
		CategoryMinReviews: 3,
		CategoryLimit:      3,
		HistoryDays:        30,
	}, nil
}

// Load layers <vault>/.spacedrep/config.yaml and then environment variables
// (optionally seeded from <vault>/.env) over the defaults.
func Load(vaultPath string) (Config, error) {
	cfg, err := New(vaultPath)
	if err != nil {
		return Config{}, err
	}

	raw, err := os.ReadFile(filepath.Join(vaultPath, dataDir, configFile))
	switch {
	case err == nil:
		file := fileConfig{}
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("decode config file: %w", err)
		}
		cfg.apply(file)
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	_ = godotenv.Load(filepath.Join(vaultPath, ".env"))
	if v := strings.TrimSpace(os.Getenv("SPACEDREP_LOG_MODE")); v != "" {
		cfg.LogMode = v
	}
	if v := strings.TrimSpace(os.Getenv("SPACEDREP_DB_PATH")); v != "" {
		cfg.DBPath = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(file fileConfig) {
	if file.LogMode != "" {
		c.LogMode = file.LogMode
	}
	if file.DBPath != "" {
		if filepath.IsAbs(file.DBPath) {
			c.DBPath = file.DBPath
		} else {
			c.DBPath = filepath.Join(c.VaultPath, file.DBPath)
		}
	}
	if file.Journal != nil {
		c.Journal = *file.Journal
	}
	if file.CategoryMinReviews != 0 {
		c.CategoryMinReviews = file.CategoryMinReviews
	}
	if file.CategoryLimit != 0 {
		c.CategoryLimit = file.CategoryLimit
	}
	if file.HistoryDays != 0 {
		c.HistoryDays = file.HistoryDays
	}
}

func (c Config) Validate() error {
	if c.CategoryMinReviews < 1 {
		return fmt.Errorf("category_min_reviews must be at least 1")
	}
	if c.CategoryLimit < 1 {
		return fmt.Errorf("category_limit must be at least 1")
	}
	if c.HistoryDays < 1 {
		return fmt.Errorf("history_days must be at least 1")
	}
	return nil
}
