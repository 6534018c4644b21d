package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

const FileName = "gpacalc.toml"

type Config struct {
	DataDir    string
	DBPath     string
	ReportsDir string
	Report     ReportConfig
	Log        LogConfig
}

type ReportConfig struct {
	Formats []string `toml:"formats" env:"GPACALC_REPORT_FORMATS" envSeparator:","`
	Label   string   `toml:"label" env:"GPACALC_REPORT_LABEL"`
}

type LogConfig struct {
	Level string `toml:"level" env:"GPACALC_LOG_LEVEL"`
	File  string `toml:"file" env:"GPACALC_LOG_FILE"`
}

type fileConfig struct {
	Report ReportConfig `toml:"report"`
	Log    LogConfig    `toml:"log"`
}

func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, ".gpacalc", "gpacalc.db"),
		ReportsDir: filepath.Join(dataDir, "reports"),
		Report: ReportConfig{
			Formats: []string{"markdown"},
			Label:   "GPA report",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dataDir, ".gpacalc", "gpacalc.log"),
		},
	}, nil
}

// Load applies <dataDir>/gpacalc.toml, then GPACALC_* environment variables,
// on top of the defaults from New.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	file := fileConfig{Report: cfg.Report, Log: cfg.Log}
	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", FileName, err)
		}
	}
	if err := env.Parse(&file); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Report = file.Report
	cfg.Log = file.Log
	if cfg.Log.File != "" && !filepath.IsAbs(cfg.Log.File) {
		cfg.Log.File = filepath.Join(dataDir, cfg.Log.File)
	}
	return cfg, nil
}
