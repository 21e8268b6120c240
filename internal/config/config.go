// Package config holds application settings: defaults, the config file
// loaded over them, and the derived filesystem paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	CacheDir    string
	DBPath      string
	HistoryPath string
	LogPath     string
	ConfigPath  string

	Subreddit string
	Sort      string

	PageSize      int
	PostTTL       time.Duration
	ThreadTTL     time.Duration
	HistoryLimit  int
	PrefetchCount int
}

// fileConfig is the on-disk schema. Durations are strings ("5m") so the
// file stays hand-editable; invalid values fall back to defaults.
type fileConfig struct {
	Subreddit     string `toml:"subreddit"`
	Sort          string `toml:"sort"`
	PageSize      int    `toml:"page_size"`
	PostTTL       string `toml:"post_ttl"`
	ThreadTTL     string `toml:"thread_ttl"`
	HistoryLimit  int    `toml:"history_limit"`
	PrefetchCount *int   `toml:"prefetch_count"`
}

func Default() Config {
	cacheDir := filepath.Join(userConfigDir(), "lurker")
	return Config{
		CacheDir:      cacheDir,
		DBPath:        filepath.Join(cacheDir, "cache.db"),
		HistoryPath:   filepath.Join(cacheDir, "history.log"),
		LogPath:       filepath.Join(cacheDir, "debug.log"),
		ConfigPath:    filepath.Join(cacheDir, "config.toml"),
		Subreddit:     "front",
		Sort:          "hot",
		PageSize:      25,
		PostTTL:       5 * time.Minute,
		ThreadTTL:     10 * time.Minute,
		HistoryLimit:  200,
		PrefetchCount: 10,
	}
}

// Load reads the config file at path (the default location when path is
// empty) and merges it over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = cfg.ConfigPath
	} else {
		cfg.ConfigPath = path
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.Subreddit != "" {
		cfg.Subreddit = fc.Subreddit
	}
	if fc.Sort != "" {
		cfg.Sort = fc.Sort
	}
	if fc.PageSize > 0 {
		cfg.PageSize = fc.PageSize
	}
	if d, err := time.ParseDuration(fc.PostTTL); err == nil && d > 0 {
		cfg.PostTTL = d
	}
	if d, err := time.ParseDuration(fc.ThreadTTL); err == nil && d > 0 {
		cfg.ThreadTTL = d
	}
	if fc.HistoryLimit > 0 {
		cfg.HistoryLimit = fc.HistoryLimit
	}
	// Zero is a valid setting here: it disables background prefetch.
	if fc.PrefetchCount != nil && *fc.PrefetchCount >= 0 {
		cfg.PrefetchCount = *fc.PrefetchCount
	}
	return cfg, nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
