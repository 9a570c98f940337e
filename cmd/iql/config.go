package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"iql"
)

const configFileName = "iql.toml"

// fileConfig mirrors the iql.toml layout.
type fileConfig struct {
	Scorer struct {
		BaseURL   string `toml:"base_url"`
		APIKeyEnv string `toml:"api_key_env"`
		Model     string `toml:"model"`
	} `toml:"scorer"`
	Eval struct {
		Concurrency    int    `toml:"concurrency"`
		TimeoutMs      int    `toml:"timeout_ms"`
		OnBackendError string `toml:"on_backend_error"` // abort|lenient
	} `toml:"eval"`
	Cache struct {
		Enabled bool   `toml:"enabled"`
		Dir     string `toml:"dir"`
	} `toml:"cache"`
}

// loadConfig walks from the working directory upward looking for iql.toml.
// A missing file yields the zero config, not an error.
func loadConfig() (fileConfig, error) {
	var cfg fileConfig

	dir, err := os.Getwd()
	if err != nil {
		return cfg, err
	}
	for {
		path := filepath.Join(dir, configFileName)
		if _, statErr := os.Stat(path); statErr == nil {
			_, decodeErr := toml.DecodeFile(path, &cfg)
			return cfg, decodeErr
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return cfg, statErr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cfg, nil
		}
		dir = parent
	}
}

func (c fileConfig) scorerConfig() iql.ScorerConfig {
	sc := iql.ScorerConfig{
		BaseURL: c.Scorer.BaseURL,
		Model:   c.Scorer.Model,
	}
	if c.Scorer.APIKeyEnv != "" {
		sc.APIKey = os.Getenv(c.Scorer.APIKeyEnv)
	}
	if c.Cache.Enabled {
		sc.CacheDir = c.Cache.Dir
		if sc.CacheDir == "" {
			sc.CacheDir = defaultCacheDir()
		}
	}
	return sc
}

func (c fileConfig) evalOptions() iql.EvalOptions {
	return iql.EvalOptions{
		Concurrency: c.Eval.Concurrency,
		Timeout:     time.Duration(c.Eval.TimeoutMs) * time.Millisecond,
		Lenient:     c.Eval.OnBackendError == "lenient",
	}
}

func defaultCacheDir() string {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "iql")
}
