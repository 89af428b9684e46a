package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"tickerboard/internal/quote"
)

type Server struct {
	// Port of the status endpoint. Empty disables the server.
	Port string `yaml:"port"`
}

type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type Feed struct {
	// Endpoint template; "{symbol}" is replaced per request.
	Endpoint          string `yaml:"endpoint"`
	UserAgent         string `yaml:"user_agent"`
	TimeoutSec        int    `yaml:"timeout_sec"`
	MinRequestGapMs   int    `yaml:"min_request_gap_ms"`
	InsecureTransport bool   `yaml:"insecure_transport"`
}

type Display struct {
	ValueViewSec   int `yaml:"value_view_sec"`
	PercentViewSec int `yaml:"percent_view_sec"`
}

type Symbol struct {
	ID        string  `yaml:"id"`
	Label     string  `yaml:"label"`
	Scale     float64 `yaml:"scale"`
	Separator string  `yaml:"separator"`
	Decimals  int     `yaml:"decimals"`
}

type Config struct {
	Server  Server   `yaml:"server"`
	Log     Log      `yaml:"log"`
	Feed    Feed     `yaml:"feed"`
	Display Display  `yaml:"display"`
	Symbols []Symbol `yaml:"symbols"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080"},
		Log:    Log{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		Feed: Feed{
			Endpoint:        "https://query1.finance.yahoo.com/v7/finance/quote?symbols={symbol}",
			UserAgent:       "tickerboard/1.0",
			TimeoutSec:      10,
			MinRequestGapMs: 500,
		},
		Display: Display{ValueViewSec: 2, PercentViewSec: 2},
		Symbols: []Symbol{
			{ID: "^SPX", Label: "SPX", Scale: 1, Separator: ",", Decimals: 0},
			{ID: "^NDX", Label: "NDX", Scale: 1, Separator: ",", Decimals: 0},
			// The 10-year yield is scaled x1000 and dot-separated so
			// 4.123% reads as 4.123 on the board.
			{ID: "^TNX", Label: "T10", Scale: 1000, Separator: ".", Decimals: 0},
		},
	}
}

// Load reads YAML config from path. If path is empty or the file does
// not exist, it returns defaults. Environment variables override
// select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("FEED_ENDPOINT"); v != "" {
		cfg.Feed.Endpoint = v
	}
	if v := os.Getenv("FEED_USER_AGENT"); v != "" {
		cfg.Feed.UserAgent = v
	}
	if v := os.Getenv("FEED_TIMEOUT_SEC"); v != "" {
		if x, err := strconv.Atoi(v); err == nil && x > 0 {
			cfg.Feed.TimeoutSec = x
		}
	}
	if v := os.Getenv("FEED_MIN_REQUEST_GAP_MS"); v != "" {
		if x, err := strconv.Atoi(v); err == nil && x >= 0 {
			cfg.Feed.MinRequestGapMs = x
		}
	}
	if v := os.Getenv("FEED_INSECURE_TRANSPORT"); v != "" {
		switch v {
		case "1", "true", "yes", "y":
			cfg.Feed.InsecureTransport = true
		case "0", "false", "no", "n":
			cfg.Feed.InsecureTransport = false
		}
	}
}

func validate(cfg Config) error {
	if len(cfg.Symbols) == 0 {
		return fmt.Errorf("config: no symbols configured")
	}
	for _, s := range cfg.Symbols {
		if s.ID == "" {
			return fmt.Errorf("config: symbol with empty id")
		}
	}
	if cfg.Feed.Endpoint == "" {
		return fmt.Errorf("config: feed endpoint is empty")
	}
	return nil
}

// QuoteSymbols converts the configured symbol table to the domain
// model, filling the defaults a sparse config leaves out.
func (c Config) QuoteSymbols() []quote.Symbol {
	out := make([]quote.Symbol, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		sep := ','
		if s.Separator != "" {
			sep = []rune(s.Separator)[0]
		}
		scale := s.Scale
		if scale == 0 {
			scale = 1
		}
		label := s.Label
		if label == "" {
			label = s.ID
		}
		out = append(out, quote.Symbol{
			ID:        s.ID,
			Label:     label,
			Scale:     scale,
			Separator: sep,
			Decimals:  s.Decimals,
		})
	}
	return out
}
