// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SiteConfig struct {
	ID                string   `yaml:"id"`
	JobLinkSelector   string   `yaml:"job_link_selector"`
	PopupWaitMs       int      `yaml:"popup_wait_ms"`
	PopupTimeoutMs    int      `yaml:"popup_timeout_ms"`
	MaxPostingAgeDays int      `yaml:"max_posting_age_days"`
	NegativeKeywords  []string `yaml:"negative_keywords"`
	PositiveKeywords  []string `yaml:"positive_keywords"`
	Domains           []string `yaml:"domains"`
}

type Config struct {
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	//Search criteria
	Keywords       []string     `yaml:"keywords"`
	Locations      []string     `yaml:"locations"`
	Sites          []SiteConfig `yaml:"sites"`
	EntryLevelOnly bool         `yaml:"entry_level_only"`
	//Orchestration knobs
	FallbackThreshold  int `yaml:"fallback_threshold"`
	PrimaryPoolSize    int `yaml:"primary_pool_size"`
	FallbackPoolSize   int `yaml:"fallback_pool_size"`
	UnitTimeoutMinutes int `yaml:"unit_timeout_minutes"`
	MaxCandidates      int `yaml:"max_candidates"`
	//Paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	//Set default values if not set
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	if cfg.FallbackThreshold <= 0 {
		cfg.FallbackThreshold = 3
	}

	if cfg.PrimaryPoolSize <= 0 {
		cfg.PrimaryPoolSize = 3
	}

	//fallback scrapers poke anti-bot defenses harder, keep concurrency lower
	if cfg.FallbackPoolSize <= 0 {
		cfg.FallbackPoolSize = 1
	}

	if cfg.UnitTimeoutMinutes <= 0 {
		cfg.UnitTimeoutMinutes = 8
	}

	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 20
	}

	//Validate required fields
	if len(cfg.Keywords) == 0 {
		log.Fatal("at least one keyword is required")
	}

	if len(cfg.Sites) == 0 {
		log.Fatal("at least one site block is required")
	}

	return cfg
}

func (c *Config) UnitTimeout() time.Duration {
	return time.Duration(c.UnitTimeoutMinutes) * time.Minute
}
