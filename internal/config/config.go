package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// UndatedPolicy decides what happens to scraped events whose date could
// not be determined: drop them, or keep them with today's date as a
// placeholder. Both behaviors shipped at different times; the choice is
// deliberately explicit.
const (
	UndatedDrop  = "drop"
	UndatedToday = "today"
)

type Config struct {
	Env        string        `yaml:"env" env:"ENV" env-default:"local"`
	EventsFile string        `yaml:"eventsFile" env:"EVENTS_FILE" env-default:"data/events.json"`
	Schedule   string        `yaml:"schedule" env:"SCHEDULE" env-default:""` // cron spec; empty = run once
	Scraper    ScraperConfig `yaml:"scraper"`
}

type ScraperConfig struct {
	Timeout          time.Duration      `yaml:"timeout" env:"SCRAPER_TIMEOUT" env-default:"30s"`
	DetailFetchLimit int                `yaml:"detailFetchLimit" env:"SCRAPER_DETAIL_LIMIT" env-default:"10"`
	UndatedPolicy    string             `yaml:"undatedPolicy" env:"SCRAPER_UNDATED_POLICY" env-default:"drop"`
	PruneExpired     bool               `yaml:"pruneExpired" env:"SCRAPER_PRUNE_EXPIRED" env-default:"false"`
	Marhaba          MarhabaConfig      `yaml:"marhaba"`
	Platinumlist     PlatinumlistConfig `yaml:"platinumlist"`
	PredictHQ        PredictHQConfig    `yaml:"predicthq"`
}

type MarhabaConfig struct {
	Enabled bool   `yaml:"enabled" env:"MARHABA_ENABLED" env-default:"true"`
	URL     string `yaml:"url" env-default:"https://marhaba.qa/events/"`
}

type PlatinumlistConfig struct {
	Enabled bool   `yaml:"enabled" env:"PLATINUMLIST_ENABLED" env-default:"false"`
	URL     string `yaml:"url" env-default:"https://doha.platinumlist.net/"`
}

type PredictHQConfig struct {
	// APIToken is optional: an empty token disables the adapter with a
	// warning instead of failing the run.
	APIToken string `yaml:"apiToken" env:"PREDICTHQ_API_KEY" env-default:""`
	URL      string `yaml:"url" env-default:"https://api.predicthq.com/v1/events/"`
	Origin   string `yaml:"origin" env-default:"25.2854,51.5310"` // Doha
	Radius   string `yaml:"radius" env-default:"50km"`
	Limit    int    `yaml:"limit" env-default:"50"`
}

// MustLoad reads the config file named by CONFIG_PATH (default
// config.yaml), applies environment overrides and panics on failure.
// A missing file is tolerated: env vars and defaults alone are enough
// for the common one-shot invocation.
func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			panic(fmt.Sprintf("cannot read config %s: %s", path, err))
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic(fmt.Sprintf("cannot read config from environment: %s", err))
		}
	}

	if cfg.Scraper.UndatedPolicy != UndatedDrop && cfg.Scraper.UndatedPolicy != UndatedToday {
		panic(fmt.Sprintf("scraper.undatedPolicy must be %q or %q, got %q",
			UndatedDrop, UndatedToday, cfg.Scraper.UndatedPolicy))
	}

	return &cfg
}
