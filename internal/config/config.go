// internal/config/config.go
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SourceConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"base_url,omitempty"`
	ResultsPerPage int    `yaml:"results_per_page,omitempty"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	// Keyword pools. locations[0] is the primary location hint.
	JobTitles []string `yaml:"job_titles"`
	Tools     []string `yaml:"tools_technologies"`
	Topics    []string `yaml:"topics"`
	Locations []string `yaml:"locations"`

	Sources map[string]SourceConfig `yaml:"sources"`

	Scraping struct {
		WorkersAPI       int `yaml:"workers_api"`
		WorkersScrape    int `yaml:"workers_scrape"`
		MaxJobsPerSource int `yaml:"max_jobs_per_source"`
	} `yaml:"scraping"`

	Filters struct {
		KeywordsInclude  []string `yaml:"keywords_include"`
		KeywordsExclude  []string `yaml:"keywords_exclude"`
		LocationsInclude []string `yaml:"locations_include"`
		LocationsExclude []string `yaml:"locations_exclude"`
	} `yaml:"filters"`

	DataStorage struct {
		SQLitePath string `yaml:"sqlite_path"`
		StatsDir   string `yaml:"stats_dir"`
		CSV        struct {
			ExportEnabled bool   `yaml:"export_enabled"`
			ExportDir     string `yaml:"export_dir"`
		} `yaml:"csv"`
	} `yaml:"data_storage"`

	Schedule struct {
		IntervalMinutes int `yaml:"interval_minutes"` // 0 = single run
	} `yaml:"schedule"`
}

// Load reads the YAML settings file. Secrets (API keys) live in .env next
// to nothing in particular; godotenv merges them into the environment and
// connectors read them with os.Getenv. A missing .env is not an error,
// scrape-only setups have no secrets.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "data"
	}
	if cfg.Scraping.WorkersAPI == 0 {
		cfg.Scraping.WorkersAPI = 3
	}
	if cfg.Scraping.WorkersScrape == 0 {
		w := cfg.Scraping.WorkersAPI
		if w > 2 {
			w = 2
		}
		cfg.Scraping.WorkersScrape = w
	}
	if cfg.Scraping.MaxJobsPerSource == 0 {
		cfg.Scraping.MaxJobsPerSource = 50
	}
	if cfg.DataStorage.SQLitePath == "" {
		cfg.DataStorage.SQLitePath = "data/jobs.db"
	}
	if cfg.DataStorage.StatsDir == "" {
		cfg.DataStorage.StatsDir = "data/stats"
	}
	if cfg.DataStorage.CSV.ExportDir == "" {
		cfg.DataStorage.CSV.ExportDir = "data/csv"
	}
}
