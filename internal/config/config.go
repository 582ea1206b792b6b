package config

import (
	"os"

	env "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Company struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type APISource struct {
	Enabled   bool      `yaml:"enabled"`
	Companies []Company `yaml:"companies"`
}

type HTMLSite struct {
	Name             string `yaml:"name"`
	URL              string `yaml:"url"`
	BaseURL          string `yaml:"base_url"`
	JobSelector      string `yaml:"job_selector"`
	TitleSelector    string `yaml:"title_selector"`
	CompanySelector  string `yaml:"company_selector"`
	LocationSelector string `yaml:"location_selector"`
	LinkSelector     string `yaml:"link_selector"`
}

type HTMLSource struct {
	Enabled bool       `yaml:"enabled"`
	Sites   []HTMLSite `yaml:"sites"` // empty = built-in site table
}

type Config struct {
	Profile struct {
		Name string `yaml:"name"`
	} `yaml:"profile"`

	Filters struct {
		TitleKeywords     []string `yaml:"title_keywords"`
		PreferredKeywords []string `yaml:"preferred_keywords"`
		ExcludeKeywords   []string `yaml:"exclude_keywords"`
		RequiredKeywords  []string `yaml:"required_keywords"`
		Location          struct {
			RemoteOnly bool     `yaml:"remote_only"`
			Preferred  []string `yaml:"preferred"`
			Excluded   []string `yaml:"excluded"`
		} `yaml:"location"`
	} `yaml:"filters"`

	Scoring struct {
		MinScore           int `yaml:"min_score"`
		MaxResults         int `yaml:"max_results"`
		TitleWeight        int `yaml:"title_weight"`
		KeywordWeight      int `yaml:"keyword_weight"`
		LocationWeight     int `yaml:"location_weight"`
		RecencyWeight      int `yaml:"recency_weight"`
		RecencyHorizonDays int `yaml:"recency_horizon_days"`
	} `yaml:"scoring"`

	Scraping struct {
		RequestDelay float64 `yaml:"request_delay"` // seconds
		Timeout      float64 `yaml:"timeout"`       // seconds
		MaxRetries   int     `yaml:"max_retries"`
		UserAgent    string  `yaml:"user_agent"`
	} `yaml:"scraping"`

	Sources struct {
		Lever      APISource  `yaml:"lever"`
		Greenhouse APISource  `yaml:"greenhouse"`
		Ashby      APISource  `yaml:"ashby"`
		HTMLBoards HTMLSource `yaml:"html_boards"`
	} `yaml:"sources"`
}

// Env holds deployment-level settings that do not belong in the profile
// file: where state lives and the webhook secret.
type Env struct {
	DataDir    string `env:"JOBSCOUT_DATA_DIR" envDefault:"."`
	WebhookURL string `env:"JOBSCOUT_WEBHOOK_URL"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func LoadEnv() (Env, error) {
	var e Env
	err := env.Parse(&e)
	return e, err
}
