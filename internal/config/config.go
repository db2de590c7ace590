package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Values come from environment
// variables with the THREATLENS_ prefix, with an optional providers.yaml
// overriding the external endpoint URLs (useful for staging sandboxes).
type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	ReputationBaseURL string
	ReputationAPIKey  string
	BreachBaseURL     string
	BreachAPIKey      string
	NewsBaseURL       string
	NewsAPIKey        string
	SummarizerBaseURL string
	SummarizerAPIKey  string
	SummarizerModel   string

	PollMaxAttempts int
	PollDelay       time.Duration

	DropDir       string
	DropScanOwner string

	DiscordToken     string
	DiscordChannelID string
}

// LoadConfig reads configuration from the environment with defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("THREATLENS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "threatlens")
	v.SetDefault("db.password", "threatlens")
	v.SetDefault("db.name", "threatlens")

	v.SetDefault("reputation.base_url", "https://www.virustotal.com/api/v3")
	v.SetDefault("breach.base_url", "https://breachdirectory.p.rapidapi.com")
	v.SetDefault("news.base_url", "https://newsapi.org/v2")
	v.SetDefault("summarizer.base_url", "https://api.openai.com/v1")
	v.SetDefault("summarizer.model", "gpt-4o-mini")

	v.SetDefault("poll.max_attempts", 5)
	v.SetDefault("poll.delay", "3s")

	v.SetDefault("drop.dir", "")
	v.SetDefault("drop.owner", "drop-folder")

	cfg := &Config{
		DBHost:     v.GetString("db.host"),
		DBPort:     v.GetInt("db.port"),
		DBUser:     v.GetString("db.user"),
		DBPassword: v.GetString("db.password"),
		DBName:     v.GetString("db.name"),

		ReputationBaseURL: v.GetString("reputation.base_url"),
		ReputationAPIKey:  v.GetString("reputation.api_key"),
		BreachBaseURL:     v.GetString("breach.base_url"),
		BreachAPIKey:      v.GetString("breach.api_key"),
		NewsBaseURL:       v.GetString("news.base_url"),
		NewsAPIKey:        v.GetString("news.api_key"),
		SummarizerBaseURL: v.GetString("summarizer.base_url"),
		SummarizerAPIKey:  v.GetString("summarizer.api_key"),
		SummarizerModel:   v.GetString("summarizer.model"),

		PollMaxAttempts: v.GetInt("poll.max_attempts"),
		PollDelay:       v.GetDuration("poll.delay"),

		DropDir:       v.GetString("drop.dir"),
		DropScanOwner: v.GetString("drop.owner"),

		DiscordToken:     v.GetString("discord.token"),
		DiscordChannelID: v.GetString("discord.channel_id"),
	}

	if path := v.GetString("providers.file"); path != "" {
		if err := applyEndpointOverrides(cfg, path); err != nil {
			return nil, fmt.Errorf("apply provider overrides: %w", err)
		}
	}

	if cfg.PollMaxAttempts < 1 {
		return nil, fmt.Errorf("poll.max_attempts must be at least 1, got %d", cfg.PollMaxAttempts)
	}
	if cfg.PollDelay < 0 {
		return nil, fmt.Errorf("poll.delay must not be negative, got %s", cfg.PollDelay)
	}

	return cfg, nil
}

type endpointOverrides struct {
	Reputation string `yaml:"reputation,omitempty"`
	Breach     string `yaml:"breach,omitempty"`
	News       string `yaml:"news,omitempty"`
	Summarizer string `yaml:"summarizer,omitempty"`
}

func applyEndpointOverrides(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var overrides endpointOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return err
	}

	if overrides.Reputation != "" {
		cfg.ReputationBaseURL = overrides.Reputation
	}
	if overrides.Breach != "" {
		cfg.BreachBaseURL = overrides.Breach
	}
	if overrides.News != "" {
		cfg.NewsBaseURL = overrides.News
	}
	if overrides.Summarizer != "" {
		cfg.SummarizerBaseURL = overrides.Summarizer
	}
	return nil
}
