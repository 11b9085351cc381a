// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	LogFormat        string `mapstructure:"LOG_FORMAT"`
	GithubAPIURL     string `mapstructure:"GITHUB_API_URL"`
	PageSize         int    `mapstructure:"PAGE_SIZE"`
	SummaryFile      string `mapstructure:"SUMMARY_FILE"`
	TagsDir          string `mapstructure:"TAGS_DIR"`
	CommitsDir       string `mapstructure:"COMMITS_DIR"`
	CombinedJSONFile string `mapstructure:"COMBINED_JSON_FILE"`
	CombinedCSVFile  string `mapstructure:"COMBINED_CSV_FILE"`
	DBURL            string `mapstructure:"DB_URL"`
}

// LoadConfig reads configuration from a .env file in the working directory
// and/or environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("GITHUB_API_URL", "")
	v.SetDefault("PAGE_SIZE", 100)
	v.SetDefault("SUMMARY_FILE", "repo_summary.json")
	v.SetDefault("TAGS_DIR", "repo_tags")
	v.SetDefault("COMMITS_DIR", "repo_commits")
	v.SetDefault("COMBINED_JSON_FILE", "combined_repo_data.json")
	v.SetDefault("COMBINED_CSV_FILE", "combined_repo_data.csv")
	v.SetDefault("DB_URL", "")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and required paths.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.SummaryFile == "" {
		return errors.New("SUMMARY_FILE must not be empty")
	}
	if c.TagsDir == "" || c.CommitsDir == "" {
		return errors.New("TAGS_DIR and COMMITS_DIR must not be empty")
	}
	if c.CombinedJSONFile == "" || c.CombinedCSVFile == "" {
		return errors.New("COMBINED_JSON_FILE and COMBINED_CSV_FILE must not be empty")
	}
	return nil
}
