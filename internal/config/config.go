// Package config loads FinanceFlow settings with viper: defaults, then an
// optional config.yaml, then FINANCEFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g. FINANCEFLOW_SERVER_PORT.
const EnvPrefix = "FINANCEFLOW"

// Config is the complete application configuration.
type Config struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	AI struct {
		APIKey         string `mapstructure:"api_key"`
		Model          string `mapstructure:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"ai"`

	Ledger struct {
		SeedDemo bool `mapstructure:"seed_demo"`
	} `mapstructure:"ledger"`

	Insights struct {
		Workers   int `mapstructure:"workers"`
		QueueSize int `mapstructure:"queue_size"`
	} `mapstructure:"insights"`

	Export ExportConfig `mapstructure:"export"`
}

// ExportConfig selects the snapshot export sinks. A sink is enabled when its
// destination is set.
type ExportConfig struct {
	CSVPath          string `mapstructure:"csv_path"`
	GCSBucket        string `mapstructure:"gcs_bucket"`
	GCSPrefix        string `mapstructure:"gcs_prefix"`
	CredentialsFile  string `mapstructure:"credentials_file"`
	BigQueryProject  string `mapstructure:"bigquery_project"`
	BigQueryDataset  string `mapstructure:"bigquery_dataset"`
	BigQueryTable    string `mapstructure:"bigquery_table"`
	NotionToken      string `mapstructure:"notion_token"`
	NotionDatabaseID string `mapstructure:"notion_database_id"`
	// NotionDryRun logs the page writes a Notion sync would make without
	// making them.
	NotionDryRun bool `mapstructure:"notion_dry_run"`
}

// BigQueryEnabled reports whether all BigQuery coordinates are set.
func (e ExportConfig) BigQueryEnabled() bool {
	return e.BigQueryProject != "" && e.BigQueryDataset != "" && e.BigQueryTable != ""
}

// NotionEnabled reports whether both Notion settings are set.
func (e ExportConfig) NotionEnabled() bool {
	return e.NotionToken != "" && e.NotionDatabaseID != ""
}

// AITimeout returns the per-request timeout, zero when unbounded.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// Load reads the configuration. configFile, when not empty, replaces the
// default config.yaml search. A .env file in the working directory is loaded
// into the environment first; a missing one is fine.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.financeflow")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Load: read config file: %w", err)
		}
	}

	// The Gemini key keeps its conventional unprefixed name.
	if err := v.BindEnv("ai.api_key", EnvPrefix+"_AI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("Load: bind GEMINI_API_KEY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("Load: unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Load: invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gemini-3-flash-preview")
	v.SetDefault("ai.timeout_seconds", 0)

	v.SetDefault("ledger.seed_demo", true)

	v.SetDefault("insights.workers", 1)
	v.SetDefault("insights.queue_size", 16)

	v.SetDefault("export.csv_path", "")
	v.SetDefault("export.gcs_bucket", "")
	v.SetDefault("export.gcs_prefix", "exports")
	v.SetDefault("export.credentials_file", "")
	v.SetDefault("export.bigquery_project", "")
	v.SetDefault("export.bigquery_dataset", "")
	v.SetDefault("export.bigquery_table", "")
	v.SetDefault("export.notion_token", "")
	v.SetDefault("export.notion_database_id", "")
	v.SetDefault("export.notion_dry_run", false)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil || c.Log.Level == "" {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q (must be 'console' or 'json')", c.Log.Format)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", c.Server.Port)
	}

	if c.AI.TimeoutSeconds < 0 || c.AI.TimeoutSeconds > 300 {
		return fmt.Errorf("ai.timeout_seconds must be between 0 and 300, got: %d", c.AI.TimeoutSeconds)
	}

	if c.Insights.Workers < 1 || c.Insights.Workers > 32 {
		return fmt.Errorf("insights.workers must be between 1 and 32, got: %d", c.Insights.Workers)
	}

	if c.Insights.QueueSize < 1 {
		return fmt.Errorf("insights.queue_size must be positive, got: %d", c.Insights.QueueSize)
	}

	e := c.Export
	bq := []string{e.BigQueryProject, e.BigQueryDataset, e.BigQueryTable}
	set := 0
	for _, s := range bq {
		if s != "" {
			set++
		}
	}
	if set != 0 && set != len(bq) {
		return fmt.Errorf("export.bigquery_project, export.bigquery_dataset and export.bigquery_table must be set together")
	}

	if (e.NotionToken == "") != (e.NotionDatabaseID == "") {
		return fmt.Errorf("export.notion_token and export.notion_database_id must be set together")
	}

	return nil
}
