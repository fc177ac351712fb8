package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY",
		"FINANCEFLOW_AI_API_KEY",
		"FINANCEFLOW_SERVER_PORT",
		"FINANCEFLOW_LOG_LEVEL",
		"FINANCEFLOW_LOG_FORMAT",
		"FINANCEFLOW_AI_MODEL",
		"FINANCEFLOW_AI_TIMEOUT_SECONDS",
		"FINANCEFLOW_LEDGER_SEED_DEMO",
		"FINANCEFLOW_INSIGHTS_WORKERS",
		"FINANCEFLOW_INSIGHTS_QUEUE_SIZE",
		"FINANCEFLOW_EXPORT_CSV_PATH",
		"FINANCEFLOW_EXPORT_GCS_BUCKET",
		"FINANCEFLOW_EXPORT_BIGQUERY_PROJECT",
		"FINANCEFLOW_EXPORT_BIGQUERY_DATASET",
		"FINANCEFLOW_EXPORT_BIGQUERY_TABLE",
		"FINANCEFLOW_EXPORT_NOTION_TOKEN",
		"FINANCEFLOW_EXPORT_NOTION_DATABASE_ID",
		"FINANCEFLOW_EXPORT_NOTION_DRY_RUN",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "", cfg.AI.APIKey)
	assert.Equal(t, "gemini-3-flash-preview", cfg.AI.Model)
	assert.Equal(t, time.Duration(0), cfg.AITimeout())
	assert.True(t, cfg.Ledger.SeedDemo)
	assert.Equal(t, 1, cfg.Insights.Workers)
	assert.Equal(t, 16, cfg.Insights.QueueSize)
	assert.Equal(t, "exports", cfg.Export.GCSPrefix)
	assert.False(t, cfg.Export.BigQueryEnabled())
	assert.False(t, cfg.Export.NotionEnabled())
	assert.False(t, cfg.Export.NotionDryRun)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	for key, value := range map[string]string{
		"FINANCEFLOW_SERVER_PORT":               "9090",
		"FINANCEFLOW_LOG_LEVEL":                 "debug",
		"FINANCEFLOW_LOG_FORMAT":                "json",
		"FINANCEFLOW_AI_TIMEOUT_SECONDS":        "15",
		"FINANCEFLOW_LEDGER_SEED_DEMO":          "false",
		"FINANCEFLOW_INSIGHTS_WORKERS":          "3",
		"FINANCEFLOW_EXPORT_GCS_BUCKET":         "ff-exports",
		"FINANCEFLOW_EXPORT_NOTION_TOKEN":       "secret_x",
		"FINANCEFLOW_EXPORT_NOTION_DATABASE_ID": "db-1",
		"FINANCEFLOW_EXPORT_NOTION_DRY_RUN":     "true",
		"GEMINI_API_KEY":                        "test-api-key",
	} {
		t.Setenv(key, value)
	}

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 15*time.Second, cfg.AITimeout())
	assert.False(t, cfg.Ledger.SeedDemo)
	assert.Equal(t, 3, cfg.Insights.Workers)
	assert.Equal(t, "ff-exports", cfg.Export.GCSBucket)
	assert.True(t, cfg.Export.NotionEnabled())
	assert.True(t, cfg.Export.NotionDryRun)
	assert.Equal(t, "test-api-key", cfg.AI.APIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	path := filepath.Join(t.TempDir(), "financeflow.yaml")
	content := `
server:
  port: 7000
log:
  level: warn
ai:
  model: gemini-test
export:
  bigquery_project: proj
  bigquery_dataset: finance
  bigquery_table: transactions
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("FINANCEFLOW_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Log.Level, "environment wins over the file")
	assert.Equal(t, "gemini-test", cfg.AI.Model)
	assert.True(t, cfg.Export.BigQueryEnabled())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearTestEnvVars(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValue(t *testing.T) {
	clearTestEnvVars(t)
	t.Setenv("FINANCEFLOW_LOG_FORMAT", "xml")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Server.Port = 8080
		c.Log.Level = "info"
		c.Log.Format = "console"
		c.Insights.Workers = 1
		c.Insights.QueueSize = 16
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty level", mutate: func(c *Config) { c.Log.Level = "" }, wantErr: true},
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.AI.TimeoutSeconds = -1 }, wantErr: true},
		{name: "no workers", mutate: func(c *Config) { c.Insights.Workers = 0 }, wantErr: true},
		{name: "no queue", mutate: func(c *Config) { c.Insights.QueueSize = 0 }, wantErr: true},
		{name: "partial bigquery", mutate: func(c *Config) { c.Export.BigQueryProject = "p" }, wantErr: true},
		{name: "notion token only", mutate: func(c *Config) { c.Export.NotionToken = "t" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
