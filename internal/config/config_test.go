package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Pretty)
	assert.Equal(t, 100, cfg.Logging.MaxSizeMB)
	assert.True(t, cfg.Logging.Compress)
	assert.Equal(t, "dev_syllabusparser", cfg.Axiom.Dataset)
	assert.Equal(t, 10*time.Second, cfg.Axiom.FlushInterval)

	assert.Equal(t, ProviderGateway, cfg.Backend.Provider)
	assert.Equal(t, 50000, cfg.Backend.MaxInputChars)
	assert.Equal(t, 60*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Backend.StrictSchema)

	assert.Equal(t, 30*time.Second, cfg.Breaker.BaseBackoff)
	assert.Equal(t, 5*time.Minute, cfg.Breaker.MaxBackoff)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(20<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 4, cfg.Server.MaxInflight)

	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 24*time.Hour, cfg.Redis.AnalysisTTL)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.Equal(t, "fitz", cfg.Extraction.PDFEngine)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AI_PROVIDER", " Anthropic ")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("AI_API_KEY", "sk-gw")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("AI_STRICT_SCHEMA", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("PDF_ENGINE", "native")
	t.Setenv("AXIOM_DATASET", "prod_syllabusparser")
	t.Setenv("ENVIRONMENT", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Backend.Provider)
	assert.Equal(t, "sk-ant", cfg.Backend.BackendKey())
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.Backend.StrictSchema)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "native", cfg.Extraction.PDFEngine)
	assert.Equal(t, "prod_syllabusparser", cfg.Axiom.Dataset)
	assert.True(t, cfg.Logging.Pretty)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  provider: none\nserver:\n  port: 7000\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderNone, cfg.Backend.Provider)
	assert.Equal(t, 7100, cfg.Server.Port, "env wins over yaml")
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"provider":  {"AI_PROVIDER": "openai"},
		"engine":    {"PDF_ENGINE": "poppler"},
		"port":      {"PORT": "70000"},
		"backoff":   {"BREAKER_BASE_BACKOFF": "10m", "BREAKER_MAX_BACKOFF": "1m"},
		"inflight":  {"MAX_INFLIGHT_ANALYSES": "0"},
		"gateway":   {"AI_GATEWAY_URL": "not a url"},
		"axiom":     {"SEND_LOGS_TO_AXIOM": "true"},
		"max input": {"AI_MAX_INPUT_CHARS": "10"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
