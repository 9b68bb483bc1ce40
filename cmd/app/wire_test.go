package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/syllabusparser/internal/ai"
	"github.com/local/syllabusparser/internal/config"
	"github.com/local/syllabusparser/internal/store"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider string
		want     any
	}{
		{config.ProviderGateway, &ai.GatewayClient{}},
		{config.ProviderAnthropic, &ai.AnthropicClient{}},
	}
	for _, tt := range tests {
		c := newBackend(config.BackendConfig{Provider: tt.provider, APIKey: "k", AnthropicAPIKey: "k", Timeout: time.Second})
		require.NotNil(t, c, tt.provider)
		assert.IsType(t, tt.want, c)
		assert.Equal(t, tt.provider, c.Name())
	}
	assert.Nil(t, newBackend(config.BackendConfig{Provider: config.ProviderNone}))
}

func TestBuildDependencies_InMemory(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Backend:    config.BackendConfig{Provider: config.ProviderNone},
		Server:     config.ServerConfig{MaxUploadBytes: 1 << 20, MaxInflight: 2},
		Redis:      config.RedisConfig{AnalysisTTL: time.Hour},
		Extraction: config.ExtractionConfig{PDFEngine: "native"},
	}
	deps, closeDeps, err := buildDependencies(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(closeDeps)

	assert.IsType(t, &store.MemoryCourses{}, deps.Courses)
	assert.IsType(t, &store.MemoryAnalyses{}, deps.Analyses)
	assert.IsType(t, &store.MemoryPages{}, deps.Pages)
	assert.Nil(t, deps.Archive)
	assert.Equal(t, int64(1<<20), deps.Detector.MaxSize())
}
