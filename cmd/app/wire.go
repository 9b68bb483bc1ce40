package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/local/syllabusparser/internal/ai"
	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/breaker"
	"github.com/local/syllabusparser/internal/config"
	"github.com/local/syllabusparser/internal/filetype"
	"github.com/local/syllabusparser/internal/limiter"
	"github.com/local/syllabusparser/internal/orchestrator"
	"github.com/local/syllabusparser/internal/statuscheck"
	"github.com/local/syllabusparser/internal/storage"
	"github.com/local/syllabusparser/internal/store"
	"github.com/local/syllabusparser/internal/textextract"
)

type stores struct {
	courses  store.Courses
	analyses store.Analyses
	pages    store.Pages
	breaker  breaker.Store
	// ping is nil for memory stores.
	ping  statuscheck.Pinger
	close func()
}

// newStores uses Redis when a URL is configured and process memory
// otherwise.
func newStores(ctx context.Context, cfg config.RedisConfig) (stores, error) {
	if cfg.URL == "" {
		log.Warn().Msg("REDIS_URL not set, courses and analyses are kept in memory")
		return stores{
			courses:  store.NewMemoryCourses(),
			analyses: store.NewMemoryAnalyses(cfg.AnalysisTTL),
			pages:    store.NewMemoryPages(cfg.AnalysisTTL),
			breaker:  breaker.NewMemoryStore(),
			close:    func() {},
		}, nil
	}
	rdb, err := store.Connect(ctx, cfg.URL)
	if err != nil {
		return stores{}, err
	}
	return stores{
		courses:  store.NewRedisCourses(rdb),
		analyses: store.NewRedisAnalyses(rdb, cfg.AnalysisTTL),
		pages:    store.NewRedisPages(rdb, cfg.AnalysisTTL),
		breaker:  breaker.NewRedisStore(rdb),
		ping:     statuscheck.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		close:    func() { _ = rdb.Close() },
	}, nil
}

// newBackend returns nil when no backend is configured.
func newBackend(cfg config.BackendConfig) ai.Client {
	opts := ai.Options{
		BaseURL:       cfg.GatewayURL,
		Model:         cfg.Model,
		Credentials:   ai.StaticCredential(cfg.BackendKey()),
		Timeout:       cfg.Timeout,
		MaxInputChars: cfg.MaxInputChars,
		StrictSchema:  cfg.StrictSchema,
	}
	switch cfg.Provider {
	case config.ProviderGateway:
		return ai.NewGatewayClient(opts)
	case config.ProviderAnthropic:
		opts.BaseURL = ""
		opts.Model = cfg.AnthropicModel
		return ai.NewAnthropicClient(opts)
	}
	return nil
}

func buildDependencies(ctx context.Context, cfg *config.Config) (orchestrator.Dependencies, func(), error) {
	st, err := newStores(ctx, cfg.Redis)
	if err != nil {
		return orchestrator.Dependencies{}, nil, err
	}

	var opts []analyzer.Option
	status := statuscheck.Options{Redis: st.ping, PDFEngine: cfg.Extraction.PDFEngine}
	client := newBackend(cfg.Backend)
	if client != nil {
		cooldown := breaker.New(st.breaker, cfg.Breaker.BaseBackoff, cfg.Breaker.MaxBackoff)
		opts = append(opts, analyzer.WithCooldown(cooldown))
		status.Cooldown = cooldown
		status.Backend = statuscheck.Backend{
			Provider:      client.Name(),
			Model:         client.Model(),
			HasCredential: cfg.Backend.BackendKey() != "",
		}
		log.Info().Str("provider", client.Name()).Str("model", client.Model()).Msg("ai backend configured")
	} else {
		log.Warn().Msg("no ai backend configured, pattern extraction only")
	}

	deps := orchestrator.Dependencies{
		Analyzer:  analyzer.New(client, opts...),
		Extractor: textextract.New(textextract.Engine(cfg.Extraction.PDFEngine)),
		Detector:  filetype.New(cfg.Server.MaxUploadBytes),
		Limiter:   limiter.New(cfg.Server.MaxInflight),
		Courses:   st.courses,
		Analyses:  st.analyses,
		Pages:     st.pages,
	}

	if cfg.Storage.Bucket != "" {
		arc, err := storage.NewArchive(ctx, storage.Options{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Passphrase:      cfg.Storage.Passphrase,
		})
		if err != nil {
			st.close()
			return orchestrator.Dependencies{}, nil, fmt.Errorf("init archive: %w", err)
		}
		deps.Archive = arc
		status.Archive = arc
		log.Info().Str("bucket", cfg.Storage.Bucket).Bool("encrypted", cfg.Storage.Passphrase != "").Msg("upload archive enabled")
	}
	deps.Status = statuscheck.New(status)
	return deps, st.close, nil
}
