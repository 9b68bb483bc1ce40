// Package analyzer turns document text into a normalized CourseData. It
// tries the structured-output backend once and falls back to pattern
// extraction on any failure, recording which path was taken.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/syllabusparser/internal/ai"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/metrics"
	"github.com/local/syllabusparser/internal/patterns"
)

// ErrExtractionFailed is the only analysis error a user sees: pattern
// extraction itself broke.
var ErrExtractionFailed = errors.New("could not extract course data")

const (
	ConfidenceAI       = 0.95
	ConfidenceFallback = 0.3
	// ConfidenceUnparsed is used when the backend answered but its payload
	// was unusable.
	ConfidenceUnparsed = 0.2
)

type Path string

const (
	PathAI       Path = "ai"
	PathFallback Path = "fallback"
	PathFailed   Path = "failed"
)

// Analysis is the outcome of one document analysis.
type Analysis struct {
	ID            string            `json:"analysis_id"`
	Data          course.CourseData `json:"extractedData"`
	Confidence    float64           `json:"confidence"`
	ExtractionLog []string          `json:"extractionLog"`
	Path          Path              `json:"path"`
	Provider      string            `json:"provider,omitempty"`
	Model         string            `json:"model,omitempty"`
	FailureKind   ai.Kind           `json:"failure_kind,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Cooldown is consulted before each backend call and told about its
// outcome. *breaker.Breaker implements it.
type Cooldown interface {
	IsOpen(ctx context.Context, provider, model string) (bool, string)
	Open(ctx context.Context, provider, model, reason string) time.Duration
	Close(ctx context.Context, provider, model string)
}

type Analyzer struct {
	client   ai.Client
	cooldown Cooldown
	extract  func(text string) (course.CourseData, error)
	now      func() time.Time
}

type Option func(*Analyzer)

func WithCooldown(c Cooldown) Option { return func(a *Analyzer) { a.cooldown = c } }

// WithExtractor replaces the pattern extractor.
func WithExtractor(fn func(string) (course.CourseData, error)) Option {
	return func(a *Analyzer) { a.extract = fn }
}

// New builds an Analyzer. A nil client means no backend is configured and
// every analysis uses pattern extraction.
func New(client ai.Client, opts ...Option) *Analyzer {
	a := &Analyzer{client: client, extract: patterns.Extract, now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze runs the backend path, or the pattern path when the backend is
// unavailable or fails. Only a broken pattern extractor yields an error,
// wrapping ErrExtractionFailed.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Analysis, error) {
	start := a.now()
	an := Analysis{ID: uuid.NewString(), CreatedAt: start}

	if res, ok := a.tryBackend(ctx, text, &an); ok {
		an.Data = course.Normalize(res.Candidate)
		an.Path = PathAI
		an.Confidence = ConfidenceAI
	} else {
		raw, err := a.extract(text)
		if err != nil {
			metrics.IncAnalysis(string(PathFailed))
			log.Error().Err(err).Str("analysis_id", an.ID).Msg("pattern extraction failed")
			return Analysis{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		an.Data = course.Normalize(raw)
		an.Path = PathFallback
		an.ExtractionLog = append(an.ExtractionLog, "Pattern extraction completed")
	}

	if !an.Data.WeightsBalanced() {
		an.ExtractionLog = append(an.ExtractionLog, weightAdvisory(an.Data))
	}

	metrics.IncAnalysis(string(an.Path))
	log.Info().
		Str("analysis_id", an.ID).
		Str("path", string(an.Path)).
		Str("failure_kind", string(an.FailureKind)).
		Float64("confidence", an.Confidence).
		Dur("elapsed", a.now().Sub(start)).
		Msg("document analyzed")
	return an, nil
}

// ErrNoBackend is returned by AnalyzeRemote when no backend is configured.
var ErrNoBackend = errors.New("no AI backend configured")

// AnalyzeRemote runs only the backend path, without falling back. Errors
// keep their ai sentinels so callers can tell rate limits and quota
// failures apart; an open cooldown reports the error that opened it.
func (a *Analyzer) AnalyzeRemote(ctx context.Context, text string) (Analysis, error) {
	start := a.now()
	an := Analysis{ID: uuid.NewString(), CreatedAt: start, Path: PathAI}
	if a.client == nil {
		return Analysis{}, ErrNoBackend
	}
	an.Provider, an.Model = a.client.Name(), a.client.Model()

	if open, reason := a.coolingDown(ctx); open {
		return Analysis{}, cooldownError(ai.Kind(reason))
	}
	res, err := a.callBackend(ctx, text, an.ID)
	if err != nil {
		return Analysis{}, err
	}
	an.Data = course.Normalize(res.Candidate)
	an.Confidence = ConfidenceAI
	an.ExtractionLog = successLog(res, an.Provider, an.Model)
	if !an.Data.WeightsBalanced() {
		an.ExtractionLog = append(an.ExtractionLog, weightAdvisory(an.Data))
	}
	metrics.IncAnalysis(string(PathAI))
	log.Info().
		Str("analysis_id", an.ID).
		Str("provider", an.Provider).
		Dur("elapsed", a.now().Sub(start)).
		Msg("document analyzed by backend")
	return an, nil
}

func cooldownError(kind ai.Kind) error {
	if kind == ai.KindPaymentRequired {
		return fmt.Errorf("backend cooling down: %w", ai.ErrPaymentRequired)
	}
	return fmt.Errorf("backend cooling down: %w", ai.ErrRateLimited)
}

func (a *Analyzer) coolingDown(ctx context.Context) (bool, string) {
	if a.cooldown == nil {
		return false, ""
	}
	open, reason := a.cooldown.IsOpen(ctx, a.client.Name(), a.client.Model())
	if open {
		metrics.BreakerSkipped(a.client.Name(), a.client.Model())
	}
	return open, reason
}

// callBackend makes one backend request, records it and moves the cooldown.
func (a *Analyzer) callBackend(ctx context.Context, text, analysisID string) (ai.Result, error) {
	provider, model := a.client.Name(), a.client.Model()
	callStart := a.now()
	res, err := a.client.Extract(ctx, text)
	kind := ai.Classify(err)
	result := "ok"
	if err != nil {
		result = string(kind)
	}
	metrics.ObserveBackend(provider, model, result, a.now().Sub(callStart))

	if err != nil {
		log.Warn().Err(err).
			Str("analysis_id", analysisID).
			Str("provider", provider).
			Str("model", model).
			Str("kind", string(kind)).
			Msg("backend extraction failed")
		if a.cooldown != nil && kind.Cooldown() {
			a.cooldown.Open(ctx, provider, model, string(kind))
		}
		return ai.Result{}, err
	}
	if a.cooldown != nil {
		a.cooldown.Close(ctx, provider, model)
	}
	return res, nil
}

func successLog(res ai.Result, provider, model string) []string {
	out := []string{fmt.Sprintf("Successfully analyzed with %s (%s)", provider, model)}
	if res.SchemaErr != nil {
		out = append(out, "Schema check: "+res.SchemaErr.Error())
	}
	return out
}

func weightAdvisory(c course.CourseData) string {
	return fmt.Sprintf("Grading weights total %.0f%%, expected 100%%", c.TotalWeight()*100)
}

// tryBackend makes the single backend attempt. On failure it records why in
// an and sets the fallback confidence.
func (a *Analyzer) tryBackend(ctx context.Context, text string, an *Analysis) (ai.Result, bool) {
	an.Confidence = ConfidenceFallback
	if a.client == nil {
		an.ExtractionLog = append(an.ExtractionLog, "No AI backend configured, using pattern extraction")
		return ai.Result{}, false
	}
	an.Provider, an.Model = a.client.Name(), a.client.Model()

	if open, reason := a.coolingDown(ctx); open {
		an.FailureKind = ai.Kind(reason)
		an.ExtractionLog = append(an.ExtractionLog,
			fmt.Sprintf("Backend cooling down after %s, using pattern extraction", reason))
		return ai.Result{}, false
	}

	res, err := a.callBackend(ctx, text, an.ID)
	if err != nil {
		kind := ai.Classify(err)
		an.FailureKind = kind
		an.ExtractionLog = append(an.ExtractionLog,
			fmt.Sprintf("AI analysis failed (%s), using pattern extraction", kind),
			"Error: "+err.Error())
		if kind == ai.KindParse {
			an.Confidence = ConfidenceUnparsed
		}
		return ai.Result{}, false
	}
	an.ExtractionLog = append(an.ExtractionLog, successLog(res, an.Provider, an.Model)...)
	return res, true
}
