// Package bootstrap wires configuration into model clients, the analysis
// service and the job pipeline. The server and the CLI share it.
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/cache"
	"github.com/dgallion1/clausewise/internal/config"
	"github.com/dgallion1/clausewise/internal/inference"
	"github.com/dgallion1/clausewise/internal/metrics"
	"github.com/dgallion1/clausewise/internal/pipeline"
)

// statsWindow is how far back /api/stats/models looks.
const statsWindow = time.Hour

type generativeModel interface {
	analysis.SummaryModel
	analysis.QuestionAnswerer
}

// App holds the long-lived components built from a Config.
type App struct {
	Config  config.Config
	Log     *slog.Logger
	Metrics *metrics.Metrics
	Stats   *inference.LatencyStats
	Guard   *inference.Guard
	HF      *inference.HFClient
	Service *analysis.Service
	Cache   *cache.ResultCache

	closers []func()
}

// New builds the model clients and the analysis service. Models are created
// once and shared for the life of the process.
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	m := metrics.New()
	stats := inference.NewLatencyStats(statsWindow)
	guard := inference.NewGuard(inference.GuardConfig{
		RateLimit:           cfg.ModelRateLimit,
		RateBurst:           cfg.ModelRateBurst,
		BreakerEnabled:      cfg.BreakerEnabled,
		BreakerMinRequests:  cfg.BreakerMinRequests,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  cfg.BreakerOpenTimeout,
	}, stats, m, log)

	hf := inference.NewHFClient(inference.HFConfig{
		BaseURL:        cfg.HFBaseURL,
		Token:          cfg.HFAPIToken,
		SentimentModel: cfg.SentimentModel,
		EmotionModel:   cfg.EmotionModel,
		SummaryModel:   cfg.SummaryModel,
		QAModel:        cfg.QAModel,
		Timeout:        cfg.ModelTimeout,
	}, guard)

	app := &App{
		Config:  cfg,
		Log:     log,
		Metrics: m,
		Stats:   stats,
		Guard:   guard,
		HF:      hf,
		Cache:   cache.NewResultCache(cfg.CacheTTL),
		closers: []func(){hf.Close},
	}

	var gen generativeModel
	switch cfg.GenerativeBackend {
	case config.BackendHuggingFace, "":
		gen = hf
	case config.BackendAnthropic:
		c := inference.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.ModelTimeout, guard)
		app.closers = append(app.closers, c.Close)
		gen = c
	case config.BackendOpenAI:
		gen = inference.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, guard)
	default:
		return nil, fmt.Errorf("unknown generative backend %q", cfg.GenerativeBackend)
	}

	app.Service = &analysis.Service{
		Analyzer:   analysis.NewAnalyzer(analysis.NewToneAnalyzer(hf, hf), nil, log),
		Summarizer: analysis.NewSummarizer(gen),
		QA:         gen,
	}
	log.Debug("models configured",
		"backend", cfg.GenerativeBackend,
		"sentiment_model", cfg.SentimentModel,
		"emotion_model", cfg.EmotionModel,
	)
	return app, nil
}

// DefaultOptions returns analysis options with the configured failure policy.
func (a *App) DefaultOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.ContinueOnError = a.Config.ContinueOnError
	return opts
}

// NewOrchestrator builds the job pipeline on top of the app's service.
func (a *App) NewOrchestrator() *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(a.Config, a.Service, a.Cache, a.Metrics, a.Log)
}

// Close releases idle model connections.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}
