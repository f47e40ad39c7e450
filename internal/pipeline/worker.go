package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/cache"
	"github.com/dgallion1/clausewise/internal/metrics"
	"github.com/dgallion1/clausewise/internal/parser"
)

// Worker processes a single document job start to finish.
type Worker struct {
	svc       *analysis.Service
	extractor parser.Extractor
	results   *cache.ResultCache
	metrics   *metrics.Metrics
	log       *slog.Logger
}

func NewWorker(svc *analysis.Service, extractor parser.Extractor, results *cache.ResultCache, m *metrics.Metrics, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		svc:       svc,
		extractor: extractor,
		results:   results,
		metrics:   m,
		log:       log,
	}
}

// Process extracts the document text, then summarizes and analyzes it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()
	if w.metrics != nil {
		w.metrics.StartAnalysis()
	}
	finish := func(status JobStatus, rep *analysis.Report) {
		if w.metrics != nil {
			w.metrics.FinishAnalysis(string(status), time.Since(start), rep)
		}
	}

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	text, format, err := w.extractor.ExtractFile(job.FileData(), job.Filename)
	if err != nil {
		log.Error("text extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		finish(StatusFailed, nil)
		return
	}
	hash := cache.ContentHash(text)
	job.SetText(text, hash)
	log = log.With("format", string(format), "content_hash", hash[:12])

	// Phase 1.5: Cached result
	opts := job.Options
	key := cache.Key(hash, opts)
	if rep, ok := w.results.Get(key); ok {
		rep.Filename = job.Filename
		job.SetReport(rep)
		job.SetStatus(StatusCached, "done")
		if w.metrics != nil {
			w.metrics.CacheHit()
		}
		log.Info("served cached analysis", "clauses", len(rep.Clauses))
		finish(StatusCached, rep)
		return
	}

	// Phase 2: Summarize and analyze
	job.SetStatus(StatusAnalyzing, "analyzing")
	opts.Progress = job.SetProgress
	rep, err := w.svc.Analyze(ctx, text, opts)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "analyzing")
		finish(StatusFailed, nil)
		return
	}
	rep.Filename = job.Filename
	rep.ContentHash = hash
	rep.Options.Progress = nil

	failed := 0
	for _, c := range rep.Clauses {
		if c.Error != "" {
			failed++
			job.AddError(fmt.Sprintf("clause %d: %s", c.Index, c.Error))
		}
	}

	w.results.Set(key, rep)
	job.SetReport(rep)
	job.SetStatus(StatusCompleted, "done")
	log.Info("analysis complete",
		"clauses", len(rep.Clauses),
		"failed_clauses", failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	finish(StatusCompleted, rep)
}
