package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/cache"
	"github.com/dgallion1/clausewise/internal/config"
	"github.com/dgallion1/clausewise/internal/metrics"
	"github.com/dgallion1/clausewise/internal/parser"
)

type stubSummary struct {
	calls atomic.Int32
	err   error
}

func (s *stubSummary) Summarize(_ context.Context, _ string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return "stub summary", nil
}

const contract = "The Supplier shall deliver the goods. The Buyer may inspect them.\n" +
	"1. The Supplier is liable for any breach. 2. All pricing is confidential."

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(model *stubSummary, results *cache.ResultCache) *Worker {
	svc := &analysis.Service{
		Analyzer:   analysis.NewAnalyzer(nil, nil, quietLogger()),
		Summarizer: analysis.NewSummarizer(model),
	}
	return NewWorker(svc, parser.Extractor{}, results, metrics.New(), quietLogger())
}

func TestWorkerProcessCompletes(t *testing.T) {
	model := &stubSummary{}
	w := newTestWorker(model, cache.NewResultCache(time.Hour))
	job := NewJob("contract.txt", []byte(contract), analysis.DefaultOptions())

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors: %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	rep := job.Report()
	if rep == nil {
		t.Fatal("expected a report")
	}
	if rep.Summary != "stub summary" {
		t.Errorf("expected stub summary, got %q", rep.Summary)
	}
	if len(rep.Clauses) != 4 {
		t.Errorf("expected 4 clauses, got %d", len(rep.Clauses))
	}
	if rep.Filename != "contract.txt" || rep.ContentHash == "" {
		t.Errorf("expected filename and hash on report, got %q %q", rep.Filename, rep.ContentHash)
	}
	if rep.Options.Progress != nil {
		t.Error("expected progress callback stripped from stored report")
	}
	if snap.Progress.ClausesProcessed != 4 {
		t.Errorf("expected 4 clauses processed, got %d", snap.Progress.ClausesProcessed)
	}
	if job.FileData() != nil {
		t.Error("expected file data released after extraction")
	}
}

func TestWorkerProcessServesCache(t *testing.T) {
	model := &stubSummary{}
	results := cache.NewResultCache(time.Hour)
	w := newTestWorker(model, results)

	first := NewJob("a.txt", []byte(contract), analysis.DefaultOptions())
	w.Process(context.Background(), first)
	second := NewJob("b.txt", []byte(contract), analysis.DefaultOptions())
	w.Process(context.Background(), second)

	if second.Snapshot().Status != StatusCached {
		t.Fatalf("expected status %q, got %q", StatusCached, second.Snapshot().Status)
	}
	if model.calls.Load() != 1 {
		t.Errorf("expected 1 model call, got %d", model.calls.Load())
	}
	if second.Report().Filename != "b.txt" {
		t.Errorf("expected cached report relabelled, got %q", second.Report().Filename)
	}
	if first.Report().Filename != "a.txt" {
		t.Errorf("expected first report untouched, got %q", first.Report().Filename)
	}

	// Different options miss the cache.
	opts := analysis.DefaultOptions()
	opts.Timeline = false
	third := NewJob("c.txt", []byte(contract), opts)
	w.Process(context.Background(), third)
	if third.Snapshot().Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, third.Snapshot().Status)
	}
}

func TestWorkerProcessUnsupportedFormat(t *testing.T) {
	model := &stubSummary{}
	w := newTestWorker(model, nil)
	job := NewJob("sheet.csv", []byte("a,b"), analysis.DefaultOptions())

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "extracting" {
		t.Fatalf("expected failed at extracting, got %q at %q", snap.Status, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Progress.Errors)
	}
	if model.calls.Load() != 0 {
		t.Error("expected no model calls")
	}
}

func TestWorkerProcessModelFailure(t *testing.T) {
	model := &stubSummary{err: errors.New("upstream 503")}
	w := newTestWorker(model, cache.NewResultCache(time.Hour))
	job := NewJob("contract.txt", []byte(contract), analysis.DefaultOptions())

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "analyzing" {
		t.Fatalf("expected failed at analyzing, got %q at %q", snap.Status, snap.Phase)
	}
	if job.Report() != nil {
		t.Error("expected no report on failure")
	}
}

func TestOrchestratorSubmitAndQueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	svc := &analysis.Service{Analyzer: analysis.NewAnalyzer(nil, nil, quietLogger())}
	o := NewOrchestrator(cfg, svc, nil, nil, quietLogger())

	// Workers not started: the single slot fills.
	if err := o.Submit(NewJob("a.txt", []byte(contract), analysis.DefaultOptions())); err != nil {
		t.Fatalf("expected first submit to succeed, got %v", err)
	}
	overflow := NewJob("b.txt", []byte(contract), analysis.DefaultOptions())
	err := o.Submit(overflow)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if overflow.Snapshot().Status != StatusFailed {
		t.Errorf("expected overflow job failed, got %q", overflow.Snapshot().Status)
	}
	if o.GetJob(overflow.ID) == nil {
		t.Error("expected overflow job to stay visible")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestratorProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	svc := &analysis.Service{Analyzer: analysis.NewAnalyzer(nil, nil, quietLogger())}
	o := NewOrchestrator(cfg, svc, nil, nil, quietLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("a.txt", []byte(contract), analysis.DefaultOptions())
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !job.Snapshot().Status.Done() {
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, status %q", job.Snapshot().Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if job.Snapshot().Status != StatusCompleted {
		t.Errorf("expected completed, got %q", job.Snapshot().Status)
	}
}
