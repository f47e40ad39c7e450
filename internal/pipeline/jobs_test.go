package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/clausewise/internal/analysis"
)

func TestNewJob(t *testing.T) {
	job := NewJob("nda.txt", []byte("content"), analysis.DefaultOptions())
	if job.ID == "" {
		t.Fatal("expected a job ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if string(job.FileData()) != "content" {
		t.Errorf("expected file data to be kept, got %q", job.FileData())
	}
	other := NewJob("nda.txt", nil, analysis.DefaultOptions())
	if other.ID == job.ID {
		t.Error("expected distinct job IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusExtracting, "extracting"},
		{StatusAnalyzing, "analyzing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusCached} {
		if !s.Done() {
			t.Errorf("expected %q to be terminal", s)
		}
	}
	for _, s := range []JobStatus{StatusQueued, StatusExtracting, StatusAnalyzing} {
		if s.Done() {
			t.Errorf("expected %q to be non-terminal", s)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("clause 3: model unavailable")
	job.AddError("clause 7: model unavailable")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "clause 3: model unavailable" {
		t.Errorf("expected first error %q, got %q", "clause 3: model unavailable", snap.Progress.Errors[0])
	}
}

func TestJob_SetProgress(t *testing.T) {
	job := &Job{ID: "progress-test", UpdatedAt: time.Now()}
	job.SetProgress(1, 4)
	job.SetProgress(3, 4)

	snap := job.Snapshot()
	if snap.Progress.ClausesProcessed != 3 || snap.Progress.TotalClauses != 4 {
		t.Errorf("expected 3/4 clauses, got %d/%d", snap.Progress.ClausesProcessed, snap.Progress.TotalClauses)
	}
}

func TestJob_SetTextReleasesFileData(t *testing.T) {
	job := NewJob("a.txt", []byte("raw"), analysis.DefaultOptions())
	job.SetText("extracted", "abc123")

	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}
	if job.Text() != "extracted" {
		t.Errorf("expected text %q, got %q", "extracted", job.Text())
	}
	if job.Snapshot().ContentHash != "abc123" {
		t.Errorf("expected content hash in snapshot")
	}
}

func TestJob_SetReport(t *testing.T) {
	job := &Job{ID: "report-test"}
	if job.Report() != nil {
		t.Fatal("expected nil report before completion")
	}
	rep := &analysis.Report{Clauses: make([]analysis.ClauseResult, 5)}
	job.SetReport(rep)
	if job.Report() != rep {
		t.Error("expected stored report")
	}
	if p := job.Snapshot().Progress; p.TotalClauses != 5 || p.ClausesProcessed != 5 {
		t.Errorf("expected progress 5/5, got %d/%d", p.ClausesProcessed, p.TotalClauses)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
