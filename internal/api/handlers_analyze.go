package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/parser"
	"github.com/dgallion1/clausewise/internal/pipeline"
	"github.com/dgallion1/clausewise/internal/report"
)

var errFileTooLarge = errors.New("file exceeds max size")

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	filename, data, ok := s.readUpload(w, r, "file")
	if !ok {
		return
	}

	opts := analysis.DefaultOptions()
	opts.Timeline = formBool(r, "timeline", opts.Timeline)
	opts.Tone = formBool(r, "tone", opts.Tone)
	opts.ContinueOnError = formBool(r, "continue_on_error", s.cfg.ContinueOnError)

	job := pipeline.NewJob(filename, data, opts)
	if err := s.orchestrator.Submit(job); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/analyze/%s/status", job.ID),
	})
}

// readUpload reads one multipart file field, rejecting unsupported
// extensions and oversized files. It writes the error response itself.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		jsonError(w, field+" is required: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		writeError(w, fmt.Errorf("%s: %w", filename, parser.ErrUnsupportedFormat))
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("%s (%d bytes)", errFileTooLarge, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

func formBool(r *http.Request, key string, def bool) bool {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// finishedReport looks up a job's report. It writes the error response
// itself when the job is missing, failed or still running.
func (s *Server) finishedReport(w http.ResponseWriter, r *http.Request) (*analysis.Report, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	snap := job.Snapshot()
	switch {
	case snap.Status == pipeline.StatusFailed:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "analysis failed",
			"status": snap.Status,
			"phase":  snap.Phase,
			"errors": snap.Progress.Errors,
		})
		return nil, false
	case !snap.Status.Done():
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "analysis not finished",
			"status": snap.Status,
		})
		return nil, false
	}
	return job.Report(), true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.finishedReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.finishedReport(w, r)
	if !ok {
		return
	}

	base := strings.TrimSuffix(rep.Filename, fileExt(rep.Filename))
	if base == "" {
		base = "report"
	}

	var (
		body        []byte
		contentType string
		ext         string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "xlsx":
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, rep); err != nil {
			writeError(w, err)
			return
		}
		body, contentType, ext = buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	case "md":
		body, contentType, ext = []byte(report.Markdown(rep)), "text/markdown; charset=utf-8", "md"
	case "html":
		html, err := report.HTML(rep)
		if err != nil {
			writeError(w, err)
			return
		}
		body, contentType, ext = []byte(html), "text/html; charset=utf-8", "html"
	case "txt":
		body, contentType, ext = []byte(report.SummaryText(rep)), "text/plain; charset=utf-8", "txt"
	default:
		jsonError(w, fmt.Sprintf("unknown export format %q", format), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_analysis.%s"`, base, ext))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func fileExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}
