package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/pipeline"
)

type askRequest struct {
	JobID    string `json:"job_id"`
	Text     string `json:"text"`
	Question string `json:"question"`
}

// handleAsk answers a question about an analyzed job's text or about text
// sent inline.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	text := req.Text
	if req.JobID != "" {
		job := s.orchestrator.GetJob(req.JobID)
		if job == nil {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		if st := job.Snapshot().Status; st == pipeline.StatusQueued || st == pipeline.StatusExtracting {
			jsonError(w, "document text not extracted yet", http.StatusConflict)
			return
		}
		text = job.Text()
	}

	ans, err := s.orchestrator.Service().Ask(r.Context(), req.Question, text)
	if err != nil {
		s.log.Warn("question answering failed", "job_id", req.JobID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// handleCompare reports the lines each uploaded document has that the other
// lacks.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	texts := make([]string, 0, 2)
	names := make([]string, 0, 2)
	for _, field := range []string{"file_a", "file_b"} {
		filename, data, ok := s.readUpload(w, r, field)
		if !ok {
			return
		}
		text, _, err := s.orchestrator.Extractor().ExtractFile(data, filename)
		if err != nil {
			writeError(w, fmt.Errorf("%s: %w", field, err))
			return
		}
		texts = append(texts, text)
		names = append(names, filename)
	}

	cmp := analysis.CompareDocuments(texts[0], texts[1])
	writeJSON(w, http.StatusOK, map[string]any{
		"file_a":       names[0],
		"file_b":       names[1],
		"missing_in_b": cmp.MissingInB,
		"missing_in_a": cmp.MissingInA,
	})
}
