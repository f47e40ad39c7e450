package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/clausewise/internal/analysis"
	"github.com/dgallion1/clausewise/internal/inference"
	"github.com/dgallion1/clausewise/internal/parser"
	"github.com/dgallion1/clausewise/internal/pipeline"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// jsonWarning is used for user-correctable input problems, which the UI
// shows as warnings rather than errors.
func jsonWarning(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"warning": msg})
}

// writeError maps pipeline errors to HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var modelErr *inference.ModelError
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		jsonWarning(w, "Unsupported file format.", http.StatusBadRequest)
	case errors.Is(err, analysis.ErrEmptyContext):
		jsonWarning(w, "Please enter a question and make sure the document has text.", http.StatusUnprocessableEntity)
	case errors.Is(err, pipeline.ErrQueueFull):
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &modelErr):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":     "model call failed",
			"operation": modelErr.Operation,
			"detail":    modelErr.Message,
		})
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
