package httphandler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/reviewregistry/internal/application"
	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// writeJSON encodes v without HTML escaping and writes it with status. If
// encoding fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := enc.Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}

// ReviewResponse is a registry entry together with its review id.
type ReviewResponse struct {
	ReviewID string `json:"review_id"`
	*model.Entry
}

// StateChangeResponse is one review whose state moved since the last run.
type StateChangeResponse struct {
	ReviewID string `json:"review_id"`
	From     string `json:"from,omitempty"`
	To       string `json:"to"`
}

// RegenerateResponse summarizes a regeneration.
type RegenerateResponse struct {
	GeneratedAt string                `json:"generated_at"`
	Reviews     int                   `json:"reviews"`
	Stale       int                   `json:"stale"`
	Changes     []StateChangeResponse `json:"changes"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toReviewResponse(id string, entry *model.Entry) ReviewResponse {
	return ReviewResponse{ReviewID: id, Entry: entry}
}

func toRegenerateResponse(result *application.GenerateResult) RegenerateResponse {
	changes := make([]StateChangeResponse, 0, len(result.Changes))
	for _, c := range result.Changes {
		changes = append(changes, StateChangeResponse{
			ReviewID: c.ReviewID,
			From:     string(c.From),
			To:       string(c.To),
		})
	}

	return RegenerateResponse{
		GeneratedAt: result.Registry.GeneratedAt,
		Reviews:     result.Registry.Reviews.Len(),
		Stale:       result.StaleCount,
		Changes:     changes,
	}
}
