package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/app"
)

type Handlers struct {
	Q *app.QueryService
	A *app.ApprovalService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/api/reviews/approvals", h.listApprovals)
	s.mux.Get("/api/reviews/{channel}", h.getReviews)
	s.mux.Post("/api/reviews/{id}/approve", h.toggleApproval)
	s.mux.Get("/api/insights", h.getInsights)
	s.mux.Get("/api/properties/{id}", h.getProperty)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeConditional sends body with an ETag, short-circuiting to 304 when
// the client already holds this version.
func writeConditional(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

var knownChannels = map[string]bool{
	"all": true, "hostaway": true, "google": true, "airbnb": true, "booking": true,
}

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	if !knownChannels[channel] {
		writeProblem(w, http.StatusBadRequest, "Invalid channel", "unknown review channel")
		return
	}
	if channel == "all" {
		channel = ""
	}
	out, err := h.Q.GetReviews(r.Context(), channel)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to load reviews")
		return
	}
	writeConditional(w, r, out)
}

func (h *Handlers) toggleApproval(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	approved, err := h.A.Toggle(r.Context(), id)
	if err != nil {
		observability.ObserveApproval("error")
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
		return
	}
	if approved {
		observability.ObserveApproval("approved")
	} else {
		observability.ObserveApproval("unapproved")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	resp := struct {
		ID              string `json:"id"`
		ManagerApproved bool   `json:"managerApproved"`
	}{ID: id, ManagerApproved: approved}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to write toggleApproval body")
	}
}

func (h *Handlers) listApprovals(w http.ResponseWriter, r *http.Request) {
	approvals, err := h.A.Approvals(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to load approvals")
		return
	}
	if approvals == nil {
		approvals = map[string]bool{}
	}
	writeConditional(w, r, struct {
		Approvals map[string]bool `json:"approvals"`
	}{Approvals: approvals})
}

func (h *Handlers) getInsights(w http.ResponseWriter, r *http.Request) {
	listingID := r.URL.Query().Get("listingId")
	channel := r.URL.Query().Get("channel")
	if channel != "" && !knownChannels[channel] {
		writeProblem(w, http.StatusBadRequest, "Invalid channel", "unknown review channel")
		return
	}
	if channel == "all" {
		channel = ""
	}

	out, err := h.Q.GetInsights(r.Context(), listingID, channel)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to compute insights")
		return
	}

	// no ETag: insight bundles are wall-clock dependent
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("failed to write insights body")
	}
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	out, err := h.Q.GetProperty(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	writeConditional(w, r, out)
}
