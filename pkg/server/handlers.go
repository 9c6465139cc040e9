package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/routing"
)

// chatRequest is the POST /v1/chat body.
type chatRequest struct {
	Message      string  `json:"message"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	Task         string  `json:"task,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	Model        string  `json:"model,omitempty"`
	MaxLatencyMs int     `json:"max_latency_ms,omitempty"`
	MaxCostPer1K float64 `json:"max_cost_per_1k_tokens,omitempty"`
	UserID       string  `json:"user_id,omitempty"`
	SessionID    string  `json:"session_id,omitempty"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Attempts int    `json:"attempts,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", 0)
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", 0)
		return
	}
	priority := s.opts.DefaultPriority
	if body.Priority != "" {
		var err error
		priority, err = routing.ParsePriority(body.Priority)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), 0)
			return
		}
	}

	resp, err := s.router.RouteChat(r.Context(), &routing.RouteRequest{
		Task:               routing.Task(body.Task),
		Priority:           priority,
		SystemPrompt:       body.SystemPrompt,
		UserMessage:        body.Message,
		Model:              body.Model,
		MaxLatencyMs:       body.MaxLatencyMs,
		MaxCostPer1KTokens: body.MaxCostPer1K,
		UserID:             body.UserID,
		SessionID:          body.SessionID,
	})
	if err != nil {
		s.writeRoutingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeRoutingError maps router errors onto HTTP statuses: configuration and
// capacity problems are 503, upstream exhaustion is 502.
func (s *Server) writeRoutingError(w http.ResponseWriter, err error) {
	var exhausted *routing.AttemptsExhaustedError
	switch {
	case errors.Is(err, routing.ErrProviderUnavailable), errors.Is(err, routing.ErrMisconfiguration):
		writeError(w, http.StatusServiceUnavailable, err.Error(), 0)
	case errors.As(err, &exhausted):
		writeError(w, http.StatusBadGateway, exhausted.Error(), exhausted.Attempts)
	default:
		s.logger.Error("unclassified routing error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", 0)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{"status": "ok"}
	if s.health != nil {
		payload["providers"] = s.health.SnapshotJSON()
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Stats().Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, attempts int) {
	writeJSON(w, status, errorResponse{Error: msg, Attempts: attempts})
}
