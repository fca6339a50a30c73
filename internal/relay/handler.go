package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Handler serves the relay's chat endpoint. It is stateless: every
// request carries the full conversation context.
type Handler struct {
	upstream Upstream
	log      *slog.Logger
}

// NewHandler creates a relay handler backed by the given upstream.
func NewHandler(upstream Upstream, log *slog.Logger) *Handler {
	return &Handler{
		upstream: upstream,
		log:      log,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// validate checks the request shape and returns one entry per
// violation, empty when the request is well-formed.
func validate(req *chatRequest) []string {
	var details []string
	if strings.TrimSpace(req.Message) == "" {
		details = append(details, "message: must contain at least 1 character")
	}
	if req.Character.Name == "" {
		details = append(details, "character.name: must contain at least 1 character")
	}
	if req.Character.Prompt == "" {
		details = append(details, "character.prompt: must contain at least 1 character")
	}
	for i, turn := range req.History {
		if turn.Role != "user" && turn.Role != "assistant" {
			details = append(details, fmt.Sprintf("history[%d].role: must be \"user\" or \"assistant\"", i))
		}
	}
	return details
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("rejected unparseable chat request", "error", err)
		JSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request format",
			Details: mustRawJSON([]string{"body: invalid JSON"}),
		})
		return
	}

	if details := validate(&req); len(details) > 0 {
		h.log.Warn("rejected invalid chat request", "details", details)
		JSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request format",
			Details: mustRawJSON(details),
		})
		return
	}

	messages := make([]UpstreamMessage, 0, len(req.History)+2)
	messages = append(messages, UpstreamMessage{
		Role:    "system",
		Content: SystemPrompt(req.Character.Name, req.Character.Prompt),
	})
	for _, turn := range req.History {
		messages = append(messages, UpstreamMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, UpstreamMessage{Role: "user", Content: req.Message})

	h.log.Info("forwarding chat turn",
		"character", req.Character.Name,
		"history_len", len(req.History),
	)

	reply, err := h.upstream.Complete(r.Context(), messages)
	if err != nil {
		var provErr *ProviderError
		if errors.As(err, &provErr) {
			h.log.Error("upstream API error", "status", provErr.Status, "details", provErr.Details)
			JSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "OpenAI API error",
				"details": provErr.Details,
			})
			return
		}
		h.log.Error("chat turn failed", "error", err)
		JSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"details": err.Error(),
		})
		return
	}

	JSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mustRawJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`[]`)
	}
	return data
}
