package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prahari-ai/honeypot-platform/internal/detection"
	"github.com/prahari-ai/honeypot-platform/internal/intel"
	"github.com/prahari-ai/honeypot-platform/pkg/logging"
)

// Handler exposes the honeypot pipeline over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler wires the HTTP surface against a service.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("conversation: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type messageRequest struct {
	ConversationID string            `json:"conversation_id"`
	Message        string            `json:"message"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type agentResponse struct {
	Message        string `json:"message"`
	Strategy       string `json:"strategy"`
	AgentActivated bool   `json:"agent_activated"`
}

type engagementMetrics struct {
	TurnCount                 int     `json:"turn_count"`
	EngagementDurationSeconds float64 `json:"engagement_duration_seconds"`
	IntelligenceExtracted     int     `json:"intelligence_extracted"`
}

type messageResponse struct {
	ConversationID        string              `json:"conversation_id"`
	ScamDetection         detection.Verdict   `json:"scam_detection"`
	AgentResponse         agentResponse       `json:"agent_response"`
	EngagementMetrics     engagementMetrics   `json:"engagement_metrics"`
	ExtractedIntelligence *intel.Intelligence `json:"extracted_intelligence"`
	Timestamp             string              `json:"timestamp"`
}

type listResponse struct {
	TotalConversations int        `json:"total_conversations"`
	Conversations      []ListItem `json:"conversations"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HandleMessage ingests one scammer message and returns the full turn result.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "bad_request", "request body must be valid JSON")
		return
	}

	result, err := h.service.ProcessTurn(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			h.writeError(w, http.StatusBadRequest, "validation_error", "message is required and cannot be empty")
			return
		}
		h.logger.Error("failed to process turn", "conversation_id", req.ConversationID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to process message")
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{
		ConversationID: result.ConversationID,
		ScamDetection:  result.Verdict,
		AgentResponse: agentResponse{
			Message:        result.AgentMessage,
			Strategy:       string(result.Strategy),
			AgentActivated: result.AgentActivated,
		},
		EngagementMetrics: engagementMetrics{
			TurnCount:                 result.TurnCount,
			EngagementDurationSeconds: result.EngagementDuration.Seconds(),
			IntelligenceExtracted:     result.Intelligence.TotalRecords(),
		},
		ExtractedIntelligence: result.Intelligence,
		Timestamp:             result.Timestamp.Format(time.RFC3339),
	})
}

// GetConversation returns the full stored state for one conversation.
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	conv, err := h.service.GetConversation(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "conversation not found")
			return
		}
		h.logger.Error("failed to load conversation", "conversation_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to load conversation")
		return
	}
	h.writeJSON(w, http.StatusOK, conv)
}

// ListConversations returns summary rows for every stored conversation.
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListConversations(r.Context())
	if err != nil {
		h.logger.Error("failed to list conversations", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to list conversations")
		return
	}
	if items == nil {
		items = []ListItem{}
	}
	h.writeJSON(w, http.StatusOK, listResponse{
		TotalConversations: len(items),
		Conversations:      items,
	})
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "honeypot-platform",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, kind, message string) {
	h.writeJSON(w, status, errorResponse{Error: kind, Message: message})
}
