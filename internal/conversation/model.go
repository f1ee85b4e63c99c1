package conversation

import (
	"time"

	"github.com/prahari-ai/honeypot-platform/internal/detection"
	"github.com/prahari-ai/honeypot-platform/internal/intel"
)

// Role identifies who authored a message.
type Role string

const (
	RoleScammer Role = "scammer"
	RoleAgent   Role = "agent"
)

// Message is one conversation entry. Immutable once appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// Strategy is set on agent messages only.
	Strategy string `json:"strategy,omitempty"`
}

// Conversation is the per-sender mutable state: message log, turn counter,
// cumulative verdict and accumulated intelligence. Mutated by appends only.
type Conversation struct {
	ID             string             `json:"conversation_id"`
	Messages       []Message          `json:"messages"`
	TurnCount      int                `json:"turn_count"`
	StartTime      time.Time          `json:"start_time"`
	ScamDetected   bool               `json:"scam_detected"`
	AgentActivated bool               `json:"agent_activated"`
	// Verdict keeps the highest-confidence evaluation seen so far: a quiet
	// later turn never downgrades a confirmed scam.
	Verdict      detection.Verdict   `json:"scam_detection"`
	Intelligence *intel.Intelligence `json:"extracted_intelligence"`
	// Referenced holds payment tokens already echoed back in replies, so the
	// persona does not ask about the same account twice.
	Referenced []string `json:"referenced_entities,omitempty"`
}

// New creates an empty conversation for the given id.
func New(id string) *Conversation {
	return &Conversation{
		ID:           id,
		Messages:     []Message{},
		StartTime:    time.Now().UTC(),
		Verdict:      detection.Verdict{ScamType: detection.ScamTypeOther, Indicators: []string{}},
		Intelligence: intel.NewIntelligence(),
	}
}

// ListItem is the summary row returned by listing endpoints.
type ListItem struct {
	ConversationID    string    `json:"conversation_id"`
	ScamDetected      bool      `json:"scam_detected"`
	TurnCount         int       `json:"turn_count"`
	IntelligenceCount int       `json:"intelligence_count"`
	StartTime         time.Time `json:"start_time"`
}

// Summary produces the listing row for this conversation.
func (c *Conversation) Summary() ListItem {
	return ListItem{
		ConversationID:    c.ID,
		ScamDetected:      c.ScamDetected,
		TurnCount:         c.TurnCount,
		IntelligenceCount: c.Intelligence.TotalRecords(),
		StartTime:         c.StartTime,
	}
}

// HasReferenced reports whether the given payment token was already echoed
// back in an earlier reply.
func (c *Conversation) HasReferenced(token string) bool {
	for _, ref := range c.Referenced {
		if ref == token {
			return true
		}
	}
	return false
}

// UsedStrategy reports whether any earlier agent reply used the named
// strategy.
func (c *Conversation) UsedStrategy(name string) bool {
	for _, msg := range c.Messages {
		if msg.Role == RoleAgent && msg.Strategy == name {
			return true
		}
	}
	return false
}

// ScammerContents returns the contents of scammer-authored messages in order.
func (c *Conversation) ScammerContents() []string {
	out := make([]string, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.Role == RoleScammer {
			out = append(out, msg.Content)
		}
	}
	return out
}
