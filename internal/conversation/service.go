package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prahari-ai/honeypot-platform/internal/detection"
	"github.com/prahari-ai/honeypot-platform/internal/engagement"
	"github.com/prahari-ai/honeypot-platform/internal/intel"
	"github.com/prahari-ai/honeypot-platform/internal/observability/metrics"
	"github.com/prahari-ai/honeypot-platform/pkg/logging"
)

// ErrEmptyMessage rejects turns with no usable message body.
var ErrEmptyMessage = errors.New("conversation: message cannot be empty")

// TurnResult is everything one processed turn produces: the updated verdict,
// the persona's reply, and the conversation's cumulative intelligence.
type TurnResult struct {
	ConversationID     string
	Verdict            detection.Verdict
	AgentMessage       string
	Strategy           engagement.Strategy
	AgentActivated     bool
	TurnCount          int
	EngagementDuration time.Duration
	Intelligence       *intel.Intelligence
	Timestamp          time.Time
}

// Service runs the honeypot pipeline: classify the incoming message, update
// conversation state, harvest intelligence and choose the persona's reply.
type Service struct {
	store   Store
	logger  *logging.Logger
	metrics *metrics.HoneypotMetrics

	// mu guards locks; each conversation gets its own mutex so concurrent
	// turns for the same id serialize without blocking other conversations.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires the pipeline against a store.
func NewService(store Store, logger *logging.Logger, m *metrics.HoneypotMetrics) *Service {
	if store == nil {
		panic("conversation: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		logger:  logger,
		metrics: m,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// ProcessTurn ingests one scammer message and returns the persona's reply
// along with the updated detection verdict and intelligence. A blank
// conversation id starts a new conversation.
func (s *Service) ProcessTurn(ctx context.Context, conversationID, message string) (*TurnResult, error) {
	started := time.Now()

	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if conversationID == "" {
		conversationID = "conv_" + uuid.NewString()
	}

	lock := s.lockFor(conversationID)
	lock.Lock()
	defer lock.Unlock()

	conv, created, err := s.loadOrCreate(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if created {
		s.metrics.ConversationStarted()
	}

	prior := conv.ScammerContents()
	now := time.Now().UTC()
	conv.Messages = append(conv.Messages, Message{
		Role:      RoleScammer,
		Content:   message,
		Timestamp: now,
	})
	conv.TurnCount++

	verdict := detection.Classify(message, prior)
	firstScamTurn := verdict.Detected && !conv.ScamDetected
	if verdict.Detected {
		conv.ScamDetected = true
		conv.AgentActivated = true
	}
	// Keep the strongest evaluation seen: a quiet later message never
	// downgrades a confirmed scam.
	if verdict.Confidence > conv.Verdict.Confidence {
		conv.Verdict = verdict
	}

	prevSummary := conv.Intelligence.Summary
	conv.Intelligence = intel.Aggregate(append(prior, message))
	s.recordExtractionDeltas(prevSummary, conv.Intelligence.Summary)

	strategy, reply := s.chooseReply(conv, message, firstScamTurn)
	conv.Messages = append(conv.Messages, Message{
		Role:      RoleAgent,
		Content:   reply,
		Timestamp: time.Now().UTC(),
		Strategy:  string(strategy),
	})

	if err := s.store.Append(ctx, conv); err != nil {
		return nil, fmt.Errorf("conversation: failed to save %s: %w", conv.ID, err)
	}

	s.metrics.ObserveTurn(string(conv.Verdict.ScamType), conv.ScamDetected, time.Since(started))
	s.metrics.ObserveQualityScore(conv.Intelligence.Summary.IntelligenceQualityScore)
	s.logger.Info("processed turn",
		"conversation_id", conv.ID,
		"turn_count", conv.TurnCount,
		"scam_detected", conv.ScamDetected,
		"scam_type", conv.Verdict.ScamType,
		"confidence", conv.Verdict.Confidence,
		"strategy", strategy,
		"intelligence_count", conv.Intelligence.TotalRecords(),
	)

	return &TurnResult{
		ConversationID:     conv.ID,
		Verdict:            conv.Verdict,
		AgentMessage:       reply,
		Strategy:           strategy,
		AgentActivated:     conv.AgentActivated,
		TurnCount:          conv.TurnCount,
		EngagementDuration: now.Sub(conv.StartTime),
		Intelligence:       conv.Intelligence,
		Timestamp:          now,
	}, nil
}

// GetConversation returns the full stored state for an id.
func (s *Service) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	return s.store.Get(ctx, id)
}

// ListConversations returns summary rows for every stored conversation.
func (s *Service) ListConversations(ctx context.Context) ([]ListItem, error) {
	return s.store.List(ctx)
}

func (s *Service) loadOrCreate(ctx context.Context, id string) (*Conversation, bool, error) {
	conv, err := s.store.Get(ctx, id)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("conversation: failed to load %s: %w", id, err)
	}

	conv = New(id)
	if err := s.store.Create(ctx, conv); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			conv, err = s.store.Get(ctx, id)
			if err != nil {
				return nil, false, fmt.Errorf("conversation: failed to reload %s: %w", id, err)
			}
			return conv, false, nil
		}
		return nil, false, fmt.Errorf("conversation: failed to create %s: %w", id, err)
	}
	return conv, true, nil
}

// chooseReply builds the strategy signals from conversation state and picks
// the persona's next message. Before the verdict crosses the threshold the
// persona holds with mild confusion and never tips its hand.
func (s *Service) chooseReply(conv *Conversation, message string, firstScamTurn bool) (engagement.Strategy, string) {
	if !conv.AgentActivated {
		return engagement.HoldingReply(conv.TurnCount)
	}

	token := s.freshPaymentToken(conv, message)
	sig := engagement.Signals{
		TurnCount:           conv.TurnCount,
		FirstScamTurn:       firstScamTurn,
		MessageHasLink:      engagement.HasLink(message),
		LinkAcknowledged:    conv.UsedStrategy(string(engagement.StrategyFeignTechnicalDifficulty)),
		NewPaymentToken:     token,
		RequestsCredentials: engagement.RequestsCredentials(message),
		AskedDirectly:       conv.UsedStrategy(string(engagement.StrategyAskForCredentials)),
		ScamType:            conv.Verdict.ScamType,
	}
	strategy, reply := engagement.Choose(sig)
	if strategy == engagement.StrategyRequestDetails && token != "" {
		conv.Referenced = append(conv.Referenced, token)
	}
	return strategy, reply
}

// freshPaymentToken finds an account- or UPI-shaped token in the current
// message that no earlier reply has referenced.
func (s *Service) freshPaymentToken(conv *Conversation, message string) string {
	for _, acct := range intel.ExtractBankAccounts(message) {
		if !conv.HasReferenced(acct.AccountNumber) {
			return acct.AccountNumber
		}
	}
	for _, upi := range intel.ExtractUPIIDs(message) {
		if !conv.HasReferenced(upi.ID) {
			return upi.ID
		}
	}
	return ""
}

func (s *Service) recordExtractionDeltas(prev, cur intel.Summary) {
	s.metrics.AddRecordsExtracted(string(intel.KindBankAccount), cur.TotalBankAccounts-prev.TotalBankAccounts)
	s.metrics.AddRecordsExtracted(string(intel.KindIFSCCode), cur.TotalIFSCCodes-prev.TotalIFSCCodes)
	s.metrics.AddRecordsExtracted(string(intel.KindUPIID), cur.TotalUPIIDs-prev.TotalUPIIDs)
	s.metrics.AddRecordsExtracted(string(intel.KindPhoneNumber), cur.TotalPhoneNumbers-prev.TotalPhoneNumbers)
	s.metrics.AddRecordsExtracted(string(intel.KindPhishingURL), cur.TotalPhishingURLs-prev.TotalPhishingURLs)
	s.metrics.AddRecordsExtracted(string(intel.KindEmail), cur.TotalEmailAddresses-prev.TotalEmailAddresses)
	s.metrics.AddRecordsExtracted(string(intel.KindAmount), cur.TotalAmountsMentioned-prev.TotalAmountsMentioned)
	s.metrics.AddRecordsExtracted(string(intel.KindPANCard), cur.TotalPANCards-prev.TotalPANCards)
	s.metrics.AddRecordsExtracted(string(intel.KindAadharNumber), cur.TotalAadharNumbers-prev.TotalAadharNumbers)
	s.metrics.AddRecordsExtracted(string(intel.KindPaymentApp), cur.TotalPaymentApps-prev.TotalPaymentApps)
}
