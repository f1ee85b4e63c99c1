package engagement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prahari-ai/honeypot-platform/internal/detection"
)

// Strategy names the conversational tactic the agent persona uses for a turn.
type Strategy string

const (
	// StrategyInitialEngagement is the holding reply before a verdict crosses
	// the detection threshold.
	StrategyInitialEngagement Strategy = "initial_engagement"

	StrategyInitialConfusion         Strategy = "initial_confusion"
	StrategyShowInterest             Strategy = "show_interest"
	StrategyRequestDetails           Strategy = "request_details"
	StrategyFeignTechnicalDifficulty Strategy = "feign_technical_difficulty"
	StrategyGradualCompliance        Strategy = "gradual_compliance"
	StrategyAskForCredentials        Strategy = "ask_for_credentials"
)

// maxTurnsBeforeAsking is the conversation depth after which the persona
// starts soliciting a payment identifier directly.
const maxTurnsBeforeAsking = 4

// Signals is the per-turn fact set the strategy cascade decides on. Building
// it is the caller's job; choosing on it is pure and deterministic.
type Signals struct {
	// TurnCount counts scammer messages processed, including the current one.
	TurnCount int
	// FirstScamTurn is true on the turn the verdict first crossed the
	// detection threshold.
	FirstScamTurn bool
	// MessageHasLink is true when the current message carries an http(s) URL.
	MessageHasLink bool
	// LinkAcknowledged is true once a feign_technical_difficulty reply has
	// been sent earlier in the conversation.
	LinkAcknowledged bool
	// NewPaymentToken is an account- or UPI-shaped token in the current
	// message that no earlier reply has referenced; empty when none.
	NewPaymentToken string
	// RequestsCredentials is true when the current message asks for card,
	// CVV, OTP or password data.
	RequestsCredentials bool
	// AskedDirectly is true once an ask_for_credentials reply has been sent.
	AskedDirectly bool
	// ScamType colors the template flavor; it never changes the cascade.
	ScamType detection.ScamType
}

var credentialRequestPattern = regexp.MustCompile(
	`(?i)\b(?:otp|cvv|pin|password|card\s*number|expiry(?:\s*date)?|verification\s*code|security\s*code|net\s*banking)\b`)

var linkPattern = regexp.MustCompile(`https?://`)

// HasLink reports whether the message carries an http(s) URL.
func HasLink(message string) bool {
	return linkPattern.MatchString(message)
}

// RequestsCredentials reports whether the message asks for card, CVV, OTP or
// password data.
func RequestsCredentials(message string) bool {
	return credentialRequestPattern.MatchString(message)
}

// Choose runs the ordered rule cascade and renders the reply. First match
// wins; identical signals always produce the same strategy and message.
func Choose(sig Signals) (Strategy, string) {
	switch {
	case sig.FirstScamTurn:
		return StrategyInitialConfusion, render(StrategyInitialConfusion, sig)
	case sig.MessageHasLink && !sig.LinkAcknowledged:
		return StrategyFeignTechnicalDifficulty, render(StrategyFeignTechnicalDifficulty, sig)
	case sig.NewPaymentToken != "":
		return StrategyRequestDetails, render(StrategyRequestDetails, sig)
	case sig.RequestsCredentials:
		return StrategyGradualCompliance, render(StrategyGradualCompliance, sig)
	case sig.TurnCount > maxTurnsBeforeAsking && !sig.AskedDirectly:
		return StrategyAskForCredentials, render(StrategyAskForCredentials, sig)
	default:
		return StrategyShowInterest, render(StrategyShowInterest, sig)
	}
}

// HoldingReply is the pre-detection response: mild confusion that invites the
// sender to explain more.
func HoldingReply(turnCount int) (Strategy, string) {
	return StrategyInitialEngagement, pick(holdingTemplates, turnCount)
}

func render(strategy Strategy, sig Signals) string {
	switch strategy {
	case StrategyRequestDetails:
		return fmt.Sprintf(pick(requestDetailsTemplates, sig.TurnCount), sig.NewPaymentToken)
	case StrategyShowInterest:
		if flavored, ok := interestFlavors[sig.ScamType]; ok {
			return pick(flavored, sig.TurnCount)
		}
		return pick(showInterestTemplates, sig.TurnCount)
	case StrategyGradualCompliance:
		if flavored, ok := complianceFlavors[sig.ScamType]; ok {
			return pick(flavored, sig.TurnCount)
		}
		return pick(gradualComplianceTemplates, sig.TurnCount)
	case StrategyFeignTechnicalDifficulty:
		return pick(technicalDifficultyTemplates, sig.TurnCount)
	case StrategyAskForCredentials:
		return pick(askForCredentialsTemplates, sig.TurnCount)
	default:
		return pick(initialConfusionTemplates, sig.TurnCount)
	}
}

// pick selects a template variant by turn count, so repeat turns vary without
// any randomness.
func pick(templates []string, turnCount int) string {
	if len(templates) == 0 {
		return ""
	}
	idx := turnCount % len(templates)
	if idx < 0 {
		idx += len(templates)
	}
	return strings.TrimSpace(templates[idx])
}
