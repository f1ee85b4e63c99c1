package detection

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ScamType is the closed set of scam categories the classifier can assign.
type ScamType string

const (
	ScamTypeFinancialFraud ScamType = "financial_fraud"
	ScamTypePaymentScam    ScamType = "payment_scam"
	ScamTypePhishing       ScamType = "phishing"
	ScamTypeImpersonation  ScamType = "impersonation"
	ScamTypeLotteryPrize   ScamType = "lottery_prize"
	ScamTypeJobScam        ScamType = "job_scam"
	ScamTypeOther          ScamType = "other"
)

// Verdict is the classifier's determination for a single message.
type Verdict struct {
	Detected   bool     `json:"detected"`
	Confidence float64  `json:"confidence"`
	ScamType   ScamType `json:"scam_type"`
	Indicators []string `json:"indicators"`
}

const (
	// detectionThreshold is the confidence at which a message counts as a scam.
	detectionThreshold = 0.3
	// confidenceCap bounds the confidence; rule stacking never reaches 1.0.
	confidenceCap = 0.95
	// confidenceFloor applies once at least one direct scam-type pattern hits.
	confidenceFloor = 0.35
)

// scamTypePriority breaks ties between equally-scored types. Order matters:
// the most actionable categories win.
var scamTypePriority = []ScamType{
	ScamTypePhishing,
	ScamTypePaymentScam,
	ScamTypeFinancialFraud,
	ScamTypeImpersonation,
	ScamTypeLotteryPrize,
	ScamTypeJobScam,
	ScamTypeOther,
}

// scamPatterns are the direct per-type pattern groups. A type scores one hit
// per matching pattern.
var scamPatterns = map[ScamType][]*regexp.Regexp{
	ScamTypeFinancialFraud: {
		regexp.MustCompile(`\b(?:bank|account|atm|credit card|debit card)\b.*\b(?:block(?:ed)?|expir\w*|suspend\w*|verify|update|confirm)\b`),
		regexp.MustCompile(`\b(?:urgent|immediate|action required)\b.*\b(?:account|card|bank)\b`),
		regexp.MustCompile(`\bkyc\b.*\b(?:update|pending|expir\w*|verify)\b`),
		regexp.MustCompile(`\b(?:refund|cashback)\b.*\b(?:claim|pending|reversed)\b`),
	},
	ScamTypePaymentScam: {
		regexp.MustCompile(`\b(?:paytm|phonepe|gpay|google pay|upi)\b.*\b(?:verify|update|expir\w*|link|activate)\b`),
		regexp.MustCompile(`\bsend\b.*\b(?:otp|code|pin|password)\b`),
		regexp.MustCompile(`\b(?:transfer|payment)\b.*\b(?:failed|pending|reversed)\b`),
	},
	ScamTypePhishing: {
		regexp.MustCompile(`\b(?:click|tap|visit)\b.*\b(?:link|url|website)\b`),
		regexp.MustCompile(`\blink\b.*\b(?:verify|update|activate|claim)\b`),
		regexp.MustCompile(`https?://\S+`),
	},
	ScamTypeImpersonation: {
		regexp.MustCompile(`\b(?:dear customer|valued customer|account holder)\b`),
		regexp.MustCompile(`\bfrom\b.*\b(?:bank|government|tax department|it department)\b`),
		regexp.MustCompile(`\b(?:rbi|sebi|income tax|gst)\b`),
	},
	ScamTypeLotteryPrize: {
		regexp.MustCompile(`\b(?:won|winner|selected|lucky)\b.*\b(?:lottery|prize|reward|contest)\b`),
		regexp.MustCompile(`\bcongratulations\b.*\b(?:win|won|selected)\b`),
		regexp.MustCompile(`\b(?:lakhs?|crores?|million)\b.*\b(?:rupees?|rs\.?|inr)\b`),
	},
	ScamTypeJobScam: {
		regexp.MustCompile(`\b(?:job|work from home|part time|earn)\b.*\b(?:daily|monthly|weekly)\b`),
		regexp.MustCompile(`\b(?:register|registration)\b.*\b(?:fee|amount|payment)\b`),
		regexp.MustCompile(`\b(?:guaranteed|assured)\b.*\b(?:income|salary|earning)\b`),
	},
}

var urgencyKeywords = []string{
	"urgent", "immediately", "asap", "right now", "today",
	"expire", "expiring", "last chance", "limited time",
	"within 24 hours", "act now", "don't wait",
}

var credentialKeywords = []string{
	"otp", "pin", "password", "cvv", "card number",
	"account number", "aadhar", "pan", "date of birth",
	"mother's maiden name", "security code",
}

var financialKeywords = []string{
	"bank account", "account number", "ifsc", "upi id",
	"upi", "paytm", "phonepe", "gpay", "payment link",
	"transfer money", "send money", "pay now",
}

var scamPhrases = []string{
	"verify your account", "account will be blocked", "suspended account",
	"claim your reward", "you have won", "confirm your identity",
	"update your kyc", "update kyc", "expired card", "failed transaction",
	"refund pending", "tax refund", "government grant",
}

var phoneIndicatorPattern = regexp.MustCompile(`\b\d{10}\b|\+\d{1,3}[\s-]?\d{10}\b`)

// Classify scores a single message against the scam pattern taxonomy.
// priorScammerMessages is the sender's earlier message history (most recent
// last) and feeds the progressive-harvesting check; it may be nil.
func Classify(message string, priorScammerMessages []string) Verdict {
	lower := strings.ToLower(message)

	var indicators []string
	confidence := 0.0

	typeScores := make(map[ScamType]float64)
	for _, scamType := range scamTypePriority {
		patterns, ok := scamPatterns[scamType]
		if !ok {
			continue
		}
		hits := 0
		for _, pat := range patterns {
			if pat.MatchString(lower) {
				hits++
			}
		}
		if hits > 0 {
			typeScores[scamType] = float64(hits)
			indicators = append(indicators, fmt.Sprintf("Matched %s pattern", scamType))
			confidence += 0.15
		}
	}

	if n := countKeywords(lower, urgencyKeywords); n > 0 {
		indicators = append(indicators, fmt.Sprintf("Contains urgency language (%d instances)", n))
		confidence += math.Min(float64(n)*0.1, 0.3)
	}

	if n := countKeywords(lower, credentialKeywords); n > 0 {
		indicators = append(indicators, fmt.Sprintf("Requests sensitive credentials (%d types)", n))
		confidence += math.Min(float64(n)*0.15, 0.4)
	}

	if n := countKeywords(lower, financialKeywords); n > 0 {
		indicators = append(indicators, fmt.Sprintf("Contains financial terminology (%d instances)", n))
		confidence += math.Min(float64(n)*0.08, 0.25)
	}

	if strings.Contains(lower, "http://") || strings.Contains(lower, "https://") {
		indicators = append(indicators, "Contains external link")
		confidence += 0.2
	}

	if phoneIndicatorPattern.MatchString(message) {
		indicators = append(indicators, "Contains phone number")
		confidence += 0.1
	}

	if n := countKeywords(lower, scamPhrases); n > 0 {
		indicators = append(indicators, fmt.Sprintf("Contains common scam phrases (%d matches)", n))
		confidence += math.Min(float64(n)*0.12, 0.35)
	}

	if progressiveHarvesting(priorScammerMessages, lower) {
		indicators = append(indicators, "Progressive credential harvesting detected")
		confidence += 0.25
	}

	if len(typeScores) > 0 && confidence < confidenceFloor {
		confidence = confidenceFloor
	}
	confidence = math.Min(confidence, confidenceCap)
	confidence = math.Round(confidence*1000) / 1000

	return Verdict{
		Detected:   confidence >= detectionThreshold,
		Confidence: confidence,
		ScamType:   primaryScamType(typeScores),
		Indicators: indicators,
	}
}

// primaryScamType picks the highest-scoring type; ties resolve by the fixed
// priority order, never by map iteration.
func primaryScamType(scores map[ScamType]float64) ScamType {
	best := ScamTypeOther
	bestScore := 0.0
	for _, scamType := range scamTypePriority {
		if score, ok := scores[scamType]; ok && score > bestScore {
			best = scamType
			bestScore = score
		}
	}
	return best
}

func countKeywords(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// progressiveHarvesting reports whether the sender's recent messages plus the
// current one request two or more distinct credential types, a signature of
// staged harvesting.
func progressiveHarvesting(prior []string, currentLower string) bool {
	if len(prior) == 0 {
		return false
	}
	recent := prior
	if len(recent) > 2 {
		recent = recent[len(recent)-2:]
	}
	total := countKeywords(currentLower, credentialKeywords)
	for _, msg := range recent {
		total += countKeywords(strings.ToLower(msg), credentialKeywords)
	}
	return total >= 2
}
