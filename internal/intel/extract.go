package intel

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/prahari-ai/honeypot-platform/internal/detection"
)

// Extractors are pure functions over one text span. Each applies validated
// pattern matching and narrows away malformed candidates instead of erroring.
// Overlapping digit shapes resolve by fixed priority: IFSC > phone > aadhar >
// bank account.

const (
	snippetMaxLen    = 50
	amountContextPad = 40
	aadharMaskPrefix = "XXXX XXXX "
)

var (
	digitRunPattern = regexp.MustCompile(`\b\d{9,18}\b`)
	ifscPattern     = regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`)
	// Leading [^\d] keeps a ten-digit tail of a longer run from counting as a
	// phone number.
	phonePattern         = regexp.MustCompile(`(^|[^\d])((?:\+91[\s-]?|0)?[6-9]\d{9})\b`)
	upiPattern           = regexp.MustCompile(`\b[A-Za-z0-9._-]+@[A-Za-z]+\b`)
	emailPattern         = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	panPattern           = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
	aadharGroupedPattern = regexp.MustCompile(`\b\d{4}[\s-]\d{4}[\s-]\d{4}\b`)
	aadharCuedPattern    = regexp.MustCompile(`(?i)aadha?a?r(?:\s*(?:no\.?|number|card))?\s*[:\-]?\s*(\d{12})\b`)
	currencyFirstAmount  = regexp.MustCompile(`(?i)(?:rs\.?|₹|inr)\s*([0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?)`)
	unitAfterAmount      = regexp.MustCompile(`(?i)\b([0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?)\s*(rupees?|lakhs?|crores?)\b`)
	nonDigitPattern      = regexp.MustCompile(`[\s-]`)
)

// upiProviders is the closed set of handle suffixes accepted as UPI IDs.
var upiProviders = map[string]struct{}{
	"paytm": {}, "gpay": {}, "googlepay": {}, "phonepe": {}, "bhim": {},
	"ybl": {}, "ibl": {}, "axl": {}, "apl": {}, "upi": {},
	"okhdfcbank": {}, "oksbi": {}, "okicici": {}, "okaxis": {},
	"airtel": {}, "freecharge": {},
}

// paymentAppKeywords maps mention keywords to a canonical app name.
var paymentAppKeywords = []struct {
	keyword   string
	canonical string
}{
	{"paytm", "paytm"},
	{"phonepe", "phonepe"},
	{"google pay", "gpay"},
	{"gpay", "gpay"},
	{"amazon pay", "amazonpay"},
	{"amazonpay", "amazonpay"},
	{"bhim", "bhim"},
	{"mobikwik", "mobikwik"},
	{"freecharge", "freecharge"},
}

type span struct {
	start, end int
}

func (s span) overlaps(other span) bool {
	return s.start < other.end && other.start < s.end
}

func overlapsAny(s span, spans []span) bool {
	for _, other := range spans {
		if s.overlaps(other) {
			return true
		}
	}
	return false
}

// ExtractBankAccounts finds 9-18 digit runs that were not claimed by a
// higher-priority shape (IFSC, phone, aadhar) in the same text.
func ExtractBankAccounts(text string) []BankAccount {
	claimed := ifscSpans(text)
	claimed = append(claimed, phoneSpans(text)...)
	claimed = append(claimed, aadharSpans(text)...)

	var out []BankAccount
	for _, loc := range digitRunPattern.FindAllStringIndex(text, -1) {
		candidate := span{loc[0], loc[1]}
		if overlapsAny(candidate, claimed) {
			continue
		}
		number := text[loc[0]:loc[1]]
		out = append(out, BankAccount{
			AccountNumber: number,
			Length:        len(number),
			SourceSnippet: snippet(text, loc[0], loc[1]),
		})
	}
	return out
}

// ExtractIFSCCodes finds IFSC routing codes and splits bank and branch parts.
func ExtractIFSCCodes(text string) []IFSCCode {
	upper := strings.ToUpper(text)
	var out []IFSCCode
	for _, loc := range ifscPattern.FindAllStringIndex(upper, -1) {
		code := upper[loc[0]:loc[1]]
		out = append(out, IFSCCode{
			Code:          code,
			BankCode:      code[:4],
			BranchCode:    code[5:],
			SourceSnippet: snippet(text, loc[0], loc[1]),
		})
	}
	return out
}

// ExtractUPIIDs finds localpart@provider handles whose provider belongs to
// the known payment-app set.
func ExtractUPIIDs(text string) []UPIID {
	var out []UPIID
	for _, loc := range upiPattern.FindAllStringIndex(text, -1) {
		token := text[loc[0]:loc[1]]
		at := strings.LastIndex(token, "@")
		provider := token[at+1:]
		if _, known := upiProviders[strings.ToLower(provider)]; !known {
			continue
		}
		out = append(out, UPIID{
			ID:            token,
			Provider:      provider,
			SourceSnippet: snippet(text, loc[0], loc[1]),
		})
	}
	return out
}

// ExtractPhoneNumbers finds Indian mobile numbers, normalized to bare ten
// digits.
func ExtractPhoneNumbers(text string) []PhoneNumber {
	var out []PhoneNumber
	for _, m := range phonePattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[4], m[5]
		formatted := text[start:end]
		digits := nonDigitPattern.ReplaceAllString(formatted, "")
		digits = strings.TrimPrefix(digits, "+91")
		digits = strings.TrimPrefix(digits, "0")
		if len(digits) != 10 {
			continue
		}
		out = append(out, PhoneNumber{
			Number:        digits,
			Formatted:     formatted,
			SourceSnippet: snippet(text, start, end),
		})
	}
	return out
}

// ExtractPhishingURLs finds http(s) links and attaches the classifier's URL
// suspicion analysis.
func ExtractPhishingURLs(text string) []PhishingURL {
	var out []PhishingURL
	for _, rawURL := range detection.FindURLs(text) {
		report := detection.InspectURL(rawURL)
		idx := strings.Index(text, rawURL)
		if idx < 0 {
			idx = 0
		}
		reasons := report.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		out = append(out, PhishingURL{
			URL:           rawURL,
			Domain:        report.Domain,
			Suspicious:    report.Suspicious,
			Reasons:       reasons,
			SourceSnippet: snippet(text, idx, idx+len(rawURL)),
		})
	}
	return out
}

// ExtractEmails finds email addresses, excluding tokens already counted as
// UPI handles.
func ExtractEmails(text string) []Email {
	upiLocals := make(map[string]struct{})
	for _, upi := range ExtractUPIIDs(text) {
		upiLocals[strings.ToLower(upi.ID)] = struct{}{}
	}

	var out []Email
	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		address := text[loc[0]:loc[1]]
		at := strings.LastIndex(address, "@")
		domain := address[at+1:]
		// local@provider prefixes of the address that matched as a UPI handle
		// stay classified as UPI.
		firstLabel := address[:at] + "@" + strings.SplitN(domain, ".", 2)[0]
		if _, isUPI := upiLocals[strings.ToLower(firstLabel)]; isUPI {
			continue
		}
		out = append(out, Email{
			Address:       address,
			Domain:        domain,
			SourceSnippet: snippet(text, loc[0], loc[1]),
		})
	}
	return out
}

// ExtractAmounts finds monetary mentions with currency cues, expanding lakh
// and crore units.
func ExtractAmounts(text string) []Amount {
	var out []Amount
	emit := func(valueStr, unit string, start, end int) {
		cleaned := strings.ReplaceAll(valueStr, ",", "")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return
		}
		switch {
		case strings.HasPrefix(unit, "lakh"):
			value *= 100_000
		case strings.HasPrefix(unit, "crore"):
			value *= 10_000_000
		}
		out = append(out, Amount{
			Value:     value,
			Formatted: strings.TrimSpace(text[start:end]),
			Context:   contextWindow(text, start, end),
		})
	}

	for _, m := range currencyFirstAmount.FindAllStringSubmatchIndex(text, -1) {
		emit(text[m[2]:m[3]], "", m[0], m[1])
	}
	for _, m := range unitAfterAmount.FindAllStringSubmatchIndex(text, -1) {
		emit(text[m[2]:m[3]], strings.ToLower(text[m[4]:m[5]]), m[0], m[1])
	}
	return out
}

// ExtractPANCards finds PAN numbers (5 letters, 4 digits, 1 letter).
func ExtractPANCards(text string) []PANCard {
	upper := strings.ToUpper(text)
	var out []PANCard
	for _, loc := range panPattern.FindAllStringIndex(upper, -1) {
		out = append(out, PANCard{
			Number:        upper[loc[0]:loc[1]],
			SourceSnippet: snippet(text, loc[0], loc[1]),
		})
	}
	return out
}

// ExtractAadharNumbers finds Aadhar numbers and masks them immediately: only
// the last four raw digits survive.
func ExtractAadharNumbers(text string) []AadharNumber {
	var out []AadharNumber
	seen := make(map[string]struct{})
	add := func(digits string, start, end int) {
		if len(digits) < 4 {
			return
		}
		masked := aadharMaskPrefix + digits[len(digits)-4:]
		if _, dup := seen[masked]; dup {
			return
		}
		seen[masked] = struct{}{}
		out = append(out, AadharNumber{
			Masked:        masked,
			SourceSnippet: maskDigits(snippet(text, start, end), digits),
		})
	}

	for _, loc := range aadharGroupedPattern.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		add(nonDigitPattern.ReplaceAllString(raw, ""), loc[0], loc[1])
	}
	for _, m := range aadharCuedPattern.FindAllStringSubmatchIndex(text, -1) {
		add(text[m[2]:m[3]], m[2], m[3])
	}
	return out
}

// ExtractPaymentApps finds mentioned payment apps, deduplicated by canonical
// name.
func ExtractPaymentApps(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	seen := make(map[string]struct{})
	for _, entry := range paymentAppKeywords {
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		if _, dup := seen[entry.canonical]; dup {
			continue
		}
		seen[entry.canonical] = struct{}{}
		out = append(out, entry.canonical)
	}
	return out
}

func ifscSpans(text string) []span {
	upper := strings.ToUpper(text)
	var spans []span
	for _, loc := range ifscPattern.FindAllStringIndex(upper, -1) {
		spans = append(spans, span{loc[0], loc[1]})
	}
	return spans
}

func phoneSpans(text string) []span {
	var spans []span
	for _, m := range phonePattern.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{m[4], m[5]})
	}
	return spans
}

func aadharSpans(text string) []span {
	var spans []span
	for _, loc := range aadharGroupedPattern.FindAllStringIndex(text, -1) {
		spans = append(spans, span{loc[0], loc[1]})
	}
	for _, m := range aadharCuedPattern.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{m[2], m[3]})
	}
	return spans
}

// snippet returns up to snippetMaxLen bytes of text centered on [start, end),
// clamped to rune boundaries, for audit traceability.
func snippet(text string, start, end int) string {
	return window(text, start, end, snippetMaxLen)
}

func contextWindow(text string, start, end int) string {
	return window(text, start, end, (end-start)+2*amountContextPad)
}

func window(text string, start, end, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	pad := (maxLen - (end - start)) / 2
	if pad < 0 {
		pad = 0
	}
	lo, hi := start-pad, end+pad
	if lo < 0 {
		hi -= lo
		lo = 0
	}
	if hi > len(text) {
		lo -= hi - len(text)
		hi = len(text)
	}
	if lo < 0 {
		lo = 0
	}
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return text[lo:hi]
}

// maskDigits removes a raw digit sequence from a snippet so unmasked values
// never leak through audit text.
func maskDigits(snip, digits string) string {
	if digits == "" {
		return snip
	}
	masked := aadharMaskPrefix + digits[len(digits)-4:]
	if strings.Contains(snip, digits) {
		return strings.ReplaceAll(snip, digits, masked)
	}
	// Grouped form: hide every grouping that exposes the leading digits.
	for _, sep := range []string{" ", "-"} {
		grouped := digits[:4] + sep + digits[4:8] + sep + digits[8:]
		if strings.Contains(snip, grouped) {
			snip = strings.ReplaceAll(snip, grouped, masked)
		}
	}
	return snip
}
