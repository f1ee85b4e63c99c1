package detection

import (
	"fmt"
	"regexp"
	"strings"
)

// URLReport is the result of the phishing heuristic for a single URL.
type URLReport struct {
	Domain     string
	Suspicious bool
	Reasons    []string
}

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s<>"']+`)
	ipHostPattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}(:\d+)?$`)
)

// suspiciousTLDs are cheap/free TLD registries heavily abused by phishing kits.
var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".club"}

var urlShorteners = []string{"bit.ly", "tinyurl", "goo.gl", "t.co", "ow.ly"}

// brandTokens are Indian banking/payment brands commonly impersonated. A URL
// carrying one of these outside the brand's canonical .com/.in domain is
// flagged.
var brandTokens = []string{"sbi", "hdfc", "icici", "axis", "rbi", "paytm", "phonepe", "gpay", "googlepay"}

// baitTokens are generic scam-bait words that legitimate payment domains do
// not carry.
var baitTokens = []string{"kyc", "verify", "secure-", "update", "fake", "free", "win", "bonus", "reward", "offer"}

// FindURLs returns every http(s) token in the text, with trailing sentence
// punctuation stripped.
func FindURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, strings.TrimRight(m, ".,;:!?)"))
	}
	return urls
}

// Domain extracts the host portion of a URL, or "unknown" when the URL has no
// parsable host.
func Domain(rawURL string) string {
	rest := rawURL
	if idx := strings.Index(rest, "://"); idx >= 0 {
		rest = rest[idx+3:]
	}
	if idx := strings.IndexAny(rest, "/?#"); idx >= 0 {
		rest = rest[:idx]
	}
	if rest == "" {
		return "unknown"
	}
	return rest
}

// InspectURL applies the phishing suspicion heuristic to a single URL.
func InspectURL(rawURL string) URLReport {
	report := URLReport{Domain: Domain(rawURL)}
	lower := strings.ToLower(rawURL)
	host := strings.ToLower(report.Domain)

	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			report.Reasons = append(report.Reasons, "Suspicious TLD")
			break
		}
	}

	if ipHostPattern.MatchString(host) {
		report.Reasons = append(report.Reasons, "Uses IP address")
	}

	for _, shortener := range urlShorteners {
		if strings.Contains(lower, shortener) {
			report.Reasons = append(report.Reasons, "URL shortener")
			break
		}
	}

	for _, brand := range brandTokens {
		if strings.Contains(host, brand) && !isCanonicalDomain(host, brand) {
			report.Reasons = append(report.Reasons, fmt.Sprintf("Potential %s phishing", brand))
		}
	}

	for _, token := range baitTokens {
		if strings.Contains(host, token) {
			report.Reasons = append(report.Reasons, fmt.Sprintf("Suspicious keyword in domain (%s)", strings.TrimSuffix(token, "-")))
		}
	}

	report.Suspicious = len(report.Reasons) > 0
	return report
}

// isCanonicalDomain reports whether host is the brand's own .com/.in domain
// (including subdomains of it).
func isCanonicalDomain(host, brand string) bool {
	host = strings.TrimPrefix(host, "www.")
	for _, canonical := range []string{brand + ".com", brand + ".in"} {
		if host == canonical || strings.HasSuffix(host, "."+canonical) {
			return true
		}
	}
	return false
}
