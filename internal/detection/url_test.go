package detection

import (
	"strings"
	"testing"
)

func TestFindURLs(t *testing.T) {
	text := "Visit https://fake-sbi.xyz/login. Backup at http://bit.ly/abc, hurry!"
	urls := FindURLs(text)

	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %v", urls)
	}
	if urls[0] != "https://fake-sbi.xyz/login" {
		t.Errorf("expected trailing punctuation stripped, got %q", urls[0])
	}
	if urls[1] != "http://bit.ly/abc" {
		t.Errorf("expected trailing comma stripped, got %q", urls[1])
	}
}

func TestDomain(t *testing.T) {
	cases := map[string]string{
		"https://fake-sbi.xyz/login?x=1": "fake-sbi.xyz",
		"http://192.168.1.5:8080/pay":    "192.168.1.5:8080",
		"https://paytm.com":              "paytm.com",
		"https://":                       "unknown",
	}
	for raw, want := range cases {
		if got := Domain(raw); got != want {
			t.Errorf("Domain(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestInspectURL_CanonicalBrandDomainIsClean(t *testing.T) {
	for _, raw := range []string{"https://paytm.com/pay", "https://netbanking.hdfc.com/login", "https://www.sbi.in"} {
		report := InspectURL(raw)
		if report.Suspicious {
			t.Errorf("expected %q to be clean, got reasons %v", raw, report.Reasons)
		}
	}
}

func TestInspectURL_BrandOutsideCanonicalDomain(t *testing.T) {
	report := InspectURL("http://sbi-verify.tk/kyc")

	if !report.Suspicious {
		t.Fatal("expected lookalike domain to be suspicious")
	}
	assertReason(t, report.Reasons, "Suspicious TLD")
	assertReason(t, report.Reasons, "Potential sbi phishing")
	assertReason(t, report.Reasons, "Suspicious keyword in domain (verify)")
}

func TestInspectURL_BaitKeyword(t *testing.T) {
	report := InspectURL("http://fake.com")

	if !report.Suspicious {
		t.Fatal("expected bait keyword to flag the domain")
	}
	assertReason(t, report.Reasons, "Suspicious keyword in domain (fake)")
}

func TestInspectURL_IPHostAndShortener(t *testing.T) {
	if report := InspectURL("http://192.168.1.5/login"); !report.Suspicious {
		t.Error("expected IP-hosted URL to be suspicious")
	}
	if report := InspectURL("https://bit.ly/3xYz"); !report.Suspicious {
		t.Error("expected shortener URL to be suspicious")
	}
}

func assertReason(t *testing.T, reasons []string, want string) {
	t.Helper()
	for _, reason := range reasons {
		if strings.Contains(reason, want) {
			return
		}
	}
	t.Fatalf("expected reason containing %q, got %v", want, reasons)
}
