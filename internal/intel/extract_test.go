package intel

import (
	"strings"
	"testing"
)

func TestExtractBankAccounts_PriorityOverDigitShapes(t *testing.T) {
	text := "Transfer to Account Number: 123456789012, IFSC: SBIN0001234. Or UPI: 9876543210@paytm"

	accounts := ExtractBankAccounts(text)
	if len(accounts) != 1 {
		t.Fatalf("expected exactly one bank account, got %+v", accounts)
	}
	if accounts[0].AccountNumber != "123456789012" {
		t.Errorf("expected account 123456789012, got %s", accounts[0].AccountNumber)
	}
	if accounts[0].Length != 12 {
		t.Errorf("expected length 12, got %d", accounts[0].Length)
	}
	if accounts[0].SourceSnippet == "" {
		t.Error("expected source snippet to be populated")
	}
}

func TestExtractBankAccounts_PhoneTailNotClaimed(t *testing.T) {
	// The trailing ten digits of a long account number must not register as a
	// phone number and suppress the account.
	text := "account 111122339876543210 is active"

	accounts := ExtractBankAccounts(text)
	if len(accounts) != 1 || accounts[0].AccountNumber != "111122339876543210" {
		t.Fatalf("expected the 18-digit account to survive, got %+v", accounts)
	}
	if phones := ExtractPhoneNumbers(text); len(phones) != 0 {
		t.Fatalf("expected no phone numbers inside the digit run, got %+v", phones)
	}
}

func TestExtractIFSCCodes(t *testing.T) {
	codes := ExtractIFSCCodes("send to ifsc sbin0001234 today")
	if len(codes) != 1 {
		t.Fatalf("expected one IFSC code, got %+v", codes)
	}
	if codes[0].Code != "SBIN0001234" {
		t.Errorf("expected normalized code SBIN0001234, got %s", codes[0].Code)
	}
	if codes[0].BankCode != "SBIN" || codes[0].BranchCode != "001234" {
		t.Errorf("unexpected bank/branch split: %s / %s", codes[0].BankCode, codes[0].BranchCode)
	}
}

func TestExtractUPIIDs_KnownProvidersOnly(t *testing.T) {
	text := "pay 9876543210@paytm or merchant@ybl, not someone@example"

	upis := ExtractUPIIDs(text)
	if len(upis) != 2 {
		t.Fatalf("expected two UPI handles, got %+v", upis)
	}
	if upis[0].ID != "9876543210@paytm" || upis[0].Provider != "paytm" {
		t.Errorf("unexpected first handle: %+v", upis[0])
	}
	if upis[1].ID != "merchant@ybl" || upis[1].Provider != "ybl" {
		t.Errorf("unexpected second handle: %+v", upis[1])
	}
}

func TestExtractPhoneNumbers_Formats(t *testing.T) {
	cases := map[string]string{
		"call +91 9876543210 today": "9876543210",
		"call 09123456789 today":    "9123456789",
		"call 9876543210 today":     "9876543210",
	}
	for text, want := range cases {
		phones := ExtractPhoneNumbers(text)
		if len(phones) != 1 {
			t.Errorf("%q: expected one phone, got %+v", text, phones)
			continue
		}
		if phones[0].Number != want {
			t.Errorf("%q: expected normalized %s, got %s", text, want, phones[0].Number)
		}
	}
}

func TestExtractPhoneNumbers_RejectsLandlineShapes(t *testing.T) {
	if phones := ExtractPhoneNumbers("ticket 1234567890 raised"); len(phones) != 0 {
		t.Fatalf("expected numbers starting below 6 to be rejected, got %+v", phones)
	}
}

func TestExtractPhishingURLs(t *testing.T) {
	urls := ExtractPhishingURLs("click http://fake.com and https://paytm.com/pay")
	if len(urls) != 2 {
		t.Fatalf("expected two urls, got %+v", urls)
	}
	if !urls[0].Suspicious {
		t.Errorf("expected fake.com to be suspicious: %+v", urls[0])
	}
	if urls[1].Suspicious {
		t.Errorf("expected canonical paytm.com to be clean: %+v", urls[1])
	}
	if urls[1].Reasons == nil {
		t.Error("expected reasons slice to be non-nil even when clean")
	}
}

func TestExtractEmails_UPIHandlesExcluded(t *testing.T) {
	text := "contact john@paytm.com or john.doe@gmail.com"

	emails := ExtractEmails(text)
	if len(emails) != 1 {
		t.Fatalf("expected one email, got %+v", emails)
	}
	if emails[0].Address != "john.doe@gmail.com" || emails[0].Domain != "gmail.com" {
		t.Errorf("unexpected email: %+v", emails[0])
	}
}

func TestExtractAmounts(t *testing.T) {
	amounts := ExtractAmounts("Pay Rs 5000 now, or win 25 lakh rupees, fee ₹2,500")
	if len(amounts) != 3 {
		t.Fatalf("expected three amounts, got %+v", amounts)
	}
	values := map[float64]bool{}
	for _, a := range amounts {
		values[a.Value] = true
		if a.Context == "" {
			t.Errorf("expected context for amount %v", a.Value)
		}
	}
	for _, want := range []float64{5000, 2_500_000, 2500} {
		if !values[want] {
			t.Errorf("expected amount %v in %+v", want, amounts)
		}
	}
}

func TestExtractPANCards(t *testing.T) {
	pans := ExtractPANCards("PAN: abcde1234f confirmed")
	if len(pans) != 1 || pans[0].Number != "ABCDE1234F" {
		t.Fatalf("expected uppercased ABCDE1234F, got %+v", pans)
	}
}

func TestExtractAadharNumbers_MaskedEverywhere(t *testing.T) {
	cases := []string{
		"My aadhar number: 123412341234",
		"ID: 1234 1234 1234 on file",
		"aadhar: 123412341234",
	}
	for _, text := range cases {
		records := ExtractAadharNumbers(text)
		if len(records) != 1 {
			t.Fatalf("%q: expected one record, got %+v", text, records)
		}
		rec := records[0]
		if rec.Masked != "XXXX XXXX 1234" {
			t.Errorf("%q: unexpected mask %s", text, rec.Masked)
		}
		if strings.Contains(rec.SourceSnippet, "12341234") ||
			strings.Contains(rec.SourceSnippet, "1234 1234 1234") {
			t.Errorf("%q: raw digits leaked into snippet %q", text, rec.SourceSnippet)
		}
	}
}

func TestExtractAadharNumbers_BareTwelveDigitsNotClaimed(t *testing.T) {
	// Without grouping or an aadhar cue, a twelve-digit run stays a bank
	// account candidate.
	text := "send to 123456789012 please"
	if records := ExtractAadharNumbers(text); len(records) != 0 {
		t.Fatalf("expected no aadhar match, got %+v", records)
	}
	if accounts := ExtractBankAccounts(text); len(accounts) != 1 {
		t.Fatalf("expected the run to remain a bank account, got %+v", accounts)
	}
}

func TestExtractPaymentApps(t *testing.T) {
	apps := ExtractPaymentApps("Pay via Google Pay, GPay or PhonePe")
	if len(apps) != 2 {
		t.Fatalf("expected deduplicated two apps, got %v", apps)
	}
	found := map[string]bool{}
	for _, app := range apps {
		found[app] = true
	}
	if !found["gpay"] || !found["phonepe"] {
		t.Fatalf("expected gpay and phonepe, got %v", apps)
	}
}

func TestSnippetStaysWithinBounds(t *testing.T) {
	long := strings.Repeat("x", 200) + " 123456789012 " + strings.Repeat("y", 200)
	accounts := ExtractBankAccounts(long)
	if len(accounts) != 1 {
		t.Fatalf("expected one account, got %+v", accounts)
	}
	snip := accounts[0].SourceSnippet
	if len(snip) > 50 {
		t.Errorf("snippet too long: %d bytes", len(snip))
	}
	if !strings.Contains(snip, "123456789012") {
		t.Errorf("snippet %q does not contain the match", snip)
	}
}
