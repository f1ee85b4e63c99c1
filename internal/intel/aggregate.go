package intel

import (
	"strconv"
	"strings"
)

// Aggregate runs every extractor over the scammer-authored message history
// and merges the results into a deduplicated record set. Dedup keys are
// (kind, normalized value), so reprocessing the same history is idempotent:
// recurring matches collapse, nothing is lost.
func Aggregate(scammerMessages []string) *Intelligence {
	out := NewIntelligence()
	seen := make(map[string]struct{})

	add := func(kind Kind, value string) bool {
		key := string(kind) + "\x00" + strings.ToLower(value)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	}

	for _, msg := range scammerMessages {
		for _, rec := range ExtractBankAccounts(msg) {
			if add(KindBankAccount, rec.AccountNumber) {
				out.BankAccounts = append(out.BankAccounts, rec)
			}
		}
		for _, rec := range ExtractIFSCCodes(msg) {
			if add(KindIFSCCode, rec.Code) {
				out.IFSCCodes = append(out.IFSCCodes, rec)
			}
		}
		for _, rec := range ExtractUPIIDs(msg) {
			if add(KindUPIID, rec.ID) {
				out.UPIIDs = append(out.UPIIDs, rec)
			}
		}
		for _, rec := range ExtractPhoneNumbers(msg) {
			if add(KindPhoneNumber, rec.Number) {
				out.PhoneNumbers = append(out.PhoneNumbers, rec)
			}
		}
		for _, rec := range ExtractPhishingURLs(msg) {
			if add(KindPhishingURL, rec.URL) {
				out.PhishingURLs = append(out.PhishingURLs, rec)
			}
		}
		for _, rec := range ExtractEmails(msg) {
			if add(KindEmail, rec.Address) {
				out.EmailAddresses = append(out.EmailAddresses, rec)
			}
		}
		for _, rec := range ExtractAmounts(msg) {
			if add(KindAmount, strconv.FormatFloat(rec.Value, 'f', -1, 64)) {
				out.Amounts = append(out.Amounts, rec)
			}
		}
		for _, rec := range ExtractPANCards(msg) {
			if add(KindPANCard, rec.Number) {
				out.PANCards = append(out.PANCards, rec)
			}
		}
		for _, rec := range ExtractAadharNumbers(msg) {
			if add(KindAadharNumber, rec.Masked) {
				out.AadharNumbers = append(out.AadharNumbers, rec)
			}
		}
		for _, name := range ExtractPaymentApps(msg) {
			if add(KindPaymentApp, name) {
				out.PaymentApps = append(out.PaymentApps, name)
			}
		}
	}

	out.Recount()
	return out
}
