package intel

// Kind identifies the type of an extracted intelligence record.
type Kind string

const (
	KindBankAccount  Kind = "bank_account"
	KindIFSCCode     Kind = "ifsc_code"
	KindUPIID        Kind = "upi_id"
	KindPhoneNumber  Kind = "phone_number"
	KindPhishingURL  Kind = "phishing_url"
	KindEmail        Kind = "email"
	KindAmount       Kind = "amount"
	KindPANCard      Kind = "pan_card"
	KindAadharNumber Kind = "aadhar_number"
	KindPaymentApp   Kind = "payment_app"
)

// BankAccount is a 9-18 digit account number candidate.
type BankAccount struct {
	AccountNumber string `json:"account_number"`
	Length        int    `json:"length"`
	SourceSnippet string `json:"extracted_from"`
}

// IFSCCode is an Indian bank branch routing code.
type IFSCCode struct {
	Code          string `json:"ifsc_code"`
	BankCode      string `json:"bank_code"`
	BranchCode    string `json:"branch_code"`
	SourceSnippet string `json:"extracted_from"`
}

// UPIID is a payment handle in localpart@provider form.
type UPIID struct {
	ID            string `json:"upi_id"`
	Provider      string `json:"provider"`
	SourceSnippet string `json:"extracted_from"`
}

// PhoneNumber is a 10-digit Indian mobile number.
type PhoneNumber struct {
	Number        string `json:"phone_number"`
	Formatted     string `json:"formatted"`
	SourceSnippet string `json:"extracted_from"`
}

// PhishingURL is an http(s) link with its suspicion analysis attached.
type PhishingURL struct {
	URL           string   `json:"url"`
	Domain        string   `json:"domain"`
	Suspicious    bool     `json:"is_suspicious"`
	Reasons       []string `json:"suspicion_reasons"`
	SourceSnippet string   `json:"extracted_from"`
}

// Email is a standard email address that is not a UPI handle.
type Email struct {
	Address       string `json:"email"`
	Domain        string `json:"domain"`
	SourceSnippet string `json:"extracted_from"`
}

// Amount is a monetary figure mentioned with a currency cue.
type Amount struct {
	Value     float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	Context   string  `json:"context"`
}

// PANCard is an Indian permanent account number.
type PANCard struct {
	Number        string `json:"pan_number"`
	SourceSnippet string `json:"extracted_from"`
}

// AadharNumber holds a masked Aadhar value. The raw digits are never stored;
// only the last four survive extraction.
type AadharNumber struct {
	Masked        string `json:"aadhar_masked"`
	SourceSnippet string `json:"extracted_from"`
}

// Intelligence is the accumulated, deduplicated record set for a
// conversation, in the shape the API serves.
type Intelligence struct {
	BankAccounts   []BankAccount  `json:"bank_accounts"`
	IFSCCodes      []IFSCCode     `json:"ifsc_codes"`
	UPIIDs         []UPIID        `json:"upi_ids"`
	PhoneNumbers   []PhoneNumber  `json:"phone_numbers"`
	PhishingURLs   []PhishingURL  `json:"phishing_urls"`
	EmailAddresses []Email        `json:"email_addresses"`
	Amounts        []Amount       `json:"amounts_mentioned"`
	PANCards       []PANCard      `json:"pan_cards"`
	AadharNumbers  []AadharNumber `json:"aadhar_numbers"`
	PaymentApps    []string       `json:"payment_apps"`
	Summary        Summary        `json:"summary"`
}

// Summary carries per-kind counts plus the derived quality score. It is
// always recomputable from the record set and never persisted independently.
type Summary struct {
	TotalBankAccounts        int     `json:"total_bank_accounts"`
	TotalIFSCCodes           int     `json:"total_ifsc_codes"`
	TotalUPIIDs              int     `json:"total_upi_ids"`
	TotalPhoneNumbers        int     `json:"total_phone_numbers"`
	TotalPhishingURLs        int     `json:"total_phishing_urls"`
	TotalSuspiciousURLs      int     `json:"total_suspicious_urls"`
	TotalEmailAddresses      int     `json:"total_email_addresses"`
	TotalAmountsMentioned    int     `json:"total_amounts_mentioned"`
	TotalPANCards            int     `json:"total_pan_cards"`
	TotalAadharNumbers       int     `json:"total_aadhar_numbers"`
	TotalPaymentApps         int     `json:"total_payment_apps"`
	IntelligenceQualityScore float64 `json:"intelligence_quality_score"`
}

// NewIntelligence returns an empty record set with non-nil slices so the
// serialized form always carries every per-kind array.
func NewIntelligence() *Intelligence {
	return &Intelligence{
		BankAccounts:   []BankAccount{},
		IFSCCodes:      []IFSCCode{},
		UPIIDs:         []UPIID{},
		PhoneNumbers:   []PhoneNumber{},
		PhishingURLs:   []PhishingURL{},
		EmailAddresses: []Email{},
		Amounts:        []Amount{},
		PANCards:       []PANCard{},
		AadharNumbers:  []AadharNumber{},
		PaymentApps:    []string{},
	}
}

// TotalRecords is the number of individual records across all kinds.
func (i *Intelligence) TotalRecords() int {
	if i == nil {
		return 0
	}
	return len(i.BankAccounts) + len(i.IFSCCodes) + len(i.UPIIDs) +
		len(i.PhoneNumbers) + len(i.PhishingURLs) + len(i.EmailAddresses) +
		len(i.Amounts) + len(i.PANCards) + len(i.AadharNumbers) + len(i.PaymentApps)
}

// Recount refreshes the summary counts and quality score from the current
// record set.
func (i *Intelligence) Recount() {
	suspicious := 0
	for _, u := range i.PhishingURLs {
		if u.Suspicious {
			suspicious++
		}
	}
	i.Summary = Summary{
		TotalBankAccounts:     len(i.BankAccounts),
		TotalIFSCCodes:        len(i.IFSCCodes),
		TotalUPIIDs:           len(i.UPIIDs),
		TotalPhoneNumbers:     len(i.PhoneNumbers),
		TotalPhishingURLs:     len(i.PhishingURLs),
		TotalSuspiciousURLs:   suspicious,
		TotalEmailAddresses:   len(i.EmailAddresses),
		TotalAmountsMentioned: len(i.Amounts),
		TotalPANCards:         len(i.PANCards),
		TotalAadharNumbers:    len(i.AadharNumbers),
		TotalPaymentApps:      len(i.PaymentApps),
	}
	i.Summary.IntelligenceQualityScore = QualityScore(i.Summary)
}
