package intel

// Per-kind point values. High-value identifiers (directly actionable for
// freezing accounts) score highest.
const (
	pointsBankAccount = 20
	pointsUPIID       = 15
	pointsIFSCCode    = 10
	pointsPhoneNumber = 8
	pointsPhishingURL = 12
	pointsEmail       = 5
	pointsAmount      = 3

	maxQualityScore = 100
)

// QualityScore maps a summary's record counts to a 0-100 score. It is pure:
// the same counts always produce the same score.
func QualityScore(s Summary) float64 {
	score := float64(s.TotalBankAccounts*pointsBankAccount +
		s.TotalUPIIDs*pointsUPIID +
		s.TotalIFSCCodes*pointsIFSCCode +
		s.TotalPhoneNumbers*pointsPhoneNumber +
		s.TotalPhishingURLs*pointsPhishingURL +
		s.TotalEmailAddresses*pointsEmail +
		s.TotalAmountsMentioned*pointsAmount)
	if score > maxQualityScore {
		return maxQualityScore
	}
	return score
}
