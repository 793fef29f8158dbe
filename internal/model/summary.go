package model

import "strconv"

// NotApplicable is the top category when nothing has expired.
const NotApplicable = "N/A"

// ExpirationSummary is derived from the whole inventory on every refresh.
type ExpirationSummary struct {
	Total              int
	Expired            int
	PercentExpired     float64
	TopExpiredCategory string
}

// PercentLabel renders the percentage with one decimal, or "0%" for an empty inventory.
func (s ExpirationSummary) PercentLabel() string {
	if s.Total == 0 {
		return "0%"
	}
	return strconv.FormatFloat(s.PercentExpired, 'f', 1, 64) + "%"
}
