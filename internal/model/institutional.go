package model

import "fmt"

// InstitutionalDay is one trading day of net institutional flow for one
// security, in lots. Held only long enough to reduce into InstitutionalStats.
type InstitutionalDay struct {
	Date    string // 20060102 or ROC 114/01/02, comparable after stripping slashes
	Foreign int
	Trust   int
	Dealer  int
	Total   int
}

// InstitutionalStats is the rolled-up institutional flow for one security.
// ConsecutiveDays is signed: positive = consecutive net-buy days, negative =
// consecutive net-sell days, 0 = no active streak.
type InstitutionalStats struct {
	Today           int `json:"today"`
	Sum5            int `json:"sum5"`
	Sum10           int `json:"sum10"`
	ConsecutiveDays int `json:"consecutiveDays"`
	Foreign5        int `json:"foreign5"`
	Trust5          int `json:"trust5"`
	Dealer5         int `json:"dealer5"`
}

// FormatConsecutiveDays renders the streak for display, e.g. "連買3天".
func FormatConsecutiveDays(days int) string {
	if days == 0 {
		return "-"
	}
	if days > 0 {
		return fmt.Sprintf("連買%d天", days)
	}
	return fmt.Sprintf("連賣%d天", -days)
}
