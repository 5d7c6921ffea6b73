package entities

// DailyClaimResult reports one day's claim: the amount paid, the streak it
// extended, and the resulting balance.
type DailyClaimResult struct {
	Amount     int64 `json:"amount"`
	Streak     int   `json:"streak"`
	NewBalance int64 `json:"new_balance"`
}
