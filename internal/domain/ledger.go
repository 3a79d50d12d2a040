package domain

// DailyRecord accumulates one user's exp movement for one day.
type DailyRecord struct {
	UserID    int64 `json:"user_id"`
	Date      Date  `json:"date"`
	ExpGained int64 `json:"exp_gained"`
	ExpLost   int64 `json:"exp_lost"`
}

// LedgerBalance compares the running total with the sum of daily records.
type LedgerBalance struct {
	TotalExp  int64 `json:"total_exp"`
	SumGained int64 `json:"sum_gained"`
	SumLost   int64 `json:"sum_lost"`
	Drift     int64 `json:"drift"`
}

// PenaltyDue is the summed value of one user's incomplete tasks for a day.
type PenaltyDue struct {
	UserID int64
	Amount int64
}

// Batch job names, also used as idempotency-key prefixes.
const (
	JobRecurrence = "recurrence"
	JobPenalty    = "penalty"
)
