package domain

import "time"

const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

func ValidRatingValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}

// Rating is one participant's review of the other after a completed swap.
// At most one rating exists per (SwapRequestID, FromUser) pair.
type Rating struct {
	ID            string
	SwapRequestID string
	FromUser      string
	ToUser        string
	Value         int
	Feedback      string
	CreatedAt     time.Time
}

// Reputation is the versioned aggregate the ratings service folds new
// ratings into via compare-and-swap.
type Reputation struct {
	UserID  string
	Sum     int64
	Count   int64
	Version int64
}

func (r Reputation) Average() (float64, bool) {
	if r.Count == 0 {
		return 0, false
	}
	return float64(r.Sum) / float64(r.Count), true
}
