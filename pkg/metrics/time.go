package metrics

import "time"

// Now returns the current time as unix seconds, the timestamp unit used
// throughout the run document.
func Now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// ToTime converts unix seconds back into a time.Time.
func ToTime(sec float64) time.Time {
	return time.Unix(0, int64(sec*1e9))
}
