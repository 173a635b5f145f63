package model

// ParseStats counts what happened to the records of one source.
type ParseStats struct {
	Records int `json:"records"`
	Parsed  int `json:"parsed"`
	Skipped int `json:"skipped"`
}

// EventTally buckets entries by a coarse keyword class. Each entry lands in
// exactly one bucket, the first that matches.
type EventTally struct {
	Login         int `json:"login"`
	FailedAttempt int `json:"failed_attempt"`
	Error         int `json:"error"`
	Warning       int `json:"warning"`
	Other         int `json:"other"`
}

// Total returns the number of tallied entries.
func (t EventTally) Total() int {
	return t.Login + t.FailedAttempt + t.Error + t.Warning + t.Other
}
