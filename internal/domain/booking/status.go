package booking

import "strings"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusConfirmed  Status = "Confirmed"
	StatusLink       Status = "Link"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusConfirmed,
	StatusLink,
}

func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) IsValid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseStatus accepts any letter case and returns the canonical value.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, v := range allStatuses {
		if strings.EqualFold(string(v), raw) {
			return v, true
		}
	}
	return "", false
}

func InitialStatus() Status {
	return StatusPending
}
