package shows

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusSoldOut   Status = "sold_out"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the show status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusSoldOut, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsBookable reports whether seats can still be reserved for this status
func (s Status) IsBookable() bool {
	return s == StatusScheduled
}
