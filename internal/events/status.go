package events

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled:
		return true
	}
	return false
}

// CanBeBooked reports whether checkout is open for an event in this state.
func (s Status) CanBeBooked() bool {
	return s == StatusPublished
}

func (s Status) CanBeDeleted() bool {
	return s != StatusPublished
}
