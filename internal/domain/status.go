package domain

// TicketStatus enumerates lifecycle states recorded by status events.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusDone       TicketStatus = "done"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// TicketStatuses lists every status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusDone,
	TicketStatusCancelled,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts raw input to a TicketStatus.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	status := TicketStatus(raw)
	return status, status.Valid()
}

// initialTransitions applies when a ticket has no events yet.
var initialTransitions = []TicketStatus{TicketStatusPending}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:    {TicketStatusInProgress, TicketStatusCancelled},
	TicketStatusInProgress: {TicketStatusDone, TicketStatusCancelled, TicketStatusPending},
	TicketStatusDone:       {TicketStatusInProgress},
	TicketStatusCancelled:  {TicketStatusPending},
}

// IsValidTransition reports whether next may follow current. A nil current
// means the ticket has no recorded events.
func IsValidTransition(current *TicketStatus, next TicketStatus) bool {
	for _, candidate := range AllowedNext(current) {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedNext returns the statuses reachable from current.
func AllowedNext(current *TicketStatus) []TicketStatus {
	if current == nil {
		return initialTransitions
	}
	return allowedTransitions[*current]
}
