package domain

import "time"

// Ticket is a service request owned by an agent.
type Ticket struct {
	ID              string
	ServiceCategory string
	Description     string
	AgentID         string
	CreatedAt       time.Time
}

// StatusEvent is an immutable record of one status assignment to a ticket.
// Events are keyed by (AgentID, TicketID, OccurredAt).
type StatusEvent struct {
	AgentID    string
	TicketID   string
	Status     TicketStatus
	OccurredAt time.Time
}

// CurrentStatus projects the status of the chronologically latest event.
// It returns nil when events is empty.
func CurrentStatus(events []StatusEvent) *TicketStatus {
	var latest *StatusEvent
	for i := range events {
		if latest == nil || events[i].OccurredAt.After(latest.OccurredAt) {
			latest = &events[i]
		}
	}
	if latest == nil {
		return nil
	}
	status := latest.Status
	return &status
}
