package events

import (
	"time"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAgentCreated        EventType = "agent.created"
	EventAgentDeleted        EventType = "agent.deleted"
	EventTicketCreated       EventType = "ticket.created"
	EventTicketStatusChanged EventType = "ticket.status_changed"
	EventTicketDeleted       EventType = "ticket.deleted"
)

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	AgentID   string    `json:"agent_id,omitempty"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// AgentCreatedPayload payload.
type AgentCreatedPayload struct {
	Category domain.AgentCategory `json:"category"`
	Email    string               `json:"email"`
}

// AgentDeletedPayload payload.
type AgentDeletedPayload struct {
	TicketsRemoved int64 `json:"tickets_removed"`
	EventsRemoved  int64 `json:"events_removed"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	ServiceCategory string `json:"service_category"`
}

// TicketStatusChangedPayload payload. OldStatus is nil for the initial event.
type TicketStatusChangedPayload struct {
	OldStatus *domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus  `json:"new_status"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	EventsRemoved int64 `json:"events_removed"`
}
