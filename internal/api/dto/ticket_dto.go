package dto

import (
	"time"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	AgentID         string     `json:"agent_id"`
	ServiceCategory string     `json:"service_category"`
	Description     string     `json:"description"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// UpdateTicketRequest payload. Omitted fields keep their stored value.
type UpdateTicketRequest struct {
	ServiceCategory *string `json:"service_category,omitempty"`
	Description     *string `json:"description,omitempty"`
	AgentID         *string `json:"agent_id,omitempty"`
}

// TicketResponse represents a ticket.
type TicketResponse struct {
	ID              string    `json:"id"`
	ServiceCategory string    `json:"service_category"`
	Description     string    `json:"description"`
	AgentID         string    `json:"agent_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// UpdateStatusRequest payload for POST /tickets/:id/status.
type UpdateStatusRequest struct {
	AgentID string              `json:"agent_id"`
	Status  domain.TicketStatus `json:"status"`
}

// StatusEventResponse represents one history entry.
type StatusEventResponse struct {
	AgentID    string              `json:"agent_id"`
	TicketID   string              `json:"ticket_id"`
	Status     domain.TicketStatus `json:"status"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// CurrentStatusResponse reports the derived status. Status is null when the
// ticket has no events.
type CurrentStatusResponse struct {
	TicketID    string                `json:"ticket_id"`
	Status      *domain.TicketStatus  `json:"status"`
	AllowedNext []domain.TicketStatus `json:"allowed_next"`
}
