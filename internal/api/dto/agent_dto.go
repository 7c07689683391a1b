package dto

import (
	"time"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

// CreateAgentRequest payload.
type CreateAgentRequest struct {
	Surname      string               `json:"surname"`
	GivenNames   string               `json:"given_names"`
	BirthYear    int                  `json:"birth_year"`
	Category     domain.AgentCategory `json:"category"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	RegisteredAt *time.Time           `json:"registered_at,omitempty"`
}

// UpdateAgentRequest payload. Omitted fields keep their stored value.
type UpdateAgentRequest struct {
	Surname    *string               `json:"surname,omitempty"`
	GivenNames *string               `json:"given_names,omitempty"`
	BirthYear  *int                  `json:"birth_year,omitempty"`
	Category   *domain.AgentCategory `json:"category,omitempty"`
	Email      *string               `json:"email,omitempty"`
	Phone      *string               `json:"phone,omitempty"`
}

// AgentResponse represents an agent.
type AgentResponse struct {
	ID           string               `json:"id"`
	Surname      string               `json:"surname"`
	GivenNames   string               `json:"given_names"`
	FullName     string               `json:"full_name"`
	BirthYear    int                  `json:"birth_year"`
	Category     domain.AgentCategory `json:"category"`
	Email        string               `json:"email"`
	Phone        string               `json:"phone"`
	RegisteredAt time.Time            `json:"registered_at"`
}
