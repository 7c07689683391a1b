package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/events"
	"github.com/agencydesk/agency-tickets/internal/repository"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows and the status lifecycle.
type TicketService struct {
	base
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	AgentID         string
	ServiceCategory string
	Description     string
	// CreatedAt defaults to the current time.
	CreatedAt *time.Time
}

// TicketUpdateInput carries a partial update. Nil fields are left untouched.
type TicketUpdateInput struct {
	ServiceCategory *string
	Description     *string
	AgentID         *string
}

// TicketListFilter describes ticket listing filters. CreatedFrom and
// CreatedTo are inclusive.
type TicketListFilter struct {
	ServiceCategory *string
	AgentID         *string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	Status          *domain.TicketStatus
	Limit           int
	Offset          int
}

// NewTicketService constructs the service.
func NewTicketService(deps Dependencies) *TicketService {
	return &TicketService{base: newBase(deps)}
}

// CreateTicket stores a ticket for an existing agent together with its
// initial pending event.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	now := s.now()
	ticket := &domain.Ticket{
		ID:              uuid.NewString(),
		ServiceCategory: strings.TrimSpace(input.ServiceCategory),
		Description:     strings.TrimSpace(input.Description),
		AgentID:         input.AgentID,
		CreatedAt:       now,
	}
	if input.CreatedAt != nil {
		ticket.CreatedAt = input.CreatedAt.UTC().Truncate(time.Microsecond)
	}
	if err := domain.ValidateTicket(*ticket); err != nil {
		return nil, mapStoreError(err)
	}

	var initial *domain.StatusEvent
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		if _, err := loadAgent(ctx, repos, input.AgentID); err != nil {
			return err
		}
		if err := repos.Tickets.Create(ctx, ticket); err != nil {
			return err
		}
		event, err := appendStatus(ctx, repos, ticket.ID, ticket.AgentID, domain.TicketStatusPending, now)
		if err != nil {
			return err
		}
		initial = event
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		AgentID:  ticket.AgentID,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{ServiceCategory: ticket.ServiceCategory},
	})
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		AgentID:  initial.AgentID,
		TicketID: ticket.ID,
		Payload:  events.TicketStatusChangedPayload{NewStatus: initial.Status},
	})
	return ticket, nil
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := loadTicket(ctx, s.store.Repositories(), id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return ticket, nil
}

// ListTickets returns tickets matching filter, newest first. The status
// filter matches each ticket's current status.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status filter",
			map[string]any{"status": "must be one of pending, in_progress, done, cancelled"})
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedFrom.After(*filter.CreatedTo) {
		return nil, apperrors.NewValidationError("invalid date range",
			map[string]any{"date_from": "must not be after date_to"})
	}
	if filter.AgentID != nil && !validID(*filter.AgentID) {
		return []domain.Ticket{}, nil
	}
	limit, offset := s.page(filter.Limit, filter.Offset)
	tickets, err := s.store.Repositories().Tickets.List(ctx, repository.TicketFilter{
		ServiceCategory: filter.ServiceCategory,
		AgentID:         filter.AgentID,
		CreatedFrom:     filter.CreatedFrom,
		CreatedTo:       filter.CreatedTo,
		Status:          filter.Status,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return tickets, nil
}

// ListAgentTickets returns the tickets owned by an existing agent.
func (s *TicketService) ListAgentTickets(ctx context.Context, agentID string, limit, offset int) ([]domain.Ticket, error) {
	if _, err := loadAgent(ctx, s.store.Repositories(), agentID); err != nil {
		return nil, mapStoreError(err)
	}
	return s.ListTickets(ctx, TicketListFilter{AgentID: &agentID, Limit: limit, Offset: offset})
}

// UpdateTicket merges the fields present in input into the stored ticket.
// Reassigning the owner re-validates the target agent.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := validateTicketUpdate(&input); err != nil {
		return nil, mapStoreError(err)
	}

	var updated *domain.Ticket
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		ticket, err := loadTicket(ctx, repos, id)
		if err != nil {
			return err
		}
		if input.ServiceCategory != nil {
			ticket.ServiceCategory = *input.ServiceCategory
		}
		if input.Description != nil {
			ticket.Description = *input.Description
		}
		if input.AgentID != nil && *input.AgentID != ticket.AgentID {
			if _, err := loadAgent(ctx, repos, *input.AgentID); err != nil {
				return err
			}
			ticket.AgentID = *input.AgentID
		}
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return updated, nil
}

// DeleteTicket removes a ticket and its status history. It reports false
// when no ticket existed.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var (
		existed       bool
		ownerID       string
		eventsRemoved int64
	)
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		ticket, err := repos.Tickets.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		ownerID = ticket.AgentID
		if eventsRemoved, err = repos.Events.DeleteByTicket(ctx, id); err != nil {
			return err
		}
		_, err = repos.Tickets.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, mapStoreError(err)
	}
	if !existed {
		return false, nil
	}

	s.logger.Info("ticket deleted", zap.String("ticket_id", id), zap.Int64("events_removed", eventsRemoved))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		AgentID:  ownerID,
		TicketID: id,
		Payload:  events.TicketDeletedPayload{EventsRemoved: eventsRemoved},
	})
	return true, nil
}

// GetCurrentStatus returns the status of the ticket's latest event, or nil
// when the ticket has no events.
func (s *TicketService) GetCurrentStatus(ctx context.Context, ticketID string) (*domain.TicketStatus, error) {
	repos := s.store.Repositories()
	if _, err := loadTicket(ctx, repos, ticketID); err != nil {
		return nil, mapStoreError(err)
	}
	status, err := currentStatus(ctx, repos, ticketID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return status, nil
}

// UpdateTicketStatus appends a status event after checking the transition
// from the ticket's current status. Existing events are never modified.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, ticketID, agentID string, next domain.TicketStatus) (*domain.StatusEvent, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("invalid status",
			map[string]any{"status": "must be one of pending, in_progress, done, cancelled"})
	}

	var (
		previous *domain.TicketStatus
		event    *domain.StatusEvent
	)
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		if _, err := loadTicket(ctx, repos, ticketID); err != nil {
			return err
		}
		if _, err := loadAgent(ctx, repos, agentID); err != nil {
			return err
		}
		current, err := currentStatus(ctx, repos, ticketID)
		if err != nil {
			return err
		}
		previous = current
		event, err = appendStatus(ctx, repos, ticketID, agentID, next, s.now())
		return err
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.Info("ticket status changed",
		zap.String("ticket_id", ticketID),
		zap.String("agent_id", agentID),
		zap.String("from", statusLabel(previous)),
		zap.String("to", string(next)))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		AgentID:  agentID,
		TicketID: ticketID,
		Payload:  events.TicketStatusChangedPayload{OldStatus: previous, NewStatus: next},
	})
	return event, nil
}

// ListTicketEvents returns a ticket's status history, oldest first.
func (s *TicketService) ListTicketEvents(ctx context.Context, ticketID string) ([]domain.StatusEvent, error) {
	repos := s.store.Repositories()
	if _, err := loadTicket(ctx, repos, ticketID); err != nil {
		return nil, mapStoreError(err)
	}
	history, err := repos.Events.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return history, nil
}

func currentStatus(ctx context.Context, repos repository.Repositories, ticketID string) (*domain.TicketStatus, error) {
	latest, err := repos.Events.Latest(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &latest.Status, nil
}

// appendStatus is the single write path for status events. It checks the
// transition table against the latest event and stamps the new event
// strictly after it.
func appendStatus(ctx context.Context, repos repository.Repositories, ticketID, agentID string, next domain.TicketStatus, now time.Time) (*domain.StatusEvent, error) {
	latest, err := repos.Events.Latest(ctx, ticketID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	var current *domain.TicketStatus
	if latest != nil {
		current = &latest.Status
		if !now.After(latest.OccurredAt) {
			now = latest.OccurredAt.Add(time.Microsecond)
		}
	}
	if !domain.IsValidTransition(current, next) {
		return nil, apperrors.NewInvalidTransition(statusLabel(current), string(next))
	}

	event := &domain.StatusEvent{
		AgentID:    agentID,
		TicketID:   ticketID,
		Status:     next,
		OccurredAt: now,
	}
	if err := repos.Events.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func statusLabel(status *domain.TicketStatus) string {
	if status == nil {
		return "none"
	}
	return string(*status)
}

func validateTicketUpdate(input *TicketUpdateInput) error {
	errs := domain.FieldErrors{}
	if input.ServiceCategory != nil {
		v := strings.TrimSpace(*input.ServiceCategory)
		input.ServiceCategory = &v
		errs.CheckLength("service_category", v, domain.ServiceCategoryMinLength, domain.ServiceCategoryMaxLength)
	}
	if input.Description != nil {
		v := strings.TrimSpace(*input.Description)
		input.Description = &v
		errs.CheckLength("description", v, domain.DescriptionMinLength, domain.DescriptionMaxLength)
	}
	return errs.Err()
}
