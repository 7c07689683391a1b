package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/events"
	"github.com/agencydesk/agency-tickets/internal/repository"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

// AgentService manages agent records.
type AgentService struct {
	base
}

// AgentCreateInput describes agent creation payload.
type AgentCreateInput struct {
	Surname    string
	GivenNames string
	BirthYear  int
	Category   domain.AgentCategory
	Email      string
	Phone      string
	// RegisteredAt defaults to the current time.
	RegisteredAt *time.Time
}

// AgentUpdateInput carries a partial update. Nil fields are left untouched.
type AgentUpdateInput struct {
	Surname    *string
	GivenNames *string
	BirthYear  *int
	Category   *domain.AgentCategory
	Email      *string
	Phone      *string
}

// AgentListFilter describes agent listing filters.
type AgentListFilter struct {
	Category *domain.AgentCategory
	Search   *string
	Limit    int
	Offset   int
}

// NewAgentService constructs the service.
func NewAgentService(deps Dependencies) *AgentService {
	return &AgentService{base: newBase(deps)}
}

// CreateAgent validates and stores a new agent.
func (s *AgentService) CreateAgent(ctx context.Context, input AgentCreateInput) (*domain.Agent, error) {
	now := s.now()
	agent := &domain.Agent{
		ID:           uuid.NewString(),
		Surname:      strings.TrimSpace(input.Surname),
		GivenNames:   strings.TrimSpace(input.GivenNames),
		BirthYear:    input.BirthYear,
		Category:     input.Category,
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		RegisteredAt: now,
	}
	if input.RegisteredAt != nil {
		agent.RegisteredAt = input.RegisteredAt.UTC().Truncate(time.Microsecond)
	}
	if err := domain.ValidateAgent(*agent, now); err != nil {
		return nil, mapStoreError(err)
	}

	if err := s.store.Repositories().Agents.Create(ctx, agent); err != nil {
		return nil, mapStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventAgentCreated,
		AgentID: agent.ID,
		Payload: events.AgentCreatedPayload{Category: agent.Category, Email: agent.Email},
	})
	return agent, nil
}

// GetAgent fetches one agent.
func (s *AgentService) GetAgent(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := loadAgent(ctx, s.store.Repositories(), id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return agent, nil
}

// ListAgents returns agents matching filter, newest registration first.
func (s *AgentService) ListAgents(ctx context.Context, filter AgentListFilter) ([]domain.Agent, error) {
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category filter",
			map[string]any{"category": "must be one of transaction, advisory"})
	}
	limit, offset := s.page(filter.Limit, filter.Offset)
	agents, err := s.store.Repositories().Agents.List(ctx, repository.AgentFilter{
		Category: filter.Category,
		Search:   filter.Search,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return agents, nil
}

// UpdateAgent merges the fields present in input into the stored agent.
func (s *AgentService) UpdateAgent(ctx context.Context, id string, input AgentUpdateInput) (*domain.Agent, error) {
	if err := validateAgentUpdate(&input, s.now()); err != nil {
		return nil, mapStoreError(err)
	}

	var updated *domain.Agent
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		agent, err := loadAgent(ctx, repos, id)
		if err != nil {
			return err
		}
		if input.Surname != nil {
			agent.Surname = *input.Surname
		}
		if input.GivenNames != nil {
			agent.GivenNames = *input.GivenNames
		}
		if input.BirthYear != nil {
			agent.BirthYear = *input.BirthYear
		}
		if input.Category != nil {
			agent.Category = *input.Category
		}
		if input.Email != nil {
			agent.Email = *input.Email
		}
		if input.Phone != nil {
			agent.Phone = *input.Phone
		}
		if err := repos.Agents.Update(ctx, agent); err != nil {
			return err
		}
		updated = agent
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return updated, nil
}

// DeleteAgent removes an agent together with its tickets and their events.
// It reports false when no agent existed. Agents that recorded events on
// tickets owned by other agents cannot be deleted.
func (s *AgentService) DeleteAgent(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var ticketsRemoved, eventsRemoved int64
	existed := false
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		if _, err := loadAgent(ctx, repos, id); err != nil {
			if apperrors.HasCode(err, apperrors.CodeNotFound) {
				return nil
			}
			return err
		}
		existed = true

		foreign, err := repos.Events.CountForeignByAgent(ctx, id)
		if err != nil {
			return err
		}
		if foreign > 0 {
			return apperrors.NewConflict("agent recorded status events on tickets owned by other agents",
				map[string]any{"agent_id": id, "foreign_events": foreign})
		}

		if eventsRemoved, err = repos.Events.DeleteByAgentTickets(ctx, id); err != nil {
			return err
		}
		if ticketsRemoved, err = repos.Tickets.DeleteByAgent(ctx, id); err != nil {
			return err
		}
		_, err = repos.Agents.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, mapStoreError(err)
	}
	if !existed {
		return false, nil
	}

	s.logger.Info("agent deleted",
		zap.String("agent_id", id),
		zap.Int64("tickets_removed", ticketsRemoved),
		zap.Int64("events_removed", eventsRemoved))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventAgentDeleted,
		AgentID: id,
		Payload: events.AgentDeletedPayload{TicketsRemoved: ticketsRemoved, EventsRemoved: eventsRemoved},
	})
	return true, nil
}

// validateAgentUpdate trims and checks only the fields present in input.
func validateAgentUpdate(input *AgentUpdateInput, now time.Time) error {
	errs := domain.FieldErrors{}
	if input.Surname != nil {
		v := strings.TrimSpace(*input.Surname)
		input.Surname = &v
		errs.CheckLength("surname", v, domain.NameMinLength, domain.NameMaxLength)
	}
	if input.GivenNames != nil {
		v := strings.TrimSpace(*input.GivenNames)
		input.GivenNames = &v
		errs.CheckLength("given_names", v, domain.NameMinLength, domain.NameMaxLength)
	}
	if input.BirthYear != nil {
		errs.CheckBirthYear("birth_year", *input.BirthYear, now)
	}
	if input.Category != nil {
		errs.CheckCategory("category", *input.Category)
	}
	if input.Email != nil {
		v := strings.TrimSpace(*input.Email)
		input.Email = &v
		errs.CheckEmail("email", v)
	}
	if input.Phone != nil {
		v := strings.TrimSpace(*input.Phone)
		input.Phone = &v
		errs.CheckPhone("phone", v)
	}
	return errs.Err()
}
