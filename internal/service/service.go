package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agencydesk/agency-tickets/internal/config"
	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/events"
	"github.com/agencydesk/agency-tickets/internal/repository"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

// Dependencies bundles collaborators shared by the services.
type Dependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Pagination config.PaginationConfig
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type base struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	pagination config.PaginationConfig
	clock      func() time.Time
}

func newBase(deps Dependencies) base {
	b := base{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		pagination: deps.Pagination,
		clock:      deps.Clock,
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	if b.pagination.DefaultLimit <= 0 {
		b.pagination.DefaultLimit = 100
	}
	if b.pagination.MaxLimit <= 0 {
		b.pagination.MaxLimit = 1000
	}
	return b
}

// now returns UTC wall time at the precision every store can round-trip.
func (b base) now() time.Time {
	return b.clock().UTC().Truncate(time.Microsecond)
}

func (b base) page(limit, offset int) (int, int) {
	return repository.NormalizePage(limit, offset, b.pagination.DefaultLimit, b.pagination.MaxLimit)
}

func (b base) publishEvent(ctx context.Context, event events.Event) {
	if b.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = b.now()
	}
	if err := b.dispatcher.Publish(ctx, event); err != nil {
		b.logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}

// validID reports whether id can reference a stored row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func agentNotFound(id string) error {
	return apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
}

func ticketNotFound(id string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
}

// loadAgent fetches an agent, translating a miss into a NotFound domain error.
func loadAgent(ctx context.Context, repos repository.Repositories, id string) (*domain.Agent, error) {
	if !validID(id) {
		return nil, agentNotFound(id)
	}
	agent, err := repos.Agents.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, agentNotFound(id)
	}
	return agent, err
}

// loadTicket fetches a ticket, translating a miss into a NotFound domain error.
func loadTicket(ctx context.Context, repos repository.Repositories, id string) (*domain.Ticket, error) {
	if !validID(id) {
		return nil, ticketNotFound(id)
	}
	ticket, err := repos.Tickets.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ticketNotFound(id)
	}
	return ticket, err
}

// mapStoreError classifies errors leaving the service layer. Domain errors
// pass through, uniqueness violations become conflicts, anything else is an
// opaque internal error.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.NewFieldValidationError(fieldErrs)
	}
	var uniqueErr *repository.UniqueViolationError
	if errors.As(err, &uniqueErr) {
		return apperrors.NewConflict("an agent with this "+uniqueErr.Field+" already exists",
			map[string]any{"field": uniqueErr.Field})
	}
	return apperrors.NewInternalError(err)
}
