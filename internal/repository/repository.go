package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// UniqueViolationError reports a write rejected by a uniqueness constraint.
type UniqueViolationError struct {
	Field string
	Err   error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s: %v", e.Field, e.Err)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// AgentFilter captures agent listing parameters.
type AgentFilter struct {
	Category *domain.AgentCategory
	// Search is matched case-insensitively against surname, given names and email.
	Search *string
	Limit  int
	Offset int
}

// TicketFilter captures ticket listing parameters. CreatedFrom and CreatedTo
// are both inclusive.
type TicketFilter struct {
	ServiceCategory *string
	AgentID         *string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
	// Status matches against the status of each ticket's latest event.
	Status *domain.TicketStatus
	Limit  int
	Offset int
}

// AgentRepository handles persistence for agents.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	Update(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	List(ctx context.Context, filter AgentFilter) ([]domain.Agent, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[domain.AgentCategory]int64, error)
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByAgent(ctx context.Context, agentID string) (int64, error)
	// Count returns the number of tickets, restricted to one owner when agentID is set.
	Count(ctx context.Context, agentID *string) (int64, error)
}

// StatusEventRepository stores the append-only status history.
type StatusEventRepository interface {
	Append(ctx context.Context, event *domain.StatusEvent) error
	// Latest returns the event with the greatest timestamp, or ErrNotFound.
	Latest(ctx context.Context, ticketID string) (*domain.StatusEvent, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusEvent, error)
	DeleteByTicket(ctx context.Context, ticketID string) (int64, error)
	// DeleteByAgentTickets removes the events of every ticket owned by agentID.
	DeleteByAgentTickets(ctx context.Context, agentID string) (int64, error)
	// CountForeignByAgent counts events agentID recorded on tickets owned by someone else.
	CountForeignByAgent(ctx context.Context, agentID string) (int64, error)
	// CountByStatus counts events per status, restricted to one author when agentID is set.
	CountByStatus(ctx context.Context, agentID *string) (map[domain.TicketStatus]int64, error)
}

// Repositories bundles the repositories bound to one connection or transaction.
type Repositories struct {
	Agents  AgentRepository
	Tickets TicketRepository
	Events  StatusEventRepository
}

// Store is the persistence collaborator consumed by services.
type Store interface {
	Repositories() Repositories
	// WithTx runs fn inside a single transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
}

// NormalizePage applies the default page size and the maximum cap.
func NormalizePage(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
