package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, service_category, description, agent_id, created_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.ServiceCategory,
		ticket.Description,
		ticket.AgentID,
		ticket.CreatedAt,
	)
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET service_category=$1, description=$2, agent_id=$3
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query,
		ticket.ServiceCategory,
		ticket.Description,
		ticket.AgentID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT t.id, t.service_category, t.description, t.agent_id, t.created_at
        FROM tickets t WHERE t.id=$1`
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT t.id, t.service_category, t.description, t.agent_id, t.created_at
             FROM tickets t`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		// top-1 event per ticket, served by idx_status_events_ticket_occurred
		base += ` JOIN LATERAL (
                SELECT e.status FROM status_events e
                WHERE e.ticket_id = t.id
                ORDER BY e.occurred_at DESC
                LIMIT 1
             ) latest ON TRUE`
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("latest.status = $%d", len(args)))
	}
	if filter.ServiceCategory != nil && strings.TrimSpace(*filter.ServiceCategory) != "" {
		args = append(args, likePattern(*filter.ServiceCategory))
		clauses = append(clauses, fmt.Sprintf("t.service_category ILIKE $%d", len(args)))
	}
	if filter.AgentID != nil {
		args = append(args, *filter.AgentID)
		clauses = append(clauses, fmt.Sprintf("t.agent_id=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC, t.id DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) DeleteByAgent(ctx context.Context, agentID string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE agent_id=$1`, agentID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ticketRepository) Count(ctx context.Context, agentID *string) (int64, error) {
	var count int64
	var err error
	if agentID != nil {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE agent_id=$1`, *agentID).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	}
	return count, err
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.ServiceCategory,
		&ticket.Description,
		&ticket.AgentID,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
