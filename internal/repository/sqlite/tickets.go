package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/repository"
)

type ticketRepository struct {
	db dbtx
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets(id, service_category, description, agent_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, ticket.ID, ticket.ServiceCategory, ticket.Description, ticket.AgentID, ts(ticket.CreatedAt))
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tickets SET service_category = ?, description = ?, agent_id = ?
		WHERE id = ?
	`, ticket.ServiceCategory, ticket.Description, ticket.AgentID, ticket.ID)
	if err != nil {
		return err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, service_category, description, agent_id, created_at
		FROM tickets WHERE id = ?
	`, id)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		clauses = append(clauses, `(
			SELECT e.status FROM status_events e
			WHERE e.ticket_id = t.id
			ORDER BY e.occurred_at DESC
			LIMIT 1
		) = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.ServiceCategory != nil && strings.TrimSpace(*filter.ServiceCategory) != "" {
		clauses = append(clauses, `ulower(t.service_category) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(*filter.ServiceCategory))
	}
	if filter.AgentID != nil {
		clauses = append(clauses, "t.agent_id = ?")
		args = append(args, *filter.AgentID)
	}
	if filter.CreatedFrom != nil {
		clauses = append(clauses, "t.created_at >= ?")
		args = append(args, ts(*filter.CreatedFrom))
	}
	if filter.CreatedTo != nil {
		clauses = append(clauses, "t.created_at <= ?")
		args = append(args, ts(*filter.CreatedTo))
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.service_category, t.description, t.agent_id, t.created_at
		FROM tickets t
		WHERE %s
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT %d OFFSET %d`, strings.Join(clauses, " AND "), filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ticket)
	}
	return out, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := rowsAffected(res)
	return n > 0, err
}

func (r *ticketRepository) DeleteByAgent(ctx context.Context, agentID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE agent_id = ?`, agentID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}

func (r *ticketRepository) Count(ctx context.Context, agentID *string) (int64, error) {
	var count int64
	var err error
	if agentID != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE agent_id = ?`, *agentID).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	}
	return count, err
}

func scanTicket(row scanner) (*domain.Ticket, error) {
	var (
		ticket    domain.Ticket
		createdAt string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.ServiceCategory,
		&ticket.Description,
		&ticket.AgentID,
		&createdAt,
	); err != nil {
		return nil, err
	}
	parsed, err := parseTS(createdAt)
	if err != nil {
		return nil, err
	}
	ticket.CreatedAt = parsed
	return &ticket, nil
}
