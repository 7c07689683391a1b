package repository

import (
	"context"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

type statusEventRepository struct {
	db DBTX
}

// NewStatusEventRepository builds repository.
func NewStatusEventRepository(db DBTX) StatusEventRepository {
	return &statusEventRepository{db: db}
}

func (r *statusEventRepository) Append(ctx context.Context, event *domain.StatusEvent) error {
	const query = `
        INSERT INTO status_events (agent_id, ticket_id, status, occurred_at)
        VALUES ($1,$2,$3,$4)`
	_, err := r.db.Exec(ctx, query,
		event.AgentID,
		event.TicketID,
		event.Status,
		event.OccurredAt,
	)
	return err
}

func (r *statusEventRepository) Latest(ctx context.Context, ticketID string) (*domain.StatusEvent, error) {
	const query = `
        SELECT agent_id, ticket_id, status, occurred_at
        FROM status_events WHERE ticket_id=$1
        ORDER BY occurred_at DESC LIMIT 1`
	var event domain.StatusEvent
	if err := r.db.QueryRow(ctx, query, ticketID).Scan(
		&event.AgentID,
		&event.TicketID,
		&event.Status,
		&event.OccurredAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &event, nil
}

func (r *statusEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusEvent, error) {
	const query = `
        SELECT agent_id, ticket_id, status, occurred_at
        FROM status_events WHERE ticket_id=$1 ORDER BY occurred_at ASC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.StatusEvent{}
	for rows.Next() {
		var event domain.StatusEvent
		if err := rows.Scan(
			&event.AgentID,
			&event.TicketID,
			&event.Status,
			&event.OccurredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *statusEventRepository) DeleteByTicket(ctx context.Context, ticketID string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM status_events WHERE ticket_id=$1`, ticketID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *statusEventRepository) DeleteByAgentTickets(ctx context.Context, agentID string) (int64, error) {
	const query = `
        DELETE FROM status_events
        WHERE ticket_id IN (SELECT id FROM tickets WHERE agent_id=$1)`
	cmd, err := r.db.Exec(ctx, query, agentID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *statusEventRepository) CountForeignByAgent(ctx context.Context, agentID string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM status_events e
        JOIN tickets t ON t.id = e.ticket_id
        WHERE e.agent_id=$1 AND t.agent_id <> $1`
	var count int64
	err := r.db.QueryRow(ctx, query, agentID).Scan(&count)
	return count, err
}

func (r *statusEventRepository) CountByStatus(ctx context.Context, agentID *string) (map[domain.TicketStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM status_events`
	args := []any{}
	if agentID != nil {
		query += ` WHERE agent_id=$1`
		args = append(args, *agentID)
	}
	query += ` GROUP BY status`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int64, len(domain.TicketStatuses))
	for _, status := range domain.TicketStatuses {
		result[status] = 0
	}
	for rows.Next() {
		var (
			status domain.TicketStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}
