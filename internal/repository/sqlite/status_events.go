package sqlite

import (
	"context"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

type statusEventRepository struct {
	db dbtx
}

func (r *statusEventRepository) Append(ctx context.Context, event *domain.StatusEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO status_events(agent_id, ticket_id, status, occurred_at)
		VALUES (?, ?, ?, ?)
	`, event.AgentID, event.TicketID, string(event.Status), ts(event.OccurredAt))
	return err
}

func (r *statusEventRepository) Latest(ctx context.Context, ticketID string) (*domain.StatusEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT agent_id, ticket_id, status, occurred_at
		FROM status_events WHERE ticket_id = ?
		ORDER BY occurred_at DESC
		LIMIT 1
	`, ticketID)
	event, err := scanEvent(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return event, nil
}

func (r *statusEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.StatusEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT agent_id, ticket_id, status, occurred_at
		FROM status_events WHERE ticket_id = ?
		ORDER BY occurred_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.StatusEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *event)
	}
	return out, rows.Err()
}

func (r *statusEventRepository) DeleteByTicket(ctx context.Context, ticketID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM status_events WHERE ticket_id = ?`, ticketID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}

func (r *statusEventRepository) DeleteByAgentTickets(ctx context.Context, agentID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM status_events
		WHERE ticket_id IN (SELECT id FROM tickets WHERE agent_id = ?)
	`, agentID)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}

func (r *statusEventRepository) CountForeignByAgent(ctx context.Context, agentID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM status_events e
		JOIN tickets t ON t.id = e.ticket_id
		WHERE e.agent_id = ? AND t.agent_id <> ?
	`, agentID, agentID).Scan(&count)
	return count, err
}

func (r *statusEventRepository) CountByStatus(ctx context.Context, agentID *string) (map[domain.TicketStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM status_events`
	args := []any{}
	if agentID != nil {
		query += ` WHERE agent_id = ?`
		args = append(args, *agentID)
	}
	query += ` GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.TicketStatus]int64, len(domain.TicketStatuses))
	for _, status := range domain.TicketStatuses {
		out[status] = 0
	}
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[domain.TicketStatus(status)] = count
	}
	return out, rows.Err()
}

func scanEvent(row scanner) (*domain.StatusEvent, error) {
	var (
		event      domain.StatusEvent
		status     string
		occurredAt string
	)
	if err := row.Scan(&event.AgentID, &event.TicketID, &status, &occurredAt); err != nil {
		return nil, err
	}
	event.Status = domain.TicketStatus(status)
	parsed, err := parseTS(occurredAt)
	if err != nil {
		return nil, err
	}
	event.OccurredAt = parsed
	return &event, nil
}
