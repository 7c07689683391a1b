package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/repository"
)

const agentColumns = `id, surname, given_names, birth_year, category, email, phone, registered_at`

type agentRepository struct {
	db dbtx
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agents(id, surname, given_names, birth_year, category, email, phone, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, agent.ID, agent.Surname, agent.GivenNames, agent.BirthYear, string(agent.Category),
		agent.Email, agent.Phone, ts(agent.RegisteredAt))
	return mapUniqueViolation(err)
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE agents
		SET surname = ?, given_names = ?, birth_year = ?, category = ?, email = ?, phone = ?
		WHERE id = ?
	`, agent.Surname, agent.GivenNames, agent.BirthYear, string(agent.Category),
		agent.Email, agent.Phone, agent.ID)
	if err != nil {
		return mapUniqueViolation(err)
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

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	agent, err := scanAgent(row)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return agent, nil
}

func (r *agentRepository) List(ctx context.Context, filter repository.AgentFilter) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents`
	args := []any{}
	clauses := []string{}

	if filter.Category != nil {
		clauses = append(clauses, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		pattern := likePattern(*filter.Search)
		clauses = append(clauses, `(ulower(surname) LIKE ? ESCAPE '\' OR ulower(given_names) LIKE ? ESCAPE '\' OR ulower(email) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY registered_at DESC, id DESC LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *agent)
	}
	return out, rows.Err()
}

func (r *agentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := rowsAffected(res)
	return n > 0, err
}

func (r *agentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&count)
	return count, err
}

func (r *agentRepository) CountByCategory(ctx context.Context) (map[domain.AgentCategory]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM agents GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.AgentCategory]int64, len(domain.AgentCategories))
	for _, category := range domain.AgentCategories {
		out[category] = 0
	}
	for rows.Next() {
		var (
			category string
			count    int64
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		out[domain.AgentCategory(category)] = count
	}
	return out, rows.Err()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAgent(row scanner) (*domain.Agent, error) {
	var (
		agent        domain.Agent
		category     string
		registeredAt string
	)
	if err := row.Scan(
		&agent.ID,
		&agent.Surname,
		&agent.GivenNames,
		&agent.BirthYear,
		&category,
		&agent.Email,
		&agent.Phone,
		&registeredAt,
	); err != nil {
		return nil, err
	}
	agent.Category = domain.AgentCategory(category)
	parsed, err := parseTS(registeredAt)
	if err != nil {
		return nil, err
	}
	agent.RegisteredAt = parsed
	return &agent, nil
}
