package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

const agentColumns = `id, surname, given_names, birth_year, category, email, phone, registered_at`

type agentRepository struct {
	db DBTX
}

// NewAgentRepository instantiates the repository.
func NewAgentRepository(db DBTX) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (id, surname, given_names, birth_year, category, email, phone, registered_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := r.db.Exec(ctx, query,
		agent.ID,
		agent.Surname,
		agent.GivenNames,
		agent.BirthYear,
		agent.Category,
		agent.Email,
		agent.Phone,
		agent.RegisteredAt,
	)
	return mapUniqueViolation(err)
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	const query = `
        UPDATE agents
        SET surname=$1, given_names=$2, birth_year=$3, category=$4, email=$5, phone=$6
        WHERE id=$7`

	cmd, err := r.db.Exec(ctx, query,
		agent.Surname,
		agent.GivenNames,
		agent.BirthYear,
		agent.Category,
		agent.Email,
		agent.Phone,
		agent.ID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id=$1`

	agent, err := scanAgent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return agent, nil
}

func (r *agentRepository) List(ctx context.Context, filter AgentFilter) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents`
	args := []any{}
	clauses := []string{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, likePattern(*filter.Search))
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(surname ILIKE %s OR given_names ILIKE %s OR email ILIKE %s)", p, p, p))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY registered_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *agent)
	}
	return result, rows.Err()
}

func (r *agentRepository) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM agents WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *agentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM agents`).Scan(&count)
	return count, err
}

func (r *agentRepository) CountByCategory(ctx context.Context) (map[domain.AgentCategory]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT category, COUNT(*) FROM agents GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.AgentCategory]int64, len(domain.AgentCategories))
	for _, category := range domain.AgentCategories {
		result[category] = 0
	}
	for rows.Next() {
		var (
			category domain.AgentCategory
			count    int64
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		result[category] = count
	}
	return result, rows.Err()
}

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var agent domain.Agent
	if err := row.Scan(
		&agent.ID,
		&agent.Surname,
		&agent.GivenNames,
		&agent.BirthYear,
		&agent.Category,
		&agent.Email,
		&agent.Phone,
		&agent.RegisteredAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}

// likePattern escapes LIKE wildcards in term and wraps it for substring matching.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(term)) + "%"
}
