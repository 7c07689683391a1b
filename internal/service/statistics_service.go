package service

import (
	"context"
	"time"

	"github.com/agencydesk/agency-tickets/internal/domain"
)

// AgentStatistics rolls up one agent's workload. EventsByStatus counts every
// status event the agent recorded, not tickets currently in each status.
type AgentStatistics struct {
	AgentID        string
	FullName       string
	TotalTickets   int64
	EventsByStatus map[domain.TicketStatus]int64
}

// GlobalStatistics rolls up the whole system. EventsByStatus counts events,
// not current ticket statuses.
type GlobalStatistics struct {
	TotalAgents      int64
	TotalTickets     int64
	EventsByStatus   map[domain.TicketStatus]int64
	AgentsByCategory map[domain.AgentCategory]int64
	GeneratedAt      time.Time
}

// StatisticsService computes read-only aggregates.
type StatisticsService struct {
	base
}

// NewStatisticsService constructs the service.
func NewStatisticsService(deps Dependencies) *StatisticsService {
	return &StatisticsService{base: newBase(deps)}
}

// AgentStatistics returns the rollup for one agent, or NotFound.
func (s *StatisticsService) AgentStatistics(ctx context.Context, agentID string) (*AgentStatistics, error) {
	repos := s.store.Repositories()
	agent, err := loadAgent(ctx, repos, agentID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	total, err := repos.Tickets.Count(ctx, &agent.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	byStatus, err := repos.Events.CountByStatus(ctx, &agent.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return &AgentStatistics{
		AgentID:        agent.ID,
		FullName:       agent.FullName(),
		TotalTickets:   total,
		EventsByStatus: withAllStatuses(byStatus),
	}, nil
}

// GlobalStatistics returns system-wide totals.
func (s *StatisticsService) GlobalStatistics(ctx context.Context) (*GlobalStatistics, error) {
	repos := s.store.Repositories()
	agents, err := repos.Agents.Count(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	tickets, err := repos.Tickets.Count(ctx, nil)
	if err != nil {
		return nil, mapStoreError(err)
	}
	byStatus, err := repos.Events.CountByStatus(ctx, nil)
	if err != nil {
		return nil, mapStoreError(err)
	}
	byCategory, err := repos.Agents.CountByCategory(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	for _, category := range domain.AgentCategories {
		if _, ok := byCategory[category]; !ok {
			byCategory[category] = 0
		}
	}
	return &GlobalStatistics{
		TotalAgents:      agents,
		TotalTickets:     tickets,
		EventsByStatus:   withAllStatuses(byStatus),
		AgentsByCategory: byCategory,
		GeneratedAt:      s.now(),
	}, nil
}

func withAllStatuses(counts map[domain.TicketStatus]int64) map[domain.TicketStatus]int64 {
	if counts == nil {
		counts = make(map[domain.TicketStatus]int64, len(domain.TicketStatuses))
	}
	for _, status := range domain.TicketStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts
}
