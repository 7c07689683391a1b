package dto

import "time"

// AgentStatisticsResponse payload. Status counts are event counts.
type AgentStatisticsResponse struct {
	AgentID        string           `json:"agent_id"`
	FullName       string           `json:"full_name"`
	TotalTickets   int64            `json:"total_tickets"`
	EventsByStatus map[string]int64 `json:"events_by_status"`
}

// GlobalStatisticsResponse payload.
type GlobalStatisticsResponse struct {
	TotalAgents      int64            `json:"total_agents"`
	TotalTickets     int64            `json:"total_tickets"`
	EventsByStatus   map[string]int64 `json:"events_by_status"`
	AgentsByCategory map[string]int64 `json:"agents_by_category"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
