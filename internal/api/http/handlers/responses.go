package handlers

import (
	"github.com/agencydesk/agency-tickets/internal/api/dto"
	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/service"
)

func agentResponse(agent *domain.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:           agent.ID,
		Surname:      agent.Surname,
		GivenNames:   agent.GivenNames,
		FullName:     agent.FullName(),
		BirthYear:    agent.BirthYear,
		Category:     agent.Category,
		Email:        agent.Email,
		Phone:        agent.Phone,
		RegisteredAt: agent.RegisteredAt,
	}
}

func agentResponses(agents []domain.Agent) []dto.AgentResponse {
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, agentResponse(&agents[i]))
	}
	return items
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:              ticket.ID,
		ServiceCategory: ticket.ServiceCategory,
		Description:     ticket.Description,
		AgentID:         ticket.AgentID,
		CreatedAt:       ticket.CreatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func statusEventResponse(event *domain.StatusEvent) dto.StatusEventResponse {
	return dto.StatusEventResponse{
		AgentID:    event.AgentID,
		TicketID:   event.TicketID,
		Status:     event.Status,
		OccurredAt: event.OccurredAt,
	}
}

func statusEventResponses(history []domain.StatusEvent) []dto.StatusEventResponse {
	items := make([]dto.StatusEventResponse, 0, len(history))
	for i := range history {
		items = append(items, statusEventResponse(&history[i]))
	}
	return items
}

func statusCounts(counts map[domain.TicketStatus]int64) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return out
}

func agentStatisticsResponse(stats *service.AgentStatistics) dto.AgentStatisticsResponse {
	return dto.AgentStatisticsResponse{
		AgentID:        stats.AgentID,
		FullName:       stats.FullName,
		TotalTickets:   stats.TotalTickets,
		EventsByStatus: statusCounts(stats.EventsByStatus),
	}
}

func globalStatisticsResponse(stats *service.GlobalStatistics) dto.GlobalStatisticsResponse {
	categories := make(map[string]int64, len(stats.AgentsByCategory))
	for category, count := range stats.AgentsByCategory {
		categories[string(category)] = count
	}
	return dto.GlobalStatisticsResponse{
		TotalAgents:      stats.TotalAgents,
		TotalTickets:     stats.TotalTickets,
		EventsByStatus:   statusCounts(stats.EventsByStatus),
		AgentsByCategory: categories,
		GeneratedAt:      stats.GeneratedAt,
	}
}
