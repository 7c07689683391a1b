package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/agencydesk/agency-tickets/internal/api/dto"
	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/service"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

// AgentsHandler exposes agent endpoints.
type AgentsHandler struct {
	agents  *service.AgentService
	tickets *service.TicketService
	stats   *service.StatisticsService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agents *service.AgentService, tickets *service.TicketService, stats *service.StatisticsService) *AgentsHandler {
	return &AgentsHandler{agents: agents, tickets: tickets, stats: stats}
}

// Create handles POST /agents.
func (h *AgentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAgentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	agent, err := h.agents.CreateAgent(c.UserContext(), service.AgentCreateInput{
		Surname:      req.Surname,
		GivenNames:   req.GivenNames,
		BirthYear:    req.BirthYear,
		Category:     req.Category,
		Email:        req.Email,
		Phone:        req.Phone,
		RegisteredAt: req.RegisteredAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": agentResponse(agent)})
}

// List handles GET /agents.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := service.AgentListFilter{
		Search: optionalQuery(c, "search"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := optionalQuery(c, "category"); raw != nil {
		category := domain.AgentCategory(*raw)
		filter.Category = &category
	}
	agents, err := h.agents.ListAgents(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponses(agents)})
}

// Get handles GET /agents/:id.
func (h *AgentsHandler) Get(c *fiber.Ctx) error {
	agent, err := h.agents.GetAgent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponse(agent)})
}

// Update handles PUT and PATCH /agents/:id.
func (h *AgentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAgentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	agent, err := h.agents.UpdateAgent(c.UserContext(), c.Params("id"), service.AgentUpdateInput{
		Surname:    req.Surname,
		GivenNames: req.GivenNames,
		BirthYear:  req.BirthYear,
		Category:   req.Category,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentResponse(agent)})
}

// Delete handles DELETE /agents/:id.
func (h *AgentsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	deleted, err := h.agents.DeleteAgent(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
	}
	return c.SendStatus(http.StatusNoContent)
}

// Tickets handles GET /agents/:id/tickets.
func (h *AgentsHandler) Tickets(c *fiber.Ctx) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListAgentTickets(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Statistics handles GET /agents/:id/statistics.
func (h *AgentsHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.stats.AgentStatistics(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agentStatisticsResponse(stats)})
}
