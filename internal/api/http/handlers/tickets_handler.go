package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/agencydesk/agency-tickets/internal/api/dto"
	"github.com/agencydesk/agency-tickets/internal/domain"
	"github.com/agencydesk/agency-tickets/internal/service"
	apperrors "github.com/agencydesk/agency-tickets/pkg/util/errorutil"
)

// TicketsHandler manages ticket and status endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		AgentID:         req.AgentID,
		ServiceCategory: req.ServiceCategory,
		Description:     req.Description,
		CreatedAt:       req.CreatedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Update handles PUT and PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		ServiceCategory: req.ServiceCategory,
		Description:     req.Description,
		AgentID:         req.AgentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	deleted, err := h.service.DeleteTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return c.SendStatus(http.StatusNoContent)
}

// Status handles GET /tickets/:id/status.
func (h *TicketsHandler) Status(c *fiber.Ctx) error {
	id := c.Params("id")
	status, err := h.service.GetCurrentStatus(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CurrentStatusResponse{
		TicketID:    id,
		Status:      status,
		AllowedNext: domain.AllowedNext(status),
	}})
}

// UpdateStatus handles POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.AgentID == "" {
		return apperrors.NewValidationError("validation failed", map[string]any{"agent_id": "is required"})
	}
	event, err := h.service.UpdateTicketStatus(c.UserContext(), c.Params("id"), req.AgentID, req.Status)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": statusEventResponse(event)})
}

// Events handles GET /tickets/:id/events.
func (h *TicketsHandler) Events(c *fiber.Ctx) error {
	history, err := h.service.ListTicketEvents(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statusEventResponses(history)})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{
		ServiceCategory: optionalQuery(c, "service_category"),
		AgentID:         optionalQuery(c, "agent_id"),
	}
	var err error
	if filter.Limit, filter.Offset, err = pageParams(c); err != nil {
		return filter, err
	}
	if filter.CreatedFrom, err = dateQuery(c, "date_from", false); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = dateQuery(c, "date_to", true); err != nil {
		return filter, err
	}
	if raw := optionalQuery(c, "status"); raw != nil {
		status := domain.TicketStatus(*raw)
		filter.Status = &status
	}
	return filter, nil
}
