package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agencydesk/agency-tickets/internal/service"
)

// StatisticsHandler serves system-wide rollups.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(stats *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Global handles GET /statistics/global.
func (h *StatisticsHandler) Global(c *fiber.Ctx) error {
	stats, err := h.stats.GlobalStatistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": globalStatisticsResponse(stats)})
}
