package handlers

import (
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// Summary godoc
// @Summary Income and expense totals
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.SummaryResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	resp, err := h.analytics.Summary(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute summary",
		})
	}

	return c.JSON(resp)
}

// CategoryBreakdown godoc
// @Summary Expense totals per category
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CategoryBreakdownItem
// @Failure 401 {object} map[string]string
// @Router /api/v1/analytics/categories [get]
func (h *AnalyticsHandler) CategoryBreakdown(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	items, err := h.analytics.CategoryBreakdown(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute category breakdown", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute category breakdown",
		})
	}

	return c.JSON(items)
}

// MonthlySeries godoc
// @Summary Monthly income vs expense series
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.MonthlySeriesItem
// @Failure 401 {object} map[string]string
// @Router /api/v1/analytics/monthly [get]
func (h *AnalyticsHandler) MonthlySeries(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	items, err := h.analytics.MonthlySeries(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute monthly series", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute monthly series",
		})
	}

	return c.JSON(items)
}

// WeekdaySpend godoc
// @Summary Expense totals per weekday
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.WeekdaySpendItem
// @Failure 401 {object} map[string]string
// @Router /api/v1/analytics/weekdays [get]
func (h *AnalyticsHandler) WeekdaySpend(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	items, err := h.analytics.WeekdaySpend(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute weekday spending", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute weekday spending",
		})
	}

	return c.JSON(items)
}

// Insights godoc
// @Summary Spending insights and warnings
// @Tags analytics
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.InsightsResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/analytics/insights [get]
func (h *AnalyticsHandler) Insights(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	resp, err := h.analytics.Insights(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to generate insights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate insights",
		})
	}

	return c.JSON(resp)
}
