package handlers

import (
	"finsight/internal/dto"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		logger:        logger,
	}
}

// SetBudget godoc
// @Summary Set a category budget
// @Description Create or replace the monthly spending limit for a category
// @Tags budgets
// @Accept json
// @Produce json
// @Param request body dto.SetBudgetRequest true "Budget request"
// @Security Bearer
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) SetBudget(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.SetBudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.MonthlyLimit <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Monthly limit must be positive",
		})
	}

	resp, err := h.budgetService.Set(c.Context(), userID, &req)
	if err != nil {
		if err == service.ErrUnknownCategory {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown category",
			})
		}
		h.logger.Error("Failed to set budget", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to set budget",
		})
	}

	return c.JSON(resp)
}

// ListBudgets godoc
// @Summary List budgets
// @Description Get all category budgets for the user
// @Tags budgets
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.BudgetResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) ListBudgets(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	budgets, err := h.budgetService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list budgets", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list budgets",
		})
	}

	return c.JSON(budgets)
}

// BudgetProgress godoc
// @Summary Current-month budget progress
// @Description Get spending against each budgeted category for the current month
// @Tags budgets
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.BudgetProgressResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/budgets/progress [get]
func (h *BudgetHandler) BudgetProgress(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	progress, err := h.budgetService.Progress(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to compute budget progress", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute budget progress",
		})
	}

	return c.JSON(progress)
}
