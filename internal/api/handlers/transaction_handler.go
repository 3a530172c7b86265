package handlers

import (
	"finsight/internal/models"
	"finsight/internal/repository"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// ListTransactions godoc
// @Summary List user's transactions
// @Description Get user's transactions, optionally filtered by type and category
// @Tags transactions
// @Produce json
// @Param type query string false "Transaction type: expense or income"
// @Param category query string false "Category filter"
// @Security Bearer
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	filter := repository.TransactionFilter{
		Type:     models.TransactionType(c.Query("type")),
		Category: models.Category(c.Query("category")),
	}

	transactions, err := h.txService.List(c.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list transactions",
		})
	}

	return c.JSON(transactions)
}

// ExportTransactions godoc
// @Summary Export transactions as CSV
// @Description Download the user's transactions as a CSV file
// @Tags transactions
// @Produce text/csv
// @Param type query string false "Transaction type: expense or income"
// @Param category query string false "Category filter"
// @Security Bearer
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	filter := repository.TransactionFilter{
		Type:     models.TransactionType(c.Query("type")),
		Category: models.Category(c.Query("category")),
	}

	data, err := h.txService.ExportCSV(c.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Failed to export transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export transactions",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Send(data)
}
