package handlers

import (
	"errors"

	"finsight/internal/dto"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Ask the financial advisor
// @Description Ask a free-form question about your finances, grounded in your persisted data
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat request"
// @Security Bearer
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	history := make([]service.ChatTurn, len(req.History))
	for i, turn := range req.History {
		history[i] = service.ChatTurn{Role: turn.Role, Content: turn.Content}
	}

	reply, err := h.chatService.Chat(c.Context(), userID, req.Message, history)
	if err != nil {
		if errors.Is(err, service.ErrOracle) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Advisor is temporarily unavailable",
			})
		}
		h.logger.Error("Chat failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Chat failed",
		})
	}

	return c.JSON(dto.ChatResponse{Reply: reply})
}
