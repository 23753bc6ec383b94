package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hostify/internal/services"
)

type AIChatHandler struct {
	svc *Services
}

type chatRequest struct {
	APIKey      string              `json:"apiKey" validate:"required"`
	Message     string              `json:"message" validate:"required"`
	AgentName   string              `json:"agentName"`
	Language    string              `json:"language"`
	ChatHistory []services.ChatTurn `json:"chatHistory"`
}

func (h *AIChatHandler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid chat payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := h.svc.AIChat.Chat(c.Request().Context(), services.ChatInput{
		APIKey:    req.APIKey,
		Message:   req.Message,
		AgentName: req.AgentName,
		Language:  req.Language,
		History:   req.ChatHistory,
	})
	if err != nil {
		// Provider failures surface to the caller per the error policy.
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"response": reply})
}

type validateKeyRequest struct {
	APIKey string `json:"apiKey" validate:"required"`
}

func (h *AIChatHandler) Validate(c echo.Context) error {
	var req validateKeyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	valid, message := h.svc.AIChat.ValidateKey(c.Request().Context(), req.APIKey)
	return c.JSON(http.StatusOK, map[string]any{"valid": valid, "message": message})
}
