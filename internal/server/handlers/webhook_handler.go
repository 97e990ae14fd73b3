package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/domain/models"
	chat "github.com/mamadbah2/babystock/internal/service/whatsapp"
)

// WebhookHandler serves the WhatsApp chat channel: Meta's subscription
// handshake, inbound stock commands and manual restock notifications.
type WebhookHandler struct {
	chat   chat.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the chat channel handler.
func NewWebhookHandler(svc chat.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{chat: svc, logger: logger}
}

type subscription struct {
	Mode      string `form:"hub.mode"`
	Token     string `form:"hub.verify_token"`
	Challenge string `form:"hub.challenge"`
}

// Verify handles GET /webhook. The challenge is echoed back only for the
// configured verify token.
func (h *WebhookHandler) Verify(c *gin.Context) {
	var sub subscription
	if err := c.ShouldBindQuery(&sub); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	challenge, err := h.chat.VerifyWebhookToken(sub.Mode, sub.Token, sub.Challenge)
	if err != nil {
		h.logger.Warn("chat subscription rejected",
			zap.String("mode", sub.Mode),
			zap.String("client_ip", c.ClientIP()),
			zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	h.logger.Info("chat subscription confirmed")
	c.String(http.StatusOK, challenge)
}

// Receive handles POST /webhook. Stock commands that fail still answer 200;
// Meta retries anything else and would replay the command.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	if err := h.chat.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("stock command not answered",
			zap.Int("entries", len(payload.Entry)),
			zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// SendMessage handles POST /send-message, a restock note pushed by hand.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	err := h.chat.SendOutbound(c.Request.Context(), req)
	switch {
	case err == nil:
		c.Status(http.StatusAccepted)
	case errors.Is(err, models.ErrValidation):
		respondError(c, h.logger, err)
	default:
		h.logger.Error("restock note not delivered", zap.String("to", req.To), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, ErrorResponse{Code: "upstream_error", Detail: "unable to send message"})
	}
}
