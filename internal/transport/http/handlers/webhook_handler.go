package handlers

import (
	"errors"
	"io"
	"net/http"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Размер тела вебхука сверх разумного — повод отбросить запрос.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhooks service.WebhookService
	log      *zap.Logger
}

func NewWebhookHandler(webhooks service.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, log: log}
}

// Handle принимает события платёжного провайдера.
// Подпись считается по СЫРОМУ телу, поэтому никакого ShouldBindJSON.
// 5xx заставит провайдера повторить доставку, это осознанно для
// временных сбоев.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("cannot read request body", nil))
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("missing signature header", nil))
		return
	}

	if err := h.webhooks.HandleEvent(c.Request.Context(), payload, sig); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			h.log.Warn("webhook signature verification failed")
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid signature", nil))
		case errors.Is(err, service.ErrBadMetadata):
			h.log.Error("webhook carries malformed metadata", zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.NewValidationError("malformed session metadata", nil))
		case errors.Is(err, service.ErrTransient):
			c.JSON(http.StatusServiceUnavailable, dto.NewUnavailableError("temporary failure, delivery will be retried"))
		default:
			h.log.Error("webhook processing failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
