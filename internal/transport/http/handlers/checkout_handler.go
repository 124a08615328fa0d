package handlers

import (
	"net/http"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, log: log}
}

// CreateSession резервирует все позиции и отдаёт redirect URL платёжной
// сессии. Либо зарезервировано всё, либо ничего.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid checkout request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	lines := make([]service.CheckoutLine, 0, len(req.Items))
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product_id", nil))
			return
		}
		lines = append(lines, service.CheckoutLine{ProductID: pid, Quantity: it.Quantity})
	}

	url, err := h.checkout.CreateSession(c.Request.Context(), service.CheckoutInput{
		Lines:            lines,
		ShippingFeeCents: req.ShippingFeeCents,
		SuccessURL:       req.SuccessURL,
		CancelURL:        req.CancelURL,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

// Availability отдаёт доступное для этого пользователя количество:
// остаток минус чужие живые резервации.
func (h *CheckoutHandler) Availability(c *gin.Context) {
	pid, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	v, exists := c.Get("user_id")
	userID, isUUID := v.(uuid.UUID)
	if !exists || !isUUID {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	avail, err := h.checkout.Available(c.Request.Context(), pid, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		ProductID: pid.String(),
		Available: avail,
	})
}
