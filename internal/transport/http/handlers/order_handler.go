package handlers

import (
	"net/http"
	"strconv"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// GetBySession обслуживает страницу возврата после оплаты: фронт знает
// только session id. 404 до прихода вебхука — нормальная ситуация.
func (h *OrderHandler) GetBySession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("missing session id", nil))
		return
	}
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	order, err := h.orders.GetBySessionID(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func (h *OrderHandler) ListMy(c *gin.Context) {
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, total, err := h.orders.ListMy(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(list)),
		Total:  total,
	}
	for i := range list {
		resp.Orders = append(resp.Orders, dto.ToOrderResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}
