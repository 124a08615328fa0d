package handlers

import (
	"net/http"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts service.CartService
	log   *zap.Logger
}

func NewCartHandler(carts service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product_id", nil))
		return
	}

	item, err := h.carts.AddItem(c.Request.Context(), pid, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCartItemResponse(item))
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	pid, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity int32 `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
		return
	}
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	item, err := h.carts.UpdateItem(c.Request.Context(), pid, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCartItemResponse(item))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	pid, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.carts.RemoveItem(c.Request.Context(), pid); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (h *CartHandler) List(c *gin.Context) {
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	items, err := h.carts.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(items))}
	for i := range items {
		resp.Items = append(resp.Items, dto.ToCartItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if !userContext(c) {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.carts.Clear(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
