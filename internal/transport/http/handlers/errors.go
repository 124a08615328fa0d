package handlers

import (
	"errors"
	"net/http"

	"shop-service/internal/service"
	"shop-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError переводит сервисные ошибки в HTTP-ответы.
// Всё неизвестное — 500 без деталей.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("user not found"))
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("order not found"))
	case errors.Is(err, service.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("cart item not found"))
	case errors.Is(err, service.ErrOutOfStock):
		c.JSON(http.StatusConflict, dto.NewOutOfStockError("requested quantity is not available"))
	case errors.Is(err, service.ErrProductReserved):
		c.JSON(http.StatusConflict, dto.NewConflictError("product has active reservations"))
	case errors.Is(err, service.ErrEmptyItems):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("items must not be empty", nil))
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("quantity must be positive", nil))
	case errors.Is(err, service.ErrBadMetadata):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("malformed session metadata", nil))
	case errors.Is(err, service.ErrTransient):
		c.JSON(http.StatusServiceUnavailable, dto.NewUnavailableError("temporary failure, please retry"))
	default:
		log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

// userContext переносит user id из gin-контекста в контекст запроса.
func userContext(c *gin.Context) (ctxOK bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return false
	}
	c.Request = c.Request.WithContext(service.WithUserID(c.Request.Context(), id))
	return true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid "+name, nil))
		return uuid.Nil, false
	}
	return id, true
}
