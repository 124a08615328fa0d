package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")

	ErrProductNotFound  = errors.New("product not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrCartItemNotFound = errors.New("cart item not found")

	ErrEmptyItems      = errors.New("items empty")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrOutOfStock      = errors.New("out of stock")

	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrBadMetadata      = errors.New("malformed session metadata")

	// ErrTransient — конфликт блокировок или таймаут транзакции,
	// повтор всей операции безопасен.
	ErrTransient = errors.New("transient storage error")
)

// asTransient помечает таймауты транзакций как retryable.
func asTransient(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
