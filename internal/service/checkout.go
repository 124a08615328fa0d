package service

import (
	"context"

	"github.com/google/uuid"
)

type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

type CheckoutInput struct {
	Lines            []CheckoutLine
	ShippingFeeCents int64
	SuccessURL       string
	CancelURL        string
}

type CheckoutService interface {
	// CreateSession валидирует корзину по эффективной доступности, создаёт
	// или продлевает резервации одной транзакцией и запрашивает
	// checkout-сессию у провайдера. Возвращает redirect URL.
	CreateSession(ctx context.Context, in CheckoutInput) (string, error)

	// Available отвечает «сколько единиц товара пользователь может забрать
	// прямо сейчас»: inventory минус живые резервации других пользователей.
	// Может быть <= 0.
	Available(ctx context.Context, productID, userID uuid.UUID) (int64, error)
}
