package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

type OrderService interface {
	// GetOrder отдаёт заказ только его владельцу.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	// GetBySessionID ищет заказ по checkout-сессии, тоже только владельцу.
	// Пока вебхук не отработал, заказа ещё нет — это нормальный случай
	// для страницы "спасибо за покупку", вернётся ErrOrderNotFound.
	GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	ListMy(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
}

type orderService struct {
	store Store
}

func NewOrderService(store Store) OrderService {
	return &orderService{store: store}
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		order, err = tx.Orders.GetByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Чужой заказ не раскрываем даже фактом существования.
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		order, err = tx.Orders.GetBySessionID(ctx, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListMy(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	var (
		list  []models.Order
		total int64
	)
	err = s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		list, total, err = tx.Orders.List(ctx, repository.OrderListFilter{
			UserID: &userID,
			Limit:  limit,
			Offset: offset,
		})
		return err
	})
	return list, total, err
}
