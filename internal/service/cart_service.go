package service

import (
	"context"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

// Корзина — черновик заказа, остатки она не резервирует.
// Холды появляются только при старте checkout-сессии.
type CartService interface {
	// AddItem добавляет товар или увеличивает количество уже лежащего.
	AddItem(ctx context.Context, productID uuid.UUID, quantity int32) (*models.CartItem, error)
	// UpdateItem заменяет количество позиции целиком.
	UpdateItem(ctx context.Context, productID uuid.UUID, quantity int32) (*models.CartItem, error)
	RemoveItem(ctx context.Context, productID uuid.UUID) error
	List(ctx context.Context) ([]models.CartItem, error)
	Clear(ctx context.Context) error
}

type cartService struct {
	store Store
}

func NewCartService(store Store) CartService {
	return &cartService{store: store}
}

func (s *cartService) AddItem(ctx context.Context, productID uuid.UUID, quantity int32) (*models.CartItem, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item *models.CartItem
	err = s.store.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		existing, err := tx.Carts.Get(ctx, userID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			quantity += existing.Quantity
		}

		item = &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		return tx.Carts.Upsert(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) UpdateItem(ctx context.Context, productID uuid.UUID, quantity int32) (*models.CartItem, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item *models.CartItem
	err = s.store.WithTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Carts.Get(ctx, userID, productID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrCartItemNotFound
		}

		item = &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		return tx.Carts.Upsert(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Carts.Remove(ctx, userID, productID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCartItemNotFound
		}
		return nil
	})
}

func (s *cartService) List(ctx context.Context) ([]models.CartItem, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	var list []models.CartItem
	err = s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		list, err = tx.Carts.ListByUser(ctx, userID)
		return err
	})
	return list, err
}

func (s *cartService) Clear(ctx context.Context) error {
	userID, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx *repository.Repository) error {
		_, err := tx.Carts.ClearByUser(ctx, userID)
		return err
	})
}
