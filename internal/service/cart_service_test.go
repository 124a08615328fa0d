package service_test

import (
	"context"
	"errors"
	"testing"

	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/service"

	"github.com/google/uuid"
)

func newCartEnv(products *MockProductRepo, carts *MockCartRepo) (service.CartService, context.Context, uuid.UUID) {
	store := &MockStore{Repo: &repository.Repository{
		Products: products,
		Carts:    carts,
	}}
	userID := uuid.New()
	return service.NewCartService(store), service.WithUserID(context.Background(), userID), userID
}

func TestCartAddItem_NewAndIncrement(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Sofa"}
	var stored *models.CartItem

	products := &MockProductRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return product, nil
		},
	}
	carts := &MockCartRepo{
		GetFunc: func(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
			if stored != nil && stored.ProductID == productID {
				return stored, nil
			}
			return nil, nil
		},
		UpsertFunc: func(ctx context.Context, item *models.CartItem) error {
			stored = item
			return nil
		},
	}
	svc, ctx, userID := newCartEnv(products, carts)

	item, err := svc.AddItem(ctx, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Quantity != 2 || item.UserID != userID {
		t.Fatalf("first add mismatch: %+v", item)
	}

	// Повторное добавление суммируется, не заменяется
	item, err = svc.AddItem(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("AddItem second: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", item.Quantity)
	}
}

func TestCartAddItem_ProductMissing(t *testing.T) {
	svc, ctx, _ := newCartEnv(&MockProductRepo{}, &MockCartRepo{})

	_, err := svc.AddItem(ctx, uuid.New(), 1)
	if !errors.Is(err, service.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCartAddItem_InvalidQuantity(t *testing.T) {
	svc, ctx, _ := newCartEnv(&MockProductRepo{}, &MockCartRepo{})

	_, err := svc.AddItem(ctx, uuid.New(), 0)
	if !errors.Is(err, service.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCartUpdateItem_ReplacesQuantity(t *testing.T) {
	productID := uuid.New()
	var stored *models.CartItem

	carts := &MockCartRepo{
		GetFunc: func(ctx context.Context, userID, pid uuid.UUID) (*models.CartItem, error) {
			return &models.CartItem{UserID: userID, ProductID: pid, Quantity: 7}, nil
		},
		UpsertFunc: func(ctx context.Context, item *models.CartItem) error {
			stored = item
			return nil
		},
	}
	svc, ctx, _ := newCartEnv(&MockProductRepo{}, carts)

	item, err := svc.UpdateItem(ctx, productID, 2)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if item.Quantity != 2 || stored.Quantity != 2 {
		t.Fatalf("expected replaced quantity 2, got %+v", item)
	}
}

func TestCartUpdateItem_Missing(t *testing.T) {
	svc, ctx, _ := newCartEnv(&MockProductRepo{}, &MockCartRepo{})

	_, err := svc.UpdateItem(ctx, uuid.New(), 2)
	if !errors.Is(err, service.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestCartRemoveItem_Missing(t *testing.T) {
	svc, ctx, _ := newCartEnv(&MockProductRepo{}, &MockCartRepo{})

	err := svc.RemoveItem(ctx, uuid.New())
	if !errors.Is(err, service.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestCart_Unauthorized(t *testing.T) {
	svc, _, _ := newCartEnv(&MockProductRepo{}, &MockCartRepo{})

	if _, err := svc.List(context.Background()); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
