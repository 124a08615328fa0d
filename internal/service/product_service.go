package service

import (
	"context"
	"errors"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

// ErrProductReserved возвращается при попытке удалить товар,
// на который ещё висят резервации.
var ErrProductReserved = errors.New("product has active reservations")

type CreateProductInput struct {
	Name         string
	Description  string
	Image        string
	PriceCents   int64
	Inventory    int32
	Featured     bool
	FreeShipping bool
}

type UpdateProductInput struct {
	Name         *string
	Description  *string
	Image        *string
	PriceCents   *int64
	Inventory    *int32
	Featured     *bool
	FreeShipping *bool
}

type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	store Store
}

func NewProductService(store Store) ProductService {
	return &productService{store: store}
}

func (s *productService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if in.PriceCents < 0 || in.Inventory < 0 {
		return nil, ErrInvalidQuantity
	}

	p := &models.Product{
		Name:         in.Name,
		Description:  in.Description,
		Image:        in.Image,
		PriceCents:   in.PriceCents,
		Inventory:    in.Inventory,
		Featured:     in.Featured,
		FreeShipping: in.FreeShipping,
	}
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		return tx.Products.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, ErrInvalidQuantity
		}
		fields["price_cents"] = *in.PriceCents
	}
	if in.Inventory != nil {
		if *in.Inventory < 0 {
			return nil, ErrInvalidQuantity
		}
		fields["inventory"] = *in.Inventory
	}
	if in.Featured != nil {
		fields["featured"] = *in.Featured
	}
	if in.FreeShipping != nil {
		fields["free_shipping"] = *in.FreeShipping
	}

	var p *models.Product
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrProductNotFound
		}
		if err := tx.Products.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		p, err = tx.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p *models.Product
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		p, err = tx.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	var (
		list  []models.Product
		total int64
	)
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		list, total, err = tx.Products.List(ctx, f)
		return err
	})
	return list, total, err
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(tx *repository.Repository) error {
		cnt, err := tx.Reservations.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrProductReserved
		}
		ok, err := tx.Products.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}
		return nil
	})
}
