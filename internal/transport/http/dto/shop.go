package dto

import (
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
)

type CheckoutLineRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required,gt=0"`
}

type CheckoutRequest struct {
	Items            []CheckoutLineRequest `json:"items" binding:"required,min=1,dive"`
	ShippingFeeCents int64                 `json:"shipping_fee_cents" binding:"gte=0"`
	SuccessURL       string                `json:"success_url" binding:"required,url"`
	CancelURL        string                `json:"cancel_url" binding:"required,url"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type AvailabilityResponse struct {
	ProductID string `json:"product_id"`
	Available int64  `json:"available"`
}

type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int32  `json:"quantity" binding:"required,gt=0"`
}

type CartItemResponse struct {
	ProductID string           `json:"product_id"`
	Quantity  int32            `json:"quantity"`
	Product   *ProductResponse `json:"product,omitempty"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
}

type CreateProductRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	PriceCents   int64  `json:"price_cents" binding:"gte=0"`
	Inventory    int32  `json:"inventory" binding:"gte=0"`
	Featured     bool   `json:"featured"`
	FreeShipping bool   `json:"free_shipping"`
}

type UpdateProductRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Image        *string `json:"image"`
	PriceCents   *int64  `json:"price_cents"`
	Inventory    *int32  `json:"inventory"`
	Featured     *bool   `json:"featured"`
	FreeShipping *bool   `json:"free_shipping"`
}

type ProductResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	PriceCents   int64     `json:"price_cents"`
	Inventory    int32     `json:"inventory"`
	Featured     bool      `json:"featured"`
	FreeShipping bool      `json:"free_shipping"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

type OrderItemResponse struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int32  `json:"quantity"`
}

type OrderResponse struct {
	ID               string              `json:"id"`
	Status           string              `json:"status"`
	SubtotalCents    int64               `json:"subtotal_cents"`
	ShippingFeeCents int64               `json:"shipping_fee_cents"`
	TotalCents       int64               `json:"total_cents"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

func ToProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Image:        p.Image,
		PriceCents:   p.PriceCents,
		Inventory:    p.Inventory,
		Featured:     p.Featured,
		FreeShipping: p.FreeShipping,
		CreatedAt:    p.CreatedAt,
	}
}

func ToCartItemResponse(it *models.CartItem) CartItemResponse {
	resp := CartItemResponse{
		ProductID: it.ProductID.String(),
		Quantity:  it.Quantity,
	}
	if it.Product.ID != uuid.Nil {
		p := ToProductResponse(&it.Product)
		resp.Product = &p
	}
	return resp
}

func ToOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, OrderItemResponse{
			ProductID:  it.ProductID.String(),
			Name:       it.Name,
			Image:      it.Image,
			PriceCents: it.PriceCents,
			Quantity:   it.Quantity,
		})
	}
	return OrderResponse{
		ID:               o.ID.String(),
		Status:           string(o.Status),
		SubtotalCents:    o.SubtotalCents,
		ShippingFeeCents: o.ShippingFeeCents,
		TotalCents:       o.TotalCents,
		Items:            items,
		CreatedAt:        o.CreatedAt,
	}
}
