package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email string    `gorm:"type:text;not null;uniqueIndex"`
	Name  string    `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:text;not null;default:'/uploads/imageNotAvailable.jpg'"`
	PriceCents  int64     `gorm:"not null;default:0"`
	// Долговременный остаток. Уменьшается только при материализации заказа.
	Inventory    int32 `gorm:"not null;default:0"`
	Featured     bool  `gorm:"not null;default:false"`
	FreeShipping bool  `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

// Reservation — временный холд остатка для пары (product, user).
// На пару не больше одной строки: повторный checkout обновляет quantity
// и заново выставляет expires_at.
type Reservation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_reservations_product_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_reservations_product_user"`
	Quantity  int32     `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Reservation) TableName() string { return "product_reservations" }

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_cart_items_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_cart_items_user_product"`
	Quantity  int32     `gorm:"not null"`

	Product Product `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartItem) TableName() string { return "cart_items" }

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusFailed          OrderStatus = "failed"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCanceled        OrderStatus = "canceled"
	OrderStatusReturnRequested OrderStatus = "return_requested"
	OrderStatusReturned        OrderStatus = "returned"
	OrderStatusRefunded        OrderStatus = "refunded"
	OrderStatusOnHold          OrderStatus = "on_hold"
)

type Order struct {
	ID               uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status           OrderStatus `gorm:"type:text;not null;default:'pending';index"`
	SubtotalCents    int64       `gorm:"not null;default:0"`
	ShippingFeeCents int64       `gorm:"not null;default:0"`
	TotalCents       int64       `gorm:"not null;default:0"`
	// Ключ идемпотентности: ровно один заказ на checkout-сессию
	CheckoutSessionID string `gorm:"type:text;not null;uniqueIndex:ux_orders_checkout_session"`
	PaymentIntentID   string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem — снимок name/price/image на момент оформления,
// не зависит от последующих правок Product.
type OrderItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_order_items_order_product"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_order_items_order_product"`
	Name       string    `gorm:"type:text;not null"`
	Image      string    `gorm:"type:text;not null"`
	PriceCents int64     `gorm:"not null"`
	Quantity   int32     `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }
