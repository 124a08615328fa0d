package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB           *gorm.DB
	Users        UserRepo
	Products     ProductRepo
	Reservations ReservationRepo
	Carts        CartRepo
	Orders       OrderRepo
	OrderItems   OrderItemRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:           db,
		Users:        NewUserRepo(db),
		Products:     NewProductRepo(db),
		Reservations: NewReservationRepo(db),
		Carts:        NewCartRepo(db),
		Orders:       NewOrderRepo(db),
		OrderItems:   NewOrderItemRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// Глобальная транзакция на весь набор репо. Контекст ограничивает время
// жизни транзакции: по дедлайну она откатывается.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
