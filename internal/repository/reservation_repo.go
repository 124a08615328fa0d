package repository

import (
	"context"
	"errors"
	"time"

	"shop-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationRepo interface {
	// Get возвращает живую (непросроченную на момент now) резервацию пары
	// (product, user). Просроченная строка считается отсутствующей, даже
	// если свипер её ещё не удалил.
	Get(ctx context.Context, productID, userID uuid.UUID, now time.Time) (*models.Reservation, error)
	// ReservedByOthers — сумма живых резерваций этого товара другими
	// пользователями. Собственный холд запрашивающего не учитывается.
	ReservedByOthers(ctx context.Context, productID, userID uuid.UUID, now time.Time) (int64, error)
	// Upsert вставляет резервацию или заменяет quantity и expires_at
	// существующей строки пары (product, user). TTL всегда выставляется
	// заново, не прибавляется.
	Upsert(ctx context.Context, res *models.Reservation) error
	DeleteByProductUser(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type reservationRepo struct{ db *gorm.DB }

func NewReservationRepo(db *gorm.DB) ReservationRepo { return &reservationRepo{db: db} }

func (r *reservationRepo) Get(ctx context.Context, productID, userID uuid.UUID, now time.Time) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ? AND expires_at > ?", productID, userID, now).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &res, err
}

func (r *reservationRepo) ReservedByOthers(ctx context.Context, productID, userID uuid.UUID, now time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ? AND user_id <> ? AND expires_at > ?", productID, userID, now).
		Scan(&sum).Error
	return sum, err
}

func (r *reservationRepo) Upsert(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   res.Quantity,
				"expires_at": res.ExpiresAt,
			}),
		}).
		Create(res).Error
}

func (r *reservationRepo) DeleteByProductUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Delete(&models.Reservation{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *reservationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.Reservation{})
	return tx.RowsAffected, tx.Error
}

func (r *reservationRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("product_id = ?", productID).
		Count(&cnt).Error
	return cnt, err
}
