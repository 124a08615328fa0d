package service

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

type CheckoutConfig struct {
	ReservationTTL time.Duration
	SessionExpiry  time.Duration
	TxTimeout      time.Duration
}

type checkoutService struct {
	store   Store
	gateway PaymentGateway
	users   UserDirectory
	cfg     CheckoutConfig
	now     func() time.Time
}

func NewCheckoutService(store Store, gateway PaymentGateway, users UserDirectory, cfg CheckoutConfig) CheckoutService {
	if cfg.ReservationTTL <= 0 {
		cfg.ReservationTTL = 5 * time.Minute
	}
	if cfg.SessionExpiry <= 0 {
		cfg.SessionExpiry = 3 * time.Hour
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = 5 * time.Second
	}
	return &checkoutService{
		store:   store,
		gateway: gateway,
		users:   users,
		cfg:     cfg,
		now:     time.Now,
	}
}

// availableFor — единственное место, где считается эффективная доступность.
// Собственные резервации пользователя в сумму не входят: это его же холд,
// он заменяется, а не суммируется с конкурентами.
func availableFor(ctx context.Context, tx *repository.Repository, p *models.Product, userID uuid.UUID, now time.Time) (int64, error) {
	reserved, err := tx.Reservations.ReservedByOthers(ctx, p.ID, userID, now)
	if err != nil {
		return 0, err
	}
	return int64(p.Inventory) - reserved, nil
}

func (s *checkoutService) Available(ctx context.Context, productID, userID uuid.UUID) (int64, error) {
	var avail int64
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}
		avail, err = availableFor(ctx, tx, p, userID, s.now())
		return err
	})
	return avail, err
}

func (s *checkoutService) CreateSession(ctx context.Context, in CheckoutInput) (string, error) {
	userID, err := requireAuth(ctx)
	if err != nil {
		return "", err
	}
	if len(in.Lines) == 0 {
		return "", ErrEmptyItems
	}

	user, err := s.users.Resolve(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.ReservationTTL)

	lineItems := make([]LineItem, 0, len(in.Lines))
	metaItems := make([]MetadataItem, 0, len(in.Lines))

	txCtx, cancel := context.WithTimeout(ctx, s.cfg.TxTimeout)
	defer cancel()

	// Весь батч — одна транзакция: при ошибке любой строки ни одна
	// резервация не переживает откат.
	err = s.store.WithTx(txCtx, func(tx *repository.Repository) error {
		for _, ln := range in.Lines {
			if ln.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			p, err := tx.Products.GetForUpdate(txCtx, ln.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return ErrProductNotFound
			}

			avail, err := availableFor(txCtx, tx, p, userID, now)
			if err != nil {
				return err
			}
			if avail < int64(ln.Quantity) {
				return ErrOutOfStock
			}

			qty := ln.Quantity
			existing, err := tx.Reservations.Get(txCtx, p.ID, userID, now)
			if err != nil {
				return err
			}
			if existing != nil {
				// Повторный checkout наращивает холд и заново
				// выставляет TTL; перепроверяем доступность уже
				// для суммарного количества.
				qty = existing.Quantity + ln.Quantity
				if avail < int64(qty) {
					return ErrOutOfStock
				}
			}

			if err := tx.Reservations.Upsert(txCtx, &models.Reservation{
				ProductID: p.ID,
				UserID:    userID,
				Quantity:  qty,
				ExpiresAt: expiresAt,
			}); err != nil {
				return err
			}

			lineItems = append(lineItems, LineItem{
				Name:            p.Name,
				UnitAmountCents: p.PriceCents,
				Quantity:        ln.Quantity,
			})
			metaItems = append(metaItems, MetadataItem{
				ProductID:  p.ID,
				Name:       p.Name,
				Image:      p.Image,
				PriceCents: p.PriceCents,
				Quantity:   ln.Quantity,
			})
		}
		return nil
	})
	if err != nil {
		return "", asTransient(err)
	}

	// Резервации уже закоммичены, хотя оплаты ещё не было — намеренный
	// оптимистичный холд, ограниченный TTL. Срок сессии у провайдера
	// независим от TTL резервации.
	sess, err := s.gateway.CreateCheckoutSession(ctx, CreateSessionInput{
		LineItems: lineItems,
		Metadata: SessionMetadata{
			SchemaVersion:    MetadataSchemaVersion,
			UserID:           userID,
			ShippingFeeCents: in.ShippingFeeCents,
			Items:            metaItems,
		},
		CustomerEmail:    user.Email,
		SuccessURL:       in.SuccessURL,
		CancelURL:        in.CancelURL,
		ExpiresAt:        now.Add(s.cfg.SessionExpiry),
		ShippingFeeCents: in.ShippingFeeCents,
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
