package service

import (
	"context"
	"errors"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WebhookService interface {
	// HandleEvent проверяет подпись по сырому телу и приводит событие
	// провайдера к терминальному состоянию: completed материализует заказ,
	// expired снимает резервации. Повторная доставка того же completed —
	// идемпотентный успех.
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
}

type webhookService struct {
	store     Store
	gateway   PaymentGateway
	users     UserDirectory
	emails    EmailEvents     // может быть nil
	processed ProcessedEvents // может быть nil
	log       *zap.Logger
	txTimeout time.Duration
	now       func() time.Time
}

func NewWebhookService(store Store, gateway PaymentGateway, users UserDirectory, emails EmailEvents, processed ProcessedEvents, log *zap.Logger, txTimeout time.Duration) WebhookService {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	return &webhookService{
		store:     store,
		gateway:   gateway,
		users:     users,
		emails:    emails,
		processed: processed,
		log:       log,
		txTimeout: txTimeout,
		now:       time.Now,
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyEvent(payload, signatureHeader)
	if err != nil {
		return ErrInvalidSignature
	}

	switch event.Type {
	case EventCheckoutCompleted:
		return s.completeSession(ctx, event)
	case EventCheckoutExpired:
		return s.expireSession(ctx, event)
	default:
		// Не ошибка: провайдер шлёт и типы, которые нас не интересуют.
		s.log.Info("unhandled webhook event type",
			zap.String("type", event.Type),
			zap.String("event_id", event.ID))
		return nil
	}
}

func (s *webhookService) completeSession(ctx context.Context, event *WebhookEvent) error {
	meta, err := DecodeSessionMetadata(event.Metadata)
	if err != nil {
		return err
	}

	if s.processed != nil {
		// Только чтение: событие помечается после коммита, чтобы
		// упавшая транзакция не проглотила повторную доставку.
		seen, err := s.processed.Seen(ctx, event.ID)
		if err != nil {
			// Кэш недоступен — идём в базу, уникальность session id
			// всё равно защитит от повтора.
			s.log.Warn("processed-events cache unavailable", zap.Error(err))
		} else if seen {
			s.log.Info("duplicate webhook delivery skipped",
				zap.String("event_id", event.ID),
				zap.String("session_id", event.SessionID))
			return nil
		}
	}

	user, err := s.users.Resolve(ctx, meta.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var (
		order     *models.Order
		duplicate bool
	)

	// Заказ, списание остатков, снятие резерваций и очистка корзины —
	// одна атомарная единица. Любая ошибка откатывает всё.
	err = s.store.WithTx(txCtx, func(tx *repository.Repository) error {
		existing, err := tx.Orders.GetBySessionID(txCtx, event.SessionID)
		if err != nil {
			return err
		}
		if existing != nil {
			duplicate = true
			order = existing
			return nil
		}

		order = &models.Order{
			UserID:            user.ID,
			Status:            models.OrderStatusPending,
			ShippingFeeCents:  meta.ShippingFeeCents,
			CheckoutSessionID: event.SessionID,
			PaymentIntentID:   event.PaymentIntentID,
		}
		if err := tx.Orders.Create(txCtx, order); err != nil {
			return err
		}

		var subtotal int64
		items := make([]models.OrderItem, 0, len(meta.Items))

		for _, it := range meta.Items {
			p, err := tx.Products.GetForUpdate(txCtx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				// Товар удалили после старта checkout
				return ErrProductNotFound
			}

			// Снимок берём из метаданных — это цена на момент
			// оформления, то, что реально оплачено. Последующие
			// правки товара на заказ не влияют.
			items = append(items, models.OrderItem{
				OrderID:    order.ID,
				ProductID:  it.ProductID,
				Name:       it.Name,
				Image:      it.Image,
				PriceCents: it.PriceCents,
				Quantity:   it.Quantity,
			})
			subtotal += it.PriceCents * int64(it.Quantity)

			// Единственное место, где трогается долговременный остаток.
			ok, err := tx.Products.DecrementInventory(txCtx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrOutOfStock
			}

			if _, err := tx.Reservations.DeleteByProductUser(txCtx, it.ProductID, user.ID); err != nil {
				return err
			}
		}

		if err := tx.OrderItems.BulkCreate(txCtx, items); err != nil {
			return err
		}

		total := subtotal + meta.ShippingFeeCents
		if err := tx.Orders.UpdateTotals(txCtx, order.ID, subtotal, total, models.OrderStatusPaid); err != nil {
			return err
		}
		order.SubtotalCents = subtotal
		order.TotalCents = total
		order.Status = models.OrderStatusPaid

		_, err = tx.Carts.ClearByUser(txCtx, user.ID)
		return err
	})
	if err != nil {
		// Гонка двух одновременных доставок: проигравшая упирается в
		// уникальность checkout_session_id — это тоже идемпотентный успех.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Info("concurrent webhook delivery lost insert race",
				zap.String("session_id", event.SessionID))
			s.markProcessed(ctx, event.ID)
			return nil
		}
		return asTransient(err)
	}

	// Сессия приведена к терминальному состоянию — теперь событие можно
	// пометить обработанным.
	s.markProcessed(ctx, event.ID)

	if duplicate {
		s.log.Info("checkout session already reconciled",
			zap.String("session_id", event.SessionID),
			zap.String("order_id", order.ID.String()))
		return nil
	}

	s.log.Info("order materialized",
		zap.String("order_id", order.ID.String()),
		zap.String("session_id", event.SessionID),
		zap.Int64("total_cents", order.TotalCents))

	if s.emails != nil {
		if err := s.emails.PublishOrderPaid(ctx, OrderPaidEvent{
			OrderID:    order.ID,
			UserID:     user.ID,
			Email:      user.Email,
			UserName:   user.Name,
			TotalCents: order.TotalCents,
			ItemsCount: len(meta.Items),
			PaidAt:     s.now(),
		}); err != nil {
			// Письмо не должно валить реконсиляцию: заказ уже закоммичен.
			s.log.Error("failed to publish order paid event",
				zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}
	return nil
}

// markProcessed не фатален: потерянная пометка означает лишь лишний
// поход в базу при повторе, где его остановит уникальность session id.
func (s *webhookService) markProcessed(ctx context.Context, eventID string) {
	if s.processed == nil {
		return
	}
	if err := s.processed.Mark(ctx, eventID); err != nil {
		s.log.Warn("failed to mark webhook event processed",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *webhookService) expireSession(ctx context.Context, event *WebhookEvent) error {
	meta, err := DecodeSessionMetadata(event.Metadata)
	if err != nil {
		return err
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var removed int64
	// Снимаем только холды строк этой сессии. Остаток не трогаем:
	// долговременного списания не было.
	err = s.store.WithTx(txCtx, func(tx *repository.Repository) error {
		for _, it := range meta.Items {
			ok, err := tx.Reservations.DeleteByProductUser(txCtx, it.ProductID, meta.UserID)
			if err != nil {
				return err
			}
			if ok {
				removed++
			}
		}
		return nil
	})
	if err != nil {
		return asTransient(err)
	}

	s.log.Info("checkout session expired, reservations released",
		zap.String("session_id", event.SessionID),
		zap.String("user_id", meta.UserID.String()),
		zap.Int64("released", removed))
	return nil
}
