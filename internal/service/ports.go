package service

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
)

// Store — единственная точка доступа сервисов к хранилищу. Каждая
// многошаговая последовательность чтений/записей выполняется внутри
// одной транзакции.
type Store interface {
	WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error
}

type LineItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int32
}

type CreateSessionInput struct {
	LineItems        []LineItem
	Metadata         SessionMetadata
	CustomerEmail    string
	SuccessURL       string
	CancelURL        string
	ExpiresAt        time.Time
	ShippingFeeCents int64
}

type CheckoutSession struct {
	ID              string
	URL             string
	PaymentIntentID string
}

// WebhookEvent — проверенное и распарсенное событие провайдера.
// Metadata передаётся провайдером как key/value и возвращается без изменений.
type WebhookEvent struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	Metadata        map[string]string
}

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// PaymentGateway — внешний платёжный провайдер. Состояние сессии
// авторитетно у него, не у нас.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, in CreateSessionInput) (*CheckoutSession, error)
	// VerifyEvent проверяет подпись по сырому телу запроса и парсит событие.
	VerifyEvent(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

// UserDirectory отдаёт пользователя для штампа в заказ/сессию.
// Возвращает nil, nil для неизвестного id.
type UserDirectory interface {
	Resolve(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type OrderPaidEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	UserName   string    `json:"user_name"`
	TotalCents int64     `json:"total_cents"`
	ItemsCount int       `json:"items_count"`
	PaidAt     time.Time `json:"paid_at"`
}

// EmailEvents — уведомления о событиях заказа (письмо о покупке и т.п.).
type EmailEvents interface {
	PublishOrderPaid(ctx context.Context, e OrderPaidEvent) error
}

// ProcessedEvents — быстрый фильтр повторных доставок вебхука.
// Только оптимизация: настоящую идемпотентность гарантирует
// уникальность checkout_session_id в базе. Seen ничего не меняет,
// Mark вызывается строго после успешного коммита: упавшая обработка
// не должна пометить событие и тем самым проглотить повтор.
type ProcessedEvents interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}
