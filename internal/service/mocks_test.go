package service_test

import (
	"context"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/service"

	"github.com/google/uuid"
)

// Моки для всех зависимостей сервисов

// MockStore исполняет fn над заранее собранным набором репо, без базы.
type MockStore struct {
	Repo *repository.Repository
}

func (m *MockStore) WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	return fn(m.Repo)
}

// MockProductRepo
type MockProductRepo struct {
	CreateFunc             func(ctx context.Context, p *models.Product) error
	UpdateFieldsFunc       func(ctx context.Context, id uuid.UUID, fields map[string]any) error
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetForUpdateFunc       func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListFunc               func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	DeleteFunc             func(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementInventoryFunc func(ctx context.Context, id uuid.UUID, qty int32) (bool, error)
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockProductRepo) DecrementInventory(ctx context.Context, id uuid.UUID, qty int32) (bool, error) {
	if m.DecrementInventoryFunc != nil {
		return m.DecrementInventoryFunc(ctx, id, qty)
	}
	return true, nil
}

// MockReservationRepo
type MockReservationRepo struct {
	GetFunc                 func(ctx context.Context, productID, userID uuid.UUID, now time.Time) (*models.Reservation, error)
	ReservedByOthersFunc    func(ctx context.Context, productID, userID uuid.UUID, now time.Time) (int64, error)
	UpsertFunc              func(ctx context.Context, res *models.Reservation) error
	DeleteByProductUserFunc func(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	DeleteExpiredFunc       func(ctx context.Context, now time.Time) (int64, error)
	CountByProductFunc      func(ctx context.Context, productID uuid.UUID) (int64, error)
}

func (m *MockReservationRepo) Get(ctx context.Context, productID, userID uuid.UUID, now time.Time) (*models.Reservation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, productID, userID, now)
	}
	return nil, nil
}

func (m *MockReservationRepo) ReservedByOthers(ctx context.Context, productID, userID uuid.UUID, now time.Time) (int64, error) {
	if m.ReservedByOthersFunc != nil {
		return m.ReservedByOthersFunc(ctx, productID, userID, now)
	}
	return 0, nil
}

func (m *MockReservationRepo) Upsert(ctx context.Context, res *models.Reservation) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, res)
	}
	return nil
}

func (m *MockReservationRepo) DeleteByProductUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	if m.DeleteByProductUserFunc != nil {
		return m.DeleteByProductUserFunc(ctx, productID, userID)
	}
	return false, nil
}

func (m *MockReservationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

func (m *MockReservationRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	if m.CountByProductFunc != nil {
		return m.CountByProductFunc(ctx, productID)
	}
	return 0, nil
}

// MockCartRepo
type MockCartRepo struct {
	UpsertFunc      func(ctx context.Context, item *models.CartItem) error
	GetFunc         func(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	ListByUserFunc  func(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	RemoveFunc      func(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ClearByUserFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *MockCartRepo) Upsert(ctx context.Context, item *models.CartItem) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, item)
	}
	return nil
}

func (m *MockCartRepo) Get(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, productID)
	}
	return nil, nil
}

func (m *MockCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCartRepo) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, productID)
	}
	return false, nil
}

func (m *MockCartRepo) ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.ClearByUserFunc != nil {
		return m.ClearByUserFunc(ctx, userID)
	}
	return 0, nil
}

// MockOrderRepo
type MockOrderRepo struct {
	CreateFunc         func(ctx context.Context, o *models.Order) error
	UpdateTotalsFunc   func(ctx context.Context, id uuid.UUID, subtotal, total int64, status models.OrderStatus) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetBySessionIDFunc func(ctx context.Context, sessionID string) (*models.Order, error)
	ListFunc           func(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepo) UpdateTotals(ctx context.Context, id uuid.UUID, subtotal, total int64, status models.OrderStatus) error {
	if m.UpdateTotalsFunc != nil {
		return m.UpdateTotalsFunc(ctx, id, subtotal, total, status)
	}
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	if m.GetBySessionIDFunc != nil {
		return m.GetBySessionIDFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

// MockOrderItemRepo
type MockOrderItemRepo struct {
	BulkCreateFunc func(ctx context.Context, items []models.OrderItem) error
}

func (m *MockOrderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, items)
	}
	return nil
}

// MockUserRepo
type MockUserRepo struct {
	CreateFunc  func(ctx context.Context, u *models.User) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockGateway
type MockGateway struct {
	CreateCheckoutSessionFunc func(ctx context.Context, in service.CreateSessionInput) (*service.CheckoutSession, error)
	VerifyEventFunc           func(payload []byte, signatureHeader string) (*service.WebhookEvent, error)
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, in service.CreateSessionInput) (*service.CheckoutSession, error) {
	if m.CreateCheckoutSessionFunc != nil {
		return m.CreateCheckoutSessionFunc(ctx, in)
	}
	return &service.CheckoutSession{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

func (m *MockGateway) VerifyEvent(payload []byte, signatureHeader string) (*service.WebhookEvent, error) {
	if m.VerifyEventFunc != nil {
		return m.VerifyEventFunc(payload, signatureHeader)
	}
	return nil, nil
}

// MockUsers
type MockUsers struct {
	ResolveFunc func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (m *MockUsers) Resolve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, id)
	}
	return nil, nil
}

// MockEmails
type MockEmails struct {
	PublishOrderPaidFunc func(ctx context.Context, e service.OrderPaidEvent) error
}

func (m *MockEmails) PublishOrderPaid(ctx context.Context, e service.OrderPaidEvent) error {
	if m.PublishOrderPaidFunc != nil {
		return m.PublishOrderPaidFunc(ctx, e)
	}
	return nil
}

// MockProcessed
type MockProcessed struct {
	SeenFunc func(ctx context.Context, eventID string) (bool, error)
	MarkFunc func(ctx context.Context, eventID string) error
}

func (m *MockProcessed) Seen(ctx context.Context, eventID string) (bool, error) {
	if m.SeenFunc != nil {
		return m.SeenFunc(ctx, eventID)
	}
	return false, nil
}

func (m *MockProcessed) Mark(ctx context.Context, eventID string) error {
	if m.MarkFunc != nil {
		return m.MarkFunc(ctx, eventID)
	}
	return nil
}
