package sweeper_test

import (
	"context"
	"testing"
	"time"

	"shop-service/internal/migrate"
	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/sweeper"
	"shop-service/pkg/testutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateShopDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSweepExpired(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	reservations := repository.NewReservationRepo(db)

	a := &models.User{Email: "a@b.c", Name: "A"}
	b := &models.User{Email: "b@b.c", Name: "B"}
	for _, u := range []*models.User{a, b} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	p := &models.Product{Name: "Sofa", PriceCents: 2599, Inventory: 5}
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("create product: %v", err)
	}

	now := time.Now()
	// A держит весь остаток, но холд уже истёк; у B живой холд
	if err := reservations.Upsert(ctx, &models.Reservation{ProductID: p.ID, UserID: a.ID, Quantity: 5, ExpiresAt: now.Add(-time.Minute)}); err != nil {
		t.Fatalf("upsert expired: %v", err)
	}
	if err := reservations.Upsert(ctx, &models.Reservation{ProductID: p.ID, UserID: b.ID, Quantity: 2, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("upsert live: %v", err)
	}

	sw := sweeper.NewSweeper(db, zap.NewNop(), time.Hour)
	if err := sw.SweepExpired(ctx); err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected only the live reservation to survive, got %d rows", count)
	}

	// После уборки чужим для B остаётся только его собственный холд,
	// для остальных доступность восстановилась до 5-2
	sum, err := reservations.ReservedByOthers(ctx, p.ID, b.ID, time.Now())
	if err != nil {
		t.Fatalf("ReservedByOthers: %v", err)
	}
	if sum != 0 {
		t.Fatalf("expired hold must be gone, got %d", sum)
	}
}

func TestSweeper_StartStop(t *testing.T) {
	db := setupDB(t)

	sw := sweeper.NewSweeper(db, zap.NewNop(), 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sw.Start(ctx)
	time.Sleep(120 * time.Millisecond)
	sw.Stop()
}
