package sweeper

import (
	"context"
	"time"

	"shop-service/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sweeper периодически удаляет просроченные резервации.
// Это только уборка мусора: чтение доступности и так игнорирует
// просроченные строки, поэтому гонка свипера с checkout безопасна.
type Sweeper struct {
	reservations repository.ReservationRepo
	log          *zap.Logger
	interval     time.Duration
	stopCh       chan struct{}
}

func NewSweeper(db *gorm.DB, log *zap.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Sweeper{
		reservations: repository.NewReservationRepo(db),
		log:          log,
		interval:     interval,
		stopCh:       make(chan struct{}),
	}
}

// Start запускает планировщик очистки
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("starting reservation sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop останавливает планировщик
func (s *Sweeper) Stop() {
	s.log.Info("stopping reservation sweeper")
	close(s.stopCh)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Выполняем сразу при старте
	if err := s.SweepExpired(ctx); err != nil {
		s.log.Error("initial reservation sweep failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := s.SweepExpired(ctx); err != nil {
				s.log.Error("reservation sweep failed", zap.Error(err))
			}
		case <-s.stopCh:
			s.log.Info("reservation sweeper stopped")
			return
		case <-ctx.Done():
			s.log.Info("reservation sweeper cancelled")
			return
		}
	}
}

// SweepExpired удаляет просроченные резервации немедленно
func (s *Sweeper) SweepExpired(ctx context.Context) error {
	removed, err := s.reservations.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error("failed to sweep expired reservations", zap.Error(err))
		return err
	}
	if removed > 0 {
		s.log.Info("swept expired reservations", zap.Int64("count", removed))
	}
	return nil
}
