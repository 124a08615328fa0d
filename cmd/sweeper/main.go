package main

import (
	"context"
	"os"

	"shop-service/config"
	"shop-service/internal/sweeper"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Разовый запуск уборки просроченных резерваций. Для крон-задач и
// ручной очистки, сервис гоняет тот же свипер внутри себя.
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	sw := sweeper.NewSweeper(db, log, cfg.Sweep.Interval)

	if err := sw.SweepExpired(context.Background()); err != nil {
		log.Fatal("failed to sweep expired reservations", zap.Error(err))
	}

	log.Info("sweep completed successfully")
}
