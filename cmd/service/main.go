package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/config"
	"shop-service/internal/cache"
	"shop-service/internal/payments"
	"shop-service/internal/producer"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/internal/sweeper"
	"shop-service/internal/transport/http/handlers"
	"shop-service/internal/transport/http/router"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

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

	repos := repository.New(db)

	gateway := payments.NewStripeGateway(payments.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
	}, log)

	var processed service.ProcessedEvents
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.EventTTL, log)
		if err != nil {
			// Redis только ускоряет дедупликацию, без него тоже корректно
			log.Warn("redis unavailable, webhook dedup falls back to database", zap.Error(err))
		} else {
			defer rdb.Close()
			processed = rdb
		}
	}

	var emails service.EmailEvents
	if cfg.Kafka.Enabled {
		p := producer.NewOrderEventsProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer p.Close()
		emails = p
	}

	users := service.NewUserDirectory(repos)
	checkoutSvc := service.NewCheckoutService(repos, gateway, users, service.CheckoutConfig{
		ReservationTTL: cfg.Checkout.ReservationTTL,
		SessionExpiry:  cfg.Checkout.SessionExpiry,
		TxTimeout:      cfg.Checkout.TxTimeout,
	})
	webhookSvc := service.NewWebhookService(repos, gateway, users, emails, processed, log, cfg.Checkout.TxTimeout)
	cartSvc := service.NewCartService(repos)
	orderSvc := service.NewOrderService(repos)
	productSvc := service.NewProductService(repos)

	sw := sweeper.NewSweeper(db, log, cfg.Sweep.Interval)

	r := router.Router(router.Handlers{
		Checkout: handlers.NewCheckoutHandler(checkoutSvc, log),
		Webhook:  handlers.NewWebhookHandler(webhookSvc, log),
		Cart:     handlers.NewCartHandler(cartSvc, log),
		Products: handlers.NewProductHandler(productSvc, log),
		Orders:   handlers.NewOrderHandler(orderSvc, log),
	}, cfg.Auth.JWTSecret, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sw.Start(ctx)
	defer sw.Stop()

	go func() {
		log.Info("starting http server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to run http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down shop service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	log.Info("Shop service stopped gracefully")
}
