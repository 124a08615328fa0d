package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client   *redis.Client
	log      *zap.Logger
	eventTTL time.Duration
}

func NewRedisClient(addr, password string, db int, eventTTL time.Duration, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	if eventTTL <= 0 {
		eventTTL = 24 * time.Hour
	}

	return &RedisClient{
		client:   rdb,
		log:      log,
		eventTTL: eventTTL,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Seen только читает: было ли событие уже обработано. Ключ здесь не
// выставляется, иначе упавшая обработка пометила бы событие и повтор
// от провайдера был бы молча проглочен.
func (r *RedisClient) Seen(ctx context.Context, eventID string) (bool, error) {
	exists, err := r.client.Exists(ctx, eventKey(eventID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Mark помечает событие обработанным. Вызывается после коммита.
func (r *RedisClient) Mark(ctx context.Context, eventID string) error {
	return r.client.Set(ctx, eventKey(eventID), "1", r.eventTTL).Err()
}

func eventKey(eventID string) string {
	return fmt.Sprintf("webhook:%s", eventID)
}
