package producer

import (
	"context"
	"encoding/json"
	"time"

	"shop-service/internal/service"

	"github.com/segmentio/kafka-go"
)

type OrderEventsProducer struct {
	writer *kafka.Writer
}

func NewOrderEventsProducer(brokers []string, topic string) *OrderEventsProducer {
	return &OrderEventsProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// PublishOrderPaid шлёт событие оплаченного заказа сервису рассылок.
// Ключ — id заказа, чтобы повторные доставки ложились в ту же партицию.
func (p *OrderEventsProducer) PublishOrderPaid(ctx context.Context, e service.OrderPaidEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OrderID.String()),
		Value: value,
	})
}

func (p *OrderEventsProducer) Close() error {
	return p.writer.Close()
}
