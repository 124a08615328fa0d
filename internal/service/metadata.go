package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Метаданные checkout-сессии проходят через платёжного провайдера как
// непрозрачный blob и возвращаются вебхуком без изменений. Схема типизирована
// и версионирована, чтобы путь вебхука не доверял нетипизированным полям.

const (
	// MetadataKey — ключ в key/value метаданных провайдера.
	MetadataKey = "order"

	MetadataSchemaVersion = 1
)

type MetadataItem struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int32     `json:"quantity"`
}

type SessionMetadata struct {
	SchemaVersion    int            `json:"schema_version"`
	UserID           uuid.UUID      `json:"user_id"`
	ShippingFeeCents int64          `json:"shipping_fee_cents"`
	Items            []MetadataItem `json:"items"`
}

func (m SessionMetadata) Encode() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeSessionMetadata(values map[string]string) (SessionMetadata, error) {
	raw, ok := values[MetadataKey]
	if !ok || raw == "" {
		return SessionMetadata{}, fmt.Errorf("%w: missing %q key", ErrBadMetadata, MetadataKey)
	}

	var m SessionMetadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return SessionMetadata{}, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}

	if m.SchemaVersion != MetadataSchemaVersion {
		return SessionMetadata{}, fmt.Errorf("%w: unsupported schema version %d", ErrBadMetadata, m.SchemaVersion)
	}
	if m.UserID == uuid.Nil {
		return SessionMetadata{}, fmt.Errorf("%w: empty user id", ErrBadMetadata)
	}
	if len(m.Items) == 0 {
		return SessionMetadata{}, fmt.Errorf("%w: no items", ErrBadMetadata)
	}
	for _, it := range m.Items {
		if it.Quantity <= 0 {
			return SessionMetadata{}, fmt.Errorf("%w: non-positive quantity for product %s", ErrBadMetadata, it.ProductID)
		}
	}
	return m, nil
}
