// Package events contains the payloads published after a sale transaction commits.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/salesledger/pkg/messaging"
	"github.com/google/uuid"
)

// StockChange is a signed stock delta applied to one product.
type StockChange struct {
	ProductID int32 `json:"product_id"`
	Delta     int32 `json:"delta"`
}

// SaleCreatedEvent is published after a sale and its stock consumption commit.
type SaleCreatedEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	SaleID     int32         `json:"sale_id"`
	ProductID  int32         `json:"product_id"`
	CustomerID int32         `json:"customer_id"`
	Quantity   int32         `json:"quantity"`
	TotalPrice string        `json:"total_price"`
	Stock      []StockChange `json:"stock"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func (e SaleCreatedEvent) Subject() string {
	return messaging.SalesCreatedSubject
}

func (e SaleCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// SaleAmendedEvent carries the previous and new quantity along with every stock delta applied.
type SaleAmendedEvent struct {
	EventID     uuid.UUID     `json:"event_id"`
	SaleID      int32         `json:"sale_id"`
	ProductID   int32         `json:"product_id"`
	CustomerID  int32         `json:"customer_id"`
	OldQuantity int32         `json:"old_quantity"`
	NewQuantity int32         `json:"new_quantity"`
	TotalPrice  string        `json:"total_price"`
	Stock       []StockChange `json:"stock"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

func (e SaleAmendedEvent) Subject() string {
	return messaging.SalesAmendedSubject
}

func (e SaleAmendedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type SaleDeletedEvent struct {
	EventID    uuid.UUID     `json:"event_id"`
	SaleID     int32         `json:"sale_id"`
	ProductID  int32         `json:"product_id"`
	Quantity   int32         `json:"quantity"`
	Stock      []StockChange `json:"stock"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func (e SaleDeletedEvent) Subject() string {
	return messaging.SalesDeletedSubject
}

func (e SaleDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
