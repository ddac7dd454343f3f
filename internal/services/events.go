package services

import (
	"context"
	"time"
)

// RoutingProductPurchased is the routing key of StockEvent messages.
const RoutingProductPurchased = "product.purchased"

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// StockEvent describes a completed purchase and the stock left afterwards.
type StockEvent struct {
	ProductID int       `json:"productId"`
	BuyerID   int       `json:"buyerId"`
	Quantity  int       `json:"quantity"`
	Remaining int       `json:"remaining"`
	SoldOut   bool      `json:"soldOut"`
	At        time.Time `json:"at"`
}
