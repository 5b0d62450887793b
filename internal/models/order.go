package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Estados por los que pasa una orden.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatuses en el orden habitual del ciclo de vida.
var ValidOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID              gocql.UUID `json:"id" db:"order_id"`
	OrderNumber     string     `json:"order_number" db:"order_number"`
	UserID          gocql.UUID `json:"user_id" db:"user_id"`
	TotalAmount     float64    `json:"total_amount" db:"total_amount"`
	Status          string     `json:"status" db:"status"`
	ShippingAddress string     `json:"shipping_address,omitempty" db:"shipping_address"`
	PaymentMethod   string     `json:"payment_method" db:"payment_method"`
	PaymentIntentID string     `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// OrderItem es la línea de orden con los datos del producto
// congelados al momento del checkout.
type OrderItem struct {
	OrderID      gocql.UUID `json:"order_id" db:"order_id"`
	ProductID    gocql.UUID `json:"product_id" db:"product_id"`
	ProductName  string     `json:"product_name" db:"product_name"`
	ProductPrice float64    `json:"product_price" db:"product_price"`
	Quantity     int        `json:"quantity" db:"quantity"`
	Subtotal     float64    `json:"subtotal" db:"subtotal"`
}

// OrderCreatedEvent es el mensaje publicado en RabbitMQ al crear una orden.
type OrderCreatedEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	WeightKg    float64   `json:"weight_kg"`
	AddressID   string    `json:"address_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
