package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID               gocql.UUID `json:"id" db:"product_id"`
	Name             string     `json:"name" db:"name"`
	Description      string     `json:"description" db:"description"`
	Price            float64    `json:"price" db:"price"`
	Quantity         int        `json:"quantity" db:"quantity"`
	WeightKg         float64    `json:"weight_kg" db:"weight_kg"`
	RequiresShipping bool       `json:"requires_shipping" db:"requires_shipping"`
	ImageURL         string     `json:"image_url,omitempty" db:"image_url"`
	OwnerID          gocql.UUID `json:"owner_id" db:"owner_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// InStock indica si queda stock disponible.
func (p Product) InStock() bool { return p.Quantity > 0 }

// LowStock marca productos con menos de 10 unidades (y al menos una).
func (p Product) LowStock() bool { return p.Quantity > 0 && p.Quantity < 10 }
