package models

import (
	"time"

	"github.com/gocql/gocql"
)

type ShippingAddress struct {
	ID            gocql.UUID `json:"id" db:"address_id"`
	UserID        gocql.UUID `json:"user_id" db:"user_id"`
	FullName      string     `json:"full_name" db:"full_name"`
	PhoneNumber   string     `json:"phone_number" db:"phone_number"`
	AddressLine1  string     `json:"address_line1" db:"address_line1"`
	AddressLine2  string     `json:"address_line2,omitempty" db:"address_line2"`
	City          string     `json:"city" db:"city"`
	StateProvince string     `json:"state_province" db:"state_province"`
	PostalCode    string     `json:"postal_code" db:"postal_code"`
	Country       string     `json:"country" db:"country"`
	IsDefault     bool       `json:"is_default" db:"is_default"`
	Instructions  string     `json:"instructions,omitempty" db:"instructions"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
