package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Estados de un envío.
const (
	ShippingStatusPending        = "pending"
	ShippingStatusProcessing     = "processing"
	ShippingStatusReadyForPickup = "ready_for_pickup"
	ShippingStatusInTransit      = "in_transit"
	ShippingStatusOutForDelivery = "out_for_delivery"
	ShippingStatusDelivered      = "delivered"
	ShippingStatusFailed         = "failed"
	ShippingStatusReturned       = "returned"
)

var ValidShippingStatuses = []string{
	ShippingStatusPending,
	ShippingStatusProcessing,
	ShippingStatusReadyForPickup,
	ShippingStatusInTransit,
	ShippingStatusOutForDelivery,
	ShippingStatusDelivered,
	ShippingStatusFailed,
	ShippingStatusReturned,
}

func IsValidShippingStatus(status string) bool {
	for _, s := range ValidShippingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Transportistas soportados.
const (
	CarrierCorreos = "correos"
	CarrierSeur    = "seur"
	CarrierMRW     = "mrw"
	CarrierDHL     = "dhl"
	CarrierUPS     = "ups"
)

var ValidCarriers = []string{CarrierCorreos, CarrierSeur, CarrierMRW, CarrierDHL, CarrierUPS}

func IsValidCarrier(carrier string) bool {
	for _, c := range ValidCarriers {
		if c == carrier {
			return true
		}
	}
	return false
}

// ShippingMethod es un método de envío configurable (tarifa base más
// coste por kg dentro de una ventana de peso).
type ShippingMethod struct {
	ID                gocql.UUID `json:"id" db:"method_id"`
	Name              string     `json:"name" db:"name"`
	Code              string     `json:"code" db:"code"`
	Carrier           string     `json:"carrier" db:"carrier"`
	BaseCost          float64    `json:"base_cost" db:"base_cost"`
	CostPerKg         float64    `json:"cost_per_kg" db:"cost_per_kg"`
	MinWeightKg       float64    `json:"min_weight_kg" db:"min_weight_kg"`
	MaxWeightKg       float64    `json:"max_weight_kg" db:"max_weight_kg"` // 0 = sin límite
	EstimatedDaysMin  int        `json:"estimated_days_min" db:"estimated_days_min"`
	EstimatedDaysMax  int        `json:"estimated_days_max" db:"estimated_days_max"`
	RequiresSignature bool       `json:"requires_signature" db:"requires_signature"`
	HasTracking       bool       `json:"has_tracking" db:"has_tracking"`
	IsActive          bool       `json:"is_active" db:"is_active"`
}

// AcceptsWeight indica si el método admite un paquete de ese peso.
func (m ShippingMethod) AcceptsWeight(weightKg float64) bool {
	if weightKg < m.MinWeightKg {
		return false
	}
	return m.MaxWeightKg == 0 || weightKg <= m.MaxWeightKg
}

// CostFor calcula el coste de envío para un peso dado.
func (m ShippingMethod) CostFor(weightKg float64) float64 {
	cost := m.BaseCost
	if m.CostPerKg > 0 && weightKg > 0 {
		cost += m.CostPerKg * weightKg
	}
	return cost
}

type Shipment struct {
	ID                     gocql.UUID `json:"id" db:"shipment_id"`
	OrderID                gocql.UUID `json:"order_id" db:"order_id"`
	AddressID              gocql.UUID `json:"address_id" db:"address_id"`
	MethodID               gocql.UUID `json:"method_id" db:"method_id"`
	TrackingNumber         string     `json:"tracking_number" db:"tracking_number"`
	Carrier                string     `json:"carrier" db:"carrier"`
	WeightKg               float64    `json:"weight_kg" db:"weight_kg"`
	PackageCount           int        `json:"package_count" db:"package_count"`
	ShippingCost           float64    `json:"shipping_cost" db:"shipping_cost"`
	InsuranceCost          float64    `json:"insurance_cost" db:"insurance_cost"`
	TotalCost              float64    `json:"total_cost" db:"total_cost"`
	Status                 string     `json:"status" db:"status"`
	EstimatedDeliveryStart time.Time  `json:"estimated_delivery_start" db:"estimated_delivery_start"`
	EstimatedDeliveryEnd   time.Time  `json:"estimated_delivery_end" db:"estimated_delivery_end"`
	ShippedAt              *time.Time `json:"shipped_at,omitempty" db:"shipped_at"`
	DeliveredAt            *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// TrackingEvent es una parada del recorrido simulado de un envío.
type TrackingEvent struct {
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Location string    `json:"location"`
}

type ShippingLabel struct {
	ID         string     `json:"id" db:"label_id"`
	ShipmentID gocql.UUID `json:"shipment_id" db:"shipment_id"`
	LabelURL   string     `json:"label_url" db:"label_url"`
	QRObject   string     `json:"qr_object,omitempty" db:"qr_object"`
	Format     string     `json:"format" db:"format"`
	Payload    string     `json:"payload" db:"payload"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
}
