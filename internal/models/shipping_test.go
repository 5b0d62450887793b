package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptsWeight(t *testing.T) {
	m := ShippingMethod{MinWeightKg: 0.5, MaxWeightKg: 10}

	assert.False(t, m.AcceptsWeight(0.4))
	assert.True(t, m.AcceptsWeight(0.5))
	assert.True(t, m.AcceptsWeight(10))
	assert.False(t, m.AcceptsWeight(10.01))
}

func TestAcceptsWeightSinLimiteSuperior(t *testing.T) {
	m := ShippingMethod{MinWeightKg: 0, MaxWeightKg: 0}

	assert.True(t, m.AcceptsWeight(0))
	assert.True(t, m.AcceptsWeight(250))
}

func TestCostFor(t *testing.T) {
	m := ShippingMethod{BaseCost: 4.95, CostPerKg: 1.20}

	assert.InDelta(t, 4.95+1.20*2.5, m.CostFor(2.5), 1e-9)
	// Sin peso solo se cobra la base
	assert.InDelta(t, 4.95, m.CostFor(0), 1e-9)
}

func TestCostForSinCostePorKg(t *testing.T) {
	m := ShippingMethod{BaseCost: 9.99, CostPerKg: 0}

	assert.InDelta(t, 9.99, m.CostFor(30), 1e-9)
}

func TestIsValidShippingStatus(t *testing.T) {
	assert.True(t, IsValidShippingStatus(ShippingStatusPending))
	assert.True(t, IsValidShippingStatus(ShippingStatusDelivered))
	assert.False(t, IsValidShippingStatus("enviado"))
	assert.False(t, IsValidShippingStatus(""))
}

func TestIsValidCarrier(t *testing.T) {
	assert.True(t, IsValidCarrier(CarrierCorreos))
	assert.True(t, IsValidCarrier(CarrierDHL))
	assert.False(t, IsValidCarrier("fedex"))
}
