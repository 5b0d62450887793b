package shipping

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

func quoteFixture() []models.ShippingMethod {
	mustUUID := func(s string) gocql.UUID {
		u, _ := gocql.ParseUUID(s)
		return u
	}
	return []models.ShippingMethod{
		{
			ID: mustUUID("11111111-1111-1111-1111-111111111111"),
			Name: "Urgente 24h", Code: "express", Carrier: models.CarrierSeur,
			BaseCost: 9.95, CostPerKg: 2.50, MaxWeightKg: 20,
			EstimatedDaysMin: 1, EstimatedDaysMax: 1, IsActive: true,
		},
		{
			ID: mustUUID("22222222-2222-2222-2222-222222222222"),
			Name: "Estándar", Code: "standard", Carrier: models.CarrierCorreos,
			BaseCost: 4.95, CostPerKg: 1.00,
			EstimatedDaysMin: 3, EstimatedDaysMax: 5, IsActive: true,
		},
		{
			ID: mustUUID("33333333-3333-3333-3333-333333333333"),
			Name: "Paletizado", Code: "freight", Carrier: models.CarrierDHL,
			BaseCost: 49.00, MinWeightKg: 30,
			EstimatedDaysMin: 5, EstimatedDaysMax: 10, IsActive: true,
		},
		{
			ID: mustUUID("44444444-4444-4444-4444-444444444444"),
			Name: "Descatalogado", Code: "legacy", Carrier: models.CarrierMRW,
			BaseCost: 1.00, IsActive: false,
		},
	}
}

func TestQuoteMethodsFiltraYOrdena(t *testing.T) {
	quotes := QuoteMethods(quoteFixture(), 2.0)

	// El inactivo y el de paletizado (mínimo 30kg) quedan fuera
	require.Len(t, quotes, 2)
	assert.Equal(t, "standard", quotes[0].Code)
	assert.InDelta(t, 6.95, quotes[0].Cost, 1e-9)
	assert.Equal(t, "express", quotes[1].Code)
	assert.InDelta(t, 14.95, quotes[1].Cost, 1e-9)
}

func TestQuoteMethodsPesoAlto(t *testing.T) {
	quotes := QuoteMethods(quoteFixture(), 45.0)

	// Con 45kg solo valen estándar (sin máximo) y paletizado
	require.Len(t, quotes, 2)
	codes := []string{quotes[0].Code, quotes[1].Code}
	assert.Contains(t, codes, "standard")
	assert.Contains(t, codes, "freight")
}

func TestQuoteMethodsPesoCero(t *testing.T) {
	// Peso cero no filtra por ventana de peso
	quotes := QuoteMethods(quoteFixture(), 0)

	require.Len(t, quotes, 3)
	assert.Equal(t, "standard", quotes[0].Code)
}

func TestQuoteMethodsSinMetodos(t *testing.T) {
	quotes := QuoteMethods(nil, 1.0)
	assert.Empty(t, quotes)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 6.95, round2(6.95000001))
	assert.Equal(t, 10.0, round2(9.999))
	assert.Equal(t, 0.0, round2(0))
}
