package shipping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

func TestStatusReached(t *testing.T) {
	assert.True(t, statusReached(models.ShippingStatusInTransit, models.ShippingStatusProcessing))
	assert.True(t, statusReached(models.ShippingStatusInTransit, models.ShippingStatusInTransit))
	assert.False(t, statusReached(models.ShippingStatusProcessing, models.ShippingStatusInTransit))
	assert.False(t, statusReached(models.ShippingStatusPending, models.ShippingStatusProcessing))

	// Estados fuera del ciclo normal no alcanzan ningún hito
	assert.False(t, statusReached(models.ShippingStatusFailed, models.ShippingStatusPending))
	assert.False(t, statusReached(models.ShippingStatusReturned, models.ShippingStatusInTransit))
}

func TestSimulateTrackingEventsPending(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := models.Shipment{Status: models.ShippingStatusPending, CreatedAt: created}

	events := SimulateTrackingEvents(s, "Madrid", "Calle Mayor 1")

	require.Len(t, events, 1)
	assert.Equal(t, "Envío creado", events[0].Status)
	assert.Equal(t, created, events[0].Date)
}

func TestSimulateTrackingEventsInTransit(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := models.Shipment{Status: models.ShippingStatusInTransit, CreatedAt: created}

	events := SimulateTrackingEvents(s, "Sevilla", "Av. de la Constitución 20")

	require.Len(t, events, 3)
	assert.Equal(t, "Procesado en almacén", events[1].Status)
	assert.Equal(t, created.Add(2*time.Hour), events[1].Date)
	assert.Equal(t, "En tránsito", events[2].Status)
	assert.Equal(t, created.AddDate(0, 0, 1), events[2].Date)
	assert.Contains(t, events[2].Location, "Sevilla")
}

func TestSimulateTrackingEventsDelivered(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	delivered := created.AddDate(0, 0, 3)
	s := models.Shipment{
		Status:      models.ShippingStatusDelivered,
		CreatedAt:   created,
		DeliveredAt: &delivered,
	}

	events := SimulateTrackingEvents(s, "Valencia", "Calle Colón 5")

	require.Len(t, events, 5)
	last := events[len(events)-1]
	assert.Equal(t, "Entregado", last.Status)
	assert.Equal(t, delivered, last.Date)
	assert.Equal(t, "Calle Colón 5", last.Location)
}

func TestSimulateTrackingEventsDeliveredSinFecha(t *testing.T) {
	// Sin DeliveredAt no se inventa el evento final
	s := models.Shipment{
		Status:    models.ShippingStatusDelivered,
		CreatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	events := SimulateTrackingEvents(s, "Bilbao", "Gran Vía 2")

	require.Len(t, events, 4)
	assert.Equal(t, "En reparto", events[len(events)-1].Status)
}
