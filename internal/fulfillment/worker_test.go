package fulfillment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

func TestParseEventIDs(t *testing.T) {
	event := models.OrderCreatedEvent{
		OrderID:   "11111111-1111-1111-1111-111111111111",
		AddressID: "22222222-2222-2222-2222-222222222222",
	}

	orderID, addressID, err := parseEventIDs(event)
	require.NoError(t, err)
	assert.Equal(t, event.OrderID, orderID.String())
	assert.Equal(t, event.AddressID, addressID.String())
}

func TestParseEventIDsSinDireccion(t *testing.T) {
	event := models.OrderCreatedEvent{OrderID: "11111111-1111-1111-1111-111111111111"}

	_, addressID, err := parseEventIDs(event)
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", addressID.String())
}

func TestParseEventIDsMalformadosSonPermanentes(t *testing.T) {
	// Un order_id ilegible no se arregla reintentando: el mensaje se
	// tiene que rechazar sin reencolar
	_, _, err := parseEventIDs(models.OrderCreatedEvent{OrderID: "no-es-un-uuid"})
	require.Error(t, err)
	assert.True(t, isPermanent(err))

	_, _, err = parseEventIDs(models.OrderCreatedEvent{
		OrderID:   "11111111-1111-1111-1111-111111111111",
		AddressID: "tampoco",
	})
	require.Error(t, err)
	assert.True(t, isPermanent(err))
}

func TestIsPermanentDistingueTransitorios(t *testing.T) {
	// Un fallo de base de datos es transitorio y sí se reencola
	assert.False(t, isPermanent(errors.New("gocql: no hosts available")))
	assert.False(t, isPermanent(fmt.Errorf("timeout: %w", errors.New("connection refused"))))

	// Envueltos siguen siendo permanentes
	wrapped := fmt.Errorf("procesando pedido: %w",
		permanentError{errors.New("ningún método de envío activo admite 500.00 kg")})
	assert.True(t, isPermanent(wrapped))
}
