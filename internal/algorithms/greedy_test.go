package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

func TestGreedyBestProducts(t *testing.T) {
	products := []models.Product{
		{Name: "Portátil", Price: 900, Quantity: 1},  // ratio 900
		{Name: "Monitor", Price: 200, Quantity: 2},   // ratio 100
		{Name: "Teclado", Price: 50, Quantity: 10},   // ratio 5
		{Name: "Ratón", Price: 20, Quantity: 20},     // ratio 1
	}

	result := GreedyBestProducts(products, 1000)

	assert.Equal(t, 1000.0, result.Budget)
	// Coge Portátil (900), salta Monitor (1100 > 1000), coge Teclado (950) y Ratón (970)
	assert.Equal(t, 970.0, result.TotalSpent)
	assert.Equal(t, []string{"Portátil", "Teclado", "Ratón"}, names(result.SelectedProducts))
}

func TestGreedyZeroQuantityCountsAsOne(t *testing.T) {
	products := []models.Product{
		{Name: "Agotado", Price: 100, Quantity: 0}, // ratio 100/1 = 100
		{Name: "Normal", Price: 100, Quantity: 2},  // ratio 50
	}

	result := GreedyBestProducts(products, 100)

	// El agotado gana por ratio y consume todo el presupuesto
	assert.Equal(t, []string{"Agotado"}, names(result.SelectedProducts))
	assert.Equal(t, 100.0, result.TotalSpent)
}

func TestGreedyEmptyBudget(t *testing.T) {
	products := []models.Product{{Name: "Caro", Price: 10, Quantity: 1}}

	result := GreedyBestProducts(products, 5)

	assert.Empty(t, result.SelectedProducts)
	assert.Zero(t, result.TotalSpent)
}

func TestGreedyDoesNotMutateInput(t *testing.T) {
	products := []models.Product{
		{Name: "B", Price: 10, Quantity: 10},
		{Name: "A", Price: 100, Quantity: 1},
	}

	GreedyBestProducts(products, 1000)

	assert.Equal(t, "B", products[0].Name)
	assert.Equal(t, "A", products[1].Name)
}
