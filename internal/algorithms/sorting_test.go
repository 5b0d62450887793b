package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

func testProducts() []models.Product {
	return []models.Product{
		{Name: "Teclado", Price: 49.99, Quantity: 12},
		{Name: "monitor", Price: 199.00, Quantity: 3},
		{Name: "Ratón", Price: 19.95, Quantity: 30},
		{Name: "Alfombrilla", Price: 9.99, Quantity: 50},
		{Name: "cable HDMI", Price: 9.99, Quantity: 7},
	}
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestKeySelector(t *testing.T) {
	p := models.Product{Name: "Monitor", Price: 199.0, Quantity: 3}

	byPrice, err := KeySelector("price")
	require.NoError(t, err)
	assert.Equal(t, 199.0, byPrice(p).Num)

	byName, err := KeySelector("name")
	require.NoError(t, err)
	assert.Equal(t, "monitor", byName(p).Str)

	byQuantity, err := KeySelector("quantity")
	require.NoError(t, err)
	assert.Equal(t, 3.0, byQuantity(p).Num)

	_, err = KeySelector("color")
	assert.Error(t, err)
}

func TestQuicksortByPrice(t *testing.T) {
	key, _ := KeySelector("price")
	sorted := Quicksort(testProducts(), key)

	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Price, sorted[i].Price)
	}
}

func TestQuicksortByNameIgnoresCase(t *testing.T) {
	key, _ := KeySelector("name")
	sorted := Quicksort(testProducts(), key)

	assert.Equal(t, []string{"Alfombrilla", "cable HDMI", "monitor", "Ratón", "Teclado"}, names(sorted))
}

func TestQuicksortRecordsSteps(t *testing.T) {
	key, _ := KeySelector("quantity")
	sorted, steps := QuicksortWithSteps(testProducts(), key)

	require.NotEmpty(t, steps)
	// Cada snapshot conserva todos los elementos del subarreglo
	assert.Len(t, steps[0], len(testProducts()))

	// El último snapshot es el arreglo completamente ordenado
	last := steps[len(steps)-1]
	require.Len(t, last, len(sorted))
	for i, p := range sorted {
		assert.Equal(t, float64(p.Quantity), last[i].Num)
	}
}

func TestMergesortByPrice(t *testing.T) {
	key, _ := KeySelector("price")
	sorted := Mergesort(testProducts(), key)

	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Price, sorted[i].Price)
	}
}

func TestMergesortIsStable(t *testing.T) {
	key, _ := KeySelector("price")
	sorted := Mergesort(testProducts(), key)

	// Alfombrilla y cable HDMI empatan a 9.99, debe conservarse el orden
	assert.Equal(t, "Alfombrilla", sorted[0].Name)
	assert.Equal(t, "cable HDMI", sorted[1].Name)
}

func TestMergesortRecordsSteps(t *testing.T) {
	key, _ := KeySelector("price")
	sorted, steps := MergesortWithSteps(testProducts(), key)

	// n-1 mezclas para n elementos
	assert.Len(t, steps, len(testProducts())-1)

	last := steps[len(steps)-1]
	require.Len(t, last, len(sorted))
	for i, p := range sorted {
		assert.Equal(t, p.Price, last[i].Num)
	}
}

func TestSortEmptyAndSingle(t *testing.T) {
	key, _ := KeySelector("price")

	empty, steps := QuicksortWithSteps(nil, key)
	assert.Empty(t, empty)
	assert.Empty(t, steps)

	single := []models.Product{{Name: "Solo", Price: 1}}
	sorted, steps := MergesortWithSteps(single, key)
	assert.Len(t, sorted, 1)
	assert.Empty(t, steps)
}
