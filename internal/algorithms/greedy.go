package algorithms

import (
	"sort"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

// GreedyResult es la selección voraz de productos dentro de un
// presupuesto
type GreedyResult struct {
	Budget           float64          `json:"budget"`
	TotalSpent       float64          `json:"total_spent"`
	SelectedProducts []models.Product `json:"selected_products"`
}

// GreedyBestProducts selecciona productos maximizando el ratio
// precio/cantidad con un algoritmo voraz: ordena por ratio descendente
// y va cogiendo mientras quede presupuesto
func GreedyBestProducts(products []models.Product, budget float64) GreedyResult {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)

	ratio := func(p models.Product) float64 {
		qty := p.Quantity
		if qty <= 0 {
			qty = 1
		}
		return p.Price / float64(qty)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return ratio(sorted[i]) > ratio(sorted[j])
	})

	selected := []models.Product{}
	totalCost := 0.0

	for _, p := range sorted {
		if totalCost+p.Price <= budget {
			selected = append(selected, p)
			totalCost += p.Price
		}
	}

	return GreedyResult{
		Budget:           budget,
		TotalSpent:       totalCost,
		SelectedProducts: selected,
	}
}
