package algorithms

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	algo "github.com/serafin-rian/tienda-virtual/internal/algorithms"
	"github.com/serafin-rian/tienda-virtual/internal/handlers/product"
	"github.com/serafin-rian/tienda-virtual/internal/models"
)

// loadCatalog se puede sustituir en tests
var loadCatalog = product.LoadAllProducts

// 🟦 GET /api/algorithms/sort?method=quicksort&by=price&steps=true
// Ordena el catálogo real con quicksort o mergesort, opcionalmente
// devolviendo los snapshots del algoritmo para visualización
func SortProducts(c *gin.Context) {
	method := c.DefaultQuery("method", "quicksort")
	if method != "quicksort" && method != "mergesort" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "method debe ser quicksort o mergesort"})
		return
	}

	by := c.DefaultQuery("by", "price")
	key, err := algo.KeySelector(by)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "by debe ser price, name o quantity"})
		return
	}

	withSteps := c.Query("steps") == "true"

	products, err := loadCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar el catálogo"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No hay productos en la base de datos"})
		return
	}

	var sorted []models.Product
	var trace [][]algo.Key

	if method == "quicksort" {
		if withSteps {
			sorted, trace = algo.QuicksortWithSteps(products, key)
		} else {
			sorted = algo.Quicksort(products, key)
		}
	} else {
		if withSteps {
			sorted, trace = algo.MergesortWithSteps(products, key)
		} else {
			sorted = algo.Mergesort(products, key)
		}
	}

	response := gin.H{
		"method": method,
		"by":     by,
		"count":  len(sorted),
		"sorted": sorted,
	}
	if withSteps {
		response["steps"] = trace
	} else {
		response["steps"] = nil
	}

	c.JSON(http.StatusOK, response)
}

// 🟩 GET /api/algorithms/greedy/best-products?budget=100
// Selección voraz de productos dentro de un presupuesto
func GreedyBestProducts(c *gin.Context) {
	budget, err := strconv.ParseFloat(c.Query("budget"), 64)
	if err != nil || budget <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget debe ser un número mayor que 0"})
		return
	}

	products, err := loadCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar el catálogo"})
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No hay productos en la base de datos"})
		return
	}

	result := algo.GreedyBestProducts(products, budget)
	c.JSON(http.StatusOK, result)
}
