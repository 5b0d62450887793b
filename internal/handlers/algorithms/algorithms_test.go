package algorithms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

func catalogFixture() []models.Product {
	return []models.Product{
		{Name: "Teclado", Price: 49.90, Quantity: 12},
		{Name: "Monitor", Price: 189.00, Quantity: 3},
		{Name: "Alfombrilla", Price: 7.50, Quantity: 40},
	}
}

func setupRouter(catalog []models.Product) *gin.Engine {
	loadCatalog = func() ([]models.Product, error) { return catalog, nil }
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/algorithms/sort", SortProducts)
	r.GET("/api/algorithms/greedy/best-products", GreedyBestProducts)
	return r
}

func doGet(t *testing.T, r *gin.Engine, url string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSortProductsMetodoInvalido(t *testing.T) {
	r := setupRouter(catalogFixture())

	code, body := doGet(t, r, "/api/algorithms/sort?method=bubblesort")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "method debe ser quicksort o mergesort", body["error"])
}

func TestSortProductsCampoInvalido(t *testing.T) {
	r := setupRouter(catalogFixture())

	code, body := doGet(t, r, "/api/algorithms/sort?by=color")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "by debe ser price, name o quantity", body["error"])
}

func TestSortProductsCatalogoVacio(t *testing.T) {
	r := setupRouter(nil)

	code, body := doGet(t, r, "/api/algorithms/sort")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No hay productos en la base de datos", body["error"])
}

func TestSortProductsSinPasos(t *testing.T) {
	r := setupRouter(catalogFixture())

	code, body := doGet(t, r, "/api/algorithms/sort?method=mergesort&by=price")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "mergesort", body["method"])
	assert.Equal(t, "price", body["by"])
	assert.EqualValues(t, 3, body["count"])
	// Sin steps=true los pasos van a null
	assert.Contains(t, body, "steps")
	assert.Nil(t, body["steps"])

	sorted, ok := body["sorted"].([]any)
	require.True(t, ok)
	first := sorted[0].(map[string]any)
	assert.Equal(t, "Alfombrilla", first["name"])
}

func TestSortProductsConPasos(t *testing.T) {
	r := setupRouter(catalogFixture())

	code, body := doGet(t, r, "/api/algorithms/sort?method=quicksort&by=quantity&steps=true")
	require.Equal(t, http.StatusOK, code)

	steps, ok := body["steps"].([]any)
	require.True(t, ok, "steps=true debe devolver los snapshots")
	assert.NotEmpty(t, steps)
}

func TestGreedyBudgetInvalido(t *testing.T) {
	r := setupRouter(catalogFixture())

	for _, q := range []string{"", "budget=0", "budget=-5", "budget=gratis"} {
		url := "/api/algorithms/greedy/best-products"
		if q != "" {
			url += "?" + q
		}
		code, body := doGet(t, r, url)
		assert.Equal(t, http.StatusBadRequest, code, "query %q", q)
		assert.Equal(t, "budget debe ser un número mayor que 0", body["error"])
	}
}

func TestGreedyCatalogoVacio(t *testing.T) {
	r := setupRouter(nil)

	code, body := doGet(t, r, "/api/algorithms/greedy/best-products?budget=100")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No hay productos en la base de datos", body["error"])
}

func TestGreedyDentroDelPresupuesto(t *testing.T) {
	r := setupRouter(catalogFixture())

	code, body := doGet(t, r, "/api/algorithms/greedy/best-products?budget=60")
	require.Equal(t, http.StatusOK, code)

	assert.EqualValues(t, 60, body["budget"])
	total, ok := body["total_spent"].(float64)
	require.True(t, ok)
	assert.LessOrEqual(t, total, 60.0)

	selected, ok := body["selected_products"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, selected)
}
