package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serafin-rian/tienda-virtual/internal/models"
)

func TestBuildCartSummaryCalculaTotales(t *testing.T) {
	productNames = func(ids []string) map[string]string {
		return map[string]string{}
	}

	cart := []models.CartItem{
		{ProductID: "a", Name: "Teclado", Price: 49.90, Quantity: 2},
		{ProductID: "b", Name: "Alfombrilla", Price: 7.50, Quantity: 1},
	}

	items, total := buildCartSummary(cart)

	require.Len(t, items, 2)
	assert.InDelta(t, 99.80, items[0].Subtotal, 1e-9)
	assert.InDelta(t, 7.50, items[1].Subtotal, 1e-9)
	assert.InDelta(t, 107.30, total, 1e-9)
}

func TestBuildCartSummaryRefrescaNombres(t *testing.T) {
	// El producto "a" se renombró después de añadirse al carrito,
	// el de "b" no está en caché y conserva el nombre guardado
	productNames = func(ids []string) map[string]string {
		return map[string]string{"a": "Teclado mecánico", "b": ""}
	}

	cart := []models.CartItem{
		{ProductID: "a", Name: "Teclado", Price: 49.90, Quantity: 1},
		{ProductID: "b", Name: "Alfombrilla", Price: 7.50, Quantity: 1},
	}

	items, _ := buildCartSummary(cart)

	require.Len(t, items, 2)
	assert.Equal(t, "Teclado mecánico", items[0].ProductName)
	assert.Equal(t, "Alfombrilla", items[1].ProductName)
}

func TestBuildCartSummaryCarritoVacio(t *testing.T) {
	productNames = func(ids []string) map[string]string {
		return map[string]string{}
	}

	items, total := buildCartSummary(nil)

	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestGetCartSummarySinIdentidad(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/cart/summary", GetCartSummary)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cart/summary", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
