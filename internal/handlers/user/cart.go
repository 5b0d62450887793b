package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/cache"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

func cartKey(userID string) string {
	return "cart:" + userID
}

// loadCart lee el carrito de Redis (vacío si no existe)
func loadCart(ctx context.Context, userID string) []models.CartItem {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err != nil || data == "" {
		return []models.CartItem{}
	}

	var cart []models.CartItem
	if json.Unmarshal([]byte(data), &cart) != nil {
		return []models.CartItem{}
	}
	return cart
}

// saveCart guarda el carrito y notifica por pub/sub a los websockets
func saveCart(ctx context.Context, userID string, cart []models.CartItem, event string) {
	jsonData, _ := json.Marshal(cart)
	database.Redis.Set(ctx, cartKey(userID), jsonData, cartTTL)
	database.Redis.Publish(ctx, "cartsync:"+userID, event)
}

// 🟢 GET /api/cart
// Devuelve el carrito tal cual está guardado
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	cart := loadCart(context.Background(), userID)

	c.JSON(http.StatusOK, gin.H{
		"items": cart,
		"count": len(cart),
	})
}

// productNames se puede sustituir en tests
var productNames = cache.GetProductNamesFromCache

// buildCartSummary calcula subtotales y total. Los nombres se
// refrescan desde el caché por si el producto cambió después de
// añadirse al carrito.
func buildCartSummary(cart []models.CartItem) ([]models.CartSummaryItem, float64) {
	ids := make([]string, 0, len(cart))
	for _, item := range cart {
		ids = append(ids, item.ProductID)
	}
	names := productNames(ids)

	total := 0.0
	items := make([]models.CartSummaryItem, 0, len(cart))
	for _, item := range cart {
		name := item.Name
		if fresh, ok := names[item.ProductID]; ok && fresh != "" {
			name = fresh
		}
		subtotal := item.Price * float64(item.Quantity)
		total += subtotal
		items = append(items, models.CartSummaryItem{
			ProductID:   item.ProductID,
			ProductName: name,
			Price:       item.Price,
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
			Subtotal:    subtotal,
		})
	}
	return items, total
}

// 🟢 GET /api/cart/summary
func GetCartSummary(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	cart := loadCart(context.Background(), userID)
	items, total := buildCartSummary(cart)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"count": len(items),
	})
}

// 🟢 POST /api/cart/add
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}
	if _, err := uuid.Parse(input.ProductID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	// El precio y el nombre salen de la base de datos, nunca del cliente
	product, err := cache.GetProductFromCache(input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}

	if product.Quantity < input.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock insuficiente"})
		return
	}

	ctx := context.Background()
	cart := loadCart(ctx, userID)

	// Si el producto ya está, acumular cantidad
	found := false
	for i := range cart {
		if cart[i].ProductID == input.ProductID {
			cart[i].Quantity += input.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, models.CartItem{
			ProductID: input.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  input.Quantity,
			ImageURL:  product.ImageURL,
		})
	}

	saveCart(ctx, userID, cart, "updated")
	c.JSON(http.StatusOK, cart)
}

// 🟢 PUT /api/cart/:productId
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	productID := c.Param("productId")

	var input struct {
		Quantity int `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cantidad inválida (mínimo 1)"})
		return
	}

	product, err := cache.GetProductFromCache(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}
	if product.Quantity < input.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Stock insuficiente (quedan %d)", product.Quantity),
		})
		return
	}

	ctx := context.Background()
	cart := loadCart(ctx, userID)

	found := false
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity = input.Quantity
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "El producto no está en el carrito"})
		return
	}

	saveCart(ctx, userID, cart, "updated")
	c.JSON(http.StatusOK, cart)
}

// 🟢 DELETE /api/cart/:productId
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	productID := c.Param("productId")
	ctx := context.Background()

	cart := loadCart(ctx, userID)
	if len(cart) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Carrito vacío"})
		return
	}

	newCart := []models.CartItem{}
	for _, item := range cart {
		if item.ProductID != productID {
			newCart = append(newCart, item)
		}
	}

	saveCart(ctx, userID, newCart, "updated")
	c.JSON(http.StatusOK, newCart)
}

// 🟢 DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	ctx := context.Background()
	database.Redis.Del(ctx, cartKey(userID))
	database.Redis.Publish(ctx, "cartsync:"+userID, "cleared")

	c.JSON(http.StatusOK, gin.H{"message": "Carrito vaciado"})
}
