package user

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/cache"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/events"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/services"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// Peso por unidad cuando el producto no declara el suyo
const defaultUnitWeightKg = 0.5

// 🟢 POST /api/checkout
// Convierte el carrito en un pedido: valida stock, congela los precios,
// descuenta inventario y vacía el carrito
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	var input struct {
		AddressID     string `json:"address_id" binding:"required"`
		PaymentMethod string `json:"payment_method"`
		Email         string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address_id es obligatorio"})
		return
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "simulated"
	}

	addressID, err := uuid.Parse(input.AddressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de dirección inválido"})
		return
	}

	ctx := context.Background()

	cart := loadCart(ctx, userID)
	if len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El carrito está vacío"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	// La dirección debe existir y ser del usuario
	uid, _ := uuid.Parse(userID)
	var addressLine string
	err = usersSession.Query(`SELECT address_line1 FROM addresses WHERE user_id = ? AND address_id = ?`,
		gocql.UUID(uid), gocql.UUID(addressID)).Scan(&addressLine)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dirección no encontrada"})
		return
	}

	productsSession, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	// 1. Validar stock y congelar precios desde la base de datos
	type line struct {
		product models.Product
		qty     int
	}
	lines := make([]line, 0, len(cart))
	total := 0.0
	weight := 0.0

	for _, item := range cart {
		product, err := cache.GetProductFromCache(item.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Producto %s ya no existe", item.Name)})
			return
		}
		if product.Quantity < item.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Stock insuficiente de %s (quedan %d)", product.Name, product.Quantity),
			})
			return
		}

		lines = append(lines, line{product: *product, qty: item.Quantity})
		total += product.Price * float64(item.Quantity)

		unitWeight := product.WeightKg
		if unitWeight <= 0 {
			unitWeight = defaultUnitWeightKg
		}
		weight += unitWeight * float64(item.Quantity)
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	// 2. Crear el pedido
	now := time.Now()
	orderID, _ := gocql.RandomUUID()
	orderNumber := utils.GenerateOrderNumber()

	order := models.Order{
		ID:              orderID,
		OrderNumber:     orderNumber,
		UserID:          gocql.UUID(uid),
		TotalAmount:     total,
		Status:          models.OrderStatusConfirmed,
		ShippingAddress: addressLine,
		PaymentMethod:   input.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// PaymentIntent opcional si Stripe está configurado
	var clientSecret string
	if input.PaymentMethod == "card" && services.StripeEnabled() {
		intentID, secret, err := services.CreatePaymentIntent(orderNumber, userID, total)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creando el pago"})
			return
		}
		order.PaymentIntentID = intentID
		clientSecret = secret
	}

	err = ordersSession.Query(`
		INSERT INTO orders (order_id, order_number, user_id, total_amount, status,
			shipping_address, payment_method, payment_intent_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrderNumber, order.UserID, order.TotalAmount, order.Status,
		order.ShippingAddress, order.PaymentMethod, order.PaymentIntentID,
		order.CreatedAt, order.UpdatedAt,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el pedido"})
		return
	}

	// Tabla de pedidos por usuario, ordenada por fecha descendente
	ordersSession.Query(`
		INSERT INTO orders_by_user (user_id, created_at, order_id, order_number, total_amount, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, order.OrderNumber, order.TotalAmount, order.Status,
	).Exec()

	// 3. Líneas del pedido y descuento de stock
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := models.OrderItem{
			OrderID:      order.ID,
			ProductID:    l.product.ID,
			ProductName:  l.product.Name,
			ProductPrice: l.product.Price,
			Quantity:     l.qty,
			Subtotal:     l.product.Price * float64(l.qty),
		}
		items = append(items, item)

		ordersSession.Query(`
			INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
			VALUES (?, ?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.ProductName, item.ProductPrice, item.Quantity, item.Subtotal,
		).Exec()

		newQty := l.product.Quantity - l.qty
		productsSession.Query(`UPDATE products SET quantity = ?, updated_at = ? WHERE product_id = ?`,
			newQty, now, l.product.ID).Exec()
		cache.InvalidateProductCache(l.product.ID.String())

		// Reindexar con el stock nuevo
		updated := l.product
		updated.Quantity = newQty
		go services.IndexProduct(updated)
	}

	// 4. Vaciar el carrito
	database.Redis.Del(ctx, cartKey(userID))
	database.Redis.Publish(ctx, "cartsync:"+userID, "cleared")

	// 5. Evento para el worker de fulfillment (fire and forget)
	events.PublishOrderCreated(models.OrderCreatedEvent{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		TotalAmount: order.TotalAmount,
		WeightKg:    weight,
		AddressID:   addressID.String(),
		CreatedAt:   order.CreatedAt,
	})

	// 6. Confirmación por correo si hay SMTP y el cliente dio un email
	if input.Email != "" && utils.EmailEnabled() {
		go func(to string, o models.Order, its []models.OrderItem) {
			if err := utils.SendOrderConfirmationEmail(to, o, its); err != nil {
				log.Printf("⚠️ No se pudo enviar la confirmación de %s: %v", o.OrderNumber, err)
			}
		}(input.Email, order, items)
	}

	utils.LogAction("order_created", order.ID.String(), order.OrderNumber, userID, c.ClientIP(),
		fmt.Sprintf("total=%.2f items=%d", total, len(items)))

	log.Printf("🛒 Pedido %s creado para %s (%.2f€)", order.OrderNumber, userID, total)

	response := gin.H{
		"order":     order,
		"items":     items,
		"weight_kg": weight,
	}
	if clientSecret != "" {
		response["client_secret"] = clientSecret
	}

	c.JSON(http.StatusCreated, response)
}
