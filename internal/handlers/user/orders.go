package user

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// 🟢 GET /api/orders?status=pending&limit=20&offset=0
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	statusFilter := c.Query("status")
	if statusFilter != "" && !models.IsValidOrderStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de pedido inválido"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	uid, _ := uuid.Parse(userID)
	iter := session.Query(`
		SELECT order_id, order_number, created_at, total_amount, status
		FROM orders_by_user WHERE user_id = ?`, gocql.UUID(uid)).Iter()

	type orderSummary struct {
		OrderID     gocql.UUID `json:"order_id"`
		OrderNumber string     `json:"order_number"`
		CreatedAt   time.Time  `json:"created_at"`
		TotalAmount float64    `json:"total_amount"`
		Status      string     `json:"status"`
	}

	orders := []orderSummary{}
	var o orderSummary
	var createdAt time.Time
	for iter.Scan(&o.OrderID, &o.OrderNumber, &createdAt, &o.TotalAmount, &o.Status) {
		if statusFilter != "" && o.Status != statusFilter {
			continue
		}
		o.CreatedAt = createdAt
		orders = append(orders, o)
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar pedidos"})
		return
	}

	total := len(orders)
	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	offset := 0
	if off, err := strconv.Atoi(c.Query("offset")); err == nil && off > 0 {
		offset = off
	}
	if offset >= len(orders) {
		orders = []orderSummary{}
	} else {
		orders = orders[offset:]
		if len(orders) > limit {
			orders = orders[:limit]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"count":  len(orders),
		"orders": orders,
	})
}

// getOrder carga un pedido y comprueba que pertenece al usuario (o que
// es admin)
func getOrder(c *gin.Context, orderID string) (*models.Order, bool) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return nil, false
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return nil, false
	}

	var order models.Order
	err = session.Query(`
		SELECT order_id, order_number, user_id, total_amount, status, shipping_address,
			payment_method, payment_intent_id, created_at, updated_at
		FROM orders WHERE order_id = ?`, gocql.UUID(id)).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.TotalAmount, &order.Status,
		&order.ShippingAddress, &order.PaymentMethod, &order.PaymentIntentID,
		&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		return nil, false
	}

	if order.UserID.String() != c.GetString("user_id") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Este pedido no es tuyo"})
		return nil, false
	}

	return &order, true
}

// loadOrderItems carga las líneas de un pedido
func loadOrderItems(orderID gocql.UUID) ([]models.OrderItem, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT order_id, product_id, product_name, product_price, quantity, subtotal
		FROM order_items WHERE order_id = ?`, orderID).Iter()

	items := []models.OrderItem{}
	var item models.OrderItem
	for iter.Scan(&item.OrderID, &item.ProductID, &item.ProductName, &item.ProductPrice,
		&item.Quantity, &item.Subtotal) {
		items = append(items, item)
	}

	return items, iter.Close()
}

// 🟢 GET /api/orders/:id
func GetOrderDetail(c *gin.Context) {
	order, ok := getOrder(c, c.Param("id"))
	if !ok {
		return
	}

	items, err := loadOrderItems(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar las líneas del pedido"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

// 🟢 POST /api/orders/:id/cancel
// Solo se puede cancelar un pedido que aún no ha salido
func CancelOrder(c *gin.Context) {
	order, ok := getOrder(c, c.Param("id"))
	if !ok {
		return
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El pedido ya no se puede cancelar"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	now := time.Now()
	err = session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		models.OrderStatusCancelled, now, order.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cancelar el pedido"})
		return
	}

	session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ?`,
		models.OrderStatusCancelled, order.UserID, order.CreatedAt).Exec()

	utils.LogAction("order_cancelled", order.ID.String(), order.OrderNumber,
		c.GetString("user_id"), c.ClientIP(), "")

	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = now
	c.JSON(http.StatusOK, order)
}
