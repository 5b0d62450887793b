package admin

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// 🟢 GET /api/admin/orders?status=pending&user_id=xxx
func GetAllOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	statusFilter := c.Query("status")
	if statusFilter != "" && !models.IsValidOrderStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de pedido inválido"})
		return
	}

	userFilter := c.Query("user_id")
	if userFilter != "" {
		if _, err := uuid.Parse(userFilter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
			return
		}
	}

	iter := session.Query(`
		SELECT order_id, order_number, user_id, total_amount, status, shipping_address,
			payment_method, payment_intent_id, created_at, updated_at
		FROM orders`).Iter()

	orders := []models.Order{}
	var o models.Order
	for iter.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &o.Status,
		&o.ShippingAddress, &o.PaymentMethod, &o.PaymentIntentID, &o.CreatedAt, &o.UpdatedAt) {
		if statusFilter != "" && o.Status != statusFilter {
			continue
		}
		if userFilter != "" && o.UserID.String() != userFilter {
			continue
		}
		orders = append(orders, o)
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar pedidos"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// 🟢 PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidOrderStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de pedido inválido"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	var order models.Order
	err = session.Query(`
		SELECT order_id, order_number, user_id, status, created_at
		FROM orders WHERE order_id = ?`, gocql.UUID(orderID)).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.Status, &order.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		return
	}

	// De un estado terminal no se sale
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El pedido ya está en un estado final"})
		return
	}

	now := time.Now()
	err = session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		input.Status, now, order.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el pedido"})
		return
	}

	session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ?`,
		input.Status, order.UserID, order.CreatedAt).Exec()

	utils.LogAction("order_status_updated", order.ID.String(), order.OrderNumber,
		c.GetString("user_id"), c.ClientIP(), input.Status)

	c.JSON(http.StatusOK, gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       input.Status,
		"updated_at":   now,
	})
}

// 🟢 GET /api/admin/orders/stats
func GetOrderStats(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	iter := session.Query(`
		SELECT order_id, order_number, status, total_amount, created_at
		FROM orders`).Iter()

	type recentOrder struct {
		OrderID     gocql.UUID `json:"order_id"`
		OrderNumber string     `json:"order_number"`
		Status      string     `json:"status"`
		TotalAmount float64    `json:"total_amount"`
		CreatedAt   time.Time  `json:"created_at"`
	}

	byStatus := map[string]int{}
	totalRevenue := 0.0
	count := 0
	last30days := 0
	cutoff := time.Now().AddDate(0, 0, -30)
	all := []recentOrder{}

	var o recentOrder
	for iter.Scan(&o.OrderID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.CreatedAt) {
		byStatus[o.Status]++
		count++
		if o.Status != models.OrderStatusCancelled {
			totalRevenue += o.TotalAmount
		}
		if o.CreatedAt.After(cutoff) {
			last30days++
		}
		all = append(all, o)
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al calcular estadísticas"})
		return
	}

	averageOrder := 0.0
	if count > 0 {
		averageOrder = totalRevenue / float64(count)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	recent := all
	if len(recent) > 5 {
		recent = recent[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":        count,
		"by_status":           byStatus,
		"total_revenue":       totalRevenue,
		"average_order_value": averageOrder,
		"orders_last_30_days": last30days,
		"recent_orders":       recent,
	})
}
