package shipping

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

func scanShipment(session *gocql.Session, shipmentID gocql.UUID) (*models.Shipment, error) {
	var s models.Shipment
	err := session.Query(`
		SELECT shipment_id, order_id, address_id, method_id, tracking_number, carrier,
			weight_kg, package_count, shipping_cost, insurance_cost, total_cost, status,
			estimated_delivery_start, estimated_delivery_end, shipped_at, delivered_at,
			created_at, updated_at
		FROM shipments WHERE shipment_id = ?`, shipmentID).Scan(
		&s.ID, &s.OrderID, &s.AddressID, &s.MethodID, &s.TrackingNumber, &s.Carrier,
		&s.WeightKg, &s.PackageCount, &s.ShippingCost, &s.InsuranceCost, &s.TotalCost, &s.Status,
		&s.EstimatedDeliveryStart, &s.EstimatedDeliveryEnd, &s.ShippedAt, &s.DeliveredAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// orderOwner devuelve el user_id dueño de un pedido
func orderOwner(session *gocql.Session, orderID gocql.UUID) (string, error) {
	var userID gocql.UUID
	err := session.Query(`SELECT user_id FROM orders WHERE order_id = ?`, orderID).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID.String(), nil
}

// setOrderStatus actualiza el estado en orders y en la tabla espejo
// orders_by_user
func setOrderStatus(session *gocql.Session, orderID gocql.UUID, status string, now time.Time) {
	var userID gocql.UUID
	var createdAt time.Time
	if err := session.Query(`SELECT user_id, created_at FROM orders WHERE order_id = ?`,
		orderID).Scan(&userID, &createdAt); err != nil {
		return
	}
	session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ?`,
		status, now, orderID).Exec()
	session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ?`,
		status, userID, createdAt).Exec()
}

// 🟢 POST /api/shipping/shipments (admin)
// Crea un envío a mano para un pedido. Normalmente lo hace el worker de
// fulfillment, esto cubre pedidos anteriores o reenvíos.
func CreateShipment(c *gin.Context) {
	var input struct {
		OrderID   string  `json:"order_id" binding:"required"`
		AddressID string  `json:"address_id"`
		MethodID  string  `json:"method_id" binding:"required"`
		WeightKg  float64 `json:"weight_kg" binding:"required,gt=0"`
		Insurance float64 `json:"insurance_cost"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id, method_id y weight_kg son obligatorios"})
		return
	}

	orderID, err := uuid.Parse(input.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}
	methodID, err := uuid.Parse(input.MethodID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de método inválido"})
		return
	}
	var addressID gocql.UUID
	if input.AddressID != "" {
		aid, err := uuid.Parse(input.AddressID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de dirección inválido"})
			return
		}
		addressID = gocql.UUID(aid)
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	// El pedido tiene que existir
	if _, err := orderOwner(session, gocql.UUID(orderID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		return
	}

	// El método tiene que existir, estar activo y admitir el peso
	methods, err := loadMethods(session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar los métodos"})
		return
	}
	var method *models.ShippingMethod
	for i := range methods {
		if methods[i].ID == gocql.UUID(methodID) {
			method = &methods[i]
			break
		}
	}
	if method == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Método de envío no encontrado"})
		return
	}
	if !method.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El método de envío no está activo"})
		return
	}
	if !method.AcceptsWeight(input.WeightKg) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El método no admite ese peso"})
		return
	}

	now := time.Now()
	shipmentID, _ := gocql.RandomUUID()
	cost := method.CostFor(input.WeightKg)

	shipment := models.Shipment{
		ID:                     shipmentID,
		OrderID:                gocql.UUID(orderID),
		AddressID:              addressID,
		MethodID:               method.ID,
		TrackingNumber:         utils.GenerateTrackingNumber(method.Carrier),
		Carrier:                method.Carrier,
		WeightKg:               input.WeightKg,
		PackageCount:           1,
		ShippingCost:           cost,
		InsuranceCost:          input.Insurance,
		TotalCost:              cost + input.Insurance,
		Status:                 models.ShippingStatusPending,
		EstimatedDeliveryStart: now.AddDate(0, 0, method.EstimatedDaysMin),
		EstimatedDeliveryEnd:   now.AddDate(0, 0, method.EstimatedDaysMax),
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	err = session.Query(`
		INSERT INTO shipments (shipment_id, order_id, address_id, method_id, tracking_number,
			carrier, weight_kg, package_count, shipping_cost, insurance_cost, total_cost,
			status, estimated_delivery_start, estimated_delivery_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shipment.ID, shipment.OrderID, shipment.AddressID, shipment.MethodID,
		shipment.TrackingNumber, shipment.Carrier, shipment.WeightKg, shipment.PackageCount,
		shipment.ShippingCost, shipment.InsuranceCost, shipment.TotalCost, shipment.Status,
		shipment.EstimatedDeliveryStart, shipment.EstimatedDeliveryEnd,
		shipment.CreatedAt, shipment.UpdatedAt,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el envío"})
		return
	}

	session.Query(`INSERT INTO shipments_by_tracking (tracking_number, shipment_id, order_id) VALUES (?, ?, ?)`,
		shipment.TrackingNumber, shipment.ID, shipment.OrderID).Exec()
	session.Query(`INSERT INTO shipments_by_order (order_id, shipment_id) VALUES (?, ?)`,
		shipment.OrderID, shipment.ID).Exec()

	// El pedido pasa a preparación
	setOrderStatus(session, shipment.OrderID, models.OrderStatusProcessing, now)

	utils.LogAction("shipment_created", shipment.ID.String(), shipment.TrackingNumber,
		c.GetString("user_id"), c.ClientIP(), "")

	c.JSON(http.StatusCreated, shipment)
}

// 🟢 GET /api/orders/:id/shipments
func GetShipmentsByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	owner, err := orderOwner(session, gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido no encontrado"})
		return
	}
	if owner != c.GetString("user_id") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Este pedido no es tuyo"})
		return
	}

	iter := session.Query(`SELECT shipment_id FROM shipments_by_order WHERE order_id = ?`,
		gocql.UUID(orderID)).Iter()

	shipments := []models.Shipment{}
	var shipmentID gocql.UUID
	for iter.Scan(&shipmentID) {
		if s, err := scanShipment(session, shipmentID); err == nil {
			shipments = append(shipments, *s)
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar envíos"})
		return
	}

	c.JSON(http.StatusOK, shipments)
}

// 🟢 GET /api/shipping/shipments/:id
func GetShipment(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de envío inválido"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	shipment, err := scanShipment(session, gocql.UUID(shipmentID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Envío no encontrado"})
		return
	}

	owner, err := orderOwner(session, shipment.OrderID)
	if err == nil && owner != c.GetString("user_id") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Este envío no es tuyo"})
		return
	}

	c.JSON(http.StatusOK, shipment)
}

// 🟢 PUT /api/shipping/shipments/:id/status (admin)
func UpdateShipmentStatus(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de envío inválido"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidShippingStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de envío inválido"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	shipment, err := scanShipment(session, gocql.UUID(shipmentID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Envío no encontrado"})
		return
	}

	now := time.Now()
	shipment.Status = input.Status
	shipment.UpdatedAt = now

	// Marcas de tiempo derivadas del estado
	if input.Status == models.ShippingStatusInTransit && shipment.ShippedAt == nil {
		shipment.ShippedAt = &now
	}
	if input.Status == models.ShippingStatusDelivered && shipment.DeliveredAt == nil {
		shipment.DeliveredAt = &now
	}

	err = session.Query(`
		UPDATE shipments SET status = ?, shipped_at = ?, delivered_at = ?, updated_at = ?
		WHERE shipment_id = ?`,
		shipment.Status, shipment.ShippedAt, shipment.DeliveredAt, shipment.UpdatedAt, shipment.ID,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el envío"})
		return
	}

	// Reflejar el avance en el pedido
	var orderStatus string
	switch input.Status {
	case models.ShippingStatusInTransit, models.ShippingStatusOutForDelivery:
		orderStatus = models.OrderStatusShipped
	case models.ShippingStatusDelivered:
		orderStatus = models.OrderStatusDelivered
	}
	if orderStatus != "" {
		setOrderStatus(session, shipment.OrderID, orderStatus, now)
	}

	utils.LogAction("shipment_status_updated", shipment.ID.String(), shipment.TrackingNumber,
		c.GetString("user_id"), c.ClientIP(), input.Status)

	c.JSON(http.StatusOK, shipment)
}
