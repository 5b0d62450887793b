package shipping

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
)

// loadAllShipments hace un full scan de la tabla shipments
func loadAllShipments(session *gocql.Session) ([]models.Shipment, error) {
	iter := session.Query(`
		SELECT shipment_id, order_id, address_id, method_id, tracking_number, carrier,
			weight_kg, package_count, shipping_cost, insurance_cost, total_cost, status,
			estimated_delivery_start, estimated_delivery_end, shipped_at, delivered_at,
			created_at, updated_at
		FROM shipments`).Iter()

	shipments := []models.Shipment{}
	var s models.Shipment
	for iter.Scan(&s.ID, &s.OrderID, &s.AddressID, &s.MethodID, &s.TrackingNumber, &s.Carrier,
		&s.WeightKg, &s.PackageCount, &s.ShippingCost, &s.InsuranceCost, &s.TotalCost, &s.Status,
		&s.EstimatedDeliveryStart, &s.EstimatedDeliveryEnd, &s.ShippedAt, &s.DeliveredAt,
		&s.CreatedAt, &s.UpdatedAt) {
		shipments = append(shipments, s)
		s.ShippedAt, s.DeliveredAt = nil, nil
	}
	return shipments, iter.Close()
}

// 🟢 GET /api/shipping/shipments?status=pending&carrier=seur&order_id=xxx&from=2025-01-01&to=2025-02-01 (admin)
func ListShipments(c *gin.Context) {
	statusFilter := c.Query("status")
	if statusFilter != "" && !models.IsValidShippingStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Estado de envío inválido"})
		return
	}
	carrierFilter := c.Query("carrier")
	orderFilter := c.Query("order_id")

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	shipments, err := loadAllShipments(session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar envíos"})
		return
	}

	results := []models.Shipment{}
	for _, s := range shipments {
		if statusFilter != "" && s.Status != statusFilter {
			continue
		}
		if carrierFilter != "" && s.Carrier != carrierFilter {
			continue
		}
		if orderFilter != "" && s.OrderID.String() != orderFilter {
			continue
		}
		if !from.IsZero() && s.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !s.CreatedAt.Before(to) {
			continue
		}
		results = append(results, s)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(results), "shipments": results})
}

// 🟢 GET /api/shipping/stats?days=30 (admin o vendedor)
func GetShippingStats(c *gin.Context) {
	days := 30
	if d, err := strconv.Atoi(c.Query("days")); err == nil && d > 0 {
		days = d
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	shipments, err := loadAllShipments(session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al calcular estadísticas"})
		return
	}

	type recentShipment struct {
		ShipmentID     gocql.UUID `json:"shipment_id"`
		TrackingNumber string     `json:"tracking_number"`
		Carrier        string     `json:"carrier"`
		Status         string     `json:"status"`
	}

	byStatus := map[string]int{}
	byCarrier := map[string]int{}
	totalCost := 0.0
	totalWeight := 0.0
	count := 0
	deliveryDays := 0.0
	delivered := 0
	recent := []recentShipment{}

	for _, s := range shipments {
		if s.CreatedAt.Before(cutoff) {
			continue
		}
		byStatus[s.Status]++
		byCarrier[s.Carrier]++
		totalCost += s.TotalCost
		totalWeight += s.WeightKg
		count++

		if s.DeliveredAt != nil {
			deliveryDays += s.DeliveredAt.Sub(s.CreatedAt).Hours() / 24
			delivered++
		}
		if len(recent) < 10 {
			recent = append(recent, recentShipment{
				ShipmentID:     s.ID,
				TrackingNumber: s.TrackingNumber,
				Carrier:        s.Carrier,
				Status:         s.Status,
			})
		}
	}

	avgDeliveryDays := 0.0
	if delivered > 0 {
		avgDeliveryDays = deliveryDays / float64(delivered)
	}

	c.JSON(http.StatusOK, gin.H{
		"period_days":           days,
		"total_shipments":       count,
		"by_status":             byStatus,
		"by_carrier":            byCarrier,
		"total_shipping_cost":   round2(totalCost),
		"total_weight_kg":       round2(totalWeight),
		"delivered":             delivered,
		"average_delivery_days": round2(avgDeliveryDays),
		"recent_shipments":      recent,
	})
}
