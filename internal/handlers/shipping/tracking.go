package shipping

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
)

// statusReached indica si el envío ya pasó (o está en) un estado dado,
// según el orden del ciclo de vida
func statusReached(current, milestone string) bool {
	order := map[string]int{
		models.ShippingStatusPending:        0,
		models.ShippingStatusProcessing:     1,
		models.ShippingStatusReadyForPickup: 2,
		models.ShippingStatusInTransit:      3,
		models.ShippingStatusOutForDelivery: 4,
		models.ShippingStatusDelivered:      5,
	}
	cur, ok := order[current]
	if !ok {
		return false
	}
	return cur >= order[milestone]
}

// SimulateTrackingEvents genera la línea temporal simulada de un envío.
// En producción esto vendría de la API del transportista.
func SimulateTrackingEvents(shipment models.Shipment, city, addressLine string) []models.TrackingEvent {
	base := shipment.CreatedAt
	events := []models.TrackingEvent{
		{Date: base, Status: "Envío creado", Location: "Almacén central"},
	}

	if statusReached(shipment.Status, models.ShippingStatusProcessing) {
		events = append(events, models.TrackingEvent{
			Date:     base.Add(2 * time.Hour),
			Status:   "Procesado en almacén",
			Location: "Centro de distribución",
		})
	}

	if statusReached(shipment.Status, models.ShippingStatusInTransit) {
		events = append(events, models.TrackingEvent{
			Date:     base.AddDate(0, 0, 1),
			Status:   "En tránsito",
			Location: fmt.Sprintf("En ruta a %s", city),
		})
	}

	if statusReached(shipment.Status, models.ShippingStatusOutForDelivery) {
		events = append(events, models.TrackingEvent{
			Date:     base.AddDate(0, 0, 2),
			Status:   "En reparto",
			Location: fmt.Sprintf("Repartidor asignado en %s", city),
		})
	}

	if shipment.Status == models.ShippingStatusDelivered && shipment.DeliveredAt != nil {
		events = append(events, models.TrackingEvent{
			Date:     *shipment.DeliveredAt,
			Status:   "Entregado",
			Location: addressLine,
		})
	}

	return events
}

// 🟢 GET /api/shipping/track/:trackingNumber
func TrackShipment(c *gin.Context) {
	trackingNumber := c.Param("trackingNumber")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	var shipmentID, orderID gocql.UUID
	err = session.Query(`SELECT shipment_id, order_id FROM shipments_by_tracking WHERE tracking_number = ?`,
		trackingNumber).Scan(&shipmentID, &orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Número de tracking no encontrado"})
		return
	}

	shipment, err := scanShipment(session, shipmentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Envío no encontrado"})
		return
	}

	owner, err := orderOwner(session, orderID)
	if err == nil && owner != c.GetString("user_id") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "No puedes rastrear este envío"})
		return
	}

	// Datos de destino desde la dirección guardada
	city, addressLine, recipient := "", "", ""
	if owner != "" {
		usersSession, err := database.GetUsersSession()
		if err == nil {
			ownerUUID, _ := gocql.ParseUUID(owner)
			usersSession.Query(`SELECT city, address_line1, full_name FROM addresses
				WHERE user_id = ? AND address_id = ?`,
				ownerUUID, shipment.AddressID).Scan(&city, &addressLine, &recipient)
		}
	}

	events := SimulateTrackingEvents(*shipment, city, addressLine)

	c.JSON(http.StatusOK, gin.H{
		"tracking_number": shipment.TrackingNumber,
		"carrier":         shipment.Carrier,
		"status":          shipment.Status,
		"estimated_delivery": gin.H{
			"start": shipment.EstimatedDeliveryStart,
			"end":   shipment.EstimatedDeliveryEnd,
		},
		"destination": gin.H{
			"address":   fmt.Sprintf("%s, %s", addressLine, city),
			"recipient": recipient,
		},
		"tracking_events": events,
	})
}
