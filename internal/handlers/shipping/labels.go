package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/services"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// 🟢 POST /api/shipping/shipments/:id/labels (admin)
// Genera la etiqueta del envío: payload JSON más un código QR con el
// tracking subido a MinIO
func GenerateShippingLabel(c *gin.Context) {
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

	labelID := utils.GenerateLabelID()
	now := time.Now()

	// Destinatario desde la dirección del pedido
	to := gin.H{}
	if owner, err := orderOwner(session, shipment.OrderID); err == nil {
		if usersSession, err := database.GetUsersSession(); err == nil {
			ownerUUID, _ := gocql.ParseUUID(owner)
			var fullName, line1, city, postalCode, country string
			if err := usersSession.Query(`
				SELECT full_name, address_line1, city, postal_code, country
				FROM addresses WHERE user_id = ? AND address_id = ?`,
				ownerUUID, shipment.AddressID).Scan(
				&fullName, &line1, &city, &postalCode, &country); err == nil {
				to = gin.H{
					"name":        fullName,
					"address":     line1,
					"city":        city,
					"postal_code": postalCode,
					"country":     country,
				}
			}
		}
	}

	// Datos que van impresos en la etiqueta
	payload := map[string]interface{}{
		"label_id":        labelID,
		"tracking_number": shipment.TrackingNumber,
		"carrier":         shipment.Carrier,
		"weight_kg":       shipment.WeightKg,
		"packages":        shipment.PackageCount,
		"barcode":         shipment.TrackingNumber,
		"from": gin.H{
			"name":    "Tienda Virtual",
			"address": "Almacén central",
		},
		"to":           to,
		"generated_at": now,
	}
	payloadJSON, _ := json.Marshal(payload)

	// QR con el número de seguimiento
	qrPNG, err := qrcode.Encode(shipment.TrackingNumber, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando el código QR"})
		return
	}

	qrObject := fmt.Sprintf("labels/%s.png", labelID)
	if err := services.UploadBytes(qrObject, qrPNG, "image/png"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error subiendo la etiqueta a MinIO"})
		return
	}

	label := models.ShippingLabel{
		ID:         labelID,
		ShipmentID: shipment.ID,
		LabelURL:   fmt.Sprintf("/api/shipping/labels/%s/download", labelID),
		QRObject:   qrObject,
		Format:     "qr+json",
		Payload:    string(payloadJSON),
		CreatedAt:  now,
		ExpiresAt:  now.AddDate(0, 0, 30),
	}

	err = session.Query(`
		INSERT INTO shipping_labels (label_id, shipment_id, label_url, qr_object, format,
			payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		label.ID, label.ShipmentID, label.LabelURL, label.QRObject, label.Format,
		label.Payload, label.CreatedAt, label.ExpiresAt,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar la etiqueta"})
		return
	}

	utils.LogAction("label_generated", label.ID, shipment.TrackingNumber,
		c.GetString("user_id"), c.ClientIP(), "")

	c.JSON(http.StatusCreated, gin.H{
		"label":        label,
		"download_url": label.LabelURL,
	})
}

// 🟢 GET /api/shipping/labels/:labelId/download
// Devuelve el payload de la etiqueta y una URL firmada del QR
func DownloadShippingLabel(c *gin.Context) {
	labelID := c.Param("labelId")

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	var label models.ShippingLabel
	err = session.Query(`
		SELECT label_id, shipment_id, label_url, qr_object, format, payload, created_at, expires_at
		FROM shipping_labels WHERE label_id = ?`, labelID).Scan(
		&label.ID, &label.ShipmentID, &label.LabelURL, &label.QRObject, &label.Format,
		&label.Payload, &label.CreatedAt, &label.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Etiqueta no encontrada"})
		return
	}

	if time.Now().After(label.ExpiresAt) {
		c.JSON(http.StatusGone, gin.H{"error": "La etiqueta ha caducado"})
		return
	}

	var payload map[string]interface{}
	json.Unmarshal([]byte(label.Payload), &payload)

	qrURL := ""
	if label.QRObject != "" {
		if url, err := services.GenerateSignedURL(context.Background(), label.QRObject, 15*time.Minute); err == nil {
			qrURL = url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"label_id":   label.ID,
		"format":     label.Format,
		"payload":    payload,
		"qr_url":     qrURL,
		"expires_at": label.ExpiresAt,
	})
}
