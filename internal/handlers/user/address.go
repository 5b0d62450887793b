package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
)

type addressInput struct {
	FullName      string `json:"full_name" binding:"required"`
	PhoneNumber   string `json:"phone_number"`
	AddressLine1  string `json:"address_line1" binding:"required"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city" binding:"required"`
	StateProvince string `json:"state_province"`
	PostalCode    string `json:"postal_code" binding:"required"`
	Country       string `json:"country" binding:"required"`
	IsDefault     bool   `json:"is_default"`
	Instructions  string `json:"instructions"`
}

// listAddresses carga todas las direcciones de un usuario
func listAddresses(session *gocql.Session, userID gocql.UUID) ([]models.ShippingAddress, error) {
	iter := session.Query(`
		SELECT address_id, user_id, full_name, phone_number, address_line1, address_line2,
			city, state_province, postal_code, country, is_default, instructions,
			created_at, updated_at
		FROM addresses WHERE user_id = ?`, userID).Iter()

	addresses := []models.ShippingAddress{}
	var a models.ShippingAddress
	for iter.Scan(&a.ID, &a.UserID, &a.FullName, &a.PhoneNumber, &a.AddressLine1, &a.AddressLine2,
		&a.City, &a.StateProvince, &a.PostalCode, &a.Country, &a.IsDefault, &a.Instructions,
		&a.CreatedAt, &a.UpdatedAt) {
		addresses = append(addresses, a)
	}

	return addresses, iter.Close()
}

// clearDefaultAddress quita el flag is_default de las demás direcciones
func clearDefaultAddress(session *gocql.Session, userID gocql.UUID, except gocql.UUID) {
	addresses, err := listAddresses(session, userID)
	if err != nil {
		return
	}
	for _, a := range addresses {
		if a.IsDefault && a.ID != except {
			session.Query(`UPDATE addresses SET is_default = false, updated_at = ?
				WHERE user_id = ? AND address_id = ?`, time.Now(), userID, a.ID).Exec()
		}
	}
}

// 🟢 GET /api/addresses
func GetAddresses(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	uid, _ := uuid.Parse(userID)
	addresses, err := listAddresses(session, gocql.UUID(uid))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar direcciones"})
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// 🟢 POST /api/addresses
func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de dirección inválidos"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	uid, _ := uuid.Parse(userID)
	userUUID := gocql.UUID(uid)

	// La primera dirección es la predeterminada automáticamente
	existing, _ := listAddresses(session, userUUID)
	if len(existing) == 0 {
		input.IsDefault = true
	}

	now := time.Now()
	addressID, _ := gocql.RandomUUID()

	address := models.ShippingAddress{
		ID:            addressID,
		UserID:        userUUID,
		FullName:      input.FullName,
		PhoneNumber:   input.PhoneNumber,
		AddressLine1:  input.AddressLine1,
		AddressLine2:  input.AddressLine2,
		City:          input.City,
		StateProvince: input.StateProvince,
		PostalCode:    input.PostalCode,
		Country:       input.Country,
		IsDefault:     input.IsDefault,
		Instructions:  input.Instructions,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = session.Query(`
		INSERT INTO addresses (user_id, address_id, full_name, phone_number, address_line1,
			address_line2, city, state_province, postal_code, country, is_default,
			instructions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		address.UserID, address.ID, address.FullName, address.PhoneNumber, address.AddressLine1,
		address.AddressLine2, address.City, address.StateProvince, address.PostalCode,
		address.Country, address.IsDefault, address.Instructions, address.CreatedAt, address.UpdatedAt,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar la dirección"})
		return
	}

	// Solo puede haber una dirección predeterminada
	if address.IsDefault {
		clearDefaultAddress(session, userUUID, address.ID)
	}

	c.JSON(http.StatusCreated, address)
}

// 🟢 PUT /api/addresses/:id
func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de dirección inválido"})
		return
	}

	var input addressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de dirección inválidos"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	uid, _ := uuid.Parse(userID)
	userUUID := gocql.UUID(uid)
	addrUUID := gocql.UUID(addressID)

	// Comprobar que la dirección existe y es del usuario
	var exists string
	err = session.Query(`SELECT full_name FROM addresses WHERE user_id = ? AND address_id = ?`,
		userUUID, addrUUID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dirección no encontrada"})
		return
	}

	now := time.Now()
	err = session.Query(`
		UPDATE addresses SET full_name = ?, phone_number = ?, address_line1 = ?,
			address_line2 = ?, city = ?, state_province = ?, postal_code = ?, country = ?,
			is_default = ?, instructions = ?, updated_at = ?
		WHERE user_id = ? AND address_id = ?`,
		input.FullName, input.PhoneNumber, input.AddressLine1, input.AddressLine2, input.City,
		input.StateProvince, input.PostalCode, input.Country, input.IsDefault, input.Instructions,
		now, userUUID, addrUUID,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar la dirección"})
		return
	}

	if input.IsDefault {
		clearDefaultAddress(session, userUUID, addrUUID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dirección actualizada"})
}

// 🟢 POST /api/addresses/:id/default
func SetDefaultAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de dirección inválido"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	uid, _ := uuid.Parse(userID)
	userUUID := gocql.UUID(uid)
	addrUUID := gocql.UUID(addressID)

	var exists string
	err = session.Query(`SELECT full_name FROM addresses WHERE user_id = ? AND address_id = ?`,
		userUUID, addrUUID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dirección no encontrada"})
		return
	}

	err = session.Query(`UPDATE addresses SET is_default = true, updated_at = ?
		WHERE user_id = ? AND address_id = ?`, time.Now(), userUUID, addrUUID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar la dirección"})
		return
	}

	clearDefaultAddress(session, userUUID, addrUUID)

	c.JSON(http.StatusOK, gin.H{"message": "Dirección predeterminada actualizada"})
}

// 🟢 DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No identificado"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de dirección inválido"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	// Una dirección con envíos asociados no se puede borrar
	if ordersSession, err := database.GetOrdersSession(); err == nil {
		iter := ordersSession.Query(`SELECT address_id FROM shipments`).Iter()
		var shipmentAddress gocql.UUID
		referenced := false
		for iter.Scan(&shipmentAddress) {
			if shipmentAddress == gocql.UUID(addressID) {
				referenced = true
			}
		}
		iter.Close()
		if referenced {
			c.JSON(http.StatusConflict, gin.H{"error": "La dirección tiene envíos asociados"})
			return
		}
	}

	uid, _ := uuid.Parse(userID)
	err = session.Query(`DELETE FROM addresses WHERE user_id = ? AND address_id = ?`,
		gocql.UUID(uid), gocql.UUID(addressID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al borrar la dirección"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dirección eliminada"})
}
