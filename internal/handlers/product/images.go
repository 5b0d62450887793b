package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/cache"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/services"
)

// 🟢 POST /api/products/:id/image (propietario o admin)
func UploadProductImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	product, ok := requireOwnership(c, id)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el fichero 'image'"})
		return
	}

	objectName, err := services.UploadProductImage(id, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	err = session.Query(`UPDATE products SET image_url = ?, updated_at = ? WHERE product_id = ?`,
		objectName, time.Now(), product.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar la imagen"})
		return
	}

	cache.InvalidateProductCache(id)
	invalidateCatalogCache()

	c.JSON(http.StatusOK, gin.H{"image_url": objectName})
}

// 🟢 GET /api/products/:id/image
// Devuelve una URL firmada temporal hacia MinIO
func GetProductImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	product, err := cache.GetProductFromCache(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}

	if product.ImageURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "El producto no tiene imagen"})
		return
	}

	url, err := services.GenerateSignedURL(context.Background(), product.ImageURL, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando la URL firmada"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": 900})
}
