package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/cache"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/services"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

const catalogCacheKey = "products:all"

func invalidateCatalogCache() {
	database.Redis.Del(context.Background(), catalogCacheKey)
}

// scanProducts recorre un iterador de productos
func scanProducts(iter *gocql.Iter) ([]models.Product, error) {
	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.WeightKg,
		&p.RequiresShipping, &p.ImageURL, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
	}
	return products, iter.Close()
}

// LoadAllProducts carga el catálogo completo desde ScyllaDB
func LoadAllProducts() ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`
		SELECT product_id, name, description, price, quantity, weight_kg, requires_shipping,
			image_url, owner_id, created_at, updated_at
		FROM products`).Iter()

	return scanProducts(iter)
}

// 🟢 GET /api/products
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	// Catálogo cacheado una hora
	if val, err := database.Redis.Get(ctx, catalogCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, err := LoadAllProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar el catálogo"})
		return
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, catalogCacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/:id
func GetProductByID(c *gin.Context) {
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

	c.JSON(http.StatusOK, product)
}

// 🟢 POST /api/products (vendedor o admin)
func CreateProduct(c *gin.Context) {
	var input struct {
		Name             string  `json:"name" binding:"required"`
		Description      string  `json:"description"`
		Price            float64 `json:"price" binding:"required,gt=0"`
		Quantity         int     `json:"quantity" binding:"min=0"`
		WeightKg         float64 `json:"weight_kg"`
		RequiresShipping *bool   `json:"requires_shipping"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: name y price (> 0) son obligatorios"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	ownerID, _ := uuid.Parse(c.GetString("user_id"))
	now := time.Now()
	productID, _ := gocql.RandomUUID()

	requiresShipping := true
	if input.RequiresShipping != nil {
		requiresShipping = *input.RequiresShipping
	}

	product := models.Product{
		ID:               productID,
		Name:             input.Name,
		Description:      input.Description,
		Price:            input.Price,
		Quantity:         input.Quantity,
		WeightKg:         input.WeightKg,
		RequiresShipping: requiresShipping,
		OwnerID:          gocql.UUID(ownerID),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = session.Query(`
		INSERT INTO products (product_id, name, description, price, quantity, weight_kg,
			requires_shipping, image_url, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.Description, product.Price, product.Quantity,
		product.WeightKg, product.RequiresShipping, product.ImageURL, product.OwnerID,
		product.CreatedAt, product.UpdatedAt,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el producto"})
		return
	}

	// Tabla de búsqueda por propietario
	session.Query(`INSERT INTO products_by_owner (owner_id, product_id, name) VALUES (?, ?, ?)`,
		product.OwnerID, product.ID, product.Name).Exec()

	// 🔄 Indexar en Elasticsearch
	go services.IndexProduct(product)
	invalidateCatalogCache()

	utils.LogAction("product_created", product.ID.String(), product.Name,
		c.GetString("user_id"), c.ClientIP(), "")

	c.JSON(http.StatusCreated, product)
}

// requireOwnership carga el producto y comprueba que el usuario es el
// propietario o admin
func requireOwnership(c *gin.Context, productID string) (*models.Product, bool) {
	product, err := cache.GetProductFromCache(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return nil, false
	}

	if product.OwnerID.String() != c.GetString("user_id") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Este producto no es tuyo"})
		return nil, false
	}

	return product, true
}

// 🟢 PUT /api/products/:id (propietario o admin)
func UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	product, ok := requireOwnership(c, id)
	if !ok {
		return
	}

	var input struct {
		Name             *string  `json:"name"`
		Description      *string  `json:"description"`
		Price            *float64 `json:"price"`
		Quantity         *int     `json:"quantity"`
		WeightKg         *float64 `json:"weight_kg"`
		RequiresShipping *bool    `json:"requires_shipping"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El precio debe ser mayor que 0"})
			return
		}
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La cantidad no puede ser negativa"})
			return
		}
		product.Quantity = *input.Quantity
	}
	if input.WeightKg != nil {
		product.WeightKg = *input.WeightKg
	}
	if input.RequiresShipping != nil {
		product.RequiresShipping = *input.RequiresShipping
	}
	product.UpdatedAt = time.Now()

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	err = session.Query(`
		UPDATE products SET name = ?, description = ?, price = ?, quantity = ?, weight_kg = ?,
			requires_shipping = ?, updated_at = ?
		WHERE product_id = ?`,
		product.Name, product.Description, product.Price, product.Quantity, product.WeightKg,
		product.RequiresShipping, product.UpdatedAt, product.ID,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el producto"})
		return
	}

	session.Query(`UPDATE products_by_owner SET name = ? WHERE owner_id = ? AND product_id = ?`,
		product.Name, product.OwnerID, product.ID).Exec()

	cache.InvalidateProductCache(id)
	invalidateCatalogCache()
	go services.IndexProduct(*product)

	c.JSON(http.StatusOK, product)
}

// 🟢 DELETE /api/products/:id (propietario o admin)
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	product, ok := requireOwnership(c, id)
	if !ok {
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, product.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al borrar el producto"})
		return
	}
	session.Query(`DELETE FROM products_by_owner WHERE owner_id = ? AND product_id = ?`,
		product.OwnerID, product.ID).Exec()

	cache.InvalidateProductCache(id)
	invalidateCatalogCache()
	go services.DeleteProductIndex(id)

	utils.LogAction("product_deleted", id, product.Name, c.GetString("user_id"), c.ClientIP(), "")

	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
}

// 🔍 GET /api/products/search?q=
// Busca en Elasticsearch y cae a ScyllaDB si está vacío o no disponible
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el parámetro 'q'"})
		return
	}

	// 1️⃣ Intento en Elasticsearch
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// 2️⃣ Si Elastic está vacío o caído, filtro en memoria sobre Scylla
	products, err := LoadAllProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error en la búsqueda"})
		return
	}

	needle := strings.ToLower(query)
	matches := []models.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matches = append(matches, p)
		}
	}

	if len(matches) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Ningún producto encontrado"})
		return
	}

	c.JSON(http.StatusOK, matches)
}
