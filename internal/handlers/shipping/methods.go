package shipping

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/cache"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// loadMethods carga todos los métodos de envío
func loadMethods(session *gocql.Session) ([]models.ShippingMethod, error) {
	iter := session.Query(`
		SELECT method_id, name, code, carrier, base_cost, cost_per_kg, min_weight_kg,
			max_weight_kg, estimated_days_min, estimated_days_max, requires_signature,
			has_tracking, is_active
		FROM shipping_methods`).Iter()

	methods := []models.ShippingMethod{}
	var m models.ShippingMethod
	for iter.Scan(&m.ID, &m.Name, &m.Code, &m.Carrier, &m.BaseCost, &m.CostPerKg,
		&m.MinWeightKg, &m.MaxWeightKg, &m.EstimatedDaysMin, &m.EstimatedDaysMax,
		&m.RequiresSignature, &m.HasTracking, &m.IsActive) {
		methods = append(methods, m)
	}

	return methods, iter.Close()
}

// 🟢 GET /api/shipping/methods
// Los clientes ven solo los activos; con ?all=true (admin) se ven todos
func GetShippingMethods(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	methods, err := loadMethods(session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar métodos de envío"})
		return
	}

	includeInactive := c.Query("all") == "true" && c.GetString("role") == models.RoleAdmin

	filtered := []models.ShippingMethod{}
	for _, m := range methods {
		if m.IsActive || includeInactive {
			filtered = append(filtered, m)
		}
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].BaseCost < filtered[j].BaseCost })

	c.JSON(http.StatusOK, filtered)
}

// 🟢 POST /api/shipping/methods (admin)
func CreateShippingMethod(c *gin.Context) {
	var input struct {
		Name              string  `json:"name" binding:"required"`
		Code              string  `json:"code" binding:"required"`
		Carrier           string  `json:"carrier" binding:"required"`
		BaseCost          float64 `json:"base_cost" binding:"min=0"`
		CostPerKg         float64 `json:"cost_per_kg"`
		MinWeightKg       float64 `json:"min_weight_kg"`
		MaxWeightKg       float64 `json:"max_weight_kg"`
		EstimatedDaysMin  int     `json:"estimated_days_min"`
		EstimatedDaysMax  int     `json:"estimated_days_max"`
		RequiresSignature bool    `json:"requires_signature"`
		HasTracking       *bool   `json:"has_tracking"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: name, code y carrier son obligatorios"})
		return
	}

	if !models.IsValidCarrier(input.Carrier) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transportista no soportado"})
		return
	}

	hasTracking := true
	if input.HasTracking != nil {
		hasTracking = *input.HasTracking
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	methodID, _ := gocql.RandomUUID()
	method := models.ShippingMethod{
		ID:                methodID,
		Name:              input.Name,
		Code:              input.Code,
		Carrier:           input.Carrier,
		BaseCost:          input.BaseCost,
		CostPerKg:         input.CostPerKg,
		MinWeightKg:       input.MinWeightKg,
		MaxWeightKg:       input.MaxWeightKg,
		EstimatedDaysMin:  input.EstimatedDaysMin,
		EstimatedDaysMax:  input.EstimatedDaysMax,
		RequiresSignature: input.RequiresSignature,
		HasTracking:       hasTracking,
		IsActive:          true,
	}

	err = session.Query(`
		INSERT INTO shipping_methods (method_id, name, code, carrier, base_cost, cost_per_kg,
			min_weight_kg, max_weight_kg, estimated_days_min, estimated_days_max,
			requires_signature, has_tracking, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		method.ID, method.Name, method.Code, method.Carrier, method.BaseCost, method.CostPerKg,
		method.MinWeightKg, method.MaxWeightKg, method.EstimatedDaysMin, method.EstimatedDaysMax,
		method.RequiresSignature, method.HasTracking, method.IsActive,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el método de envío"})
		return
	}

	utils.LogAction("shipping_method_created", method.ID.String(), method.Name,
		c.GetString("user_id"), c.ClientIP(), "")

	c.JSON(http.StatusCreated, method)
}

// 🟢 PUT /api/shipping/methods/:id (admin)
func UpdateShippingMethod(c *gin.Context) {
	methodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de método inválido"})
		return
	}

	var input struct {
		Name             *string  `json:"name"`
		BaseCost         *float64 `json:"base_cost"`
		CostPerKg        *float64 `json:"cost_per_kg"`
		MinWeightKg      *float64 `json:"min_weight_kg"`
		MaxWeightKg      *float64 `json:"max_weight_kg"`
		EstimatedDaysMin *int     `json:"estimated_days_min"`
		EstimatedDaysMax *int     `json:"estimated_days_max"`
		IsActive         *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	var method models.ShippingMethod
	err = session.Query(`
		SELECT method_id, name, code, carrier, base_cost, cost_per_kg, min_weight_kg,
			max_weight_kg, estimated_days_min, estimated_days_max, requires_signature,
			has_tracking, is_active
		FROM shipping_methods WHERE method_id = ?`, gocql.UUID(methodID)).Scan(
		&method.ID, &method.Name, &method.Code, &method.Carrier, &method.BaseCost,
		&method.CostPerKg, &method.MinWeightKg, &method.MaxWeightKg, &method.EstimatedDaysMin,
		&method.EstimatedDaysMax, &method.RequiresSignature, &method.HasTracking, &method.IsActive)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Método de envío no encontrado"})
		return
	}

	if input.Name != nil {
		method.Name = *input.Name
	}
	if input.BaseCost != nil {
		method.BaseCost = *input.BaseCost
	}
	if input.CostPerKg != nil {
		method.CostPerKg = *input.CostPerKg
	}
	if input.MinWeightKg != nil {
		method.MinWeightKg = *input.MinWeightKg
	}
	if input.MaxWeightKg != nil {
		method.MaxWeightKg = *input.MaxWeightKg
	}
	if input.EstimatedDaysMin != nil {
		method.EstimatedDaysMin = *input.EstimatedDaysMin
	}
	if input.EstimatedDaysMax != nil {
		method.EstimatedDaysMax = *input.EstimatedDaysMax
	}
	if input.IsActive != nil {
		method.IsActive = *input.IsActive
	}

	err = session.Query(`
		UPDATE shipping_methods SET name = ?, base_cost = ?, cost_per_kg = ?, min_weight_kg = ?,
			max_weight_kg = ?, estimated_days_min = ?, estimated_days_max = ?, is_active = ?
		WHERE method_id = ?`,
		method.Name, method.BaseCost, method.CostPerKg, method.MinWeightKg, method.MaxWeightKg,
		method.EstimatedDaysMin, method.EstimatedDaysMax, method.IsActive, method.ID,
	).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el método"})
		return
	}

	c.JSON(http.StatusOK, method)
}

// MethodQuote es el presupuesto de envío de un método concreto
type MethodQuote struct {
	MethodID          gocql.UUID `json:"method_id"`
	Name              string     `json:"name"`
	Code              string     `json:"code"`
	Carrier           string     `json:"carrier"`
	Cost              float64    `json:"cost"`
	EstimatedDaysMin  int        `json:"estimated_days_min"`
	EstimatedDaysMax  int        `json:"estimated_days_max"`
	RequiresSignature bool       `json:"requires_signature"`
	HasTracking       bool       `json:"has_tracking"`
}

// QuoteMethods calcula el coste de cada método activo que admita el
// peso, ordenado de más barato a más caro
func QuoteMethods(methods []models.ShippingMethod, totalWeight float64) []MethodQuote {
	quotes := []MethodQuote{}
	for _, m := range methods {
		if !m.IsActive {
			continue
		}
		if totalWeight > 0 && !m.AcceptsWeight(totalWeight) {
			continue
		}
		quotes = append(quotes, MethodQuote{
			MethodID:          m.ID,
			Name:              m.Name,
			Code:              m.Code,
			Carrier:           m.Carrier,
			Cost:              round2(m.CostFor(totalWeight)),
			EstimatedDaysMin:  m.EstimatedDaysMin,
			EstimatedDaysMax:  m.EstimatedDaysMax,
			RequiresSignature: m.RequiresSignature,
			HasTracking:       m.HasTracking,
		})
	}

	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Cost < quotes[j].Cost })
	return quotes
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// 🟢 POST /api/shipping/calculate
// Calcula el coste de envío de una lista de productos
func CalculateShippingCost(c *gin.Context) {
	var input struct {
		Items []struct {
			ProductID string `json:"product_id" binding:"required"`
			Quantity  int    `json:"quantity"`
		} `json:"items" binding:"required"`
		DestinationCountry string `json:"destination_country"`
		MethodCode         string `json:"shipping_method_code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lista de items obligatoria"})
		return
	}
	if input.DestinationCountry == "" {
		input.DestinationCountry = "ES"
	}

	// Peso total del paquete
	totalWeight := 0.0
	requiresShipping := true

	for _, item := range input.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}

		product, err := cache.GetProductFromCache(item.ProductID)
		if err != nil {
			continue
		}

		if product.WeightKg > 0 {
			totalWeight += product.WeightKg * float64(qty)
		} else {
			totalWeight += 0.5 * float64(qty)
		}

		if !product.RequiresShipping {
			requiresShipping = false
		}
	}

	if !requiresShipping {
		c.JSON(http.StatusOK, gin.H{
			"requires_shipping": false,
			"shipping_cost":     0.0,
			"available_methods": []MethodQuote{},
			"message":           "Los productos no requieren envío físico",
		})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	methods, err := loadMethods(session)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar los métodos"})
		return
	}

	quotes := QuoteMethods(methods, totalWeight)

	// Método recomendado: el indicado por código, o el más barato
	var recommended *MethodQuote
	if input.MethodCode != "" {
		for i := range quotes {
			if quotes[i].Code == input.MethodCode {
				recommended = &quotes[i]
				break
			}
		}
	} else if len(quotes) > 0 {
		recommended = &quotes[0]
	}

	c.JSON(http.StatusOK, gin.H{
		"requires_shipping":   true,
		"total_weight_kg":     round2(totalWeight),
		"available_methods":   quotes,
		"recommended_method":  recommended,
		"destination_country": input.DestinationCountry,
	})
}
