package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/serafin-rian/tienda-virtual/internal/cache"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/models"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

// 🟢 POST /api/users
// No hay registro con login: se crea el usuario y su ID se usa
// directamente en la cabecera X-User-ID
func CreateUser(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: username y password (mínimo 6 caracteres) son obligatorios"})
		return
	}

	if input.Role == "" {
		input.Role = models.RoleCustomer
	}
	if !models.IsValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		return
	}

	if _, err := database.GetUsersSession(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	// Comprobar que el username no está cogido
	var existing gocql.UUID
	err := database.GetPreparedGetUserByUsername().Bind(input.Username).Scan(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "El nombre de usuario ya existe"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la contraseña"})
		return
	}

	userID, _ := gocql.RandomUUID()
	now := time.Now()

	if err := database.GetPreparedInsertUser().Bind(
		userID, input.Username, hashed, input.Role, false, now).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el usuario"})
		return
	}

	// Tabla de búsqueda por username
	if err := database.GetPreparedInsertUserByName().Bind(
		input.Username, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al indexar el usuario"})
		return
	}

	utils.LogAction("user_created", userID.String(), input.Username, userID.String(), c.ClientIP(), "")

	c.JSON(http.StatusCreated, models.User{
		ID:        userID,
		Username:  input.Username,
		Role:      input.Role,
		CreatedAt: now,
	})
}

// 🟢 GET /api/users/me
func GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Cabecera X-User-ID requerida"})
		return
	}

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// 🟢 GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	user, err := cache.GetUserFromCache(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// loadAllUsers hace un full scan de la tabla users (solo rutas admin)
func loadAllUsers() ([]models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT user_id, username, role, is_superuser, created_at FROM users`).Iter()

	users := []models.User{}
	var u models.User
	for iter.Scan(&u.ID, &u.Username, &u.Role, &u.IsSuperuser, &u.CreatedAt) {
		users = append(users, u)
	}
	return users, iter.Close()
}

// 🟢 GET /api/users (admin)
func ListUsers(c *gin.Context) {
	users, err := loadAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar usuarios"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// 🟢 GET /api/users/search?username=xxx&role=vendor (admin)
func SearchUsers(c *gin.Context) {
	username := strings.ToLower(c.Query("username"))
	role := c.Query("role")
	if role != "" && !models.IsValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		return
	}

	users, err := loadAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al buscar usuarios"})
		return
	}

	results := []models.User{}
	for _, u := range users {
		if username != "" && !strings.Contains(strings.ToLower(u.Username), username) {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		results = append(results, u)
	}

	c.JSON(http.StatusOK, gin.H{"count": len(results), "users": results})
}

// 🟢 PUT /api/users/:id
// El propio usuario (o un admin) puede cambiar username y contraseña
func UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}
	if id != c.GetString("user_id") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "No puedes modificar este usuario"})
		return
	}

	var input struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		CurrentPassword string `json:"current_password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || (input.Username == "" && input.Password == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nada que actualizar"})
		return
	}
	if input.Password != "" && len(input.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña debe tener al menos 6 caracteres"})
		return
	}

	user, err := cache.GetUserFromCache(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	// Cambiar la contraseña exige la actual (salvo para un admin)
	if input.Password != "" && c.GetString("role") != models.RoleAdmin {
		if input.CurrentPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña actual es obligatoria"})
			return
		}
		var storedHash string
		if err := session.Query(`SELECT hashed_password FROM users WHERE user_id = ?`,
			user.ID).Scan(&storedHash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al verificar la contraseña"})
			return
		}
		ok, err := utils.VerifyPassword(input.CurrentPassword, storedHash)
		if err != nil || !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Contraseña actual incorrecta"})
			return
		}
	}

	if input.Username != "" && input.Username != user.Username {
		var existing gocql.UUID
		if err := database.GetPreparedGetUserByUsername().Bind(input.Username).Scan(&existing); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "El nombre de usuario ya existe"})
			return
		}

		if err := session.Query(`UPDATE users SET username = ? WHERE user_id = ?`,
			input.Username, user.ID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el usuario"})
			return
		}
		session.Query(`DELETE FROM users_by_username WHERE username = ?`, user.Username).Exec()
		session.Query(`INSERT INTO users_by_username (username, user_id) VALUES (?, ?)`,
			input.Username, user.ID).Exec()
		user.Username = input.Username
	}

	if input.Password != "" {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar la contraseña"})
			return
		}
		if err := session.Query(`UPDATE users SET hashed_password = ? WHERE user_id = ?`,
			hashed, user.ID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar la contraseña"})
			return
		}
	}

	cache.InvalidateUserCache(id)
	c.JSON(http.StatusOK, user)
}

// 🟢 PATCH /api/users/:id/role (admin)
func ChangeUserRole(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido"})
		return
	}

	user, err := cache.GetUserFromCache(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	if err := session.Query(`UPDATE users SET role = ? WHERE user_id = ?`,
		input.Role, user.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cambiar el rol"})
		return
	}

	cache.InvalidateUserCache(id)
	utils.LogAction("user_role_changed", id, user.Username,
		c.GetString("user_id"), c.ClientIP(), input.Role)

	user.Role = input.Role
	c.JSON(http.StatusOK, user)
}

// 🟢 DELETE /api/users/:id (admin)
func DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	user, err := cache.GetUserFromCache(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	if err := session.Query(`DELETE FROM users WHERE user_id = ?`, user.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el usuario"})
		return
	}
	session.Query(`DELETE FROM users_by_username WHERE username = ?`, user.Username).Exec()

	cache.InvalidateUserCache(id)
	utils.LogAction("user_deleted", id, user.Username,
		c.GetString("user_id"), c.ClientIP(), "")

	c.JSON(http.StatusOK, gin.H{"message": "Usuario eliminado", "user_id": id})
}

// 🟢 GET /api/users/stats (admin)
func GetUserStats(c *gin.Context) {
	users, err := loadAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al cargar usuarios"})
		return
	}

	byRole := map[string]int{}
	var latest *models.User
	for i, u := range users {
		byRole[u.Role]++
		if latest == nil || u.CreatedAt.After(latest.CreatedAt) {
			latest = &users[i]
		}
	}

	// Dueños distintos en el catálogo
	owners := map[gocql.UUID]bool{}
	if productsSession, err := database.GetProductsSession(); err == nil {
		iter := productsSession.Query(`SELECT owner_id FROM products`).Iter()
		var ownerID gocql.UUID
		for iter.Scan(&ownerID) {
			owners[ownerID] = true
		}
		iter.Close()
	}

	stats := gin.H{
		"total_users":         len(users),
		"by_role":             byRole,
		"users_with_products": len(owners),
	}
	if latest != nil {
		stats["latest_user"] = gin.H{
			"user_id":    latest.ID,
			"username":   latest.Username,
			"created_at": latest.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, stats)
}

// 🟢 GET /api/users/:id/details
// El usuario enriquecido con sus agregados de catálogo y pedidos
func GetUserDetails(c *gin.Context) {
	id := c.Param("id")
	userUUID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	user, err := cache.GetUserFromCache(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	productCount := 0
	if productsSession, err := database.GetProductsSession(); err == nil {
		iter := productsSession.Query(`SELECT product_id FROM products_by_owner WHERE owner_id = ?`,
			gocql.UUID(userUUID)).Iter()
		var productID gocql.UUID
		for iter.Scan(&productID) {
			productCount++
		}
		iter.Close()
	}

	orderCount := 0
	totalSpent := 0.0
	var lastOrderAt *time.Time
	if ordersSession, err := database.GetOrdersSession(); err == nil {
		iter := ordersSession.Query(`SELECT created_at, total_amount, status
			FROM orders_by_user WHERE user_id = ?`, gocql.UUID(userUUID)).Iter()
		var createdAt time.Time
		var amount float64
		var status string
		for iter.Scan(&createdAt, &amount, &status) {
			orderCount++
			if status != models.OrderStatusCancelled {
				totalSpent += amount
			}
			if lastOrderAt == nil || createdAt.After(*lastOrderAt) {
				t := createdAt
				lastOrderAt = &t
			}
		}
		iter.Close()
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"stats": gin.H{
			"product_count": productCount,
			"order_count":   orderCount,
			"total_spent":   totalSpent,
			"last_order_at": lastOrderAt,
		},
	})
}

// 🟢 GET /api/users/:id/products
func GetUserProducts(c *gin.Context) {
	id := c.Param("id")
	ownerUUID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	if _, err := cache.GetUserFromCache(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Base de datos no disponible"})
		return
	}

	iter := session.Query(`SELECT product_id FROM products_by_owner WHERE owner_id = ?`,
		gocql.UUID(ownerUUID)).Iter()

	ids := []gocql.UUID{}
	var productID gocql.UUID
	for iter.Scan(&productID) {
		ids = append(ids, productID)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al listar productos"})
		return
	}

	products := []models.Product{}
	for _, pid := range ids {
		if p, err := cache.GetProductFromCache(pid.String()); err == nil {
			products = append(products, *p)
		}
	}

	c.JSON(http.StatusOK, gin.H{"user_id": id, "count": len(products), "products": products})
}
