package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/serafin-rian/tienda-virtual/internal/cache"
)

// ResolveIdentity resuelve el usuario actual desde la cabecera X-User-ID
// (o el query param user_id como alternativa). No hay autenticación: el
// identificador se acepta tal cual, es una demo académica.
func ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = c.Query("user_id")
		}

		if userID == "" {
			c.Next()
			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID no es un UUID válido"})
			c.Abort()
			return
		}

		user, err := cache.GetUserFromCache(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuario no encontrado"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("username", user.Username)
		c.Set("role", user.Role)
		c.Set("is_superuser", user.IsSuperuser)

		c.Next()
	}
}

// RequireUser exige que la petición lleve un usuario resuelto
func RequireUser(c *gin.Context) {
	if c.GetString("user_id") == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Cabecera X-User-ID requerida"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireAdmin comprueba que el usuario tiene el rol "admin"
func RequireAdmin(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Acceso reservado a administradores"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireVendor comprueba que el usuario es vendedor o admin
func RequireVendor(c *gin.Context) {
	role, exists := c.Get("role")
	if !exists || (role != "vendor" && role != "admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Acceso reservado a vendedores"})
		c.Abort()
		return
	}
	c.Next()
}
