package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/serafin-rian/tienda-virtual/internal/config"
	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/events"
	"github.com/serafin-rian/tienda-virtual/internal/routes"
	"github.com/serafin-rian/tienda-virtual/internal/services"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// Prepared statements para las consultas calientes
	database.InitPreparedStatements()

	// Pre-calentar el caché Redis
	warmupRedisCache()

	// Stripe y RabbitMQ son opcionales: sin ellos el checkout se simula
	services.InitStripe()
	events.InitPublisher()
	defer events.ClosePublisher()

	r := gin.Default()
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Println("🚀 Tienda virtual escuchando en el puerto", port)
	r.Run(":" + port)
}

// warmupRedisCache establece la conexión para evitar la latencia de la
// primera petición
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Caché Redis pre-calentado")
	}
}
