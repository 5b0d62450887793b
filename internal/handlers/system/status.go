package system

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/serafin-rian/tienda-virtual/internal/database"
	"github.com/serafin-rian/tienda-virtual/internal/events"
	"github.com/serafin-rian/tienda-virtual/internal/services"
	"github.com/serafin-rian/tienda-virtual/internal/utils"
)

const Version = "1.0.0"

// 🟢 GET /api/health
// 200 si Scylla y Redis responden, 503 si algo falla
func HealthCheck(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if session, err := database.GetUsersSession(); err == nil {
		if err := session.Query(`SELECT now() FROM system.local`).Exec(); err == nil {
			checks["scylla"] = "ok"
		} else {
			checks["scylla"] = "error"
			healthy = false
		}
	} else {
		checks["scylla"] = "down"
		healthy = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if database.Redis != nil && database.Redis.Ping(ctx).Err() == nil {
		checks["redis"] = "ok"
	} else {
		checks["redis"] = "down"
		healthy = false
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
		"time":   time.Now(),
	})
}

// 🟢 GET /api/status
// Versión, conectividad por almacén, tamaños y módulos opcionales
func GetStatus(c *gin.Context) {
	stores := gin.H{}
	counts := gin.H{}

	if session, err := database.GetUsersSession(); err == nil {
		stores["scylla_users"] = "connected"
		var n int64
		if err := session.Query(`SELECT count(*) FROM users`).Scan(&n); err == nil {
			counts["users"] = n
		}
	} else {
		stores["scylla_users"] = "down"
	}

	if session, err := database.GetProductsSession(); err == nil {
		stores["scylla_products"] = "connected"
		var n int64
		if err := session.Query(`SELECT count(*) FROM products`).Scan(&n); err == nil {
			counts["products"] = n
		}
	} else {
		stores["scylla_products"] = "down"
	}

	if session, err := database.GetOrdersSession(); err == nil {
		stores["scylla_orders"] = "connected"
		var n int64
		if err := session.Query(`SELECT count(*) FROM orders`).Scan(&n); err == nil {
			counts["orders"] = n
		}
	} else {
		stores["scylla_orders"] = "down"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if database.Redis != nil && database.Redis.Ping(ctx).Err() == nil {
		stores["redis"] = "connected"
	} else {
		stores["redis"] = "down"
	}
	if database.Elastic != nil {
		stores["elasticsearch"] = "configured"
	} else {
		stores["elasticsearch"] = "absent"
	}
	if database.MinIO != nil {
		stores["minio"] = "configured"
	} else {
		stores["minio"] = "absent"
	}

	c.JSON(http.StatusOK, gin.H{
		"version": Version,
		"stores":  stores,
		"counts":  counts,
		"modules": gin.H{
			"stripe":   services.StripeEnabled(),
			"email":    utils.EmailEnabled(),
			"rabbitmq": os.Getenv("RABBITMQ_URL") != "",
			"events":   events.PublisherReady(),
		},
	})
}
