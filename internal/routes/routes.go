package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	adminh "github.com/serafin-rian/tienda-virtual/internal/handlers/admin"
	algoh "github.com/serafin-rian/tienda-virtual/internal/handlers/algorithms"
	producth "github.com/serafin-rian/tienda-virtual/internal/handlers/product"
	shippingh "github.com/serafin-rian/tienda-virtual/internal/handlers/shipping"
	systemh "github.com/serafin-rian/tienda-virtual/internal/handlers/system"
	userh "github.com/serafin-rian/tienda-virtual/internal/handlers/user"
	vendorh "github.com/serafin-rian/tienda-virtual/internal/handlers/vendor"
	"github.com/serafin-rian/tienda-virtual/internal/middleware"
)

// RegisterRoutes monta toda la API bajo /api
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Salud y estado, fuera del rate limit y de la resolución de identidad
	r.GET("/health", systemh.HealthCheck)
	r.GET("/api/health", systemh.HealthCheck)
	r.GET("/api/status", systemh.GetStatus)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())
	api.Use(middleware.ResolveIdentity())

	// Usuarios (sin autenticación: el ID va en X-User-ID)
	api.POST("/users", userh.CreateUser)
	api.GET("/users/me", middleware.RequireUser, userh.GetCurrentUser)
	api.GET("/users/search", middleware.RequireAdmin, userh.SearchUsers)
	api.GET("/users/stats", middleware.RequireAdmin, userh.GetUserStats)
	api.GET("/users/:id", userh.GetUserByID)
	api.GET("/users/:id/details", userh.GetUserDetails)
	api.GET("/users/:id/products", userh.GetUserProducts)
	api.PUT("/users/:id", middleware.RequireUser, userh.UpdateUser)
	api.PATCH("/users/:id/role", middleware.RequireAdmin, userh.ChangeUserRole)
	api.DELETE("/users/:id", middleware.RequireAdmin, userh.DeleteUser)
	api.GET("/users", middleware.RequireAdmin, userh.ListUsers)

	// Catálogo
	api.GET("/products", producth.GetAllProducts)
	api.GET("/products/search", middleware.SearchRateLimit(), producth.SearchProducts)
	api.GET("/products/:id", producth.GetProductByID)
	api.GET("/products/:id/image", producth.GetProductImage)
	api.POST("/products", middleware.RequireUser, middleware.RequireVendor, producth.CreateProduct)
	api.PUT("/products/:id", middleware.RequireUser, middleware.RequireVendor, producth.UpdateProduct)
	api.DELETE("/products/:id", middleware.RequireUser, middleware.RequireVendor, producth.DeleteProduct)
	api.POST("/products/:id/image", middleware.RequireUser, middleware.RequireVendor, producth.UploadProductImage)

	// Carrito
	api.GET("/cart", middleware.RequireUser, userh.GetCart)
	api.GET("/cart/summary", middleware.RequireUser, userh.GetCartSummary)
	api.POST("/cart/add", middleware.RequireUser, middleware.CartRateLimit(), userh.AddToCart)
	api.PUT("/cart/:productId", middleware.RequireUser, userh.UpdateCartItem)
	api.DELETE("/cart/:productId", middleware.RequireUser, userh.RemoveFromCart)
	api.DELETE("/cart", middleware.RequireUser, userh.ClearCart)
	api.GET("/cart/ws", middleware.RequireUser, userh.CartWebSocket)

	// Checkout y pedidos
	api.POST("/checkout", middleware.RequireUser, userh.Checkout)
	api.GET("/orders", middleware.RequireUser, userh.GetMyOrders)
	api.GET("/orders/:id", middleware.RequireUser, userh.GetOrderDetail)
	api.POST("/orders/:id/cancel", middleware.RequireUser, userh.CancelOrder)
	api.GET("/orders/:id/shipments", middleware.RequireUser, shippingh.GetShipmentsByOrder)

	// Direcciones
	api.GET("/addresses", middleware.RequireUser, userh.GetAddresses)
	api.POST("/addresses", middleware.RequireUser, userh.CreateAddress)
	api.PUT("/addresses/:id", middleware.RequireUser, userh.UpdateAddress)
	api.POST("/addresses/:id/default", middleware.RequireUser, userh.SetDefaultAddress)
	api.DELETE("/addresses/:id", middleware.RequireUser, userh.DeleteAddress)

	// Envíos
	shipping := api.Group("/shipping")
	{
		shipping.GET("/methods", shippingh.GetShippingMethods)
		shipping.POST("/methods", middleware.RequireAdmin, shippingh.CreateShippingMethod)
		shipping.PUT("/methods/:id", middleware.RequireAdmin, shippingh.UpdateShippingMethod)
		shipping.POST("/calculate", shippingh.CalculateShippingCost)
		shipping.POST("/shipments", middleware.RequireAdmin, shippingh.CreateShipment)
		shipping.GET("/shipments", middleware.RequireAdmin, shippingh.ListShipments)
		shipping.GET("/shipments/:id", middleware.RequireUser, shippingh.GetShipment)
		shipping.PUT("/shipments/:id/status", middleware.RequireAdmin, shippingh.UpdateShipmentStatus)
		shipping.POST("/shipments/:id/labels", middleware.RequireAdmin, shippingh.GenerateShippingLabel)
		shipping.GET("/labels/:labelId/download", middleware.RequireUser, shippingh.DownloadShippingLabel)
		shipping.GET("/track/:trackingNumber", middleware.RequireUser, shippingh.TrackShipment)
		shipping.GET("/stats", middleware.RequireVendor, shippingh.GetShippingStats)
	}

	// Panel del vendedor
	vendors := api.Group("/vendors")
	vendors.Use(middleware.RequireUser, middleware.RequireVendor)
	{
		vendors.GET("/dashboard", vendorh.Dashboard)
		vendors.GET("/sales", vendorh.Sales)
		vendors.GET("/inventory", vendorh.Inventory)
		vendors.GET("/customers", vendorh.Customers)
		vendors.GET("/products/sales-stats", vendorh.ProductSalesStats)
	}

	// Administración
	admin := api.Group("/admin")
	admin.Use(middleware.RequireUser, middleware.RequireAdmin)
	{
		admin.GET("/orders", adminh.GetAllOrders)
		admin.PUT("/orders/:id/status", adminh.UpdateOrderStatus)
		admin.GET("/orders/stats", adminh.GetOrderStats)
		admin.GET("/audit", adminh.GetAuditLogs)
		admin.GET("/audit/search", adminh.SearchAuditLogs)
		admin.GET("/audit/stats", adminh.GetAuditStats)
		admin.GET("/audit/user/:id", adminh.GetAuditLogsByUser)
		admin.GET("/audit/:id", adminh.GetAuditLogByID)
		admin.DELETE("/audit/cleanup", adminh.CleanupAuditLogs)
	}

	// Algoritmos sobre el catálogo real
	algorithms := api.Group("/algorithms")
	{
		algorithms.GET("/sort", algoh.SortProducts)
		algorithms.GET("/greedy/best-products", algoh.GreedyBestProducts)
	}
}
