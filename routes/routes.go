package routes

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/controllers"
	"github.com/kendall-kelly/pedidos-api/middleware"
	"github.com/kendall-kelly/pedidos-api/services"
)

// SetupRouter builds the HTTP router with the middleware chain and every route
func SetupRouter(cfg *config.Config, logger *slog.Logger, sessions *services.SessionService) (*gin.Engine, error) {
	router := gin.New()

	// Only trust forwarding headers from known proxies in production
	var proxies []string
	if cfg.IsProduction() {
		proxies = cfg.TrustedProxies
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		cors.New(corsConfig(cfg.AllowedOrigins)),
	)

	router.GET("/health", controllers.HealthCheck)
	router.GET("/database/status", controllers.DatabaseStatus)

	requireSession := middleware.RequireSession(sessions)

	users := router.Group("/usuarios")
	{
		users.POST("/register", controllers.RegisterUser)
		users.POST("/login", controllers.Login)
		users.POST("/logout", controllers.Logout)

		protected := users.Group("", requireSession)
		protected.GET("/me", controllers.GetCurrentUser)
		protected.GET("", controllers.ListUsers)
		protected.GET("/:id", controllers.GetUser)
		protected.PUT("/:id", controllers.UpdateUser)
		protected.DELETE("/:id", controllers.DeleteUser)
	}

	channels := router.Group("/canais", requireSession)
	{
		channels.GET("", controllers.ListChannels)
		channels.GET("/:id", controllers.GetChannel)
		channels.POST("", controllers.CreateChannel)
		channels.PUT("/:id", controllers.UpdateChannel)
		channels.DELETE("/:id", controllers.DeleteChannel)
	}

	stores := router.Group("/lojas", requireSession)
	{
		stores.GET("", controllers.ListStores)
		stores.GET("/:id", controllers.GetStore)
		stores.POST("", controllers.CreateStore)
		stores.PUT("/:id", controllers.UpdateStore)
		stores.DELETE("/:id", controllers.DeleteStore)
	}

	customers := router.Group("/clientes", requireSession)
	{
		customers.GET("", controllers.ListCustomers)
		customers.GET("/:id", controllers.GetCustomer)
		customers.POST("/register", controllers.CreateCustomer)
		customers.PUT("/:id", controllers.UpdateCustomer)
		customers.DELETE("/:id", controllers.DeleteCustomer)
	}

	orders := router.Group("/pedidos", requireSession)
	{
		orders.POST("/register", controllers.CreateOrder)
		orders.GET("", controllers.ListOrders)
		orders.GET("/summary", controllers.GetOrderSummary)
		orders.GET("/:id", controllers.GetOrder)
		orders.PUT("/:id", controllers.UpdateOrder)
		orders.DELETE("/:id", controllers.DeleteOrder)
		orders.POST("/:id/atualizacoes", controllers.AppendOrderUpdate)
		orders.GET("/:id/historico", controllers.GetOrderHistory)
		orders.POST("/:id/finalizar", controllers.FinalizeOrder)
		orders.POST("/:id/anexo", controllers.AttachOrderFile)
	}

	router.GET("/uploads/:filename", requireSession, controllers.GetUploadedFile)

	return router, nil
}

// corsConfig allows the configured origins with credentials; "*" reflects any origin
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}
