package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/variant-reservation/config"
	"github.com/ikkim/variant-reservation/internal/app/controller"
	"github.com/ikkim/variant-reservation/internal/middleware"
)

type Router struct {
	stockController   *controller.StockController
	planController    *controller.PlanController
	sessionController *controller.SessionController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	stockController *controller.StockController,
	planController *controller.PlanController,
	sessionController *controller.SessionController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		stockController:   stockController,
		planController:    planController,
		sessionController: sessionController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Variant reservation API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/:id/stock", r.stockController.GetStock)
			products.POST("/:id/plan", r.planController.Plan)
		}

		// stock ingress: every write publishes to live shopper sessions
		ingress := v1.Group("",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(middleware.RoleStockWriter, middleware.RoleAdmin),
		)
		{
			ingress.POST("/products/:id/variants", r.stockController.CreateVariant)
			ingress.PUT("/products/:id/fallback-stock", r.stockController.SetFallbackStock)
			ingress.PUT("/variants/:id", r.stockController.UpdateVariant)
			ingress.DELETE("/variants/:id", r.stockController.DeleteVariant)
		}
	}

	if r.sessionController != nil {
		router.GET("/ws/products/:id", r.sessionController.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
