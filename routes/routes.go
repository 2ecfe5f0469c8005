package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/config"
	"github.com/princinho/sahomattress/controllers"
	"github.com/princinho/sahomattress/logger"
	"github.com/princinho/sahomattress/middleware"
	"github.com/princinho/sahomattress/services"
	"github.com/princinho/sahomattress/utils"
	"go.uber.org/zap"
)

type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Catalog   *services.CatalogService
	Quotes    *services.QuoteService
	Auth      *services.AuthService
	Validator *utils.FileValidator
	Metrics   *middleware.Metrics
}

func corsConfig(origins []string) cors.Config {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", d.Metrics.Handler())
	}
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	r.POST("/auth/login", controllers.Login(d.Auth, d.Log))

	r.GET("/products", controllers.GetProducts(d.Catalog, d.Log))
	r.GET("/products/:id", controllers.GetProduct(d.Catalog, d.Log))
	r.GET("/images/:id", controllers.GetImage(d.Catalog, d.Log))
	r.GET("/categories", controllers.GetCategories())

	limiter := middleware.NewRateLimiter(cfg.Quote.RatePerMinute, cfg.Quote.Burst, cfg.Quote.LimiterTTL)
	r.POST("/quote-request", limiter.Middleware(), controllers.CreateQuoteRequest(d.Quotes, d.Log))

	requireAdmin := []gin.HandlerFunc{middleware.AuthMiddleware(cfg.Auth.JWTSecret), middleware.RequireAdmin()}

	products := r.Group("/products", requireAdmin...)
	{
		products.POST("", controllers.AddProduct(d.Catalog, d.Validator, d.Log))
		products.PUT("", controllers.UpdateProduct(d.Catalog, d.Log))
		products.DELETE("", controllers.DeleteProduct(d.Catalog, d.Log))
	}

	admin := r.Group("/admin", requireAdmin...)
	{
		admin.POST("/users", controllers.CreateUser(d.Auth, d.Log))
		admin.POST("/users/me/password", controllers.ChangeMyPassword(d.Auth, d.Log))
	}
	return r
}
