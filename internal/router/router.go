package router

import (
	"net/http"

	"nuvyra_admin/internal/config"
	"nuvyra_admin/internal/imagehost"
	"nuvyra_admin/internal/middleware"
	"nuvyra_admin/internal/service"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// Deps 路由依赖的服务集合。
type Deps struct {
	Products  *service.ProductService
	Settings  *service.SettingsService
	Auth      *service.AuthService
	Integrity *service.IntegrityService
	Images    *imagehost.Client
	Redis     *rd.Client
}

// Setup 注册全部 HTTP 路由。
func Setup(r *gin.Engine, d Deps, cfg config.AppConfig) {
	r.Use(middleware.AuthGate(d.Auth))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})
	// AuthGate 总会重定向 /
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, middleware.LoginPath)
	})

	// Session
	r.GET("/login", loginHint())
	r.POST("/login",
		middleware.RedisRateLimit(d.Redis, "login", cfg.LoginRateLimit, cfg.LoginRateWindow),
		signIn(d.Auth, cfg))
	r.POST("/logout", signOut(d.Auth, cfg))

	admin := r.Group("/admin")
	admin.GET("/me", currentAdmin())

	// Products
	products := admin.Group("/products")
	products.GET("", listProducts(d.Products))
	products.GET("/categories", listCategories(d.Products))
	products.GET("/:id", getProduct(d.Products))
	products.POST("", createProduct(d.Products))
	products.PUT("/:id", updateProduct(d.Products))
	products.DELETE("/:id", deleteProduct(d.Products))
	products.PATCH("/:id/status", toggleProduct(d.Products))
	products.POST("/bulk/delete", bulkDelete(d.Products))
	products.POST("/bulk/status", bulkSetActive(d.Products))

	// Settings
	admin.GET("/settings", getSettings(d.Settings))
	admin.PUT("/settings", updateSettings(d.Settings))

	// Data integrity
	admin.POST("/data-integrity/scan", scanIntegrity(d.Integrity))
	admin.POST("/data-integrity/apply", applyIntegrity(d.Integrity))

	// Images
	admin.POST("/images", uploadImage(d.Images))
}
