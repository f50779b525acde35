package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"teleka/handlers"
	"teleka/middleware"
	"teleka/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPlacesRoutes registers the Maps proxy and the suggestion chain.
func RegisterPlacesRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/places")
	{
		api.GET("/autocomplete", hb.Places.Autocomplete)
		api.GET("/nearby", hb.Places.Nearby)
		api.GET("/details", hb.Places.Details)
		api.GET("/suggest", hb.Places.Suggest)
		api.POST("/select", hb.Places.Select)
	}
}

// RegisterPricingRoutes registers the fare endpoints.
func RegisterPricingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/calculate-price", hb.Pricing.CalculatePrice)
	r.GET("/api/price-from-distance", hb.Pricing.PriceFromDistance)
}

// RegisterAccountRoutes registers registration, login and booking intake.
func RegisterAccountRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/register/customer", hb.Account.RegisterCustomerHandler)
		api.POST("/register/driver", hb.Account.RegisterDriverHandler)
		api.POST("/login", hb.Account.LoginHandler)
		api.POST("/bookings", hb.Account.CreateBookingHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware(hb.AdminToken))
		adminGroup.GET("/pending-drivers", hb.Admin.PendingDriversHandler)
		adminGroup.POST("/approve-driver", hb.Admin.ApproveDriverHandler)
		adminGroup.POST("/reject-driver", hb.Admin.RejectDriverHandler)
		adminGroup.GET("/notifications", hb.Admin.NotificationsHandler)
		adminGroup.GET("/fare-settings", hb.Admin.GetFareSettingsHandler)
		adminGroup.POST("/fare-settings", hb.Admin.UpdateFareSettingsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Hi, I'm Teleka",
			"health":  utils.GetHealthStatus(),
		})
	})
}

// RegisterStaticRoutes serves the booking and admin pages from dir. Unknown
// non-API paths get index.html.
func RegisterStaticRoutes(r *gin.Engine, dir string) {
	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || dir == "" || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type", "X-Client-ID", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	RegisterPlacesRoutes(r, hb)
	RegisterPricingRoutes(r, hb)
	RegisterAccountRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterStaticRoutes(r, hb.StaticDir)
}
