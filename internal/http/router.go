package api

import (
	stdhttp "net/http"
	"os"
	"path/filepath"
	"strings"

	intconfig "busbooking/internal/config"
	"busbooking/internal/domain"
	h "busbooking/internal/http/handlers"
	"busbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(env intconfig.Env, hd *h.Handler, verify middleware.TokenVerifier, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil && log != nil {
		log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(noRoute(env.PublicDir))

	api := r.Group("/api", middleware.AuthOptional(verify))
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/debug/routes", hd.DebugRoutes)

		// Auth
		api.POST("/register", hd.Register)
		api.POST("/login", hd.Login)

		// Catalog
		api.GET("/routes", hd.ListRoutes)
		buses := api.Group("/buses")
		buses.GET("/route/:routeId", hd.ListBusesByRoute)
		buses.GET("/:busId", hd.GetBus)
		buses.GET("/:busId/availability", hd.GetAvailability)
		buses.GET("/:busId/booked-seats", hd.GetBookedSeats)

		// Bookings
		api.POST("/bookings", hd.CreateBooking)
		api.PUT("/bookings/:pnr/cancel", hd.CancelBooking)
		api.GET("/pnr/:pnr", hd.GetBookingByPNR)
		api.GET("/pnr/:pnr/e-ticket", hd.GetETicketPDF)
		api.GET("/users/:id/bookings", hd.GetUserBookings)

		api.POST("/feedback", hd.SubmitFeedback)
	}

	hd.SetRouter(r)
	return r
}

// noRoute serves the frontend from publicDir with an index.html fallback.
// Unknown /api paths get a JSON 404.
func noRoute(publicDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") || publicDir == "" ||
			(c.Request.Method != stdhttp.MethodGet && c.Request.Method != stdhttp.MethodHead) {
			c.JSON(stdhttp.StatusNotFound, gin.H{
				"error":   domain.ReasonNotFound,
				"code":    "route_not_found",
				"message": "route not found",
				"path":    p,
				"method":  c.Request.Method,
			})
			return
		}

		file := filepath.Join(publicDir, filepath.FromSlash(filepath.Clean("/"+p)))
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			c.File(file)
			return
		}
		index := filepath.Join(publicDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(stdhttp.StatusNotFound, gin.H{"error": domain.ReasonNotFound, "code": "route_not_found", "message": "route not found"})
			return
		}
		c.File(index)
	}
}
