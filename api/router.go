package api

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/tik-relay-go/api/handlers"
	"github.com/yourusername/tik-relay-go/api/middleware"
	"github.com/yourusername/tik-relay-go/internal/app"
	"github.com/yourusername/tik-relay-go/internal/domain"
	"github.com/yourusername/tik-relay-go/internal/infrastructure"
	"github.com/yourusername/tik-relay-go/web"
)

// Version is the service version reported by /health
const Version = "1.0.0"

// SetupRouter sets up the HTTP router
func SetupRouter(
	resolver *app.Resolver,
	relay *infrastructure.StreamRelay,
	rateLimitCfg *domain.RateLimitConfig,
	log *zap.Logger,
) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	limiter := middleware.NewRateLimiter(rateLimitCfg)

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(Version)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Resolution endpoints
	resolveHandler := handlers.NewResolveHandler(resolver, log)
	router.GET("/download", limiter.Middleware(), resolveHandler.Download)
	router.POST("/api/download", limiter.Middleware(), resolveHandler.APIDownload)

	// Streaming proxy
	streamHandler := handlers.NewStreamHandler(relay, log)
	router.GET("/stream", limiter.Middleware(), streamHandler.Stream)

	// Legacy endpoint kept for old clients
	legacyHandler := handlers.NewLegacyHandler(resolver, log)
	router.GET("/tiktok/api.php", limiter.Middleware(), legacyHandler.API)

	// Embedded browser front-end. index.html is read and served directly;
	// http.FileServer would redirect the bare /index.html path.
	staticFS := web.GetStaticFS()
	router.StaticFS("/static", http.FS(staticFS))
	router.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			c.String(http.StatusNotFound, "front-end not bundled")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	})

	return router
}
