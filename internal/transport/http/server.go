package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/redischat/internal/config"
	"github.com/vovakirdan/redischat/internal/core"
	"github.com/vovakirdan/redischat/internal/metrics"
)

// NewServer builds the HTTP bridge: REST routes over the chat service,
// a WebSocket channel stream and the metrics endpoint.
func NewServer(svc *core.Service, m *metrics.Metrics, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	h := NewHandlers(svc, logger)

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/ws/:channel", h.Stream)

	api := router.Group("/api")
	{
		api.GET("/weather/:city", h.Weather)
		api.GET("/fact", h.Fact)
		api.GET("/users/:name", h.Profile)
		api.PUT("/users/:name", h.SaveProfile)
		api.POST("/users/:name/messages", h.PostPrivateMessage)
		api.GET("/history/:channel", h.History)
		api.POST("/channels/:channel/messages", h.PostChannelMessage)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
