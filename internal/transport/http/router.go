package http

import (
	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-ai/internal/transport/http/middleware"
)

// NewRouter wires the move API and, when relay is non-nil, the websocket relay.
func NewRouter(moves *MoveHandler, relay gin.HandlerFunc, originAllowed func(string) bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(originAllowed))

	api := router.Group("/api")
	{
		api.POST("/connect4-move", moves.SelectMove)
		api.GET("/test", moves.Health)
		api.GET("/stats", moves.Stats)
		api.POST("/sessions", moves.CreateSession)
		api.DELETE("/sessions/:id", moves.EndSession)
	}

	if relay != nil {
		router.GET("/ws/relay", relay)
	}

	return router
}
