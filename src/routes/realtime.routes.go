package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RealtimeRoute expone el websocket de la cola y un health check. redis puede ser nil.
func RealtimeRoute(router *gin.Engine, ws http.Handler, conectados func() int, redis func(context.Context) error) {
	router.GET("/api/ws", gin.WrapH(ws))
	router.GET("/api/health", func(c *gin.Context) {
		estadoRedis := "deshabilitado"
		if redis != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			estadoRedis = "ok"
			if err := redis(ctx); err != nil {
				estadoRedis = err.Error()
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "websockets": conectados(), "redis": estadoRedis})
	})
}
