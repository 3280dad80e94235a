package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
)

func CalendarRoute(router *gin.Engine, ctl *controllers.CalendarController, auth gin.HandlerFunc) {
	calendarGroup := router.Group("/api/calendar")
	{
		// Microsoft redirige al callback sin el token de sesión
		calendarGroup.GET("/callback", ctl.Callback)
		calendarGroup.GET("/auth", auth, ctl.Auth)
		calendarGroup.GET("/eventos", auth, ctl.GetEventos)
		calendarGroup.POST("/eventos", auth, ctl.CreateEvento)
	}
}
