package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func SalaRoute(router *gin.Engine, ctl *controllers.SalaController, auth gin.HandlerFunc) {
	salaGroup := router.Group("/api/salas", auth)
	{
		salaGroup.GET("", ctl.GetSalas)
		salaGroup.POST("", middleware.RequiereRol(models.RolAdmin), ctl.CreateSala)
		salaGroup.PUT("/asignar", ctl.AsignarSala)
		salaGroup.PUT("/:nombre/liberar", ctl.LiberarSala)
		salaGroup.DELETE("/:nombre", middleware.RequiereRol(models.RolAdmin), ctl.DeleteSala)
	}
}
