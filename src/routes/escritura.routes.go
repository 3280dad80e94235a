package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func EscrituraRoute(router *gin.Engine, ctl *controllers.EscrituraController, auth gin.HandlerFunc) {
	escrituraGroup := router.Group("/api/escrituras", auth)
	{
		escrituraGroup.POST("", ctl.CreateEscritura)
		escrituraGroup.GET("", ctl.GetEscrituras)
		escrituraGroup.GET("/:numero", ctl.GetEscritura)
		escrituraGroup.PUT("/:numero", ctl.UpdateEscritura)
		escrituraGroup.PUT("/:numero/estado", ctl.UpdateEstado)
		escrituraGroup.PUT("/:numero/entrega", ctl.RegistrarEntrega)
		escrituraGroup.DELETE("/:numero", middleware.RequiereRol(models.RolAdmin), ctl.DeleteEscritura)
	}
}
