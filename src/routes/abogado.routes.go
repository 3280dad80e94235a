package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func AbogadoRoute(router *gin.Engine, ctl *controllers.AbogadoController, auth gin.HandlerFunc) {
	soloAdmin := middleware.RequiereRol(models.RolAdmin)

	abogadoGroup := router.Group("/api/abogados", auth)
	{
		abogadoGroup.GET("", ctl.GetAbogados)
		abogadoGroup.POST("", soloAdmin, ctl.CreateAbogado)
		abogadoGroup.PUT("/orden", soloAdmin, ctl.UpdateOrden)
		abogadoGroup.GET("/:id", ctl.GetAbogado)
		abogadoGroup.PUT("/:id", soloAdmin, ctl.UpdateAbogado)
		abogadoGroup.DELETE("/:id", soloAdmin, ctl.DeleteAbogado)
		abogadoGroup.PUT("/:id/liberar", ctl.LiberarAbogado)
		abogadoGroup.PUT("/:id/disponibilidad", ctl.UpdateDisponibilidad)
	}
}
