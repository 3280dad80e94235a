package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func PresupuestoRoute(router *gin.Engine, ctl *controllers.PresupuestoController, auth gin.HandlerFunc) {
	presupuestoGroup := router.Group("/api/presupuestos", auth)
	{
		presupuestoGroup.POST("", ctl.CreatePresupuesto)
		presupuestoGroup.GET("", ctl.GetPresupuestos)
		presupuestoGroup.GET("/:id", ctl.GetPresupuesto)
		presupuestoGroup.PUT("/:id", ctl.UpdatePresupuesto)
		presupuestoGroup.GET("/:id/pdf", ctl.GetPresupuestoPDF)
		presupuestoGroup.DELETE("/:id", middleware.RequiereRol(models.RolAdmin), ctl.DeletePresupuesto)
	}
}
