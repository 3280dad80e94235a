package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func ClienteGeneralRoute(router *gin.Engine, ctl *controllers.ClienteGeneralController, auth gin.HandlerFunc) {
	clienteGroup := router.Group("/api/clientes-generales", auth)
	{
		clienteGroup.POST("", ctl.CreateClienteGeneral)
		clienteGroup.GET("/page/:page", ctl.GetClientesGenerales)
		clienteGroup.GET("/:clienteId", ctl.GetClienteGeneral)
		clienteGroup.PUT("/:clienteId", ctl.UpdateClienteGeneral)
		clienteGroup.DELETE("/:clienteId", middleware.RequiereRol(models.RolAdmin), ctl.DeleteClienteGeneral)
	}
}
