package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func ClienteRoute(router *gin.Engine, ctl *controllers.ClienteController, auth gin.HandlerFunc) {
	clienteGroup := router.Group("/api/clientes", auth)
	{
		clienteGroup.POST("", ctl.CreateCliente)
		clienteGroup.GET("", ctl.GetClientes)
		clienteGroup.GET("/espera", ctl.GetColaDeEspera)
		clienteGroup.POST("/reiniciar", middleware.RequiereRol(models.RolAdmin), ctl.ReiniciarJornada)
		clienteGroup.GET("/:id", ctl.GetCliente)
		clienteGroup.PUT("/:id", ctl.UpdateCliente)
		clienteGroup.PUT("/:id/cancelar", ctl.CancelarCliente)
		clienteGroup.DELETE("/:id", middleware.RequiereRol(models.RolAdmin), ctl.DeleteCliente)
	}
}
