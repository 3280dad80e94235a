package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func ProtocolitoRoute(router *gin.Engine, ctl *controllers.ProtocolitoController, auth gin.HandlerFunc) {
	protocolitoGroup := router.Group("/api/protocolito", auth)
	{
		protocolitoGroup.POST("", ctl.CreateProtocolito)
		protocolitoGroup.GET("", ctl.GetProtocolitos)
		protocolitoGroup.POST("/importar", ctl.ImportarProtocolito)
		protocolitoGroup.GET("/exportar", ctl.ExportarProtocolito)
		protocolitoGroup.GET("/:numeroTramite", ctl.GetProtocolito)
		protocolitoGroup.PUT("/:numeroTramite", ctl.UpdateProtocolito)
		protocolitoGroup.DELETE("/:numeroTramite", middleware.RequiereRol(models.RolAdmin), ctl.DeleteProtocolito)
	}
}
