package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
)

func WhatsAppRoute(router *gin.Engine, ctl *controllers.WhatsAppController, auth gin.HandlerFunc) {
	whatsappGroup := router.Group("/api/whatsapp", auth)
	{
		whatsappGroup.POST("/recibo/:numero", ctl.EnviarRecibo)
		whatsappGroup.POST("/presupuesto/:id", ctl.EnviarPresupuesto)
	}
}
