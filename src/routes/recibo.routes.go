package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
)

func ReciboRoute(router *gin.Engine, ctl *controllers.ReciboController, auth gin.HandlerFunc) {
	// público: el enlace es la credencial
	router.GET("/api/recibos/link/:token", ctl.GetReciboPorLink)

	reciboGroup := router.Group("/api/recibos", auth)
	{
		reciboGroup.POST("", ctl.CreateRecibo)
		reciboGroup.GET("", ctl.GetRecibos)
		reciboGroup.GET("/:numero", ctl.GetRecibo)
		reciboGroup.PUT("/:numero/cancelar", ctl.CancelarRecibo)
		reciboGroup.GET("/:numero/pdf", ctl.GetReciboPDF)
		reciboGroup.POST("/:numero/link", ctl.CreateReciboLink)
	}
}
