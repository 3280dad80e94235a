package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func PlantillaRoute(router *gin.Engine, ctl *controllers.PlantillaController, auth gin.HandlerFunc) {
	plantillaGroup := router.Group("/api/plantillas", auth)
	{
		plantillaGroup.POST("", ctl.CreatePlantilla)
		plantillaGroup.GET("", ctl.GetPlantillas)
		plantillaGroup.GET("/:nombre", ctl.GetPlantilla)
		plantillaGroup.PUT("/:nombre", ctl.UpdatePlantilla)
		plantillaGroup.POST("/:nombre/generar", ctl.GenerarPlantilla)
		plantillaGroup.DELETE("/:nombre", middleware.RequiereRol(models.RolAdmin), ctl.DeletePlantilla)
	}
}
