package routes

import (
	"github.com/gin-gonic/gin"

	"api_notaria/src/controllers"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
)

func AuthRoute(router *gin.Engine, ctl *controllers.AuthController, auth gin.HandlerFunc) {
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", ctl.Login)
		authGroup.GET("/me", auth, ctl.Me)
		authGroup.POST("/registro", auth, middleware.RequiereRol(models.RolAdmin), ctl.Registro)
	}
}
