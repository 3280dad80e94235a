package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"api_notaria/src/middleware"
	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type AuthController struct {
	auth     *services.AuthService
	abogados *services.AbogadoService
}

func NewAuthController(auth *services.AuthService, abogados *services.AbogadoService) *AuthController {
	return &AuthController{auth: auth, abogados: abogados}
}

func (ctl *AuthController) Login(c *gin.Context) {
	var cred services.Credenciales
	if err := c.ShouldBindJSON(&cred); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	sesion, err := ctl.auth.Login(ctx, cred)
	if err != nil {
		log.Printf("Login fallido para %q: %v", cred.Usuario, err)
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, sesion)
}

func (ctl *AuthController) Me(c *gin.Context) {
	claims := middleware.ClaimsDe(c)
	if claims == nil {
		utils.ResponderError(c, utils.ErrNoAutorizado)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	abogado, err := ctl.auth.Yo(ctx, claims)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, abogado)
}

// Registro da de alta un usuario nuevo; la ruta solo la puede usar un admin.
func (ctl *AuthController) Registro(c *gin.Context) {
	var na models.NuevoAbogado
	if err := c.ShouldBindJSON(&na); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	abogado, err := ctl.abogados.Crear(ctx, na)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Usuario registrado", "abogado": abogado})
}
