package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type WhatsAppController struct {
	svc *services.WhatsAppService
}

func NewWhatsAppController(svc *services.WhatsAppService) *WhatsAppController {
	return &WhatsAppController{svc: svc}
}

type destinoWhatsApp struct {
	Telefono string `json:"telefono" binding:"required"`
}

func (ctl *WhatsAppController) EnviarRecibo(c *gin.Context) {
	numero, ok := paramInt(c, "numero")
	if !ok {
		return
	}
	var body destinoWhatsApp
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	envio, err := ctl.svc.EnviarRecibo(c.Request.Context(), numero, body.Telefono)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recibo enviado por WhatsApp", "envio": envio})
}

func (ctl *WhatsAppController) EnviarPresupuesto(c *gin.Context) {
	var body destinoWhatsApp
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	envio, err := ctl.svc.EnviarPresupuesto(c.Request.Context(), c.Param("id"), body.Telefono)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Presupuesto enviado por WhatsApp", "envio": envio})
}
