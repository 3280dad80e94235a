package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/pdf"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type ReciboController struct {
	svc     *services.ReciboService
	notaria string
}

func NewReciboController(svc *services.ReciboService, notaria string) *ReciboController {
	return &ReciboController{svc: svc, notaria: notaria}
}

func (ctl *ReciboController) CreateRecibo(c *gin.Context) {
	var nr models.NuevoRecibo
	if err := c.ShouldBindJSON(&nr); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	r, err := ctl.svc.Emitir(ctx, nr, usuarioActual(c))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GetRecibos acepta ?numeroTramite=.
func (ctl *ReciboController) GetRecibos(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	recibos, err := ctl.svc.Listar(ctx, c.Query("numeroTramite"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, recibos)
}

func (ctl *ReciboController) GetRecibo(c *gin.Context) {
	numero, ok := paramInt(c, "numero")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	r, err := ctl.svc.Obtener(ctx, numero)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (ctl *ReciboController) CancelarRecibo(c *gin.Context) {
	numero, ok := paramInt(c, "numero")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	r, err := ctl.svc.Cancelar(ctx, numero)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recibo cancelado", "recibo": r})
}

func (ctl *ReciboController) enviarPDF(c *gin.Context, r models.Recibo) {
	data, err := pdf.Recibo(ctl.notaria, r)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	descargarPDF(c, fmt.Sprintf("recibo_%06d.pdf", r.NumeroRecibo), data)
}

func (ctl *ReciboController) GetReciboPDF(c *gin.Context) {
	numero, ok := paramInt(c, "numero")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	r, err := ctl.svc.Obtener(ctx, numero)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	ctl.enviarPDF(c, r)
}

func (ctl *ReciboController) CreateReciboLink(c *gin.Context) {
	numero, ok := paramInt(c, "numero")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	link, err := ctl.svc.CrearLink(ctx, numero)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":  link.Token,
		"url":    "/api/recibos/link/" + link.Token,
		"expira": link.Expira,
	})
}

// GetReciboPorLink es público: descarga el PDF mientras el enlace no expire.
func (ctl *ReciboController) GetReciboPorLink(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	r, err := ctl.svc.ReciboPorLink(ctx, c.Param("token"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	ctl.enviarPDF(c, r)
}
