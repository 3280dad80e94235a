package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/pdf"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type PresupuestoController struct {
	svc     *services.PresupuestoService
	notaria string
}

func NewPresupuestoController(svc *services.PresupuestoService, notaria string) *PresupuestoController {
	return &PresupuestoController{svc: svc, notaria: notaria}
}

func (ctl *PresupuestoController) CreatePresupuesto(c *gin.Context) {
	var np models.NuevoPresupuesto
	if err := c.ShouldBindJSON(&np); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	p, err := ctl.svc.Crear(ctx, np, usuarioActual(c))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetPresupuestos acepta ?clienteId=.
func (ctl *PresupuestoController) GetPresupuestos(c *gin.Context) {
	clienteID := 0
	if v := c.Query("clienteId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			utils.ResponderError(c, utils.NewValidationError("clienteId", v+" no es un id válido"))
			return
		}
		clienteID = id
	}
	ctx, cancel := contexto(c)
	defer cancel()

	presupuestos, err := ctl.svc.Listar(ctx, clienteID)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, presupuestos)
}

func (ctl *PresupuestoController) GetPresupuesto(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	p, err := ctl.svc.Obtener(ctx, c.Param("id"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *PresupuestoController) UpdatePresupuesto(c *gin.Context) {
	var np models.NuevoPresupuesto
	if err := c.ShouldBindJSON(&np); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	p, err := ctl.svc.Actualizar(ctx, c.Param("id"), np)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *PresupuestoController) DeletePresupuesto(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.svc.Eliminar(ctx, c.Param("id")); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Presupuesto eliminado"})
}

func (ctl *PresupuestoController) GetPresupuestoPDF(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	p, err := ctl.svc.Obtener(ctx, c.Param("id"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	data, err := pdf.Presupuesto(ctl.notaria, p)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	descargarPDF(c, "presupuesto_"+p.ID.Hex()+".pdf", data)
}
