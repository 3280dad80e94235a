package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type EscrituraController struct {
	svc *services.EscrituraService
}

func NewEscrituraController(svc *services.EscrituraService) *EscrituraController {
	return &EscrituraController{svc: svc}
}

func (ctl *EscrituraController) CreateEscritura(c *gin.Context) {
	var e models.Escritura
	if err := c.ShouldBindJSON(&e); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	creada, err := ctl.svc.Crear(ctx, e)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creada)
}

func (ctl *EscrituraController) GetEscrituras(c *gin.Context) {
	filtro := models.FiltroEscrituras{Estado: c.Query("estado")}
	if v := c.Query("abogadoId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			utils.ResponderError(c, utils.NewValidationError("abogadoId", v+" no es un id válido"))
			return
		}
		filtro.AbogadoID = id
	}
	ctx, cancel := contexto(c)
	defer cancel()

	escrituras, err := ctl.svc.Listar(ctx, filtro)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, escrituras)
}

func (ctl *EscrituraController) GetEscritura(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	e, err := ctl.svc.Obtener(ctx, c.Param("numero"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (ctl *EscrituraController) UpdateEscritura(c *gin.Context) {
	var e models.Escritura
	if err := c.ShouldBindJSON(&e); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	actualizada, err := ctl.svc.Actualizar(ctx, c.Param("numero"), e)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, actualizada)
}

type estadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

func (ctl *EscrituraController) UpdateEstado(c *gin.Context) {
	var req estadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	e, err := ctl.svc.CambiarEstado(ctx, c.Param("numero"), req.Estado)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

type entregaRequest struct {
	RecibidoPor string `json:"recibidoPor" binding:"required,max=150"`
}

func (ctl *EscrituraController) RegistrarEntrega(c *gin.Context) {
	var req entregaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	e, err := ctl.svc.RegistrarEntrega(ctx, c.Param("numero"), req.RecibidoPor)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Escritura entregada", "escritura": e})
}

func (ctl *EscrituraController) DeleteEscritura(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.svc.Eliminar(ctx, c.Param("numero")); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Escritura eliminada"})
}
