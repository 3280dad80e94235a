package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type AbogadoController struct {
	abogados   *services.AbogadoService
	asignacion *services.AsignacionService
}

func NewAbogadoController(abogados *services.AbogadoService, asignacion *services.AsignacionService) *AbogadoController {
	return &AbogadoController{abogados: abogados, asignacion: asignacion}
}

func (ctl *AbogadoController) CreateAbogado(c *gin.Context) {
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
	c.JSON(http.StatusCreated, abogado)
}

func (ctl *AbogadoController) GetAbogados(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	abogados, err := ctl.abogados.Listar(ctx)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, abogados)
}

func (ctl *AbogadoController) GetAbogado(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	abogado, err := ctl.abogados.Obtener(ctx, id)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, abogado)
}

func (ctl *AbogadoController) UpdateAbogado(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var ua models.ActualizarAbogado
	if err := c.ShouldBindJSON(&ua); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	abogado, err := ctl.abogados.Actualizar(ctx, id, ua)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, abogado)
}

func (ctl *AbogadoController) DeleteAbogado(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.abogados.Eliminar(ctx, id); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Abogado eliminado"})
}

// LiberarAbogado termina la atención actual y asigna al siguiente cliente de la cola.
func (ctl *AbogadoController) LiberarAbogado(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	siguiente, err := ctl.asignacion.LiberarAbogado(ctx, id)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	if siguiente == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Abogado liberado", "siguienteCliente": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Abogado liberado y asignado al siguiente cliente", "siguienteCliente": siguiente})
}

type disponibilidadRequest struct {
	Disponible *bool `json:"disponible" binding:"required"`
}

func (ctl *AbogadoController) UpdateDisponibilidad(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req disponibilidadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	abogado, err := ctl.abogados.FijarDisponibilidad(ctx, id, *req.Disponible)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, abogado)
}

type ordenRequest struct {
	IDs []int `json:"ids" binding:"required,min=1,dive,gt=0"`
}

func (ctl *AbogadoController) UpdateOrden(c *gin.Context) {
	var req ordenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.abogados.Reordenar(ctx, req.IDs); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orden de abogados actualizado"})
}
