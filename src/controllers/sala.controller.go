package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type SalaController struct {
	salas      *services.SalaService
	asignacion *services.AsignacionService
}

func NewSalaController(salas *services.SalaService, asignacion *services.AsignacionService) *SalaController {
	return &SalaController{salas: salas, asignacion: asignacion}
}

func (ctl *SalaController) GetSalas(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	salas, err := ctl.salas.Listar(ctx)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, salas)
}

func (ctl *SalaController) CreateSala(c *gin.Context) {
	var sala models.Sala
	if err := c.ShouldBindJSON(&sala); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	creada, err := ctl.salas.Crear(ctx, sala.Nombre)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creada)
}

func (ctl *SalaController) DeleteSala(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.salas.Eliminar(ctx, c.Param("nombre")); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sala eliminada"})
}

func (ctl *SalaController) LiberarSala(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	sala, err := ctl.asignacion.LiberarSala(ctx, c.Param("nombre"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sala liberada", "sala": sala})
}

// AsignarSala recibe {abogadoId, sala?}; sin sala se toma la primera libre.
func (ctl *SalaController) AsignarSala(c *gin.Context) {
	var req models.AsignacionSala
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	sala, err := ctl.asignacion.AsignarSala(ctx, req.AbogadoID, req.Sala)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sala asignada", "sala": sala})
}
