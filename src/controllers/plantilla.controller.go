package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type PlantillaController struct {
	svc *services.PlantillaService
}

func NewPlantillaController(svc *services.PlantillaService) *PlantillaController {
	return &PlantillaController{svc: svc}
}

type datosPlantilla struct {
	Datos map[string]any `json:"datos" binding:"required"`
}

func (ctl *PlantillaController) CreatePlantilla(c *gin.Context) {
	var p models.Plantilla
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	creada, err := ctl.svc.Crear(ctx, p)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creada)
}

func (ctl *PlantillaController) GetPlantillas(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	plantillas, err := ctl.svc.Listar(ctx)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, plantillas)
}

func (ctl *PlantillaController) GetPlantilla(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	p, err := ctl.svc.Obtener(ctx, c.Param("nombre"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *PlantillaController) UpdatePlantilla(c *gin.Context) {
	var p models.Plantilla
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	actualizada, err := ctl.svc.Actualizar(ctx, c.Param("nombre"), p)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, actualizada)
}

func (ctl *PlantillaController) DeletePlantilla(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.svc.Eliminar(ctx, c.Param("nombre")); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plantilla eliminada"})
}

// GenerarPlantilla llena la plantilla con datos y descarga el PDF.
func (ctl *PlantillaController) GenerarPlantilla(c *gin.Context) {
	var body datosPlantilla
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	nombre := c.Param("nombre")
	data, err := ctl.svc.Generar(ctx, nombre, body.Datos)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	descargarPDF(c, nombre+".pdf", data)
}
