package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

type ExampleClienteGeneralCreate struct {
	ClienteID       int    `json:"clienteId" example:"1"`
	Nombre          string `json:"nombre" example:"Pedro"`
	ApellidoPaterno string `json:"apellidoPaterno" example:"López"`
	ApellidoMaterno string `json:"apellidoMaterno" example:"Ruiz"`
	Celular         string `json:"celular" example:"9613214782"`
	Email           string `json:"email" example:"correo@example.com"`
}

var exampleCreate = ExampleClienteGeneralCreate{
	ClienteID:       1,
	Nombre:          "Pedro",
	ApellidoPaterno: "López",
	ApellidoMaterno: "Ruiz",
	Celular:         "9613214782",
	Email:           "correo@example.com",
}

type ClienteGeneralController struct {
	svc *services.ClienteGeneralService
}

func NewClienteGeneralController(svc *services.ClienteGeneralService) *ClienteGeneralController {
	return &ClienteGeneralController{svc: svc}
}

func (ctl *ClienteGeneralController) CreateClienteGeneral(c *gin.Context) {
	var cliente models.ClienteGeneral
	if err := c.ShouldBindJSON(&cliente); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "example": exampleCreate})
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	creado, err := ctl.svc.Crear(ctx, cliente)
	if err != nil {
		if vErr, ok := err.(*utils.ValidationError); ok {
			log.Println("Error: cliente general con errores de validación: " + utils.GetErrorSummary(&creado))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   utils.GetErrorSummary(&creado),
				"Errores": vErr.Campos,
				"example": exampleCreate,
			})
			return
		}
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creado)
}

// GetClientesGenerales devuelve la página :page (1..10000) de 100 clientes.
func (ctl *ClienteGeneralController) GetClientesGenerales(c *gin.Context) {
	page, err := services.ParsePagina(c.Param("page"))
	if err != nil {
		log.Println("Error: " + err.Error())
		utils.ResponderError(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	clientes, err := ctl.svc.ListarPagina(ctx, page)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, clientes)
}

func (ctl *ClienteGeneralController) GetClienteGeneral(c *gin.Context) {
	id, ok := paramInt(c, "clienteId")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	cliente, err := ctl.svc.Obtener(ctx, id)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func (ctl *ClienteGeneralController) UpdateClienteGeneral(c *gin.Context) {
	id, ok := paramInt(c, "clienteId")
	if !ok {
		return
	}
	var cliente models.ClienteGeneral
	if err := c.ShouldBindJSON(&cliente); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "example": exampleCreate})
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	actualizado, err := ctl.svc.Actualizar(ctx, id, cliente)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente actualizado", "cliente": actualizado})
}

func (ctl *ClienteGeneralController) DeleteClienteGeneral(c *gin.Context) {
	id, ok := paramInt(c, "clienteId")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.svc.Eliminar(ctx, id); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}
