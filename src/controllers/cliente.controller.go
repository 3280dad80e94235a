package controllers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

var estadosCliente = []string{models.EstadoEnEspera, models.EstadoAsignado, models.EstadoAtendido, models.EstadoCancelado}

type ClienteController struct {
	clientes   *services.ClienteService
	asignacion *services.AsignacionService
}

func NewClienteController(clientes *services.ClienteService, asignacion *services.AsignacionService) *ClienteController {
	return &ClienteController{clientes: clientes, asignacion: asignacion}
}

// CreateCliente registra la llegada del cliente y lo asigna o lo deja en espera.
func (ctl *ClienteController) CreateCliente(c *gin.Context) {
	var nc models.NuevoCliente
	if err := c.ShouldBindJSON(&nc); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	cliente, err := ctl.asignacion.RegistrarCliente(ctx, nc)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	message := "Cliente asignado"
	if cliente.EnEspera {
		message = "No hay abogados disponibles, el cliente quedó en lista de espera"
	}
	c.JSON(http.StatusCreated, gin.H{"message": message, "cliente": cliente})
}

// GetClientes acepta ?estado= y ?fecha=AAAA-MM-DD (día de llegada, hora UTC).
func (ctl *ClienteController) GetClientes(c *gin.Context) {
	filtro := models.FiltroClientes{Estado: c.Query("estado")}
	if filtro.Estado != "" && !slices.Contains(estadosCliente, filtro.Estado) {
		utils.ResponderError(c, utils.NewValidationError("estado", "Estado de cliente no válido"))
		return
	}
	if fecha := c.Query("fecha"); fecha != "" {
		dia, err := time.Parse(time.DateOnly, fecha)
		if err != nil {
			utils.ResponderError(c, utils.NewValidationError("fecha", "La fecha debe tener formato AAAA-MM-DD"))
			return
		}
		filtro.Desde = dia
		filtro.Hasta = dia.AddDate(0, 0, 1)
	}
	ctx, cancel := contexto(c)
	defer cancel()

	clientes, err := ctl.clientes.Listar(ctx, filtro)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, clientes)
}

func (ctl *ClienteController) GetColaDeEspera(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	cola, err := ctl.asignacion.ColaDeEspera(ctx)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, cola)
}

func (ctl *ClienteController) GetCliente(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	cliente, err := ctl.clientes.Obtener(ctx, id)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func (ctl *ClienteController) UpdateCliente(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var uc models.ActualizarCliente
	if err := c.ShouldBindJSON(&uc); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	cliente, err := ctl.clientes.Actualizar(ctx, id, uc)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func (ctl *ClienteController) CancelarCliente(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	cliente, err := ctl.asignacion.CancelarCliente(ctx, id)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente retirado de la lista de espera", "cliente": cliente})
}

func (ctl *ClienteController) DeleteCliente(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.clientes.Eliminar(ctx, id); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente eliminado"})
}

func (ctl *ClienteController) ReiniciarJornada(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.asignacion.ReiniciarJornada(ctx); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Jornada reiniciada"})
}
