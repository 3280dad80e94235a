package controllers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxArchivo      = 10 << 20
)

type ProtocolitoController struct {
	svc *services.ProtocolitoService
}

func NewProtocolitoController(svc *services.ProtocolitoService) *ProtocolitoController {
	return &ProtocolitoController{svc: svc}
}

func (ctl *ProtocolitoController) CreateProtocolito(c *gin.Context) {
	var p models.Protocolito
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	creado, err := ctl.svc.Crear(ctx, p)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creado)
}

// GetProtocolitos acepta ?q= para buscar y ?page= (100 por página).
func (ctl *ProtocolitoController) GetProtocolitos(c *gin.Context) {
	page, err := services.ParsePagina(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	registros, err := ctl.svc.Listar(ctx, c.Query("q"), page)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, registros)
}

func (ctl *ProtocolitoController) GetProtocolito(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	p, err := ctl.svc.Obtener(ctx, c.Param("numeroTramite"))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *ProtocolitoController) UpdateProtocolito(c *gin.Context) {
	var p models.Protocolito
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	actualizado, err := ctl.svc.Actualizar(ctx, c.Param("numeroTramite"), p)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, actualizado)
}

func (ctl *ProtocolitoController) DeleteProtocolito(c *gin.Context) {
	ctx, cancel := contexto(c)
	defer cancel()

	if err := ctl.svc.Eliminar(ctx, c.Param("numeroTramite")); err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trámite eliminado"})
}

// ImportarProtocolito recibe el xlsx en el campo multipart "archivo".
func (ctl *ProtocolitoController) ImportarProtocolito(c *gin.Context) {
	archivo, err := c.FormFile("archivo")
	if err != nil {
		message := "Error: envíe el archivo xlsx en el campo 'archivo'"
		log.Println(message)
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}
	if !strings.EqualFold(filepath.Ext(archivo.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solo se aceptan archivos .xlsx"})
		return
	}
	if archivo.Size > maxArchivo {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "El archivo excede 10 MB"})
		return
	}
	f, err := archivo.Open()
	if err != nil {
		utils.ResponderError(c, fmt.Errorf("abriendo archivo subido: %w", err))
		return
	}
	defer f.Close()

	// la importación puede tardar más que una petición normal
	resultado, err := ctl.svc.Importar(c.Request.Context(), f)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultado)
}

func (ctl *ProtocolitoController) ExportarProtocolito(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctl.svc.Exportar(c.Request.Context(), c.Query("q"), &buf); err != nil {
		utils.ResponderError(c, err)
		return
	}
	descargar(c, "protocolito.xlsx", contentTypeXLSX, buf.Bytes())
}
