package utils

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNoEncontrado   = errors.New("registro no encontrado")
	ErrDuplicado      = errors.New("el registro ya existe")
	ErrSinDisponibles = errors.New("no hay disponibles")
	ErrNoAutorizado   = errors.New("usuario no autenticado")
	ErrCredenciales   = errors.New("usuario o contraseña incorrectos")
	ErrProhibido      = errors.New("permiso denegado")
	ErrNoConfigurado  = errors.New("integración no configurada")
	ErrEstadoInvalido = errors.New("la operación no es válida en el estado actual")
	ErrEnlaceExpirado = errors.New("el enlace ha expirado")
)

// ValidationError reporta errores por campo, con el mismo formato que el campo Errores.
type ValidationError struct {
	Campos map[string][]string
}

func NewValidationError(campo, mensaje string) *ValidationError {
	return &ValidationError{Campos: map[string][]string{campo: {mensaje}}}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("errores de validación en %d campos", len(e.Campos))
}

// UpstreamError envuelve una respuesta no exitosa de un servicio externo.
type UpstreamError struct {
	Servicio string
	Status   int
	Cuerpo   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s respondió %d: %s", e.Servicio, e.Status, e.Cuerpo)
}

// ResponderError traduce un error de la capa de servicios a una respuesta HTTP.
func ResponderError(c *gin.Context, err error) {
	var vErr *ValidationError
	var valErrs validator.ValidationErrors
	var upErr *UpstreamError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "Errores": vErr.Campos})
	case errors.As(err, &valErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "Errores": TraducirErrores(valErrs)})
	case errors.Is(err, ErrNoEncontrado), errors.Is(err, mongo.ErrNoDocuments):
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro no encontrado"})
	case errors.Is(err, ErrDuplicado), mongo.IsDuplicateKeyError(err):
		c.JSON(http.StatusConflict, gin.H{"error": "El registro ya existe"})
	case errors.Is(err, ErrSinDisponibles):
		c.JSON(http.StatusConflict, gin.H{"error": "No hay disponibilidad en este momento"})
	case errors.Is(err, ErrEstadoInvalido):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoAutorizado), errors.Is(err, ErrCredenciales):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrProhibido):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permiso denegado"})
	case errors.Is(err, ErrEnlaceExpirado):
		c.JSON(http.StatusGone, gin.H{"error": "El enlace ha expirado"})
	case errors.Is(err, ErrNoConfigurado):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.As(err, &upErr):
		log.Printf("Error de %s: %v", upErr.Servicio, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error al comunicarse con " + upErr.Servicio, "detalle": upErr.Cuerpo})
	default:
		log.Printf("Error interno: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}

// ResponderBinding responde a un error de ShouldBindJSON.
func ResponderBinding(c *gin.Context, err error) {
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "Errores": TraducirErrores(valErrs)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido: " + err.Error()})
}
