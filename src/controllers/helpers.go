package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"api_notaria/src/middleware"
)

const timeoutPeticion = 10 * time.Second

// contexto limita cada petición a 10 segundos.
func contexto(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeoutPeticion)
}

// paramInt lee un parámetro de ruta entero positivo; si no es válido responde 400.
func paramInt(c *gin.Context, nombre string) (int, bool) {
	valor := c.Param(nombre)
	n, err := strconv.Atoi(valor)
	if err != nil || n <= 0 {
		message := "Error: " + valor + " no es un " + nombre + " válido"
		log.Println(message)
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return 0, false
	}
	return n, true
}

// usuarioActual devuelve el usuario de la sesión para los campos emitidoPor/creadoPor.
func usuarioActual(c *gin.Context) string {
	if claims := middleware.ClaimsDe(c); claims != nil {
		return claims.Usuario
	}
	return ""
}

func descargar(c *gin.Context, nombre, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, contentType, data)
}

func descargarPDF(c *gin.Context, nombre string, data []byte) {
	descargar(c, nombre, "application/pdf", data)
}
