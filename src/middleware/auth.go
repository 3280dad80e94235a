// Package middleware contiene los middlewares de gin de la API.
package middleware

import (
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"api_notaria/src/services"
)

const claveClaims = "claims"

// ValidadorToken valida el JWT de la sesión; lo implementa services.AuthService.
type ValidadorToken interface {
	Validar(token string) (*services.Claims, error)
}

// RequiereAuth exige un token Bearer válido y guarda los claims en el contexto.
func RequiereAuth(validador ValidadorToken) gin.HandlerFunc {
	return func(c *gin.Context) {
		encabezado := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(encabezado, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Se requiere iniciar sesión"})
			return
		}
		claims, err := validador.Validar(strings.TrimSpace(token))
		if err != nil {
			log.Printf("Token rechazado para %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sesión inválida o expirada"})
			return
		}
		c.Set(claveClaims, claims)
		c.Next()
	}
}

// RequiereRol deja pasar solo a los roles indicados. Debe ir después de RequiereAuth.
func RequiereRol(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsDe(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Se requiere iniciar sesión"})
			return
		}
		if !slices.Contains(roles, claims.Rol) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permiso denegado"})
			return
		}
		c.Next()
	}
}

// ClaimsDe devuelve los claims de la sesión actual, o nil.
func ClaimsDe(c *gin.Context) *services.Claims {
	v, ok := c.Get(claveClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}
