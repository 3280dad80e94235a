package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"api_notaria/src/models"
	"api_notaria/src/services"
)

type validadorFalso map[string]*services.Claims

func (v validadorFalso) Validar(token string) (*services.Claims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, errors.New("token inválido")
}

func nuevoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validador := validadorFalso{
		"admin":    {Usuario: "admin", Rol: models.RolAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}},
		"abogado1": {Usuario: "abogado1", Rol: models.RolAbogado, RegisteredClaims: jwt.RegisteredClaims{Subject: "2"}},
	}
	r := gin.New()
	r.GET("/privado", RequiereAuth(validador), func(c *gin.Context) {
		claims := ClaimsDe(c)
		c.JSON(http.StatusOK, gin.H{"usuario": claims.Usuario, "id": claims.AbogadoID()})
	})
	r.GET("/admin", RequiereAuth(validador), RequiereRol(models.RolAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/sin-auth", RequiereRol(models.RolAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func hacer(r http.Handler, ruta, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, ruta, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequiereAuth(t *testing.T) {
	r := nuevoRouter()

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"sin encabezado", "", http.StatusUnauthorized},
		{"sin Bearer", "admin", http.StatusUnauthorized},
		{"Bearer vacío", "Bearer  ", http.StatusUnauthorized},
		{"token inválido", "Bearer otro", http.StatusUnauthorized},
		{"token válido", "Bearer abogado1", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := hacer(r, "/privado", tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := hacer(r, "/privado", "Bearer abogado1")
	assert.JSONEq(t, `{"usuario":"abogado1","id":2}`, w.Body.String())
}

func TestRequiereRol(t *testing.T) {
	r := nuevoRouter()

	assert.Equal(t, http.StatusNoContent, hacer(r, "/admin", "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, hacer(r, "/admin", "Bearer abogado1").Code)
	assert.Equal(t, http.StatusUnauthorized, hacer(r, "/sin-auth", "").Code)
}
