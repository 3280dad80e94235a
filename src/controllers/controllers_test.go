package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/controllers"
	"api_notaria/src/excel"
	"api_notaria/src/middleware"
	"api_notaria/src/models"
	"api_notaria/src/repository/memoria"
	"api_notaria/src/routes"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

const secretoPrueba = "secreto-de-prueba"

type servidor struct {
	router *gin.Engine
	admin  string
	normal string
}

// nuevoServidor arma la API completa sobre repositorios en memoria, con un admin,
// un abogado y una sala.
func nuevoServidor(t *testing.T) servidor {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitValidators()
	ctx := context.Background()

	secuencias := memoria.NewSecuencias()
	abogadoRepo := memoria.NewAbogados()
	clienteRepo := memoria.NewClientes()
	salaRepo := memoria.NewSalas()

	abogadoSvc := services.NewAbogadoService(abogadoRepo, secuencias, nil)
	salaSvc := services.NewSalaService(salaRepo, nil)
	asignacionSvc := services.NewAsignacionService(abogadoRepo, clienteRepo, salaRepo, secuencias, nil, nil)
	authSvc := services.NewAuthService(abogadoRepo, secretoPrueba, time.Hour)

	admin, err := abogadoSvc.Crear(ctx, models.NuevoAbogado{Nombre: "Administrador", Usuario: "admin", Password: "admin123", Rol: models.RolAdmin})
	require.NoError(t, err)
	abogado, err := abogadoSvc.Crear(ctx, models.NuevoAbogado{Nombre: "Lic. Ana Pérez", Usuario: "ana", Password: "ana12345"})
	require.NoError(t, err)
	_, err = salaSvc.Crear(ctx, "Sala 1")
	require.NoError(t, err)

	tokenAdmin, _, err := authSvc.Firmar(admin)
	require.NoError(t, err)
	tokenAbogado, _, err := authSvc.Firmar(abogado)
	require.NoError(t, err)

	router := gin.New()
	auth := middleware.RequiereAuth(authSvc)
	routes.AuthRoute(router, controllers.NewAuthController(authSvc, abogadoSvc), auth)
	routes.ClienteRoute(router, controllers.NewClienteController(services.NewClienteService(clienteRepo), asignacionSvc), auth)
	routes.ReciboRoute(router, controllers.NewReciboController(
		services.NewReciboService(memoria.NewRecibos(), secuencias), "Notaría 1"), auth)
	routes.ProtocolitoRoute(router, controllers.NewProtocolitoController(
		services.NewProtocolitoService(memoria.NewProtocolitos(), nil)), auth)

	return servidor{router: router, admin: "Bearer " + tokenAdmin, normal: "Bearer " + tokenAbogado}
}

func (s servidor) hacer(t *testing.T, metodo, ruta, token string, cuerpo any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if cuerpo != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(cuerpo))
	}
	req := httptest.NewRequest(metodo, ruta, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodificar[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	s := nuevoServidor(t)

	w := s.hacer(t, http.MethodPost, "/api/auth/login", "", gin.H{"usuario": "Admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sesion := decodificar[services.Sesion](t, w)
	assert.NotEmpty(t, sesion.Token)
	assert.Equal(t, models.RolAdmin, sesion.Abogado.Rol)

	w = s.hacer(t, http.MethodGet, "/api/auth/me", "Bearer "+sesion.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decodificar[models.Abogado](t, w).Usuario)

	w = s.hacer(t, http.MethodPost, "/api/auth/login", "", gin.H{"usuario": "admin", "password": "otra"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.hacer(t, http.MethodPost, "/api/auth/login", "", gin.H{"usuario": "admin"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodificar[struct{ Errores map[string][]string }](t, w)
	assert.Contains(t, resp.Errores, "password")
}

func TestRegistroSoloAdmin(t *testing.T) {
	s := nuevoServidor(t)
	nuevo := gin.H{"nombre": "Lic. Beto", "usuario": "beto", "password": "beto12345"}

	assert.Equal(t, http.StatusForbidden, s.hacer(t, http.MethodPost, "/api/auth/registro", s.normal, nuevo).Code)
	assert.Equal(t, http.StatusCreated, s.hacer(t, http.MethodPost, "/api/auth/registro", s.admin, nuevo).Code)
	assert.Equal(t, http.StatusBadRequest, s.hacer(t, http.MethodPost, "/api/auth/registro", s.admin, nuevo).Code)
}

func TestClientesAsignacionYEspera(t *testing.T) {
	s := nuevoServidor(t)

	assert.Equal(t, http.StatusUnauthorized, s.hacer(t, http.MethodPost, "/api/clientes", "", gin.H{"nombre": "Juan"}).Code)

	w := s.hacer(t, http.MethodPost, "/api/clientes", s.normal, gin.H{"nombre": "Juan López"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	primero := decodificar[struct {
		Message string         `json:"message"`
		Cliente models.Cliente `json:"cliente"`
	}](t, w)
	assert.Equal(t, "Cliente asignado", primero.Message)
	require.NotNil(t, primero.Cliente.AbogadoAsignado)
	assert.Equal(t, "Sala 1", primero.Cliente.Sala)

	// el único abogado ya está ocupado
	w = s.hacer(t, http.MethodPost, "/api/clientes", s.normal, gin.H{"nombre": "Rosa Díaz", "tieneCita": true})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "lista de espera")

	w = s.hacer(t, http.MethodGet, "/api/clientes/espera", s.normal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cola := decodificar[[]models.Cliente](t, w)
	require.Len(t, cola, 1)
	assert.Equal(t, "Rosa Díaz", cola[0].Nombre)

	w = s.hacer(t, http.MethodPost, "/api/clientes", s.normal, gin.H{"nombre": "Pepe", "telefono": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "telefono")

	assert.Equal(t, http.StatusBadRequest, s.hacer(t, http.MethodGet, "/api/clientes/abc", s.normal, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.hacer(t, http.MethodGet, "/api/clientes/99", s.normal, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.hacer(t, http.MethodGet, "/api/clientes?estado=perdido", s.normal, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.hacer(t, http.MethodDelete, "/api/clientes/1", s.normal, nil).Code)
	assert.Equal(t, http.StatusOK, s.hacer(t, http.MethodDelete, "/api/clientes/1", s.admin, nil).Code)
}

func TestReciboLinkPublico(t *testing.T) {
	s := nuevoServidor(t)

	w := s.hacer(t, http.MethodPost, "/api/recibos", s.normal, gin.H{
		"numeroTramite": "T-100", "cliente": "Ana", "concepto": "Compraventa",
		"formaPago": "efectivo", "abono": 500, "totalTramite": 2000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	recibo := decodificar[models.Recibo](t, w)
	assert.Equal(t, "ana", recibo.EmitidoPor)
	assert.Equal(t, 1500.0, recibo.Restante)

	w = s.hacer(t, http.MethodPost, "/api/recibos/1/link", s.normal, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	link := decodificar[struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}](t, w)
	require.NotEmpty(t, link.Token)

	w = s.hacer(t, http.MethodGet, link.URL, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	assert.Equal(t, http.StatusNotFound, s.hacer(t, http.MethodGet, "/api/recibos/link/no-existe", "", nil).Code)

	reloj := services.NowFunc
	t.Cleanup(func() { services.NowFunc = reloj })
	services.NowFunc = func() time.Time { return time.Now().UTC().Add(services.VigenciaLink + time.Hour) }

	assert.Equal(t, http.StatusGone, s.hacer(t, http.MethodGet, link.URL, "", nil).Code)
}

func subirArchivo(t *testing.T, s servidor, nombre string, contenido []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	parte, err := mw.CreateFormFile("archivo", nombre)
	require.NoError(t, err)
	_, err = parte.Write(contenido)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/protocolito/importar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", s.normal)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestImportarYExportarProtocolito(t *testing.T) {
	s := nuevoServidor(t)

	var libro bytes.Buffer
	require.NoError(t, excel.EscribirProtocolitos(&libro, []models.Protocolito{
		{NumeroTramite: "P-1", Cliente: "Ana", Estado: models.ProtocolitoPendiente, Monto: 100},
		{NumeroTramite: "P-2", Cliente: "Beto", Estado: models.ProtocolitoConcluido, Monto: 250},
	}))

	w := subirArchivo(t, s, "protocolito.xlsx", libro.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resultado := decodificar[models.ResultadoImportacion](t, w)
	assert.Equal(t, 2, resultado.Insertados)
	assert.Empty(t, resultado.Errores)

	assert.Equal(t, http.StatusBadRequest, subirArchivo(t, s, "protocolito.csv", []byte("a,b")).Code)
	assert.Equal(t, http.StatusBadRequest, subirArchivo(t, s, "roto.xlsx", []byte("no es excel")).Code)

	w = s.hacer(t, http.MethodGet, "/api/protocolito/P-2", s.normal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Beto", decodificar[models.Protocolito](t, w).Cliente)

	w = s.hacer(t, http.MethodGet, "/api/protocolito/exportar", s.normal, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "protocolito.xlsx")

	filas, errores, err := excel.LeerProtocolitos(w.Body)
	require.NoError(t, err)
	assert.Empty(t, errores)
	assert.Len(t, filas, 2)
}
