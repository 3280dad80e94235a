package services_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/config"
	"api_notaria/src/models"
	"api_notaria/src/repository/memoria"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

func TestNormalizarTelefono(t *testing.T) {
	casos := []struct {
		entrada string
		want    string
		valido  bool
	}{
		{"9611234567", "529611234567", true},
		{"+52 961 123 4567", "529611234567", true},
		{"(961) 123-4567", "529611234567", true},
		{"529611234567", "529611234567", true},
		{"12345", "", false},
		{"5555555555", "", false},
		{"0961123456", "", false},
	}
	for _, c := range casos {
		t.Run(c.entrada, func(t *testing.T) {
			got, err := services.NormalizarTelefono(c.entrada)
			if !c.valido {
				var vErr *utils.ValidationError
				assert.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

// whatsappFalso simula la API de WhatsApp Cloud para el teléfono 123.
func whatsappFalso(t *testing.T, mensajes *[]map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-wa", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/123/media":
			if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
				return
			}
			assert.Equal(t, "whatsapp", r.FormValue("messaging_product"))
			archivo, cabecera, err := r.FormFile("file")
			if !assert.NoError(t, err) {
				return
			}
			defer archivo.Close()
			data, _ := io.ReadAll(archivo)
			assert.True(t, strings.HasPrefix(string(data), "%PDF"))
			assert.True(t, strings.HasSuffix(cabecera.Filename, ".pdf"))
			_, _ = w.Write([]byte(`{"id":"media-1"}`))
		case "/123/messages":
			var m map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
			*mensajes = append(*mensajes, m)
			_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestEnviarReciboPorWhatsApp(t *testing.T) {
	relojFijo(t)
	ctx := context.Background()
	var mensajes []map[string]any
	srv := whatsappFalso(t, &mensajes)
	defer srv.Close()

	recibos := memoria.NewRecibos()
	r, err := services.NewReciboService(recibos, memoria.NewSecuencias()).Emitir(ctx, nuevoRecibo(200), "admin")
	require.NoError(t, err)

	svc := services.NewWhatsAppService(
		config.WhatsAppConfig{Token: "token-wa", PhoneID: "123", APIURL: srv.URL},
		recibos, memoria.NewPresupuestos(), "Notaría 1",
	)
	envio, err := svc.EnviarRecibo(ctx, r.NumeroRecibo, "961 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "media-1", envio.MediaID)
	assert.Equal(t, "wamid.1", envio.MensajeID)
	assert.Equal(t, "529611234567", envio.Telefono)

	require.Len(t, mensajes, 1)
	assert.Equal(t, "document", mensajes[0]["type"])
	assert.Equal(t, "529611234567", mensajes[0]["to"])
	doc := mensajes[0]["document"].(map[string]any)
	assert.Equal(t, "media-1", doc["id"])
	assert.Equal(t, "recibo_000001.pdf", doc["filename"])
}

func TestWhatsAppErrorDelServicio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"token inválido"}}`))
	}))
	defer srv.Close()

	svc := services.NewWhatsAppService(
		config.WhatsAppConfig{Token: "token-wa", PhoneID: "123", APIURL: srv.URL},
		memoria.NewRecibos(), memoria.NewPresupuestos(), "Notaría 1",
	)
	_, err := svc.EnviarDocumento(context.Background(), "9611234567", "a.pdf", "", []byte("%PDF-1.3"))
	var upErr *utils.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "WhatsApp", upErr.Servicio)
	assert.Equal(t, http.StatusUnauthorized, upErr.Status)
	assert.Contains(t, upErr.Cuerpo, "token inválido")
}

func TestWhatsAppNoConfigurado(t *testing.T) {
	svc := services.NewWhatsAppService(config.WhatsAppConfig{}, memoria.NewRecibos(), memoria.NewPresupuestos(), "")
	_, err := svc.EnviarRecibo(context.Background(), 1, "9611234567")
	assert.ErrorIs(t, err, utils.ErrNoConfigurado)
}

func calendarioDePrueba(t *testing.T, graph string) (*services.CalendarioService, *memoria.Clientes) {
	t.Helper()
	tokens := memoria.NewTokens()
	require.NoError(t, tokens.Guardar(context.Background(), models.TokenOAuth{
		AbogadoID:   1,
		AccessToken: "tok-graph",
		TokenType:   "Bearer",
		Expira:      time.Now().Add(time.Hour),
	}))
	clientes := memoria.NewClientes()
	cfg := config.MicrosoftConfig{ClientID: "app", ClientSecret: "secreto", TenantID: "common", GraphURL: graph}
	return services.NewCalendarioService(cfg, tokens, clientes, nil), clientes
}

func TestListarEventosCalendario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/calendarView", r.URL.Path)
		assert.Equal(t, "Bearer tok-graph", r.Header.Get("Authorization"))
		assert.Equal(t, `outlook.timezone="UTC"`, r.Header.Get("Prefer"))
		assert.Equal(t, "2026-03-05T00:00:00Z", r.URL.Query().Get("startDateTime"))
		_, _ = w.Write([]byte(`{"value":[{"id":"ev1","subject":"Firma","start":{"dateTime":"2026-03-05T10:00:00.0000000","timeZone":"UTC"},"end":{"dateTime":"2026-03-05T11:00:00.0000000","timeZone":"UTC"},"location":{"displayName":"Sala 1"},"organizer":{"emailAddress":{"name":"Lic. Pérez","address":"perez@notaria.mx"}}}]}`))
	}))
	defer srv.Close()

	svc, _ := calendarioDePrueba(t, srv.URL)
	desde := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	eventos, err := svc.ListarEventos(context.Background(), 1, desde, desde.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, eventos, 1)
	assert.Equal(t, "Firma", eventos[0].Asunto)
	assert.Equal(t, "Sala 1", eventos[0].Ubicacion)
	assert.Equal(t, "Lic. Pérez", eventos[0].Organizador)
	assert.Equal(t, time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), eventos[0].Inicio)

	_, err = svc.ListarEventos(context.Background(), 2, desde, desde.AddDate(0, 0, 1))
	var vErr *utils.ValidationError
	assert.ErrorAs(t, err, &vErr, "el abogado 2 no conectó su calendario")
}

func TestCrearEventoMarcaCitaDelCliente(t *testing.T) {
	var cuerpo map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/events", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&cuerpo))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"nuevo","subject":"Firma de escritura","start":{"dateTime":"2026-03-06T16:00:00.0000000"},"end":{"dateTime":"2026-03-06T17:00:00.0000000"}}`))
	}))
	defer srv.Close()

	svc, clientes := calendarioDePrueba(t, srv.URL)
	ctx := context.Background()
	require.NoError(t, clientes.Crear(ctx, &models.Cliente{ID: 4, Nombre: "Ana López", Estado: models.EstadoEnEspera, EnEspera: true}))

	inicio := time.Date(2026, 3, 6, 16, 0, 0, 0, time.UTC)
	ev, err := svc.CrearEvento(ctx, 1, models.Cita{
		Asunto:     "Firma de escritura",
		Inicio:     inicio,
		Fin:        inicio.Add(time.Hour),
		ClienteID:  4,
		Asistentes: []string{"ana@correo.mx"},
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo", ev.ID)
	assert.Equal(t, "Firma de escritura", cuerpo["subject"])
	assert.Contains(t, cuerpo["body"].(map[string]any)["content"], "Cliente #4: Ana López")
	assert.Len(t, cuerpo["attendees"], 1)

	c, err := clientes.ObtenerPorID(ctx, 4)
	require.NoError(t, err)
	assert.True(t, c.TieneCita)
}

func TestGraphErrorEsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"ErrorAccessDenied"}}`))
	}))
	defer srv.Close()

	svc, _ := calendarioDePrueba(t, srv.URL)
	desde := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	_, err := svc.ListarEventos(context.Background(), 1, desde, desde.Add(time.Hour))
	var upErr *utils.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "Microsoft Graph", upErr.Servicio)
	assert.Equal(t, http.StatusForbidden, upErr.Status)
}

func TestURLAutorizacionYEstadoDeUnSoloUso(t *testing.T) {
	svc, _ := calendarioDePrueba(t, "http://graph.invalid")
	ctx := context.Background()

	u, err := svc.URLAutorizacion(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, u, "login.microsoftonline.com/common/oauth2/v2.0/authorize")
	assert.Contains(t, u, "access_type=offline")
	assert.Contains(t, u, "prompt=select_account")
	assert.Contains(t, u, "client_id=app")

	_, err = svc.Callback(ctx, "estado-desconocido", "codigo")
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Campos, "state")
}

func TestCalendarioNoConfigurado(t *testing.T) {
	svc := services.NewCalendarioService(config.MicrosoftConfig{}, memoria.NewTokens(), memoria.NewClientes(), nil)
	_, err := svc.URLAutorizacion(context.Background(), 1)
	assert.ErrorIs(t, err, utils.ErrNoConfigurado)
}
