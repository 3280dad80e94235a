package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"api_notaria/src/config"
	"api_notaria/src/models"
	"api_notaria/src/utils"
)

const (
	vigenciaEstadoOAuth = 10 * time.Minute
	formatoGraph        = "2006-01-02T15:04:05.9999999"
)

var scopesCalendario = []string{"offline_access", "User.Read", "Calendars.ReadWrite"}

type estadoPendiente struct {
	abogadoID int
	expira    time.Time
}

// CalendarioService conecta el calendario de Outlook de cada abogado por OAuth2.
type CalendarioService struct {
	cfg      config.MicrosoftConfig
	oauth    *oauth2.Config
	tokens   TokenRepository
	clientes ClienteRepository
	cache    *CacheService

	mu       sync.Mutex
	estados  map[string]estadoPendiente
	graphURL string
}

func NewCalendarioService(cfg config.MicrosoftConfig, tokens TokenRepository, clientes ClienteRepository, cache *CacheService) *CalendarioService {
	return &CalendarioService{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     microsoft.AzureADEndpoint(cfg.TenantID),
			Scopes:       scopesCalendario,
		},
		tokens:   tokens,
		clientes: clientes,
		cache:    cache,
		estados:  make(map[string]estadoPendiente),
		graphURL: strings.TrimRight(cfg.GraphURL, "/"),
	}
}

// URLAutorizacion genera la URL de consentimiento de Microsoft para el abogado.
func (svc *CalendarioService) URLAutorizacion(ctx context.Context, abogadoID int) (string, error) {
	if !svc.cfg.Habilitado() {
		return "", fmt.Errorf("calendario: %w", utils.ErrNoConfigurado)
	}
	state := uuid.NewString()
	if svc.cache.Habilitado() {
		svc.cache.Guardar(ctx, CacheEstadoOAuth, state, abogadoID, vigenciaEstadoOAuth)
	} else {
		svc.mu.Lock()
		svc.estados[state] = estadoPendiente{abogadoID: abogadoID, expira: NowFunc().Add(vigenciaEstadoOAuth)}
		svc.mu.Unlock()
	}
	return svc.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// tomarEstado consume el state; solo puede usarse una vez.
func (svc *CalendarioService) tomarEstado(ctx context.Context, state string) (int, bool) {
	if svc.cache.Habilitado() {
		valor, ok := svc.cache.Tomar(ctx, CacheEstadoOAuth, state)
		if !ok {
			return 0, false
		}
		id, err := strconv.Atoi(valor)
		return id, err == nil
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	ahora := NowFunc()
	for s, e := range svc.estados {
		if ahora.After(e.expira) {
			delete(svc.estados, s)
		}
	}
	e, ok := svc.estados[state]
	delete(svc.estados, state)
	return e.abogadoID, ok
}

// Callback intercambia el código por un token y lo guarda para el abogado que inició el flujo.
func (svc *CalendarioService) Callback(ctx context.Context, state, code string) (int, error) {
	if !svc.cfg.Habilitado() {
		return 0, fmt.Errorf("calendario: %w", utils.ErrNoConfigurado)
	}
	abogadoID, ok := svc.tomarEstado(ctx, state)
	if !ok {
		return 0, utils.NewValidationError("state", "El estado de autorización no es válido o expiró")
	}
	if code == "" {
		return 0, utils.NewValidationError("code", "Microsoft no devolvió un código de autorización")
	}
	tok, err := svc.oauth.Exchange(ctx, code)
	if err != nil {
		return 0, errorOAuth(err)
	}
	if err := svc.tokens.Guardar(ctx, aTokenOAuth(abogadoID, tok)); err != nil {
		return 0, fmt.Errorf("guardando token de calendario: %w", err)
	}
	log.Printf("📅 Calendario conectado para el abogado %d", abogadoID)
	return abogadoID, nil
}

func aTokenOAuth(abogadoID int, tok *oauth2.Token) models.TokenOAuth {
	return models.TokenOAuth{
		AbogadoID:    abogadoID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expira:       tok.Expiry,
	}
}

func errorOAuth(err error) error {
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) && rErr.Response != nil {
		return &utils.UpstreamError{Servicio: "Microsoft", Status: rErr.Response.StatusCode, Cuerpo: string(rErr.Body)}
	}
	return fmt.Errorf("oauth2 Microsoft: %w", err)
}

// tokenPersistente guarda el token cada vez que el TokenSource lo renueva.
type tokenPersistente struct {
	base      oauth2.TokenSource
	repo      TokenRepository
	abogadoID int

	mu     sync.Mutex
	ultimo string
}

func (t *tokenPersistente) Token() (*oauth2.Token, error) {
	tok, err := t.base.Token()
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if tok.AccessToken != t.ultimo {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.repo.Guardar(ctx, aTokenOAuth(t.abogadoID, tok)); err != nil {
			log.Printf("Error guardando token renovado del abogado %d: %v", t.abogadoID, err)
		}
		t.ultimo = tok.AccessToken
	}
	return tok, nil
}

func (svc *CalendarioService) clienteHTTP(ctx context.Context, abogadoID int) (*http.Client, error) {
	if !svc.cfg.Habilitado() {
		return nil, fmt.Errorf("calendario: %w", utils.ErrNoConfigurado)
	}
	guardado, err := svc.tokens.Obtener(ctx, abogadoID)
	if errors.Is(err, utils.ErrNoEncontrado) {
		return nil, utils.NewValidationError("calendario", "El abogado no ha conectado su calendario de Outlook")
	}
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{
		AccessToken:  guardado.AccessToken,
		RefreshToken: guardado.RefreshToken,
		TokenType:    guardado.TokenType,
		Expiry:       guardado.Expira,
	}
	ts := &tokenPersistente{
		base:      svc.oauth.TokenSource(ctx, tok),
		repo:      svc.tokens,
		abogadoID: abogadoID,
		ultimo:    tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

type graphFecha struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvento struct {
	ID       string     `json:"id,omitempty"`
	Subject  string     `json:"subject"`
	Start    graphFecha `json:"start"`
	End      graphFecha `json:"end"`
	Location *struct {
		DisplayName string `json:"displayName"`
	} `json:"location,omitempty"`
	Organizer *struct {
		EmailAddress struct {
			Name    string `json:"name"`
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"organizer,omitempty"`
	WebLink string `json:"webLink,omitempty"`
}

func (g graphEvento) aEvento() models.EventoCalendario {
	ev := models.EventoCalendario{ID: g.ID, Asunto: g.Subject, Enlace: g.WebLink}
	ev.Inicio, _ = time.Parse(formatoGraph, g.Start.DateTime)
	ev.Fin, _ = time.Parse(formatoGraph, g.End.DateTime)
	if g.Location != nil {
		ev.Ubicacion = g.Location.DisplayName
	}
	if g.Organizer != nil {
		ev.Organizador = g.Organizer.EmailAddress.Name
	}
	return ev
}

func (svc *CalendarioService) llamar(ctx context.Context, cliente *http.Client, metodo, ruta string, cuerpo, destino any) error {
	var body io.Reader
	if cuerpo != nil {
		data, err := json.Marshal(cuerpo)
		if err != nil {
			return fmt.Errorf("serializando petición a Graph: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, metodo, svc.graphURL+ruta, body)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := cliente.Do(req)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			return errorOAuth(rErr)
		}
		return fmt.Errorf("llamando a Graph: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("leyendo respuesta de Graph: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &utils.UpstreamError{Servicio: "Microsoft Graph", Status: resp.StatusCode, Cuerpo: string(data)}
	}
	if destino != nil {
		if err := json.Unmarshal(data, destino); err != nil {
			return fmt.Errorf("decodificando respuesta de Graph: %w", err)
		}
	}
	return nil
}

// ListarEventos devuelve la vista de calendario del abogado entre desde y hasta.
func (svc *CalendarioService) ListarEventos(ctx context.Context, abogadoID int, desde, hasta time.Time) ([]models.EventoCalendario, error) {
	if !hasta.After(desde) {
		return nil, utils.NewValidationError("hasta", "La fecha final debe ser posterior a la inicial")
	}
	cliente, err := svc.clienteHTTP(ctx, abogadoID)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("startDateTime", desde.UTC().Format(time.RFC3339))
	q.Set("endDateTime", hasta.UTC().Format(time.RFC3339))
	q.Set("$orderby", "start/dateTime")
	q.Set("$top", "100")

	var resp struct {
		Value []graphEvento `json:"value"`
	}
	if err := svc.llamar(ctx, cliente, http.MethodGet, "/me/calendarView?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	eventos := make([]models.EventoCalendario, 0, len(resp.Value))
	for _, g := range resp.Value {
		eventos = append(eventos, g.aEvento())
	}
	return eventos, nil
}

// CrearEvento agenda una cita; si indica cliente, el cliente queda marcado con cita.
func (svc *CalendarioService) CrearEvento(ctx context.Context, abogadoID int, cita models.Cita) (models.EventoCalendario, error) {
	var cliente models.Cliente
	if cita.ClienteID > 0 {
		var err error
		if cliente, err = svc.clientes.ObtenerPorID(ctx, cita.ClienteID); err != nil {
			return models.EventoCalendario{}, err
		}
	}
	httpCliente, err := svc.clienteHTTP(ctx, abogadoID)
	if err != nil {
		return models.EventoCalendario{}, err
	}

	notas := cita.Notas
	if cliente.ID > 0 {
		notas = strings.TrimSpace(fmt.Sprintf("Cliente #%d: %s\n%s", cliente.ID, cliente.Nombre, notas))
	}
	cuerpo := map[string]any{
		"subject": cita.Asunto,
		"start":   graphFecha{DateTime: cita.Inicio.UTC().Format(formatoGraph), TimeZone: "UTC"},
		"end":     graphFecha{DateTime: cita.Fin.UTC().Format(formatoGraph), TimeZone: "UTC"},
		"body":    map[string]string{"contentType": "text", "content": notas},
	}
	if cita.Ubicacion != "" {
		cuerpo["location"] = map[string]string{"displayName": cita.Ubicacion}
	}
	if len(cita.Asistentes) > 0 {
		asistentes := make([]map[string]any, 0, len(cita.Asistentes))
		for _, correo := range cita.Asistentes {
			asistentes = append(asistentes, map[string]any{
				"emailAddress": map[string]string{"address": correo},
				"type":         "required",
			})
		}
		cuerpo["attendees"] = asistentes
	}

	var creado graphEvento
	if err := svc.llamar(ctx, httpCliente, http.MethodPost, "/me/events", cuerpo, &creado); err != nil {
		return models.EventoCalendario{}, err
	}
	if cliente.ID > 0 && !cliente.TieneCita {
		conCita := true
		if _, err := svc.clientes.ActualizarContacto(ctx, cliente.ID, models.ActualizarCliente{TieneCita: &conCita}); err != nil {
			log.Printf("Error marcando cita del cliente %d: %v", cliente.ID, err)
		}
	}
	return creado.aEvento(), nil
}
