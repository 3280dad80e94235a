package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"api_notaria/src/middleware"
	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

const formatoFecha = "2006-01-02"

type CalendarController struct {
	svc *services.CalendarioService
}

func NewCalendarController(svc *services.CalendarioService) *CalendarController {
	return &CalendarController{svc: svc}
}

func abogadoSesion(c *gin.Context) (int, bool) {
	claims := middleware.ClaimsDe(c)
	if claims == nil || claims.AbogadoID() == 0 {
		utils.ResponderError(c, utils.ErrNoAutorizado)
		return 0, false
	}
	return claims.AbogadoID(), true
}

// Auth redirige al consentimiento de Microsoft; con ?redirect=false devuelve la URL.
func (ctl *CalendarController) Auth(c *gin.Context) {
	abogadoID, ok := abogadoSesion(c)
	if !ok {
		return
	}
	url, err := ctl.svc.URLAutorizacion(c.Request.Context(), abogadoID)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	if c.Query("redirect") == "false" {
		c.JSON(http.StatusOK, gin.H{"url": url})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback es público: Microsoft redirige aquí con code y state.
func (ctl *CalendarController) Callback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		log.Printf("Microsoft rechazó la autorización: %s %s", e, c.Query("error_description"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Autorización rechazada", "detalle": c.Query("error_description")})
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan los parámetros code y state"})
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	abogadoID, err := ctl.svc.Callback(ctx, state, code)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendario conectado", "abogadoId": abogadoID})
}

func fechaQuery(c *gin.Context, nombre string, porDefecto time.Time) (time.Time, error) {
	v := c.Query(nombre)
	if v == "" {
		return porDefecto, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(formatoFecha, v)
	if err != nil {
		return time.Time{}, utils.NewValidationError(nombre, "Use el formato AAAA-MM-DD")
	}
	return t, nil
}

// GetEventos lista la agenda entre ?desde y ?hasta (por defecto, hoy y los 7 días siguientes).
func (ctl *CalendarController) GetEventos(c *gin.Context) {
	abogadoID, ok := abogadoSesion(c)
	if !ok {
		return
	}
	hoy := services.NowFunc().Truncate(24 * time.Hour)
	desde, err := fechaQuery(c, "desde", hoy)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	hasta, err := fechaQuery(c, "hasta", desde.AddDate(0, 0, 7))
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	if !hasta.After(desde) {
		utils.ResponderError(c, utils.NewValidationError("hasta", "Debe ser posterior a desde"))
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	eventos, err := ctl.svc.ListarEventos(ctx, abogadoID, desde, hasta)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventos)
}

func (ctl *CalendarController) CreateEvento(c *gin.Context) {
	abogadoID, ok := abogadoSesion(c)
	if !ok {
		return
	}
	var cita models.Cita
	if err := c.ShouldBindJSON(&cita); err != nil {
		utils.ResponderBinding(c, err)
		return
	}
	ctx, cancel := contexto(c)
	defer cancel()

	evento, err := ctl.svc.CrearEvento(ctx, abogadoID, cita)
	if err != nil {
		utils.ResponderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, evento)
}
