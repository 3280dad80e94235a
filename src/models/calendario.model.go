package models

import "time"

// Cita es el cuerpo de POST /api/calendar/eventos.
type Cita struct {
	Asunto     string    `json:"asunto" binding:"required,max=200"`
	Inicio     time.Time `json:"inicio" binding:"required"`
	Fin        time.Time `json:"fin" binding:"required,gtfield=Inicio"`
	ClienteID  int       `json:"clienteId" binding:"omitempty,gt=0"`
	Ubicacion  string    `json:"ubicacion" binding:"max=200"`
	Notas      string    `json:"notas" binding:"max=2000"`
	Asistentes []string  `json:"asistentes" binding:"omitempty,dive,email"`
}

// EventoCalendario es un evento del calendario de Outlook del abogado.
type EventoCalendario struct {
	ID          string    `json:"id"`
	Asunto      string    `json:"asunto"`
	Inicio      time.Time `json:"inicio"`
	Fin         time.Time `json:"fin"`
	Ubicacion   string    `json:"ubicacion,omitempty"`
	Organizador string    `json:"organizador,omitempty"`
	Enlace      string    `json:"enlace,omitempty"`
}
