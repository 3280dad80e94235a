package models

import "time"

// Tipos de evento emitidos por la cola de atención
const (
	EventoClienteAsignado   = "cliente.asignado"
	EventoClienteEnEspera   = "cliente.en_espera"
	EventoClienteCancelado  = "cliente.cancelado"
	EventoAbogadoLiberado   = "abogado.liberado"
	EventoSalaAsignada      = "sala.asignada"
	EventoSalaLiberada      = "sala.liberada"
	EventoJornadaReiniciada = "jornada.reiniciada"
)

type Evento struct {
	Tipo    string    `json:"tipo"`
	Fecha   time.Time `json:"fecha"`
	Cliente *Cliente  `json:"cliente,omitempty"`
	Abogado *Abogado  `json:"abogado,omitempty"`
	Sala    *Sala     `json:"sala,omitempty"`
}

// TokenOAuth guarda el token de Microsoft Graph de un abogado.
type TokenOAuth struct {
	AbogadoID    int       `bson:"abogadoId"`
	AccessToken  string    `bson:"accessToken"`
	RefreshToken string    `bson:"refreshToken"`
	TokenType    string    `bson:"tokenType"`
	Expira       time.Time `bson:"expira"`
}
