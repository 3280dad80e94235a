package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados de una escritura
const (
	EscrituraEnProceso = "en proceso"
	EscrituraFirmada   = "firmada"
	EscrituraInscrita  = "inscrita"
	EscrituraEntregada = "entregada"
	EscrituraCancelada = "cancelada"
)

var EstadosEscritura = []string{EscrituraEnProceso, EscrituraFirmada, EscrituraInscrita, EscrituraEntregada, EscrituraCancelada}

type Escritura struct {
	ObjectID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	NumeroEscritura string             `json:"numeroEscritura" bson:"numeroEscritura" binding:"required,max=30"`
	NumeroTramite   string             `json:"numeroTramite" bson:"numeroTramite" binding:"max=30"`
	ClienteID       int                `json:"clienteId" bson:"clienteId" binding:"gte=0"`
	AbogadoID       int                `json:"abogadoId" bson:"abogadoId" binding:"gte=0"`
	Acto            string             `json:"acto" bson:"acto" binding:"required,max=150"`
	Estado          string             `json:"estado" bson:"estado" binding:"omitempty,oneof='en proceso' firmada inscrita entregada cancelada"`
	FechaFirma      *time.Time         `json:"fechaFirma,omitempty" bson:"fechaFirma,omitempty"`
	Entregado       bool               `json:"entregado" bson:"entregado"`
	FechaEntrega    *time.Time         `json:"fechaEntrega,omitempty" bson:"fechaEntrega,omitempty"`
	RecibidoPor     string             `json:"recibidoPor,omitempty" bson:"recibidoPor,omitempty"`
	Observaciones   string             `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	CreadoEn        time.Time          `json:"creadoEn" bson:"creadoEn"`
	ActualizadoEn   time.Time          `json:"actualizadoEn" bson:"actualizadoEn"`
}

// FiltroEscrituras restringe el listado de escrituras.
type FiltroEscrituras struct {
	Estado    string
	AbogadoID int
}
