package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados del cliente en la cola
const (
	EstadoEnEspera  = "en espera"
	EstadoAsignado  = "asignado"
	EstadoAtendido  = "atendido"
	EstadoCancelado = "cancelado"
)

type Cliente struct {
	ObjectID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID               int                `json:"id" bson:"id"`
	Nombre           string             `json:"nombre" bson:"nombre"`
	Telefono         string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Motivo           string             `json:"motivo,omitempty" bson:"motivo,omitempty"`
	HoraLlegada      time.Time          `json:"horaLlegada" bson:"horaLlegada"`
	AbogadoAsignado  *int               `json:"abogadoAsignado" bson:"abogadoAsignado"`
	AbogadoPreferido *int               `json:"abogadoPreferido,omitempty" bson:"abogadoPreferido"`
	Sala             string             `json:"sala,omitempty" bson:"sala,omitempty"`
	Estado           string             `json:"estado" bson:"estado"`
	EnEspera         bool               `json:"enEspera" bson:"enEspera"`
	TieneCita        bool               `json:"tieneCita" bson:"tieneCita"`
	AtendidoEn       *time.Time         `json:"atendidoEn,omitempty" bson:"atendidoEn,omitempty"`
}

// NuevoCliente es el cuerpo de POST /api/clientes.
type NuevoCliente struct {
	Nombre           string `json:"nombre" binding:"required,min=2,max=100"`
	Telefono         string `json:"telefono" binding:"omitempty,celular"`
	Motivo           string `json:"motivo" binding:"max=200"`
	AbogadoPreferido *int   `json:"abogadoPreferido" binding:"omitempty,gt=0"`
	TieneCita        bool   `json:"tieneCita"`
}

// ActualizarCliente es el cuerpo de PUT /api/clientes/:id.
type ActualizarCliente struct {
	Nombre    *string `json:"nombre" binding:"omitempty,min=2,max=100"`
	Telefono  *string `json:"telefono" binding:"omitempty,celular"`
	Motivo    *string `json:"motivo" binding:"omitempty,max=200"`
	TieneCita *bool   `json:"tieneCita"`
}

// FiltroClientes restringe el listado de clientes.
type FiltroClientes struct {
	Estado string
	Desde  time.Time
	Hasta  time.Time
}
