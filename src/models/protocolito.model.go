package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados de un protocolito
const (
	ProtocolitoPendiente = "pendiente"
	ProtocolitoEnProceso = "en proceso"
	ProtocolitoConcluido = "concluido"
	ProtocolitoCancelado = "cancelado"
)

var EstadosProtocolito = []string{ProtocolitoPendiente, ProtocolitoEnProceso, ProtocolitoConcluido, ProtocolitoCancelado}

type Protocolito struct {
	ObjectID             primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	NumeroTramite        string             `json:"numeroTramite" bson:"numeroTramite" binding:"required,max=30"`
	Fecha                time.Time          `json:"fecha" bson:"fecha"`
	Cliente              string             `json:"cliente" bson:"cliente" binding:"required,max=150"`
	Abogado              string             `json:"abogado" bson:"abogado" binding:"max=100"`
	TipoTramite          string             `json:"tipoTramite" bson:"tipoTramite" binding:"max=150"`
	Monto                float64            `json:"monto" bson:"monto" binding:"gte=0"`
	Estado               string             `json:"estado" bson:"estado" binding:"omitempty,oneof=pendiente 'en proceso' concluido cancelado"`
	ReciboEntregado      bool               `json:"reciboEntregado" bson:"reciboEntregado"`
	DocumentosEntregados bool               `json:"documentosEntregados" bson:"documentosEntregados"`
	Observaciones        string             `json:"observaciones,omitempty" bson:"observaciones,omitempty"`
	CreadoEn             time.Time          `json:"creadoEn" bson:"creadoEn"`
	ActualizadoEn        time.Time          `json:"actualizadoEn" bson:"actualizadoEn"`
}

// ResultadoImportacion resume una importación de Excel.
type ResultadoImportacion struct {
	Insertados   int                `json:"insertados"`
	Actualizados int                `json:"actualizados"`
	Errores      []ErrorImportacion `json:"errores"`
}

type ErrorImportacion struct {
	Fila    int    `json:"fila"`
	Mensaje string `json:"mensaje"`
}
