package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Recibo struct {
	ObjectID      primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	NumeroRecibo  int                `json:"numeroRecibo" bson:"numeroRecibo"`
	NumeroTramite string             `json:"numeroTramite" bson:"numeroTramite"`
	Cliente       string             `json:"cliente" bson:"cliente"`
	Concepto      string             `json:"concepto" bson:"concepto"`
	FormaPago     string             `json:"formaPago" bson:"formaPago"`
	Abono         float64            `json:"abono" bson:"abono"`
	TotalTramite  float64            `json:"totalTramite" bson:"totalTramite"`
	TotalPagado   float64            `json:"totalPagado" bson:"totalPagado"`
	Restante      float64            `json:"restante" bson:"restante"`
	Fecha         time.Time          `json:"fecha" bson:"fecha"`
	EmitidoPor    string             `json:"emitidoPor,omitempty" bson:"emitidoPor,omitempty"`
	Cancelado     bool               `json:"cancelado" bson:"cancelado"`
}

// NuevoRecibo es el cuerpo de POST /api/recibos.
type NuevoRecibo struct {
	NumeroTramite string  `json:"numeroTramite" binding:"required,max=30"`
	Cliente       string  `json:"cliente" binding:"required,max=150"`
	Concepto      string  `json:"concepto" binding:"required,max=200"`
	FormaPago     string  `json:"formaPago" binding:"required,oneof=efectivo transferencia tarjeta cheque"`
	Abono         float64 `json:"abono" binding:"gt=0"`
	TotalTramite  float64 `json:"totalTramite" binding:"gte=0"`
}

// ReciboLink permite descargar un recibo sin sesión mientras no expire.
type ReciboLink struct {
	ObjectID      primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Token         string             `json:"token" bson:"token"`
	NumeroRecibo  int                `json:"numeroRecibo" bson:"numeroRecibo"`
	NumeroTramite string             `json:"numeroTramite" bson:"numeroTramite"`
	Expira        time.Time          `json:"expira" bson:"expira"`
}
