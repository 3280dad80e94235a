package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Concepto es una línea del presupuesto (impuesto, derecho u honorario).
type Concepto struct {
	Nombre string  `json:"nombre" bson:"nombre" binding:"required,max=100"`
	Monto  float64 `json:"monto" bson:"monto" binding:"gte=0"`
}

type Presupuesto struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ClienteID      int                `json:"clienteId" bson:"clienteId"`
	Cliente        string             `json:"cliente" bson:"cliente"`
	TipoTramite    string             `json:"tipoTramite" bson:"tipoTramite"`
	ValorOperacion float64            `json:"valorOperacion" bson:"valorOperacion"`
	Impuestos      []Concepto         `json:"impuestos" bson:"impuestos"`
	Derechos       []Concepto         `json:"derechos" bson:"derechos"`
	Honorarios     []Concepto         `json:"honorarios" bson:"honorarios"`
	Otros          []Concepto         `json:"otros" bson:"otros"`
	Subtotal       float64            `json:"subtotal" bson:"subtotal"`
	IVA            float64            `json:"iva" bson:"iva"`
	Total          float64            `json:"total" bson:"total"`
	CreadoPor      string             `json:"creadoPor,omitempty" bson:"creadoPor,omitempty"`
	CreadoEn       time.Time          `json:"creadoEn" bson:"creadoEn"`
	ActualizadoEn  time.Time          `json:"actualizadoEn" bson:"actualizadoEn"`
}

// NuevoPresupuesto es el cuerpo de POST/PUT /api/presupuestos.
type NuevoPresupuesto struct {
	ClienteID      int        `json:"clienteId" binding:"gte=0"`
	Cliente        string     `json:"cliente" binding:"required,max=150"`
	TipoTramite    string     `json:"tipoTramite" binding:"required,max=150"`
	ValorOperacion float64    `json:"valorOperacion" binding:"gte=0"`
	Impuestos      []Concepto `json:"impuestos" binding:"dive"`
	Derechos       []Concepto `json:"derechos" binding:"dive"`
	Honorarios     []Concepto `json:"honorarios" binding:"dive"`
	Otros          []Concepto `json:"otros" binding:"dive"`
}
