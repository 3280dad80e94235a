package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plantilla es un documento con marcadores {{.campo}} que se llena al generar el PDF.
type Plantilla struct {
	ObjectID      primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Nombre        string             `json:"nombre" bson:"nombre" binding:"required,max=80"`
	Descripcion   string             `json:"descripcion" bson:"descripcion" binding:"max=250"`
	Contenido     string             `json:"contenido" bson:"contenido" binding:"required"`
	Campos        []string           `json:"campos" bson:"campos"`
	CreadoEn      time.Time          `json:"creadoEn" bson:"creadoEn"`
	ActualizadoEn time.Time          `json:"actualizadoEn" bson:"actualizadoEn"`
}
