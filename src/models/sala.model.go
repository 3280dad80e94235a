package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Sala struct {
	ObjectID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Nombre          string             `json:"nombre" bson:"nombre" binding:"required,min=1,max=50"`
	Disponible      bool               `json:"disponible" bson:"disponible"`
	AbogadoAsignado *int               `json:"abogadoAsignado" bson:"abogadoAsignado"`
}

// AsignacionSala es el cuerpo de PUT /api/salas/asignar.
type AsignacionSala struct {
	AbogadoID int    `json:"abogadoId" binding:"required,gt=0"`
	Sala      string `json:"sala"`
}
