package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClienteGeneral guarda los datos personales y de identificación de un cliente.
type ClienteGeneral struct {
	ObjectID        primitive.ObjectID  `json:"-" bson:"_id,omitempty"`
	ClienteID       int                 `json:"clienteId" bson:"clienteId"`
	Nombre          string              `json:"nombre" bson:"nombre"`
	ApellidoPaterno string              `json:"apellidoPaterno" bson:"apellidoPaterno"`
	ApellidoMaterno string              `json:"apellidoMaterno" bson:"apellidoMaterno"`
	CURP            string              `json:"curp" bson:"curp"`
	RFC             string              `json:"rfc" bson:"rfc"`
	Celular         string              `json:"celular" bson:"celular"`
	Email           string              `json:"email" bson:"email"`
	Domicilio       string              `json:"domicilio" bson:"domicilio"`
	FechaNacimiento *time.Time          `json:"fechaNacimiento,omitempty" bson:"fechaNacimiento,omitempty"`
	EstadoCivil     string              `json:"estadoCivil,omitempty" bson:"estadoCivil,omitempty"`
	Ocupacion       string              `json:"ocupacion,omitempty" bson:"ocupacion,omitempty"`
	Identificacion  string              `json:"identificacion,omitempty" bson:"identificacion,omitempty"`
	Errores         map[string][]string `json:"Errores,omitempty" bson:"Errores,omitempty"`
	CreadoEn        time.Time           `json:"creadoEn" bson:"creadoEn"`
	ActualizadoEn   time.Time           `json:"actualizadoEn" bson:"actualizadoEn"`
}

// NombreCompleto une nombre y apellidos.
func (c ClienteGeneral) NombreCompleto() string {
	nombre := c.Nombre
	for _, parte := range []string{c.ApellidoPaterno, c.ApellidoMaterno} {
		if parte != "" {
			nombre += " " + parte
		}
	}
	return nombre
}
