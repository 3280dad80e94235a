package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Roles de usuario
const (
	RolAdmin     = "admin"
	RolAbogado   = "abogado"
	RolRecepcion = "recepcion"
)

var Roles = []string{RolAdmin, RolAbogado, RolRecepcion}

type Abogado struct {
	ObjectID     primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID           int                `json:"id" bson:"id"`
	Nombre       string             `json:"nombre" bson:"nombre"`
	Usuario      string             `json:"usuario" bson:"usuario"`
	PasswordHash []byte             `json:"-" bson:"passwordHash"`
	Rol          string             `json:"rol" bson:"rol"`
	Disponible   bool               `json:"disponible" bson:"disponible"`
	Asignaciones int                `json:"asignaciones" bson:"asignaciones"`
	Orden        int                `json:"orden" bson:"orden"`
	Sala         string             `json:"sala" bson:"sala"`
	Email        string             `json:"email,omitempty" bson:"email,omitempty"`
	Telefono     string             `json:"telefono,omitempty" bson:"telefono,omitempty"`
}

// NuevoAbogado es el cuerpo de POST /api/abogados y /api/auth/registro.
type NuevoAbogado struct {
	Nombre   string `json:"nombre" binding:"required,min=2,max=100"`
	Usuario  string `json:"usuario" binding:"required,min=3,max=40"`
	Password string `json:"password" binding:"required,min=6"`
	Rol      string `json:"rol" binding:"omitempty,oneof=admin abogado recepcion"`
	Orden    int    `json:"orden" binding:"gte=0"`
	Email    string `json:"email" binding:"omitempty,email"`
	Telefono string `json:"telefono" binding:"omitempty,celular"`
}

// ActualizarAbogado es el cuerpo de PUT /api/abogados/:id; los campos nil no se tocan.
type ActualizarAbogado struct {
	Nombre   *string `json:"nombre" binding:"omitempty,min=2,max=100"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Rol      *string `json:"rol" binding:"omitempty,oneof=admin abogado recepcion"`
	Orden    *int    `json:"orden" binding:"omitempty,gte=0"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Telefono *string `json:"telefono" binding:"omitempty,celular"`
}

func (a *Abogado) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a Abogado) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}
