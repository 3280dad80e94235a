// Package repository implementa los repositorios de services sobre MongoDB.
package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"api_notaria/src/services"
	"api_notaria/src/utils"
)

// traducir convierte los errores del driver a la taxonomía de utils.
func traducir(err error, contexto string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", contexto, utils.ErrNoEncontrado)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", contexto, utils.ErrDuplicado)
	default:
		return fmt.Errorf("%s: %w", contexto, err)
	}
}

func objectID(res *mongo.InsertOneResult) primitive.ObjectID {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid
	}
	return primitive.NilObjectID
}

func verificarCoincidencia(matched int64, contexto string) error {
	if matched == 0 {
		return fmt.Errorf("%s: %w", contexto, utils.ErrNoEncontrado)
	}
	return nil
}

var (
	_ services.AbogadoRepository        = (*AbogadoRepository)(nil)
	_ services.ClienteRepository        = (*ClienteRepository)(nil)
	_ services.SalaRepository           = (*SalaRepository)(nil)
	_ services.SecuenciaRepository      = (*SecuenciaRepository)(nil)
	_ services.ClienteGeneralRepository = (*ClienteGeneralRepository)(nil)
	_ services.EscrituraRepository      = (*EscrituraRepository)(nil)
	_ services.ProtocolitoRepository    = (*ProtocolitoRepository)(nil)
	_ services.PresupuestoRepository    = (*PresupuestoRepository)(nil)
	_ services.ReciboRepository         = (*ReciboRepository)(nil)
	_ services.PlantillaRepository      = (*PlantillaRepository)(nil)
	_ services.TokenRepository          = (*TokenRepository)(nil)
)
