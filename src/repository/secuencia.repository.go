package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"api_notaria/src/db"
)

// SecuenciaRepository entrega ids numéricos desde la colección contadores.
type SecuenciaRepository struct {
	database *mongo.Database
}

func NewSecuenciaRepository(database *mongo.Database) *SecuenciaRepository {
	return &SecuenciaRepository{database: database}
}

func (r *SecuenciaRepository) Siguiente(ctx context.Context, nombre string) (int, error) {
	return db.SiguienteSecuencia(ctx, r.database, nombre)
}
