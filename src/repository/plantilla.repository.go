package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"api_notaria/src/db"
	"api_notaria/src/models"
)

type PlantillaRepository struct {
	col *mongo.Collection
}

func NewPlantillaRepository(database *mongo.Database) *PlantillaRepository {
	return &PlantillaRepository{col: database.Collection(db.ColPlantillas)}
}

func (r *PlantillaRepository) Crear(ctx context.Context, p *models.Plantilla) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return traducir(err, "insertando plantilla")
	}
	p.ObjectID = objectID(res)
	return nil
}

func (r *PlantillaRepository) Listar(ctx context.Context) ([]models.Plantilla, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
	if err != nil {
		return nil, traducir(err, "listando plantillas")
	}
	plantillas := []models.Plantilla{}
	if err := cursor.All(ctx, &plantillas); err != nil {
		return nil, traducir(err, "decodificando plantillas")
	}
	return plantillas, nil
}

func (r *PlantillaRepository) ObtenerPorNombre(ctx context.Context, nombre string) (models.Plantilla, error) {
	var p models.Plantilla
	err := r.col.FindOne(ctx, bson.M{"nombre": nombre}).Decode(&p)
	return p, traducir(err, "plantilla "+nombre)
}

func (r *PlantillaRepository) Actualizar(ctx context.Context, p models.Plantilla) error {
	p.ObjectID = primitive.NilObjectID
	res, err := r.col.ReplaceOne(ctx, bson.M{"nombre": p.Nombre}, p)
	if err != nil {
		return traducir(err, "actualizando plantilla")
	}
	return verificarCoincidencia(res.MatchedCount, "plantilla "+p.Nombre)
}

func (r *PlantillaRepository) Eliminar(ctx context.Context, nombre string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"nombre": nombre})
	if err != nil {
		return traducir(err, "eliminando plantilla")
	}
	return verificarCoincidencia(res.DeletedCount, "plantilla "+nombre)
}
