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

type EscrituraRepository struct {
	col *mongo.Collection
}

func NewEscrituraRepository(database *mongo.Database) *EscrituraRepository {
	return &EscrituraRepository{col: database.Collection(db.ColEscrituras)}
}

func (r *EscrituraRepository) Crear(ctx context.Context, escritura *models.Escritura) error {
	res, err := r.col.InsertOne(ctx, escritura)
	if err != nil {
		return traducir(err, "insertando escritura")
	}
	escritura.ObjectID = objectID(res)
	return nil
}

func (r *EscrituraRepository) Listar(ctx context.Context, filtro models.FiltroEscrituras) ([]models.Escritura, error) {
	q := bson.M{}
	if filtro.Estado != "" {
		q["estado"] = filtro.Estado
	}
	if filtro.AbogadoID > 0 {
		q["abogadoId"] = filtro.AbogadoID
	}
	cursor, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "creadoEn", Value: -1}}))
	if err != nil {
		return nil, traducir(err, "listando escrituras")
	}
	escrituras := []models.Escritura{}
	if err := cursor.All(ctx, &escrituras); err != nil {
		return nil, traducir(err, "decodificando escrituras")
	}
	return escrituras, nil
}

func (r *EscrituraRepository) ObtenerPorNumero(ctx context.Context, numero string) (models.Escritura, error) {
	var escritura models.Escritura
	err := r.col.FindOne(ctx, bson.M{"numeroEscritura": numero}).Decode(&escritura)
	return escritura, traducir(err, "escritura "+numero)
}

func (r *EscrituraRepository) Actualizar(ctx context.Context, escritura models.Escritura) error {
	escritura.ObjectID = primitive.NilObjectID
	res, err := r.col.ReplaceOne(ctx, bson.M{"numeroEscritura": escritura.NumeroEscritura}, escritura)
	if err != nil {
		return traducir(err, "actualizando escritura")
	}
	return verificarCoincidencia(res.MatchedCount, "escritura "+escritura.NumeroEscritura)
}

func (r *EscrituraRepository) Eliminar(ctx context.Context, numero string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"numeroEscritura": numero})
	if err != nil {
		return traducir(err, "eliminando escritura")
	}
	return verificarCoincidencia(res.DeletedCount, "escritura "+numero)
}
