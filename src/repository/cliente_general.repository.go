package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"api_notaria/src/db"
	"api_notaria/src/models"
)

type ClienteGeneralRepository struct {
	col *mongo.Collection
}

func NewClienteGeneralRepository(database *mongo.Database) *ClienteGeneralRepository {
	return &ClienteGeneralRepository{col: database.Collection(db.ColClientesGenerales)}
}

func (r *ClienteGeneralRepository) Crear(ctx context.Context, cliente *models.ClienteGeneral) error {
	res, err := r.col.InsertOne(ctx, cliente)
	if err != nil {
		return traducir(err, "insertando cliente general")
	}
	cliente.ObjectID = objectID(res)
	return nil
}

// Listar devuelve una página ordenada por clienteId.
func (r *ClienteGeneralRepository) Listar(ctx context.Context, skip, limit int) ([]models.ClienteGeneral, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "clienteId", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, traducir(err, "listando clientes generales")
	}
	clientes := []models.ClienteGeneral{}
	if err := cursor.All(ctx, &clientes); err != nil {
		return nil, traducir(err, "decodificando clientes generales")
	}
	return clientes, nil
}

func (r *ClienteGeneralRepository) ObtenerPorClienteID(ctx context.Context, clienteID int) (models.ClienteGeneral, error) {
	var cliente models.ClienteGeneral
	err := r.col.FindOne(ctx, bson.M{"clienteId": clienteID}).Decode(&cliente)
	return cliente, traducir(err, fmt.Sprintf("cliente general %d", clienteID))
}

func (r *ClienteGeneralRepository) Actualizar(ctx context.Context, cliente models.ClienteGeneral) error {
	cliente.ObjectID = primitive.NilObjectID
	res, err := r.col.ReplaceOne(ctx, bson.M{"clienteId": cliente.ClienteID}, cliente)
	if err != nil {
		return traducir(err, "actualizando cliente general")
	}
	return verificarCoincidencia(res.MatchedCount, fmt.Sprintf("cliente general %d", cliente.ClienteID))
}

func (r *ClienteGeneralRepository) Eliminar(ctx context.Context, clienteID int) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"clienteId": clienteID})
	if err != nil {
		return traducir(err, "eliminando cliente general")
	}
	return verificarCoincidencia(res.DeletedCount, fmt.Sprintf("cliente general %d", clienteID))
}
