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
	"api_notaria/src/utils"
)

type PresupuestoRepository struct {
	col *mongo.Collection
}

func NewPresupuestoRepository(database *mongo.Database) *PresupuestoRepository {
	return &PresupuestoRepository{col: database.Collection(db.ColPresupuestos)}
}

func idPresupuesto(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("presupuesto %q: %w", id, utils.ErrNoEncontrado)
	}
	return oid, nil
}

func (r *PresupuestoRepository) Crear(ctx context.Context, p *models.Presupuesto) error {
	p.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return traducir(err, "insertando presupuesto")
	}
	return nil
}

// Listar filtra por cliente cuando clienteID > 0.
func (r *PresupuestoRepository) Listar(ctx context.Context, clienteID int) ([]models.Presupuesto, error) {
	q := bson.M{}
	if clienteID > 0 {
		q["clienteId"] = clienteID
	}
	cursor, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "creadoEn", Value: -1}}))
	if err != nil {
		return nil, traducir(err, "listando presupuestos")
	}
	presupuestos := []models.Presupuesto{}
	if err := cursor.All(ctx, &presupuestos); err != nil {
		return nil, traducir(err, "decodificando presupuestos")
	}
	return presupuestos, nil
}

func (r *PresupuestoRepository) ObtenerPorID(ctx context.Context, id string) (models.Presupuesto, error) {
	oid, err := idPresupuesto(id)
	if err != nil {
		return models.Presupuesto{}, err
	}
	var p models.Presupuesto
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	return p, traducir(err, "presupuesto "+id)
}

func (r *PresupuestoRepository) Actualizar(ctx context.Context, p models.Presupuesto) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return traducir(err, "actualizando presupuesto")
	}
	return verificarCoincidencia(res.MatchedCount, "presupuesto "+p.ID.Hex())
}

func (r *PresupuestoRepository) Eliminar(ctx context.Context, id string) error {
	oid, err := idPresupuesto(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return traducir(err, "eliminando presupuesto")
	}
	return verificarCoincidencia(res.DeletedCount, "presupuesto "+id)
}
