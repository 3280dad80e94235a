package repository

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"api_notaria/src/db"
	"api_notaria/src/models"
)

type ProtocolitoRepository struct {
	col *mongo.Collection
}

func NewProtocolitoRepository(database *mongo.Database) *ProtocolitoRepository {
	return &ProtocolitoRepository{col: database.Collection(db.ColProtocolitos)}
}

func (r *ProtocolitoRepository) Crear(ctx context.Context, p *models.Protocolito) error {
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return traducir(err, "insertando protocolito")
	}
	p.ObjectID = objectID(res)
	return nil
}

// Listar busca sin distinguir mayúsculas en trámite, cliente, abogado y tipo. limit 0 trae todo.
func (r *ProtocolitoRepository) Listar(ctx context.Context, busqueda string, skip, limit int) ([]models.Protocolito, error) {
	q := bson.M{}
	if busqueda != "" {
		patron := primitive.Regex{Pattern: regexp.QuoteMeta(busqueda), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"numeroTramite": patron},
			bson.M{"cliente": patron},
			bson.M{"abogado": patron},
			bson.M{"tipoTramite": patron},
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}, {Key: "numeroTramite", Value: 1}})
	if limit > 0 {
		opts.SetSkip(int64(skip)).SetLimit(int64(limit))
	}
	cursor, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, traducir(err, "listando protocolito")
	}
	registros := []models.Protocolito{}
	if err := cursor.All(ctx, &registros); err != nil {
		return nil, traducir(err, "decodificando protocolito")
	}
	return registros, nil
}

func (r *ProtocolitoRepository) ObtenerPorTramite(ctx context.Context, numeroTramite string) (models.Protocolito, error) {
	var p models.Protocolito
	err := r.col.FindOne(ctx, bson.M{"numeroTramite": numeroTramite}).Decode(&p)
	return p, traducir(err, "trámite "+numeroTramite)
}

func (r *ProtocolitoRepository) Actualizar(ctx context.Context, p models.Protocolito) error {
	p.ObjectID = primitive.NilObjectID
	res, err := r.col.ReplaceOne(ctx, bson.M{"numeroTramite": p.NumeroTramite}, p)
	if err != nil {
		return traducir(err, "actualizando protocolito")
	}
	return verificarCoincidencia(res.MatchedCount, "trámite "+p.NumeroTramite)
}

func (r *ProtocolitoRepository) Eliminar(ctx context.Context, numeroTramite string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"numeroTramite": numeroTramite})
	if err != nil {
		return traducir(err, "eliminando protocolito")
	}
	return verificarCoincidencia(res.DeletedCount, "trámite "+numeroTramite)
}

// Upsert reemplaza los campos del trámite conservando creadoEn si ya existía.
func (r *ProtocolitoRepository) Upsert(ctx context.Context, p models.Protocolito) (bool, error) {
	p.ObjectID = primitive.NilObjectID
	raw, err := bson.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("serializando trámite %s: %w", p.NumeroTramite, err)
	}
	var campos bson.M
	if err := bson.Unmarshal(raw, &campos); err != nil {
		return false, fmt.Errorf("serializando trámite %s: %w", p.NumeroTramite, err)
	}
	delete(campos, "_id")
	delete(campos, "creadoEn")

	res, err := r.col.UpdateOne(ctx,
		bson.M{"numeroTramite": p.NumeroTramite},
		bson.M{"$set": campos, "$setOnInsert": bson.M{"creadoEn": p.CreadoEn}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, traducir(err, "guardando trámite "+p.NumeroTramite)
	}
	return res.UpsertedCount > 0, nil
}
