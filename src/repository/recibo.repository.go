package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"api_notaria/src/db"
	"api_notaria/src/models"
)

type ReciboRepository struct {
	col   *mongo.Collection
	links *mongo.Collection
}

func NewReciboRepository(database *mongo.Database) *ReciboRepository {
	return &ReciboRepository{
		col:   database.Collection(db.ColRecibos),
		links: database.Collection(db.ColReciboLinks),
	}
}

func (r *ReciboRepository) Crear(ctx context.Context, recibo *models.Recibo) error {
	res, err := r.col.InsertOne(ctx, recibo)
	if err != nil {
		return traducir(err, "insertando recibo")
	}
	recibo.ObjectID = objectID(res)
	return nil
}

func (r *ReciboRepository) Listar(ctx context.Context, numeroTramite string) ([]models.Recibo, error) {
	q := bson.M{}
	if numeroTramite != "" {
		q["numeroTramite"] = numeroTramite
	}
	cursor, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "numeroRecibo", Value: -1}}))
	if err != nil {
		return nil, traducir(err, "listando recibos")
	}
	recibos := []models.Recibo{}
	if err := cursor.All(ctx, &recibos); err != nil {
		return nil, traducir(err, "decodificando recibos")
	}
	return recibos, nil
}

func (r *ReciboRepository) ObtenerPorNumero(ctx context.Context, numero int) (models.Recibo, error) {
	var recibo models.Recibo
	err := r.col.FindOne(ctx, bson.M{"numeroRecibo": numero}).Decode(&recibo)
	return recibo, traducir(err, fmt.Sprintf("recibo %d", numero))
}

func (r *ReciboRepository) Cancelar(ctx context.Context, numero int) (models.Recibo, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var recibo models.Recibo
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"numeroRecibo": numero},
		bson.M{"$set": bson.M{"cancelado": true}},
		opts,
	).Decode(&recibo)
	return recibo, traducir(err, fmt.Sprintf("cancelando recibo %d", numero))
}

// TotalAbonado suma en el servidor los abonos vigentes del trámite.
func (r *ReciboRepository) TotalAbonado(ctx context.Context, numeroTramite string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"numeroTramite": numeroTramite, "cancelado": false}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$abono"}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, traducir(err, "sumando abonos")
	}
	var resultado []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &resultado); err != nil {
		return 0, traducir(err, "decodificando suma de abonos")
	}
	if len(resultado) == 0 {
		return 0, nil
	}
	return resultado[0].Total, nil
}

func (r *ReciboRepository) CrearLink(ctx context.Context, link *models.ReciboLink) error {
	res, err := r.links.InsertOne(ctx, link)
	if err != nil {
		return traducir(err, "insertando enlace de recibo")
	}
	link.ObjectID = objectID(res)
	return nil
}

func (r *ReciboRepository) ObtenerLink(ctx context.Context, token string) (models.ReciboLink, error) {
	var link models.ReciboLink
	err := r.links.FindOne(ctx, bson.M{"token": token}).Decode(&link)
	return link, traducir(err, "enlace de recibo")
}
