package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"api_notaria/src/db"
	"api_notaria/src/models"
	"api_notaria/src/utils"
)

type SalaRepository struct {
	col *mongo.Collection
}

func NewSalaRepository(database *mongo.Database) *SalaRepository {
	return &SalaRepository{col: database.Collection(db.ColSalas)}
}

func (r *SalaRepository) Crear(ctx context.Context, sala *models.Sala) error {
	res, err := r.col.InsertOne(ctx, sala)
	if err != nil {
		return traducir(err, "insertando sala")
	}
	sala.ObjectID = objectID(res)
	return nil
}

func (r *SalaRepository) Listar(ctx context.Context) ([]models.Sala, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "nombre", Value: 1}}))
	if err != nil {
		return nil, traducir(err, "listando salas")
	}
	salas := []models.Sala{}
	if err := cursor.All(ctx, &salas); err != nil {
		return nil, traducir(err, "decodificando salas")
	}
	return salas, nil
}

func (r *SalaRepository) ObtenerPorNombre(ctx context.Context, nombre string) (models.Sala, error) {
	var sala models.Sala
	err := r.col.FindOne(ctx, bson.M{"nombre": nombre}).Decode(&sala)
	return sala, traducir(err, "sala "+nombre)
}

func (r *SalaRepository) Eliminar(ctx context.Context, nombre string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"nombre": nombre})
	if err != nil {
		return traducir(err, "eliminando sala")
	}
	return verificarCoincidencia(res.DeletedCount, "sala "+nombre)
}

// Tomar ocupa la sala solo si sigue disponible; con nombre vacío toma la primera libre.
func (r *SalaRepository) Tomar(ctx context.Context, nombre string, abogadoID int) (models.Sala, error) {
	filtro := bson.M{"disponible": true}
	if nombre != "" {
		filtro["nombre"] = nombre
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "nombre", Value: 1}}).
		SetReturnDocument(options.After)

	var sala models.Sala
	err := r.col.FindOneAndUpdate(ctx, filtro, bson.M{"$set": bson.M{
		"disponible":      false,
		"abogadoAsignado": abogadoID,
	}}, opts).Decode(&sala)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return sala, traducir(err, "tomando sala")
	}
	if nombre == "" {
		return models.Sala{}, utils.ErrSinDisponibles
	}
	// distinguir sala inexistente de sala ocupada
	if _, err := r.ObtenerPorNombre(ctx, nombre); err != nil {
		return models.Sala{}, err
	}
	return models.Sala{}, fmt.Errorf("sala %s ocupada: %w", nombre, utils.ErrSinDisponibles)
}

func (r *SalaRepository) liberar(ctx context.Context, filtro bson.M, contexto string) (models.Sala, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sala models.Sala
	err := r.col.FindOneAndUpdate(ctx, filtro, bson.M{"$set": bson.M{
		"disponible":      true,
		"abogadoAsignado": nil,
	}}, opts).Decode(&sala)
	return sala, traducir(err, contexto)
}

func (r *SalaRepository) Liberar(ctx context.Context, nombre string) (models.Sala, error) {
	return r.liberar(ctx, bson.M{"nombre": nombre}, "liberando sala "+nombre)
}

func (r *SalaRepository) LiberarDeAbogado(ctx context.Context, abogadoID int) (models.Sala, error) {
	return r.liberar(ctx, bson.M{"abogadoAsignado": abogadoID}, fmt.Sprintf("sala del abogado %d", abogadoID))
}

func (r *SalaRepository) LiberarTodas(ctx context.Context) error {
	_, err := r.col.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{
		"disponible":      true,
		"abogadoAsignado": nil,
	}})
	return traducir(err, "liberando salas")
}
