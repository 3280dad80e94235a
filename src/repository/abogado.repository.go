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

type AbogadoRepository struct {
	col *mongo.Collection
}

func NewAbogadoRepository(database *mongo.Database) *AbogadoRepository {
	return &AbogadoRepository{col: database.Collection(db.ColAbogados)}
}

func (r *AbogadoRepository) Crear(ctx context.Context, abogado *models.Abogado) error {
	res, err := r.col.InsertOne(ctx, abogado)
	if err != nil {
		return traducir(err, "insertando abogado")
	}
	abogado.ObjectID = objectID(res)
	return nil
}

func (r *AbogadoRepository) Listar(ctx context.Context) ([]models.Abogado, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orden", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, traducir(err, "listando abogados")
	}
	abogados := []models.Abogado{}
	if err := cursor.All(ctx, &abogados); err != nil {
		return nil, traducir(err, "decodificando abogados")
	}
	return abogados, nil
}

func (r *AbogadoRepository) obtener(ctx context.Context, filtro bson.M) (models.Abogado, error) {
	var abogado models.Abogado
	err := r.col.FindOne(ctx, filtro).Decode(&abogado)
	return abogado, traducir(err, "buscando abogado")
}

func (r *AbogadoRepository) ObtenerPorID(ctx context.Context, id int) (models.Abogado, error) {
	return r.obtener(ctx, bson.M{"id": id})
}

func (r *AbogadoRepository) ObtenerPorUsuario(ctx context.Context, usuario string) (models.Abogado, error) {
	return r.obtener(ctx, bson.M{"usuario": usuario})
}

func (r *AbogadoRepository) Actualizar(ctx context.Context, abogado models.Abogado) error {
	update := bson.M{"$set": bson.M{
		"nombre":       abogado.Nombre,
		"rol":          abogado.Rol,
		"orden":        abogado.Orden,
		"email":        abogado.Email,
		"telefono":     abogado.Telefono,
		"passwordHash": abogado.PasswordHash,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"id": abogado.ID}, update)
	if err != nil {
		return traducir(err, "actualizando abogado")
	}
	return verificarCoincidencia(res.MatchedCount, fmt.Sprintf("abogado %d", abogado.ID))
}

func (r *AbogadoRepository) Eliminar(ctx context.Context, id int) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return traducir(err, "eliminando abogado")
	}
	return verificarCoincidencia(res.DeletedCount, fmt.Sprintf("abogado %d", id))
}

// TomarDisponible es el compare-and-swap de la asignación: solo un FindOneAndUpdate
// puede ver disponible=true para el mismo documento.
func (r *AbogadoRepository) TomarDisponible(ctx context.Context, preferido *int) (models.Abogado, error) {
	filtro := bson.M{"disponible": true, "rol": models.RolAbogado}
	if preferido != nil {
		filtro["id"] = *preferido
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "orden", Value: 1}, {Key: "asignaciones", Value: 1}, {Key: "id", Value: 1}}).
		SetReturnDocument(options.After)

	var abogado models.Abogado
	err := r.col.FindOneAndUpdate(ctx, filtro, bson.M{
		"$set": bson.M{"disponible": false},
		"$inc": bson.M{"asignaciones": 1},
	}, opts).Decode(&abogado)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Abogado{}, utils.ErrSinDisponibles
	}
	return abogado, traducir(err, "tomando abogado disponible")
}

func (r *AbogadoRepository) actualizarYDevolver(ctx context.Context, id int, set bson.M) (models.Abogado, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var abogado models.Abogado
	err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&abogado)
	return abogado, traducir(err, fmt.Sprintf("abogado %d", id))
}

func (r *AbogadoRepository) Liberar(ctx context.Context, id int) (models.Abogado, error) {
	return r.actualizarYDevolver(ctx, id, bson.M{"disponible": true, "sala": ""})
}

// Devolver solo actúa si el abogado sigue ocupado; una liberación concurrente ya lo dejó libre.
func (r *AbogadoRepository) Devolver(ctx context.Context, id int) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"id": id, "disponible": false}, bson.M{
		"$set": bson.M{"disponible": true},
		"$inc": bson.M{"asignaciones": -1},
	})
	return traducir(err, fmt.Sprintf("devolviendo abogado %d", id))
}

func (r *AbogadoRepository) FijarDisponibilidad(ctx context.Context, id int, disponible bool) (models.Abogado, error) {
	return r.actualizarYDevolver(ctx, id, bson.M{"disponible": disponible})
}

func (r *AbogadoRepository) FijarSala(ctx context.Context, id int, sala string) error {
	_, err := r.actualizarYDevolver(ctx, id, bson.M{"sala": sala})
	return err
}

func (r *AbogadoRepository) Reordenar(ctx context.Context, ids []int) error {
	modelos := make([]mongo.WriteModel, 0, len(ids))
	for i, id := range ids {
		modelos = append(modelos, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": id}).
			SetUpdate(bson.M{"$set": bson.M{"orden": i + 1}}))
	}
	if len(modelos) == 0 {
		return nil
	}
	res, err := r.col.BulkWrite(ctx, modelos, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return traducir(err, "reordenando abogados")
	}
	if int(res.MatchedCount) != len(ids) {
		return fmt.Errorf("reordenando abogados: %d de %d ids existen: %w", res.MatchedCount, len(ids), utils.ErrNoEncontrado)
	}
	return nil
}

func (r *AbogadoRepository) ReiniciarJornada(ctx context.Context) error {
	_, err := r.col.UpdateMany(ctx, bson.M{"rol": models.RolAbogado}, bson.M{"$set": bson.M{
		"disponible":   true,
		"asignaciones": 0,
		"sala":         "",
	}})
	return traducir(err, "reiniciando jornada de abogados")
}
