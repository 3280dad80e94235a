package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"api_notaria/src/db"
	"api_notaria/src/models"
	"api_notaria/src/utils"
)

// ordenCola: primero quien tiene cita, después por hora de llegada.
var ordenCola = bson.D{{Key: "tieneCita", Value: -1}, {Key: "horaLlegada", Value: 1}, {Key: "id", Value: 1}}

type ClienteRepository struct {
	col *mongo.Collection
}

func NewClienteRepository(database *mongo.Database) *ClienteRepository {
	return &ClienteRepository{col: database.Collection(db.ColClientes)}
}

func (r *ClienteRepository) Crear(ctx context.Context, cliente *models.Cliente) error {
	res, err := r.col.InsertOne(ctx, cliente)
	if err != nil {
		return traducir(err, "insertando cliente")
	}
	cliente.ObjectID = objectID(res)
	return nil
}

func (r *ClienteRepository) buscar(ctx context.Context, filtro bson.M, opts *options.FindOptions) ([]models.Cliente, error) {
	cursor, err := r.col.Find(ctx, filtro, opts)
	if err != nil {
		return nil, traducir(err, "listando clientes")
	}
	clientes := []models.Cliente{}
	if err := cursor.All(ctx, &clientes); err != nil {
		return nil, traducir(err, "decodificando clientes")
	}
	return clientes, nil
}

func (r *ClienteRepository) Listar(ctx context.Context, filtro models.FiltroClientes) ([]models.Cliente, error) {
	q := bson.M{}
	if filtro.Estado != "" {
		q["estado"] = filtro.Estado
	}
	rango := bson.M{}
	if !filtro.Desde.IsZero() {
		rango["$gte"] = filtro.Desde
	}
	if !filtro.Hasta.IsZero() {
		rango["$lt"] = filtro.Hasta
	}
	if len(rango) > 0 {
		q["horaLlegada"] = rango
	}
	return r.buscar(ctx, q, options.Find().SetSort(bson.D{{Key: "horaLlegada", Value: 1}}))
}

func (r *ClienteRepository) ObtenerPorID(ctx context.Context, id int) (models.Cliente, error) {
	var cliente models.Cliente
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&cliente)
	return cliente, traducir(err, fmt.Sprintf("cliente %d", id))
}

// ActualizarContacto usa $set sobre los campos recibidos para no pisar los cambios de
// estado que la asignación haga al mismo tiempo.
func (r *ClienteRepository) ActualizarContacto(ctx context.Context, id int, cambios models.ActualizarCliente) (models.Cliente, error) {
	set := bson.M{}
	if cambios.Nombre != nil {
		set["nombre"] = *cambios.Nombre
	}
	if cambios.Telefono != nil {
		set["telefono"] = *cambios.Telefono
	}
	if cambios.Motivo != nil {
		set["motivo"] = *cambios.Motivo
	}
	if cambios.TieneCita != nil {
		set["tieneCita"] = *cambios.TieneCita
	}
	if len(set) == 0 {
		return r.ObtenerPorID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cliente models.Cliente
	err := r.col.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&cliente)
	return cliente, traducir(err, fmt.Sprintf("cliente %d", id))
}

// transicion aplica set solo si el cliente cumple filtro. Si no lo cumple distingue entre
// un cliente inexistente y uno que ya cambió de estado.
func (r *ClienteRepository) transicion(ctx context.Context, id int, filtro, update bson.M) (models.Cliente, error) {
	filtro["id"] = id
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cliente models.Cliente
	err := r.col.FindOneAndUpdate(ctx, filtro, update, opts).Decode(&cliente)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return cliente, traducir(err, fmt.Sprintf("cliente %d", id))
	}
	n, cErr := r.col.CountDocuments(ctx, bson.M{"id": id})
	if cErr != nil {
		return models.Cliente{}, traducir(cErr, fmt.Sprintf("cliente %d", id))
	}
	if n == 0 {
		return models.Cliente{}, fmt.Errorf("cliente %d: %w", id, utils.ErrNoEncontrado)
	}
	return models.Cliente{}, fmt.Errorf("cliente %d: %w", id, utils.ErrEstadoInvalido)
}

func pendiente() bson.M {
	return bson.M{"estado": models.EstadoEnEspera, "enEspera": false}
}

func (r *ClienteRepository) Asignar(ctx context.Context, id, abogadoID int, sala string) (models.Cliente, error) {
	return r.transicion(ctx, id, pendiente(), bson.M{"$set": bson.M{
		"estado":          models.EstadoAsignado,
		"enEspera":        false,
		"abogadoAsignado": abogadoID,
		"sala":            sala,
	}})
}

func (r *ClienteRepository) Encolar(ctx context.Context, id int) (models.Cliente, error) {
	return r.transicion(ctx, id, pendiente(), bson.M{
		"$set":   bson.M{"enEspera": true, "abogadoAsignado": nil},
		"$unset": bson.M{"sala": ""},
	})
}

func (r *ClienteRepository) Cancelar(ctx context.Context, id int) (models.Cliente, error) {
	return r.transicion(ctx, id, bson.M{"enEspera": true}, bson.M{"$set": bson.M{
		"enEspera": false,
		"estado":   models.EstadoCancelado,
	}})
}

func (r *ClienteRepository) Atender(ctx context.Context, id int, cuando time.Time) (models.Cliente, error) {
	return r.transicion(ctx, id, bson.M{"estado": models.EstadoAsignado}, bson.M{"$set": bson.M{
		"estado":     models.EstadoAtendido,
		"atendidoEn": cuando,
	}})
}

func (r *ClienteRepository) Eliminar(ctx context.Context, id int) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return traducir(err, "eliminando cliente")
	}
	return verificarCoincidencia(res.DeletedCount, fmt.Sprintf("cliente %d", id))
}

func (r *ClienteRepository) ColaDeEspera(ctx context.Context) ([]models.Cliente, error) {
	return r.buscar(ctx, bson.M{"enEspera": true}, options.Find().SetSort(ordenCola))
}

// TomarEnEspera apaga enEspera del siguiente cliente elegible en la misma operación
// que lo encuentra; dos liberaciones simultáneas nunca obtienen al mismo cliente.
func (r *ClienteRepository) TomarEnEspera(ctx context.Context, abogadoID int) (models.Cliente, error) {
	filtro := bson.M{
		"enEspera": true,
		"$or": bson.A{
			bson.M{"abogadoPreferido": nil},
			bson.M{"abogadoPreferido": abogadoID},
		},
	}
	opts := options.FindOneAndUpdate().
		SetSort(ordenCola).
		SetReturnDocument(options.After)

	var cliente models.Cliente
	err := r.col.FindOneAndUpdate(ctx, filtro, bson.M{"$set": bson.M{"enEspera": false}}, opts).Decode(&cliente)
	return cliente, traducir(err, "tomando cliente en espera")
}

func (r *ClienteRepository) EnAtencionPor(ctx context.Context, abogadoID int) (models.Cliente, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "horaLlegada", Value: -1}})
	var cliente models.Cliente
	err := r.col.FindOne(ctx, bson.M{"abogadoAsignado": abogadoID, "estado": models.EstadoAsignado}, opts).Decode(&cliente)
	return cliente, traducir(err, fmt.Sprintf("cliente en atención del abogado %d", abogadoID))
}

func (r *ClienteRepository) CancelarEspera(ctx context.Context) (int, error) {
	res, err := r.col.UpdateMany(ctx, bson.M{"enEspera": true}, bson.M{"$set": bson.M{
		"enEspera": false,
		"estado":   models.EstadoCancelado,
	}})
	if err != nil {
		return 0, traducir(err, "cancelando cola de espera")
	}
	return int(res.ModifiedCount), nil
}
