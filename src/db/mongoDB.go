package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Nombres de colecciones
const (
	ColAbogados          = "abogados"
	ColClientes          = "clientes"
	ColSalas             = "salas"
	ColClientesGenerales = "clientes_generales"
	ColEscrituras        = "escrituras"
	ColProtocolitos      = "protocolitos"
	ColPresupuestos      = "presupuestos"
	ColRecibos           = "recibos"
	ColReciboLinks       = "recibo_links"
	ColPlantillas        = "plantillas"
	ColContadores        = "contadores"
	ColTokensOAuth       = "tokens_oauth"
)

// Conectar abre el cliente de MongoDB y verifica la conexión con un ping.
func Conectar(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(30 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetServerSelectionTimeout(30 * time.Second).
		SetMaxPoolSize(10).
		SetMinPoolSize(1)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("conectando a MongoDB: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("no se pudo hacer ping a MongoDB: %w", err)
	}

	log.Println("✅ Conexión a MongoDB establecida correctamente")
	return client, client.Database(dbName), nil
}

// Desconectar cierra la conexión de manera segura.
func Desconectar(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		log.Printf("Error al desconectar de MongoDB: %v", err)
		return
	}
	log.Println("Desconectado de MongoDB correctamente")
}

// CrearIndices crea los índices únicos que sostienen las invariantes de cada colección.
func CrearIndices(ctx context.Context, database *mongo.Database) error {
	unicos := map[string][]string{
		ColAbogados:          {"id", "usuario"},
		ColClientes:          {"id"},
		ColSalas:             {"nombre"},
		ColClientesGenerales: {"clienteId"},
		ColEscrituras:        {"numeroEscritura"},
		ColProtocolitos:      {"numeroTramite"},
		ColRecibos:           {"numeroRecibo"},
		ColReciboLinks:       {"token"},
		ColPlantillas:        {"nombre"},
		ColTokensOAuth:       {"abogadoId"},
	}

	for coleccion, campos := range unicos {
		modelos := make([]mongo.IndexModel, 0, len(campos))
		for _, campo := range campos {
			modelos = append(modelos, mongo.IndexModel{
				Keys:    bson.D{{Key: campo, Value: 1}},
				Options: options.Index().SetUnique(true),
			})
		}
		if _, err := database.Collection(coleccion).Indexes().CreateMany(ctx, modelos); err != nil {
			return fmt.Errorf("creando índices de %s: %w", coleccion, err)
		}
	}

	// índices de consulta para la cola de espera y los recibos por trámite
	_, err := database.Collection(ColClientes).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "enEspera", Value: 1}, {Key: "tieneCita", Value: -1}, {Key: "horaLlegada", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creando índice de cola: %w", err)
	}
	_, err = database.Collection(ColRecibos).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "numeroTramite", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creando índice de recibos: %w", err)
	}
	return nil
}

// SiguienteSecuencia incrementa atómicamente el contador indicado y devuelve el nuevo valor.
func SiguienteSecuencia(ctx context.Context, database *mongo.Database, nombre string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var contador struct {
		Seq int `bson:"seq"`
	}
	err := database.Collection(ColContadores).FindOneAndUpdate(ctx,
		bson.M{"_id": nombre},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&contador)
	if err != nil {
		return 0, fmt.Errorf("secuencia %s: %w", nombre, err)
	}
	return contador.Seq, nil
}

// ColeccionVacia indica si una colección no tiene documentos.
func ColeccionVacia(ctx context.Context, col *mongo.Collection) (bool, error) {
	count, err := col.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("contando %s: %w", col.Name(), err)
	}
	return count == 0, nil
}
