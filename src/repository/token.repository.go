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

// TokenRepository guarda un token de Microsoft Graph por abogado.
type TokenRepository struct {
	col *mongo.Collection
}

func NewTokenRepository(database *mongo.Database) *TokenRepository {
	return &TokenRepository{col: database.Collection(db.ColTokensOAuth)}
}

func (r *TokenRepository) Guardar(ctx context.Context, token models.TokenOAuth) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"abogadoId": token.AbogadoID}, token, options.Replace().SetUpsert(true))
	return traducir(err, fmt.Sprintf("guardando token del abogado %d", token.AbogadoID))
}

func (r *TokenRepository) Obtener(ctx context.Context, abogadoID int) (models.TokenOAuth, error) {
	var token models.TokenOAuth
	err := r.col.FindOne(ctx, bson.M{"abogadoId": abogadoID}).Decode(&token)
	return token, traducir(err, fmt.Sprintf("token del abogado %d", abogadoID))
}
