package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

// Claims del JWT de sesión; Subject lleva el id del abogado.
type Claims struct {
	Usuario string `json:"usuario"`
	Rol     string `json:"rol"`
	jwt.RegisteredClaims
}

// AbogadoID devuelve el id guardado en sub.
func (c *Claims) AbogadoID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

// Credenciales es el cuerpo de POST /api/auth/login.
type Credenciales struct {
	Usuario  string `json:"usuario" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Sesion es la respuesta del login.
type Sesion struct {
	Token   string         `json:"token"`
	Expira  time.Time      `json:"expira"`
	Abogado models.Abogado `json:"abogado"`
}

type AuthService struct {
	abogados AbogadoRepository
	secreto  []byte
	ttl      time.Duration
}

func NewAuthService(abogados AbogadoRepository, secreto string, ttl time.Duration) *AuthService {
	return &AuthService{abogados: abogados, secreto: []byte(secreto), ttl: ttl}
}

func (svc *AuthService) Login(ctx context.Context, cred Credenciales) (Sesion, error) {
	abogado, err := svc.abogados.ObtenerPorUsuario(ctx, strings.ToLower(strings.TrimSpace(cred.Usuario)))
	if errors.Is(err, utils.ErrNoEncontrado) {
		return Sesion{}, utils.ErrCredenciales
	}
	if err != nil {
		return Sesion{}, err
	}
	if err := abogado.CheckPassword(cred.Password); err != nil {
		return Sesion{}, utils.ErrCredenciales
	}
	token, expira, err := svc.Firmar(abogado)
	if err != nil {
		return Sesion{}, err
	}
	return Sesion{Token: token, Expira: expira, Abogado: abogado}, nil
}

// Firmar emite un JWT HS256 para el abogado.
func (svc *AuthService) Firmar(abogado models.Abogado) (string, time.Time, error) {
	ahora := NowFunc()
	expira := ahora.Add(svc.ttl)
	claims := Claims{
		Usuario: abogado.Usuario,
		Rol:     abogado.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(abogado.ID),
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(expira),
			Issuer:    "api_notaria",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secreto)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("firmando token: %w", err)
	}
	return token, expira, nil
}

// Validar verifica firma y expiración del token.
func (svc *AuthService) Validar(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return svc.secreto, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(NowFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrNoAutorizado, err)
	}
	return claims, nil
}

// Yo devuelve el abogado dueño de la sesión.
func (svc *AuthService) Yo(ctx context.Context, claims *Claims) (models.Abogado, error) {
	abogado, err := svc.abogados.ObtenerPorID(ctx, claims.AbogadoID())
	if errors.Is(err, utils.ErrNoEncontrado) {
		return models.Abogado{}, utils.ErrNoAutorizado
	}
	return abogado, err
}
