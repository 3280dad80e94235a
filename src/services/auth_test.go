package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/models"
	"api_notaria/src/repository/memoria"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

func crearUsuario(t *testing.T, repo *memoria.Abogados, id int, usuario, pwd, rol string) models.Abogado {
	t.Helper()
	a := models.Abogado{ID: id, Nombre: "Usuario " + usuario, Usuario: usuario, Rol: rol}
	require.NoError(t, a.SetPassword(pwd))
	require.NoError(t, repo.Crear(context.Background(), &a))
	return a
}

func TestLoginYValidar(t *testing.T) {
	repo := memoria.NewAbogados()
	crearUsuario(t, repo, 7, "lic.perez", "secreto1", models.RolAbogado)
	svc := services.NewAuthService(repo, "llave-de-prueba", time.Hour)

	sesion, err := svc.Login(context.Background(), services.Credenciales{Usuario: " Lic.Perez ", Password: "secreto1"})
	require.NoError(t, err)
	assert.NotEmpty(t, sesion.Token)
	assert.Equal(t, 7, sesion.Abogado.ID)

	claims, err := svc.Validar(sesion.Token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.AbogadoID())
	assert.Equal(t, "lic.perez", claims.Usuario)
	assert.Equal(t, models.RolAbogado, claims.Rol)

	yo, err := svc.Yo(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "lic.perez", yo.Usuario)
}

func TestLoginCredencialesIncorrectas(t *testing.T) {
	repo := memoria.NewAbogados()
	crearUsuario(t, repo, 1, "admin", "admin123", models.RolAdmin)
	svc := services.NewAuthService(repo, "llave", time.Hour)

	_, err := svc.Login(context.Background(), services.Credenciales{Usuario: "admin", Password: "otra"})
	assert.ErrorIs(t, err, utils.ErrCredenciales)

	_, err = svc.Login(context.Background(), services.Credenciales{Usuario: "nadie", Password: "admin123"})
	assert.ErrorIs(t, err, utils.ErrCredenciales)
}

func TestValidarTokenExpirado(t *testing.T) {
	relojFijo(t)
	repo := memoria.NewAbogados()
	a := crearUsuario(t, repo, 1, "admin", "admin123", models.RolAdmin)
	svc := services.NewAuthService(repo, "llave", time.Minute)

	token, expira, err := svc.Firmar(a)
	require.NoError(t, err)

	services.NowFunc = func() time.Time { return expira.Add(time.Minute) }
	_, err = svc.Validar(token)
	assert.ErrorIs(t, err, utils.ErrNoAutorizado)
}

func TestValidarRechazaOtraFirma(t *testing.T) {
	repo := memoria.NewAbogados()
	a := crearUsuario(t, repo, 1, "admin", "admin123", models.RolAdmin)
	otro := services.NewAuthService(repo, "otra-llave", time.Hour)
	token, _, err := otro.Firmar(a)
	require.NoError(t, err)

	svc := services.NewAuthService(repo, "llave", time.Hour)
	_, err = svc.Validar(token)
	assert.ErrorIs(t, err, utils.ErrNoAutorizado)

	// alg none no se acepta aunque los claims sean válidos
	sinFirma, err := jwt.NewWithClaims(jwt.SigningMethodNone, services.Claims{Usuario: "admin", Rol: models.RolAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validar(sinFirma)
	assert.ErrorIs(t, err, utils.ErrNoAutorizado)
}
