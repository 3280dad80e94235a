package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/models"
	"api_notaria/src/repository/memoria"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

// clientesConGanchos intercala operaciones entre los pasos de la asignación.
type clientesConGanchos struct {
	*memoria.Clientes
	despuesDeCrear  func()
	antesDeEncolar  func()
	antesDeContacto func()
	despuesDeTomar  func(models.Cliente)
	fallaAsignar    error
}

func (c *clientesConGanchos) Crear(ctx context.Context, cliente *models.Cliente) error {
	if err := c.Clientes.Crear(ctx, cliente); err != nil {
		return err
	}
	if c.despuesDeCrear != nil {
		c.despuesDeCrear()
	}
	return nil
}

func (c *clientesConGanchos) Encolar(ctx context.Context, id int) (models.Cliente, error) {
	if c.antesDeEncolar != nil {
		c.antesDeEncolar()
	}
	return c.Clientes.Encolar(ctx, id)
}

func (c *clientesConGanchos) ActualizarContacto(ctx context.Context, id int, cambios models.ActualizarCliente) (models.Cliente, error) {
	if c.antesDeContacto != nil {
		c.antesDeContacto()
	}
	return c.Clientes.ActualizarContacto(ctx, id, cambios)
}

func (c *clientesConGanchos) TomarEnEspera(ctx context.Context, abogadoID int) (models.Cliente, error) {
	cliente, err := c.Clientes.TomarEnEspera(ctx, abogadoID)
	if err == nil && c.despuesDeTomar != nil {
		c.despuesDeTomar(cliente)
	}
	return cliente, err
}

func (c *clientesConGanchos) Asignar(ctx context.Context, id, abogadoID int, sala string) (models.Cliente, error) {
	if c.fallaAsignar != nil {
		return models.Cliente{}, c.fallaAsignar
	}
	return c.Clientes.Asignar(ctx, id, abogadoID, sala)
}

// enganchar reemplaza el servicio por uno que usa los ganchos. Debe llamarse antes de
// registrar clientes.
func (e *entorno) enganchar() *clientesConGanchos {
	g := &clientesConGanchos{Clientes: e.clientes}
	e.svc = services.NewAsignacionService(e.abogados, g, e.salas, memoria.NewSecuencias(), e.eventos, nil)
	return g
}

func una(fn func()) func() {
	var once sync.Once
	return func() { once.Do(fn) }
}

func TestLiberarAbogadoDuranteRegistroNoLoDejaOcupado(t *testing.T) {
	e := setup(t, 1, "Sala 1")
	g := e.enganchar()
	ctx := context.Background()
	e.registrar(t, "Ana", false)

	var liberado *models.Cliente
	g.despuesDeCrear = una(func() {
		var err error
		liberado, err = e.svc.LiberarAbogado(ctx, 1)
		require.NoError(t, err)
	})
	beto := e.registrar(t, "Beto", false)

	assert.Nil(t, liberado, "el cliente recién creado aún no está en la cola")
	assert.Equal(t, models.EstadoAsignado, beto.Estado)
	require.NotNil(t, beto.AbogadoAsignado)
	assert.Equal(t, 1, *beto.AbogadoAsignado)

	a, err := e.abogados.ObtenerPorID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, a.Disponible)
	assert.Equal(t, 2, a.Asignaciones)

	cola, err := e.svc.ColaDeEspera(ctx)
	require.NoError(t, err)
	assert.Empty(t, cola)
}

func TestLiberarAbogadoAntesDeEncolarNoPierdeAlCliente(t *testing.T) {
	e := setup(t, 1, "Sala 1")
	g := e.enganchar()
	ctx := context.Background()
	e.registrar(t, "Ana", false)

	g.antesDeEncolar = una(func() {
		siguiente, err := e.svc.LiberarAbogado(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, siguiente)
	})
	beto := e.registrar(t, "Beto", false)

	assert.Equal(t, models.EstadoAsignado, beto.Estado)
	assert.False(t, beto.EnEspera)
	require.NotNil(t, beto.AbogadoAsignado)
	assert.Equal(t, 1, *beto.AbogadoAsignado)

	cola, err := e.svc.ColaDeEspera(ctx)
	require.NoError(t, err)
	assert.Empty(t, cola)
}

func TestActualizarContactoNoRevierteAsignacion(t *testing.T) {
	e := setup(t, 1)
	g := e.enganchar()
	ctx := context.Background()
	e.registrar(t, "Ana", false)
	beto := e.registrar(t, "Beto", false)
	require.True(t, beto.EnEspera)

	g.antesDeContacto = una(func() {
		siguiente, err := e.svc.LiberarAbogado(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, siguiente)
		assert.Equal(t, beto.ID, siguiente.ID)
	})
	nombre := "  Alberto  "
	actualizado, err := services.NewClienteService(g).Actualizar(ctx, beto.ID, models.ActualizarCliente{Nombre: &nombre})
	require.NoError(t, err)

	assert.Equal(t, "Alberto", actualizado.Nombre)
	assert.Equal(t, models.EstadoAsignado, actualizado.Estado)
	assert.False(t, actualizado.EnEspera)
	require.NotNil(t, actualizado.AbogadoAsignado)
	assert.Equal(t, 1, *actualizado.AbogadoAsignado)

	cola, err := e.svc.ColaDeEspera(ctx)
	require.NoError(t, err)
	assert.Empty(t, cola)
}

func TestCancelarClienteYaTomadoDeLaCola(t *testing.T) {
	e := setup(t, 1)
	g := e.enganchar()
	ctx := context.Background()
	e.registrar(t, "Ana", false)
	beto := e.registrar(t, "Beto", false)

	var errCancelar error
	g.despuesDeTomar = func(c models.Cliente) {
		_, errCancelar = e.svc.CancelarCliente(ctx, c.ID)
	}
	siguiente, err := e.svc.LiberarAbogado(ctx, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, errCancelar, utils.ErrEstadoInvalido)
	require.NotNil(t, siguiente)
	assert.Equal(t, beto.ID, siguiente.ID)
	actual, err := e.clientes.ObtenerPorID(ctx, beto.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoAsignado, actual.Estado)
}

func TestFalloAlAsignarRegresaAlClienteALaCola(t *testing.T) {
	e := setup(t, 1)
	g := e.enganchar()
	ctx := context.Background()
	e.registrar(t, "Ana", false)
	beto := e.registrar(t, "Beto", false)

	g.fallaAsignar = errors.New("conexión perdida")
	_, err := e.svc.LiberarAbogado(ctx, 1)
	require.Error(t, err)

	cola, err := e.svc.ColaDeEspera(ctx)
	require.NoError(t, err)
	require.Len(t, cola, 1)
	assert.Equal(t, beto.ID, cola[0].ID)

	a, err := e.abogados.ObtenerPorID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, a.Disponible, "el abogado tomado se devuelve")
	assert.Equal(t, 1, a.Asignaciones)

	g.fallaAsignar = nil
	siguiente, err := e.svc.LiberarAbogado(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, siguiente)
	assert.Equal(t, beto.ID, siguiente.ID)
}

func TestFalloAlAsignarEnRegistroDejaAlClienteEnCola(t *testing.T) {
	e := setup(t, 1)
	g := e.enganchar()
	ctx := context.Background()

	g.fallaAsignar = errors.New("conexión perdida")
	_, err := e.svc.RegistrarCliente(ctx, models.NuevoCliente{Nombre: "Ana"})
	require.Error(t, err)

	cola, err := e.svc.ColaDeEspera(ctx)
	require.NoError(t, err)
	require.Len(t, cola, 1)
	assert.Equal(t, "Ana", cola[0].Nombre)

	a, err := e.abogados.ObtenerPorID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, a.Disponible)
	assert.Zero(t, a.Asignaciones)
}
