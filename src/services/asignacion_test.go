package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/models"
	"api_notaria/src/repository/memoria"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

// relojFijo hace que cada llamada a NowFunc avance un minuto.
func relojFijo(t *testing.T) {
	t.Helper()
	var mu sync.Mutex
	ahora := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	anterior := services.NowFunc
	services.NowFunc = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		ahora = ahora.Add(time.Minute)
		return ahora
	}
	t.Cleanup(func() { services.NowFunc = anterior })
}

type eventos struct {
	mu    sync.Mutex
	tipos []string
}

func (e *eventos) Notificar(_ context.Context, ev models.Evento) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tipos = append(e.tipos, ev.Tipo)
}

type entorno struct {
	abogados *memoria.Abogados
	clientes *memoria.Clientes
	salas    *memoria.Salas
	eventos  *eventos
	svc      *services.AsignacionService
}

func setup(t *testing.T, abogados int, salas ...string) entorno {
	t.Helper()
	relojFijo(t)
	e := entorno{
		abogados: memoria.NewAbogados(),
		clientes: memoria.NewClientes(),
		salas:    memoria.NewSalas(),
		eventos:  &eventos{},
	}
	ctx := context.Background()
	for i := 1; i <= abogados; i++ {
		a := models.Abogado{
			ID:         i,
			Nombre:     fmt.Sprintf("Abogado %d", i),
			Usuario:    fmt.Sprintf("abogado%d", i),
			Rol:        models.RolAbogado,
			Disponible: true,
			Orden:      i,
		}
		require.NoError(t, e.abogados.Crear(ctx, &a))
	}
	for _, nombre := range salas {
		require.NoError(t, e.salas.Crear(ctx, &models.Sala{Nombre: nombre, Disponible: true}))
	}
	e.svc = services.NewAsignacionService(e.abogados, e.clientes, e.salas, memoria.NewSecuencias(), e.eventos, nil)
	return e
}

func (e entorno) registrar(t *testing.T, nombre string, cita bool, preferido ...int) models.Cliente {
	t.Helper()
	nc := models.NuevoCliente{Nombre: nombre, TieneCita: cita}
	if len(preferido) > 0 {
		nc.AbogadoPreferido = &preferido[0]
	}
	c, err := e.svc.RegistrarCliente(context.Background(), nc)
	require.NoError(t, err)
	return c
}

func TestRegistrarClienteAsignaAbogadoYSala(t *testing.T) {
	e := setup(t, 2, "Sala 1")

	c1 := e.registrar(t, "Ana", false)
	require.NotNil(t, c1.AbogadoAsignado)
	assert.Equal(t, 1, *c1.AbogadoAsignado)
	assert.Equal(t, "Sala 1", c1.Sala)
	assert.Equal(t, models.EstadoAsignado, c1.Estado)
	assert.False(t, c1.EnEspera)

	c2 := e.registrar(t, "Beto", false)
	require.NotNil(t, c2.AbogadoAsignado)
	assert.Equal(t, 2, *c2.AbogadoAsignado)
	assert.Empty(t, c2.Sala, "no quedan salas libres")

	c3 := e.registrar(t, "Carla", false)
	assert.Nil(t, c3.AbogadoAsignado)
	assert.True(t, c3.EnEspera)
	assert.Equal(t, models.EstadoEnEspera, c3.Estado)

	a1, err := e.abogados.ObtenerPorID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, a1.Disponible)
	assert.Equal(t, 1, a1.Asignaciones)
	assert.Equal(t, "Sala 1", a1.Sala)

	assert.Equal(t, []string{
		models.EventoClienteAsignado,
		models.EventoClienteAsignado,
		models.EventoClienteEnEspera,
	}, e.eventos.tipos)
}

func TestRegistrarClientePreferidoInexistente(t *testing.T) {
	e := setup(t, 1)
	noExiste := 99
	_, err := e.svc.RegistrarCliente(context.Background(), models.NuevoCliente{Nombre: "Ana", AbogadoPreferido: &noExiste})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Campos, "abogadoPreferido")
}

func TestLiberarAbogadoAsignaAlMasAntiguo(t *testing.T) {
	e := setup(t, 1, "Sala 1")
	ctx := context.Background()

	c1 := e.registrar(t, "Ana", false)
	c2 := e.registrar(t, "Beto", false)
	e.registrar(t, "Carla", false)

	siguiente, err := e.svc.LiberarAbogado(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, siguiente)
	assert.Equal(t, c2.ID, siguiente.ID)
	assert.Equal(t, 1, *siguiente.AbogadoAsignado)
	assert.Equal(t, "Sala 1", siguiente.Sala, "la sala liberada se vuelve a tomar")

	atendido, err := e.clientes.ObtenerPorID(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoAtendido, atendido.Estado)
	assert.NotNil(t, atendido.AtendidoEn)

	cola, err := e.svc.ColaDeEspera(ctx)
	require.NoError(t, err)
	require.Len(t, cola, 1)
	assert.Equal(t, "Carla", cola[0].Nombre)
}

func TestLiberarAbogadoSinColaQuedaDisponible(t *testing.T) {
	e := setup(t, 1, "Sala 1")
	ctx := context.Background()
	e.registrar(t, "Ana", false)

	siguiente, err := e.svc.LiberarAbogado(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, siguiente)

	a, err := e.abogados.ObtenerPorID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, a.Disponible)
	assert.Empty(t, a.Sala)

	s, err := e.salas.ObtenerPorNombre(ctx, "Sala 1")
	require.NoError(t, err)
	assert.True(t, s.Disponible)
	assert.Nil(t, s.AbogadoAsignado)
}

func TestLiberarAbogadoInexistente(t *testing.T) {
	e := setup(t, 1)
	_, err := e.svc.LiberarAbogado(context.Background(), 42)
	assert.ErrorIs(t, err, utils.ErrNoEncontrado)
}

func TestClientesConCitaTienenPrioridad(t *testing.T) {
	e := setup(t, 1)
	e.registrar(t, "Ana", false)
	e.registrar(t, "Beto", false)
	conCita := e.registrar(t, "Carla", true)

	siguiente, err := e.svc.LiberarAbogado(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, siguiente)
	assert.Equal(t, conCita.ID, siguiente.ID)
}

func TestPreferenciaEsperaSoloASuAbogado(t *testing.T) {
	e := setup(t, 2)
	ctx := context.Background()
	e.registrar(t, "Ana", false)
	e.registrar(t, "Beto", false)
	espera := e.registrar(t, "Carla", false, 2)
	require.True(t, espera.EnEspera)

	siguiente, err := e.svc.LiberarAbogado(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, siguiente, "el abogado 1 no atiende a quien prefiere al 2")

	siguiente, err = e.svc.LiberarAbogado(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, siguiente)
	assert.Equal(t, espera.ID, siguiente.ID)
	assert.Equal(t, 2, *siguiente.AbogadoAsignado)
}

func TestAsignacionConcurrenteNoDuplica(t *testing.T) {
	const abogados, clientes = 5, 40
	e := setup(t, abogados, "Sala 1", "Sala 2")

	resultados := make(chan models.Cliente, clientes)
	var wg sync.WaitGroup
	for i := range clientes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := e.svc.RegistrarCliente(context.Background(), models.NuevoCliente{Nombre: fmt.Sprintf("Cliente %d", i)})
			assert.NoError(t, err)
			resultados <- c
		}()
	}
	wg.Wait()
	close(resultados)

	asignados := map[int]int{}
	salas := map[string]int{}
	enEspera := 0
	for c := range resultados {
		if c.EnEspera {
			enEspera++
			continue
		}
		require.NotNil(t, c.AbogadoAsignado)
		asignados[*c.AbogadoAsignado]++
		if c.Sala != "" {
			salas[c.Sala]++
		}
	}
	assert.Len(t, asignados, abogados)
	for id, n := range asignados {
		assert.Equal(t, 1, n, "abogado %d con más de un cliente", id)
	}
	for nombre, n := range salas {
		assert.Equal(t, 1, n, "sala %s ocupada dos veces", nombre)
	}
	assert.Equal(t, clientes-abogados, enEspera)
}

func TestCancelarCliente(t *testing.T) {
	e := setup(t, 1)
	ctx := context.Background()
	asignado := e.registrar(t, "Ana", false)
	espera := e.registrar(t, "Beto", false)

	cancelado, err := e.svc.CancelarCliente(ctx, espera.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoCancelado, cancelado.Estado)
	assert.False(t, cancelado.EnEspera)

	_, err = e.svc.CancelarCliente(ctx, asignado.ID)
	assert.ErrorIs(t, err, utils.ErrEstadoInvalido)

	siguiente, err := e.svc.LiberarAbogado(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, siguiente, "el cliente cancelado ya no está en la cola")
}

func TestAsignarYLiberarSala(t *testing.T) {
	e := setup(t, 2, "Sala 1", "Sala 2")
	ctx := context.Background()

	s, err := e.svc.AsignarSala(ctx, 1, "Sala 2")
	require.NoError(t, err)
	assert.Equal(t, "Sala 2", s.Nombre)
	assert.False(t, s.Disponible)

	_, err = e.svc.AsignarSala(ctx, 2, "Sala 2")
	assert.ErrorIs(t, err, utils.ErrSinDisponibles)

	// cambiar de sala libera la anterior
	_, err = e.svc.AsignarSala(ctx, 1, "Sala 1")
	require.NoError(t, err)
	anterior, err := e.salas.ObtenerPorNombre(ctx, "Sala 2")
	require.NoError(t, err)
	assert.True(t, anterior.Disponible)

	liberada, err := e.svc.LiberarSala(ctx, "Sala 1")
	require.NoError(t, err)
	assert.True(t, liberada.Disponible)
	a, err := e.abogados.ObtenerPorID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, a.Sala)
}

func TestReiniciarJornada(t *testing.T) {
	e := setup(t, 1, "Sala 1")
	ctx := context.Background()
	e.registrar(t, "Ana", false)
	e.registrar(t, "Beto", false)

	require.NoError(t, e.svc.ReiniciarJornada(ctx))

	a, err := e.abogados.ObtenerPorID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, a.Disponible)
	assert.Zero(t, a.Asignaciones)
	assert.Empty(t, a.Sala)

	cola, err := e.svc.ColaDeEspera(ctx)
	require.NoError(t, err)
	assert.Empty(t, cola)

	s, err := e.salas.ObtenerPorNombre(ctx, "Sala 1")
	require.NoError(t, err)
	assert.True(t, s.Disponible)
	assert.Contains(t, e.eventos.tipos, models.EventoJornadaReiniciada)
}
