package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"api_notaria/src/models"
	"api_notaria/src/repository/memoria"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

func TestCalcularTotalesIVASoloHonorarios(t *testing.T) {
	p := models.Presupuesto{
		Impuestos:  []models.Concepto{{Nombre: "ISAI", Monto: 10000}},
		Derechos:   []models.Concepto{{Nombre: "Registro", Monto: 2500.5}},
		Honorarios: []models.Concepto{{Nombre: "Honorarios", Monto: 8000}, {Nombre: "Avalúo", Monto: 1999.99}},
		Otros:      []models.Concepto{{Nombre: "Copias", Monto: 150}},
	}
	services.CalcularTotales(&p)

	assert.Equal(t, 22650.49, p.Subtotal)
	assert.Equal(t, 1600.0, p.IVA)
	assert.Equal(t, 24250.49, p.Total)
}

func TestPresupuestoCrearYActualizar(t *testing.T) {
	relojFijo(t)
	ctx := context.Background()
	svc := services.NewPresupuestoService(memoria.NewPresupuestos())

	p, err := svc.Crear(ctx, models.NuevoPresupuesto{
		ClienteID:   3,
		Cliente:     "Ana López",
		TipoTramite: "Compraventa",
		Honorarios:  []models.Concepto{{Nombre: "Honorarios", Monto: 1000}},
	}, "recepcion")
	require.NoError(t, err)
	assert.False(t, p.ID.IsZero())
	assert.Equal(t, 1160.0, p.Total)
	assert.Equal(t, "recepcion", p.CreadoPor)
	assert.NotNil(t, p.Impuestos)

	actualizado, err := svc.Actualizar(ctx, p.ID.Hex(), models.NuevoPresupuesto{
		ClienteID:   3,
		Cliente:     "Ana López",
		TipoTramite: "Compraventa",
		Derechos:    []models.Concepto{{Nombre: "Registro", Monto: 500}},
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, actualizado.ID)
	assert.Equal(t, p.CreadoEn, actualizado.CreadoEn)
	assert.Equal(t, "recepcion", actualizado.CreadoPor)
	assert.Equal(t, 500.0, actualizado.Total)
	assert.True(t, actualizado.ActualizadoEn.After(p.ActualizadoEn))

	lista, err := svc.Listar(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, lista, 1)

	_, err = svc.Obtener(ctx, "no-es-un-id")
	assert.ErrorIs(t, err, utils.ErrNoEncontrado)
}

func TestCalcularRestanteNuncaNegativo(t *testing.T) {
	assert.Equal(t, 250.0, services.CalcularRestante(1000, 750))
	assert.Equal(t, 0.0, services.CalcularRestante(1000, 1200))
	assert.Equal(t, 0.1, services.CalcularRestante(0.3, 0.2))
}

func nuevoRecibo(abono float64) models.NuevoRecibo {
	return models.NuevoRecibo{
		NumeroTramite: "T-100",
		Cliente:       "Ana López",
		Concepto:      "Anticipo",
		FormaPago:     "efectivo",
		Abono:         abono,
		TotalTramite:  1000,
	}
}

func TestEmitirReciboAcumulaAbonos(t *testing.T) {
	relojFijo(t)
	ctx := context.Background()
	svc := services.NewReciboService(memoria.NewRecibos(), memoria.NewSecuencias())

	r1, err := svc.Emitir(ctx, nuevoRecibo(400), "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, r1.NumeroRecibo)
	assert.Equal(t, 400.0, r1.TotalPagado)
	assert.Equal(t, 600.0, r1.Restante)

	r2, err := svc.Emitir(ctx, nuevoRecibo(350), "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, r2.NumeroRecibo)
	assert.Equal(t, 750.0, r2.TotalPagado)
	assert.Equal(t, 250.0, r2.Restante)

	// un recibo cancelado ya no cuenta para el acumulado
	_, err = svc.Cancelar(ctx, r2.NumeroRecibo)
	require.NoError(t, err)
	_, err = svc.Cancelar(ctx, r2.NumeroRecibo)
	assert.ErrorIs(t, err, utils.ErrEstadoInvalido)

	r3, err := svc.Emitir(ctx, nuevoRecibo(800), "admin")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, r3.TotalPagado)
	assert.Equal(t, 0.0, r3.Restante)

	lista, err := svc.Listar(ctx, "T-100")
	require.NoError(t, err)
	assert.Len(t, lista, 3)
}

func TestReciboLinkExpira(t *testing.T) {
	relojFijo(t)
	ctx := context.Background()
	svc := services.NewReciboService(memoria.NewRecibos(), memoria.NewSecuencias())

	r, err := svc.Emitir(ctx, nuevoRecibo(100), "admin")
	require.NoError(t, err)
	link, err := svc.CrearLink(ctx, r.NumeroRecibo)
	require.NoError(t, err)
	assert.Equal(t, r.NumeroRecibo, link.NumeroRecibo)

	porLink, err := svc.ReciboPorLink(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, r.NumeroRecibo, porLink.NumeroRecibo)

	_, err = svc.ReciboPorLink(ctx, "token-invalido")
	assert.ErrorIs(t, err, utils.ErrNoEncontrado)

	services.NowFunc = func() time.Time { return link.Expira.Add(time.Second) }
	_, err = svc.ReciboPorLink(ctx, link.Token)
	assert.ErrorIs(t, err, utils.ErrEnlaceExpirado)
}

func libroProtocolito(t *testing.T, filas [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", celda, &fila))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportarProtocolitoUltimaFilaGana(t *testing.T) {
	relojFijo(t)
	ctx := context.Background()
	repo := memoria.NewProtocolitos()
	svc := services.NewProtocolitoService(repo, nil)

	existente, err := svc.Crear(ctx, models.Protocolito{NumeroTramite: "P-1", Cliente: "Cliente viejo"})
	require.NoError(t, err)

	archivo := libroProtocolito(t, [][]any{
		{"No. Trámite", "Fecha", "Nombre Cliente", "Importe", "Estatus"},
		{"P-1", "2026-03-01", "Ana López", "1,500.00", "Concluido"},
		{"P-2", "2026-03-02", "Beto Ruiz", 800, ""},
		{"P-2", "2026-03-03", "Beto Ruiz Díaz", 900, "en proceso"},
		{"", "2026-03-04", "Sin número", 100, ""},
		{"P-3", "2026-03-05", "Carla", "abc", ""},
		{"P-4", "2026-03-05", "Daniel", 10, "archivado"},
	})

	res, err := svc.Importar(ctx, archivo)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Insertados)
	assert.Equal(t, 1, res.Actualizados)
	require.Len(t, res.Errores, 3)
	assert.Equal(t, 5, res.Errores[0].Fila)
	assert.Equal(t, 6, res.Errores[1].Fila)
	assert.Equal(t, 7, res.Errores[2].Fila)

	p1, err := svc.Obtener(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana López", p1.Cliente)
	assert.Equal(t, 1500.0, p1.Monto)
	assert.Equal(t, models.ProtocolitoConcluido, p1.Estado)
	assert.Equal(t, existente.CreadoEn, p1.CreadoEn, "el upsert conserva la fecha de creación")

	p2, err := svc.Obtener(ctx, "P-2")
	require.NoError(t, err)
	assert.Equal(t, "Beto Ruiz Díaz", p2.Cliente)
	assert.Equal(t, 900.0, p2.Monto)
	assert.Equal(t, models.ProtocolitoEnProceso, p2.Estado)
}

func TestImportarProtocolitoArchivoInvalido(t *testing.T) {
	svc := services.NewProtocolitoService(memoria.NewProtocolitos(), nil)
	_, err := svc.Importar(context.Background(), bytes.NewBufferString("no es excel"))
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Campos, "archivo")
}

func TestExportarProtocolito(t *testing.T) {
	relojFijo(t)
	ctx := context.Background()
	svc := services.NewProtocolitoService(memoria.NewProtocolitos(), nil)
	for _, n := range []string{"E-1", "E-2"} {
		_, err := svc.Crear(ctx, models.Protocolito{NumeroTramite: n, Cliente: "Cliente " + n, Monto: 100})
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, svc.Exportar(ctx, "", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Protocolito")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "No. Trámite", rows[0][0])
}

func TestProtocolitoEstadoInvalido(t *testing.T) {
	svc := services.NewProtocolitoService(memoria.NewProtocolitos(), nil)
	_, err := svc.Crear(context.Background(), models.Protocolito{NumeroTramite: "X-1", Estado: "perdido"})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Campos, "estado")
}

func TestPlantillaCamposYLlenado(t *testing.T) {
	relojFijo(t)
	ctx := context.Background()
	svc := services.NewPlantillaService(memoria.NewPlantillas(), "Notaría 1")

	p, err := svc.Crear(ctx, models.Plantilla{
		Nombre:    "poder",
		Contenido: "Yo, {{.otorgante}}, otorgo poder a {{ .apoderado }} el {{.fecha}}.",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"otorgante", "apoderado", "fecha"}, p.Campos)

	texto, err := svc.Llenar(p, map[string]any{"otorgante": "Ana", "apoderado": "Beto", "fecha": "5 de marzo"})
	require.NoError(t, err)
	assert.Equal(t, "Yo, Ana, otorgo poder a Beto el 5 de marzo.", texto)

	_, err = svc.Llenar(p, map[string]any{"otorgante": "Ana"})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Campos, "apoderado")
	assert.Contains(t, vErr.Campos, "fecha")
	assert.NotContains(t, vErr.Campos, "otorgante")

	doc, err := svc.Generar(ctx, "poder", map[string]any{"otorgante": "Ana", "apoderado": "Beto", "fecha": "hoy"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestPlantillaContenidoInvalido(t *testing.T) {
	svc := services.NewPlantillaService(memoria.NewPlantillas(), "Notaría 1")
	_, err := svc.Crear(context.Background(), models.Plantilla{Nombre: "rota", Contenido: "{{.nombre"})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Campos, "contenido")
}
