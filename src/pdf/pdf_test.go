package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/models"
)

func TestMoneda(t *testing.T) {
	tests := []struct {
		valor float64
		want  string
	}{
		{0, "$0.00"},
		{5.5, "$5.50"},
		{999.999, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-25, "-$25.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Moneda(tt.valor))
	}
}

func TestFecha(t *testing.T) {
	assert.Equal(t, "5 de marzo de 2026", Fecha(time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", Fecha(time.Time{}))
}

func TestRecibo(t *testing.T) {
	out, err := Recibo("Notaría 7", models.Recibo{
		NumeroRecibo:  12,
		NumeroTramite: "T-100",
		Cliente:       "José Núñez",
		Concepto:      "Anticipo de escritura",
		FormaPago:     "efectivo",
		Abono:         1500,
		TotalTramite:  5000,
		TotalPagado:   1500,
		Restante:      3500,
		Fecha:         time.Now(),
		EmitidoPor:    "recepcion",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPresupuestoYDocumento(t *testing.T) {
	out, err := Presupuesto("Notaría 7", models.Presupuesto{
		Cliente:     "Ana",
		TipoTramite: "Compraventa",
		Impuestos:   []models.Concepto{{Nombre: "ISAI", Monto: 2000}},
		Honorarios:  []models.Concepto{{Nombre: "Honorarios", Monto: 1000}},
		Subtotal:    3000,
		IVA:         160,
		Total:       3160,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	out, err = Documento("Notaría 7", "Carta", "Primer párrafo.\n\nSegundo párrafo.")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
