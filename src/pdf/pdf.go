// Package pdf genera los documentos descargables: recibos, presupuestos y plantillas.
package pdf

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"api_notaria/src/models"
)

type documento struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func nuevo(notaria, titulo string) *documento {
	p := fpdf.New("P", "mm", "Letter", "")
	p.SetMargins(20, 20, 20)
	p.SetAutoPageBreak(true, 20)
	p.SetTitle(titulo, true)
	p.SetCreator(notaria, true)
	d := &documento{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}

	p.SetFooterFunc(func() {
		p.SetY(-15)
		p.SetFont("Helvetica", "I", 8)
		p.CellFormat(0, 10, d.tr(fmt.Sprintf("%s - página %d", notaria, p.PageNo())), "", 0, "C", false, 0, "")
	})
	p.AddPage()

	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(0, 8, d.tr(notaria), "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 12)
	p.CellFormat(0, 8, d.tr(titulo), "", 1, "C", false, 0, "")
	p.Ln(6)
	return d
}

func (d *documento) campo(etiqueta, valor string) {
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.CellFormat(50, 7, d.tr(etiqueta), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.MultiCell(0, 7, d.tr(valor), "", "L", false)
}

func (d *documento) renglon(concepto string, monto float64, negritas bool) {
	estilo := ""
	if negritas {
		estilo = "B"
	}
	d.pdf.SetFont("Helvetica", estilo, 10)
	d.pdf.CellFormat(130, 7, d.tr(concepto), "1", 0, "L", false, 0, "")
	d.pdf.CellFormat(0, 7, Moneda(monto), "1", 1, "R", false, 0, "")
}

func (d *documento) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generando pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Recibo genera el comprobante de pago.
func Recibo(notaria string, r models.Recibo) ([]byte, error) {
	d := nuevo(notaria, fmt.Sprintf("Recibo de pago No. %06d", r.NumeroRecibo))
	d.campo("Fecha:", Fecha(r.Fecha))
	d.campo("Número de trámite:", r.NumeroTramite)
	d.campo("Recibimos de:", r.Cliente)
	d.campo("Concepto:", r.Concepto)
	d.campo("Forma de pago:", r.FormaPago)
	d.pdf.Ln(4)

	d.renglon("Abono recibido", r.Abono, true)
	d.renglon("Total del trámite", r.TotalTramite, false)
	d.renglon("Total pagado a la fecha", r.TotalPagado, false)
	d.renglon("Restante", r.Restante, true)

	if r.Cancelado {
		d.pdf.Ln(6)
		d.pdf.SetFont("Helvetica", "B", 20)
		d.pdf.SetTextColor(200, 0, 0)
		d.pdf.CellFormat(0, 12, "CANCELADO", "", 1, "C", false, 0, "")
		d.pdf.SetTextColor(0, 0, 0)
	}

	d.pdf.Ln(20)
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(0, 6, "______________________________", "", 1, "C", false, 0, "")
	d.pdf.CellFormat(0, 6, d.tr("Recibió: "+r.EmitidoPor), "", 1, "C", false, 0, "")
	return d.bytes()
}

// Presupuesto genera el desglose de impuestos, derechos y honorarios.
func Presupuesto(notaria string, p models.Presupuesto) ([]byte, error) {
	d := nuevo(notaria, "Presupuesto")
	d.campo("Fecha:", Fecha(p.CreadoEn))
	d.campo("Cliente:", p.Cliente)
	d.campo("Trámite:", p.TipoTramite)
	d.campo("Valor de operación:", Moneda(p.ValorOperacion))
	d.pdf.Ln(4)

	secciones := []struct {
		titulo    string
		conceptos []models.Concepto
	}{
		{"Impuestos", p.Impuestos},
		{"Derechos", p.Derechos},
		{"Honorarios", p.Honorarios},
		{"Otros gastos", p.Otros},
	}
	for _, s := range secciones {
		if len(s.conceptos) == 0 {
			continue
		}
		d.pdf.SetFont("Helvetica", "B", 11)
		d.pdf.CellFormat(0, 8, d.tr(s.titulo), "", 1, "L", false, 0, "")
		for _, c := range s.conceptos {
			d.renglon(c.Nombre, c.Monto, false)
		}
		d.pdf.Ln(2)
	}

	d.renglon("Subtotal", p.Subtotal, false)
	d.renglon("IVA (honorarios)", p.IVA, false)
	d.renglon("Total", p.Total, true)

	d.pdf.Ln(8)
	d.pdf.SetFont("Helvetica", "I", 8)
	d.pdf.MultiCell(0, 5, d.tr("Presupuesto informativo sujeto a cambios en tarifas y avalúos vigentes al momento de la firma."), "", "L", false)
	return d.bytes()
}

// Documento genera un PDF de texto libre, usado por las plantillas.
func Documento(notaria, titulo, cuerpo string) ([]byte, error) {
	d := nuevo(notaria, titulo)
	d.pdf.SetFont("Times", "", 12)
	for _, parrafo := range strings.Split(cuerpo, "\n") {
		if strings.TrimSpace(parrafo) == "" {
			d.pdf.Ln(5)
			continue
		}
		d.pdf.MultiCell(0, 6, d.tr(parrafo), "", "J", false)
	}
	return d.bytes()
}

// Moneda da formato $1,234.56.
func Moneda(v float64) string {
	signo := ""
	if v < 0 {
		signo = "-"
		v = -v
	}
	centavos := int64(math.Round(v * 100))
	entero := strconv.FormatInt(centavos/100, 10)
	var b strings.Builder
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", signo, b.String(), centavos%100)
}

var meses = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// Fecha da formato "2 de enero de 2006".
func Fecha(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), meses[t.Month()-1], t.Year())
}
