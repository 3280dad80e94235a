// Package excel importa y exporta el protocolito en formato xlsx.
package excel

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"api_notaria/src/models"
)

const hojaProtocolito = "Protocolito"

// aliases relaciona cada campo con los encabezados que se aceptan, ya normalizados.
var aliases = map[string][]string{
	"numeroTramite":        {"numerotramite", "notramite", "tramite", "numtramite", "folio", "nodetramite", "numerodetramite"},
	"fecha":                {"fecha", "fechatramite", "fechadetramite"},
	"cliente":              {"cliente", "nombrecliente", "nombre", "otorgante"},
	"abogado":              {"abogado", "responsable", "licenciado", "lic"},
	"tipoTramite":          {"tipotramite", "tipo", "tipodetramite", "acto", "concepto"},
	"monto":                {"monto", "importe", "total", "costo"},
	"estado":               {"estado", "estatus", "status"},
	"reciboEntregado":      {"reciboentregado", "recibo"},
	"documentosEntregados": {"documentosentregados", "documentos", "entregado"},
	"observaciones":        {"observaciones", "notas", "comentarios"},
}

var encabezados = []string{
	"No. Trámite", "Fecha", "Cliente", "Abogado", "Tipo de trámite", "Monto", "Estado",
	"Recibo entregado", "Documentos entregados", "Observaciones",
}

var formatosFecha = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006", "01-02-06", time.RFC3339}

// Fila es un registro leído junto con su número de fila en la hoja (1 = encabezado).
type Fila struct {
	Numero      int
	Protocolito models.Protocolito
}

// NormalizarEncabezado quita acentos, espacios y puntuación y pasa a minúsculas.
func NormalizarEncabezado(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	sinAcentos, _, err := transform.String(t, s)
	if err != nil {
		sinAcentos = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(sinAcentos) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func campoDeEncabezado(encabezado string) string {
	n := NormalizarEncabezado(encabezado)
	if n == "" {
		return ""
	}
	for campo, lista := range aliases {
		for _, alias := range lista {
			if n == alias {
				return campo
			}
		}
	}
	return ""
}

// LeerProtocolitos lee la primera hoja del libro. Las filas vacías se omiten; las filas
// sin número de trámite o con datos ilegibles se reportan como errores.
func LeerProtocolitos(r io.Reader) ([]Fila, []models.ErrorImportacion, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("el archivo no es un Excel válido: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, nil, errors.New("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, nil, fmt.Errorf("leyendo hoja %s: %w", hojas[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("la hoja está vacía")
	}

	columnas := make(map[string]int)
	for i, encabezado := range rows[0] {
		if campo := campoDeEncabezado(encabezado); campo != "" {
			if _, repetida := columnas[campo]; !repetida {
				columnas[campo] = i
			}
		}
	}
	if _, ok := columnas["numeroTramite"]; !ok {
		return nil, nil, errors.New("no se encontró la columna de número de trámite")
	}

	var filas []Fila
	var errores []models.ErrorImportacion
	for i, row := range rows[1:] {
		numFila := i + 2
		celda := func(campo string) string {
			idx, ok := columnas[campo]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if filaVacia(row) {
			continue
		}

		p := models.Protocolito{
			NumeroTramite:        celda("numeroTramite"),
			Cliente:              celda("cliente"),
			Abogado:              celda("abogado"),
			TipoTramite:          celda("tipoTramite"),
			Estado:               strings.ToLower(celda("estado")),
			ReciboEntregado:      esVerdadero(celda("reciboEntregado")),
			DocumentosEntregados: esVerdadero(celda("documentosEntregados")),
			Observaciones:        celda("observaciones"),
		}
		if p.NumeroTramite == "" {
			errores = append(errores, models.ErrorImportacion{Fila: numFila, Mensaje: "Falta el número de trámite"})
			continue
		}
		if v := celda("monto"); v != "" {
			monto, err := parseMonto(v)
			if err != nil {
				errores = append(errores, models.ErrorImportacion{Fila: numFila, Mensaje: "Monto no válido: " + v})
				continue
			}
			p.Monto = monto
		}
		if v := celda("fecha"); v != "" {
			fecha, err := parseFecha(v)
			if err != nil {
				errores = append(errores, models.ErrorImportacion{Fila: numFila, Mensaje: "Fecha no válida: " + v})
				continue
			}
			p.Fecha = fecha
		}
		filas = append(filas, Fila{Numero: numFila, Protocolito: p})
	}
	return filas, errores, nil
}

// EscribirProtocolitos genera un libro con una hoja y un renglón por registro.
func EscribirProtocolitos(w io.Writer, registros []models.Protocolito) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", hojaProtocolito); err != nil {
		return err
	}
	for i, h := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hojaProtocolito, celda, h); err != nil {
			return err
		}
	}
	for i, p := range registros {
		valores := []any{
			p.NumeroTramite, p.Fecha.Format("2006-01-02"), p.Cliente, p.Abogado, p.TipoTramite,
			p.Monto, p.Estado, siNo(p.ReciboEntregado), siNo(p.DocumentosEntregados), p.Observaciones,
		}
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(hojaProtocolito, celda, &valores); err != nil {
			return fmt.Errorf("escribiendo fila %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}

func filaVacia(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func esVerdadero(v string) bool {
	switch NormalizarEncabezado(v) {
	case "si", "s", "x", "true", "1", "entregado", "yes":
		return true
	}
	return false
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func parseMonto(v string) (float64, error) {
	v = strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
	monto, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(monto) || math.IsInf(monto, 0) {
		return 0, fmt.Errorf("monto no finito: %s", v)
	}
	return monto, nil
}

func parseFecha(v string) (time.Time, error) {
	for _, layout := range formatosFecha {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	// número de serie de Excel
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("formato de fecha desconocido: %s", v)
}
