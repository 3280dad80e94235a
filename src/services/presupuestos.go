package services

import (
	"context"
	"math"
	"strings"

	"api_notaria/src/models"
)

// TasaIVA se aplica solo sobre los honorarios.
const TasaIVA = 0.16

type PresupuestoService struct {
	repo PresupuestoRepository
}

func NewPresupuestoService(repo PresupuestoRepository) *PresupuestoService {
	return &PresupuestoService{repo: repo}
}

func redondear(v float64) float64 {
	return math.Round(v*100) / 100
}

func sumar(conceptos []models.Concepto) float64 {
	var total float64
	for _, c := range conceptos {
		total += c.Monto
	}
	return total
}

// CalcularTotales llena subtotal, iva y total a partir de las líneas del presupuesto.
func CalcularTotales(p *models.Presupuesto) {
	honorarios := sumar(p.Honorarios)
	p.Subtotal = redondear(sumar(p.Impuestos) + sumar(p.Derechos) + sumar(p.Otros) + honorarios)
	p.IVA = redondear(honorarios * TasaIVA)
	p.Total = redondear(p.Subtotal + p.IVA)
}

func presupuestoDesde(np models.NuevoPresupuesto) models.Presupuesto {
	p := models.Presupuesto{
		ClienteID:      np.ClienteID,
		Cliente:        strings.TrimSpace(np.Cliente),
		TipoTramite:    strings.TrimSpace(np.TipoTramite),
		ValorOperacion: np.ValorOperacion,
		Impuestos:      noNil(np.Impuestos),
		Derechos:       noNil(np.Derechos),
		Honorarios:     noNil(np.Honorarios),
		Otros:          noNil(np.Otros),
	}
	CalcularTotales(&p)
	return p
}

func noNil(c []models.Concepto) []models.Concepto {
	if c == nil {
		return []models.Concepto{}
	}
	return c
}

func (svc *PresupuestoService) Crear(ctx context.Context, np models.NuevoPresupuesto, creadoPor string) (models.Presupuesto, error) {
	p := presupuestoDesde(np)
	ahora := NowFunc()
	p.CreadoPor = creadoPor
	p.CreadoEn = ahora
	p.ActualizadoEn = ahora
	if err := svc.repo.Crear(ctx, &p); err != nil {
		return models.Presupuesto{}, err
	}
	return p, nil
}

func (svc *PresupuestoService) Listar(ctx context.Context, clienteID int) ([]models.Presupuesto, error) {
	return svc.repo.Listar(ctx, clienteID)
}

func (svc *PresupuestoService) Obtener(ctx context.Context, id string) (models.Presupuesto, error) {
	return svc.repo.ObtenerPorID(ctx, id)
}

func (svc *PresupuestoService) Actualizar(ctx context.Context, id string, np models.NuevoPresupuesto) (models.Presupuesto, error) {
	actual, err := svc.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return models.Presupuesto{}, err
	}
	p := presupuestoDesde(np)
	p.ID = actual.ID
	p.CreadoPor = actual.CreadoPor
	p.CreadoEn = actual.CreadoEn
	p.ActualizadoEn = NowFunc()
	if err := svc.repo.Actualizar(ctx, p); err != nil {
		return models.Presupuesto{}, err
	}
	return p, nil
}

func (svc *PresupuestoService) Eliminar(ctx context.Context, id string) error {
	return svc.repo.Eliminar(ctx, id)
}
