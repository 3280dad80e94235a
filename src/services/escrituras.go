package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

type EscrituraService struct {
	repo EscrituraRepository
}

func NewEscrituraService(repo EscrituraRepository) *EscrituraService {
	return &EscrituraService{repo: repo}
}

func (svc *EscrituraService) Crear(ctx context.Context, e models.Escritura) (models.Escritura, error) {
	e.NumeroEscritura = strings.TrimSpace(e.NumeroEscritura)
	e.NumeroTramite = strings.TrimSpace(e.NumeroTramite)
	if e.Estado == "" {
		e.Estado = models.EscrituraEnProceso
	}
	if e.Estado == models.EscrituraEntregada {
		return models.Escritura{}, utils.NewValidationError("estado", "Use la operación de entrega para marcar la escritura como entregada")
	}
	ahora := NowFunc()
	e.Entregado = false
	e.FechaEntrega = nil
	e.CreadoEn = ahora
	e.ActualizadoEn = ahora
	if err := svc.repo.Crear(ctx, &e); err != nil {
		return models.Escritura{}, err
	}
	return e, nil
}

func (svc *EscrituraService) Listar(ctx context.Context, filtro models.FiltroEscrituras) ([]models.Escritura, error) {
	if filtro.Estado != "" && !slices.Contains(models.EstadosEscritura, filtro.Estado) {
		return nil, utils.NewValidationError("estado", "Estado de escritura no válido")
	}
	return svc.repo.Listar(ctx, filtro)
}

func (svc *EscrituraService) Obtener(ctx context.Context, numero string) (models.Escritura, error) {
	return svc.repo.ObtenerPorNumero(ctx, numero)
}

// Actualizar reemplaza los datos generales; estado y entrega tienen sus propias operaciones.
func (svc *EscrituraService) Actualizar(ctx context.Context, numero string, cambios models.Escritura) (models.Escritura, error) {
	actual, err := svc.repo.ObtenerPorNumero(ctx, numero)
	if err != nil {
		return models.Escritura{}, err
	}
	actual.NumeroTramite = strings.TrimSpace(cambios.NumeroTramite)
	actual.ClienteID = cambios.ClienteID
	actual.AbogadoID = cambios.AbogadoID
	actual.Acto = cambios.Acto
	actual.FechaFirma = cambios.FechaFirma
	actual.Observaciones = cambios.Observaciones
	actual.ActualizadoEn = NowFunc()
	if err := svc.repo.Actualizar(ctx, actual); err != nil {
		return models.Escritura{}, err
	}
	return actual, nil
}

// CambiarEstado mueve la escritura a otro estado; una entregada o cancelada ya no cambia.
func (svc *EscrituraService) CambiarEstado(ctx context.Context, numero, estado string) (models.Escritura, error) {
	if !slices.Contains(models.EstadosEscritura, estado) {
		return models.Escritura{}, utils.NewValidationError("estado", "Estado de escritura no válido")
	}
	if estado == models.EscrituraEntregada {
		return models.Escritura{}, utils.NewValidationError("estado", "Use la operación de entrega para marcar la escritura como entregada")
	}
	e, err := svc.repo.ObtenerPorNumero(ctx, numero)
	if err != nil {
		return models.Escritura{}, err
	}
	if e.Estado == models.EscrituraEntregada || e.Estado == models.EscrituraCancelada {
		return models.Escritura{}, fmt.Errorf("escritura %s %s: %w", numero, e.Estado, utils.ErrEstadoInvalido)
	}
	e.Estado = estado
	if estado == models.EscrituraFirmada && e.FechaFirma == nil {
		ahora := NowFunc()
		e.FechaFirma = &ahora
	}
	e.ActualizadoEn = NowFunc()
	if err := svc.repo.Actualizar(ctx, e); err != nil {
		return models.Escritura{}, err
	}
	return e, nil
}

// RegistrarEntrega marca la escritura como entregada a quien la recibe.
func (svc *EscrituraService) RegistrarEntrega(ctx context.Context, numero, recibidoPor string) (models.Escritura, error) {
	recibidoPor = strings.TrimSpace(recibidoPor)
	if recibidoPor == "" {
		return models.Escritura{}, utils.NewValidationError("recibidoPor", "Indique quién recibe la escritura")
	}
	e, err := svc.repo.ObtenerPorNumero(ctx, numero)
	if err != nil {
		return models.Escritura{}, err
	}
	if e.Entregado || e.Estado == models.EscrituraCancelada {
		return models.Escritura{}, fmt.Errorf("escritura %s %s: %w", numero, e.Estado, utils.ErrEstadoInvalido)
	}
	ahora := NowFunc()
	e.Entregado = true
	e.FechaEntrega = &ahora
	e.RecibidoPor = recibidoPor
	e.Estado = models.EscrituraEntregada
	e.ActualizadoEn = ahora
	if err := svc.repo.Actualizar(ctx, e); err != nil {
		return models.Escritura{}, err
	}
	return e, nil
}

func (svc *EscrituraService) Eliminar(ctx context.Context, numero string) error {
	return svc.repo.Eliminar(ctx, numero)
}
