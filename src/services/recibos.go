package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

// VigenciaLink es el tiempo durante el que un enlace público de recibo es válido.
const VigenciaLink = 7 * 24 * time.Hour

type ReciboService struct {
	repo       ReciboRepository
	secuencias SecuenciaRepository
}

func NewReciboService(repo ReciboRepository, secuencias SecuenciaRepository) *ReciboService {
	return &ReciboService{repo: repo, secuencias: secuencias}
}

// CalcularRestante devuelve lo que falta por pagar, nunca negativo.
func CalcularRestante(totalTramite, totalPagado float64) float64 {
	restante := redondear(totalTramite - totalPagado)
	if restante < 0 {
		return 0
	}
	return restante
}

// Emitir crea el recibo: totalPagado acumula los abonos vigentes del mismo trámite.
func (svc *ReciboService) Emitir(ctx context.Context, nr models.NuevoRecibo, emitidoPor string) (models.Recibo, error) {
	numeroTramite := strings.TrimSpace(nr.NumeroTramite)
	previo, err := svc.repo.TotalAbonado(ctx, numeroTramite)
	if err != nil {
		return models.Recibo{}, fmt.Errorf("sumando abonos del trámite %s: %w", numeroTramite, err)
	}
	numero, err := svc.secuencias.Siguiente(ctx, "recibos")
	if err != nil {
		return models.Recibo{}, fmt.Errorf("generando número de recibo: %w", err)
	}

	totalPagado := redondear(previo + nr.Abono)
	r := models.Recibo{
		NumeroRecibo:  numero,
		NumeroTramite: numeroTramite,
		Cliente:       strings.TrimSpace(nr.Cliente),
		Concepto:      strings.TrimSpace(nr.Concepto),
		FormaPago:     nr.FormaPago,
		Abono:         redondear(nr.Abono),
		TotalTramite:  redondear(nr.TotalTramite),
		TotalPagado:   totalPagado,
		Restante:      CalcularRestante(nr.TotalTramite, totalPagado),
		Fecha:         NowFunc(),
		EmitidoPor:    emitidoPor,
	}
	if err := svc.repo.Crear(ctx, &r); err != nil {
		return models.Recibo{}, err
	}
	return r, nil
}

func (svc *ReciboService) Listar(ctx context.Context, numeroTramite string) ([]models.Recibo, error) {
	return svc.repo.Listar(ctx, strings.TrimSpace(numeroTramite))
}

func (svc *ReciboService) Obtener(ctx context.Context, numero int) (models.Recibo, error) {
	return svc.repo.ObtenerPorNumero(ctx, numero)
}

func (svc *ReciboService) Cancelar(ctx context.Context, numero int) (models.Recibo, error) {
	r, err := svc.repo.ObtenerPorNumero(ctx, numero)
	if err != nil {
		return models.Recibo{}, err
	}
	if r.Cancelado {
		return models.Recibo{}, fmt.Errorf("recibo %d ya cancelado: %w", numero, utils.ErrEstadoInvalido)
	}
	return svc.repo.Cancelar(ctx, numero)
}

// CrearLink genera un enlace público de descarga para el recibo.
func (svc *ReciboService) CrearLink(ctx context.Context, numero int) (models.ReciboLink, error) {
	r, err := svc.repo.ObtenerPorNumero(ctx, numero)
	if err != nil {
		return models.ReciboLink{}, err
	}
	link := models.ReciboLink{
		Token:         uuid.NewString(),
		NumeroRecibo:  r.NumeroRecibo,
		NumeroTramite: r.NumeroTramite,
		Expira:        NowFunc().Add(VigenciaLink),
	}
	if err := svc.repo.CrearLink(ctx, &link); err != nil {
		return models.ReciboLink{}, err
	}
	return link, nil
}

// ReciboPorLink resuelve un enlace público vigente.
func (svc *ReciboService) ReciboPorLink(ctx context.Context, token string) (models.Recibo, error) {
	if _, err := uuid.Parse(token); err != nil {
		return models.Recibo{}, utils.ErrNoEncontrado
	}
	link, err := svc.repo.ObtenerLink(ctx, token)
	if err != nil {
		return models.Recibo{}, err
	}
	if NowFunc().After(link.Expira) {
		return models.Recibo{}, utils.ErrEnlaceExpirado
	}
	return svc.repo.ObtenerPorNumero(ctx, link.NumeroRecibo)
}
