package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

const (
	TamanoPagina = 100
	MaxPagina    = 10000
)

type ClienteGeneralService struct {
	repo  ClienteGeneralRepository
	cache *CacheService
}

func NewClienteGeneralService(repo ClienteGeneralRepository, cache *CacheService) *ClienteGeneralService {
	return &ClienteGeneralService{repo: repo, cache: cache}
}

func normalizarClienteGeneral(c *models.ClienteGeneral) {
	c.Nombre = strings.TrimSpace(c.Nombre)
	c.ApellidoPaterno = strings.TrimSpace(c.ApellidoPaterno)
	c.ApellidoMaterno = strings.TrimSpace(c.ApellidoMaterno)
	c.CURP = strings.ToUpper(strings.TrimSpace(c.CURP))
	c.RFC = strings.ToUpper(strings.TrimSpace(c.RFC))
	c.Celular = strings.TrimSpace(c.Celular)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Domicilio = strings.TrimSpace(c.Domicilio)
}

// Crear valida los datos; si hay errores se devuelven en un ValidationError con el
// mismo reporte que queda en el campo Errores.
func (svc *ClienteGeneralService) Crear(ctx context.Context, cg models.ClienteGeneral) (models.ClienteGeneral, error) {
	normalizarClienteGeneral(&cg)
	utils.ValidateClienteGeneral(&cg)
	if cg.Errores != nil {
		return cg, &utils.ValidationError{Campos: cg.Errores}
	}
	if _, err := svc.repo.ObtenerPorClienteID(ctx, cg.ClienteID); err == nil {
		return models.ClienteGeneral{}, utils.ErrDuplicado
	} else if !errors.Is(err, utils.ErrNoEncontrado) {
		return models.ClienteGeneral{}, err
	}

	ahora := NowFunc()
	cg.CreadoEn = ahora
	cg.ActualizadoEn = ahora
	if err := svc.repo.Crear(ctx, &cg); err != nil {
		return models.ClienteGeneral{}, err
	}
	svc.cache.Invalidar(ctx, CacheClientesGenerales)
	return cg, nil
}

// ParsePagina valida el número de página (1..10000).
func ParsePagina(page string) (int, error) {
	if page == "" {
		return 0, utils.NewValidationError("page", "El atributo page es obligatorio | debe ser un número entero del 1 al 10000")
	}
	intPage, err := strconv.Atoi(page)
	if err != nil {
		return 0, utils.NewValidationError("page", page+" no es un número válido")
	}
	if intPage < 1 || intPage > MaxPagina {
		return 0, utils.NewValidationError("page", page+" no es un número válido | debe ser un número entero del 1 al 10000")
	}
	return intPage, nil
}

func (svc *ClienteGeneralService) ListarPagina(ctx context.Context, page int) ([]models.ClienteGeneral, error) {
	return GetOrSet(ctx, svc.cache, CacheClientesGenerales, strconv.Itoa(page), func() ([]models.ClienteGeneral, error) {
		return svc.repo.Listar(ctx, (page-1)*TamanoPagina, TamanoPagina)
	})
}

func (svc *ClienteGeneralService) Obtener(ctx context.Context, clienteID int) (models.ClienteGeneral, error) {
	cg, err := svc.repo.ObtenerPorClienteID(ctx, clienteID)
	if err != nil {
		return models.ClienteGeneral{}, err
	}
	// el reporte de errores se recalcula al leer
	utils.ValidateClienteGeneral(&cg)
	return cg, nil
}

func (svc *ClienteGeneralService) Actualizar(ctx context.Context, clienteID int, cambios models.ClienteGeneral) (models.ClienteGeneral, error) {
	actual, err := svc.repo.ObtenerPorClienteID(ctx, clienteID)
	if err != nil {
		return models.ClienteGeneral{}, err
	}
	cambios.ObjectID = actual.ObjectID
	cambios.ClienteID = clienteID
	cambios.CreadoEn = actual.CreadoEn
	normalizarClienteGeneral(&cambios)
	utils.ValidateClienteGeneral(&cambios)
	if cambios.Errores != nil {
		return cambios, &utils.ValidationError{Campos: cambios.Errores}
	}
	cambios.ActualizadoEn = NowFunc()
	if err := svc.repo.Actualizar(ctx, cambios); err != nil {
		return models.ClienteGeneral{}, err
	}
	svc.cache.Invalidar(ctx, CacheClientesGenerales)
	return cambios, nil
}

func (svc *ClienteGeneralService) Eliminar(ctx context.Context, clienteID int) error {
	if err := svc.repo.Eliminar(ctx, clienteID); err != nil {
		return err
	}
	svc.cache.Invalidar(ctx, CacheClientesGenerales)
	return nil
}
