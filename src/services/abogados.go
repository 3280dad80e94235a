package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

type AbogadoService struct {
	repo       AbogadoRepository
	secuencias SecuenciaRepository
	cache      *CacheService
}

func NewAbogadoService(repo AbogadoRepository, secuencias SecuenciaRepository, cache *CacheService) *AbogadoService {
	return &AbogadoService{repo: repo, secuencias: secuencias, cache: cache}
}

func (svc *AbogadoService) Crear(ctx context.Context, na models.NuevoAbogado) (models.Abogado, error) {
	usuario := strings.ToLower(strings.TrimSpace(na.Usuario))
	if _, err := svc.repo.ObtenerPorUsuario(ctx, usuario); err == nil {
		return models.Abogado{}, utils.NewValidationError("usuario", "Ya existe un abogado con ese usuario")
	} else if !errors.Is(err, utils.ErrNoEncontrado) {
		return models.Abogado{}, err
	}

	id, err := svc.secuencias.Siguiente(ctx, "abogados")
	if err != nil {
		return models.Abogado{}, fmt.Errorf("generando id de abogado: %w", err)
	}
	rol := na.Rol
	if rol == "" {
		rol = models.RolAbogado
	}
	abogado := models.Abogado{
		ID:         id,
		Nombre:     strings.TrimSpace(na.Nombre),
		Usuario:    usuario,
		Rol:        rol,
		Disponible: rol == models.RolAbogado,
		Orden:      na.Orden,
		Email:      strings.TrimSpace(na.Email),
		Telefono:   strings.TrimSpace(na.Telefono),
	}
	if abogado.Orden == 0 {
		abogado.Orden = id
	}
	if err := abogado.SetPassword(na.Password); err != nil {
		return models.Abogado{}, fmt.Errorf("hasheando contraseña: %w", err)
	}
	if err := svc.repo.Crear(ctx, &abogado); err != nil {
		return models.Abogado{}, err
	}
	svc.cache.Invalidar(ctx, CacheAbogados)
	return abogado, nil
}

// Listar devuelve los abogados ordenados por orden; la lista se guarda en caché.
func (svc *AbogadoService) Listar(ctx context.Context) ([]models.Abogado, error) {
	return GetOrSet(ctx, svc.cache, CacheAbogados, "todos", func() ([]models.Abogado, error) {
		return svc.repo.Listar(ctx)
	})
}

func (svc *AbogadoService) Obtener(ctx context.Context, id int) (models.Abogado, error) {
	return svc.repo.ObtenerPorID(ctx, id)
}

func (svc *AbogadoService) Actualizar(ctx context.Context, id int, ua models.ActualizarAbogado) (models.Abogado, error) {
	abogado, err := svc.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return models.Abogado{}, err
	}
	if ua.Nombre != nil {
		abogado.Nombre = strings.TrimSpace(*ua.Nombre)
	}
	if ua.Rol != nil {
		abogado.Rol = *ua.Rol
	}
	if ua.Orden != nil {
		abogado.Orden = *ua.Orden
	}
	if ua.Email != nil {
		abogado.Email = strings.TrimSpace(*ua.Email)
	}
	if ua.Telefono != nil {
		abogado.Telefono = strings.TrimSpace(*ua.Telefono)
	}
	if ua.Password != nil {
		if err := abogado.SetPassword(*ua.Password); err != nil {
			return models.Abogado{}, fmt.Errorf("hasheando contraseña: %w", err)
		}
	}
	if err := svc.repo.Actualizar(ctx, abogado); err != nil {
		return models.Abogado{}, err
	}
	svc.cache.Invalidar(ctx, CacheAbogados)
	return abogado, nil
}

func (svc *AbogadoService) Eliminar(ctx context.Context, id int) error {
	if err := svc.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	svc.cache.Invalidar(ctx, CacheAbogados)
	return nil
}

// FijarDisponibilidad cambia manualmente la disponibilidad (p. ej. el abogado sale a comer).
func (svc *AbogadoService) FijarDisponibilidad(ctx context.Context, id int, disponible bool) (models.Abogado, error) {
	abogado, err := svc.repo.FijarDisponibilidad(ctx, id, disponible)
	if err != nil {
		return models.Abogado{}, err
	}
	svc.cache.Invalidar(ctx, CacheAbogados)
	return abogado, nil
}

// Reordenar asigna orden 1..n según la posición de cada id en la lista.
func (svc *AbogadoService) Reordenar(ctx context.Context, ids []int) error {
	vistos := make(map[int]bool, len(ids))
	for _, id := range ids {
		if vistos[id] {
			return utils.NewValidationError("ids", fmt.Sprintf("El id %d está repetido", id))
		}
		vistos[id] = true
	}
	if err := svc.repo.Reordenar(ctx, ids); err != nil {
		return err
	}
	svc.cache.Invalidar(ctx, CacheAbogados)
	return nil
}
