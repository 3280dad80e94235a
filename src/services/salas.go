package services

import (
	"context"
	"strings"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

type SalaService struct {
	repo  SalaRepository
	cache *CacheService
}

func NewSalaService(repo SalaRepository, cache *CacheService) *SalaService {
	return &SalaService{repo: repo, cache: cache}
}

func (svc *SalaService) Crear(ctx context.Context, nombre string) (models.Sala, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return models.Sala{}, utils.NewValidationError("nombre", "El nombre de la sala es obligatorio")
	}
	sala := models.Sala{Nombre: nombre, Disponible: true}
	if err := svc.repo.Crear(ctx, &sala); err != nil {
		return models.Sala{}, err
	}
	svc.cache.Invalidar(ctx, CacheSalas)
	return sala, nil
}

func (svc *SalaService) Listar(ctx context.Context) ([]models.Sala, error) {
	return GetOrSet(ctx, svc.cache, CacheSalas, "todas", func() ([]models.Sala, error) {
		return svc.repo.Listar(ctx)
	})
}

// Eliminar solo permite borrar salas libres.
func (svc *SalaService) Eliminar(ctx context.Context, nombre string) error {
	sala, err := svc.repo.ObtenerPorNombre(ctx, nombre)
	if err != nil {
		return err
	}
	if !sala.Disponible {
		return utils.ErrEstadoInvalido
	}
	if err := svc.repo.Eliminar(ctx, nombre); err != nil {
		return err
	}
	svc.cache.Invalidar(ctx, CacheSalas)
	return nil
}
