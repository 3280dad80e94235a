package memoria

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

type Salas struct {
	mu    sync.Mutex
	datos map[string]models.Sala
}

func NewSalas() *Salas {
	return &Salas{datos: make(map[string]models.Sala)}
}

func (r *Salas) Crear(_ context.Context, sala *models.Sala) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datos[sala.Nombre]; ok {
		return utils.ErrDuplicado
	}
	r.datos[sala.Nombre] = *sala
	return nil
}

func (r *Salas) ordenadas() []models.Sala {
	lista := make([]models.Sala, 0, len(r.datos))
	for _, s := range r.datos {
		lista = append(lista, s)
	}
	slices.SortFunc(lista, func(a, b models.Sala) int { return strings.Compare(a.Nombre, b.Nombre) })
	return lista
}

func (r *Salas) Listar(context.Context) ([]models.Sala, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordenadas(), nil
}

func (r *Salas) ObtenerPorNombre(_ context.Context, nombre string) (models.Sala, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.datos[nombre]
	if !ok {
		return models.Sala{}, fmt.Errorf("sala %s: %w", nombre, utils.ErrNoEncontrado)
	}
	return s, nil
}

func (r *Salas) Eliminar(_ context.Context, nombre string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datos[nombre]; !ok {
		return fmt.Errorf("sala %s: %w", nombre, utils.ErrNoEncontrado)
	}
	delete(r.datos, nombre)
	return nil
}

func (r *Salas) Tomar(_ context.Context, nombre string, abogadoID int) (models.Sala, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if nombre != "" {
		s, ok := r.datos[nombre]
		if !ok {
			return models.Sala{}, fmt.Errorf("sala %s: %w", nombre, utils.ErrNoEncontrado)
		}
		if !s.Disponible {
			return models.Sala{}, fmt.Errorf("sala %s ocupada: %w", nombre, utils.ErrSinDisponibles)
		}
		return r.ocupar(s, abogadoID), nil
	}
	for _, s := range r.ordenadas() {
		if s.Disponible {
			return r.ocupar(s, abogadoID), nil
		}
	}
	return models.Sala{}, utils.ErrSinDisponibles
}

func (r *Salas) ocupar(s models.Sala, abogadoID int) models.Sala {
	s.Disponible = false
	s.AbogadoAsignado = &abogadoID
	r.datos[s.Nombre] = s
	return s
}

func (r *Salas) Liberar(_ context.Context, nombre string) (models.Sala, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.datos[nombre]
	if !ok {
		return models.Sala{}, fmt.Errorf("sala %s: %w", nombre, utils.ErrNoEncontrado)
	}
	s.Disponible = true
	s.AbogadoAsignado = nil
	r.datos[nombre] = s
	return s, nil
}

func (r *Salas) LiberarDeAbogado(ctx context.Context, abogadoID int) (models.Sala, error) {
	r.mu.Lock()
	var nombre string
	for _, s := range r.datos {
		if s.AbogadoAsignado != nil && *s.AbogadoAsignado == abogadoID {
			nombre = s.Nombre
			break
		}
	}
	r.mu.Unlock()
	if nombre == "" {
		return models.Sala{}, fmt.Errorf("sala del abogado %d: %w", abogadoID, utils.ErrNoEncontrado)
	}
	return r.Liberar(ctx, nombre)
}

func (r *Salas) LiberarTodas(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for nombre, s := range r.datos {
		s.Disponible = true
		s.AbogadoAsignado = nil
		r.datos[nombre] = s
	}
	return nil
}
