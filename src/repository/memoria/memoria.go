// Package memoria implementa los repositorios de services en memoria, con las mismas
// garantías atómicas que los de MongoDB. Lo usan las pruebas de services y controllers.
package memoria

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"api_notaria/src/models"
	"api_notaria/src/services"
	"api_notaria/src/utils"
)

var (
	_ services.AbogadoRepository   = (*Abogados)(nil)
	_ services.ClienteRepository   = (*Clientes)(nil)
	_ services.SalaRepository      = (*Salas)(nil)
	_ services.SecuenciaRepository = (*Secuencias)(nil)
)

// Secuencias entrega ids consecutivos por nombre.
type Secuencias struct {
	mu  sync.Mutex
	seq map[string]int
}

func NewSecuencias() *Secuencias {
	return &Secuencias{seq: make(map[string]int)}
}

func (s *Secuencias) Siguiente(_ context.Context, nombre string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[nombre]++
	return s.seq[nombre], nil
}

type Abogados struct {
	mu    sync.Mutex
	datos map[int]models.Abogado
}

func NewAbogados() *Abogados {
	return &Abogados{datos: make(map[int]models.Abogado)}
}

func (r *Abogados) Crear(_ context.Context, abogado *models.Abogado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.datos {
		if a.ID == abogado.ID || a.Usuario == abogado.Usuario {
			return utils.ErrDuplicado
		}
	}
	r.datos[abogado.ID] = *abogado
	return nil
}

func (r *Abogados) ordenados() []models.Abogado {
	lista := make([]models.Abogado, 0, len(r.datos))
	for _, a := range r.datos {
		lista = append(lista, a)
	}
	slices.SortFunc(lista, func(a, b models.Abogado) int {
		return cmp.Or(cmp.Compare(a.Orden, b.Orden), cmp.Compare(a.Asignaciones, b.Asignaciones), cmp.Compare(a.ID, b.ID))
	})
	return lista
}

func (r *Abogados) Listar(context.Context) ([]models.Abogado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordenados(), nil
}

func (r *Abogados) ObtenerPorID(_ context.Context, id int) (models.Abogado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.datos[id]
	if !ok {
		return models.Abogado{}, fmt.Errorf("abogado %d: %w", id, utils.ErrNoEncontrado)
	}
	return a, nil
}

func (r *Abogados) ObtenerPorUsuario(_ context.Context, usuario string) (models.Abogado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.datos {
		if a.Usuario == usuario {
			return a, nil
		}
	}
	return models.Abogado{}, fmt.Errorf("abogado %s: %w", usuario, utils.ErrNoEncontrado)
}

func (r *Abogados) modificar(id int, fn func(*models.Abogado)) (models.Abogado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.datos[id]
	if !ok {
		return models.Abogado{}, fmt.Errorf("abogado %d: %w", id, utils.ErrNoEncontrado)
	}
	fn(&a)
	r.datos[id] = a
	return a, nil
}

func (r *Abogados) Actualizar(_ context.Context, abogado models.Abogado) error {
	_, err := r.modificar(abogado.ID, func(a *models.Abogado) {
		a.Nombre = abogado.Nombre
		a.Rol = abogado.Rol
		a.Orden = abogado.Orden
		a.Email = abogado.Email
		a.Telefono = abogado.Telefono
		a.PasswordHash = abogado.PasswordHash
	})
	return err
}

func (r *Abogados) Eliminar(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datos[id]; !ok {
		return fmt.Errorf("abogado %d: %w", id, utils.ErrNoEncontrado)
	}
	delete(r.datos, id)
	return nil
}

func (r *Abogados) TomarDisponible(_ context.Context, preferido *int) (models.Abogado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.ordenados() {
		if !a.Disponible || a.Rol != models.RolAbogado {
			continue
		}
		if preferido != nil && a.ID != *preferido {
			continue
		}
		a.Disponible = false
		a.Asignaciones++
		r.datos[a.ID] = a
		return a, nil
	}
	return models.Abogado{}, utils.ErrSinDisponibles
}

func (r *Abogados) Liberar(_ context.Context, id int) (models.Abogado, error) {
	return r.modificar(id, func(a *models.Abogado) {
		a.Disponible = true
		a.Sala = ""
	})
}

func (r *Abogados) Devolver(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.datos[id]
	if !ok {
		return fmt.Errorf("abogado %d: %w", id, utils.ErrNoEncontrado)
	}
	if a.Disponible {
		return nil
	}
	a.Disponible = true
	a.Asignaciones--
	r.datos[id] = a
	return nil
}

func (r *Abogados) FijarDisponibilidad(_ context.Context, id int, disponible bool) (models.Abogado, error) {
	return r.modificar(id, func(a *models.Abogado) { a.Disponible = disponible })
}

func (r *Abogados) FijarSala(_ context.Context, id int, sala string) error {
	_, err := r.modificar(id, func(a *models.Abogado) { a.Sala = sala })
	return err
}

func (r *Abogados) Reordenar(_ context.Context, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.datos[id]; !ok {
			return fmt.Errorf("abogado %d: %w", id, utils.ErrNoEncontrado)
		}
	}
	for i, id := range ids {
		a := r.datos[id]
		a.Orden = i + 1
		r.datos[id] = a
	}
	return nil
}

func (r *Abogados) ReiniciarJornada(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.datos {
		if a.Rol != models.RolAbogado {
			continue
		}
		a.Disponible = true
		a.Asignaciones = 0
		a.Sala = ""
		r.datos[id] = a
	}
	return nil
}
