package memoria

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

type Clientes struct {
	mu    sync.Mutex
	datos map[int]models.Cliente
}

func NewClientes() *Clientes {
	return &Clientes{datos: make(map[int]models.Cliente)}
}

func ordenCola(a, b models.Cliente) int {
	if a.TieneCita != b.TieneCita {
		if a.TieneCita {
			return -1
		}
		return 1
	}
	return cmp.Or(a.HoraLlegada.Compare(b.HoraLlegada), cmp.Compare(a.ID, b.ID))
}

func (r *Clientes) Crear(_ context.Context, cliente *models.Cliente) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datos[cliente.ID]; ok {
		return utils.ErrDuplicado
	}
	r.datos[cliente.ID] = *cliente
	return nil
}

func (r *Clientes) Listar(_ context.Context, filtro models.FiltroClientes) ([]models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lista := []models.Cliente{}
	for _, c := range r.datos {
		if filtro.Estado != "" && c.Estado != filtro.Estado {
			continue
		}
		if !filtro.Desde.IsZero() && c.HoraLlegada.Before(filtro.Desde) {
			continue
		}
		if !filtro.Hasta.IsZero() && !c.HoraLlegada.Before(filtro.Hasta) {
			continue
		}
		lista = append(lista, c)
	}
	slices.SortFunc(lista, func(a, b models.Cliente) int {
		return cmp.Or(a.HoraLlegada.Compare(b.HoraLlegada), cmp.Compare(a.ID, b.ID))
	})
	return lista, nil
}

func (r *Clientes) ObtenerPorID(_ context.Context, id int) (models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.datos[id]
	if !ok {
		return models.Cliente{}, fmt.Errorf("cliente %d: %w", id, utils.ErrNoEncontrado)
	}
	return c, nil
}

func (r *Clientes) ActualizarContacto(_ context.Context, id int, cambios models.ActualizarCliente) (models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.datos[id]
	if !ok {
		return models.Cliente{}, fmt.Errorf("cliente %d: %w", id, utils.ErrNoEncontrado)
	}
	if cambios.Nombre != nil {
		c.Nombre = *cambios.Nombre
	}
	if cambios.Telefono != nil {
		c.Telefono = *cambios.Telefono
	}
	if cambios.Motivo != nil {
		c.Motivo = *cambios.Motivo
	}
	if cambios.TieneCita != nil {
		c.TieneCita = *cambios.TieneCita
	}
	r.datos[id] = c
	return c, nil
}

// transicion aplica fn solo si el cliente cumple desde.
func (r *Clientes) transicion(id int, desde func(models.Cliente) bool, fn func(*models.Cliente)) (models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.datos[id]
	if !ok {
		return models.Cliente{}, fmt.Errorf("cliente %d: %w", id, utils.ErrNoEncontrado)
	}
	if !desde(c) {
		return models.Cliente{}, fmt.Errorf("cliente %d en estado %q: %w", id, c.Estado, utils.ErrEstadoInvalido)
	}
	fn(&c)
	r.datos[id] = c
	return c, nil
}

func pendiente(c models.Cliente) bool {
	return c.Estado == models.EstadoEnEspera && !c.EnEspera
}

func (r *Clientes) Asignar(_ context.Context, id, abogadoID int, sala string) (models.Cliente, error) {
	return r.transicion(id, pendiente, func(c *models.Cliente) {
		c.Estado = models.EstadoAsignado
		c.EnEspera = false
		c.AbogadoAsignado = &abogadoID
		c.Sala = sala
	})
}

func (r *Clientes) Encolar(_ context.Context, id int) (models.Cliente, error) {
	return r.transicion(id, pendiente, func(c *models.Cliente) {
		c.EnEspera = true
		c.AbogadoAsignado = nil
		c.Sala = ""
	})
}

func (r *Clientes) Cancelar(_ context.Context, id int) (models.Cliente, error) {
	return r.transicion(id, func(c models.Cliente) bool { return c.EnEspera }, func(c *models.Cliente) {
		c.EnEspera = false
		c.Estado = models.EstadoCancelado
	})
}

func (r *Clientes) Atender(_ context.Context, id int, cuando time.Time) (models.Cliente, error) {
	return r.transicion(id, func(c models.Cliente) bool { return c.Estado == models.EstadoAsignado }, func(c *models.Cliente) {
		c.Estado = models.EstadoAtendido
		c.AtendidoEn = &cuando
	})
}

func (r *Clientes) Eliminar(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datos[id]; !ok {
		return fmt.Errorf("cliente %d: %w", id, utils.ErrNoEncontrado)
	}
	delete(r.datos, id)
	return nil
}

func (r *Clientes) cola() []models.Cliente {
	lista := []models.Cliente{}
	for _, c := range r.datos {
		if c.EnEspera {
			lista = append(lista, c)
		}
	}
	slices.SortFunc(lista, ordenCola)
	return lista
}

func (r *Clientes) ColaDeEspera(context.Context) ([]models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cola(), nil
}

func (r *Clientes) TomarEnEspera(_ context.Context, abogadoID int) (models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cola() {
		if c.AbogadoPreferido != nil && *c.AbogadoPreferido != abogadoID {
			continue
		}
		c.EnEspera = false
		r.datos[c.ID] = c
		return c, nil
	}
	return models.Cliente{}, fmt.Errorf("cola de espera: %w", utils.ErrNoEncontrado)
}

func (r *Clientes) EnAtencionPor(_ context.Context, abogadoID int) (models.Cliente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var actual *models.Cliente
	for _, c := range r.datos {
		if c.Estado != models.EstadoAsignado || c.AbogadoAsignado == nil || *c.AbogadoAsignado != abogadoID {
			continue
		}
		if actual == nil || c.HoraLlegada.After(actual.HoraLlegada) {
			actual = &c
		}
	}
	if actual == nil {
		return models.Cliente{}, fmt.Errorf("cliente del abogado %d: %w", abogadoID, utils.ErrNoEncontrado)
	}
	return *actual, nil
}

func (r *Clientes) CancelarEspera(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, c := range r.datos {
		if !c.EnEspera {
			continue
		}
		c.EnEspera = false
		c.Estado = models.EstadoCancelado
		r.datos[id] = c
		n++
	}
	return n, nil
}
