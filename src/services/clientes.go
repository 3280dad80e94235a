package services

import (
	"context"
	"strings"

	"api_notaria/src/models"
)

type ClienteService struct {
	repo ClienteRepository
}

func NewClienteService(repo ClienteRepository) *ClienteService {
	return &ClienteService{repo: repo}
}

func (svc *ClienteService) Listar(ctx context.Context, filtro models.FiltroClientes) ([]models.Cliente, error) {
	return svc.repo.Listar(ctx, filtro)
}

func (svc *ClienteService) Obtener(ctx context.Context, id int) (models.Cliente, error) {
	return svc.repo.ObtenerPorID(ctx, id)
}

// Actualizar modifica los datos de contacto; el estado de la cola no se toca aquí.
func (svc *ClienteService) Actualizar(ctx context.Context, id int, uc models.ActualizarCliente) (models.Cliente, error) {
	uc.Nombre = recortar(uc.Nombre)
	uc.Telefono = recortar(uc.Telefono)
	uc.Motivo = recortar(uc.Motivo)
	return svc.repo.ActualizarContacto(ctx, id, uc)
}

func recortar(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (svc *ClienteService) Eliminar(ctx context.Context, id int) error {
	return svc.repo.Eliminar(ctx, id)
}
