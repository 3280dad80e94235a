package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

// AsignacionService reparte clientes entre abogados y salas. Cada paso que reclama un
// recurso (abogado libre, sala libre, cliente en espera) es una sola operación atómica
// en el repositorio, así dos peticiones simultáneas nunca toman el mismo recurso.
type AsignacionService struct {
	abogados   AbogadoRepository
	clientes   ClienteRepository
	salas      SalaRepository
	secuencias SecuenciaRepository
	notif      Notificador
	cache      *CacheService
}

func NewAsignacionService(
	abogados AbogadoRepository,
	clientes ClienteRepository,
	salas SalaRepository,
	secuencias SecuenciaRepository,
	notif Notificador,
	cache *CacheService,
) *AsignacionService {
	if notif == nil {
		notif = sinNotificar{}
	}
	return &AsignacionService{
		abogados:   abogados,
		clientes:   clientes,
		salas:      salas,
		secuencias: secuencias,
		notif:      notif,
		cache:      cache,
	}
}

// RegistrarCliente da de alta al cliente y le asigna abogado o lo deja en espera.
func (svc *AsignacionService) RegistrarCliente(ctx context.Context, nc models.NuevoCliente) (models.Cliente, error) {
	if nc.AbogadoPreferido != nil {
		if _, err := svc.abogados.ObtenerPorID(ctx, *nc.AbogadoPreferido); err != nil {
			if errors.Is(err, utils.ErrNoEncontrado) {
				return models.Cliente{}, utils.NewValidationError("abogadoPreferido", "El abogado preferido no existe")
			}
			return models.Cliente{}, err
		}
	}

	id, err := svc.secuencias.Siguiente(ctx, "clientes")
	if err != nil {
		return models.Cliente{}, fmt.Errorf("generando id de cliente: %w", err)
	}

	// el cliente nace pendiente: fuera de la cola hasta que asignar decida, así una
	// liberación simultánea no puede tomarlo a medias
	cliente := models.Cliente{
		ID:               id,
		Nombre:           strings.TrimSpace(nc.Nombre),
		Telefono:         strings.TrimSpace(nc.Telefono),
		Motivo:           strings.TrimSpace(nc.Motivo),
		HoraLlegada:      NowFunc(),
		AbogadoPreferido: nc.AbogadoPreferido,
		TieneCita:        nc.TieneCita,
		Estado:           models.EstadoEnEspera,
	}
	if err := svc.clientes.Crear(ctx, &cliente); err != nil {
		return models.Cliente{}, fmt.Errorf("guardando cliente: %w", err)
	}

	return svc.asignar(ctx, cliente)
}

// asignar intenta tomar un abogado libre para un cliente pendiente. Si no hay, el cliente
// entra a la cola de espera. Ante cualquier error el cliente regresa a la cola.
func (svc *AsignacionService) asignar(ctx context.Context, cliente models.Cliente) (models.Cliente, error) {
	abogado, err := svc.abogados.TomarDisponible(ctx, cliente.AbogadoPreferido)
	if errors.Is(err, utils.ErrSinDisponibles) {
		return svc.encolar(ctx, cliente)
	}
	if err != nil {
		svc.devolverACola(ctx, cliente.ID)
		return models.Cliente{}, fmt.Errorf("buscando abogado disponible: %w", err)
	}

	asignado, err := svc.ocupar(ctx, cliente, abogado)
	if err != nil {
		svc.devolverAbogado(ctx, abogado.ID)
		svc.devolverACola(ctx, cliente.ID)
		return models.Cliente{}, err
	}
	return asignado, nil
}

// ocupar asigna el cliente pendiente al abogado ya tomado. Un abogado sin sala recibe
// la primera libre.
func (svc *AsignacionService) ocupar(ctx context.Context, cliente models.Cliente, abogado models.Abogado) (models.Cliente, error) {
	if abogado.Sala == "" {
		sala, err := svc.salas.Tomar(ctx, "", abogado.ID)
		switch {
		case err == nil:
			if err := svc.abogados.FijarSala(ctx, abogado.ID, sala.Nombre); err != nil {
				return models.Cliente{}, fmt.Errorf("asignando sala a abogado %d: %w", abogado.ID, err)
			}
			abogado.Sala = sala.Nombre
		case errors.Is(err, utils.ErrSinDisponibles):
			log.Printf("No hay salas libres para el abogado %d", abogado.ID)
		default:
			return models.Cliente{}, fmt.Errorf("buscando sala libre: %w", err)
		}
	}

	asignado, err := svc.clientes.Asignar(ctx, cliente.ID, abogado.ID, abogado.Sala)
	if err != nil {
		return models.Cliente{}, fmt.Errorf("guardando asignación de cliente %d: %w", cliente.ID, err)
	}

	svc.cache.Invalidar(ctx, CacheAbogados, CacheSalas)
	log.Printf("Cliente %d asignado al abogado %d (%s)", asignado.ID, abogado.ID, abogado.Nombre)
	svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoClienteAsignado, Fecha: NowFunc(), Cliente: &asignado, Abogado: &abogado})
	return asignado, nil
}

// reintentosCola acota las vueltas de despachar tras encolar a un cliente.
const reintentosCola = 3

// encolar mete al cliente pendiente en la cola y vuelve a buscar abogado: uno pudo
// liberarse entre el TomarDisponible fallido y el Encolar sin ver a este cliente.
func (svc *AsignacionService) encolar(ctx context.Context, cliente models.Cliente) (models.Cliente, error) {
	encolado, err := svc.clientes.Encolar(ctx, cliente.ID)
	if err != nil {
		return models.Cliente{}, fmt.Errorf("encolando cliente %d: %w", cliente.ID, err)
	}
	log.Printf("Cliente %d (%s) en lista de espera", encolado.ID, encolado.Nombre)
	svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoClienteEnEspera, Fecha: NowFunc(), Cliente: &encolado})

	for range reintentosCola {
		otra, err := svc.despachar(ctx, cliente.AbogadoPreferido)
		if err != nil {
			log.Printf("Error despachando la cola tras encolar al cliente %d: %v", cliente.ID, err)
			break
		}
		if !otra {
			break
		}
	}

	// el despacho pudo asignar a este mismo cliente
	actual, err := svc.clientes.ObtenerPorID(ctx, cliente.ID)
	if err != nil {
		return encolado, nil
	}
	return actual, nil
}

// despachar toma un abogado libre y le da al primer cliente de la cola que pueda
// atender. Devuelve true si conviene otra vuelta.
func (svc *AsignacionService) despachar(ctx context.Context, preferido *int) (bool, error) {
	abogado, err := svc.abogados.TomarDisponible(ctx, preferido)
	if errors.Is(err, utils.ErrSinDisponibles) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("buscando abogado disponible: %w", err)
	}

	siguiente, err := svc.clientes.TomarEnEspera(ctx, abogado.ID)
	if errors.Is(err, utils.ErrNoEncontrado) {
		svc.devolverAbogado(ctx, abogado.ID)
		// quien encoló mientras el abogado estaba tomado no pudo obtenerlo
		return svc.hayElegible(ctx, abogado.ID), nil
	}
	if err != nil {
		svc.devolverAbogado(ctx, abogado.ID)
		return false, fmt.Errorf("tomando cliente en espera: %w", err)
	}

	if _, err := svc.ocupar(ctx, siguiente, abogado); err != nil {
		svc.devolverAbogado(ctx, abogado.ID)
		svc.devolverACola(ctx, siguiente.ID)
		return false, err
	}
	return true, nil
}

func (svc *AsignacionService) hayElegible(ctx context.Context, abogadoID int) bool {
	cola, err := svc.clientes.ColaDeEspera(ctx)
	if err != nil {
		return false
	}
	for _, c := range cola {
		if c.AbogadoPreferido == nil || *c.AbogadoPreferido == abogadoID {
			return true
		}
	}
	return false
}

func (svc *AsignacionService) devolverAbogado(ctx context.Context, abogadoID int) {
	if err := svc.abogados.Devolver(ctx, abogadoID); err != nil {
		log.Printf("Error devolviendo al abogado %d: %v", abogadoID, err)
	}
}

func (svc *AsignacionService) devolverACola(ctx context.Context, clienteID int) {
	if _, err := svc.clientes.Encolar(ctx, clienteID); err != nil {
		log.Printf("Error regresando al cliente %d a la cola: %v", clienteID, err)
	}
}

// LiberarAbogado termina la atención actual del abogado, libera su sala y le asigna al
// siguiente cliente de la cola que pueda atender. Devuelve el cliente asignado, si hubo.
func (svc *AsignacionService) LiberarAbogado(ctx context.Context, abogadoID int) (*models.Cliente, error) {
	if _, err := svc.abogados.ObtenerPorID(ctx, abogadoID); err != nil {
		return nil, err
	}

	actual, err := svc.clientes.EnAtencionPor(ctx, abogadoID)
	switch {
	case err == nil:
		_, err := svc.clientes.Atender(ctx, actual.ID, NowFunc())
		if err != nil && !errors.Is(err, utils.ErrEstadoInvalido) && !errors.Is(err, utils.ErrNoEncontrado) {
			return nil, fmt.Errorf("cerrando atención del cliente %d: %w", actual.ID, err)
		}
	case errors.Is(err, utils.ErrNoEncontrado):
	default:
		return nil, fmt.Errorf("buscando cliente en atención: %w", err)
	}

	if sala, err := svc.salas.LiberarDeAbogado(ctx, abogadoID); err == nil {
		svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoSalaLiberada, Fecha: NowFunc(), Sala: &sala})
	} else if !errors.Is(err, utils.ErrNoEncontrado) {
		return nil, fmt.Errorf("liberando sala del abogado %d: %w", abogadoID, err)
	}

	abogado, err := svc.abogados.Liberar(ctx, abogadoID)
	if err != nil {
		return nil, fmt.Errorf("liberando abogado %d: %w", abogadoID, err)
	}
	svc.cache.Invalidar(ctx, CacheAbogados, CacheSalas)
	log.Printf("Abogado %d (%s) liberado", abogado.ID, abogado.Nombre)
	svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoAbogadoLiberado, Fecha: NowFunc(), Abogado: &abogado})

	return svc.atenderSiguiente(ctx, abogadoID)
}

// atenderSiguiente saca de la cola al siguiente cliente elegible y repite la asignación.
// Si la asignación falla, asignar ya lo regresó a la cola.
func (svc *AsignacionService) atenderSiguiente(ctx context.Context, abogadoID int) (*models.Cliente, error) {
	siguiente, err := svc.clientes.TomarEnEspera(ctx, abogadoID)
	if errors.Is(err, utils.ErrNoEncontrado) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tomando cliente en espera: %w", err)
	}

	asignado, err := svc.asignar(ctx, siguiente)
	if err != nil {
		return nil, err
	}
	if asignado.Estado != models.EstadoAsignado {
		// otro proceso ocupó al abogado antes; el cliente regresó a la cola
		return nil, nil
	}
	return &asignado, nil
}

// LiberarSala libera la sala y la quita del abogado que la ocupaba.
func (svc *AsignacionService) LiberarSala(ctx context.Context, nombre string) (models.Sala, error) {
	anterior, err := svc.salas.ObtenerPorNombre(ctx, nombre)
	if err != nil {
		return models.Sala{}, err
	}
	sala, err := svc.salas.Liberar(ctx, nombre)
	if err != nil {
		return models.Sala{}, err
	}
	if anterior.AbogadoAsignado != nil {
		if err := svc.abogados.FijarSala(ctx, *anterior.AbogadoAsignado, ""); err != nil && !errors.Is(err, utils.ErrNoEncontrado) {
			return models.Sala{}, fmt.Errorf("limpiando sala del abogado %d: %w", *anterior.AbogadoAsignado, err)
		}
	}
	svc.cache.Invalidar(ctx, CacheAbogados, CacheSalas)
	svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoSalaLiberada, Fecha: NowFunc(), Sala: &sala})
	return sala, nil
}

// AsignarSala da al abogado la sala indicada, o la primera libre si nombre es "".
// Si el abogado ya tenía otra sala, esa se libera.
func (svc *AsignacionService) AsignarSala(ctx context.Context, abogadoID int, nombre string) (models.Sala, error) {
	abogado, err := svc.abogados.ObtenerPorID(ctx, abogadoID)
	if err != nil {
		return models.Sala{}, err
	}
	if abogado.Sala != "" && abogado.Sala == nombre {
		return svc.salas.ObtenerPorNombre(ctx, nombre)
	}

	sala, err := svc.salas.Tomar(ctx, nombre, abogadoID)
	if err != nil {
		return models.Sala{}, err
	}
	if abogado.Sala != "" {
		if _, err := svc.salas.Liberar(ctx, abogado.Sala); err != nil && !errors.Is(err, utils.ErrNoEncontrado) {
			return models.Sala{}, fmt.Errorf("liberando sala anterior %s: %w", abogado.Sala, err)
		}
	}
	if err := svc.abogados.FijarSala(ctx, abogadoID, sala.Nombre); err != nil {
		return models.Sala{}, err
	}
	svc.cache.Invalidar(ctx, CacheAbogados, CacheSalas)
	svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoSalaAsignada, Fecha: NowFunc(), Sala: &sala, Abogado: &abogado})
	return sala, nil
}

// CancelarCliente saca de la cola a un cliente que sigue esperando.
func (svc *AsignacionService) CancelarCliente(ctx context.Context, id int) (models.Cliente, error) {
	cliente, err := svc.clientes.Cancelar(ctx, id)
	if err != nil {
		return models.Cliente{}, err
	}
	svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoClienteCancelado, Fecha: NowFunc(), Cliente: &cliente})
	return cliente, nil
}

// ColaDeEspera lista a los clientes en el orden en que serán atendidos.
func (svc *AsignacionService) ColaDeEspera(ctx context.Context) ([]models.Cliente, error) {
	return svc.clientes.ColaDeEspera(ctx)
}

// ReiniciarJornada deja a todos los abogados libres con contador en cero, libera las
// salas y cancela la espera pendiente.
func (svc *AsignacionService) ReiniciarJornada(ctx context.Context) error {
	if err := svc.abogados.ReiniciarJornada(ctx); err != nil {
		return fmt.Errorf("reiniciando abogados: %w", err)
	}
	if err := svc.salas.LiberarTodas(ctx); err != nil {
		return fmt.Errorf("liberando salas: %w", err)
	}
	cancelados, err := svc.clientes.CancelarEspera(ctx)
	if err != nil {
		return fmt.Errorf("cancelando cola: %w", err)
	}
	svc.cache.Invalidar(ctx, CacheAbogados, CacheSalas)
	log.Printf("Jornada reiniciada, %d clientes en espera cancelados", cancelados)
	svc.notif.Notificar(ctx, models.Evento{Tipo: models.EventoJornadaReiniciada, Fecha: NowFunc()})
	return nil
}
