package services

import (
	"context"
	"time"

	"api_notaria/src/models"
)

type (
	AbogadoRepository interface {
		Crear(ctx context.Context, abogado *models.Abogado) error
		Listar(ctx context.Context) ([]models.Abogado, error)
		ObtenerPorID(ctx context.Context, id int) (models.Abogado, error)
		ObtenerPorUsuario(ctx context.Context, usuario string) (models.Abogado, error)
		Actualizar(ctx context.Context, abogado models.Abogado) error
		Eliminar(ctx context.Context, id int) error
		// TomarDisponible marca como ocupado, en una sola operación atómica, al primer abogado
		// disponible por orden (y menos asignaciones). Con preferido solo considera a ese abogado.
		// Devuelve utils.ErrSinDisponibles si ninguno está libre.
		TomarDisponible(ctx context.Context, preferido *int) (models.Abogado, error)
		// Liberar marca al abogado como disponible y limpia su sala.
		Liberar(ctx context.Context, id int) (models.Abogado, error)
		// Devolver deshace un TomarDisponible cuyo cliente no se pudo asignar.
		Devolver(ctx context.Context, id int) error
		FijarDisponibilidad(ctx context.Context, id int, disponible bool) (models.Abogado, error)
		FijarSala(ctx context.Context, id int, sala string) error
		Reordenar(ctx context.Context, ids []int) error
		ReiniciarJornada(ctx context.Context) error
	}

	ClienteRepository interface {
		Crear(ctx context.Context, cliente *models.Cliente) error
		Listar(ctx context.Context, filtro models.FiltroClientes) ([]models.Cliente, error)
		ObtenerPorID(ctx context.Context, id int) (models.Cliente, error)
		// ActualizarContacto cambia solo los campos no nil; el estado de la cola no se toca.
		ActualizarContacto(ctx context.Context, id int, cambios models.ActualizarCliente) (models.Cliente, error)
		Eliminar(ctx context.Context, id int) error
		// ColaDeEspera devuelve los clientes en espera: primero los que tienen cita, luego por llegada.
		ColaDeEspera(ctx context.Context) ([]models.Cliente, error)
		// TomarEnEspera saca de la cola, de forma atómica, al siguiente cliente que puede
		// atender el abogado indicado (sin preferencia o con preferencia por él).
		TomarEnEspera(ctx context.Context, abogadoID int) (models.Cliente, error)
		// EnAtencionPor devuelve el cliente asignado actualmente al abogado.
		EnAtencionPor(ctx context.Context, abogadoID int) (models.Cliente, error)
		CancelarEspera(ctx context.Context) (int, error)

		// Transiciones condicionales de la cola. Un cliente pendiente tiene estado "en espera"
		// y enEspera=false: ya salió de la cola (o aún no entra) y nadie más puede tomarlo.
		// Si el cliente existe pero no está en el estado de origen devuelven
		// utils.ErrEstadoInvalido.

		// Asignar pasa un cliente pendiente a asignado.
		Asignar(ctx context.Context, id, abogadoID int, sala string) (models.Cliente, error)
		// Encolar regresa a la cola a un cliente pendiente.
		Encolar(ctx context.Context, id int) (models.Cliente, error)
		// Cancelar saca de la cola a un cliente que sigue en ella.
		Cancelar(ctx context.Context, id int) (models.Cliente, error)
		// Atender cierra la atención de un cliente asignado.
		Atender(ctx context.Context, id int, cuando time.Time) (models.Cliente, error)
	}

	SalaRepository interface {
		Crear(ctx context.Context, sala *models.Sala) error
		Listar(ctx context.Context) ([]models.Sala, error)
		ObtenerPorNombre(ctx context.Context, nombre string) (models.Sala, error)
		Eliminar(ctx context.Context, nombre string) error
		// Tomar ocupa atómicamente la sala indicada (o la primera libre si nombre es "").
		Tomar(ctx context.Context, nombre string, abogadoID int) (models.Sala, error)
		Liberar(ctx context.Context, nombre string) (models.Sala, error)
		LiberarDeAbogado(ctx context.Context, abogadoID int) (models.Sala, error)
		LiberarTodas(ctx context.Context) error
	}

	SecuenciaRepository interface {
		Siguiente(ctx context.Context, nombre string) (int, error)
	}

	ClienteGeneralRepository interface {
		Crear(ctx context.Context, cliente *models.ClienteGeneral) error
		Listar(ctx context.Context, skip, limit int) ([]models.ClienteGeneral, error)
		ObtenerPorClienteID(ctx context.Context, clienteID int) (models.ClienteGeneral, error)
		Actualizar(ctx context.Context, cliente models.ClienteGeneral) error
		Eliminar(ctx context.Context, clienteID int) error
	}

	EscrituraRepository interface {
		Crear(ctx context.Context, escritura *models.Escritura) error
		Listar(ctx context.Context, filtro models.FiltroEscrituras) ([]models.Escritura, error)
		ObtenerPorNumero(ctx context.Context, numero string) (models.Escritura, error)
		Actualizar(ctx context.Context, escritura models.Escritura) error
		Eliminar(ctx context.Context, numero string) error
	}

	ProtocolitoRepository interface {
		Crear(ctx context.Context, p *models.Protocolito) error
		Listar(ctx context.Context, busqueda string, skip, limit int) ([]models.Protocolito, error)
		ObtenerPorTramite(ctx context.Context, numeroTramite string) (models.Protocolito, error)
		Actualizar(ctx context.Context, p models.Protocolito) error
		Eliminar(ctx context.Context, numeroTramite string) error
		// Upsert inserta o reemplaza por numeroTramite; insertado indica si el registro era nuevo.
		Upsert(ctx context.Context, p models.Protocolito) (insertado bool, err error)
	}

	PresupuestoRepository interface {
		Crear(ctx context.Context, p *models.Presupuesto) error
		Listar(ctx context.Context, clienteID int) ([]models.Presupuesto, error)
		ObtenerPorID(ctx context.Context, id string) (models.Presupuesto, error)
		Actualizar(ctx context.Context, p models.Presupuesto) error
		Eliminar(ctx context.Context, id string) error
	}

	ReciboRepository interface {
		Crear(ctx context.Context, r *models.Recibo) error
		Listar(ctx context.Context, numeroTramite string) ([]models.Recibo, error)
		ObtenerPorNumero(ctx context.Context, numero int) (models.Recibo, error)
		Cancelar(ctx context.Context, numero int) (models.Recibo, error)
		// TotalAbonado suma los abonos de los recibos no cancelados del trámite.
		TotalAbonado(ctx context.Context, numeroTramite string) (float64, error)
		CrearLink(ctx context.Context, link *models.ReciboLink) error
		ObtenerLink(ctx context.Context, token string) (models.ReciboLink, error)
	}

	PlantillaRepository interface {
		Crear(ctx context.Context, p *models.Plantilla) error
		Listar(ctx context.Context) ([]models.Plantilla, error)
		ObtenerPorNombre(ctx context.Context, nombre string) (models.Plantilla, error)
		Actualizar(ctx context.Context, p models.Plantilla) error
		Eliminar(ctx context.Context, nombre string) error
	}

	TokenRepository interface {
		Guardar(ctx context.Context, token models.TokenOAuth) error
		Obtener(ctx context.Context, abogadoID int) (models.TokenOAuth, error)
	}

	// Notificador recibe los eventos de la cola de atención (websocket, RabbitMQ).
	Notificador interface {
		Notificar(ctx context.Context, evento models.Evento)
	}
)

// NowFunc permite fijar el reloj en pruebas.
var NowFunc = func() time.Time { return time.Now().UTC() }

// Multi reparte cada evento entre varios notificadores.
type Multi []Notificador

func (m Multi) Notificar(ctx context.Context, evento models.Evento) {
	for _, n := range m {
		if n != nil {
			n.Notificar(ctx, evento)
		}
	}
}

// sinNotificar descarta los eventos.
type sinNotificar struct{}

func (sinNotificar) Notificar(context.Context, models.Evento) {}
