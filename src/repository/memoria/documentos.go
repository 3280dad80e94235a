package memoria

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"api_notaria/src/models"
	"api_notaria/src/services"
)

var (
	_ services.ClienteGeneralRepository = (*ClientesGenerales)(nil)
	_ services.EscrituraRepository      = (*Escrituras)(nil)
	_ services.ProtocolitoRepository    = (*Protocolitos)(nil)
	_ services.PresupuestoRepository    = (*Presupuestos)(nil)
	_ services.ReciboRepository         = (*Recibos)(nil)
	_ services.PlantillaRepository      = (*Plantillas)(nil)
	_ services.TokenRepository          = (*Tokens)(nil)
)

type ClientesGenerales struct {
	col *coleccion[int, models.ClienteGeneral]
}

func NewClientesGenerales() *ClientesGenerales {
	return &ClientesGenerales{col: nuevaColeccion[int, models.ClienteGeneral]("cliente general")}
}

func (r *ClientesGenerales) Crear(_ context.Context, c *models.ClienteGeneral) error {
	return r.col.crear(c.ClienteID, *c)
}

func (r *ClientesGenerales) Listar(_ context.Context, skip, limit int) ([]models.ClienteGeneral, error) {
	lista := r.col.filtrar(nil)
	slices.SortFunc(lista, func(a, b models.ClienteGeneral) int { return cmp.Compare(a.ClienteID, b.ClienteID) })
	return pagina(lista, skip, limit), nil
}

func (r *ClientesGenerales) ObtenerPorClienteID(_ context.Context, clienteID int) (models.ClienteGeneral, error) {
	return r.col.obtener(clienteID)
}

func (r *ClientesGenerales) Actualizar(_ context.Context, c models.ClienteGeneral) error {
	return r.col.reemplazar(c.ClienteID, c)
}

func (r *ClientesGenerales) Eliminar(_ context.Context, clienteID int) error {
	return r.col.eliminar(clienteID)
}

func pagina[T any](lista []T, skip, limit int) []T {
	if skip >= len(lista) {
		return []T{}
	}
	lista = lista[skip:]
	if limit > 0 && limit < len(lista) {
		lista = lista[:limit]
	}
	return lista
}

type Escrituras struct {
	col *coleccion[string, models.Escritura]
}

func NewEscrituras() *Escrituras {
	return &Escrituras{col: nuevaColeccion[string, models.Escritura]("escritura")}
}

func (r *Escrituras) Crear(_ context.Context, e *models.Escritura) error {
	return r.col.crear(e.NumeroEscritura, *e)
}

func (r *Escrituras) Listar(_ context.Context, filtro models.FiltroEscrituras) ([]models.Escritura, error) {
	lista := r.col.filtrar(func(e models.Escritura) bool {
		return (filtro.Estado == "" || e.Estado == filtro.Estado) &&
			(filtro.AbogadoID == 0 || e.AbogadoID == filtro.AbogadoID)
	})
	slices.SortFunc(lista, func(a, b models.Escritura) int { return b.CreadoEn.Compare(a.CreadoEn) })
	return lista, nil
}

func (r *Escrituras) ObtenerPorNumero(_ context.Context, numero string) (models.Escritura, error) {
	return r.col.obtener(numero)
}

func (r *Escrituras) Actualizar(_ context.Context, e models.Escritura) error {
	return r.col.reemplazar(e.NumeroEscritura, e)
}

func (r *Escrituras) Eliminar(_ context.Context, numero string) error {
	return r.col.eliminar(numero)
}

type Protocolitos struct {
	col *coleccion[string, models.Protocolito]
}

func NewProtocolitos() *Protocolitos {
	return &Protocolitos{col: nuevaColeccion[string, models.Protocolito]("trámite")}
}

func (r *Protocolitos) Crear(_ context.Context, p *models.Protocolito) error {
	return r.col.crear(p.NumeroTramite, *p)
}

func (r *Protocolitos) Listar(_ context.Context, busqueda string, skip, limit int) ([]models.Protocolito, error) {
	busqueda = strings.ToLower(busqueda)
	lista := r.col.filtrar(func(p models.Protocolito) bool {
		if busqueda == "" {
			return true
		}
		for _, campo := range []string{p.NumeroTramite, p.Cliente, p.Abogado, p.TipoTramite} {
			if strings.Contains(strings.ToLower(campo), busqueda) {
				return true
			}
		}
		return false
	})
	slices.SortFunc(lista, func(a, b models.Protocolito) int {
		return cmp.Or(b.Fecha.Compare(a.Fecha), strings.Compare(a.NumeroTramite, b.NumeroTramite))
	})
	return pagina(lista, skip, limit), nil
}

func (r *Protocolitos) ObtenerPorTramite(_ context.Context, numeroTramite string) (models.Protocolito, error) {
	return r.col.obtener(numeroTramite)
}

func (r *Protocolitos) Actualizar(_ context.Context, p models.Protocolito) error {
	return r.col.reemplazar(p.NumeroTramite, p)
}

func (r *Protocolitos) Eliminar(_ context.Context, numeroTramite string) error {
	return r.col.eliminar(numeroTramite)
}

func (r *Protocolitos) Upsert(_ context.Context, p models.Protocolito) (bool, error) {
	r.col.mu.Lock()
	defer r.col.mu.Unlock()
	anterior, existia := r.col.datos[p.NumeroTramite]
	if existia {
		p.CreadoEn = anterior.CreadoEn
	}
	r.col.datos[p.NumeroTramite] = p
	return !existia, nil
}

type Presupuestos struct {
	col *coleccion[string, models.Presupuesto]
}

func NewPresupuestos() *Presupuestos {
	return &Presupuestos{col: nuevaColeccion[string, models.Presupuesto]("presupuesto")}
}

func (r *Presupuestos) Crear(_ context.Context, p *models.Presupuesto) error {
	p.ID = primitive.NewObjectID()
	return r.col.crear(p.ID.Hex(), *p)
}

func (r *Presupuestos) Listar(_ context.Context, clienteID int) ([]models.Presupuesto, error) {
	lista := r.col.filtrar(func(p models.Presupuesto) bool { return clienteID <= 0 || p.ClienteID == clienteID })
	slices.SortFunc(lista, func(a, b models.Presupuesto) int { return b.CreadoEn.Compare(a.CreadoEn) })
	return lista, nil
}

func (r *Presupuestos) ObtenerPorID(_ context.Context, id string) (models.Presupuesto, error) {
	return r.col.obtener(id)
}

func (r *Presupuestos) Actualizar(_ context.Context, p models.Presupuesto) error {
	return r.col.reemplazar(p.ID.Hex(), p)
}

func (r *Presupuestos) Eliminar(_ context.Context, id string) error {
	return r.col.eliminar(id)
}

type Recibos struct {
	col   *coleccion[int, models.Recibo]
	links *coleccion[string, models.ReciboLink]
}

func NewRecibos() *Recibos {
	return &Recibos{
		col:   nuevaColeccion[int, models.Recibo]("recibo"),
		links: nuevaColeccion[string, models.ReciboLink]("enlace de recibo"),
	}
}

func (r *Recibos) Crear(_ context.Context, recibo *models.Recibo) error {
	return r.col.crear(recibo.NumeroRecibo, *recibo)
}

func (r *Recibos) Listar(_ context.Context, numeroTramite string) ([]models.Recibo, error) {
	lista := r.col.filtrar(func(rc models.Recibo) bool { return numeroTramite == "" || rc.NumeroTramite == numeroTramite })
	slices.SortFunc(lista, func(a, b models.Recibo) int { return cmp.Compare(b.NumeroRecibo, a.NumeroRecibo) })
	return lista, nil
}

func (r *Recibos) ObtenerPorNumero(_ context.Context, numero int) (models.Recibo, error) {
	return r.col.obtener(numero)
}

func (r *Recibos) Cancelar(_ context.Context, numero int) (models.Recibo, error) {
	recibo, err := r.col.obtener(numero)
	if err != nil {
		return models.Recibo{}, err
	}
	recibo.Cancelado = true
	return recibo, r.col.reemplazar(numero, recibo)
}

func (r *Recibos) TotalAbonado(_ context.Context, numeroTramite string) (float64, error) {
	total := 0.0
	for _, rc := range r.col.filtrar(func(rc models.Recibo) bool { return rc.NumeroTramite == numeroTramite && !rc.Cancelado }) {
		total += rc.Abono
	}
	return total, nil
}

func (r *Recibos) CrearLink(_ context.Context, link *models.ReciboLink) error {
	return r.links.crear(link.Token, *link)
}

func (r *Recibos) ObtenerLink(_ context.Context, token string) (models.ReciboLink, error) {
	return r.links.obtener(token)
}

type Plantillas struct {
	col *coleccion[string, models.Plantilla]
}

func NewPlantillas() *Plantillas {
	return &Plantillas{col: nuevaColeccion[string, models.Plantilla]("plantilla")}
}

func (r *Plantillas) Crear(_ context.Context, p *models.Plantilla) error {
	return r.col.crear(p.Nombre, *p)
}

func (r *Plantillas) Listar(context.Context) ([]models.Plantilla, error) {
	lista := r.col.filtrar(nil)
	slices.SortFunc(lista, func(a, b models.Plantilla) int { return strings.Compare(a.Nombre, b.Nombre) })
	return lista, nil
}

func (r *Plantillas) ObtenerPorNombre(_ context.Context, nombre string) (models.Plantilla, error) {
	return r.col.obtener(nombre)
}

func (r *Plantillas) Actualizar(_ context.Context, p models.Plantilla) error {
	return r.col.reemplazar(p.Nombre, p)
}

func (r *Plantillas) Eliminar(_ context.Context, nombre string) error {
	return r.col.eliminar(nombre)
}

type Tokens struct {
	col *coleccion[int, models.TokenOAuth]
}

func NewTokens() *Tokens {
	return &Tokens{col: nuevaColeccion[int, models.TokenOAuth]("token del abogado")}
}

func (r *Tokens) Guardar(_ context.Context, token models.TokenOAuth) error {
	r.col.guardar(token.AbogadoID, token)
	return nil
}

func (r *Tokens) Obtener(_ context.Context, abogadoID int) (models.TokenOAuth, error) {
	return r.col.obtener(abogadoID)
}
