package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"strconv"
	"strings"

	"api_notaria/src/excel"
	"api_notaria/src/models"
	"api_notaria/src/utils"
)

type ProtocolitoService struct {
	repo  ProtocolitoRepository
	cache *CacheService
}

func NewProtocolitoService(repo ProtocolitoRepository, cache *CacheService) *ProtocolitoService {
	return &ProtocolitoService{repo: repo, cache: cache}
}

func normalizarProtocolito(p *models.Protocolito) error {
	p.NumeroTramite = strings.TrimSpace(p.NumeroTramite)
	p.Cliente = strings.TrimSpace(p.Cliente)
	p.Abogado = strings.TrimSpace(p.Abogado)
	p.TipoTramite = strings.TrimSpace(p.TipoTramite)
	if p.NumeroTramite == "" {
		return utils.NewValidationError("numeroTramite", "El número de trámite es obligatorio")
	}
	if p.Estado == "" {
		p.Estado = models.ProtocolitoPendiente
	}
	if !slices.Contains(models.EstadosProtocolito, p.Estado) {
		return utils.NewValidationError("estado", "Estado de protocolito no válido")
	}
	if p.Fecha.IsZero() {
		p.Fecha = NowFunc()
	}
	return nil
}

func (svc *ProtocolitoService) Crear(ctx context.Context, p models.Protocolito) (models.Protocolito, error) {
	if err := normalizarProtocolito(&p); err != nil {
		return models.Protocolito{}, err
	}
	ahora := NowFunc()
	p.CreadoEn = ahora
	p.ActualizadoEn = ahora
	if err := svc.repo.Crear(ctx, &p); err != nil {
		return models.Protocolito{}, err
	}
	svc.cache.Invalidar(ctx, CacheProtocolito)
	return p, nil
}

// Listar pagina de 100 en 100; sin búsqueda la página se guarda en caché.
func (svc *ProtocolitoService) Listar(ctx context.Context, busqueda string, page int) ([]models.Protocolito, error) {
	busqueda = strings.TrimSpace(busqueda)
	fetch := func() ([]models.Protocolito, error) {
		return svc.repo.Listar(ctx, busqueda, (page-1)*TamanoPagina, TamanoPagina)
	}
	if busqueda != "" {
		return fetch()
	}
	return GetOrSet(ctx, svc.cache, CacheProtocolito, strconv.Itoa(page), fetch)
}

func (svc *ProtocolitoService) Obtener(ctx context.Context, numeroTramite string) (models.Protocolito, error) {
	return svc.repo.ObtenerPorTramite(ctx, numeroTramite)
}

func (svc *ProtocolitoService) Actualizar(ctx context.Context, numeroTramite string, p models.Protocolito) (models.Protocolito, error) {
	actual, err := svc.repo.ObtenerPorTramite(ctx, numeroTramite)
	if err != nil {
		return models.Protocolito{}, err
	}
	p.ObjectID = actual.ObjectID
	p.NumeroTramite = actual.NumeroTramite
	p.CreadoEn = actual.CreadoEn
	if err := normalizarProtocolito(&p); err != nil {
		return models.Protocolito{}, err
	}
	p.ActualizadoEn = NowFunc()
	if err := svc.repo.Actualizar(ctx, p); err != nil {
		return models.Protocolito{}, err
	}
	svc.cache.Invalidar(ctx, CacheProtocolito)
	return p, nil
}

func (svc *ProtocolitoService) Eliminar(ctx context.Context, numeroTramite string) error {
	if err := svc.repo.Eliminar(ctx, numeroTramite); err != nil {
		return err
	}
	svc.cache.Invalidar(ctx, CacheProtocolito)
	return nil
}

// Importar lee un xlsx y hace upsert por numeroTramite. Si un trámite se repite en el
// archivo gana la última fila; si ya existía en la base se reemplaza.
func (svc *ProtocolitoService) Importar(ctx context.Context, r io.Reader) (models.ResultadoImportacion, error) {
	filas, errores, err := excel.LeerProtocolitos(r)
	if err != nil {
		return models.ResultadoImportacion{}, utils.NewValidationError("archivo", err.Error())
	}

	resultado := models.ResultadoImportacion{Errores: errores}
	ultimas := make(map[string]int, len(filas))
	for i, fila := range filas {
		ultimas[strings.TrimSpace(fila.Protocolito.NumeroTramite)] = i
	}

	ahora := NowFunc()
	for i, fila := range filas {
		p := fila.Protocolito
		if ultimas[strings.TrimSpace(p.NumeroTramite)] != i {
			continue
		}
		if err := normalizarProtocolito(&p); err != nil {
			resultado.Errores = append(resultado.Errores, models.ErrorImportacion{Fila: fila.Numero, Mensaje: mensajeValidacion(err)})
			continue
		}
		p.CreadoEn = ahora
		p.ActualizadoEn = ahora
		insertado, err := svc.repo.Upsert(ctx, p)
		if err != nil {
			return resultado, fmt.Errorf("guardando trámite %s (fila %d): %w", p.NumeroTramite, fila.Numero, err)
		}
		if insertado {
			resultado.Insertados++
		} else {
			resultado.Actualizados++
		}
	}
	svc.cache.Invalidar(ctx, CacheProtocolito)
	log.Printf("Importación de protocolito: %d insertados, %d actualizados, %d errores",
		resultado.Insertados, resultado.Actualizados, len(resultado.Errores))
	return resultado, nil
}

// Exportar escribe todos los registros (o los que coinciden con la búsqueda) como xlsx.
func (svc *ProtocolitoService) Exportar(ctx context.Context, busqueda string, w io.Writer) error {
	registros, err := svc.repo.Listar(ctx, strings.TrimSpace(busqueda), 0, 0)
	if err != nil {
		return err
	}
	return excel.EscribirProtocolitos(w, registros)
}

func mensajeValidacion(err error) string {
	if vErr, ok := err.(*utils.ValidationError); ok {
		for _, msgs := range vErr.Campos {
			if len(msgs) > 0 {
				return msgs[0]
			}
		}
	}
	return err.Error()
}
