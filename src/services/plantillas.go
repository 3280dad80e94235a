package services

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"text/template"

	"api_notaria/src/models"
	"api_notaria/src/pdf"
	"api_notaria/src/utils"
)

var campoPlantilla = regexp.MustCompile(`\{\{-?\s*\.([A-Za-z_][A-Za-z0-9_]*)`)

type PlantillaService struct {
	repo    PlantillaRepository
	notaria string
}

func NewPlantillaService(repo PlantillaRepository, notaria string) *PlantillaService {
	return &PlantillaService{repo: repo, notaria: notaria}
}

func compilar(p *models.Plantilla) (*template.Template, error) {
	tpl, err := template.New(p.Nombre).Option("missingkey=error").Parse(p.Contenido)
	if err != nil {
		return nil, utils.NewValidationError("contenido", "La plantilla no es válida: "+err.Error())
	}
	return tpl, nil
}

// CamposDe devuelve los marcadores {{.campo}} de la plantilla, sin repetir y en orden de aparición.
func CamposDe(contenido string) []string {
	var campos []string
	for _, m := range campoPlantilla.FindAllStringSubmatch(contenido, -1) {
		if !slices.Contains(campos, m[1]) {
			campos = append(campos, m[1])
		}
	}
	return campos
}

func (svc *PlantillaService) Crear(ctx context.Context, p models.Plantilla) (models.Plantilla, error) {
	p.Nombre = strings.TrimSpace(p.Nombre)
	if _, err := compilar(&p); err != nil {
		return models.Plantilla{}, err
	}
	p.Campos = CamposDe(p.Contenido)
	ahora := NowFunc()
	p.CreadoEn = ahora
	p.ActualizadoEn = ahora
	if err := svc.repo.Crear(ctx, &p); err != nil {
		return models.Plantilla{}, err
	}
	return p, nil
}

func (svc *PlantillaService) Listar(ctx context.Context) ([]models.Plantilla, error) {
	return svc.repo.Listar(ctx)
}

func (svc *PlantillaService) Obtener(ctx context.Context, nombre string) (models.Plantilla, error) {
	return svc.repo.ObtenerPorNombre(ctx, nombre)
}

func (svc *PlantillaService) Actualizar(ctx context.Context, nombre string, cambios models.Plantilla) (models.Plantilla, error) {
	p, err := svc.repo.ObtenerPorNombre(ctx, nombre)
	if err != nil {
		return models.Plantilla{}, err
	}
	p.Descripcion = cambios.Descripcion
	p.Contenido = cambios.Contenido
	if _, err := compilar(&p); err != nil {
		return models.Plantilla{}, err
	}
	p.Campos = CamposDe(p.Contenido)
	p.ActualizadoEn = NowFunc()
	if err := svc.repo.Actualizar(ctx, p); err != nil {
		return models.Plantilla{}, err
	}
	return p, nil
}

func (svc *PlantillaService) Eliminar(ctx context.Context, nombre string) error {
	return svc.repo.Eliminar(ctx, nombre)
}

// Llenar ejecuta la plantilla con datos; un marcador sin valor es un error de validación.
func (svc *PlantillaService) Llenar(p models.Plantilla, datos map[string]any) (string, error) {
	tpl, err := compilar(&p)
	if err != nil {
		return "", err
	}
	if datos == nil {
		datos = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, datos); err != nil {
		faltantes := make(map[string][]string)
		for _, campo := range p.Campos {
			if _, ok := datos[campo]; !ok {
				faltantes[campo] = append(faltantes[campo], "Falta el valor de "+campo)
			}
		}
		if len(faltantes) == 0 {
			faltantes["datos"] = []string{err.Error()}
		}
		return "", &utils.ValidationError{Campos: faltantes}
	}
	return buf.String(), nil
}

// Generar llena la plantilla y la convierte en PDF.
func (svc *PlantillaService) Generar(ctx context.Context, nombre string, datos map[string]any) ([]byte, error) {
	p, err := svc.repo.ObtenerPorNombre(ctx, nombre)
	if err != nil {
		return nil, err
	}
	texto, err := svc.Llenar(p, datos)
	if err != nil {
		return nil, err
	}
	titulo := p.Descripcion
	if titulo == "" {
		titulo = p.Nombre
	}
	out, err := pdf.Documento(svc.notaria, titulo, texto)
	if err != nil {
		return nil, fmt.Errorf("generando plantilla %s: %w", nombre, err)
	}
	return out, nil
}
