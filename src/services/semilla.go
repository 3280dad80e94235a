package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jaswdr/faker"

	"api_notaria/src/models"
	"api_notaria/src/utils"
)

// Credenciales de los usuarios creados por la semilla.
const (
	UsuarioAdmin       = "admin"
	PasswordAdmin      = "admin123"
	PasswordSemilla    = "abogado123"
	abogadosSemilla    = 3
	salasSemilla       = 3
	clientesGenSemilla = 200
)

// Semilla llena una base vacía con usuarios, salas y clientes de prueba.
type Semilla struct {
	Abogados          *AbogadoService
	Salas             *SalaService
	ClientesGenerales *ClienteGeneralService
	Faker             faker.Faker
}

func NewSemilla(abogados *AbogadoService, salas *SalaService, clientes *ClienteGeneralService) *Semilla {
	return &Semilla{Abogados: abogados, Salas: salas, ClientesGenerales: clientes, Faker: faker.New()}
}

// Ejecutar solo siembra las colecciones que están vacías.
func (s *Semilla) Ejecutar(ctx context.Context) error {
	if err := s.sembrarAbogados(ctx); err != nil {
		return fmt.Errorf("sembrando abogados: %w", err)
	}
	if err := s.sembrarSalas(ctx); err != nil {
		return fmt.Errorf("sembrando salas: %w", err)
	}
	if err := s.sembrarClientesGenerales(ctx); err != nil {
		return fmt.Errorf("sembrando clientes generales: %w", err)
	}
	return nil
}

func (s *Semilla) sembrarAbogados(ctx context.Context) error {
	existentes, err := s.Abogados.repo.Listar(ctx)
	if err != nil {
		return err
	}
	if len(existentes) > 0 {
		log.Println("Ya existen abogados en la base de datos.")
		return nil
	}

	usuarios := []models.NuevoAbogado{
		{Nombre: "Administrador", Usuario: UsuarioAdmin, Password: PasswordAdmin, Rol: models.RolAdmin},
		{Nombre: "Recepción", Usuario: "recepcion", Password: PasswordSemilla, Rol: models.RolRecepcion},
	}
	for i := 1; i <= abogadosSemilla; i++ {
		usuarios = append(usuarios, models.NuevoAbogado{
			Nombre:   s.Faker.Person().FirstName() + " " + s.Faker.Person().LastName(),
			Usuario:  fmt.Sprintf("abogado%d", i),
			Password: PasswordSemilla,
			Rol:      models.RolAbogado,
			Orden:    i,
		})
	}
	for _, na := range usuarios {
		if _, err := s.Abogados.Crear(ctx, na); err != nil {
			return fmt.Errorf("usuario %s: %w", na.Usuario, err)
		}
	}
	log.Printf("Insertados %d usuarios (admin / %s)", len(usuarios), PasswordAdmin)
	return nil
}

func (s *Semilla) sembrarSalas(ctx context.Context) error {
	existentes, err := s.Salas.repo.Listar(ctx)
	if err != nil {
		return err
	}
	if len(existentes) > 0 {
		return nil
	}
	for i := 1; i <= salasSemilla; i++ {
		if _, err := s.Salas.Crear(ctx, fmt.Sprintf("Sala %d", i)); err != nil {
			return err
		}
	}
	log.Printf("Insertadas %d salas", salasSemilla)
	return nil
}

func (s *Semilla) sembrarClientesGenerales(ctx context.Context) error {
	existentes, err := s.ClientesGenerales.repo.Listar(ctx, 0, 1)
	if err != nil {
		return err
	}
	if len(existentes) > 0 {
		log.Println("Ya existen clientes generales en la base de datos.")
		return nil
	}

	log.Println("Insertando clientes generales...")
	insertados := 0
	for i := 1; i <= clientesGenSemilla; i++ {
		persona := s.Faker.Person()
		cg := models.ClienteGeneral{
			ClienteID:       i,
			Nombre:          persona.FirstName(),
			ApellidoPaterno: persona.LastName(),
			ApellidoMaterno: persona.LastName(),
			Celular:         fmt.Sprintf("%d%09d", s.Faker.IntBetween(2, 9), s.Faker.IntBetween(1, 999999999)),
			Email:           s.Faker.Internet().Email(),
			Domicilio:       s.Faker.Address().StreetAddress(),
		}
		_, err := s.ClientesGenerales.Crear(ctx, cg)
		var vErr *utils.ValidationError
		switch {
		case errors.As(err, &vErr):
			// nombres con apóstrofo u otros símbolos no pasan la validación
			continue
		case err != nil:
			return fmt.Errorf("cliente %d: %w", i, err)
		}
		insertados++
	}
	log.Printf("Insertados %d clientes generales", insertados)
	return nil
}
