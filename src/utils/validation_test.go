package utils

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"api_notaria/src/models"
)

func clienteBase() models.ClienteGeneral {
	return models.ClienteGeneral{
		ClienteID:       10,
		Nombre:          "María José",
		ApellidoPaterno: "Hernández",
		ApellidoMaterno: "Ruiz",
		Celular:         "9611234567",
		Email:           "maria@correo.mx",
		CURP:            "HERA850101MCSRZR09",
		RFC:             "HERA850101AB1",
	}
}

func TestValidateClienteGeneralSinErrores(t *testing.T) {
	cliente := clienteBase()
	ValidateClienteGeneral(&cliente)
	assert.Nil(t, cliente.Errores)
	assert.Equal(t, "Sin errores de validación", GetErrorSummary(&cliente))
}

func TestValidateClienteGeneralCampos(t *testing.T) {
	tests := []struct {
		name    string
		mutar   func(*models.ClienteGeneral)
		campo   string
		mensaje string
	}{
		{"id negativo", func(c *models.ClienteGeneral) { c.ClienteID = -1 }, "clienteId", "entero positivo"},
		{"nombre vacío", func(c *models.ClienteGeneral) { c.Nombre = "  " }, "nombre", "obligatorio"},
		{"nombre con números", func(c *models.ClienteGeneral) { c.Nombre = "Juan 2" }, "nombre", "Solo puede contener letras"},
		{"apellido corto", func(c *models.ClienteGeneral) { c.ApellidoPaterno = "H" }, "apellidoPaterno", "al menos 2"},
		{"celular corto", func(c *models.ClienteGeneral) { c.Celular = "96112" }, "celular", "faltan dígitos"},
		{"celular con letras", func(c *models.ClienteGeneral) { c.Celular = "96112345ab" }, "celular", "solo puede contener dígitos"},
		{"celular de prueba", func(c *models.ClienteGeneral) { c.Celular = "1234567890" }, "celular", "patrón repetitivo"},
		{"celular con cero", func(c *models.ClienteGeneral) { c.Celular = "0611234567" }, "celular", "empezar con 0"},
		{"email desechable", func(c *models.ClienteGeneral) { c.Email = "x@mailinator.com" }, "email", "desechables"},
		{"email con dos arrobas", func(c *models.ClienteGeneral) { c.Email = "a@b@c.mx" }, "email", "exactamente un símbolo @"},
		{"curp corta", func(c *models.ClienteGeneral) { c.CURP = "HERA850101" }, "curp", "18 caracteres"},
		{"curp mal formada", func(c *models.ClienteGeneral) { c.CURP = "HERA851301MCSRZR09" }, "curp", "formato válido"},
		{"rfc mal formado", func(c *models.ClienteGeneral) { c.RFC = "1234567890123" }, "rfc", "formato válido"},
		{"domicilio sospechoso", func(c *models.ClienteGeneral) { c.Domicilio = "Calle 1; DROP TABLE" }, "domicilio", "no permitidos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cliente := clienteBase()
			tt.mutar(&cliente)
			ValidateClienteGeneral(&cliente)
			require.Contains(t, cliente.Errores, tt.campo)
			assert.Contains(t, cliente.Errores[tt.campo][0], tt.mensaje)
		})
	}
}

func TestGetErrorSummary(t *testing.T) {
	cliente := clienteBase()
	cliente.Nombre = ""
	cliente.Celular = "0000000000"
	ValidateClienteGeneral(&cliente)
	// celular: patrón repetitivo y empieza con 0
	assert.Equal(t, "Se encontraron 3 errores en 2 campos", GetErrorSummary(&cliente))
}

func TestCelularValido(t *testing.T) {
	assert.True(t, CelularValido("9611234567"))
	assert.True(t, CelularValido(" 9611234567 "))
	assert.False(t, CelularValido("5555555555"))
	assert.False(t, CelularValido("0611234567"))
	assert.False(t, CelularValido("961123456"))
}

type datosBinding struct {
	Celular string `json:"celular" binding:"required,celular"`
	CURP    string `json:"curp" binding:"omitempty,curp"`
	RFC     string `json:"rfc" binding:"omitempty,rfc"`
}

func TestValidacionesDeBinding(t *testing.T) {
	InitValidators()

	ok := datosBinding{Celular: "9611234567", CURP: "hera850101mcsrzr09", RFC: "XAXX010101000"}
	require.NoError(t, binding.Validator.ValidateStruct(&ok))

	err := binding.Validator.ValidateStruct(&datosBinding{Celular: "123", CURP: "nope", RFC: "nope"})
	var valErrs validator.ValidationErrors
	require.ErrorAs(t, err, &valErrs)

	errores := TraducirErrores(valErrs)
	assert.Equal(t, []string{"celular debe ser un número de celular de 10 dígitos"}, errores["celular"])
	assert.Equal(t, []string{"curp no es una CURP válida"}, errores["curp"])
	assert.Equal(t, []string{"rfc no es un RFC válido"}, errores["rfc"])
}

func TestTraduccionEnEspanol(t *testing.T) {
	InitValidators()

	err := binding.Validator.ValidateStruct(&datosBinding{})
	var valErrs validator.ValidationErrors
	require.ErrorAs(t, err, &valErrs)
	assert.Equal(t, []string{"celular es un campo requerido"}, TraducirErrores(valErrs)["celular"])
}
