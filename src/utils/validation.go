package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"api_notaria/src/models"
)

var (
	// Nombres: letras, acentos, ñ y un espacio entre palabras
	identRegexNombre = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑüÜ]+(\s[a-zA-ZáéíóúÁÉÍÓÚñÑüÜ]+)*$`)

	identRegexCelular = regexp.MustCompile(`^[1-9]\d{9}$`)

	identRegexEmail = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._%+-]*[a-zA-Z0-9])?@[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)+$`)

	identRegexCURP = regexp.MustCompile(`^[A-Z][AEIOUX][A-Z]{2}\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])[HM](AS|BC|BS|CC|CL|CM|CS|CH|DF|DG|GT|GR|HG|JC|MC|MN|MS|NT|NL|OC|PL|QT|QR|SP|SL|SR|TC|TS|TL|VZ|YN|ZS|NE)[B-DF-HJ-NP-TV-Z]{3}[A-Z\d]\d$`)

	// RFC de persona física (13) o moral (12)
	identRegexRFC = regexp.MustCompile(`^[A-ZÑ&]{3,4}\d{2}(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])[A-Z\d]{2}[A\d]$`)

	// Patrones peligrosos que podrían indicar ataques
	sqlInjectionPattern = regexp.MustCompile(`(?i)(\bunion\b|\bselect\b|\binsert\b|\bdrop\b|<script|javascript:|onload=|onerror=|alert\(|\$where|\$ne\b)`)

	// Números de teléfono conocidos como inválidos o de prueba
	invalidPhonePatterns = regexp.MustCompile(`^(0000000000|1111111111|2222222222|3333333333|4444444444|5555555555|6666666666|7777777777|8888888888|9999999999|1234567890|0987654321)$`)

	// Emails temporales o desechables comunes
	disposableEmailDomains = regexp.MustCompile(`@(10minutemail|guerrillamail|mailinator|tempmail|throwaway|yopmail|maildrop|trashmail)\.`)
)

var (
	translator ut.Translator
	initOnce   sync.Once
)

// InitValidators registra en el validador de gin las traducciones al español,
// los nombres de campo del tag json y las validaciones propias de la notaría.
func InitValidators() {
	initOnce.Do(func() {
		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		spanish := es.New()
		translator, _ = ut.New(spanish, spanish).GetTranslator("es")
		_ = es_translations.RegisterDefaultTranslations(validate, translator)

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("celular", func(fl validator.FieldLevel) bool {
			return CelularValido(fl.Field().String())
		})
		registrarTraduccion(validate, "celular", "{0} debe ser un número de celular de 10 dígitos")

		_ = validate.RegisterValidation("curp", func(fl validator.FieldLevel) bool {
			return identRegexCURP.MatchString(strings.ToUpper(fl.Field().String()))
		})
		registrarTraduccion(validate, "curp", "{0} no es una CURP válida")

		_ = validate.RegisterValidation("rfc", func(fl validator.FieldLevel) bool {
			return identRegexRFC.MatchString(strings.ToUpper(fl.Field().String()))
		})
		registrarTraduccion(validate, "rfc", "{0} no es un RFC válido")
	})
}

func registrarTraduccion(validate *validator.Validate, tag, texto string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, texto, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TraducirErrores convierte los errores del validador al formato Errores por campo.
func TraducirErrores(valErrs validator.ValidationErrors) map[string][]string {
	errores := make(map[string][]string, len(valErrs))
	for _, fe := range valErrs {
		msg := fe.Error()
		if translator != nil {
			msg = fe.Translate(translator)
		}
		errores[fe.Field()] = append(errores[fe.Field()], msg)
	}
	return errores
}

// CelularValido verifica que el número tenga 10 dígitos y no sea un patrón de prueba.
func CelularValido(celular string) bool {
	celular = strings.TrimSpace(celular)
	return identRegexCelular.MatchString(celular) && !invalidPhonePatterns.MatchString(celular)
}

// ValidateClienteGeneral llena cliente.Errores con los problemas encontrados; nil si no hay.
func ValidateClienteGeneral(cliente *models.ClienteGeneral) {
	errores := make(map[string][]string)

	if cliente.ClienteID <= 0 {
		errores["clienteId"] = append(errores["clienteId"], "El campo clienteId debe ser un número entero positivo")
	}

	validarNombre(errores, "nombre", cliente.Nombre, true)
	validarNombre(errores, "apellidoPaterno", cliente.ApellidoPaterno, true)
	validarNombre(errores, "apellidoMaterno", cliente.ApellidoMaterno, false)

	// Celular
	celular := strings.TrimSpace(cliente.Celular)
	if celular == "" {
		errores["celular"] = append(errores["celular"], "El campo celular es obligatorio")
	} else {
		if len(celular) != 10 {
			if len(celular) < 10 {
				errores["celular"] = append(errores["celular"], "El número de celular debe tener exactamente 10 dígitos (faltan dígitos)")
			} else {
				errores["celular"] = append(errores["celular"], "El número de celular debe tener exactamente 10 dígitos (demasiados dígitos)")
			}
		}
		for _, char := range celular {
			if !unicode.IsDigit(char) {
				errores["celular"] = append(errores["celular"], "El número de celular solo puede contener dígitos")
				break
			}
		}
		if invalidPhonePatterns.MatchString(celular) {
			errores["celular"] = append(errores["celular"], "El número de celular no puede ser un patrón repetitivo o secuencial")
		}
		if strings.HasPrefix(celular, "0") {
			errores["celular"] = append(errores["celular"], "El número de celular no puede empezar con 0")
		}
	}

	// Email (opcional)
	email := strings.TrimSpace(strings.ToLower(cliente.Email))
	if email != "" {
		if len(email) > 254 {
			errores["email"] = append(errores["email"], "El email no puede exceder 254 caracteres")
		}
		if strings.Count(email, "@") != 1 {
			errores["email"] = append(errores["email"], "El email debe tener exactamente un símbolo @")
		} else {
			localPart := strings.Split(email, "@")[0]
			if len(localPart) > 64 {
				errores["email"] = append(errores["email"], "La parte antes del @ no puede exceder 64 caracteres")
			}
			if strings.Contains(localPart, "..") {
				errores["email"] = append(errores["email"], "El email no puede tener puntos consecutivos")
			}
		}
		if !identRegexEmail.MatchString(email) {
			errores["email"] = append(errores["email"], "El email no tiene un formato válido")
		}
		if disposableEmailDomains.MatchString(email) {
			errores["email"] = append(errores["email"], "No se permiten emails temporales o desechables")
		}
	}

	// CURP y RFC (opcionales, pero si vienen deben ser válidos)
	if curp := strings.ToUpper(strings.TrimSpace(cliente.CURP)); curp != "" {
		if len(curp) != 18 {
			errores["curp"] = append(errores["curp"], "La CURP debe tener 18 caracteres")
		} else if !identRegexCURP.MatchString(curp) {
			errores["curp"] = append(errores["curp"], "La CURP no tiene un formato válido")
		}
	}
	if rfc := strings.ToUpper(strings.TrimSpace(cliente.RFC)); rfc != "" {
		if len(rfc) != 12 && len(rfc) != 13 {
			errores["rfc"] = append(errores["rfc"], "El RFC debe tener 12 o 13 caracteres")
		} else if !identRegexRFC.MatchString(rfc) {
			errores["rfc"] = append(errores["rfc"], "El RFC no tiene un formato válido")
		}
	}

	if sqlInjectionPattern.MatchString(cliente.Domicilio) {
		errores["domicilio"] = append(errores["domicilio"], "El domicilio contiene caracteres o patrones no permitidos")
	}

	if len(errores) > 0 {
		cliente.Errores = errores
	} else {
		cliente.Errores = nil
	}
}

func validarNombre(errores map[string][]string, campo, valor string, obligatorio bool) {
	nombre := strings.TrimSpace(valor)
	if nombre == "" {
		if obligatorio {
			errores[campo] = append(errores[campo], "El campo "+campo+" es obligatorio")
		}
		return
	}
	if utf8.RuneCountInString(nombre) < 2 {
		errores[campo] = append(errores[campo], "Debe tener al menos 2 caracteres")
	}
	if utf8.RuneCountInString(nombre) > 100 {
		errores[campo] = append(errores[campo], "No puede exceder 100 caracteres")
	}
	if !identRegexNombre.MatchString(nombre) {
		errores[campo] = append(errores[campo], "Solo puede contener letras, acentos y un espacio entre palabras")
	}
	if sqlInjectionPattern.MatchString(nombre) {
		errores[campo] = append(errores[campo], "Contiene caracteres o patrones no permitidos")
	}
}

// GetErrorSummary resume el reporte de errores de un cliente.
func GetErrorSummary(cliente *models.ClienteGeneral) string {
	if len(cliente.Errores) == 0 {
		return "Sin errores de validación"
	}
	totalErrores := 0
	for _, listaErrores := range cliente.Errores {
		totalErrores += len(listaErrores)
	}
	return fmt.Sprintf("Se encontraron %d errores en %d campos", totalErrores, len(cliente.Errores))
}
