package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config reúne todas las variables de entorno de la API.
type Config struct {
	Puerto string `env:"PORT" envDefault:"8080"`
	Debug  bool   `env:"DEBUG" envDefault:"false"`

	MongoURI string `env:"MONGO_URI"`
	DBName   string `env:"DB_NAME"`

	Redis RedisConfig

	AMQPURL string `env:"AMQP_URL"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"12h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	Microsoft MicrosoftConfig
	WhatsApp  WhatsAppConfig

	OTELEndpoint string `env:"OTEL_ENDPOINT"`

	NombreNotaria string `env:"NOTARIA_NOMBRE" envDefault:"Notaría Pública"`
	Semilla       bool   `env:"SEED" envDefault:"false"`
}

// RedisConfig configura el cliente de caché.
type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"100"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"10"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// MicrosoftConfig contiene las credenciales de la aplicación registrada en Azure.
type MicrosoftConfig struct {
	ClientID     string `env:"MS_CLIENT_ID"`
	ClientSecret string `env:"MS_CLIENT_SECRET"`
	TenantID     string `env:"MS_TENANT_ID" envDefault:"common"`
	RedirectURL  string `env:"MS_REDIRECT_URL" envDefault:"http://localhost:8080/api/calendar/callback"`
	GraphURL     string `env:"MS_GRAPH_URL" envDefault:"https://graph.microsoft.com/v1.0"`
}

// WhatsAppConfig contiene los datos de la API de WhatsApp Cloud.
type WhatsAppConfig struct {
	Token   string `env:"WHATSAPP_TOKEN"`
	PhoneID string `env:"WHATSAPP_PHONE_ID"`
	APIURL  string `env:"WHATSAPP_API_URL" envDefault:"https://graph.facebook.com/v19.0"`
}

// Habilitado indica si hay credenciales para la integración de calendario.
func (m MicrosoftConfig) Habilitado() bool {
	return m.ClientID != "" && m.ClientSecret != ""
}

// Habilitado indica si hay credenciales para enviar mensajes de WhatsApp.
func (w WhatsAppConfig) Habilitado() bool {
	return w.Token != "" && w.PhoneID != ""
}

// Cargar lee el archivo .env (si existe) y después las variables de entorno.
func Cargar() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("cargando .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("leyendo .env: %w", err)
	} else {
		log.Println("Archivo .env no encontrado, se usan solo variables de entorno")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validar(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validar() error {
	var faltantes []string
	if strings.TrimSpace(c.MongoURI) == "" {
		faltantes = append(faltantes, "MONGO_URI")
	}
	if strings.TrimSpace(c.DBName) == "" {
		faltantes = append(faltantes, "DB_NAME")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		faltantes = append(faltantes, "JWT_SECRET")
	}
	if len(faltantes) > 0 {
		return errors.New("faltan variables de entorno obligatorias: " + strings.Join(faltantes, ", "))
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL debe ser positivo")
	}
	return nil
}
