// utils/redis.go
package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"api_notaria/src/config"
)

// Constantes para configuración de caché
const (
	DefaultTTL = 5 * time.Minute
	LongTTL    = 30 * time.Minute
	ShortTTL   = 1 * time.Minute
)

// ConnectRedis inicializa el cliente; si Redis no responde devuelve nil y la API sigue sin caché.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("Error conectando a Redis: %v", err)
		log.Println("Continuando sin caché Redis...")
		_ = client.Close()
		return nil
	}

	log.Println("✅ Conexión a Redis establecida correctamente")
	client.AddHook(&LoggingHook{})
	return client
}

// CheckRedisHealth verifica la salud de Redis.
func CheckRedisHealth(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return fmt.Errorf("Redis no inicializado")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}

// LoggingHook registra los comandos de Redis que fallan.
type LoggingHook struct{}

func (h *LoggingHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h *LoggingHook) AfterProcess(ctx context.Context, cmd redis.Cmder) error {
	if cmd.Err() != nil && cmd.Err() != redis.Nil {
		log.Printf("🔴 Redis comando falló: %s - Error: %v", cmd.String(), cmd.Err())
	}
	return nil
}

func (h *LoggingHook) BeforeProcessPipeline(ctx context.Context, cmds []redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (h *LoggingHook) AfterProcessPipeline(ctx context.Context, cmds []redis.Cmder) error {
	for _, cmd := range cmds {
		if cmd.Err() != nil && cmd.Err() != redis.Nil {
			log.Printf("🔴 Redis pipeline falló: %s - Error: %v", cmd.String(), cmd.Err())
		}
	}
	return nil
}
