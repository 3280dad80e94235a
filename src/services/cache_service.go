// services/cache_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"api_notaria/src/utils"
)

// Tipos de llave en caché
const (
	CacheAbogados          = "abogados"
	CacheSalas             = "salas"
	CacheClientesGenerales = "clientes_generales_page"
	CacheProtocolito       = "protocolito_page"
	CacheEstadoOAuth       = "oauth_state"
)

// CacheService guarda respuestas serializadas en Redis. Con cliente nil todas las
// operaciones son fallos de caché silenciosos.
type CacheService struct {
	client     *redis.Client
	defaultTTL time.Duration
	shortTTL   time.Duration
	longTTL    time.Duration
	keyPrefix  string
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client:     client,
		defaultTTL: utils.DefaultTTL,
		shortTTL:   utils.ShortTTL,
		longTTL:    utils.LongTTL,
		keyPrefix:  "api_notaria:",
	}
}

// Habilitado indica si hay un cliente de Redis.
func (cs *CacheService) Habilitado() bool {
	return cs != nil && cs.client != nil
}

// ttlPara: la cola cambia a cada rato, el padrón de clientes casi nunca.
func (cs *CacheService) ttlPara(keyType string) time.Duration {
	switch keyType {
	case CacheAbogados, CacheSalas:
		return cs.shortTTL
	case CacheClientesGenerales:
		return cs.longTTL
	}
	return cs.defaultTTL
}

func (cs *CacheService) generateKey(keyType, identifier string) string {
	return fmt.Sprintf("%s%s:%s", cs.keyPrefix, keyType, identifier)
}

// Obtener deserializa en destino el valor guardado; devuelve false si no existe.
func (cs *CacheService) Obtener(ctx context.Context, keyType, identifier string, destino any) bool {
	if !cs.Habilitado() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	key := cs.generateKey(keyType, identifier)
	data, err := cs.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Error obteniendo %s de caché: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), destino); err != nil {
		log.Printf("Error deserializando %s: %v", key, err)
		// Limpiar cache corrupto
		cs.client.Del(ctx, key)
		return false
	}
	log.Printf("🎯 %s obtenido de caché", key)
	return true
}

// Guardar serializa valor con el TTL del tipo de llave (o el indicado).
func (cs *CacheService) Guardar(ctx context.Context, keyType, identifier string, valor any, ttl ...time.Duration) {
	if !cs.Habilitado() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	expira := cs.ttlPara(keyType)
	if len(ttl) > 0 {
		expira = ttl[0]
	}
	data, err := json.Marshal(valor)
	if err != nil {
		log.Printf("Error serializando %s: %v", keyType, err)
		return
	}
	key := cs.generateKey(keyType, identifier)
	if err := cs.client.Set(ctx, key, data, expira).Err(); err != nil {
		log.Printf("Error guardando %s en caché: %v", key, err)
		return
	}
	log.Printf("📦 %s cacheado", key)
}

// Tomar obtiene y elimina una llave en una sola operación.
func (cs *CacheService) Tomar(ctx context.Context, keyType, identifier string) (string, bool) {
	if !cs.Habilitado() {
		return "", false
	}
	key := cs.generateKey(keyType, identifier)
	pipe := cs.client.TxPipeline()
	get := pipe.Get(ctx, key)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", false
	}
	return get.Val(), true
}

// Invalidar elimina todas las llaves del tipo indicado.
func (cs *CacheService) Invalidar(ctx context.Context, keyTypes ...string) {
	if !cs.Habilitado() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, keyType := range keyTypes {
		pattern := cs.generateKey(keyType, "*")
		var keys []string
		iter := cs.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Printf("Error buscando llaves %s: %v", pattern, err)
			continue
		}
		if len(keys) == 0 {
			continue
		}
		pipe := cs.client.Pipeline()
		for _, key := range keys {
			pipe.Del(ctx, key)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("Error invalidando %s: %v", pattern, err)
			continue
		}
		log.Printf("🗑️ Invalidadas %d llaves de %s", len(keys), keyType)
	}
}

// GetOrSet devuelve el valor en caché o lo calcula con fetch y lo guarda.
func GetOrSet[T any](ctx context.Context, cs *CacheService, keyType, identifier string, fetch func() (T, error)) (T, error) {
	var valor T
	if cs.Obtener(ctx, keyType, identifier, &valor) {
		return valor, nil
	}
	valor, err := fetch()
	if err != nil {
		return valor, err
	}
	cs.Guardar(ctx, keyType, identifier, valor)
	return valor, nil
}
