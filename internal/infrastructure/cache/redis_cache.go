// Package cache implementa el caché de lecturas de corta vida sobre Redis.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcastano/retail-ops-api/internal/infrastructure/geo"
	"github.com/jcastano/retail-ops-api/pkg/config"
	"github.com/jcastano/retail-ops-api/pkg/logger"
)

var _ geo.Cache = (*RedisCache)(nil)

// RedisCache envuelve el cliente go-redis. Un fallo de Redis nunca es fatal:
// Get degrada a "no encontrado" y Set a no-op.
type RedisCache struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisCache conecta con Redis. Si el ping falla se registra un warning y
// el caché queda en modo degradado (el cliente reintenta por operación).
func NewRedisCache(cfg config.RedisConfig, log *logger.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible, caché degradado")
	} else {
		log.Info().Str("addr", cfg.Addr).Msg("Conectado a Redis")
	}

	return &RedisCache{client: client, log: log}
}

// Get devuelve el valor de una clave. (_, false) si no existe o Redis falla.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("Fallo leyendo caché")
		}
		return "", false
	}
	return val, true
}

// Set guarda un valor con TTL. Los fallos solo se registran.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Fallo escribiendo caché")
	}
}

// Close cierra la conexión.
func (c *RedisCache) Close() {
	_ = c.client.Close()
}
