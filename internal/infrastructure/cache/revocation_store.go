// Package cache guarda las sesiones revocadas (logout, cambio de contraseña).
// Con Redis la revocación se comparte entre instancias; sin Redis se usa memoria local.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "compras:revoked:"

// revokedBefore: un token queda invalidado si se emitió en un segundo anterior a la revocación.
// Los JWT llevan iat con precisión de segundos, por eso la comparación es estricta.
func revokedBefore(issuedAt time.Time, revokedAt int64) bool {
	return issuedAt.Unix() < revokedAt
}

// RedisRevocationStore implementación de ports.TokenRevocationStore sobre Redis.
type RedisRevocationStore struct {
	client *redis.Client
}

var _ ports.TokenRevocationStore = (*RedisRevocationStore)(nil)

// NewRedisRevocationStore conecta con Redis y verifica la conexión.
func NewRedisRevocationStore(ctx context.Context, cfg config.RedisConfig) (*RedisRevocationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar redis: %w", err)
	}
	return &RedisRevocationStore{client: client}, nil
}

// NewRedisRevocationStoreWithClient usa un cliente ya creado.
func NewRedisRevocationStoreWithClient(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func jtiKey(jti string) string     { return keyPrefix + "jti:" + jti }
func userKey(userID string) string { return keyPrefix + "user:" + userID }

// Revoke marca el jti como revocado durante ttl.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked informa si el jti fue revocado.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return n > 0, nil
}

// RevokeUser guarda el segundo de revocación del usuario. Las sesiones emitidas en ese
// mismo segundo no quedan cubiertas (ver revokedBefore).
func (s *RedisRevocationStore) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revocar sesiones del usuario: %w", err)
	}
	return nil
}

// IsUserRevoked informa si un token emitido en issuedAt quedó invalidado por RevokeUser.
func (s *RedisRevocationStore) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := s.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consultar revocación del usuario: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("marca de revocación inválida: %w", err)
	}
	return revokedBefore(issuedAt, revokedAt), nil
}

// Close cierra el cliente.
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}

// MemoryRevocationStore implementación en memoria. Solo válida con una única instancia.
type MemoryRevocationStore struct {
	mu    sync.Mutex
	jtis  map[string]time.Time // jti -> expiración
	users map[string]userMark
	now   func() time.Time
}

type userMark struct {
	revokedAt int64
	expiresAt time.Time
}

var _ ports.TokenRevocationStore = (*MemoryRevocationStore)(nil)

// NewMemoryRevocationStore crea el almacén en memoria.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		jtis:  make(map[string]time.Time),
		users: make(map[string]userMark),
		now:   time.Now,
	}
}

// Revoke marca el jti como revocado durante ttl.
func (s *MemoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jtis[jti] = s.now().Add(ttl)
	return nil
}

// IsRevoked informa si el jti sigue revocado; las entradas vencidas se purgan.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.jtis[jti]
	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		delete(s.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser guarda el segundo de revocación del usuario. Las sesiones emitidas en ese
// mismo segundo no quedan cubiertas (ver revokedBefore).
func (s *MemoryRevocationStore) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.users[userID] = userMark{revokedAt: now.Unix(), expiresAt: now.Add(ttl)}
	return nil
}

// IsUserRevoked informa si un token emitido en issuedAt quedó invalidado por RevokeUser.
func (s *MemoryRevocationStore) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mark, ok := s.users[userID]
	if !ok {
		return false, nil
	}
	if s.now().After(mark.expiresAt) {
		delete(s.users, userID)
		return false, nil
	}
	return revokedBefore(issuedAt, mark.revokedAt), nil
}
