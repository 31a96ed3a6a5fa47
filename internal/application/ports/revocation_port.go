package ports

import (
	"context"
	"time"
)

// TokenRevocationStore guarda sesiones revocadas hasta su expiración natural.
type TokenRevocationStore interface {
	// Revoke invalida un token por su jti durante ttl.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUser invalida todos los tokens del usuario emitidos en segundos anteriores al actual.
	// El iat de los JWT tiene precisión de segundos: una sesión emitida en el mismo segundo
	// que la revocación sigue válida. Quien necesite cerrar una sesión concreta usa Revoke.
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}
