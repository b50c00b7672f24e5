package session

import (
	"context"
	"errors"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// Repository is the durable store for session state. The state is written as a
// single serialized blob, replaced wholesale on every mutation: there is no
// partial patching, so rehydration after a crash always sees a complete,
// self-consistent cart.
//
// Consumers define this interface, not the MongoDB implementation.
type Repository interface {
	GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error)
	UpsertSession(ctx context.Context, state *domain.SessionState) error
	DeleteSession(ctx context.Context, sessionID string) error
}
