package session

import (
	"context"
	"errors"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
)

type Cache interface {
	Get(ctx context.Context, sessionID string) (*domain.SessionState, error)
	Set(ctx context.Context, sessionID string, state *domain.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")
