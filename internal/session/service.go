package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/cart"
	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/Sameer-A01/restaurant-api/internal/pricing"
	"golang.org/x/sync/singleflight"
)

// Service owns session state: it rehydrates carts from the durable store
// (through a read-through cache) and writes the full state back after every
// mutation. All cart mutations validate stock against the snapshot supplied by
// the caller for that specific call.
type Service struct {
	repo          Repository
	cache         Cache
	sfg           singleflight.Group // Prevents cache stampede
	defaultPolicy domain.PricingPolicy
}

func NewService(repo Repository, cache Cache, defaultPolicy domain.PricingPolicy) *Service {
	return &Service{
		repo:          repo,
		cache:         cache,
		defaultPolicy: defaultPolicy,
	}
}

// GetState returns the session's current state, rehydrating from the durable
// store on a cache miss. An unknown session gets a fresh empty cart with the
// default pricing policy.
func (s *Service) GetState(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {

		state, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return state, nil // state is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		state, errGet := s.repo.GetSession(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, ErrSessionNotFound) {
			return &domain.SessionState{
				SessionID: sessionID,
				Lines:     nil,
				Policy:    s.defaultPolicy,
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if errSet := s.cache.Set(setCtx, sessionID, state); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return state, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.SessionState), nil
}

// AddItem adds one unit of itemID to the session's cart and persists the new
// state wholesale.
func (s *Service) AddItem(ctx context.Context, sessionID string, snapshot *catalog.Snapshot, itemID string) (*domain.SessionState, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	store := cart.NewStore(state.Lines)
	if errAdd := store.AddItem(snapshot, itemID); errAdd != nil {
		return nil, errAdd
	}
	dropStale(store, snapshot, sessionID)

	state.Lines = store.Lines()
	return s.persist(ctx, state)
}

// SetQuantity replaces the quantity of an existing line (removing it when the
// quantity drops below 1) and persists the new state wholesale.
func (s *Service) SetQuantity(ctx context.Context, sessionID string, snapshot *catalog.Snapshot, itemID string, quantity int) (*domain.SessionState, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	store := cart.NewStore(state.Lines)
	if errSet := store.SetQuantity(snapshot, itemID, quantity); errSet != nil {
		return nil, errSet
	}
	dropStale(store, snapshot, sessionID)

	state.Lines = store.Lines()
	return s.persist(ctx, state)
}

func (s *Service) RemoveItem(ctx context.Context, sessionID string, itemID string) (*domain.SessionState, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	store := cart.NewStore(state.Lines)
	store.RemoveItem(itemID)

	state.Lines = store.Lines()
	return s.persist(ctx, state)
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Lines = nil
	return s.persist(ctx, state)
}

// SetPolicy replaces the session's pricing policy. Rates are validated here,
// at edit time; the calculator never sees an invalid policy.
func (s *Service) SetPolicy(ctx context.Context, sessionID string, policy domain.PricingPolicy) (*domain.SessionState, error) {
	if err := pricing.ValidatePolicy(policy); err != nil {
		return nil, err
	}

	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Policy = policy
	return s.persist(ctx, state)
}

// BindReservation attaches a room+table binding to the session. Both
// identifiers are set together or not at all.
func (s *Service) BindReservation(ctx context.Context, sessionID, roomID, tableID string) (*domain.SessionState, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if errBind := state.Reservation.Bind(roomID, tableID); errBind != nil {
		return nil, errBind
	}
	return s.persist(ctx, state)
}

func (s *Service) ClearReservation(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Reservation.Clear()
	return s.persist(ctx, state)
}

// Totals computes the session's pricing breakdown against the supplied
// snapshot. The subtotal is always recomputed from the lines, never cached.
func (s *Service) Totals(ctx context.Context, sessionID string, snapshot *catalog.Snapshot) (domain.Totals, error) {
	state, err := s.GetState(ctx, sessionID)
	if err != nil {
		return domain.Totals{}, err
	}

	store := cart.NewStore(state.Lines)
	subtotal := store.Subtotal(snapshot)
	return pricing.ComputeTotals(subtotal, state.Policy), nil
}

// DeleteSession drops the session from the durable store and the cache.
// An already-absent session is not an error.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	s.invalidateCache(sessionID)
	return nil
}

func (s *Service) persist(ctx context.Context, state *domain.SessionState) (*domain.SessionState, error) {
	state.UpdatedAt = time.Now()

	if err := s.repo.UpsertSession(ctx, state); err != nil {
		log.Printf("repo upsert session error: %v", err)
		return nil, err
	}

	s.invalidateCache(state.SessionID)
	return state, nil
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

// dropStale removes lines referencing items gone from the current catalog.
// Stale references are a bug class, not a user error, so they are logged and
// dropped rather than surfaced.
func dropStale(store *cart.Store, snapshot *catalog.Snapshot, sessionID string) {
	for _, line := range store.Prune(snapshot) {
		log.Printf("session %s: dropped stale cart line %s (not in current catalog)", sessionID, line.ItemID)
	}
}
