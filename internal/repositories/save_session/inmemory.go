package savesession

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/clock"
)

// InMemoryConfig configures the in-memory repository
type InMemoryConfig struct {
	Clock clock.Clock
	TTL   time.Duration
}

// Validate ensures all required dependencies are provided
func (c *InMemoryConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.TTL < 0 {
		vb.Field("TTL", errTTLNegative)
	}
	return vb.Build()
}

// InMemoryRepository implements Repository for single process servers
// and tests. Expired sessions are dropped lazily on access.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Session
	clock clock.Clock
	ttl   time.Duration
}

// NewInMemory creates a new in-memory repository
func NewInMemory(cfg *InMemoryConfig) (*InMemoryRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &InMemoryRepository{
		store: make(map[string]*Session),
		clock: cfg.Clock,
		ttl:   ttl,
	}, nil
}

var _ Repository = (*InMemoryRepository)(nil)

// Create stores a new session
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = r.ttl
	}
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live(input.ID, now); ok {
		return nil, errors.AlreadyExistsf("session %s already exists", input.ID).
			WithMeta("session_id", input.ID)
	}

	session := newSession(input, ttl, now)
	r.store[input.ID] = session

	return &CreateOutput{Session: session.clone()}, nil
}

// Get retrieves a live session
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.live(input.ID, r.clock.Now())
	if !ok {
		return nil, notFound(input.ID)
	}

	return &GetOutput{Session: session.clone()}, nil
}

// Update replaces the working document when the revision matches
func (r *InMemoryRepository) Update(_ context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.live(input.ID, now)
	if !ok {
		return nil, notFound(input.ID)
	}
	if session.Revision != input.Revision {
		return nil, staleRevision(input.ID, input.Revision, session.Revision)
	}

	apply(session, input, now)

	return &UpdateOutput{Session: session.clone()}, nil
}

// Delete removes a session
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live(input.ID, r.clock.Now()); !ok {
		return nil, notFound(input.ID)
	}
	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}

// Len reports the number of live sessions
func (r *InMemoryRepository) Len() int {
	now := r.clock.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.store {
		if !now.After(s.ExpiresAt) {
			n++
		}
	}
	return n
}

// live returns the stored session, evicting it when expired.
// Callers hold the write lock.
func (r *InMemoryRepository) live(id string, now time.Time) (*Session, bool) {
	session, ok := r.store[id]
	if !ok {
		return nil, false
	}
	if now.After(session.ExpiresAt) {
		delete(r.store, id)
		return nil, false
	}
	return session, true
}
