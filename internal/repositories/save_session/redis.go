package savesession

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/witchfire-saves/internal/redis"
)

// Key pattern: save_session:{id}
const sessionKeyPrefix = "save_session:"

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock

	// TTL for sessions created without one; zero means DefaultTTL
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.TTL < 0 {
		vb.Field("TTL", errTTLNegative)
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewRedisRepository creates a Redis backed session repository
func NewRedisRepository(cfg *Config) (Repository, error) {
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

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ttl:    ttl,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Create stores a new session. An existing live session with the same ID
// is an AlreadyExists error.
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = r.ttl
	}
	session := newSession(input, ttl, r.clock.Now())

	data, err := json.Marshal(session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	created, err := r.client.SetNX(ctx, buildKey(input.ID), data, ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store session in Redis")
	}
	if !created {
		return nil, errors.AlreadyExistsf("session %s already exists", input.ID).
			WithMeta("session_id", input.ID)
	}

	slog.DebugContext(ctx, "stored save session", "session_id", input.ID, "ttl", ttl, "bytes", len(data))

	return &CreateOutput{Session: session}, nil
}

// Get retrieves a live session
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	session, err := r.load(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Session: session}, nil
}

// Update replaces the working document inside a WATCH transaction so two
// writers holding the same revision cannot both win
func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	key := buildKey(input.ID)
	var updated *Session

	txErr := r.client.Watch(ctx, func(tx *redis.Tx) error {
		session, err := r.load(ctx, tx, input.ID)
		if err != nil {
			return err
		}
		if session.Revision != input.Revision {
			return staleRevision(input.ID, input.Revision, session.Revision)
		}

		apply(session, input, r.clock.Now())

		data, err := json.Marshal(session)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal session")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, session.TTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = session
		return nil
	}, key)

	switch {
	case txErr == nil:
		return &UpdateOutput{Session: updated}, nil
	case errors.Is(txErr, redis.TxFailedErr):
		return nil, errors.Abortedf("session %s was modified concurrently", input.ID).
			WithMeta("session_id", input.ID)
	default:
		var coded *errors.Error
		if errors.As(txErr, &coded) {
			return nil, txErr
		}
		return nil, errors.Wrapf(txErr, "failed to update session in Redis")
	}
}

// Delete removes a session
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	removed, err := r.client.Del(ctx, buildKey(input.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete session from Redis")
	}
	if removed == 0 {
		return nil, notFound(input.ID)
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) load(ctx context.Context, c redis.Cmdable, id string) (*Session, error) {
	key := buildKey(id)

	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(id)
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to unmarshal session")
	}

	// ExpiresAt also bounds the session when the clock runs ahead of Redis
	if r.clock.Now().After(session.ExpiresAt) {
		if err := c.Del(ctx, key).Err(); err != nil {
			slog.DebugContext(ctx, "failed to delete expired save session", "session_id", id, "error", err)
		}
		return nil, errors.NotFoundf("session %s has expired", id).WithMeta("session_id", id)
	}

	return &session, nil
}

func buildKey(id string) string {
	return sessionKeyPrefix + id
}
