// Package savesession stores save editing sessions: the document as it was
// uploaded and the working copy every edit replaces.
package savesession

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=savesessionmock github.com/KirkDiggler/witchfire-saves/internal/repositories/save_session Repository

// Session is one uploaded save and its edited state
type Session struct {
	ID string `json:"id"`

	// Optional label, usually the uploaded file name
	Name string `json:"name,omitempty"`

	// Original is the document as uploaded; Working is the latest edit.
	// Both are serialized save documents.
	Original json.RawMessage `json:"original"`
	Working  json.RawMessage `json:"working"`

	// Revision increases on every update. Updates carrying a stale
	// revision are rejected with Aborted.
	Revision int64 `json:"revision"`

	// TTL is renewed on every update
	TTL time.Duration `json:"ttl"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateInput contains parameters for creating a session
type CreateInput struct {
	ID       string
	Name     string
	Document json.RawMessage
	TTL      time.Duration // zero uses the repository default
}

// CreateOutput contains the created session
type CreateOutput struct {
	Session *Session
}

// GetInput contains parameters for retrieving a session
type GetInput struct {
	ID string
}

// GetOutput contains the retrieved session
type GetOutput struct {
	Session *Session
}

// UpdateInput replaces the working document of a session. Revision must
// match the stored revision.
type UpdateInput struct {
	ID       string
	Revision int64
	Working  json.RawMessage
}

// UpdateOutput contains the session after the update
type UpdateOutput struct {
	Session *Session
}

// DeleteInput contains parameters for deleting a session
type DeleteInput struct {
	ID string
}

// DeleteOutput contains the result of deleting a session
type DeleteOutput struct{}

// Repository defines the interface for session storage
type Repository interface {
	// Create stores a new session. Original and Working both start as the
	// given document.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a live session
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces the working document and renews the TTL
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a session
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

const (
	// DefaultTTL applies when neither the input nor the config sets one
	DefaultTTL = time.Hour

	errIDEmpty       = "session ID cannot be empty"
	errDocumentEmpty = "document cannot be empty"
	errTTLNegative   = "ttl cannot be negative"
)

func validateCreate(input CreateInput) error {
	vb := errors.NewValidationBuilder()
	if input.ID == "" {
		vb.Field("ID", errIDEmpty)
	}
	if len(input.Document) == 0 {
		vb.Field("Document", errDocumentEmpty)
	}
	if input.TTL < 0 {
		vb.Field("TTL", errTTLNegative)
	}
	return vb.Build()
}

func validateUpdate(input UpdateInput) error {
	vb := errors.NewValidationBuilder()
	if input.ID == "" {
		vb.Field("ID", errIDEmpty)
	}
	if len(input.Working) == 0 {
		vb.Field("Working", errDocumentEmpty)
	}
	return vb.Build()
}

func staleRevision(id string, want, got int64) error {
	return errors.Abortedf("session %s was modified: revision %d, stored %d", id, want, got).
		WithMeta("session_id", id)
}

func notFound(id string) error {
	return errors.NotFoundf("session %s not found", id).WithMeta("session_id", id)
}

func newSession(input CreateInput, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:        input.ID,
		Name:      input.Name,
		Original:  cloneRaw(input.Document),
		Working:   cloneRaw(input.Document),
		Revision:  1,
		TTL:       ttl,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// apply moves s to the next revision in place
func apply(s *Session, input UpdateInput, now time.Time) {
	s.Working = cloneRaw(input.Working)
	s.Revision++
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(s.TTL)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

func (s *Session) clone() *Session {
	c := *s
	c.Original = cloneRaw(s.Original)
	c.Working = cloneRaw(s.Working)
	return &c
}
