// Package saveedit keeps uploaded saves in sessions and applies inventory
// edits to them one at a time.
package saveedit

//go:generate mockgen -destination=mock/mock_service.go -package=saveeditmock github.com/KirkDiggler/witchfire-saves/internal/orchestrators/saveedit Service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/inventory"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/idgen"
	savesession "github.com/KirkDiggler/witchfire-saves/internal/repositories/save_session"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

const (
	// DefaultMaxDocumentBytes bounds uploaded saves
	DefaultMaxDocumentBytes = 32 << 20

	// An edit is retried when another process wrote the session between
	// our read and our write
	maxEditAttempts = 3
)

// Service defines the save editing operations
type Service interface {
	OpenSession(ctx context.Context, input *OpenSessionInput) (*OpenSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	ResetSession(ctx context.Context, input *ResetSessionInput) (*ResetSessionOutput, error)
	ExportSession(ctx context.Context, input *ExportSessionInput) (*ExportSessionOutput, error)
	CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error)

	AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error)
	RemoveItem(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error)
	SetTier(ctx context.Context, input *SetTierInput) (*SetTierOutput, error)
	GetTier(ctx context.Context, input *GetTierInput) (*GetTierOutput, error)
	SetResearched(ctx context.Context, input *SetResearchedInput) (*SetResearchedOutput, error)
	CountInInventory(ctx context.Context, input *CountInput) (*CountOutput, error)
	ListInventory(ctx context.Context, input *ListInventoryInput) (*ListInventoryOutput, error)

	ListCatalog(ctx context.Context, input *ListCatalogInput) (*ListCatalogOutput, error)
}

// Config holds the dependencies for the save edit orchestrator
type Config struct {
	SessionRepo savesession.Repository
	Engine      *inventory.Engine
	Catalog     *catalog.Catalog
	IDGenerator idgen.Generator

	// MaxDocumentBytes defaults to DefaultMaxDocumentBytes
	MaxDocumentBytes int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.MaxDocumentBytes < 0 {
		vb.Field("MaxDocumentBytes", "cannot be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	repo     savesession.Repository
	engine   *inventory.Engine
	catalog  *catalog.Catalog
	idGen    idgen.Generator
	maxBytes int
	locks    *sessionLocks
}

// NewOrchestrator creates a new save edit orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	maxBytes := cfg.MaxDocumentBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxDocumentBytes
	}

	return &orchestrator{
		repo:     cfg.SessionRepo,
		engine:   cfg.Engine,
		catalog:  cfg.Catalog,
		idGen:    cfg.IDGenerator,
		maxBytes: maxBytes,
		locks:    newSessionLocks(),
	}, nil
}

// OpenSession validates an uploaded save and stores it as a new session
func (o *orchestrator) OpenSession(ctx context.Context, input *OpenSessionInput) (*OpenSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if len(input.Document) == 0 {
		return nil, errors.InvalidArgument("document is required")
	}
	if len(input.Document) > o.maxBytes {
		return nil, errors.InvalidArgumentf("document is %d bytes, limit is %d", len(input.Document), o.maxBytes)
	}

	if _, err := savedoc.Parse(input.Document); err != nil {
		return nil, err
	}
	summary, err := savedoc.Summarize(input.Document)
	if err != nil {
		return nil, err
	}

	out, err := o.repo.Create(ctx, savesession.CreateInput{
		ID:       o.idGen.Generate(),
		Name:     input.Name,
		Document: input.Document,
		TTL:      input.TTL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	slog.InfoContext(ctx, "opened save session",
		"session_id", out.Session.ID,
		"name", input.Name,
		"bytes", len(input.Document),
		"inventory", summary.Counts[savedoc.ItemContainers])

	return &OpenSessionOutput{
		Session: sessionInfo(out.Session),
		Summary: summary,
	}, nil
}

// GetSession describes a session and summarizes its working document
func (o *orchestrator) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	session, err := o.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	summary, err := savedoc.Summarize(session.Working)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "stored document is unreadable")
	}

	return &GetSessionOutput{
		Session: sessionInfo(session),
		Summary: summary,
	}, nil
}

// ResetSession replaces the working document with the original upload
func (o *orchestrator) ResetSession(ctx context.Context, input *ResetSessionInput) (*ResetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	unlock := o.locks.lock(input.SessionID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		session, err := o.load(ctx, input.SessionID)
		if err != nil {
			return nil, err
		}

		out, err := o.repo.Update(ctx, savesession.UpdateInput{
			ID:       session.ID,
			Revision: session.Revision,
			Working:  session.Original,
		})
		if errors.IsAborted(err) && attempt < maxEditAttempts {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to reset session")
		}

		slog.InfoContext(ctx, "reset save session", "session_id", session.ID, "revision", out.Session.Revision)
		return &ResetSessionOutput{Revision: out.Session.Revision}, nil
	}
}

// ExportSession returns the working document. Without Indent it is
// returned as stored.
func (o *orchestrator) ExportSession(ctx context.Context, input *ExportSessionInput) (*ExportSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	session, err := o.load(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	document := []byte(session.Working)
	if input.Indent {
		doc, err := o.parseWorking(session)
		if err != nil {
			return nil, err
		}
		if document, err = doc.MarshalIndent(); err != nil {
			return nil, err
		}
	}

	return &ExportSessionOutput{
		Name:     session.Name,
		Document: document,
		Revision: session.Revision,
	}, nil
}

// CloseSession deletes a session
func (o *orchestrator) CloseSession(ctx context.Context, input *CloseSessionInput) (*CloseSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	unlock := o.locks.lock(input.SessionID)
	defer unlock()

	if _, err := o.repo.Delete(ctx, savesession.DeleteInput{ID: input.SessionID}); err != nil {
		return nil, errors.Wrap(err, "failed to close session")
	}

	slog.InfoContext(ctx, "closed save session", "session_id", input.SessionID)
	return &CloseSessionOutput{}, nil
}

// AddItem adds one copy of a catalog item
func (o *orchestrator) AddItem(ctx context.Context, input *AddItemInput) (*AddItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	item, ok := o.catalog.Item(catalog.ItemID(input.ItemID))
	if !ok {
		return nil, errors.InvalidArgumentf("unknown item %q", input.ItemID).WithMeta("item_id", input.ItemID)
	}

	var added *inventory.Added
	session, err := o.edit(ctx, input.SessionID, func(doc *savedoc.Document) (*savedoc.Document, error) {
		next, result, err := o.engine.Add(doc, item.ID)
		added = result
		return next, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to add %s", item.ID)
	}

	slog.DebugContext(ctx, "added item",
		"session_id", session.ID,
		"item_id", item.ID,
		"record_id", added.ID,
		"rarity", added.Rarity)

	return &AddItemOutput{
		Item:     item,
		Added:    added,
		Revision: session.Revision,
	}, nil
}

// RemoveItem removes every record, flag and quest of an item
func (o *orchestrator) RemoveItem(ctx context.Context, input *RemoveItemInput) (*RemoveItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	target, err := o.resolve(input.Item)
	if err != nil {
		return nil, err
	}

	var removed inventory.Removed
	session, err := o.edit(ctx, input.SessionID, func(doc *savedoc.Document) (*savedoc.Document, error) {
		next, result, err := o.engine.Remove(doc, target)
		removed = result
		return next, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to remove %s", target)
	}

	slog.DebugContext(ctx, "removed item", "session_id", session.ID, "target", target.String(), "entries", removed.Total())

	return &RemoveItemOutput{
		Target:   target,
		Removed:  removed,
		Revision: session.Revision,
	}, nil
}

// SetTier writes the mysterium tier; out of range values are clamped
func (o *orchestrator) SetTier(ctx context.Context, input *SetTierInput) (*SetTierOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	target, err := o.resolve(input.Item)
	if err != nil {
		return nil, err
	}

	var tier int
	session, err := o.edit(ctx, input.SessionID, func(doc *savedoc.Document) (*savedoc.Document, error) {
		next, err := o.engine.SetTier(doc, target, input.Tier)
		if err != nil {
			return nil, err
		}
		tier, err = o.engine.Tier(next, target)
		return next, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set tier of %s", target)
	}

	return &SetTierOutput{
		Target:   target,
		Tier:     tier,
		Revision: session.Revision,
	}, nil
}

// GetTier reads the mysterium tier
func (o *orchestrator) GetTier(ctx context.Context, input *GetTierInput) (*GetTierOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	target, err := o.resolve(input.Item)
	if err != nil {
		return nil, err
	}

	doc, _, err := o.view(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	tier, err := o.engine.Tier(doc, target)
	if err != nil {
		return nil, err
	}

	return &GetTierOutput{Target: target, Tier: tier}, nil
}

// SetResearched sets or clears the research flag
func (o *orchestrator) SetResearched(ctx context.Context, input *SetResearchedInput) (*SetResearchedOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	target, err := o.resolve(input.Item)
	if err != nil {
		return nil, err
	}

	session, err := o.edit(ctx, input.SessionID, func(doc *savedoc.Document) (*savedoc.Document, error) {
		return o.engine.SetResearched(doc, target, input.Researched)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update research of %s", target)
	}

	return &SetResearchedOutput{Target: target, Revision: session.Revision}, nil
}

// CountInInventory counts the copies of an item
func (o *orchestrator) CountInInventory(ctx context.Context, input *CountInput) (*CountOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	target, err := o.resolve(input.Item)
	if err != nil {
		return nil, err
	}

	doc, _, err := o.view(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	count, err := o.engine.Count(doc, target)
	if err != nil {
		return nil, err
	}
	researched, err := o.engine.Researched(doc, target)
	if err != nil {
		return nil, err
	}

	return &CountOutput{Target: target, Count: count, Researched: researched}, nil
}

// ListInventory parses every inventory container
func (o *orchestrator) ListInventory(ctx context.Context, input *ListInventoryInput) (*ListInventoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	doc, _, err := o.view(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &ListInventoryOutput{Entries: o.engine.List(doc)}, nil
}

// ListCatalog lists the items that can be added
func (o *orchestrator) ListCatalog(_ context.Context, input *ListCatalogInput) (*ListCatalogOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	categories := witchfire.Categories
	if input.Category != "" {
		category := witchfire.Category(input.Category)
		if !category.Valid() {
			return nil, errors.InvalidArgumentf("unknown category %q", input.Category)
		}
		categories = []witchfire.Category{category}
	}

	var items []*catalog.Item
	for _, category := range categories {
		items = append(items, o.catalog.Items(category)...)
	}

	return &ListCatalogOutput{Items: items}, nil
}

// resolve accepts a catalog item id or a "category:code" target
func (o *orchestrator) resolve(ref string) (witchfire.Target, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return witchfire.Target{}, errors.InvalidArgument("item is required")
	}

	if item, ok := o.catalog.Item(catalog.ItemID(ref)); ok {
		return item.Target(), nil
	}

	target, ok := witchfire.ParseTarget(ref)
	if !ok {
		return witchfire.Target{}, errors.InvalidArgumentf("unknown item %q", ref).WithMeta("item", ref)
	}
	return target, nil
}

func (o *orchestrator) load(ctx context.Context, id string) (*savesession.Session, error) {
	if id == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.repo.Get(ctx, savesession.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}
	return out.Session, nil
}

func (o *orchestrator) parseWorking(session *savesession.Session) (*savedoc.Document, error) {
	doc, err := savedoc.Parse(session.Working)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "stored document is unreadable").
			WithMeta("session_id", session.ID)
	}
	return doc, nil
}

// view loads the working document for reading
func (o *orchestrator) view(ctx context.Context, id string) (*savedoc.Document, *savesession.Session, error) {
	session, err := o.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := o.parseWorking(session)
	if err != nil {
		return nil, nil, err
	}
	return doc, session, nil
}

// edit runs fn against the working document and stores the result. fn may
// run again when a concurrent writer bumped the revision, so it must not
// keep state between calls other than overwriting its results.
func (o *orchestrator) edit(
	ctx context.Context,
	id string,
	fn func(doc *savedoc.Document) (*savedoc.Document, error),
) (*savesession.Session, error) {
	if id == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	unlock := o.locks.lock(id)
	defer unlock()

	for attempt := 1; ; attempt++ {
		doc, session, err := o.view(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := fn(doc)
		if err != nil {
			return nil, err
		}

		raw, err := next.Marshal()
		if err != nil {
			return nil, err
		}

		out, err := o.repo.Update(ctx, savesession.UpdateInput{
			ID:       id,
			Revision: session.Revision,
			Working:  raw,
		})
		if errors.IsAborted(err) && attempt < maxEditAttempts {
			slog.WarnContext(ctx, "session changed during edit, retrying", "session_id", id, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to store session")
		}
		return out.Session, nil
	}
}

func sessionInfo(s *savesession.Session) *SessionInfo {
	return &SessionInfo{
		ID:        s.ID,
		Name:      s.Name,
		Revision:  s.Revision,
		Modified:  !savedoc.SameContent(s.Original, s.Working),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
