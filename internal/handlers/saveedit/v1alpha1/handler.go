// Package v1alpha1 exposes the save editor over gRPC
package v1alpha1

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/inventory"
	"github.com/KirkDiggler/witchfire-saves/internal/orchestrators/saveedit"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// HandlerConfig holds dependencies for the save editor handler
type HandlerConfig struct {
	SaveEditService saveedit.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.SaveEditService == nil {
		return errors.InvalidArgument("save edit service is required")
	}
	return nil
}

// Handler implements SaveEditorServer
type Handler struct {
	service saveedit.Service
}

var _ SaveEditorServer = (*Handler)(nil)

// NewHandler creates a new save editor handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{service: cfg.SaveEditService}, nil
}

// OpenSession uploads a save. The document is sent as a JSON string so
// 64-bit numbers survive the trip.
func (h *Handler) OpenSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	document := r.str("document", true)
	name := r.str("name", false)
	ttl := r.integer("ttl_seconds", false)
	if ttl < 0 {
		r.vb.InvalidField("ttl_seconds", "cannot be negative")
	}
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.OpenSession(ctx, &saveedit.OpenSessionInput{
		Name:     name,
		Document: []byte(document),
		TTL:      time.Duration(ttl) * time.Second,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"session": sessionFields(out.Session),
		"summary": summaryFields(out.Summary),
	})
}

// GetSession describes a session
func (h *Handler) GetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.GetSession(ctx, &saveedit.GetSessionInput{SessionID: id})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"session": sessionFields(out.Session),
		"summary": summaryFields(out.Summary),
	})
}

// ResetSession discards all edits
func (h *Handler) ResetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.ResetSession(ctx, &saveedit.ResetSessionInput{SessionID: id})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{"revision": out.Revision})
}

// ExportSession returns the working document as a JSON string
func (h *Handler) ExportSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	indent := r.boolean("indent")
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.ExportSession(ctx, &saveedit.ExportSessionInput{SessionID: id, Indent: indent})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"name":     out.Name,
		"document": string(out.Document),
		"revision": out.Revision,
	})
}

// CloseSession deletes a session
func (h *Handler) CloseSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	if _, err := h.service.CloseSession(ctx, &saveedit.CloseSessionInput{SessionID: id}); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{})
}

// AddItem adds one catalog item
func (h *Handler) AddItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	itemID := r.str("item_id", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.AddItem(ctx, &saveedit.AddItemInput{SessionID: id, ItemID: itemID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"item":      itemFields(out.Item),
		"record_id": out.Added.ID,
		"rarity":    string(out.Added.Rarity),
		"revision":  out.Revision,
	})
}

// RemoveItem removes every trace of an item
func (h *Handler) RemoveItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	item := r.str("item", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.RemoveItem(ctx, &saveedit.RemoveItemInput{SessionID: id, Item: item})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"target":   out.Target.String(),
		"removed":  removedFields(out.Removed),
		"revision": out.Revision,
	})
}

// SetTier sets the mysterium tier
func (h *Handler) SetTier(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	item := r.str("item", true)
	tier := r.integer("tier", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.SetTier(ctx, &saveedit.SetTierInput{SessionID: id, Item: item, Tier: int(tier)})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"target":   out.Target.String(),
		"tier":     out.Tier,
		"revision": out.Revision,
	})
}

// GetTier reads the mysterium tier
func (h *Handler) GetTier(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	item := r.str("item", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.GetTier(ctx, &saveedit.GetTierInput{SessionID: id, Item: item})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"target": out.Target.String(),
		"tier":   out.Tier,
	})
}

// SetResearched toggles the research flag
func (h *Handler) SetResearched(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	item := r.str("item", true)
	researched := r.boolean("researched")
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.SetResearched(ctx, &saveedit.SetResearchedInput{SessionID: id, Item: item, Researched: researched})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"target":   out.Target.String(),
		"revision": out.Revision,
	})
}

// CountInInventory counts copies of an item
func (h *Handler) CountInInventory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	item := r.str("item", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.CountInInventory(ctx, &saveedit.CountInput{SessionID: id, Item: item})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return response(map[string]any{
		"target":     out.Target.String(),
		"count":      out.Count,
		"researched": out.Researched,
	})
}

// ListInventory lists the inventory containers
func (h *Handler) ListInventory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	id := r.str("session_id", true)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.ListInventory(ctx, &saveedit.ListInventoryInput{SessionID: id})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	entries := make([]any, 0, len(out.Entries))
	for _, e := range out.Entries {
		entries = append(entries, entryFields(e))
	}

	return response(map[string]any{"entries": entries})
}

// ListCatalog lists the items that can be added
func (h *Handler) ListCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := readRequest(req)
	category := r.str("category", false)
	if err := r.err(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.service.ListCatalog(ctx, &saveedit.ListCatalogInput{Category: category})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	items := make([]any, 0, len(out.Items))
	for _, item := range out.Items {
		items = append(items, itemFields(item))
	}

	return response(map[string]any{"items": items})
}

func sessionFields(s *saveedit.SessionInfo) map[string]any {
	return map[string]any{
		"id":         s.ID,
		"name":       s.Name,
		"revision":   s.Revision,
		"modified":   s.Modified,
		"created_at": timestamp(s.CreatedAt),
		"updated_at": timestamp(s.UpdatedAt),
		"expires_at": timestamp(s.ExpiresAt),
	}
}

func summaryFields(s *savedoc.Summary) map[string]any {
	if s == nil {
		return map[string]any{}
	}

	stats := make([]any, 0, len(s.Stats))
	for _, stat := range s.Stats {
		stats = append(stats, map[string]any{"name": stat.Name, "level": stat.Level})
	}
	counts := make(map[string]any, len(s.Counts))
	for name, n := range s.Counts {
		counts[name] = n
	}

	return map[string]any{"stats": stats, "counts": counts}
}

func itemFields(item *catalog.Item) map[string]any {
	if item == nil {
		return map[string]any{}
	}
	return map[string]any{
		"id":       string(item.ID),
		"name":     item.Name,
		"category": string(item.Category),
		"target":   item.Target().String(),
	}
}

func removedFields(r inventory.Removed) map[string]any {
	return map[string]any{
		"containers":    r.Containers,
		"details":       r.Details,
		"research_keys": r.ResearchKeys,
		"unlocked_keys": r.UnlockedKeys,
		"quests":        r.Quests,
		"total":         r.Total(),
	}
}

func entryFields(e inventory.Entry) map[string]any {
	return map[string]any{
		"slot_id":    e.SlotID,
		"details_id": e.DetailsID,
		"count":      e.Count,
		"stashed":    e.Stashed,
		"target":     e.Target.String(),
		"rarity":     string(e.Rarity),
		"item_id":    string(e.ItemID),
	}
}
