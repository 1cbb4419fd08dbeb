package saveedit

import (
	"time"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/inventory"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// SessionInfo describes a session without its documents
type SessionInfo struct {
	ID        string
	Name      string
	Revision  int64
	// Modified compares documents as JSON trees, not bytes
	Modified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// OpenSessionInput uploads a save document
type OpenSessionInput struct {
	Name     string
	Document []byte
	TTL      time.Duration
}

// OpenSessionOutput identifies the new session
type OpenSessionOutput struct {
	Session *SessionInfo
	Summary *savedoc.Summary
}

// GetSessionInput defines the request for describing a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput describes the working document
type GetSessionOutput struct {
	Session *SessionInfo
	Summary *savedoc.Summary
}

// AddItemInput adds one catalog item
type AddItemInput struct {
	SessionID string
	ItemID    string
}

// AddItemOutput reports what was written
type AddItemOutput struct {
	Item     *catalog.Item
	Added    *inventory.Added
	Revision int64
}

// RemoveItemInput removes every trace of an item. Item is a catalog id
// or a target such as "weapon:HandCannon.Light".
type RemoveItemInput struct {
	SessionID string
	Item      string
}

// RemoveItemOutput reports how many entries were deleted
type RemoveItemOutput struct {
	Target   witchfire.Target
	Removed  inventory.Removed
	Revision int64
}

// SetTierInput sets the mysterium tier shown in game (0 to 3)
type SetTierInput struct {
	SessionID string
	Item      string
	Tier      int
}

// SetTierOutput reports the tier now stored
type SetTierOutput struct {
	Target   witchfire.Target
	Tier     int
	Revision int64
}

// GetTierInput reads the tier of an item
type GetTierInput struct {
	SessionID string
	Item      string
}

// GetTierOutput holds the tier shown in game
type GetTierOutput struct {
	Target witchfire.Target
	Tier   int
}

// SetResearchedInput toggles the research flag of an item
type SetResearchedInput struct {
	SessionID  string
	Item       string
	Researched bool
}

// SetResearchedOutput reports the new revision
type SetResearchedOutput struct {
	Target   witchfire.Target
	Revision int64
}

// CountInput counts copies of an item
type CountInput struct {
	SessionID string
	Item      string
}

// CountOutput holds the number of copies found
type CountOutput struct {
	Target     witchfire.Target
	Count      int
	Researched bool
}

// ListInventoryInput lists the inventory containers of a session
type ListInventoryInput struct {
	SessionID string
}

// ListInventoryOutput holds one entry per container record
type ListInventoryOutput struct {
	Entries []inventory.Entry
}

// ListCatalogInput filters the catalog by category; empty lists all
type ListCatalogInput struct {
	Category string
}

// ListCatalogOutput holds catalog items in category order
type ListCatalogOutput struct {
	Items []*catalog.Item
}

// ResetSessionInput discards all edits
type ResetSessionInput struct {
	SessionID string
}

// ResetSessionOutput reports the new revision
type ResetSessionOutput struct {
	Revision int64
}

// ExportSessionInput fetches the working document
type ExportSessionInput struct {
	SessionID string
	Indent    bool
}

// ExportSessionOutput holds the serialized working document
type ExportSessionOutput struct {
	Name     string
	Document []byte
	Revision int64
}

// CloseSessionInput deletes a session
type CloseSessionInput struct {
	SessionID string
}

// CloseSessionOutput is empty
type CloseSessionOutput struct{}
