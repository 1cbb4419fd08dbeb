// Package inventory applies editor actions to a save document.
//
// Every transition takes a document and returns a new one; the input is never
// modified. All writes of one action land on the same clone, so a caller that
// swaps in the result only ever observes complete edits.
package inventory

import (
	"time"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/codec"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/clock"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// Record field names
const (
	fieldSlotID        = "slotId"
	fieldDetailsID     = "detailsId"
	fieldItemCount     = "itemCount"
	fieldStashed       = "bStashed"
	fieldDateTimeAdded = "dateTimeAdded"
	fieldSourceHandle  = "sourceHandle"
	fieldTierQuestID   = "tierQuestId"

	placeholderTierQuestID = -1
	researchedValue        = 1
)

var detailsLists = []string{savedoc.WeaponDetails, savedoc.AbilityDetails}

// Config holds the dependencies of an Engine
type Config struct {
	Catalog *catalog.Catalog
	Codecs  *codec.Set
	Clock   clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Codecs == nil {
		vb.RequiredField("Codecs")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// Engine performs the multi-location writes behind each editor action
type Engine struct {
	catalog *catalog.Catalog
	codecs  *codec.Set
	clock   clock.Clock
}

// NewEngine creates an engine
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Engine{
		catalog: cfg.Catalog,
		codecs:  cfg.Codecs,
		clock:   cfg.Clock,
	}, nil
}

// Added describes the records an Add call wrote
type Added struct {
	Target witchfire.Target
	ID     int64
	Rarity witchfire.Rarity
}

// Resolve maps a catalog item to the target the codec works with
func (e *Engine) Resolve(id catalog.ItemID) (witchfire.Target, error) {
	item, ok := e.catalog.Item(id)
	if !ok {
		return witchfire.Target{}, errors.NotFoundf("item %q not found", id)
	}
	return item.Target(), nil
}

// Add puts one new copy of an item into the inventory. It allocates a fresh
// id shared by a details record and a container record, marks the item
// researched under the primary key only, and makes sure the item is unlocked
// without lowering an existing tier.
func (e *Engine) Add(doc *savedoc.Document, id catalog.ItemID) (*savedoc.Document, *Added, error) {
	target, err := e.Resolve(id)
	if err != nil {
		return nil, nil, err
	}
	c, err := e.codecFor(target)
	if err != nil {
		return nil, nil, err
	}
	cfg := c.Config()

	out := doc.Clone()
	cs := out.Locate(
		savedoc.ItemContainers,
		cfg.DetailsList,
		savedoc.ResearchedProjects,
		savedoc.UnlockedItems,
	)
	containers := cs.Array(savedoc.ItemContainers)
	details := cs.Array(cfg.DetailsList)

	nextID := nextRecordID(containers, out.Lookup(detailsLists...))

	details.Append(map[string]any{
		fieldDetailsID:    savedoc.Number(nextID),
		fieldTierQuestID:  savedoc.Number(placeholderTierQuestID),
		fieldSourceHandle: c.DetailsHandle(target.Code, cfg.DefaultRarity),
	})
	containers.Append(map[string]any{
		fieldSlotID:        savedoc.Number(nextID),
		fieldDetailsID:     savedoc.Number(nextID),
		fieldItemCount:     savedoc.Number(1),
		fieldStashed:       false,
		fieldDateTimeAdded: e.clock.Now().UTC().Format(time.RFC3339),
		fieldSourceHandle:  c.ContainerHandle(target.Code, cfg.DefaultRarity),
	})

	markResearched(c, cs.Object(savedoc.ResearchedProjects), target.Code)

	unlocked := cs.Object(savedoc.UnlockedItems)
	value := int64(storedTier(witchfire.MinTier))
	if stored, ok := highestUnlock(c, unlocked, target.Code); ok && stored > value {
		value = stored
	}
	key := c.UnlockedKey(target.Code)
	deleteKeys(unlocked, c.UnlockedKeyCandidates(target.Code), target.Code, c.ParseUnlockedKey, key)
	unlocked.Set(key, savedoc.Number(value))

	return out, &Added{Target: target, ID: nextID, Rarity: cfg.DefaultRarity}, nil
}

// nextRecordID returns one past the largest slot or details id found in the
// container list and in every details list
func nextRecordID(containers *savedoc.Array, details *savedoc.Containers) int64 {
	var highest int64
	bump := func(rec map[string]any, field string) {
		if n, ok := savedoc.Int(rec[field]); ok && n > highest {
			highest = n
		}
	}

	for _, rec := range containers.Records() {
		bump(rec, fieldSlotID)
		bump(rec, fieldDetailsID)
	}
	for _, name := range detailsLists {
		for _, rec := range details.Array(name).Records() {
			bump(rec, fieldDetailsID)
		}
	}
	return highest + 1
}

// codecFor validates a target and returns the codec of its category
func (e *Engine) codecFor(target witchfire.Target) (*codec.Codec, error) {
	c, ok := e.codecs.For(target.Category)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown category %q", target.Category)
	}
	if !c.Valid(target.Code) {
		return nil, errors.InvalidArgumentf("%s is not a known %s", target.Code, target.Category)
	}
	return c, nil
}

// matchesHandle reports whether a record's source handle encodes code
func matchesHandle(c *codec.Codec, code witchfire.Code, item any) bool {
	rec, ok := item.(map[string]any)
	if !ok {
		return false
	}
	_, ok = handleFor(c, code, rec)
	return ok
}

func storedTier(tier int) int {
	return witchfire.ClampTier(tier) + 1
}
