// Package catalog provides the static item catalog and the per-category token
// tables that map save file codes to catalog items.
package catalog

import (
	_ "embed"
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ItemID is an opaque catalog identifier
type ItemID string

// Item is one catalog entry
type Item struct {
	ID       ItemID             `yaml:"id"`
	Name     string             `yaml:"name"`
	Category witchfire.Category `yaml:"category"`
	Code     witchfire.Code     `yaml:"-"`
	RawCode  string             `yaml:"code"`
}

// GetID implements core.Entity
func (i *Item) GetID() string {
	return string(i.ID)
}

// GetType implements core.Entity
func (i *Item) GetType() string {
	return string(i.Category)
}

var _ core.Entity = (*Item)(nil)

// Target returns the logical target this item resolves to
func (i *Item) Target() witchfire.Target {
	return witchfire.Target{Category: i.Category, Code: i.Code}
}

type catalogFile struct {
	Items []*Item `yaml:"items"`
}

// Catalog is the read-only item lookup, keyed by id and by category
type Catalog struct {
	items   map[ItemID]*Item
	tables  map[witchfire.Category]*Table
	weapons *WeaponVocabulary
}

// Default loads the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for package-level initialisation
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML. Every item must carry a code that is
// valid for its category and codes must be unique within a category.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog")
	}

	c := &Catalog{
		items:   make(map[ItemID]*Item, len(file.Items)),
		tables:  make(map[witchfire.Category]*Table, len(witchfire.Categories)),
		weapons: DefaultWeaponVocabulary(),
	}
	for _, cat := range witchfire.Categories {
		c.tables[cat] = newTable(cat, c.weapons)
	}

	for _, item := range file.Items {
		if err := c.add(item); err != nil {
			return nil, err
		}
	}

	for _, t := range c.tables {
		sort.Slice(t.codes, func(i, j int) bool {
			return t.codes[i].String() < t.codes[j].String()
		})
	}

	return c, nil
}

func (c *Catalog) add(item *Item) error {
	if item.ID == "" {
		return errors.InvalidArgument("catalog item id is required")
	}
	if _, dup := c.items[item.ID]; dup {
		return errors.AlreadyExistsf("duplicate catalog item %s", item.ID)
	}

	table, ok := c.tables[item.Category]
	if !ok {
		return errors.InvalidArgumentf("catalog item %s has unknown category %q", item.ID, item.Category)
	}

	code, ok := witchfire.ParseCode(item.RawCode)
	if !ok || !table.wellFormed(code) {
		return errors.InvalidArgumentf("catalog item %s has invalid code %q", item.ID, item.RawCode)
	}
	item.Code = code

	if err := table.bind(item.ID, code); err != nil {
		return err
	}
	c.items[item.ID] = item
	return nil
}

// Item looks up an item by id
func (c *Catalog) Item(id ItemID) (*Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Items returns every item of a category ordered by code
func (c *Catalog) Items(category witchfire.Category) []*Item {
	table, ok := c.tables[category]
	if !ok {
		return nil
	}
	items := make([]*Item, 0, len(table.codes))
	for _, code := range table.codes {
		items = append(items, c.items[table.byCode[code]])
	}
	return items
}

// Table returns the token table of a category
func (c *Catalog) Table(category witchfire.Category) (*Table, bool) {
	t, ok := c.tables[category]
	return t, ok
}

// Weapons returns the weapon token vocabulary
func (c *Catalog) Weapons() *WeaponVocabulary {
	return c.weapons
}

// ItemForTarget resolves a target back to its catalog item
func (c *Catalog) ItemForTarget(target witchfire.Target) (*Item, bool) {
	table, ok := c.tables[target.Category]
	if !ok {
		return nil, false
	}
	id, ok := table.ItemForCode(target.Code)
	if !ok {
		return nil, false
	}
	return c.Item(id)
}
