package catalog

import (
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

// Table is the code <-> item bijection of one category. It is filled once at
// catalog load and read-only afterwards.
type Table struct {
	category witchfire.Category
	weapons  *WeaponVocabulary
	byItem   map[ItemID]witchfire.Code
	byCode   map[witchfire.Code]ItemID
	codes    []witchfire.Code
}

func newTable(category witchfire.Category, weapons *WeaponVocabulary) *Table {
	return &Table{
		category: category,
		weapons:  weapons,
		byItem:   make(map[ItemID]witchfire.Code),
		byCode:   make(map[witchfire.Code]ItemID),
	}
}

// Category returns the category the table serves
func (t *Table) Category() witchfire.Category {
	return t.category
}

// CodeForItem returns the code bound to an item
func (t *Table) CodeForItem(id ItemID) (witchfire.Code, bool) {
	code, ok := t.byItem[id]
	return code, ok
}

// ItemForCode returns the item bound to a code
func (t *Table) ItemForCode(code witchfire.Code) (ItemID, bool) {
	id, ok := t.byCode[code]
	return id, ok
}

// Codes returns the codes bound to catalog items, sorted
func (t *Table) Codes() []witchfire.Code {
	out := make([]witchfire.Code, len(t.codes))
	copy(out, t.codes)
	return out
}

// Valid reports whether a code belongs to the category's closed enumeration.
// Weapons accept every legal family/weight pair; other categories accept only
// codes bound in the catalog.
func (t *Table) Valid(code witchfire.Code) bool {
	if t.category == witchfire.CategoryWeapon {
		return t.weapons.Legal(code.Family(), code.Weight())
	}
	_, ok := t.byCode[code]
	return ok
}

// Enumeration returns every code Valid accepts
func (t *Table) Enumeration() []witchfire.Code {
	if t.category == witchfire.CategoryWeapon {
		return t.weapons.Codes()
	}
	return t.Codes()
}

func (t *Table) wellFormed(code witchfire.Code) bool {
	if t.category == witchfire.CategoryWeapon {
		return !code.IsElement() && t.weapons.Legal(code.Family(), code.Weight())
	}
	if !code.IsElement() {
		return false
	}
	for _, el := range witchfire.Elements {
		if code.Element() == el {
			return true
		}
	}
	return false
}

func (t *Table) bind(id ItemID, code witchfire.Code) error {
	if existing, dup := t.byCode[code]; dup {
		return errors.AlreadyExistsf("%s code %s is bound to both %s and %s", t.category, code, existing, id)
	}
	t.byItem[id] = code
	t.byCode[code] = id
	t.codes = append(t.codes, code)
	return nil
}
