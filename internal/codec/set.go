package codec

import (
	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

// Set holds one codec per category
type Set struct {
	codecs map[witchfire.Category]*Codec
}

// NewSet builds codecs for every category the catalog knows
func NewSet(cat *catalog.Catalog) (*Set, error) {
	s := &Set{codecs: make(map[witchfire.Category]*Codec, len(witchfire.Categories))}
	for _, category := range witchfire.Categories {
		c, err := New(cat, category)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build %s codec", category)
		}
		s.codecs[category] = c
	}
	return s, nil
}

// For returns the codec of a category
func (s *Set) For(category witchfire.Category) (*Codec, bool) {
	c, ok := s.codecs[category]
	return c, ok
}

// ParseAnyHandle tries every category's handle parser
func (s *Set) ParseAnyHandle(handle string) (witchfire.Target, witchfire.Rarity, bool) {
	for _, category := range witchfire.Categories {
		if code, rarity, ok := s.codecs[category].ParseHandle(handle); ok {
			return witchfire.Target{Category: category, Code: code}, rarity, true
		}
	}
	return witchfire.Target{}, "", false
}
