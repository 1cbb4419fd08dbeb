// Package builders provides test data builders for creating test fixtures
package builders

import (
	"encoding/json"
	"strconv"
)

// Container names as they appear in a save
const (
	ItemContainers     = "SaveLoadItemDataContainers"
	WeaponDetails      = "SaveLoadWeaponDataDetails"
	AbilityDetails     = "SaveLoadAbilityItemDataDetails"
	UnlockedItems      = "Progression.Category.Unlocked.Items"
	ResearchedProjects = "SaveLoadResearchedProjects"
	Quests             = "SaveLoadQuests"
)

var defaultPlacement = map[string][]string{
	ItemContainers:     {"PlayerController", "ItemStorage"},
	WeaponDetails:      {"PlayerController", "ItemStorage"},
	AbilityDetails:     {"PlayerController", "ItemStorage"},
	UnlockedItems:      {"Save", "GameInstance", "ProgressManager", "IntegerMaps"},
	ResearchedProjects: {"Save", "Subsystems", "Research"},
	Quests:             {"Save", "Subsystems", "Quest"},
}

// SaveBuilder provides a fluent interface for building save documents
type SaveBuilder struct {
	placement map[string][]string
	omit      map[string]bool
	arrays    map[string][]any
	research  map[string]any
	unlocked  map[string]any
	stats     map[string]any
	extra     map[string]any
}

// NewSaveBuilder creates a builder whose containers sit at their usual paths
// and start empty
func NewSaveBuilder() *SaveBuilder {
	placement := make(map[string][]string, len(defaultPlacement))
	for k, v := range defaultPlacement {
		placement[k] = v
	}
	return &SaveBuilder{
		placement: placement,
		omit:      map[string]bool{},
		arrays: map[string][]any{
			ItemContainers: {},
			WeaponDetails:  {},
			AbilityDetails: {},
			Quests:         {},
		},
		research: map[string]any{},
		unlocked: map[string]any{},
		stats:    map[string]any{},
		extra:    map[string]any{},
	}
}

// WithContainer adds an inventory container record
func (b *SaveBuilder) WithContainer(slotID int64, handle string) *SaveBuilder {
	b.arrays[ItemContainers] = append(b.arrays[ItemContainers], map[string]any{
		"slotId":        num(slotID),
		"detailsId":     num(slotID),
		"itemCount":     num(1),
		"bStashed":      false,
		"dateTimeAdded": "2024-01-01T00:00:00Z",
		"sourceHandle":  handle,
	})
	return b
}

// WithDetails adds a details record to the weapon or ability details list
func (b *SaveBuilder) WithDetails(list string, detailsID int64, handle string) *SaveBuilder {
	b.arrays[list] = append(b.arrays[list], map[string]any{
		"detailsId":    num(detailsID),
		"tierQuestId":  num(-1),
		"sourceHandle": handle,
	})
	return b
}

// WithResearch sets a research map entry
func (b *SaveBuilder) WithResearch(key string, value int64) *SaveBuilder {
	b.research[key] = num(value)
	return b
}

// WithUnlocked sets an unlocked-items map entry
func (b *SaveBuilder) WithUnlocked(key string, value int64) *SaveBuilder {
	b.unlocked[key] = num(value)
	return b
}

// WithQuest adds a quest record; an empty handle adds a record without one
func (b *SaveBuilder) WithQuest(handle string) *SaveBuilder {
	rec := map[string]any{"questState": num(1)}
	if handle != "" {
		rec["sourceHandle"] = handle
	}
	b.arrays[Quests] = append(b.arrays[Quests], rec)
	return b
}

// WithStat sets a player stat level, stored as <name>Level
func (b *SaveBuilder) WithStat(name string, level int64) *SaveBuilder {
	b.stats[name+"Level"] = num(level)
	return b
}

// WithValue stores an arbitrary value at a top-level key
func (b *SaveBuilder) WithValue(key string, value any) *SaveBuilder {
	b.extra[key] = value
	return b
}

// PlaceAt moves a container under a different parent path
func (b *SaveBuilder) PlaceAt(name string, path ...string) *SaveBuilder {
	b.placement[name] = path
	return b
}

// Without leaves a container out of the document entirely
func (b *SaveBuilder) Without(names ...string) *SaveBuilder {
	for _, name := range names {
		b.omit[name] = true
	}
	return b
}

// Build returns the document tree
func (b *SaveBuilder) Build() map[string]any {
	root := map[string]any{}
	for k, v := range b.extra {
		root[k] = v
	}

	if len(b.stats) > 0 {
		parent := ensure(root, []string{"Save", "Player", "AbilitySystem"})
		parent["SaveLoadPropertyValues"] = copyMap(b.stats)
	}

	for name, items := range b.arrays {
		if b.omit[name] {
			continue
		}
		parent := ensure(root, b.placement[name])
		parent[name] = append([]any{}, items...)
	}
	if !b.omit[ResearchedProjects] {
		parent := ensure(root, b.placement[ResearchedProjects])
		parent[ResearchedProjects] = copyMap(b.research)
	}
	if !b.omit[UnlockedItems] {
		parent := ensure(root, b.placement[UnlockedItems])
		parent[UnlockedItems] = map[string]any{"map": copyMap(b.unlocked)}
	}
	return root
}

// JSON returns the document serialized
func (b *SaveBuilder) JSON() []byte {
	out, err := json.Marshal(b.Build())
	if err != nil {
		panic(err)
	}
	return out
}

func ensure(root map[string]any, path []string) map[string]any {
	cur := root
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	return cur
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func num(n int64) json.Number {
	return json.Number(strconv.FormatInt(n, 10))
}
