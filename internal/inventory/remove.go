package inventory

import (
	"github.com/KirkDiggler/witchfire-saves/internal/codec"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// Removed counts what a Remove call deleted
type Removed struct {
	Containers   int
	Details      int
	ResearchKeys int
	UnlockedKeys int
	Quests       int
}

// Total returns the number of deleted entries
func (r Removed) Total() int {
	return r.Containers + r.Details + r.ResearchKeys + r.UnlockedKeys + r.Quests
}

// Remove deletes every trace of target: inventory and details records, every
// research and unlocked key spelling that names it, and its quest records.
// Containers the document lacks are not created.
func (e *Engine) Remove(doc *savedoc.Document, target witchfire.Target) (*savedoc.Document, Removed, error) {
	var removed Removed

	c, err := e.codecFor(target)
	if err != nil {
		return nil, removed, err
	}

	out := doc.Clone()
	cs := out.Lookup(
		savedoc.ItemContainers,
		savedoc.WeaponDetails,
		savedoc.AbilityDetails,
		savedoc.ResearchedProjects,
		savedoc.UnlockedItems,
		savedoc.Quests,
	)

	keep := func(item any) bool { return !matchesHandle(c, target.Code, item) }
	if arr := cs.Array(savedoc.ItemContainers); arr != nil {
		removed.Containers = arr.Filter(keep)
	}
	for _, name := range detailsLists {
		if arr := cs.Array(name); arr != nil {
			removed.Details += arr.Filter(keep)
		}
	}

	removed.ResearchKeys = deleteKeys(
		cs.Object(savedoc.ResearchedProjects),
		c.ResearchKeyCandidates(target.Code),
		target.Code,
		c.ParseResearchKey,
		"",
	)
	removed.UnlockedKeys = deleteKeys(
		cs.Object(savedoc.UnlockedItems),
		c.UnlockedKeyCandidates(target.Code),
		target.Code,
		c.ParseUnlockedKey,
		"",
	)

	if arr := cs.Array(savedoc.Quests); arr != nil {
		removed.Quests = arr.Filter(func(item any) bool {
			return !matchesQuest(c, target.Code, item)
		})
	}

	return out, removed, nil
}

// deleteKeys drops the listed keys and then any other key parse maps to
// code. keep, when set, survives both passes.
func deleteKeys(
	obj *savedoc.Object,
	candidates []string,
	code witchfire.Code,
	parse func(string) (witchfire.Code, bool),
	keep string,
) int {
	if obj == nil {
		return 0
	}

	n := 0
	for _, key := range candidates {
		if key != keep && obj.Delete(key) {
			n++
		}
	}
	for _, key := range obj.Keys() {
		if key == keep {
			continue
		}
		if parsed, ok := parse(key); ok && parsed == code {
			obj.Delete(key)
			n++
		}
	}
	return n
}

func matchesQuest(c *codec.Codec, code witchfire.Code, item any) bool {
	rec, ok := item.(map[string]any)
	if !ok {
		return false
	}
	handle, ok := savedoc.String(rec, fieldSourceHandle)
	if !ok {
		return false
	}
	parsed, _, ok := c.ParseQuestHandle(handle)
	return ok && parsed == code
}
