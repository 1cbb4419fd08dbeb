package inventory

import (
	"github.com/KirkDiggler/witchfire-saves/internal/codec"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// SetTier stores a mysterium tier for target. The tier is clamped to
// [0,3] and written as tier+1 under the canonical unlocked key; other
// spellings of the same key are dropped. Demonic weapons have no tier and
// come back unchanged.
func (e *Engine) SetTier(doc *savedoc.Document, target witchfire.Target, tier int) (*savedoc.Document, error) {
	c, err := e.codecFor(target)
	if err != nil {
		return nil, err
	}

	out := doc.Clone()
	if target.IsDemonic() {
		return out, nil
	}

	unlocked := out.Locate(savedoc.UnlockedItems).Object(savedoc.UnlockedItems)
	key := c.UnlockedKey(target.Code)
	deleteKeys(unlocked, c.UnlockedKeyCandidates(target.Code), target.Code, c.ParseUnlockedKey, key)
	unlocked.Set(key, savedoc.Number(int64(storedTier(tier))))

	return out, nil
}

// Tier reads the mysterium tier of target. Missing entries and demonic
// weapons read as 0.
func (e *Engine) Tier(doc *savedoc.Document, target witchfire.Target) (int, error) {
	c, err := e.codecFor(target)
	if err != nil {
		return 0, err
	}
	if target.IsDemonic() {
		return witchfire.MinTier, nil
	}

	unlocked := doc.Lookup(savedoc.UnlockedItems).Object(savedoc.UnlockedItems)
	stored, ok := storedUnlock(c, unlocked, target.Code)
	if !ok {
		return witchfire.MinTier, nil
	}
	return witchfire.ClampTier(int(stored) - 1), nil
}

// SetResearched marks target researched under its primary key, deleting the
// other spellings, or deletes every research key that names it
func (e *Engine) SetResearched(doc *savedoc.Document, target witchfire.Target, researched bool) (*savedoc.Document, error) {
	c, err := e.codecFor(target)
	if err != nil {
		return nil, err
	}

	out := doc.Clone()
	if researched {
		research := out.Locate(savedoc.ResearchedProjects).Object(savedoc.ResearchedProjects)
		markResearched(c, research, target.Code)
		return out, nil
	}

	research := out.Lookup(savedoc.ResearchedProjects).Object(savedoc.ResearchedProjects)
	deleteKeys(research, c.ResearchKeyCandidates(target.Code), target.Code, c.ParseResearchKey, "")
	return out, nil
}

// Researched reports whether any research key for target holds 1
func (e *Engine) Researched(doc *savedoc.Document, target witchfire.Target) (bool, error) {
	c, err := e.codecFor(target)
	if err != nil {
		return false, err
	}

	research := doc.Lookup(savedoc.ResearchedProjects).Object(savedoc.ResearchedProjects)
	for _, key := range research.Keys() {
		if code, ok := c.ParseResearchKey(key); !ok || code != target.Code {
			continue
		}
		if v, ok := research.Int(key); ok && v == researchedValue {
			return true, nil
		}
	}
	return false, nil
}

func markResearched(c *codec.Codec, research *savedoc.Object, code witchfire.Code) {
	primary := c.ResearchKey(code)
	deleteKeys(research, c.ResearchKeyCandidates(code), code, c.ParseResearchKey, primary)
	research.Set(primary, savedoc.Number(researchedValue))
}

// storedUnlock reads the unlocked value of code, preferring the canonical
// key over any other spelling
func storedUnlock(c *codec.Codec, unlocked *savedoc.Object, code witchfire.Code) (int64, bool) {
	if v, ok := unlocked.Int(c.UnlockedKey(code)); ok {
		return v, true
	}
	for _, key := range unlocked.Keys() {
		if parsed, ok := c.ParseUnlockedKey(key); ok && parsed == code {
			if v, ok := unlocked.Int(key); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// highestUnlock returns the largest value stored under any spelling of the
// unlocked key for code
func highestUnlock(c *codec.Codec, unlocked *savedoc.Object, code witchfire.Code) (int64, bool) {
	var (
		highest int64
		found   bool
	)
	for _, key := range unlocked.Keys() {
		parsed, ok := c.ParseUnlockedKey(key)
		if !ok || parsed != code {
			continue
		}
		if v, ok := unlocked.Int(key); ok && (!found || v > highest) {
			highest, found = v, true
		}
	}
	return highest, found
}
