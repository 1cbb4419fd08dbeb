package inventory

import (
	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/codec"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// Count returns how many copies of target the document holds.
//
// Container records are authoritative and each one counts. Details records
// count only when no counted container points at their id and their handle
// has not been seen. Finally every remaining string in the document that
// parses as a handle for target counts once, which picks up records that
// other tools stored outside the known lists.
func (e *Engine) Count(doc *savedoc.Document, target witchfire.Target) (int, error) {
	c, err := e.codecFor(target)
	if err != nil {
		return 0, err
	}

	cs := doc.Lookup(savedoc.ItemContainers, savedoc.WeaponDetails, savedoc.AbilityDetails)
	seenHandles := make(map[string]bool)
	seenIDs := make(map[int64]bool)
	count := 0

	for _, rec := range cs.Array(savedoc.ItemContainers).Records() {
		handle, ok := handleFor(c, target.Code, rec)
		if !ok {
			continue
		}
		count++
		seenHandles[handle] = true
		if id, ok := savedoc.Int(rec[fieldDetailsID]); ok {
			seenIDs[id] = true
		}
	}

	for _, name := range detailsLists {
		for _, rec := range cs.Array(name).Records() {
			handle, ok := handleFor(c, target.Code, rec)
			if !ok {
				continue
			}
			id, hasID := savedoc.Int(rec[fieldDetailsID])
			duplicate := seenHandles[handle] || (hasID && seenIDs[id])
			seenHandles[handle] = true
			if duplicate {
				continue
			}
			count++
			if hasID {
				seenIDs[id] = true
			}
		}
	}

	savedoc.Strings(doc.Root(), func(s string) {
		if seenHandles[s] {
			return
		}
		if code, _, ok := c.ParseHandle(s); ok && code == target.Code {
			seenHandles[s] = true
			count++
		}
	})

	return count, nil
}

func handleFor(c *codec.Codec, code witchfire.Code, rec map[string]any) (string, bool) {
	handle, ok := savedoc.String(rec, fieldSourceHandle)
	if !ok {
		return "", false
	}
	parsed, _, ok := c.ParseHandle(handle)
	if !ok || parsed != code {
		return "", false
	}
	return handle, true
}

// Entry is one inventory container record the codec could read
type Entry struct {
	SlotID    int64
	DetailsID int64
	Count     int64
	Stashed   bool
	Target    witchfire.Target
	Rarity    witchfire.Rarity
	// ItemID is empty when the catalog has no item for the code
	ItemID catalog.ItemID
}

// List reads every container record whose handle any category recognizes,
// in document order
func (e *Engine) List(doc *savedoc.Document) []Entry {
	containers := doc.Lookup(savedoc.ItemContainers).Array(savedoc.ItemContainers)

	var entries []Entry
	for _, rec := range containers.Records() {
		handle, ok := savedoc.String(rec, fieldSourceHandle)
		if !ok {
			continue
		}
		target, rarity, ok := e.codecs.ParseAnyHandle(handle)
		if !ok {
			continue
		}

		entry := Entry{Target: target, Rarity: rarity}
		entry.SlotID, _ = savedoc.Int(rec[fieldSlotID])
		entry.DetailsID, _ = savedoc.Int(rec[fieldDetailsID])
		entry.Count, _ = savedoc.Int(rec[fieldItemCount])
		entry.Stashed, _ = rec[fieldStashed].(bool)
		if item, ok := e.catalog.ItemForTarget(target); ok {
			entry.ItemID = item.ID
		}
		entries = append(entries, entry)
	}
	return entries
}
