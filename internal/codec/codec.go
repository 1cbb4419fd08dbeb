// Package codec builds and parses the string encodings a save file uses to
// refer to items: research keys, unlocked keys, inventory and details handles,
// and quest handles.
//
// A single Codec implementation serves every category; the per-category
// differences live in Config and in the catalog's weapon vocabulary. Parse
// functions never fail loudly: anything foreign or malformed reports ok=false,
// since callers feed them every string found in an unknown document.
package codec

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

const (
	researchPrefix = "Research."
	unlockedPrefix = "Type.Item."
	questPrefix    = "Quest."
	tierPrefix     = "Tier"
)

// Codec encodes the codes of one category
type Codec struct {
	cfg     Config
	table   *catalog.Table
	weapons *catalog.WeaponVocabulary
}

// New creates the codec of one category
func New(cat *catalog.Catalog, category witchfire.Category) (*Codec, error) {
	if cat == nil {
		return nil, errors.InvalidArgument("catalog is required")
	}
	cfg, ok := ConfigFor(category)
	if !ok {
		return nil, errors.InvalidArgumentf("no codec for category %q", category)
	}
	table, ok := cat.Table(category)
	if !ok {
		return nil, errors.InvalidArgumentf("no token table for category %q", category)
	}

	return &Codec{
		cfg:     cfg,
		table:   table,
		weapons: cat.Weapons(),
	}, nil
}

// Config returns the codec's category configuration
func (c *Codec) Config() Config {
	return c.cfg
}

// Category returns the codec's category
func (c *Codec) Category() witchfire.Category {
	return c.cfg.Category
}

// Valid reports whether code belongs to the category
func (c *Codec) Valid(code witchfire.Code) bool {
	return c.table.Valid(code)
}

// ResearchKey builds the primary research key
func (c *Codec) ResearchKey(code witchfire.Code) string {
	return researchPrefix + join(c.cfg.ResearchSegment, c.codeSegment(code, catalog.EncodingResearch))
}

// AlternateResearchKey builds the anomalous research key shape
func (c *Codec) AlternateResearchKey(code witchfire.Code) string {
	return researchPrefix + join(c.cfg.AltResearchSegment, c.codeSegment(code, catalog.EncodingResearch))
}

// ResearchKeyCandidates lists every research key a code may have been stored
// under, primary spelling first
func (c *Codec) ResearchKeyCandidates(code witchfire.Code) []string {
	var keys []string
	for _, seg := range c.codeSegmentCandidates(code, catalog.EncodingResearch) {
		keys = append(keys,
			researchPrefix+join(c.cfg.ResearchSegment, seg),
			researchPrefix+join(c.cfg.AltResearchSegment, seg),
		)
	}
	return dedupe(keys)
}

// ParseResearchKey accepts both the primary and the alternate shape
func (c *Codec) ParseResearchKey(key string) (witchfire.Code, bool) {
	rest, ok := cutPrefixFold(key, researchPrefix)
	if !ok {
		return witchfire.Code{}, false
	}

	if seg, ok := cutPrefixFold(rest, segmentPrefix(c.cfg.ResearchSegment)); ok {
		if code, ok := c.parseCodeSegment(seg); ok {
			return code, true
		}
	}
	if seg, ok := cutPrefixFold(rest, segmentPrefix(c.cfg.AltResearchSegment)); ok {
		return c.parseCodeSegment(seg)
	}
	return witchfire.Code{}, false
}

// UnlockedKey builds the progression key the unlocked-items map uses
func (c *Codec) UnlockedKey(code witchfire.Code) string {
	return unlockedPrefix + join(c.cfg.UnlockedSegment, c.codeSegment(code, catalog.EncodingUnlocked))
}

// UnlockedKeyCandidates lists every unlocked key a code may have been stored
// under, canonical spelling first
func (c *Codec) UnlockedKeyCandidates(code witchfire.Code) []string {
	var keys []string
	for _, seg := range c.codeSegmentCandidates(code, catalog.EncodingUnlocked) {
		keys = append(keys, unlockedPrefix+join(c.cfg.UnlockedSegment, seg))
	}
	return dedupe(keys)
}

// ParseUnlockedKey parses an unlocked key; the code segment is matched
// case-insensitively
func (c *Codec) ParseUnlockedKey(key string) (witchfire.Code, bool) {
	rest, ok := cutPrefixFold(key, unlockedPrefix+segmentPrefix(c.cfg.UnlockedSegment))
	if !ok {
		return witchfire.Code{}, false
	}
	return c.parseCodeSegment(rest)
}

// ContainerHandle builds the source handle of an inventory container record
func (c *Codec) ContainerHandle(code witchfire.Code, rarity witchfire.Rarity) string {
	return c.handle(c.cfg.ContainerAsset, code, rarity)
}

// DetailsHandle builds the source handle of an item details record
func (c *Codec) DetailsHandle(code witchfire.Code, rarity witchfire.Rarity) string {
	return c.handle(c.cfg.DetailsAsset, code, rarity)
}

func (c *Codec) handle(asset string, code witchfire.Code, rarity witchfire.Rarity) string {
	return asset + "|" + c.cfg.HandleSegment + "." + c.codeSegment(code, catalog.EncodingHandle) + "." + string(rarity)
}

// ParseContainerHandle extracts code and rarity from a container handle
func (c *Codec) ParseContainerHandle(handle string) (witchfire.Code, witchfire.Rarity, bool) {
	return c.ParseHandle(handle)
}

// ParseDetailsHandle extracts code and rarity from a details handle
func (c *Codec) ParseDetailsHandle(handle string) (witchfire.Code, witchfire.Rarity, bool) {
	return c.ParseHandle(handle)
}

// ParseHandle extracts code and rarity from either handle kind. Only the
// "|<segment>." anchor and the trailing rarity token are relied on; the asset
// path in front has changed between game versions.
func (c *Codec) ParseHandle(handle string) (witchfire.Code, witchfire.Rarity, bool) {
	anchor := "|" + c.cfg.HandleSegment + "."
	idx := strings.LastIndex(handle, anchor)
	if idx < 0 {
		return witchfire.Code{}, "", false
	}
	rest := handle[idx+len(anchor):]

	dot := strings.LastIndex(rest, ".")
	if dot <= 0 {
		return witchfire.Code{}, "", false
	}
	rarity, ok := parseRarityToken(rest[dot+1:])
	if !ok {
		return witchfire.Code{}, "", false
	}

	code, ok := c.parseCodeSegment(rest[:dot])
	if !ok {
		return witchfire.Code{}, "", false
	}
	return code, rarity, true
}

// QuestHandle builds the handle of a mysterium quest tier (1..3)
func (c *Codec) QuestHandle(code witchfire.Code, tier int) string {
	return c.cfg.QuestAsset + "|" + questPrefix + c.cfg.QuestSegment + "." +
		c.codeSegment(code, catalog.EncodingQuest) + "." + tierPrefix + strconv.Itoa(tier)
}

// ParseQuestHandle extracts code and tier from a quest handle
func (c *Codec) ParseQuestHandle(handle string) (witchfire.Code, int, bool) {
	anchor := questPrefix + c.cfg.QuestSegment + "."
	idx := strings.LastIndex(handle, anchor)
	if idx < 0 {
		return witchfire.Code{}, 0, false
	}
	rest := handle[idx+len(anchor):]

	dot := strings.LastIndex(rest, ".")
	if dot <= 0 {
		return witchfire.Code{}, 0, false
	}
	tierTok, ok := cutPrefixFold(rest[dot+1:], tierPrefix)
	if !ok || len(tierTok) != 1 || tierTok[0] < '1' || tierTok[0] > '3' {
		return witchfire.Code{}, 0, false
	}

	code, ok := c.parseCodeSegment(rest[:dot])
	if !ok {
		return witchfire.Code{}, 0, false
	}
	return code, int(tierTok[0] - '0'), true
}

// codeSegment renders a code the way the given encoding writes it
func (c *Codec) codeSegment(code witchfire.Code, enc catalog.Encoding) string {
	if c.cfg.Arity == ArityWeapon {
		family, weight := code.Family(), code.Weight()
		return c.weapons.FamilyToken(family, enc) + "." + c.weapons.WeightToken(family, weight)
	}
	if enc == catalog.EncodingUnlocked {
		return catalog.PrettyElement(code.Element()) + "." + code.Variant
	}
	return code.String()
}

func (c *Codec) codeSegmentCandidates(code witchfire.Code, enc catalog.Encoding) []string {
	if c.cfg.Arity == ArityWeapon {
		family, weight := code.Family(), code.Weight()
		families := append(
			c.weapons.FamilyTokenCandidates(family, enc),
			c.weapons.FamilyTokenCandidates(family, catalog.EncodingResearch)...,
		)
		var segs []string
		for _, f := range dedupe(families) {
			for _, w := range c.weapons.WeightTokenCandidates(family, weight) {
				segs = append(segs, f+"."+w)
			}
		}
		return segs
	}
	if enc == catalog.EncodingUnlocked {
		return dedupe([]string{c.codeSegment(code, enc), string(code.Element()) + "." + code.Variant})
	}
	return []string{code.String()}
}

// parseCodeSegment parses the code portion of any encoding and checks it
// against the category's enumeration
func (c *Codec) parseCodeSegment(seg string) (witchfire.Code, bool) {
	var code witchfire.Code
	var ok bool
	if c.cfg.Arity == ArityWeapon {
		code, ok = c.parseWeaponSegment(seg)
	} else {
		code, ok = parseElementSegment(seg)
	}
	if !ok || !c.table.Valid(code) {
		return witchfire.Code{}, false
	}
	return code, true
}

func (c *Codec) parseWeaponSegment(seg string) (witchfire.Code, bool) {
	famTok, wtTok, ok := strings.Cut(seg, ".")
	if !ok || strings.Contains(wtTok, ".") {
		return witchfire.Code{}, false
	}
	family, ok := c.weapons.ParseFamily(famTok)
	if !ok {
		return witchfire.Code{}, false
	}
	weight, ok := c.weapons.ParseWeight(family, wtTok)
	if !ok {
		return witchfire.Code{}, false
	}
	return witchfire.WeaponCode(family, weight), true
}

// parseElementSegment accepts FIRE_01 and the unlocked-key form Fire.01
func parseElementSegment(seg string) (witchfire.Code, bool) {
	sep := strings.LastIndexAny(seg, "_.")
	if sep <= 0 || len(seg)-sep-1 != 2 {
		return witchfire.Code{}, false
	}
	el, ok := catalog.ParseElement(seg[:sep])
	if !ok {
		return witchfire.Code{}, false
	}
	code := witchfire.Code{Group: string(el), Variant: seg[sep+1:]}
	if !code.IsElement() {
		return witchfire.Code{}, false
	}
	return code, true
}

// parseRarityToken canonicalises known rarities and passes through other
// purely alphabetic tokens so unusual rarities still match for removal
func parseRarityToken(tok string) (witchfire.Rarity, bool) {
	if r, ok := witchfire.ParseRarity(tok); ok {
		return r, true
	}
	if tok == "" {
		return "", false
	}
	for _, ch := range tok {
		if (ch < 'A' || ch > 'Z') && (ch < 'a' || ch > 'z') {
			return "", false
		}
	}
	return witchfire.Rarity(tok), true
}

func join(segment, code string) string {
	if segment == "" {
		return code
	}
	return segment + "." + code
}

func segmentPrefix(segment string) string {
	if segment == "" {
		return ""
	}
	return segment + "."
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
