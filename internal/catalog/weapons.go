package catalog

import (
	"slices"
	"strings"

	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
)

// Encoding names one of the save file's string encodings. Some weapon tokens
// differ between encodings.
type Encoding int

// Encodings
const (
	EncodingResearch Encoding = iota
	EncodingUnlocked
	EncodingHandle
	EncodingQuest
)

// WeaponVocabulary maps weapon families and weight classes to the tokens the
// save file actually uses. Observed saves contain naming drift that must not
// leak into the domain model, so every irregularity is listed here.
type WeaponVocabulary struct {
	legal        map[witchfire.Family][]witchfire.Weight
	familyTokens map[witchfire.Family]map[Encoding]string
	weightTokens map[witchfire.Code]string
	extraTokens  map[witchfire.Code][]string
}

// DefaultWeaponVocabulary returns the vocabulary observed in shipped saves
func DefaultWeaponVocabulary() *WeaponVocabulary {
	light, medium, heavy := witchfire.WeightLight, witchfire.WeightMedium, witchfire.WeightHeavy
	exotic, demonic := witchfire.WeightExotic, witchfire.WeightDemonic

	return &WeaponVocabulary{
		legal: map[witchfire.Family][]witchfire.Weight{
			witchfire.FamilyAutoRifle:        {light, medium, heavy, exotic},
			witchfire.FamilyBoltActionRifle:  {light, heavy},
			witchfire.FamilyCrossbow:         {light, heavy},
			witchfire.FamilyGrenadeLauncher:  {heavy},
			witchfire.FamilyHandCannon:       {light, medium, heavy, demonic},
			witchfire.FamilyLeverActionRifle: {light, medium},
			witchfire.FamilyRevolver:         {light, medium, exotic},
			witchfire.FamilyShotgun:          {light, heavy, demonic},
			witchfire.FamilySniperRifle:      {heavy, exotic},
			witchfire.FamilyStakeGun:         {light, heavy},
			witchfire.FamilyStunGun:          {light},
		},
		familyTokens: map[witchfire.Family]map[Encoding]string{
			witchfire.FamilyStunGun: {EncodingResearch: "Stungun"},
		},
		weightTokens: map[witchfire.Code]string{
			witchfire.WeaponCode(witchfire.FamilyStunGun, light):         "Medium",
			witchfire.WeaponCode(witchfire.FamilyStakeGun, light):        "Medium",
			witchfire.WeaponCode(witchfire.FamilyAutoRifle, exotic):      "Bone",
			witchfire.WeaponCode(witchfire.FamilyGrenadeLauncher, heavy): "Medium",
		},
		// Tokens never written but seen in older saves; probed on parse and removal.
		extraTokens: map[witchfire.Code][]string{
			witchfire.WeaponCode(witchfire.FamilyCrossbow, heavy): {"Medium"},
		},
	}
}

// Legal reports whether the family exists in the given weight class
func (v *WeaponVocabulary) Legal(family witchfire.Family, weight witchfire.Weight) bool {
	return slices.Contains(v.legal[family], weight)
}

// Weights returns the legal weight classes of a family, lightest first
func (v *WeaponVocabulary) Weights(family witchfire.Family) []witchfire.Weight {
	return slices.Clone(v.legal[family])
}

// Codes enumerates every legal family/weight combination
func (v *WeaponVocabulary) Codes() []witchfire.Code {
	var codes []witchfire.Code
	for _, family := range witchfire.Families {
		for _, weight := range v.Weights(family) {
			codes = append(codes, witchfire.WeaponCode(family, weight))
		}
	}
	return codes
}

// FamilyToken returns the token written for a family in the given encoding
func (v *WeaponVocabulary) FamilyToken(family witchfire.Family, enc Encoding) string {
	if tok, ok := v.familyTokens[family][enc]; ok {
		return tok
	}
	return string(family)
}

// WeightToken returns the token written for a weight class of a family
func (v *WeaponVocabulary) WeightToken(family witchfire.Family, weight witchfire.Weight) string {
	if tok, ok := v.weightTokens[witchfire.WeaponCode(family, weight)]; ok {
		return tok
	}
	return string(weight)
}

// FamilyTokenCandidates returns every token a family may appear under in the
// given encoding, the written token first
func (v *WeaponVocabulary) FamilyTokenCandidates(family witchfire.Family, enc Encoding) []string {
	return dedupe([]string{v.FamilyToken(family, enc), string(family)})
}

// WeightTokenCandidates returns every token a weight class of a family may
// appear under, the written token first
func (v *WeaponVocabulary) WeightTokenCandidates(family witchfire.Family, weight witchfire.Weight) []string {
	code := witchfire.WeaponCode(family, weight)
	tokens := []string{v.WeightToken(family, weight), string(weight)}
	tokens = append(tokens, v.extraTokens[code]...)
	return dedupe(tokens)
}

// ParseFamily resolves a family token case-insensitively. Encoding-specific
// spellings are accepted in every encoding.
func (v *WeaponVocabulary) ParseFamily(token string) (witchfire.Family, bool) {
	for _, family := range witchfire.Families {
		if strings.EqualFold(token, string(family)) {
			return family, true
		}
		for _, tok := range v.familyTokens[family] {
			if strings.EqualFold(token, tok) {
				return family, true
			}
		}
	}
	return "", false
}

// ParseWeight resolves a weight token for a family. Written tokens win over
// canonical names so that StunGun "Medium" reads back as Light.
func (v *WeaponVocabulary) ParseWeight(family witchfire.Family, token string) (witchfire.Weight, bool) {
	weights := v.legal[family]

	for _, w := range weights {
		if strings.EqualFold(token, v.WeightToken(family, w)) {
			return w, true
		}
	}
	for _, w := range weights {
		for _, tok := range v.extraTokens[witchfire.WeaponCode(family, w)] {
			if strings.EqualFold(token, tok) {
				return w, true
			}
		}
	}
	for _, w := range weights {
		if strings.EqualFold(token, string(w)) {
			return w, true
		}
	}
	return "", false
}

func dedupe(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
