// Package witchfire holds the editor's domain vocabulary: categories, codes,
// rarities and targets. Nothing here knows about the save file encoding.
package witchfire

import (
	"fmt"
	"strconv"
	"strings"
)

// Code identifies an item within its category.
//
// Element categories use Group for the element token and Variant for the
// two-digit sequence ("FIRE", "01"). Weapons use Group for the family and
// Variant for the weight class ("HandCannon", "Light").
type Code struct {
	Group   string
	Variant string
}

// ElementCode builds the code for an element item
func ElementCode(element Element, seq int) Code {
	return Code{Group: string(element), Variant: fmt.Sprintf("%02d", seq)}
}

// WeaponCode builds the code for a weapon family and weight class
func WeaponCode(family Family, weight Weight) Code {
	return Code{Group: string(family), Variant: string(weight)}
}

// IsZero reports whether the code is unset
func (c Code) IsZero() bool {
	return c.Group == "" && c.Variant == ""
}

// IsElement reports whether the code is in ELEMENT_NN form
func (c Code) IsElement() bool {
	return isSequence(c.Variant)
}

// Element returns the element token of an element code
func (c Code) Element() Element {
	return Element(c.Group)
}

// Sequence returns the numeric sequence of an element code, or 0
func (c Code) Sequence() int {
	n, err := strconv.Atoi(c.Variant)
	if err != nil {
		return 0
	}
	return n
}

// Family returns the weapon family of a weapon code
func (c Code) Family() Family {
	return Family(c.Group)
}

// Weight returns the weight class of a weapon code
func (c Code) Weight() Weight {
	return Weight(c.Variant)
}

// String renders FIRE_01 for element codes and HandCannon.Light for weapons
func (c Code) String() string {
	if c.IsZero() {
		return ""
	}
	if c.IsElement() {
		return c.Group + "_" + c.Variant
	}
	return c.Group + "." + c.Variant
}

// ParseCode parses the String form of a code. It does not check the code
// against any catalog.
func ParseCode(s string) (Code, bool) {
	if group, variant, ok := strings.Cut(s, "."); ok {
		if group == "" || variant == "" || strings.Contains(variant, ".") {
			return Code{}, false
		}
		return Code{Group: group, Variant: variant}, true
	}

	idx := strings.LastIndex(s, "_")
	if idx <= 0 || !isSequence(s[idx+1:]) {
		return Code{}, false
	}
	return Code{Group: s[:idx], Variant: s[idx+1:]}, true
}

// Target names a logical item the editor acts on
type Target struct {
	Category Category
	Code     Code
}

// String renders category:code
func (t Target) String() string {
	return string(t.Category) + ":" + t.Code.String()
}

// IsDemonic reports whether the target is a demonic weapon
func (t Target) IsDemonic() bool {
	return t.Category == CategoryWeapon && t.Code.Weight() == WeightDemonic
}

// ParseTarget parses the category:code form produced by Target.String
func ParseTarget(s string) (Target, bool) {
	cat, rest, ok := strings.Cut(s, ":")
	if !ok {
		return Target{}, false
	}
	category := Category(cat)
	if !category.Valid() {
		return Target{}, false
	}
	code, ok := ParseCode(rest)
	if !ok {
		return Target{}, false
	}
	if (category == CategoryWeapon) == code.IsElement() {
		return Target{}, false
	}
	return Target{Category: category, Code: code}, true
}

// ParseRarity matches a rarity token case-insensitively
func ParseRarity(s string) (Rarity, bool) {
	for _, r := range Rarities {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// ClampTier clamps a UI tier into [MinTier, MaxTier]
func ClampTier(tier int) int {
	if tier < MinTier {
		return MinTier
	}
	if tier > MaxTier {
		return MaxTier
	}
	return tier
}

func isSequence(s string) bool {
	if len(s) != 2 {
		return false
	}
	return s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}
