package witchfire

// Category identifies an item family as the save file groups them
type Category string

// Item categories
const (
	CategoryWeapon     Category = "weapon"
	CategoryLightSpell Category = "light_spell"
	CategoryHeavySpell Category = "heavy_spell"
	CategoryRelic      Category = "relic"
	CategoryFetish     Category = "fetish"
	CategoryRing       Category = "ring"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWeapon,
	CategoryLightSpell,
	CategoryHeavySpell,
	CategoryRelic,
	CategoryFetish,
	CategoryRing,
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Rarity selects the handle variant written for an inventory entry
type Rarity string

// Rarity tokens as they appear in source handles
const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityMythic    Rarity = "Mythic"
)

// Rarities lists every rarity from lowest to highest
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary, RarityMythic}

// Element is the elemental token of a non-weapon item code
type Element string

// Element tokens
const (
	ElementFire    Element = "FIRE"
	ElementFrost   Element = "FROST"
	ElementDecay   Element = "DECAY"
	ElementStagger Element = "STAGGER"
	ElementNone    Element = "NELE"
)

// Elements lists every element token
var Elements = []Element{ElementFire, ElementFrost, ElementDecay, ElementStagger, ElementNone}

// Family is a weapon family
type Family string

// Weapon families
const (
	FamilyAutoRifle        Family = "AutoRifle"
	FamilyBoltActionRifle  Family = "BoltActionRifle"
	FamilyCrossbow         Family = "Crossbow"
	FamilyGrenadeLauncher  Family = "GrenadeLauncher"
	FamilyHandCannon       Family = "HandCannon"
	FamilyLeverActionRifle Family = "LeverActionRifle"
	FamilyRevolver         Family = "Revolver"
	FamilyShotgun          Family = "Shotgun"
	FamilySniperRifle      Family = "SniperRifle"
	FamilyStakeGun         Family = "StakeGun"
	FamilyStunGun          Family = "StunGun"
)

// Families lists every weapon family
var Families = []Family{
	FamilyAutoRifle,
	FamilyBoltActionRifle,
	FamilyCrossbow,
	FamilyGrenadeLauncher,
	FamilyHandCannon,
	FamilyLeverActionRifle,
	FamilyRevolver,
	FamilyShotgun,
	FamilySniperRifle,
	FamilyStakeGun,
	FamilyStunGun,
}

// Weight is a weapon weight class
type Weight string

// Weight classes
const (
	WeightLight   Weight = "Light"
	WeightMedium  Weight = "Medium"
	WeightHeavy   Weight = "Heavy"
	WeightExotic  Weight = "Exotic"
	WeightDemonic Weight = "Demonic"
)

// Weights lists every weight class
var Weights = []Weight{WeightLight, WeightMedium, WeightHeavy, WeightExotic, WeightDemonic}

// Mysterium tier bounds, in UI terms
const (
	MinTier = 0
	MaxTier = 3
)
