package codec

import (
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
)

// Arity distinguishes element codes (FIRE_01) from weapon codes (family + weight)
type Arity int

// Code arities
const (
	ArityElement Arity = iota
	ArityWeapon
)

// Config describes how one category is spelled in the save file
type Config struct {
	Category witchfire.Category
	Arity    Arity

	// ResearchSegment sits between "Research." and the code in primary keys.
	ResearchSegment string
	// AltResearchSegment is the anomalous spelling some save versions wrote.
	// Empty means "Research.<code>".
	AltResearchSegment string
	UnlockedSegment    string
	HandleSegment      string
	QuestSegment       string

	ContainerAsset string
	DetailsAsset   string
	QuestAsset     string

	DefaultRarity witchfire.Rarity

	// DetailsList names the savedoc container holding details records
	DetailsList string
}

const (
	containerAsset = "/Game/Blueprints/Items/Storage/DT_ItemDataContainers.DT_ItemDataContainers"
	questAsset     = "/Game/Blueprints/Quests/DT_ItemQuests.DT_ItemQuests"
)

var configs = map[witchfire.Category]Config{
	witchfire.CategoryWeapon: {
		Category:           witchfire.CategoryWeapon,
		Arity:              ArityWeapon,
		ResearchSegment:    "Weapon",
		AltResearchSegment: "",
		UnlockedSegment:    "Weapon",
		HandleSegment:      "Weapon",
		QuestSegment:       "Weapon",
		ContainerAsset:     containerAsset,
		DetailsAsset:       "/Game/Blueprints/Items/Weapons/DT_WeaponDataDetails.DT_WeaponDataDetails",
		QuestAsset:         questAsset,
		DefaultRarity:      witchfire.RarityCommon,
		DetailsList:        savedoc.WeaponDetails,
	},
	witchfire.CategoryLightSpell: {
		Category:           witchfire.CategoryLightSpell,
		Arity:              ArityElement,
		ResearchSegment:    "Ability.Spell.Light",
		AltResearchSegment: "Ability.LightSpell",
		UnlockedSegment:    "Ability.Spell.Light",
		HandleSegment:      "Ability.Spell.Light",
		QuestSegment:       "Spell.Light",
		ContainerAsset:     containerAsset,
		DetailsAsset:       "/Game/Blueprints/Abilities/Spells/DT_SpellDataDetails.DT_SpellDataDetails",
		QuestAsset:         questAsset,
		DefaultRarity:      witchfire.RarityRare,
		DetailsList:        savedoc.AbilityDetails,
	},
	witchfire.CategoryHeavySpell: {
		Category:           witchfire.CategoryHeavySpell,
		Arity:              ArityElement,
		ResearchSegment:    "Ability.Spell.Heavy",
		AltResearchSegment: "Ability.HeavySpell",
		UnlockedSegment:    "Ability.Spell.Heavy",
		HandleSegment:      "Ability.Spell.Heavy",
		QuestSegment:       "Spell.Heavy",
		ContainerAsset:     containerAsset,
		DetailsAsset:       "/Game/Blueprints/Abilities/Spells/DT_SpellDataDetails.DT_SpellDataDetails",
		QuestAsset:         questAsset,
		DefaultRarity:      witchfire.RarityRare,
		DetailsList:        savedoc.AbilityDetails,
	},
	witchfire.CategoryRelic: {
		Category:           witchfire.CategoryRelic,
		Arity:              ArityElement,
		ResearchSegment:    "Relic",
		AltResearchSegment: "Item.Relic",
		UnlockedSegment:    "Relic",
		HandleSegment:      "Relic",
		QuestSegment:       "Relic",
		ContainerAsset:     containerAsset,
		DetailsAsset:       "/Game/Blueprints/Items/Relics/DT_RelicDataDetails.DT_RelicDataDetails",
		QuestAsset:         questAsset,
		DefaultRarity:      witchfire.RarityRare,
		DetailsList:        savedoc.AbilityDetails,
	},
	witchfire.CategoryFetish: {
		Category:           witchfire.CategoryFetish,
		Arity:              ArityElement,
		ResearchSegment:    "Fetish",
		AltResearchSegment: "Item.Fetish",
		UnlockedSegment:    "Fetish",
		HandleSegment:      "Fetish",
		QuestSegment:       "Fetish",
		ContainerAsset:     containerAsset,
		DetailsAsset:       "/Game/Blueprints/Items/Fetishes/DT_FetishDataDetails.DT_FetishDataDetails",
		QuestAsset:         questAsset,
		DefaultRarity:      witchfire.RarityRare,
		DetailsList:        savedoc.AbilityDetails,
	},
	witchfire.CategoryRing: {
		Category:           witchfire.CategoryRing,
		Arity:              ArityElement,
		ResearchSegment:    "Ring",
		AltResearchSegment: "Item.Ring",
		UnlockedSegment:    "Ring",
		HandleSegment:      "Ring",
		QuestSegment:       "Ring",
		ContainerAsset:     containerAsset,
		DetailsAsset:       "/Game/Blueprints/Items/Rings/DT_RingDataDetails.DT_RingDataDetails",
		QuestAsset:         questAsset,
		DefaultRarity:      witchfire.RarityRare,
		DetailsList:        savedoc.AbilityDetails,
	},
}

// ConfigFor returns the encoding configuration of a category
func ConfigFor(category witchfire.Category) (Config, bool) {
	cfg, ok := configs[category]
	return cfg, ok
}
