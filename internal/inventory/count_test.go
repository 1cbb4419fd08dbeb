package inventory_test

import (
	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
	"github.com/KirkDiggler/witchfire-saves/internal/testutils/builders"
)

func (s *EngineTestSuite) TestCountFallsBackThroughEverySource() {
	spells := s.codec(witchfire.CategoryLightSpell)
	fireball := s.target("spell.fireball")
	ember := s.target("spell.ember_swarm")

	containerRare := spells.ContainerHandle(fireball.Code, witchfire.RarityRare)

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithContainer(1, containerRare).
		WithContainer(2, containerRare).
		WithContainer(3, spells.ContainerHandle(ember.Code, witchfire.RarityRare)).
		// same id as a counted container
		WithDetails(builders.AbilityDetails, 1, spells.DetailsHandle(fireball.Code, witchfire.RarityRare)).
		// only known through its details record
		WithDetails(builders.AbilityDetails, 9, spells.DetailsHandle(fireball.Code, witchfire.RarityEpic)).
		WithValue("ModStash", []any{
			map[string]any{"ref": spells.ContainerHandle(fireball.Code, witchfire.RarityLegendary)},
			map[string]any{"ref": containerRare},
		}).
		Build())

	count, err := s.engine.Count(doc, fireball)
	s.Require().NoError(err)
	s.Equal(4, count)

	count, err = s.engine.Count(doc, ember)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *EngineTestSuite) TestCountRelocatedContainers() {
	rings := s.codec(witchfire.CategoryRing)
	band := s.target("ring.cinder_band")

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		PlaceAt(builders.ItemContainers, "Legacy", "Inventory").
		WithContainer(5, rings.ContainerHandle(band.Code, witchfire.RarityMythic)).
		Build())

	count, err := s.engine.Count(doc, band)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *EngineTestSuite) TestCountDoesNotModifyDocument() {
	doc := savedoc.New()

	count, err := s.engine.Count(doc, s.target("weapon.tanager"))
	s.Require().NoError(err)
	s.Zero(count)
	s.Empty(doc.Root())
}

func (s *EngineTestSuite) TestCountAfterRepeatedAdds() {
	doc := savedoc.New()
	for i := 0; i < 3; i++ {
		var err error
		doc, _, err = s.engine.Add(doc, "weapon.bone_chatter")
		s.Require().NoError(err)
	}

	count, err := s.engine.Count(doc, s.target("weapon.bone_chatter"))
	s.Require().NoError(err)
	s.Equal(3, count)

	count, err = s.engine.Count(doc, s.target("weapon.tempest"))
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *EngineTestSuite) TestList() {
	weapons := s.codec(witchfire.CategoryWeapon)

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithContainer(7, "foreign|Thing.Unknown.Rare").
		WithContainer(8, weapons.ContainerHandle(witchfire.WeaponCode(witchfire.FamilyRevolver, witchfire.WeightLight), witchfire.RarityEpic)).
		Build())

	doc, _, err := s.engine.Add(doc, "relic.hollow_mask")
	s.Require().NoError(err)

	entries := s.engine.List(doc)
	s.Require().Len(entries, 2)

	s.Equal(int64(8), entries[0].SlotID)
	s.Equal(witchfire.CategoryWeapon, entries[0].Target.Category)
	s.Equal(witchfire.RarityEpic, entries[0].Rarity)
	s.Equal(catalog.ItemID("weapon.gravedigger"), entries[0].ItemID)
	s.Equal(int64(1), entries[0].Count)

	s.Equal(int64(9), entries[1].SlotID)
	s.Equal(int64(9), entries[1].DetailsID)
	s.Equal(catalog.ItemID("relic.hollow_mask"), entries[1].ItemID)
	s.Equal(witchfire.RarityRare, entries[1].Rarity)
	s.False(entries[1].Stashed)
}
