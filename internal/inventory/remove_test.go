package inventory_test

import (
	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
	"github.com/KirkDiggler/witchfire-saves/internal/testutils/builders"
)

func (s *EngineTestSuite) TestAddThenRemoveEveryItem() {
	for _, category := range witchfire.Categories {
		for _, item := range s.catalog.Items(category) {
			s.Run(string(item.ID), func() {
				doc, added, err := s.engine.Add(savedoc.New(), item.ID)
				s.Require().NoError(err)

				doc, err = s.engine.SetTier(doc, added.Target, 2)
				s.Require().NoError(err)

				c := s.codec(category)
				quests := doc.Locate(savedoc.Quests).Array(savedoc.Quests)
				for tier := 1; tier <= 3; tier++ {
					quests.Append(map[string]any{"sourceHandle": c.QuestHandle(added.Target.Code, tier)})
				}

				doc, removed, err := s.engine.Remove(doc, added.Target)
				s.Require().NoError(err)
				s.Equal(3, removed.Quests)

				s.Empty(s.records(doc, savedoc.ItemContainers))
				s.Empty(s.records(doc, savedoc.WeaponDetails))
				s.Empty(s.records(doc, savedoc.AbilityDetails))
				s.Empty(s.records(doc, savedoc.Quests))
				s.Empty(s.keys(doc, savedoc.ResearchedProjects))
				s.Empty(s.keys(doc, savedoc.UnlockedItems))

				count, err := s.engine.Count(doc, added.Target)
				s.Require().NoError(err)
				s.Zero(count)
			})
		}
	}
}

func (s *EngineTestSuite) TestRemoveProbesEveryWeaponSpelling() {
	weapons := s.codec(witchfire.CategoryWeapon)
	arbalest := s.target("weapon.arbalest")
	hunting := s.target("weapon.hunting_crossbow")

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithContainer(1, weapons.ContainerHandle(arbalest.Code, witchfire.RarityEpic)).
		WithContainer(2, weapons.ContainerHandle(hunting.Code, witchfire.RarityCommon)).
		WithContainer(3, "/Old/Path/DT_Containers.DT_Containers|Weapon.Crossbow.Medium.Mythic").
		WithDetails(builders.WeaponDetails, 1, weapons.DetailsHandle(arbalest.Code, witchfire.RarityEpic)).
		WithDetails(builders.WeaponDetails, 2, weapons.DetailsHandle(hunting.Code, witchfire.RarityCommon)).
		WithResearch("Research.Weapon.Crossbow.Heavy", 1).
		WithResearch("Research.Crossbow.Heavy", 1).
		WithResearch("Research.Crossbow.Medium", 1).
		WithResearch("research.weapon.crossbow.medium", 1).
		WithResearch("Research.Weapon.Crossbow.Light", 1).
		WithUnlocked("Type.Item.Weapon.Crossbow.Heavy", 3).
		WithUnlocked("Type.Item.Weapon.Crossbow.Medium", 2).
		WithUnlocked("Type.Item.Weapon.Crossbow.Light", 1).
		WithQuest("/Game/Quests/DT_ItemQuests.DT_ItemQuests|Quest.Weapon.Crossbow.Heavy.Tier2").
		WithQuest("/Game/Quests/DT_ItemQuests.DT_ItemQuests|Quest.Weapon.Crossbow.Light.Tier1").
		WithQuest("").
		Build())

	out, removed, err := s.engine.Remove(doc, arbalest)
	s.Require().NoError(err)

	s.Equal(2, removed.Containers)
	s.Equal(1, removed.Details)
	s.Equal(4, removed.ResearchKeys)
	s.Equal(2, removed.UnlockedKeys)
	s.Equal(1, removed.Quests)
	s.Equal(10, removed.Total())

	containers := s.records(out, savedoc.ItemContainers)
	s.Require().Len(containers, 1)
	s.Equal(int64(2), s.num(containers[0]["slotId"]))
	s.Equal(map[string]int64{"Research.Weapon.Crossbow.Light": 1}, s.keys(out, savedoc.ResearchedProjects))
	s.Equal(map[string]int64{"Type.Item.Weapon.Crossbow.Light": 1}, s.keys(out, savedoc.UnlockedItems))
	s.Len(s.records(out, savedoc.Quests), 2)

	s.Len(s.records(doc, savedoc.ItemContainers), 3, "input document must not change")
}

func (s *EngineTestSuite) TestRemoveGrenadeLauncherBothWeightTokens() {
	mortar := s.target("weapon.mortar")

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithResearch("Research.Weapon.GrenadeLauncher.Medium", 1).
		WithResearch("Research.Weapon.GrenadeLauncher.Heavy", 1).
		WithResearch("Research.GrenadeLauncher.Heavy", 1).
		WithUnlocked("Type.Item.Weapon.GrenadeLauncher.Medium", 1).
		WithUnlocked("Type.Item.Weapon.GrenadeLauncher.Heavy", 1).
		Build())

	out, removed, err := s.engine.Remove(doc, mortar)
	s.Require().NoError(err)

	s.Equal(3, removed.ResearchKeys)
	s.Equal(2, removed.UnlockedKeys)
	s.Empty(s.keys(out, savedoc.ResearchedProjects))
	s.Empty(s.keys(out, savedoc.UnlockedItems))
}

func (s *EngineTestSuite) TestRemoveStunGunResearchSpellings() {
	galvanizer := s.target("weapon.galvanizer")

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithResearch("Research.Weapon.Stungun.Medium", 1).
		WithResearch("Research.Stungun.Medium", 1).
		WithResearch("Research.Weapon.StunGun.Light", 1).
		WithUnlocked("Type.Item.Weapon.StunGun.Medium", 2).
		WithUnlocked("Type.Item.Weapon.StunGun.Light", 2).
		Build())

	out, _, err := s.engine.Remove(doc, galvanizer)
	s.Require().NoError(err)

	s.Empty(s.keys(out, savedoc.ResearchedProjects))
	s.Empty(s.keys(out, savedoc.UnlockedItems))
}

func (s *EngineTestSuite) TestRemoveLeavesOtherCategoriesAlone() {
	doc := savedoc.New()
	for _, id := range []catalog.ItemID{"spell.fireball", "spell.hellfire", "relic.ashen_heart", "fetish.charred_doll", "ring.cinder_band"} {
		var err error
		doc, _, err = s.engine.Add(doc, id)
		s.Require().NoError(err)
	}

	out, removed, err := s.engine.Remove(doc, s.target("spell.fireball"))
	s.Require().NoError(err)

	s.Equal(1, removed.Containers)
	s.Len(s.records(out, savedoc.ItemContainers), 4)
	s.Len(s.records(out, savedoc.AbilityDetails), 4)
	s.Len(s.keys(out, savedoc.ResearchedProjects), 4)
	s.Len(s.keys(out, savedoc.UnlockedItems), 4)
}

func (s *EngineTestSuite) TestRemoveDoesNotCreateContainers() {
	out, removed, err := s.engine.Remove(savedoc.New(), s.target("ring.plain_iron"))
	s.Require().NoError(err)

	s.Zero(removed.Total())
	s.Empty(out.Root())
}
