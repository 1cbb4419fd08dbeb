package inventory_test

import (
	"fmt"

	"github.com/KirkDiggler/witchfire-saves/internal/entities/witchfire"
	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
	"github.com/KirkDiggler/witchfire-saves/internal/testutils/builders"
)

func (s *EngineTestSuite) TestSetTierClamps() {
	ring := s.target("ring.cinder_band")
	key := s.codec(witchfire.CategoryRing).UnlockedKey(ring.Code)
	s.Equal("Type.Item.Ring.Fire.01", key)

	testCases := []struct {
		tier   int
		stored int64
		reads  int
	}{
		{tier: -5, stored: 1, reads: 0},
		{tier: 0, stored: 1, reads: 0},
		{tier: 3, stored: 4, reads: 3},
		{tier: 4, stored: 4, reads: 3},
		{tier: 100, stored: 4, reads: 3},
	}

	for _, tc := range testCases {
		s.Run(fmt.Sprintf("tier %d", tc.tier), func() {
			doc, err := s.engine.SetTier(savedoc.New(), ring, tc.tier)
			s.Require().NoError(err)
			s.Equal(map[string]int64{key: tc.stored}, s.keys(doc, savedoc.UnlockedItems))

			tier, err := s.engine.Tier(doc, ring)
			s.Require().NoError(err)
			s.Equal(tc.reads, tier)
		})
	}
}

func (s *EngineTestSuite) TestSetTierLeavesInventoryAndResearch() {
	doc, _, err := s.engine.Add(savedoc.New(), "fetish.moth_cage")
	s.Require().NoError(err)

	out, err := s.engine.SetTier(doc, s.target("fetish.moth_cage"), 2)
	s.Require().NoError(err)

	s.Equal(s.records(doc, savedoc.ItemContainers), s.records(out, savedoc.ItemContainers))
	s.Equal(s.keys(doc, savedoc.ResearchedProjects), s.keys(out, savedoc.ResearchedProjects))
	s.Equal(map[string]int64{"Type.Item.Fetish.Decay.01": 3}, s.keys(out, savedoc.UnlockedItems))
	s.Equal(map[string]int64{"Type.Item.Fetish.Decay.01": 1}, s.keys(doc, savedoc.UnlockedItems))
}

func (s *EngineTestSuite) TestSetTierOnDemonicWeaponIsNoop() {
	hellmouth := s.target("weapon.hellmouth")
	s.True(hellmouth.IsDemonic())

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithUnlocked("Type.Item.Weapon.HandCannon.Demonic", 1).
		WithUnlocked("Type.Item.Weapon.HandCannon.Light", 2).
		Build())
	before := s.keys(doc, savedoc.UnlockedItems)

	for _, tier := range []int{0, 2, 3, 100} {
		out, err := s.engine.SetTier(doc, hellmouth, tier)
		s.Require().NoError(err)
		s.Equal(before, s.keys(out, savedoc.UnlockedItems))
	}

	tier, err := s.engine.Tier(doc, hellmouth)
	s.Require().NoError(err)
	s.Zero(tier)
}

func (s *EngineTestSuite) TestSetTierReplacesOtherSpellings() {
	relic := s.target("relic.rime_crown")

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithUnlocked("Type.Item.Relic.FROST.01", 2).
		WithUnlocked("Type.Item.Relic.Fire.01", 3).
		Build())

	tier, err := s.engine.Tier(doc, relic)
	s.Require().NoError(err)
	s.Equal(1, tier)

	out, err := s.engine.SetTier(doc, relic, 3)
	s.Require().NoError(err)
	s.Equal(map[string]int64{
		"Type.Item.Relic.Frost.01": 4,
		"Type.Item.Relic.Fire.01":  3,
	}, s.keys(out, savedoc.UnlockedItems))
}

func (s *EngineTestSuite) TestTierMissingReadsZero() {
	tier, err := s.engine.Tier(savedoc.New(), s.target("spell.glacier"))
	s.Require().NoError(err)
	s.Zero(tier)
}

func (s *EngineTestSuite) TestSetResearched() {
	nemesis := s.target("weapon.nemesis")

	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithResearch("Research.LeverActionRifle.Light", 1).
		Build())

	researched, err := s.engine.Researched(doc, nemesis)
	s.Require().NoError(err)
	s.True(researched)

	out, err := s.engine.SetResearched(doc, nemesis, true)
	s.Require().NoError(err)
	s.Equal(map[string]int64{"Research.Weapon.LeverActionRifle.Light": 1}, s.keys(out, savedoc.ResearchedProjects))

	out, err = s.engine.SetResearched(out, nemesis, false)
	s.Require().NoError(err)
	s.Empty(s.keys(out, savedoc.ResearchedProjects))

	researched, err = s.engine.Researched(out, nemesis)
	s.Require().NoError(err)
	s.False(researched)
}

func (s *EngineTestSuite) TestResearchedIgnoresZeroFlags() {
	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithResearch("Research.Ring.NELE_01", 0).
		Build())

	researched, err := s.engine.Researched(doc, s.target("ring.plain_iron"))
	s.Require().NoError(err)
	s.False(researched)
}
