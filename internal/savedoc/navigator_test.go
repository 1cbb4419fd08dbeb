package savedoc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/witchfire-saves/internal/savedoc"
	"github.com/KirkDiggler/witchfire-saves/internal/testutils/builders"
)

type NavigatorTestSuite struct {
	suite.Suite
}

var allContainers = []string{
	savedoc.ItemContainers,
	savedoc.WeaponDetails,
	savedoc.AbilityDetails,
	savedoc.UnlockedItems,
	savedoc.ResearchedProjects,
	savedoc.Quests,
}

func (s *NavigatorTestSuite) TestLocateCanonicalDocument() {
	doc := savedoc.FromMap(builders.NewSaveBuilder().
		WithContainer(1, "a|Weapon.HandCannon.Light.Common").
		WithResearch("Research.Weapon.HandCannon.Light", 1).
		WithUnlocked("Type.Item.Weapon.HandCannon.Light", 2).
		WithQuest("q").
		Build())

	cs := doc.Locate(allContainers...)
	s.Empty(cs.Created())

	s.Equal(1, cs.Array(savedoc.ItemContainers).Len())
	s.Equal(0, cs.Array(savedoc.WeaponDetails).Len())
	s.Equal(1, cs.Array(savedoc.Quests).Len())

	v, ok := cs.Object(savedoc.UnlockedItems).Int("Type.Item.Weapon.HandCannon.Light")
	s.True(ok)
	s.Equal(int64(2), v)
	s.Equal([]string{"Research.Weapon.HandCannon.Light"}, cs.Object(savedoc.ResearchedProjects).Keys())
}

func (s *NavigatorTestSuite) TestLocateCreatesAtCanonicalPaths() {
	doc := savedoc.New()

	cs := doc.Locate(allContainers...)
	s.ElementsMatch(allContainers, cs.Created())

	root := doc.Root()
	storage := root["PlayerController"].(map[string]any)["ItemStorage"].(map[string]any)
	s.Equal([]any{}, storage[savedoc.ItemContainers])
	s.Equal([]any{}, storage[savedoc.WeaponDetails])
	s.Equal([]any{}, storage[savedoc.AbilityDetails])

	save := root["Save"].(map[string]any)
	subsystems := save["Subsystems"].(map[string]any)
	s.Equal([]any{}, subsystems["Quest"].(map[string]any)[savedoc.Quests])
	s.Equal(map[string]any{}, subsystems["Research"].(map[string]any)[savedoc.ResearchedProjects])

	maps := save["GameInstance"].(map[string]any)["ProgressManager"].(map[string]any)["IntegerMaps"].(map[string]any)
	s.Equal(map[string]any{"map": map[string]any{}}, maps[savedoc.UnlockedItems])

	again := doc.Locate(allContainers...)
	s.Empty(again.Created())
}

func (s *NavigatorTestSuite) TestLocateReturnsReferences() {
	doc := savedoc.FromMap(builders.NewSaveBuilder().
		PlaceAt(builders.Quests, "Archive", "Old").
		WithQuest("first").
		Build())

	cs := doc.Locate(savedoc.Quests, savedoc.UnlockedItems)
	cs.Array(savedoc.Quests).Append(map[string]any{"sourceHandle": "second"})
	cs.Object(savedoc.UnlockedItems).Set("Type.Item.Ring.Fire.01", savedoc.Number(3))

	quests := doc.Root()["Archive"].(map[string]any)["Old"].(map[string]any)[savedoc.Quests].([]any)
	s.Len(quests, 2)

	v, ok := doc.Lookup(savedoc.UnlockedItems).Object(savedoc.UnlockedItems).Int("Type.Item.Ring.Fire.01")
	s.True(ok)
	s.Equal(int64(3), v)

	dropped := cs.Array(savedoc.Quests).Filter(func(item any) bool {
		return item.(map[string]any)["sourceHandle"] != "first"
	})
	s.Equal(1, dropped)
	s.Len(doc.Root()["Archive"].(map[string]any)["Old"].(map[string]any)[savedoc.Quests], 1)
}

func (s *NavigatorTestSuite) TestLocateIgnoresWrongKind() {
	doc := savedoc.FromMap(map[string]any{
		"Broken": map[string]any{
			savedoc.ItemContainers:     "not an array",
			savedoc.ResearchedProjects: []any{"not", "a", "map"},
		},
	})

	cs := doc.Locate(savedoc.ItemContainers, savedoc.ResearchedProjects)
	s.ElementsMatch([]string{savedoc.ItemContainers, savedoc.ResearchedProjects}, cs.Created())

	broken := doc.Root()["Broken"].(map[string]any)
	s.Equal("not an array", broken[savedoc.ItemContainers])
	s.Equal(0, cs.Array(savedoc.ItemContainers).Len())
}

func (s *NavigatorTestSuite) TestLocateFindsInsideArrays() {
	doc := savedoc.FromMap(map[string]any{
		"Slots": []any{
			"noise",
			map[string]any{
				"Storage": map[string]any{
					savedoc.ItemContainers: []any{map[string]any{"slotId": savedoc.Number(4)}},
				},
			},
		},
	})

	cs := doc.Locate(savedoc.ItemContainers)
	s.Empty(cs.Created())
	s.Len(cs.Array(savedoc.ItemContainers).Records(), 1)
}

func (s *NavigatorTestSuite) TestLookupDoesNotCreate() {
	doc := savedoc.New()

	cs := doc.Lookup(allContainers...)
	s.Empty(cs.Created())
	s.Nil(cs.Array(savedoc.ItemContainers))
	s.Nil(cs.Object(savedoc.ResearchedProjects))
	s.Empty(cs.Array(savedoc.ItemContainers).Records())
	s.Empty(cs.Object(savedoc.ResearchedProjects).Keys())
	s.Empty(doc.Root())
}

func (s *NavigatorTestSuite) TestLookupUnlockedWithoutInnerMap() {
	doc := savedoc.FromMap(map[string]any{
		savedoc.UnlockedItems: map[string]any{"other": true},
	})

	s.Nil(doc.Lookup(savedoc.UnlockedItems).Object(savedoc.UnlockedItems))

	obj := doc.Locate(savedoc.UnlockedItems).Object(savedoc.UnlockedItems)
	s.Equal(0, obj.Len())
	s.Contains(doc.Root()[savedoc.UnlockedItems], "map")
}

func (s *NavigatorTestSuite) TestUnknownNamesAreIgnored() {
	doc := savedoc.New()
	cs := doc.Locate("NoSuchContainer")
	s.Empty(cs.Created())
	s.Nil(cs.Array("NoSuchContainer"))
}

func (s *NavigatorTestSuite) TestFindStopsEarly() {
	visits := 0
	root := map[string]any{
		"a": map[string]any{"target": 1},
		"b": map[string]any{"deep": map[string]any{"deeper": "x"}},
	}

	found := savedoc.Find(root, savedoc.Matcher{
		Name: "target",
		Match: func(v savedoc.Visit) bool {
			visits++
			return v.Key == "target"
		},
	})

	s.Require().Contains(found, "target")
	s.Equal([]string{"a", "target"}, found["target"].Path)
	s.Equal(3, visits)
}

func (s *NavigatorTestSuite) TestWalkOrderAndSkip() {
	root := map[string]any{
		"b": []any{"x", "y"},
		"a": map[string]any{"skip": "me"},
	}

	var paths []string
	savedoc.Walk(root, func(v savedoc.Visit) savedoc.Action {
		paths = append(paths, strings.Join(v.Path, "/"))
		if v.Key == "a" {
			return savedoc.SkipChildren
		}
		return savedoc.Continue
	})

	s.Equal([]string{"", "a", "b", "b/[0]", "b/[1]"}, paths)
}

func (s *NavigatorTestSuite) TestStrings() {
	var got []string
	savedoc.Strings(map[string]any{
		"a": "one",
		"b": []any{"two", savedoc.Number(3), map[string]any{"c": "three"}},
	}, func(str string) {
		got = append(got, str)
	})

	s.Equal([]string{"one", "two", "three"}, got)
}

func TestNavigatorTestSuite(t *testing.T) {
	suite.Run(t, new(NavigatorTestSuite))
}
