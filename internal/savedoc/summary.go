package savedoc

import (
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

const (
	statsPath       = "Save.Player.AbilitySystem.SaveLoadPropertyValues"
	statLevelSuffix = "Level"
)

// gjson paths of the canonical container locations; dots inside a key are
// escaped
var summaryPaths = map[string]string{
	ItemContainers:     "PlayerController.ItemStorage." + ItemContainers,
	WeaponDetails:      "PlayerController.ItemStorage." + WeaponDetails,
	AbilityDetails:     "PlayerController.ItemStorage." + AbilityDetails,
	UnlockedItems:      `Save.GameInstance.ProgressManager.IntegerMaps.Progression\.Category\.Unlocked\.Items.map`,
	ResearchedProjects: "Save.Subsystems.Research." + ResearchedProjects,
	Quests:             "Save.Subsystems.Quest." + Quests,
}

// Stat is one player stat level
type Stat struct {
	Name  string
	Level int64
}

// Summary is a cheap read-only overview of a save payload
type Summary struct {
	Stats []Stat
	// Counts holds the number of records or keys found at each canonical
	// container location. Containers stored elsewhere are not counted.
	Counts map[string]int
}

// Summarize inspects a raw payload without building the full tree
func Summarize(raw []byte) (*Summary, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.InvalidArgument("save payload is not valid JSON")
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return nil, errors.InvalidArgument("save payload must be a JSON object")
	}

	s := &Summary{Counts: make(map[string]int, len(summaryPaths))}

	res.Get(statsPath).ForEach(func(k, v gjson.Result) bool {
		name, ok := strings.CutSuffix(k.String(), statLevelSuffix)
		if !ok || name == "" || v.Type != gjson.Number {
			return true
		}
		s.Stats = append(s.Stats, Stat{Name: name, Level: v.Int()})
		return true
	})
	sort.Slice(s.Stats, func(i, j int) bool { return s.Stats[i].Name < s.Stats[j].Name })

	for name, path := range summaryPaths {
		v := res.Get(path)
		switch {
		case v.IsArray():
			s.Counts[name] = len(v.Array())
		case v.IsObject():
			n := 0
			v.ForEach(func(_, _ gjson.Result) bool {
				n++
				return true
			})
			s.Counts[name] = n
		}
	}
	return s, nil
}
