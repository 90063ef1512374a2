package game

import "github.com/idlerack/idlerack/internal/domain/catalog"

// achievementSatisfied is the pure predicate for one achievement over the
// current state.
func (s *State) achievementSatisfied(id catalog.AchievementID) bool {
	switch id {
	case catalog.FirstBuild:
		return s.TotalBuildings() >= 1
	case catalog.TenBuilds:
		return s.TotalBuildings() >= 10
	case catalog.FirstUpgrade:
		return s.UpgradesPurchased() >= 1
	case catalog.FirstPrestige:
		return s.PrestigeCount >= 1
	case catalog.Compute1M:
		return s.LifetimeCompute >= 1_000_000
	case catalog.Compute1B:
		return s.LifetimeCompute >= 1_000_000_000
	case catalog.Compute1T:
		return s.LifetimeCompute >= 1_000_000_000_000
	case catalog.Task10:
		return s.TasksCompleted >= 10
	case catalog.Task50:
		return s.TasksCompleted >= 50
	case catalog.Prestige5:
		return s.PrestigeCount >= 5
	}
	return false
}

// CheckAchievements adds every newly satisfied achievement to the
// permanent set and returns the new ones. Earned achievements are never
// removed, not even by prestige.
func (s *State) CheckAchievements() []catalog.AchievementDef {
	earned := make(map[catalog.AchievementID]bool, len(s.Achievements))
	for _, id := range s.Achievements {
		earned[id] = true
	}

	var fresh []catalog.AchievementDef
	for _, def := range catalog.Achievements() {
		if earned[def.ID] || !s.achievementSatisfied(def.ID) {
			continue
		}
		s.Achievements = append(s.Achievements, def.ID)
		fresh = append(fresh, def)
	}
	return fresh
}
