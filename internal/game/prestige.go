package game

import (
	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/formula"
	"github.com/idlerack/idlerack/internal/domain/ledger"
)

// CanPrestige reports whether the prestige floor has been reached.
func (s *State) CanPrestige() bool {
	return s.Resources.Compute >= formula.PrestigeThreshold
}

// PrestigePreview returns the reputation a reset would earn right now.
func (s *State) PrestigePreview() float64 {
	return formula.PrestigeReputation(s.Resources.Compute)
}

// Prestige trades the current run for permanent reputation. Buildings,
// non-permanent upgrades, resources, live tasks and incidents reset to
// their initial values; reputation, achievements, prestige count, lifetime
// stats and the tick counter all carry over (the tick counter is total
// play time, not per-run time). Returns the reputation earned.
func (s *State) Prestige() (float64, error) {
	if !s.CanPrestige() {
		return 0, ErrPrestigeThresholdNotMet
	}

	earned := formula.PrestigeReputation(s.Resources.Compute)
	reputation := s.Resources.Reputation + earned

	s.Resources = ledger.Resources{
		Compute:    StartingCompute,
		Reputation: reputation,
	}

	for _, b := range s.Buildings {
		b.Count = 0
		b.Level = 0
	}

	// Permanent upgrades survive; everything else resets.
	survivors := make(map[catalog.UpgradeID]bool)
	for id, purchased := range s.Upgrades {
		if !purchased {
			continue
		}
		if def, ok := catalog.UpgradeByID(id); ok && def.Permanent {
			survivors[id] = true
		}
	}
	s.Upgrades = survivors

	s.GlobalMultiplier = formula.ReputationMultiplier(reputation)
	s.TaskRewardMultiplier = 1
	s.OfflineEfficiency = DefaultOfflineEfficiency
	for id := range survivors {
		if def, ok := catalog.UpgradeByID(id); ok {
			s.applyUpgradeEffect(def)
		}
	}

	s.Tasks = nil
	s.Incidents = nil
	s.ComputeHistory = nil
	s.TaskCooldownUntil = s.TickCount

	s.PrestigeCount++
	s.RecalcProduction()
	return earned, nil
}
