package catalog

import (
	"fmt"
	"sync"
)

var (
	once          sync.Once
	buildingIndex map[BuildingID]BuildingDef
	upgradeIndex  map[UpgradeID]UpgradeDef
	taskIndex     map[TaskID]TaskDef
	incidentIndex map[IncidentID]IncidentDef
)

func buildIndexes() {
	buildingIndex = make(map[BuildingID]BuildingDef)
	for _, d := range Buildings() {
		buildingIndex[d.ID] = d
	}
	upgradeIndex = make(map[UpgradeID]UpgradeDef)
	for _, d := range Upgrades() {
		upgradeIndex[d.ID] = d
	}
	taskIndex = make(map[TaskID]TaskDef)
	for _, d := range Tasks() {
		taskIndex[d.ID] = d
	}
	incidentIndex = make(map[IncidentID]IncidentDef)
	for _, d := range Incidents() {
		incidentIndex[d.ID] = d
	}
}

// BuildingByID looks up a building definition.
func BuildingByID(id BuildingID) (BuildingDef, bool) {
	once.Do(buildIndexes)
	d, ok := buildingIndex[id]
	return d, ok
}

// UpgradeByID looks up an upgrade definition.
func UpgradeByID(id UpgradeID) (UpgradeDef, bool) {
	once.Do(buildIndexes)
	d, ok := upgradeIndex[id]
	return d, ok
}

// TaskByID looks up a task definition.
func TaskByID(id TaskID) (TaskDef, bool) {
	once.Do(buildIndexes)
	d, ok := taskIndex[id]
	return d, ok
}

// IncidentByID looks up an incident definition.
func IncidentByID(id IncidentID) (IncidentDef, bool) {
	once.Do(buildIndexes)
	d, ok := incidentIndex[id]
	return d, ok
}

// Validate checks the catalog for structural defects: duplicate
// identifiers, upgrade prerequisites that reference nothing, and
// incident-response answers pointing outside their option list. A non-nil
// error here is fatal at startup; the simulation must not run on a
// malformed catalog.
func Validate() error {
	seenB := make(map[BuildingID]bool)
	for _, d := range Buildings() {
		if seenB[d.ID] {
			return fmt.Errorf("duplicate building id %q", d.ID)
		}
		seenB[d.ID] = true
		if d.CostGrowth < 1 {
			return fmt.Errorf("building %q has cost growth %v below 1", d.ID, d.CostGrowth)
		}
	}

	seenU := make(map[UpgradeID]bool)
	for _, d := range Upgrades() {
		if seenU[d.ID] {
			return fmt.Errorf("duplicate upgrade id %q", d.ID)
		}
		seenU[d.ID] = true
	}
	for _, d := range Upgrades() {
		for _, pre := range d.Prerequisites {
			if !seenU[pre] {
				return fmt.Errorf("upgrade %q has unknown prerequisite %q", d.ID, pre)
			}
		}
		if d.Effect.Kind == EffectBuildingMultiplier && !seenB[d.Effect.Building] {
			return fmt.Errorf("upgrade %q targets unknown building %q", d.ID, d.Effect.Building)
		}
	}

	seenT := make(map[TaskID]bool)
	for _, d := range Tasks() {
		if seenT[d.ID] {
			return fmt.Errorf("duplicate task id %q", d.ID)
		}
		seenT[d.ID] = true
		if d.TimeLimitTicks == 0 {
			return fmt.Errorf("task %q has zero time limit", d.ID)
		}
		if d.Kind == TaskIncidentResponse && (d.Correct < 0 || d.Correct >= len(d.Options)) {
			return fmt.Errorf("task %q answer index %d out of range", d.ID, d.Correct)
		}
	}

	seenI := make(map[IncidentID]bool)
	for _, d := range Incidents() {
		if seenI[d.ID] {
			return fmt.Errorf("duplicate incident id %q", d.ID)
		}
		seenI[d.ID] = true
		if d.Chance < 0 || d.Chance > 1 {
			return fmt.Errorf("incident %q chance %v out of range", d.ID, d.Chance)
		}
		if d.MinDuration == 0 || d.MaxDuration < d.MinDuration {
			return fmt.Errorf("incident %q has invalid duration bounds", d.ID)
		}
	}

	seenA := make(map[AchievementID]bool)
	for _, d := range Achievements() {
		if seenA[d.ID] {
			return fmt.Errorf("duplicate achievement id %q", d.ID)
		}
		seenA[d.ID] = true
	}

	return nil
}
