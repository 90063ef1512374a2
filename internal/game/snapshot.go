package game

import (
	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
)

// Snapshot is an immutable copy of the state handed to the renderer and
// the websocket hub. It shares no memory with the live aggregate, so the
// dispatch loop keeps mutating while consumers read.
type Snapshot struct {
	Resources ledger.Resources                     `json:"resources"`
	Buildings map[catalog.BuildingID]BuildingState `json:"buildings"`
	Upgrades  map[catalog.UpgradeID]bool           `json:"upgrades"`
	Tasks     []Task                               `json:"tasks"`
	Incidents []Incident                           `json:"incidents"`

	TickCount     uint64 `json:"tick_count"`
	PrestigeCount int    `json:"prestige_count"`

	GlobalMultiplier     float64 `json:"global_multiplier"`
	TaskRewardMultiplier float64 `json:"task_reward_multiplier"`
	OfflineEfficiency    float64 `json:"offline_efficiency"`

	LifetimeCompute float64 `json:"lifetime_compute"`
	TasksCompleted  int     `json:"tasks_completed"`

	Achievements      []catalog.AchievementID `json:"achievements"`
	ProductionPerTick ledger.Resources        `json:"production_per_tick"`
	ComputeHistory    []uint64                `json:"compute_history"`
}

// Snapshot deep-copies the aggregate.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Resources: s.Resources,
		Buildings: make(map[catalog.BuildingID]BuildingState, len(s.Buildings)),
		Upgrades:  make(map[catalog.UpgradeID]bool, len(s.Upgrades)),

		TickCount:     s.TickCount,
		PrestigeCount: s.PrestigeCount,

		GlobalMultiplier:     s.GlobalMultiplier,
		TaskRewardMultiplier: s.TaskRewardMultiplier,
		OfflineEfficiency:    s.OfflineEfficiency,

		LifetimeCompute: s.LifetimeCompute,
		TasksCompleted:  s.TasksCompleted,

		ProductionPerTick: s.ProductionPerTick,
	}
	for id, b := range s.Buildings {
		snap.Buildings[id] = *b
	}
	for id, purchased := range s.Upgrades {
		snap.Upgrades[id] = purchased
	}
	if len(s.Tasks) > 0 {
		snap.Tasks = make([]Task, len(s.Tasks))
		for i, t := range s.Tasks {
			snap.Tasks[i] = *t
		}
	}
	if len(s.Incidents) > 0 {
		snap.Incidents = make([]Incident, len(s.Incidents))
		for i, inc := range s.Incidents {
			snap.Incidents[i] = *inc
		}
	}
	if len(s.Achievements) > 0 {
		snap.Achievements = append([]catalog.AchievementID(nil), s.Achievements...)
	}
	if len(s.ComputeHistory) > 0 {
		snap.ComputeHistory = append([]uint64(nil), s.ComputeHistory...)
	}
	return snap
}

// ActiveTask returns the oldest live task in the snapshot, or nil.
func (sn *Snapshot) ActiveTask() *Task {
	for i := range sn.Tasks {
		if !sn.Tasks[i].Status.Terminal() {
			return &sn.Tasks[i]
		}
	}
	return nil
}
