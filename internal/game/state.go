// Package game owns the mutable simulation state and every rule that
// touches it. The state is exclusively owned by the dispatch loop; all
// other components see read-only snapshots.
package game

import (
	"math/rand"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/formula"
	"github.com/idlerack/idlerack/internal/domain/ledger"
)

// StartingCompute is the compute balance of a fresh run (and of every
// post-prestige run).
const StartingCompute = 50

// DefaultOfflineEfficiency is the fraction of normal production earned
// while the process is not running, before any upgrades.
const DefaultOfflineEfficiency = 0.25

// historyLen bounds the compute sparkline ring.
const historyLen = 60

// BuildingState is the owned count and level of one building type.
type BuildingState struct {
	Count int `json:"count"`
	Level int `json:"level"`
}

// State is the authoritative game aggregate. Exported fields exist for
// snapshotting and persistence; nothing outside this package mutates them.
type State struct {
	Resources ledger.Resources                        `json:"resources"`
	Buildings map[catalog.BuildingID]*BuildingState   `json:"buildings"`
	Upgrades  map[catalog.UpgradeID]bool              `json:"upgrades"`
	Tasks     []*Task                                 `json:"tasks"`
	Incidents []*Incident                             `json:"incidents"`

	TickCount     uint64 `json:"tick_count"`
	PrestigeCount int    `json:"prestige_count"`

	GlobalMultiplier     float64 `json:"global_multiplier"`
	TaskRewardMultiplier float64 `json:"task_reward_multiplier"`
	OfflineEfficiency    float64 `json:"offline_efficiency"`

	LifetimeCompute float64 `json:"lifetime_compute"`
	TasksCompleted  int     `json:"tasks_completed"`

	// Achievements is append-only and survives prestige.
	Achievements []catalog.AchievementID `json:"achievements"`

	// ProductionPerTick is the cached base output, recomputed whenever
	// counts, levels or multipliers change. Incident boosts are applied on
	// top of it each tick.
	ProductionPerTick ledger.Resources `json:"production_per_tick"`

	// ComputeHistory feeds the dashboard sparkline, one sample per second.
	ComputeHistory []uint64 `json:"compute_history"`

	// TaskCooldownUntil is the tick before which no new task spawns.
	TaskCooldownUntil uint64 `json:"task_cooldown_until"`

	rng *rand.Rand
}

// New creates a fresh state seeded for deterministic simulation. The same
// seed and the same action sequence always reproduce the same state.
func New(seed int64) *State {
	s := &State{
		Resources: ledger.Resources{Compute: StartingCompute},
		Buildings: make(map[catalog.BuildingID]*BuildingState),
		Upgrades:  make(map[catalog.UpgradeID]bool),

		GlobalMultiplier:     1,
		TaskRewardMultiplier: 1,
		OfflineEfficiency:    DefaultOfflineEfficiency,
	}
	for _, def := range catalog.Buildings() {
		s.Buildings[def.ID] = &BuildingState{}
	}
	s.Reseed(seed)
	s.RecalcProduction()
	return s
}

// Reseed replaces the pseudo-random source. Loading a save reseeds from
// the wall clock; tests pin a fixed seed.
func (s *State) Reseed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// RecalcProduction rebuilds the cached per-tick output from owned counts,
// levels, upgrade multipliers, the pipeline bonus and the global
// multiplier. Called after every purchase, upgrade and prestige.
func (s *State) RecalcProduction() {
	var out ledger.Resources

	pipeline := 0
	if b, ok := s.Buildings[catalog.CICDPipeline]; ok {
		pipeline = b.Count
	}
	pipelineMult := 1 + float64(pipeline)*catalog.PipelineGlobalBonus

	// Per-building multipliers from purchased upgrades.
	buildingMult := make(map[catalog.BuildingID]float64)
	for id, purchased := range s.Upgrades {
		if !purchased {
			continue
		}
		def, ok := catalog.UpgradeByID(id)
		if !ok || def.Effect.Kind != catalog.EffectBuildingMultiplier {
			continue
		}
		if buildingMult[def.Effect.Building] == 0 {
			buildingMult[def.Effect.Building] = 1
		}
		buildingMult[def.Effect.Building] *= def.Effect.Factor
	}

	total := s.GlobalMultiplier * pipelineMult

	for _, def := range catalog.Buildings() {
		if def.ID == catalog.CICDPipeline {
			continue
		}
		b := s.Buildings[def.ID]
		if b == nil || b.Count == 0 {
			continue
		}
		mult := total
		if m, ok := buildingMult[def.ID]; ok {
			mult *= m
		}
		prod := formula.Production(b.Count, def.BaseProduction, b.Level, def.LevelBonus, mult)
		out.Set(def.Produces, out.Get(def.Produces)+prod)
	}

	s.ProductionPerTick = out
}

// TotalBuildings returns the summed owned count across all types.
func (s *State) TotalBuildings() int {
	total := 0
	for _, b := range s.Buildings {
		total += b.Count
	}
	return total
}

// UpgradesPurchased returns how many upgrades are currently owned.
func (s *State) UpgradesPurchased() int {
	n := 0
	for _, purchased := range s.Upgrades {
		if purchased {
			n++
		}
	}
	return n
}

// UnlockedBuildings lists the building ids visible to the player: anything
// below the compute unlock threshold, plus anything already owned.
func (s *State) UnlockedBuildings() []catalog.BuildingID {
	var out []catalog.BuildingID
	for _, def := range catalog.Buildings() {
		owned := s.Buildings[def.ID] != nil && s.Buildings[def.ID].Count > 0
		if s.Resources.Compute >= def.UnlockThreshold || owned {
			out = append(out, def.ID)
		}
	}
	return out
}

// AvailableUpgrades lists unpurchased upgrades whose prerequisites are all
// satisfied.
func (s *State) AvailableUpgrades() []catalog.UpgradeDef {
	var out []catalog.UpgradeDef
	for _, def := range catalog.Upgrades() {
		if s.Upgrades[def.ID] {
			continue
		}
		if s.prerequisitesMet(def) {
			out = append(out, def)
		}
	}
	return out
}

func (s *State) prerequisitesMet(def catalog.UpgradeDef) bool {
	for _, pre := range def.Prerequisites {
		if !s.Upgrades[pre] {
			return false
		}
	}
	return true
}
