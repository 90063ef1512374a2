package game

import (
	"fmt"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
	"github.com/idlerack/idlerack/internal/journal"
)

// AdvanceTick runs exactly one simulation step. The phase order is fixed
// and must not change: later phases depend on earlier ones (expiry before
// production before spawns before the achievement check), and a fixed
// order is what makes a seeded run reproducible.
//
//  1. Expire timed-out tasks and incidents.
//  2. Apply production.
//  3. Roll incident spawns.
//  4. Roll task spawns.
//  5. Increment the tick counter.
//  6. Check achievements.
func (s *State) AdvanceTick() []journal.Entry {
	var entries []journal.Entry

	// 1. Expiry.
	for _, def := range s.expireTasks() {
		entries = append(entries, journal.NewEntry(s.TickCount, journal.SeverityWarning,
			"task_expired", fmt.Sprintf("Task expired: %s", def.Name), ledger.Resources{}))
	}
	for _, def := range s.expireIncidents() {
		entries = append(entries, journal.NewEntry(s.TickCount, journal.SeverityInfo,
			"incident_over", fmt.Sprintf("%s is over", def.Name), ledger.Resources{}))
	}

	// 2. Production, with live incident multipliers on top of the cache.
	produced := s.ProductionPerTick.Scale(s.productionMultiplierFromIncidents())
	s.Resources.Add(produced)
	s.LifetimeCompute += produced.Compute

	// Sparkline sample once per second (4 Hz ticks).
	if s.TickCount%4 == 0 {
		s.ComputeHistory = append(s.ComputeHistory, uint64(minFloat(s.Resources.Compute*100, 1e18)))
		if len(s.ComputeHistory) > historyLen {
			s.ComputeHistory = s.ComputeHistory[len(s.ComputeHistory)-historyLen:]
		}
	}

	// 3. Incident spawns.
	for _, rep := range s.spawnIncidents() {
		entries = append(entries, journal.NewEntry(s.TickCount, severityFor(rep.Def.Severity),
			"incident", rep.Message, rep.Effect))
	}

	// 4. Task spawns.
	if def := s.spawnTask(); def != nil {
		entries = append(entries, journal.NewEntry(s.TickCount, journal.SeverityInfo,
			"task_spawned", fmt.Sprintf("New task: %s", def.Name), ledger.Resources{}))
	}

	// 5. Advance the clock.
	s.TickCount++

	// 6. Achievements, permanent once earned.
	for _, def := range s.CheckAchievements() {
		entries = append(entries, journal.NewEntry(s.TickCount, journal.SeverityGood,
			"achievement", fmt.Sprintf("Achievement unlocked: %s", def.Name), ledger.Resources{}))
	}

	return entries
}

// ApplyOfflineTicks replays n ticks of pure production at the offline
// efficiency rate. No spawns, no expiry rolls: offline time pays resources
// only. Returns the earned delta for the welcome-back report.
func (s *State) ApplyOfflineTicks(n uint64) ledger.Resources {
	perTick := s.ProductionPerTick.Scale(s.OfflineEfficiency)
	var earned ledger.Resources
	for i := uint64(0); i < n; i++ {
		s.Resources.Add(perTick)
		earned.Add(perTick)
		s.LifetimeCompute += perTick.Compute
		s.TickCount++
	}
	return earned
}

func severityFor(sev catalog.Severity) journal.Severity {
	switch sev {
	case catalog.SeverityGood:
		return journal.SeverityGood
	case catalog.SeverityWarning:
		return journal.SeverityWarning
	case catalog.SeverityError:
		return journal.SeverityError
	}
	return journal.SeverityInfo
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
