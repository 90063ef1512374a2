package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
)

// Incident is one live incident instance. At most one instance per kind is
// active; the spawn roll for a kind is skipped while one lives.
type Incident struct {
	ID          string             `json:"id"`
	DefID       catalog.IncidentID `json:"def_id"`
	StartedTick uint64             `json:"started_tick"`
	ExpiryTick  uint64             `json:"expiry_tick"`
	// Magnitude meaning depends on the definition's effect: production
	// multiplier, reputation points, or drain fraction.
	Magnitude float64 `json:"magnitude"`
}

// IncidentReport describes a spawn for journaling.
type IncidentReport struct {
	Def     catalog.IncidentDef
	Message string
	Effect  ledger.Resources
}

func (s *State) incidentActive(id catalog.IncidentID) bool {
	for _, inc := range s.Incidents {
		if inc.DefID == id {
			return true
		}
	}
	return false
}

// productionMultiplierFromIncidents folds the live boost/debuff incidents
// into one factor applied on top of the cached production.
func (s *State) productionMultiplierFromIncidents() float64 {
	mult := 1.0
	for _, inc := range s.Incidents {
		def, ok := catalog.IncidentByID(inc.DefID)
		if !ok {
			continue
		}
		switch def.Effect {
		case catalog.IncidentProductionBoost, catalog.IncidentProductionDebuff:
			mult *= inc.Magnitude
		}
	}
	return mult
}

// expireIncidents removes every incident at or past its expiry tick,
// before the counter increments.
func (s *State) expireIncidents() []catalog.IncidentDef {
	var expired []catalog.IncidentDef
	live := s.Incidents[:0]
	for _, inc := range s.Incidents {
		if s.TickCount >= inc.ExpiryTick {
			if def, ok := catalog.IncidentByID(inc.DefID); ok {
				expired = append(expired, def)
			}
			continue
		}
		live = append(live, inc)
	}
	s.Incidents = live
	return expired
}

// spawnIncidents rolls every incident kind independently. Each roll draws
// exactly one random number whether or not the kind can fire, so a fixed
// seed replays identically regardless of which kinds are active.
func (s *State) spawnIncidents() []IncidentReport {
	monitoring := 0
	if b, ok := s.Buildings[catalog.MonitoringStack]; ok {
		monitoring = b.Count
	}
	bonus := float64(monitoring) * catalog.MonitoringChanceBonus

	var reports []IncidentReport
	for _, def := range catalog.Incidents() {
		roll := s.rng.Float64()
		if s.incidentActive(def.ID) {
			continue
		}
		if roll >= def.Chance+bonus {
			continue
		}
		reports = append(reports, s.fireIncident(def))
	}
	return reports
}

// fireIncident instantiates a definition, applies any one-shot effect and
// registers the instance until its expiry tick.
func (s *State) fireIncident(def catalog.IncidentDef) IncidentReport {
	magnitude := def.MinMagnitude
	if def.MaxMagnitude > def.MinMagnitude {
		magnitude += s.rng.Float64() * (def.MaxMagnitude - def.MinMagnitude)
	}
	duration := def.MinDuration
	if def.MaxDuration > def.MinDuration {
		duration += uint64(s.rng.Intn(int(def.MaxDuration - def.MinDuration)))
	}

	inc := &Incident{
		ID:          uuid.NewString(),
		DefID:       def.ID,
		StartedTick: s.TickCount,
		ExpiryTick:  s.TickCount + duration,
		Magnitude:   magnitude,
	}
	s.Incidents = append(s.Incidents, inc)

	report := IncidentReport{Def: def}
	switch def.Effect {
	case catalog.IncidentBonusDrop:
		// 1% of current compute plus a floor, dropped into a random
		// non-reputation column.
		amount := s.Resources.Compute*0.01 + 10
		kind := []ledger.Kind{ledger.Compute, ledger.Bandwidth, ledger.Storage}[s.rng.Intn(3)]
		var effect ledger.Resources
		effect.Set(kind, amount)
		s.Resources.Add(effect)
		report.Effect = effect
		report.Message = fmt.Sprintf("%s: +%s %s", def.Name, ledger.FormatShort(amount), ledger.Label(kind))

	case catalog.IncidentReputationBonus:
		effect := ledger.Resources{Reputation: magnitude}
		s.Resources.Add(effect)
		report.Effect = effect
		report.Message = fmt.Sprintf("%s: +%.1f %s", def.Name, magnitude, ledger.Label(ledger.Reputation))

	case catalog.IncidentBandwidthDrain:
		drained := s.Resources.Bandwidth * magnitude
		s.Resources.Drain(ledger.Bandwidth, drained)
		report.Message = fmt.Sprintf("%s: -%s %s", def.Name, ledger.FormatShort(drained), ledger.Label(ledger.Bandwidth))

	case catalog.IncidentComputeLoss:
		lost := s.Resources.Compute * magnitude
		s.Resources.Drain(ledger.Compute, lost)
		report.Message = fmt.Sprintf("%s: -%s %s", def.Name, ledger.FormatShort(lost), ledger.Label(ledger.Compute))

	case catalog.IncidentProductionBoost:
		report.Message = fmt.Sprintf("%s: x%.1f production for %ds", def.Name, magnitude, duration/4)

	case catalog.IncidentProductionDebuff:
		report.Message = fmt.Sprintf("%s: x%.2f production for %ds", def.Name, magnitude, duration/4)
	}
	return report
}
