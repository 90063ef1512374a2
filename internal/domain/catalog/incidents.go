package catalog

// IncidentID identifies an incident definition.
type IncidentID string

const (
	BonusDrop       IncidentID = "bonus_drop"
	TrafficSpike    IncidentID = "traffic_spike"
	ViralRepo       IncidentID = "viral_repo"
	OpenSourcePR    IncidentID = "open_source_pr"
	DDoSAttack      IncidentID = "ddos_attack"
	SecurityBreach  IncidentID = "security_breach"
	ServerOverload  IncidentID = "server_overload"
	HardwareFailure IncidentID = "hardware_failure"
)

// Severity classifies an incident for the log stream.
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IncidentEffect says how an incident touches the game when it fires.
type IncidentEffect string

const (
	// IncidentBonusDrop grants a one-shot resource bonus.
	IncidentBonusDrop IncidentEffect = "bonus_drop"
	// IncidentProductionBoost multiplies production while active.
	IncidentProductionBoost IncidentEffect = "production_boost"
	// IncidentProductionDebuff throttles production while active.
	IncidentProductionDebuff IncidentEffect = "production_debuff"
	// IncidentReputationBonus grants one-shot reputation.
	IncidentReputationBonus IncidentEffect = "reputation_bonus"
	// IncidentBandwidthDrain removes a share of current bandwidth.
	IncidentBandwidthDrain IncidentEffect = "bandwidth_drain"
	// IncidentComputeLoss removes a share of current compute.
	IncidentComputeLoss IncidentEffect = "compute_loss"
)

// IncidentDef is the immutable definition of an incident kind. Each kind
// rolls independently every tick; a kind never has two live instances, so
// the roll is skipped while one is active.
type IncidentDef struct {
	ID       IncidentID
	Name     string
	Severity Severity
	Effect   IncidentEffect
	// Chance is the base per-tick spawn probability, before the monitoring
	// stack bonus.
	Chance float64
	// MinMagnitude/MaxMagnitude bound the rolled magnitude; its meaning
	// depends on Effect (multiplier, reputation points, or drain fraction).
	MinMagnitude float64
	MaxMagnitude float64
	// MinDuration/MaxDuration bound the active lifetime in ticks. One-shot
	// incidents use 1: applied immediately, expired on the next tick.
	MinDuration uint64
	MaxDuration uint64
}

// Incidents returns every incident definition.
func Incidents() []IncidentDef {
	return []IncidentDef{
		{ID: BonusDrop, Name: "Bonus drop", Severity: SeverityGood, Effect: IncidentBonusDrop,
			Chance: 0.00125, MinMagnitude: 1, MaxMagnitude: 1, MinDuration: 1, MaxDuration: 1},
		{ID: TrafficSpike, Name: "Traffic spike", Severity: SeverityGood, Effect: IncidentProductionBoost,
			Chance: 0.00075, MinMagnitude: 1.5, MaxMagnitude: 3.0, MinDuration: 20, MaxDuration: 60},
		{ID: ViralRepo, Name: "Repo went viral", Severity: SeverityGood, Effect: IncidentReputationBonus,
			Chance: 0.0005, MinMagnitude: 1, MaxMagnitude: 6, MinDuration: 1, MaxDuration: 1},
		{ID: OpenSourcePR, Name: "Open source PR merged", Severity: SeverityGood, Effect: IncidentReputationBonus,
			Chance: 0.0005, MinMagnitude: 0.5, MaxMagnitude: 2.5, MinDuration: 1, MaxDuration: 1},
		{ID: DDoSAttack, Name: "DDoS attack", Severity: SeverityError, Effect: IncidentBandwidthDrain,
			Chance: 0.00075, MinMagnitude: 0.05, MaxMagnitude: 0.25, MinDuration: 1, MaxDuration: 1},
		{ID: SecurityBreach, Name: "Security breach", Severity: SeverityError, Effect: IncidentComputeLoss,
			Chance: 0.0005, MinMagnitude: 0.02, MaxMagnitude: 0.02, MinDuration: 1, MaxDuration: 1},
		{ID: ServerOverload, Name: "Server overloaded", Severity: SeverityWarning, Effect: IncidentProductionDebuff,
			Chance: 0.0005, MinMagnitude: 0.5, MaxMagnitude: 0.5, MinDuration: 12, MaxDuration: 40},
		{ID: HardwareFailure, Name: "Hardware failure", Severity: SeverityWarning, Effect: IncidentProductionDebuff,
			Chance: 0.00025, MinMagnitude: 0.25, MaxMagnitude: 0.25, MinDuration: 12, MaxDuration: 40},
	}
}

// MonitoringChanceBonus is added to every incident kind's per-tick chance
// for each monitoring stack owned.
const MonitoringChanceBonus = 0.0005
