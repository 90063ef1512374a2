package catalog

import "github.com/idlerack/idlerack/internal/domain/ledger"

// UpgradeID identifies an upgrade definition.
type UpgradeID string

const (
	Overclocking      UpgradeID = "overclocking"
	QoSRules          UpgradeID = "qos_rules"
	USB3              UpgradeID = "usb3"
	Containerization  UpgradeID = "containerization"
	FiberOptics       UpgradeID = "fiber_optics"
	RAIDConfig        UpgradeID = "raid_config"
	AutomationScripts UpgradeID = "automation_scripts"
	Kubernetes        UpgradeID = "kubernetes"
	Terraform         UpgradeID = "terraform"
	BladeServers      UpgradeID = "blade_servers"
	AnycastRouting    UpgradeID = "anycast_routing"
	IncidentPlaybooks UpgradeID = "incident_playbooks"
	CronJobs          UpgradeID = "cron_jobs"
	SystemdTimers     UpgradeID = "systemd_timers"
)

// EffectKind says which field of Effect carries the payload.
type EffectKind string

const (
	// EffectBuildingMultiplier multiplies one building's production.
	EffectBuildingMultiplier EffectKind = "building_multiplier"
	// EffectGlobalMultiplier multiplies all production.
	EffectGlobalMultiplier EffectKind = "global_multiplier"
	// EffectTaskReward multiplies task rewards.
	EffectTaskReward EffectKind = "task_reward"
	// EffectOfflineEfficiency sets the offline catch-up efficiency.
	EffectOfflineEfficiency EffectKind = "offline_efficiency"
)

// Effect describes what an upgrade does once purchased.
type Effect struct {
	Kind     EffectKind
	Building BuildingID // for EffectBuildingMultiplier
	Factor   float64    // multiplier, or the new efficiency value
}

// UpgradeDef is the immutable definition of an upgrade.
type UpgradeDef struct {
	ID            UpgradeID
	Name          string
	Description   string
	Cost          ledger.Resources
	Prerequisites []UpgradeID
	Effect        Effect
	// Permanent upgrades survive a prestige reset.
	Permanent bool
}

// Upgrades returns every upgrade definition.
func Upgrades() []UpgradeDef {
	return []UpgradeDef{
		{ID: Overclocking, Name: "Overclocking", Description: "x2 Raspberry Pi production",
			Cost:   ledger.Resources{Compute: 500},
			Effect: Effect{Kind: EffectBuildingMultiplier, Building: RaspberryPi, Factor: 2}},
		{ID: QoSRules, Name: "QoS Rules", Description: "x2 Home Router production",
			Cost:   ledger.Resources{Bandwidth: 300},
			Effect: Effect{Kind: EffectBuildingMultiplier, Building: HomeRouter, Factor: 2}},
		{ID: USB3, Name: "USB 3.0", Description: "x2 USB Drive production",
			Cost:   ledger.Resources{Storage: 400},
			Effect: Effect{Kind: EffectBuildingMultiplier, Building: USBDrive, Factor: 2}},
		{ID: Containerization, Name: "Containerization", Description: "x2 VPS production",
			Cost:          ledger.Resources{Compute: 5_000},
			Prerequisites: []UpgradeID{Overclocking},
			Effect:        Effect{Kind: EffectBuildingMultiplier, Building: VPS, Factor: 2}},
		{ID: FiberOptics, Name: "Fiber Optic Upgrade", Description: "x2 Fiber Connection production",
			Cost:          ledger.Resources{Bandwidth: 3_000},
			Prerequisites: []UpgradeID{QoSRules},
			Effect:        Effect{Kind: EffectBuildingMultiplier, Building: FiberLink, Factor: 2}},
		{ID: RAIDConfig, Name: "RAID Configuration", Description: "x2 NAS Box production",
			Cost:          ledger.Resources{Storage: 4_000},
			Prerequisites: []UpgradeID{USB3},
			Effect:        Effect{Kind: EffectBuildingMultiplier, Building: NASBox, Factor: 2}},
		{ID: AutomationScripts, Name: "Automation Scripts", Description: "x1.25 all production",
			Cost:          ledger.Resources{Compute: 10_000},
			Prerequisites: []UpgradeID{Containerization},
			Effect:        Effect{Kind: EffectGlobalMultiplier, Factor: 1.25}},
		{ID: Kubernetes, Name: "Kubernetes", Description: "x1.5 all production",
			Cost:          ledger.Resources{Compute: 100_000, Bandwidth: 50_000},
			Prerequisites: []UpgradeID{AutomationScripts},
			Effect:        Effect{Kind: EffectGlobalMultiplier, Factor: 1.5}},
		{ID: Terraform, Name: "Terraform", Description: "x1.5 all production",
			Cost:          ledger.Resources{Compute: 1_000_000},
			Prerequisites: []UpgradeID{Kubernetes},
			Effect:        Effect{Kind: EffectGlobalMultiplier, Factor: 1.5}},
		{ID: BladeServers, Name: "Blade Servers", Description: "x3 Dedicated Server production",
			Cost:          ledger.Resources{Compute: 50_000},
			Prerequisites: []UpgradeID{Containerization},
			Effect:        Effect{Kind: EffectBuildingMultiplier, Building: DedicatedServer, Factor: 3}},
		{ID: AnycastRouting, Name: "Anycast Routing", Description: "x3 Load Balancer production",
			Cost:          ledger.Resources{Bandwidth: 30_000},
			Prerequisites: []UpgradeID{FiberOptics},
			Effect:        Effect{Kind: EffectBuildingMultiplier, Building: LoadBalancer, Factor: 3}},
		{ID: IncidentPlaybooks, Name: "Incident Playbooks", Description: "x2 task rewards",
			Cost:   ledger.Resources{Compute: 20_000},
			Effect: Effect{Kind: EffectTaskReward, Factor: 2}},
		// Offline efficiency upgrades are permanent: once the cron jobs are
		// written they survive a prestige wipe.
		{ID: CronJobs, Name: "Cron Jobs", Description: "50% offline efficiency",
			Cost:          ledger.Resources{Compute: 50_000},
			Prerequisites: []UpgradeID{AutomationScripts},
			Effect:        Effect{Kind: EffectOfflineEfficiency, Factor: 0.50},
			Permanent:     true},
		{ID: SystemdTimers, Name: "Systemd Timers", Description: "75% offline efficiency",
			Cost:          ledger.Resources{Compute: 500_000},
			Prerequisites: []UpgradeID{CronJobs},
			Effect:        Effect{Kind: EffectOfflineEfficiency, Factor: 0.75},
			Permanent:     true},
	}
}
