// Package catalog holds the static definitions the simulation runs on:
// buildings, upgrades, tasks, incidents and achievements. Definitions are
// process-wide, read-only after load, and validated once at startup.
package catalog

import "github.com/idlerack/idlerack/internal/domain/ledger"

// BuildingID identifies a building definition.
type BuildingID string

const (
	// Tier 1
	RaspberryPi BuildingID = "raspberry_pi"
	HomeRouter  BuildingID = "home_router"
	USBDrive    BuildingID = "usb_drive"
	// Tier 2
	VPS       BuildingID = "vps"
	FiberLink BuildingID = "fiber_link"
	NASBox    BuildingID = "nas_box"
	// Tier 3
	DedicatedServer BuildingID = "dedicated_server"
	LoadBalancer    BuildingID = "load_balancer"
	SANArray        BuildingID = "san_array"
	// Tier 4
	ServerCluster BuildingID = "server_cluster"
	CDN           BuildingID = "cdn"
	DataWarehouse BuildingID = "data_warehouse"
	// Tier 5
	Datacenter    BuildingID = "datacenter"
	BackboneLink  BuildingID = "backbone_link"
	ObjectStorage BuildingID = "object_storage"
	// Tier 6
	CloudRegion    BuildingID = "cloud_region"
	SubmarineCable BuildingID = "submarine_cable"
	DistributedFS  BuildingID = "distributed_fs"
	// Specials
	CICDPipeline    BuildingID = "cicd_pipeline"
	MonitoringStack BuildingID = "monitoring_stack"
	CryptoMiner     BuildingID = "crypto_miner"
)

// BuildingDef is the immutable definition of a building type.
type BuildingDef struct {
	ID          BuildingID
	Name        string
	Description string
	BaseCost    float64
	CostGrowth  float64
	// BaseProduction is per unit per tick before level and multiplier bonuses.
	BaseProduction float64
	LevelBonus     float64
	Produces       ledger.Kind
	// CostKind is the resource the purchase price is charged in.
	CostKind ledger.Kind
	// UnlockThreshold is the compute total at which the building appears.
	UnlockThreshold float64
	Tier            int
}

// Buildings returns every building definition, tiers first, specials last.
func Buildings() []BuildingDef {
	return []BuildingDef{
		// Tier 1
		{ID: RaspberryPi, Name: "Raspberry Pi", Description: "A tiny single-board computer",
			BaseCost: 10, CostGrowth: 1.15, BaseProduction: 0.5, LevelBonus: 0.5,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 0, Tier: 1},
		{ID: HomeRouter, Name: "Home Router", Description: "Basic network connectivity",
			BaseCost: 15, CostGrowth: 1.15, BaseProduction: 0.3, LevelBonus: 0.5,
			Produces: ledger.Bandwidth, CostKind: ledger.Compute, UnlockThreshold: 0, Tier: 1},
		{ID: USBDrive, Name: "USB Drive", Description: "Portable storage",
			BaseCost: 20, CostGrowth: 1.15, BaseProduction: 0.2, LevelBonus: 0.5,
			Produces: ledger.Storage, CostKind: ledger.Compute, UnlockThreshold: 0, Tier: 1},
		// Tier 2
		{ID: VPS, Name: "VPS", Description: "Virtual private server",
			BaseCost: 100, CostGrowth: 1.15, BaseProduction: 4, LevelBonus: 0.5,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 1_000, Tier: 2},
		{ID: FiberLink, Name: "Fiber Connection", Description: "High-speed fiber optic link",
			BaseCost: 150, CostGrowth: 1.15, BaseProduction: 2.5, LevelBonus: 0.5,
			Produces: ledger.Bandwidth, CostKind: ledger.Bandwidth, UnlockThreshold: 1_000, Tier: 2},
		{ID: NASBox, Name: "NAS Box", Description: "Network-attached storage",
			BaseCost: 200, CostGrowth: 1.15, BaseProduction: 1.5, LevelBonus: 0.5,
			Produces: ledger.Storage, CostKind: ledger.Storage, UnlockThreshold: 1_000, Tier: 2},
		// Tier 3
		{ID: DedicatedServer, Name: "Dedicated Server", Description: "Full rack-mounted server",
			BaseCost: 1_000, CostGrowth: 1.15, BaseProduction: 30, LevelBonus: 0.5,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 100_000, Tier: 3},
		{ID: LoadBalancer, Name: "Load Balancer", Description: "Distributes network traffic",
			BaseCost: 1_500, CostGrowth: 1.15, BaseProduction: 20, LevelBonus: 0.5,
			Produces: ledger.Bandwidth, CostKind: ledger.Bandwidth, UnlockThreshold: 100_000, Tier: 3},
		{ID: SANArray, Name: "SAN Array", Description: "Storage area network",
			BaseCost: 2_000, CostGrowth: 1.15, BaseProduction: 12, LevelBonus: 0.5,
			Produces: ledger.Storage, CostKind: ledger.Storage, UnlockThreshold: 100_000, Tier: 3},
		// Tier 4
		{ID: ServerCluster, Name: "Server Cluster", Description: "Clustered compute nodes",
			BaseCost: 10_000, CostGrowth: 1.15, BaseProduction: 200, LevelBonus: 0.5,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 10_000_000, Tier: 4},
		{ID: CDN, Name: "CDN", Description: "Content delivery network",
			BaseCost: 15_000, CostGrowth: 1.15, BaseProduction: 130, LevelBonus: 0.5,
			Produces: ledger.Bandwidth, CostKind: ledger.Bandwidth, UnlockThreshold: 10_000_000, Tier: 4},
		{ID: DataWarehouse, Name: "Data Warehouse", Description: "Enterprise data storage",
			BaseCost: 20_000, CostGrowth: 1.15, BaseProduction: 80, LevelBonus: 0.5,
			Produces: ledger.Storage, CostKind: ledger.Storage, UnlockThreshold: 10_000_000, Tier: 4},
		// Tier 5
		{ID: Datacenter, Name: "Datacenter", Description: "Full-scale data center",
			BaseCost: 100_000, CostGrowth: 1.15, BaseProduction: 1_500, LevelBonus: 0.5,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 1_000_000_000, Tier: 5},
		{ID: BackboneLink, Name: "Backbone Link", Description: "Internet backbone connection",
			BaseCost: 150_000, CostGrowth: 1.15, BaseProduction: 1_000, LevelBonus: 0.5,
			Produces: ledger.Bandwidth, CostKind: ledger.Bandwidth, UnlockThreshold: 1_000_000_000, Tier: 5},
		{ID: ObjectStorage, Name: "Object Storage", Description: "Cloud object store",
			BaseCost: 200_000, CostGrowth: 1.15, BaseProduction: 600, LevelBonus: 0.5,
			Produces: ledger.Storage, CostKind: ledger.Storage, UnlockThreshold: 1_000_000_000, Tier: 5},
		// Tier 6
		{ID: CloudRegion, Name: "Cloud Region", Description: "Entire cloud availability zone",
			BaseCost: 1_000_000, CostGrowth: 1.15, BaseProduction: 10_000, LevelBonus: 0.5,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 1_000_000_000_000, Tier: 6},
		{ID: SubmarineCable, Name: "Submarine Cable", Description: "Undersea fiber optic cable",
			BaseCost: 1_500_000, CostGrowth: 1.15, BaseProduction: 7_000, LevelBonus: 0.5,
			Produces: ledger.Bandwidth, CostKind: ledger.Bandwidth, UnlockThreshold: 1_000_000_000_000, Tier: 6},
		{ID: DistributedFS, Name: "Distributed FS", Description: "Planet-scale filesystem",
			BaseCost: 2_000_000, CostGrowth: 1.15, BaseProduction: 4_500, LevelBonus: 0.5,
			Produces: ledger.Storage, CostKind: ledger.Storage, UnlockThreshold: 1_000_000_000_000, Tier: 6},
		// Specials. The pipeline produces nothing itself; each unit adds a
		// +10% global production bonus. The monitoring stack raises the
		// per-tick incident chance.
		{ID: CICDPipeline, Name: "CI/CD Pipeline", Description: "Automates all production (+10% global)",
			BaseCost: 5_000, CostGrowth: 1.20, BaseProduction: 0, LevelBonus: 0,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 50_000, Tier: 3},
		{ID: MonitoringStack, Name: "Monitoring Stack", Description: "Generates bonus events",
			BaseCost: 3_000, CostGrowth: 1.20, BaseProduction: 5, LevelBonus: 0.5,
			Produces: ledger.Compute, CostKind: ledger.Compute, UnlockThreshold: 25_000, Tier: 2},
		{ID: CryptoMiner, Name: "Crypto Miner", Description: "Mines cryptocurrency",
			BaseCost: 50_000, CostGrowth: 1.20, BaseProduction: 0.1, LevelBonus: 0.5,
			Produces: ledger.Crypto, CostKind: ledger.Compute, UnlockThreshold: 1_000_000_000, Tier: 5},
	}
}

// PipelineGlobalBonus is the global production bonus per CI/CD pipeline unit.
const PipelineGlobalBonus = 0.10
