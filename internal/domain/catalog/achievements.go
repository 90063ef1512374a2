package catalog

// AchievementID identifies an achievement definition.
type AchievementID string

const (
	FirstBuild    AchievementID = "first_build"
	TenBuilds     AchievementID = "ten_builds"
	FirstUpgrade  AchievementID = "first_upgrade"
	FirstPrestige AchievementID = "first_prestige"
	Compute1M     AchievementID = "compute_1m"
	Compute1B     AchievementID = "compute_1b"
	Compute1T     AchievementID = "compute_1t"
	Task10        AchievementID = "task_10"
	Task50        AchievementID = "task_50"
	Prestige5     AchievementID = "prestige_5"
)

// AchievementDef is the immutable definition of an achievement. The
// predicate itself lives with the game state; the catalog only names it.
type AchievementDef struct {
	ID          AchievementID
	Name        string
	Description string
}

// Achievements returns every achievement definition.
func Achievements() []AchievementDef {
	return []AchievementDef{
		{ID: FirstBuild, Name: "Hello World", Description: "Purchase your first building"},
		{ID: TenBuilds, Name: "Sys Admin", Description: "Own 10 buildings total"},
		{ID: FirstUpgrade, Name: "Patch Tuesday", Description: "Purchase your first upgrade"},
		{ID: FirstPrestige, Name: "Reboot", Description: "Prestige for the first time"},
		{ID: Compute1M, Name: "Megahertz", Description: "Accumulate 1M lifetime compute"},
		{ID: Compute1B, Name: "Gigaflops", Description: "Accumulate 1B lifetime compute"},
		{ID: Compute1T, Name: "Teraflops", Description: "Accumulate 1T lifetime compute"},
		{ID: Task10, Name: "On Call", Description: "Complete 10 tasks"},
		{ID: Task50, Name: "Incident Commander", Description: "Complete 50 tasks"},
		{ID: Prestige5, Name: "Veteran", Description: "Prestige 5 times"},
	}
}
