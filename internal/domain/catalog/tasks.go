package catalog

import "github.com/idlerack/idlerack/internal/domain/ledger"

// TaskID identifies a task definition.
type TaskID string

// TaskKind distinguishes the two interaction styles.
type TaskKind string

const (
	// TaskTypeCommand asks the operator to type a shell command verbatim.
	TaskTypeCommand TaskKind = "type_command"
	// TaskIncidentResponse asks the operator to pick the right runbook step.
	TaskIncidentResponse TaskKind = "incident_response"
)

// TaskDef is the immutable definition of an operator task. Command is set
// for TaskTypeCommand; Question/Options/Correct for TaskIncidentResponse.
type TaskDef struct {
	ID             TaskID
	Name           string
	Kind           TaskKind
	Command        string
	Question       string
	Options        []string
	Correct        int
	Reward         ledger.Resources
	TimeLimitTicks uint64
	Difficulty     int
}

// Tasks returns the full task pool.
func Tasks() []TaskDef {
	return []TaskDef{
		{ID: "restart_service", Name: "Restart Service", Kind: TaskTypeCommand,
			Command: "sudo systemctl restart nginx",
			Reward:  ledger.Resources{Compute: 50}, TimeLimitTicks: 120, Difficulty: 1},
		{ID: "deploy_hotfix", Name: "Deploy Hotfix", Kind: TaskTypeCommand,
			Command: "git push origin hotfix",
			Reward:  ledger.Resources{Compute: 40}, TimeLimitTicks: 100, Difficulty: 1},
		{ID: "check_disk", Name: "Check Disk Usage", Kind: TaskTypeCommand,
			Command: "df -h",
			Reward:  ledger.Resources{Storage: 30}, TimeLimitTicks: 60, Difficulty: 1},
		{ID: "flush_dns", Name: "Flush DNS Cache", Kind: TaskTypeCommand,
			Command: "sudo systemd-resolve --flush-caches",
			Reward:  ledger.Resources{Bandwidth: 60}, TimeLimitTicks: 120, Difficulty: 2},
		{ID: "kill_process", Name: "Kill Process", Kind: TaskTypeCommand,
			Command: "kill -9 $(pgrep zombie)",
			Reward:  ledger.Resources{Compute: 80}, TimeLimitTicks: 120, Difficulty: 2},
		{ID: "view_logs", Name: "View Logs", Kind: TaskTypeCommand,
			Command: "tail -f /var/log/syslog",
			Reward:  ledger.Resources{Compute: 35}, TimeLimitTicks: 100, Difficulty: 1},
		{ID: "ssl_renew", Name: "SSL Certificate", Kind: TaskTypeCommand,
			Command: "certbot renew --dry-run",
			Reward:  ledger.Resources{Compute: 70, Bandwidth: 30}, TimeLimitTicks: 120, Difficulty: 2},
		{ID: "bad_gateway", Name: "502 Bad Gateway", Kind: TaskIncidentResponse,
			Question: "Server returning 502. What do you check first?",
			Options: []string{
				"Check upstream service health",
				"Restart the database",
				"Clear browser cache",
				"Increase disk space",
			},
			Correct: 0,
			Reward:  ledger.Resources{Compute: 100}, TimeLimitTicks: 60, Difficulty: 2},
		{ID: "high_cpu", Name: "High CPU Alert", Kind: TaskIncidentResponse,
			Question: "CPU at 99%. What's your first step?",
			Options: []string{
				"Add more RAM",
				"Run top to identify the process",
				"Reboot immediately",
				"Ignore it",
			},
			Correct: 1,
			Reward:  ledger.Resources{Compute: 80}, TimeLimitTicks: 60, Difficulty: 1},
		{ID: "disk_full", Name: "Disk Full", Kind: TaskIncidentResponse,
			Question: "Disk at 100%. Quickest safe fix?",
			Options: []string{
				"Delete /var/log/*.log",
				"Find and clean old logs with logrotate",
				"Buy a new disk",
				"Compress the root partition",
			},
			Correct: 1,
			Reward:  ledger.Resources{Storage: 120}, TimeLimitTicks: 60, Difficulty: 2},
		{ID: "dns_failure", Name: "DNS Resolution Failure", Kind: TaskIncidentResponse,
			Question: "Users can't resolve your domain. What do you check?",
			Options: []string{
				"Check DNS records and nameservers",
				"Restart the web server",
				"Update the SSL certificate",
				"Clear the CDN cache",
			},
			Correct: 0,
			Reward:  ledger.Resources{Bandwidth: 90}, TimeLimitTicks: 60, Difficulty: 2},
		{ID: "memory_leak", Name: "Memory Leak", Kind: TaskIncidentResponse,
			Question: "App memory grows 100MB/hour. Best approach?",
			Options: []string{
				"Add swap space",
				"Profile with valgrind/heaptrack",
				"Set a cron to restart hourly",
				"Upgrade to more RAM",
			},
			Correct: 1,
			Reward:  ledger.Resources{Compute: 150}, TimeLimitTicks: 60, Difficulty: 3},
	}
}

// TaskSpawnChance is the per-tick probability of a new task appearing while
// a slot is free and the cooldown has elapsed.
const TaskSpawnChance = 0.02

// TaskCooldownTicks is the pause between a task reaching a terminal state
// and the next spawn roll.
const TaskCooldownTicks = 20

// MaxConcurrentTasks bounds the pending/in-progress task set.
const MaxConcurrentTasks = 2
