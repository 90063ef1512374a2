package game

import (
	"github.com/google/uuid"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
)

// TaskStatus is the task instance state machine:
// Pending -> InProgress -> {Succeeded, Failed, Expired}.
// Pending can also expire directly.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskSucceeded  TaskStatus = "succeeded"
	TaskFailed     TaskStatus = "failed"
	TaskExpired    TaskStatus = "expired"
)

// Terminal reports whether a status ends the instance.
func (ts TaskStatus) Terminal() bool {
	return ts == TaskSucceeded || ts == TaskFailed || ts == TaskExpired
}

// Task is one live operator task. Instances are created by the spawn roll,
// mutated only through the dispatcher, and removed from the active set the
// moment they reach a terminal status.
type Task struct {
	ID           string         `json:"id"`
	DefID        catalog.TaskID `json:"def_id"`
	SpawnedTick  uint64         `json:"spawned_tick"`
	DeadlineTick uint64         `json:"deadline_tick"`
	Status       TaskStatus     `json:"status"`
	Input        string         `json:"input"`
	Selected     int            `json:"selected"`
}

// TaskOutcome reports what a submit did, for journaling.
type TaskOutcome struct {
	Def    catalog.TaskDef
	Status TaskStatus
	Reward ledger.Resources
}

// ActiveTask returns the oldest live task, or nil. Operator input always
// addresses this one.
func (s *State) ActiveTask() *Task {
	for _, t := range s.Tasks {
		if !t.Status.Terminal() {
			return t
		}
	}
	return nil
}

// TaskInput appends a typed rune to the active task. The first qualifying
// input moves a Pending task to InProgress.
func (s *State) TaskInput(r rune) error {
	t := s.ActiveTask()
	if t == nil {
		return ErrInvalidAction
	}
	if t.Status == TaskPending {
		t.Status = TaskInProgress
	}
	t.Input += string(r)
	return nil
}

// TaskBackspace removes the last typed rune from the active task.
func (s *State) TaskBackspace() error {
	t := s.ActiveTask()
	if t == nil {
		return ErrInvalidAction
	}
	if t.Status == TaskPending {
		t.Status = TaskInProgress
	}
	if n := len(t.Input); n > 0 {
		runes := []rune(t.Input)
		t.Input = string(runes[:len(runes)-1])
	}
	return nil
}

// TaskSelect moves the highlighted option of an incident-response task.
func (s *State) TaskSelect(delta int) error {
	t := s.ActiveTask()
	if t == nil {
		return ErrInvalidAction
	}
	def, ok := catalog.TaskByID(t.DefID)
	if !ok || def.Kind != catalog.TaskIncidentResponse {
		return ErrInvalidAction
	}
	if t.Status == TaskPending {
		t.Status = TaskInProgress
	}
	n := len(def.Options)
	t.Selected = ((t.Selected+delta)%n + n) % n
	return nil
}

// TaskSubmit resolves the active task. A matching command or a correct
// answer succeeds and pays the reward; a wrong answer fails the task; a
// wrong command leaves it in progress for another attempt.
func (s *State) TaskSubmit() (*TaskOutcome, error) {
	t := s.ActiveTask()
	if t == nil {
		return nil, ErrInvalidAction
	}
	def, ok := catalog.TaskByID(t.DefID)
	if !ok {
		// Dangling reference; drop the instance rather than wedge the slot.
		s.removeTask(t.ID)
		return nil, ErrInvalidAction
	}
	if t.Status == TaskPending {
		t.Status = TaskInProgress
	}

	switch def.Kind {
	case catalog.TaskTypeCommand:
		if t.Input != def.Command {
			return &TaskOutcome{Def: def, Status: t.Status}, nil
		}
	case catalog.TaskIncidentResponse:
		if t.Selected != def.Correct {
			t.Status = TaskFailed
			s.removeTask(t.ID)
			s.TaskCooldownUntil = s.TickCount + catalog.TaskCooldownTicks
			return &TaskOutcome{Def: def, Status: TaskFailed}, nil
		}
	}

	t.Status = TaskSucceeded
	reward := def.Reward.Scale(s.TaskRewardMultiplier)
	s.Resources.Add(reward)
	s.TasksCompleted++
	s.removeTask(t.ID)
	s.TaskCooldownUntil = s.TickCount + catalog.TaskCooldownTicks
	return &TaskOutcome{Def: def, Status: TaskSucceeded, Reward: reward}, nil
}

// expireTasks moves every live task at or past its deadline to Expired and
// removes it. Runs first in the tick, before the counter increments, so a
// task with deadline D is gone by the time the counter reads D+1.
func (s *State) expireTasks() []catalog.TaskDef {
	var expired []catalog.TaskDef
	for _, t := range s.Tasks {
		if t.Status.Terminal() {
			continue
		}
		if s.TickCount >= t.DeadlineTick {
			t.Status = TaskExpired
			if def, ok := catalog.TaskByID(t.DefID); ok {
				expired = append(expired, def)
			}
		}
	}
	if len(expired) > 0 {
		live := s.Tasks[:0]
		for _, t := range s.Tasks {
			if !t.Status.Terminal() {
				live = append(live, t)
			}
		}
		s.Tasks = live
		s.TaskCooldownUntil = s.TickCount + catalog.TaskCooldownTicks
	}
	return expired
}

// spawnTask rolls for a new task when a slot is free and the cooldown has
// elapsed.
func (s *State) spawnTask() *catalog.TaskDef {
	if len(s.Tasks) >= catalog.MaxConcurrentTasks {
		return nil
	}
	if s.TickCount < s.TaskCooldownUntil {
		return nil
	}
	if s.rng.Float64() >= catalog.TaskSpawnChance {
		return nil
	}
	pool := catalog.Tasks()
	def := pool[s.rng.Intn(len(pool))]
	s.Tasks = append(s.Tasks, &Task{
		ID:           uuid.NewString(),
		DefID:        def.ID,
		SpawnedTick:  s.TickCount,
		DeadlineTick: s.TickCount + def.TimeLimitTicks,
		Status:       TaskPending,
	})
	return &def
}

func (s *State) removeTask(id string) {
	for i, t := range s.Tasks {
		if t.ID == id {
			s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
			return
		}
	}
}
